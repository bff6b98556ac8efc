package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"github.com/insurdesk/backoffice/pkg/records"
	"github.com/insurdesk/backoffice/pkg/records/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RecordClient issues exactly one HTTP call per method invocation
// against a single REST resource. No retries, no coalescing.
type RecordClient interface {
	Create(ctx context.Context, record records.Record) (records.Record, error)
	Query(ctx context.Context, searchKey string) ([]records.Record, error)
	Update(ctx context.Context, searchKey string, record records.Record) (records.Record, error)
	Delete(ctx context.Context, searchKey string) (string, error)
}

func Debug(enabled string) func(*restClient) {
	return func(c *restClient) {
		c.debug = (enabled == "true")
	}
}

func New(apiBaseURL, resource string, options ...func(*restClient)) RecordClient {
	c := &restClient{
		baseURL:  apiBaseURL,
		resource: resource,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

const (
	TraceAttributeResource  string = "backoffice-resource"
	TraceAttributeSearchKey string = "search-key"
)

var tracer = otel.Tracer("backoffice-client")

type restClient struct {
	baseURL  string
	resource string
	debug    bool
}

func (c restClient) collectionURL() string {
	return c.baseURL + "/" + c.resource
}

func (c restClient) recordURL(searchKey string) string {
	return c.collectionURL() + "/" + url.PathEscape(searchKey)
}

func (c restClient) Create(ctx context.Context, record records.Record) (records.Record, error) {
	var err error

	ctx, span := tracer.Start(ctx, "create-record",
		trace.WithAttributes(attribute.String(TraceAttributeResource, c.resource)),
	)
	defer func() { endSpan(span, err) }()

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, errors.NewBadResponseError(fmt.Sprintf("failed to serialize record: %s", err.Error()))
	}

	resp, respBody, err := c.call(ctx, http.MethodPost, c.collectionURL(), bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		err = errors.NewErrorFromResponse(resp.StatusCode, respBody)
		return nil, err
	}

	created := records.Record{}
	err = json.Unmarshal(respBody, &created)
	if err != nil {
		err = fmt.Errorf("failed to decode created record: %s (%w)", err.Error(), errors.ErrBadResponse)
		return nil, err
	}

	return created, nil
}

// Query requests the full collection when the search key is empty, or a
// single record by key otherwise. The result is always normalized to a
// sequence: an array response is used verbatim and an object response
// is wrapped in a one element slice. Callers must not assume the
// transport returns a uniform shape.
func (c restClient) Query(ctx context.Context, searchKey string) ([]records.Record, error) {
	var err error

	ctx, span := tracer.Start(ctx, "query-records",
		trace.WithAttributes(attribute.String(TraceAttributeResource, c.resource)),
		trace.WithAttributes(attribute.String(TraceAttributeSearchKey, searchKey)),
	)
	defer func() { endSpan(span, err) }()

	endpoint := c.collectionURL()
	if searchKey != "" {
		endpoint = c.recordURL(searchKey)
	}

	resp, respBody, err := c.call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.NewErrorFromResponse(resp.StatusCode, respBody)
		return nil, err
	}

	resultSet, err := decodeResultSet(respBody)
	if err != nil {
		return nil, err
	}

	return resultSet, nil
}

// Update sends the full record to the single record address identified
// by the search key. Addressing is strictly via the search key; the
// record's own key field never participates.
func (c restClient) Update(ctx context.Context, searchKey string, record records.Record) (records.Record, error) {
	var err error

	ctx, span := tracer.Start(ctx, "update-record",
		trace.WithAttributes(attribute.String(TraceAttributeResource, c.resource)),
		trace.WithAttributes(attribute.String(TraceAttributeSearchKey, searchKey)),
	)
	defer func() { endSpan(span, err) }()

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, errors.NewBadResponseError(fmt.Sprintf("failed to serialize record: %s", err.Error()))
	}

	resp, respBody, err := c.call(ctx, http.MethodPut, c.recordURL(searchKey), bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.NewErrorFromResponse(resp.StatusCode, respBody)
		return nil, err
	}

	updated := records.Record{}
	err = json.Unmarshal(respBody, &updated)
	if err != nil {
		err = fmt.Errorf("failed to decode updated record: %s (%w)", err.Error(), errors.ErrBadResponse)
		return nil, err
	}

	return updated, nil
}

// Delete removes the record identified by the search key and returns
// the confirmation message provided by the API, if any. No record data
// from the response is ever retained.
func (c restClient) Delete(ctx context.Context, searchKey string) (string, error) {
	var err error

	ctx, span := tracer.Start(ctx, "delete-record",
		trace.WithAttributes(attribute.String(TraceAttributeResource, c.resource)),
		trace.WithAttributes(attribute.String(TraceAttributeSearchKey, searchKey)),
	)
	defer func() { endSpan(span, err) }()

	resp, respBody, err := c.call(ctx, http.MethodDelete, c.recordURL(searchKey), nil)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		err = errors.NewErrorFromResponse(resp.StatusCode, respBody)
		return "", err
	}

	confirmation := &struct {
		Message string `json:"message"`
	}{}

	if json.Unmarshal(respBody, confirmation) != nil || confirmation.Message == "" {
		return "record deleted successfully", nil
	}

	return confirmation.Message, nil
}

func (c restClient) call(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, []byte, error) {
	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrInternal)
	}

	req.Header.Add("X-Request-Id", uuid.NewString())

	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	if c.debug && resp.StatusCode >= http.StatusBadRequest {
		reqbytes, _ := httputil.DumpRequest(req, false)
		respbytes, _ := httputil.DumpResponse(resp, false)

		log := logging.GetFromContext(ctx)
		log.Error("request failed", "request", string(reqbytes), "response", string(respbytes))
	}

	return resp, respBody, nil
}

func decodeResultSet(body []byte) ([]records.Record, error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		resultSet := []records.Record{}
		err := json.Unmarshal(trimmed, &resultSet)
		if err != nil {
			return nil, fmt.Errorf("failed to decode result set: %s (%w)", err.Error(), errors.ErrBadResponse)
		}
		return resultSet, nil
	}

	single := records.Record{}
	err := json.Unmarshal(trimmed, &single)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	return []records.Record{single}, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
