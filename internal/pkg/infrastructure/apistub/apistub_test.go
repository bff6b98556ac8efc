package apistub

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func setupStubTest(t *testing.T) (*is.I, *httptest.Server) {
	is := is.New(t)
	server := httptest.NewServer(New("backoffice-api-test"))
	t.Cleanup(server.Close)
	return is, server
}

func do(is *is.I, method, url, body string) (int, []byte) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	is.NoErr(err)
	if body != "" {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	is.NoErr(err)

	return resp.StatusCode, respBody
}

const aPolicyholder = `{"policyholder_id":"PH1","name":"Ada","contact_info":"ada@example.com"}`

func TestCreateReturnsCreatedRecord(t *testing.T) {
	is, server := setupStubTest(t)

	code, body := do(is, http.MethodPost, server.URL+"/policyholders", aPolicyholder)

	is.Equal(code, http.StatusCreated)

	created := map[string]any{}
	is.NoErr(json.Unmarshal(body, &created))
	is.Equal(created["name"], "Ada")
}

func TestCreateRejectsDuplicateKeys(t *testing.T) {
	is, server := setupStubTest(t)

	code, _ := do(is, http.MethodPost, server.URL+"/policyholders", aPolicyholder)
	is.Equal(code, http.StatusCreated)

	code, body := do(is, http.MethodPost, server.URL+"/policyholders", aPolicyholder)
	is.Equal(code, http.StatusBadRequest)
	is.True(strings.Contains(string(body), "already exists"))
}

func TestCreateEnforcesForeignKeys(t *testing.T) {
	is, server := setupStubTest(t)

	code, body := do(is, http.MethodPost, server.URL+"/policies",
		`{"policy_id":"P1","policy_type":"auto","coverage_amount":1000,"start_date":"2024-01-01","end_date":"2026-01-01","policyholder_id":"nobody"}`)

	is.Equal(code, http.StatusBadRequest)
	is.True(strings.Contains(string(body), "policyholder_id"))
}

func TestReadAllReturnsArray(t *testing.T) {
	is, server := setupStubTest(t)

	code, body := do(is, http.MethodGet, server.URL+"/policyholders", "")
	is.Equal(code, http.StatusOK)
	is.Equal(strings.TrimSpace(string(body)), "[]") // empty array, not null

	do(is, http.MethodPost, server.URL+"/policyholders", aPolicyholder)

	_, body = do(is, http.MethodGet, server.URL+"/policyholders", "")
	listed := []map[string]any{}
	is.NoErr(json.Unmarshal(body, &listed))
	is.Equal(len(listed), 1)
}

func TestReadOneReturnsObjectOr404(t *testing.T) {
	is, server := setupStubTest(t)

	do(is, http.MethodPost, server.URL+"/policyholders", aPolicyholder)

	code, body := do(is, http.MethodGet, server.URL+"/policyholders/PH1", "")
	is.Equal(code, http.StatusOK)

	record := map[string]any{}
	is.NoErr(json.Unmarshal(body, &record))
	is.Equal(record["policyholder_id"], "PH1")

	code, _ = do(is, http.MethodGet, server.URL+"/policyholders/PH2", "")
	is.Equal(code, http.StatusNotFound)
}

func TestUpdateMergesFieldsAndKeepsKey(t *testing.T) {
	is, server := setupStubTest(t)

	do(is, http.MethodPost, server.URL+"/policyholders", aPolicyholder)

	code, body := do(is, http.MethodPut, server.URL+"/policyholders/PH1",
		`{"policyholder_id":"PH9","name":"Grace"}`)
	is.Equal(code, http.StatusOK)

	record := map[string]any{}
	is.NoErr(json.Unmarshal(body, &record))
	is.Equal(record["policyholder_id"], "PH1") // key field is immutable
	is.Equal(record["name"], "Grace")
	is.Equal(record["contact_info"], "ada@example.com")
}

func TestDeleteCascades(t *testing.T) {
	is, server := setupStubTest(t)

	do(is, http.MethodPost, server.URL+"/policyholders", aPolicyholder)
	do(is, http.MethodPost, server.URL+"/policies",
		`{"policy_id":"P1","policy_type":"auto","coverage_amount":1000,"start_date":"2024-01-01","end_date":"2026-01-01","policyholder_id":"PH1"}`)
	do(is, http.MethodPost, server.URL+"/claims",
		`{"claim_id":"C1","description":"fender","amount":500,"date":"2024-01-01","status":"Pending","policy_id":"P1"}`)

	code, body := do(is, http.MethodDelete, server.URL+"/policyholders/PH1", "")
	is.Equal(code, http.StatusOK)
	is.True(strings.Contains(string(body), "deleted successfully"))

	code, _ = do(is, http.MethodGet, server.URL+"/policies/P1", "")
	is.Equal(code, http.StatusNotFound)

	code, _ = do(is, http.MethodGet, server.URL+"/claims/C1", "")
	is.Equal(code, http.StatusNotFound)
}
