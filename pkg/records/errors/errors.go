package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = fmt.Errorf("not found")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrInternal = fmt.Errorf("internal error")
var ErrRequest = fmt.Errorf("request error")
var ErrBadResponse = fmt.Errorf("bad response")
var ErrValidation = fmt.Errorf("validation failed")

type backofficeError struct {
	msg    string
	target error
}

func (e backofficeError) Error() string        { return e.msg }
func (e backofficeError) Is(target error) bool { return target == e.target }

func NewNotFoundError(msg string) error {
	return &backofficeError{
		msg:    msg,
		target: ErrNotFound,
	}
}

func NewBadRequestError(msg string) error {
	return &backofficeError{
		msg:    msg,
		target: ErrBadRequest,
	}
}

func NewInternalError(msg string) error {
	return &backofficeError{
		msg:    msg,
		target: ErrInternal,
	}
}

func NewRequestError(msg string) error {
	return &backofficeError{
		msg:    msg,
		target: ErrRequest,
	}
}

func NewBadResponseError(msg string) error {
	return &backofficeError{
		msg:    msg,
		target: ErrBadResponse,
	}
}

func NewValidationError(msg string) error {
	return &backofficeError{
		msg:    msg,
		target: ErrValidation,
	}
}

// NewErrorFromResponse maps a non-2xx response from the back-office API
// to the matching sentinel. The API reports failures as {"error": ...},
// but proxies and framework defaults can produce other bodies, so the
// detail text is best effort.
func NewErrorFromResponse(code int, body []byte) error {
	report := &struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{}

	detail := fmt.Sprintf("request failed with status %d", code)

	if err := json.Unmarshal(body, report); err == nil {
		if report.Error != "" {
			detail = report.Error
		} else if report.Message != "" {
			detail = report.Message
		}
	}

	if code == http.StatusNotFound {
		return NewNotFoundError(detail)
	}

	if code >= http.StatusBadRequest && code < http.StatusInternalServerError {
		return NewBadRequestError(detail)
	}

	return NewInternalError(detail)
}

// IsRetryable reports whether the failure was a transport level problem
// that may succeed on a later attempt, as opposed to a terminal
// rejection such as a validation failure or an unknown record id.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRequest)
}
