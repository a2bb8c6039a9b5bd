package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/marmos91/sandboxfs/pkg/api"
	"github.com/marmos91/sandboxfs/pkg/files"
)

// APIError is a non-2xx response from a SandboxFS server.
type APIError struct {
	StatusCode int

	// Message is the "error" field of the envelope, or the raw body when
	// the server did not answer with an envelope.
	Message string

	Header http.Header
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("sandboxfs: status=%d: %s", e.StatusCode, e.Message)
}

// Kind maps the status code back onto the service error taxonomy.
func (e *APIError) Kind() files.Kind {
	switch e.StatusCode {
	case http.StatusNotFound:
		return files.KindNotFound
	case http.StatusConflict:
		return files.KindConflict
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return files.KindInvalidRequest
	default:
		return files.KindInternal
	}
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	if e == nil {
		return false
	}
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusRequestTimeout ||
		(e.StatusCode >= 500 && e.StatusCode <= 599)
}

// RetryAfter returns the server-suggested delay, or zero.
func (e *APIError) RetryAfter() time.Duration {
	if e == nil || e.Header == nil {
		return 0
	}
	secs, err := strconv.Atoi(e.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool { return hasKind(err, files.KindNotFound) }

// IsConflict reports whether err is a 409 from the server.
func IsConflict(err error) bool { return hasKind(err, files.KindConflict) }

// IsInvalidRequest reports whether err is a 400 or 413 from the server.
func IsInvalidRequest(err error) bool { return hasKind(err, files.KindInvalidRequest) }

func hasKind(err error, kind files.Kind) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind() == kind
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
		Header:     resp.Header.Clone(),
	}

	var envelope api.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
