package apiclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for transport failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrNetwork indicates the request never produced an HTTP response
	// (DNS failure, connection refused, timeout, ...).
	ErrNetwork = errors.New("apiclient: network failure")

	// ErrUnauthorized indicates the server rejected the bearer
	// credential (HTTP 401). The client has already cleared the local
	// session by the time this error reaches the caller.
	ErrUnauthorized = errors.New("apiclient: authentication rejected")
)

// APIError is a non-2xx response from the backend. Detail carries the
// server-supplied human-readable message when the body had one.
type APIError struct {
	StatusCode int
	Detail     string
	err        error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("apiclient: server returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("apiclient: server returned %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.err }

// Message returns the server detail, falling back to a generic message
// suitable for direct display.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// ErrorMessage extracts a display message from any transport error:
// the server detail when present, the error text otherwise, or
// fallback when err is nil-detail and fallback is non-empty.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if fallback != "" {
		return fallback
	}
	if err != nil {
		return err.Error()
	}
	return "unknown error"
}
