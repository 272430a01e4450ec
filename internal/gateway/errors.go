package gateway

import (
	"errors"
	"net/http"
)

var (
	// ErrAuth indicates invalid credentials or an expired/revoked session.
	ErrAuth = errors.New("authentication failed")
	// ErrValidation indicates the server rejected the request payload.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a stale id was referenced.
	ErrNotFound = errors.New("not found")
	// ErrServer indicates a 5xx response.
	ErrServer = errors.New("server error")
	// ErrNetwork indicates a transport-level failure.
	ErrNetwork = errors.New("network error")
)

// APIError is a non-2xx backend response. Message carries the server's
// "detail" field when present. It unwraps to the taxonomy sentinel for its
// status class so callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrAuth
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= 500:
		return ErrServer
	case e.Status >= 400:
		return ErrValidation
	}
	return nil
}

// UserMessage converts an operation failure into the transient text shown
// on the initiating view: the server detail when available, else fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
