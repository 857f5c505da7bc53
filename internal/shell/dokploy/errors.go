package dokploy

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrRequestFailed is returned when the request never produced a response.
	ErrRequestFailed = errors.New("dokploy request failed")

	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("dokploy rejected the API key")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("dokploy resource not found")

	// ErrUnexpectedStatus is returned for any other non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected dokploy response status")

	// ErrInvalidResponse is returned when a response body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid dokploy response")

	// ErrServerNotSpecified is returned when neither a server ID nor a name is given.
	ErrServerNotSpecified = errors.New("either server-id or server-name must be provided")

	// ErrServerNotFound is returned when no server matches the given name.
	ErrServerNotFound = errors.New("server not found")
)

// APIError wraps errors with request context.
type APIError struct {
	Op         string // Client operation (e.g., "CreateProject")
	Endpoint   string // API procedure (e.g., "project.create")
	StatusCode int    // HTTP status, 0 when no response was received
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Op, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(op, endpoint string, statusCode int, message string, err error) *APIError {
	return &APIError{
		Op:         op,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// statusError maps a non-2xx status to its sentinel error.
func statusError(code int) error {
	switch {
	case code == 401 || code == 403:
		return ErrUnauthorized
	case code == 404:
		return ErrNotFound
	default:
		return ErrUnexpectedStatus
	}
}
