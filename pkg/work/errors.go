package work

import (
	"errors"
	"fmt"
)

// Phases reported by Phase.
const (
	PhaseAuth     = "auth"
	PhaseRequest  = "request"
	PhaseResponse = "response"
)

// TransportError is a network or TLS failure; no HTTP response was received.
type TransportError struct {
	Op  string // Operation that failed (e.g., "reserve", "create-folder")
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error calling %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a response with a non-2xx status code.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *ServerError) Retryable() bool {
	return e.StatusCode >= 500
}

// ResponseShapeError means the response body was not JSON, or the expected
// field was absent or empty.
type ResponseShapeError struct {
	Op    string
	Field string // Dotted path of the missing field; empty when the body itself was unreadable
	Err   error
}

func (e *ResponseShapeError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%s: unexpected response shape at %q: %v", e.Op, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: response is missing field %q", e.Op, e.Field)
	default:
		return fmt.Sprintf("%s: invalid response body: %v", e.Op, e.Err)
	}
}

func (e *ResponseShapeError) Unwrap() error {
	return e.Err
}

// AuthError wraps any failure of the login call.
type AuthError struct {
	Method AuthMethod
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s login failed: %v", e.Method, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Phase names the phase an error came from: PhaseAuth for login failures,
// PhaseResponse for undecodable or malformed responses, and PhaseRequest for
// everything else (transport errors, non-2xx statuses, cancellation).
func Phase(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return PhaseAuth
	}
	var shapeErr *ResponseShapeError
	if errors.As(err, &shapeErr) {
		return PhaseResponse
	}
	return PhaseRequest
}

// isRetryable reports whether a failed request may be attempted again.
// Only transport failures and 5xx responses qualify.
func isRetryable(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Retryable()
	}
	return false
}
