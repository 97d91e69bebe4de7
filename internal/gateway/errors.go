package gateway

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is the cause of a TransportError when a success response does not
// carry valid JSON.
var ErrMalformedResponse = errors.New("malformed response body")

// AuthRequiredError is returned when the backend rejects the session (HTTP 401). The
// session store has already been cleared when this error is returned; the caller decides
// whether to send the user back through login.
type AuthRequiredError struct {
	Method  string
	Path    string
	Message string
}

func (e *AuthRequiredError) Error() string {
	if e.Message == "" {
		return authRequiredMessage
	}
	return e.Message
}

// RequestFailedError is returned when the backend rejects a request for a business reason.
// The session is left untouched.
type RequestFailedError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *RequestFailedError) Error() string {
	if e.Message == "" {
		return fallbackMessage
	}
	return e.Message
}

// TransportError is returned when the request could not be sent or the response could not
// be read or parsed. The session is left untouched and nothing is retried.
type TransportError struct {
	Method string
	Path   string
	Op     string
	Cause  error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Op)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsAuthRequired reports whether err is, or wraps, an AuthRequiredError.
func IsAuthRequired(err error) bool {
	var target *AuthRequiredError
	return errors.As(err, &target)
}

// IsRequestFailed reports whether err is, or wraps, a RequestFailedError.
func IsRequestFailed(err error) bool {
	var target *RequestFailedError
	return errors.As(err, &target)
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// Outcome classifies err into a short label used for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsAuthRequired(err):
		return "auth_required"
	case IsRequestFailed(err):
		return "request_failed"
	case IsTransport(err):
		return "transport_error"
	default:
		return "error"
	}
}
