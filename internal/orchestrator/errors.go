package orchestrator

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports a request that never produced a response: dial
// failures, timeouts, cancelled contexts.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendError reports a response the backend marked as failed. Message is
// the body's error field, surfaced verbatim to the operator.
type BackendError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return e.Message
}

// newBackendError builds a BackendError, falling back to the status text when
// the body carried no error message.
func newBackendError(op string, status int, message string) *BackendError {
	if message == "" {
		message = fmt.Sprintf("%s returned status %d", op, status)
		if text := http.StatusText(status); text != "" {
			message = fmt.Sprintf("%s returned status %d (%s)", op, status, text)
		}
	}
	return &BackendError{Op: op, StatusCode: status, Message: message}
}

// IsTransport reports whether err wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.StatusCode == http.StatusNotFound
}
