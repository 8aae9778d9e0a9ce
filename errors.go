package wenyan

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a query or configuration value failed validation.
	ErrValidation = errors.New("validation error")

	// ErrMalformedEvent indicates a stream record that is not a valid event
	// envelope, or whose payload failed variant-specific validation.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrUnknownEvent indicates a well-formed envelope with an unrecognized type.
	ErrUnknownEvent = errors.New("unknown event type")

	// ErrNoBody indicates a successful response that carried no body.
	ErrNoBody = errors.New("response has no body")

	// ErrCanceled is the cancellation cause recorded when a request is
	// cancelled by id. It never reaches callers of the query methods.
	ErrCanceled = errors.New("request canceled")

	// ErrIdleTimeout indicates a stream produced no bytes within the
	// configured idle window.
	ErrIdleTimeout = errors.New("stream idle timeout")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// StatusError is an HTTP status failure classified into a user-facing message.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// HandledError wraps an error that has already been surfaced to the user
// through a Notifier. Outer callers must not report it again.
type HandledError struct {
	Err error
}

func (e *HandledError) Error() string { return e.Err.Error() }

func (e *HandledError) Unwrap() error { return e.Err }

// IsHandled reports whether err, or any error it wraps, is a HandledError.
func IsHandled(err error) bool {
	var h *HandledError
	return errors.As(err, &h)
}
