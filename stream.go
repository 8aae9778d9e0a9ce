package wenyan

import (
	"errors"
	"io"
)

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving events.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned a non-EOF error.
	StreamStateCanceled                     // Cancelled by id or by the caller's context.
	StreamStateClosed                       // Close() called before a terminal state.
)

// Stream uses a pull-based iterator pattern over decoded events.
//
// Next returns events in wire order. It returns io.EOF when the body ends,
// ErrCanceled once the request has been cancelled, and any other error for
// transport failures. Malformed and unknown records never surface here; the
// stream logs and skips them. After a terminal state Next keeps returning the
// same error.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Close() error
}

// Consume drains s, delivering each event to h synchronously and in arrival
// order. It returns nil when the stream completes or is cancelled.
func Consume(s Stream, h Handler) error {
	for {
		evt, err := s.Next()
		if err == io.EOF || errors.Is(err, ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
		h.Dispatch(evt)
	}
}
