package mock

import (
	"io"

	"github.com/fwojciec/wenyan"
)

// Stream is a test double for wenyan.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. CloseFn and StateFn are nil-safe (no-op and zero
// value) because test code commonly calls defer stream.Close() and these
// methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (wenyan.Event, error)
	StateFn func() wenyan.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (wenyan.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() wenyan.StreamState {
	if s.StateFn == nil {
		return wenyan.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Events returns a Stream that yields events in order and then finishes
// with end, or io.EOF when end is nil.
func Events(end error, events ...wenyan.Event) *Stream {
	if end == nil {
		end = io.EOF
	}
	i := 0
	return &Stream{
		NextFn: func() (wenyan.Event, error) {
			if i >= len(events) {
				return nil, end
			}
			evt := events[i]
			i++
			return evt, nil
		},
	}
}
