package http

import (
	"context"
	"errors"
	"io"

	"github.com/fwojciec/wenyan"
	"github.com/fwojciec/wenyan/ndjson"
)

// Interface compliance check.
var _ wenyan.Stream = (*stream)(nil)

// stream implements [wenyan.Stream] over an NDJSON response body.
type stream struct {
	ctx    context.Context
	body   io.ReadCloser
	reader *ndjson.Reader
	state  wenyan.StreamState
	err    error // terminal error, if any
}

func (c *Client) newStream(r *request, body io.ReadCloser) *stream {
	return &stream{
		ctx:    r.ctx,
		body:   body,
		reader: ndjson.NewReader(&touchReader{r: body, req: r}, ndjson.WithLogger(c.logger.Named("ndjson"))),
		state:  wenyan.StreamStateNew,
	}
}

// Next returns the next event in wire order. Once the request is cancelled
// no further events are returned, even ones already buffered.
func (s *stream) Next() (wenyan.Event, error) {
	switch s.state {
	case wenyan.StreamStateComplete:
		return nil, io.EOF
	case wenyan.StreamStateError, wenyan.StreamStateCanceled:
		return nil, s.err
	case wenyan.StreamStateClosed:
		return nil, wenyan.ErrStreamClosed
	}
	if s.ctx.Err() != nil {
		s.terminate(s.ctx.Err())
		return nil, s.err
	}

	evt, err := s.reader.Next()
	if err == nil && s.ctx.Err() != nil {
		err = s.ctx.Err()
	}
	if err != nil {
		s.terminate(err)
		return nil, s.err
	}
	s.state = wenyan.StreamStateStreaming
	return evt, nil
}

// State returns the current stream state.
func (s *stream) State() wenyan.StreamState {
	return s.state
}

// Close closes the response body.
func (s *stream) Close() error {
	switch s.state {
	case wenyan.StreamStateComplete, wenyan.StreamStateError, wenyan.StreamStateCanceled:
	default:
		s.state = wenyan.StreamStateClosed
	}
	return s.body.Close()
}

// terminate records the terminal state. A read failing because the request
// was cancelled becomes ErrCanceled; an idle timeout stays an error.
func (s *stream) terminate(err error) {
	if err == io.EOF && s.ctx.Err() == nil {
		s.state = wenyan.StreamStateComplete
		s.err = io.EOF
		return
	}
	if s.ctx.Err() != nil {
		cause := context.Cause(s.ctx)
		if errors.Is(cause, wenyan.ErrIdleTimeout) {
			s.state = wenyan.StreamStateError
			s.err = cause
			return
		}
		s.state = wenyan.StreamStateCanceled
		s.err = wenyan.ErrCanceled
		return
	}
	s.state = wenyan.StreamStateError
	s.err = err
}

// touchReader postpones the request's idle timeout on every read that
// returns data.
type touchReader struct {
	r   io.Reader
	req *request
}

func (t *touchReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n > 0 {
		t.req.touch()
	}
	return n, err
}
