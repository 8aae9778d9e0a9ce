package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/wenyan"
	"go.uber.org/zap"
)

// request is one issued call, from registration to release.
type request struct {
	ctx     context.Context
	cancel  context.CancelCauseFunc
	id      string
	reg     *registration
	idle    time.Duration
	timer   *time.Timer
	release sync.Once
	client  *Client
}

// begin registers a request under id. An empty id leaves the request
// uncancellable by id. The returned request must be finished exactly once.
func (c *Client) begin(ctx context.Context, id string) *request {
	ctx, cancel := context.WithCancelCause(ctx)
	r := &request{ctx: ctx, cancel: cancel, id: id, idle: c.idleTimeout, client: c}
	if id != "" {
		r.reg = c.requests.add(id, cancel)
	}
	if r.idle > 0 {
		r.timer = time.AfterFunc(r.idle, func() { cancel(wenyan.ErrIdleTimeout) })
	}
	return r
}

// finish deregisters the request and releases its context.
func (r *request) finish() {
	r.release.Do(func() {
		if r.timer != nil {
			r.timer.Stop()
		}
		if r.reg != nil {
			r.client.requests.remove(r.id, r.reg)
		}
		r.cancel(nil)
	})
}

// touch postpones the idle timeout after the server sent something.
func (r *request) touch() {
	if r.timer != nil {
		r.timer.Reset(r.idle)
	}
}

// issue performs the HTTP call. body, when not nil, is sent as JSON.
func (c *Client) issue(r *request, method, path string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(r.ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("request issued",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("id", r.id),
	)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	r.touch()
	return resp, nil
}

// guard classifies the response status. It returns true for a 2xx
// response and false for a status listed in allowed, leaving that response
// to the caller. Any other status is surfaced to the user once and returned
// as a handled error; its body is closed.
func (c *Client) guard(resp *http.Response, allowed ...int) (bool, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true, nil
	}
	if slices.Contains(allowed, resp.StatusCode) {
		return false, nil
	}
	resp.Body.Close()

	msg := wenyan.StatusMessage(resp.StatusCode, c.guest())
	c.logger.Warn("request failed",
		zap.Int("status", resp.StatusCode),
		zap.String("path", resp.Request.URL.Path),
	)
	c.notifier.Notify(msg)
	return false, &wenyan.HandledError{Err: &wenyan.StatusError{StatusCode: resp.StatusCode, Message: msg}}
}

// fail converts a transport failure into the error returned to callers.
// A cancelled request yields nil; anything else is surfaced to the user
// once and returned as a handled error.
func (c *Client) fail(r *request, op string, err error) error {
	if r.ctx.Err() != nil {
		cause := context.Cause(r.ctx)
		if !errors.Is(cause, wenyan.ErrIdleTimeout) {
			c.logger.Debug("request aborted", zap.String("op", op), zap.String("id", r.id), zap.NamedError("cause", cause))
			return nil
		}
		err = cause
	}

	msg := wenyan.MsgNetwork
	if errors.Is(err, wenyan.ErrIdleTimeout) {
		msg = wenyan.MsgStalled
	}
	c.logger.Error("transport error", zap.String("op", op), zap.String("id", r.id), zap.Error(err))
	c.notifier.Notify(msg)
	return &wenyan.HandledError{Err: fmt.Errorf("%s: %w", op, err)}
}

// doJSON performs a non-streaming call and decodes the JSON response into
// out. It returns the response status; for a status listed in allowed, out
// is left untouched and the error is nil.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out any, allowed ...int) (int, error) {
	r := c.begin(ctx, "")
	defer r.finish()

	resp, err := c.issue(r, method, path, query, body)
	if err != nil {
		return 0, c.fail(r, op, err)
	}
	ok, err := c.guard(resp, allowed...)
	if err != nil {
		return resp.StatusCode, err
	}
	defer resp.Body.Close()
	if !ok || out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if r.ctx.Err() != nil {
			return resp.StatusCode, c.fail(r, op, err)
		}
		return resp.StatusCode, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return resp.StatusCode, nil
}

// doStream performs a streaming call registered under id and delivers its
// events to h. It returns the response status; a status listed in allowed is
// not an error and delivers only its mapped event, if that is not nil.
func (c *Client) doStream(ctx context.Context, op, id, method, path string, query url.Values, body any, h wenyan.Handler, allowed map[int]wenyan.Event) (int, error) {
	r := c.begin(ctx, id)
	defer r.finish()

	resp, err := c.issue(r, method, path, query, body)
	if err != nil {
		return 0, c.fail(r, op, err)
	}
	ok, err := c.guard(resp, slices.Collect(maps.Keys(allowed))...)
	if err != nil {
		return resp.StatusCode, err
	}
	if !ok {
		resp.Body.Close()
		if evt := allowed[resp.StatusCode]; evt != nil {
			deliver(r, h, evt)
		}
		return resp.StatusCode, nil
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		c.logger.Error("response has no body", zap.String("op", op), zap.String("id", id))
		return resp.StatusCode, fmt.Errorf("%s: %w", op, wenyan.ErrNoBody)
	}

	s := c.newStream(r, resp.Body)
	defer s.Close()
	if err := consume(r, s, h); err != nil {
		return resp.StatusCode, c.fail(r, op, err)
	}
	return resp.StatusCode, nil
}

// consume drains s into h like [wenyan.Consume], except that every event
// goes through deliver.
func consume(r *request, s *stream, h wenyan.Handler) error {
	for {
		evt, err := s.Next()
		if err == io.EOF || errors.Is(err, wenyan.ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
		if !deliver(r, h, evt) {
			return nil
		}
	}
}

// deliver dispatches evt to h. For a request registered under an id the
// dispatch holds the registration, so no callback runs after Cancel(id) has
// returned. It reports false once the request was cancelled.
func deliver(r *request, h wenyan.Handler, evt wenyan.Event) bool {
	if r.reg == nil {
		h.Dispatch(evt)
		return true
	}
	return r.reg.deliver(func() { h.Dispatch(evt) })
}
