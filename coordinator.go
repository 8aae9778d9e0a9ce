package wenyan

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Request kinds tracked by a Coordinator.
const (
	KindFlash     = "flash"
	KindThinking  = "thinking"
	KindFrequency = "freq"
	KindSearch    = "search"
)

// Coordinator drives the requests of one query screen. It generates request
// ids, cancels the previous request of a kind before reissuing it, and feeds
// every stream into a QuerySession.
type Coordinator struct {
	querier Querier
	session *QuerySession
	newID   func() string

	mu   sync.Mutex
	live map[string]string // kind -> request id
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithIDGenerator replaces the random request id generator.
func WithIDGenerator(fn func() string) CoordinatorOption {
	return func(c *Coordinator) { c.newID = fn }
}

// NewCoordinator creates a Coordinator that issues requests through q and
// accumulates results into s.
func NewCoordinator(q Querier, s *QuerySession, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		querier: q,
		session: s,
		newID:   uuid.NewString,
		live:    make(map[string]string),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Session returns the session the coordinator writes to.
func (c *Coordinator) Session() *QuerySession { return c.session }

// Query fires the flash, thinking and first frequency page requests for q
// concurrently and waits for all three. Observers see every event after the
// session has recorded it. The first failure is returned; the other streams
// still run to completion.
func (c *Coordinator) Query(ctx context.Context, q Query, observers ...Handler) error {
	if err := q.Validate(); err != nil {
		return err
	}
	// Superseded requests are cancelled before the session restarts so their
	// late chunks cannot land in the new answer.
	flashID := c.track(KindFlash)
	thinkingID := c.track(KindThinking)
	freqID := c.track(KindFrequency)
	h := Chain(append([]Handler{c.session.Begin()}, observers...)...)

	var g errgroup.Group
	g.Go(func() error {
		defer c.untrack(KindFlash, flashID)
		return c.querier.Flash(ctx, flashID, q, h)
	})
	g.Go(func() error {
		defer c.untrack(KindThinking, thinkingID)
		return c.querier.Thinking(ctx, thinkingID, q, h)
	})
	g.Go(func() error {
		defer c.untrack(KindFrequency, freqID)
		return c.querier.FrequencyInfo(ctx, freqID, q.Word, 1, h)
	})
	return g.Wait()
}

// Frequency loads another page of frequency info for word.
func (c *Coordinator) Frequency(ctx context.Context, word string, page int, observers ...Handler) error {
	id := c.track(KindFrequency)
	h := Chain(append([]Handler{c.session.BeginFrequency()}, observers...)...)
	defer c.untrack(KindFrequency, id)
	return c.querier.FrequencyInfo(ctx, id, word, page, h)
}

// SearchOriginal locates the original text that excerpt was taken from.
func (c *Coordinator) SearchOriginal(ctx context.Context, excerpt string, target SearchTarget, observers ...Handler) error {
	id := c.track(KindSearch)
	h := Chain(append([]Handler{c.session.BeginSearch()}, observers...)...)
	defer c.untrack(KindSearch, id)
	return c.querier.SearchOriginal(ctx, id, excerpt, target, h)
}

// Cancel cancels every in-flight request.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	ids := make([]string, 0, len(c.live))
	for kind, id := range c.live {
		ids = append(ids, id)
		delete(c.live, kind)
	}
	c.mu.Unlock()
	for _, id := range ids {
		c.querier.Cancel(id)
	}
}

// CancelKind cancels the in-flight request of one kind, if any.
func (c *Coordinator) CancelKind(kind string) {
	c.mu.Lock()
	id, ok := c.live[kind]
	delete(c.live, kind)
	c.mu.Unlock()
	if ok {
		c.querier.Cancel(id)
	}
}

// InFlight returns the request id of each in-flight kind.
func (c *Coordinator) InFlight() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.live))
	for k, v := range c.live {
		out[k] = v
	}
	return out
}

// track registers a fresh id for kind, cancelling the request it supersedes.
func (c *Coordinator) track(kind string) string {
	id := kind + "-" + c.newID()
	c.mu.Lock()
	prev, ok := c.live[kind]
	c.live[kind] = id
	c.mu.Unlock()
	if ok {
		c.querier.Cancel(prev)
	}
	return id
}

func (c *Coordinator) untrack(kind, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live[kind] == id {
		delete(c.live, kind)
	}
}
