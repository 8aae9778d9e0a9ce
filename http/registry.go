package http

import (
	"context"
	"slices"
	"sync"

	"github.com/fwojciec/wenyan"
)

// registration is the live cancellation handle of one issued request. mu
// is held while an event is delivered, so a cancel by id cannot return while
// a callback of the request is still running.
type registration struct {
	cancel   context.CancelCauseFunc
	mu       sync.Mutex
	canceled bool
}

// abort cancels the request and waits for any in-flight delivery. No event
// is delivered once it returns.
func (reg *registration) abort() {
	reg.cancel(wenyan.ErrCanceled)
	reg.mu.Lock()
	reg.canceled = true
	reg.mu.Unlock()
}

// deliver runs fn unless the request was aborted.
func (reg *registration) deliver(fn func()) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.canceled {
		return false
	}
	fn()
	return true
}

// registry tracks in-flight requests by caller-chosen id.
type registry struct {
	mu   sync.Mutex
	live map[string]*registration
}

func newRegistry() *registry {
	return &registry{live: make(map[string]*registration)}
}

// add registers cancel under id. A registration already live under the same
// id stops being tracked but is not cancelled.
func (r *registry) add(id string, cancel context.CancelCauseFunc) *registration {
	reg := &registration{cancel: cancel}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[id] = reg
	return reg
}

// remove deregisters reg if it is still the registration tracked under id.
func (r *registry) remove(id string, reg *registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.live[id] == reg {
		delete(r.live, id)
	}
}

// cancel aborts and deregisters the request live under id. It reports
// whether one was found. A callback must not cancel its own request.
func (r *registry) cancel(id string) bool {
	r.mu.Lock()
	reg, ok := r.live[id]
	delete(r.live, id)
	r.mu.Unlock()
	if ok {
		reg.abort()
	}
	return ok
}

// ids returns the live ids in sorted order.
func (r *registry) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.live))
	for id := range r.live {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
