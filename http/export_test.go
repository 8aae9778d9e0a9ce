package http

import "context"

// Registry exposes the live request table for testing.
type Registry = registry

var NewRegistry = newRegistry

func (r *registry) Add(id string, cancel context.CancelCauseFunc) *registration {
	return r.add(id, cancel)
}

func (r *registry) Remove(id string, reg *registration) { r.remove(id, reg) }

func (r *registry) Cancel(id string) bool { return r.cancel(id) }

func (r *registry) IDs() []string { return r.ids() }
