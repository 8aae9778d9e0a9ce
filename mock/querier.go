// Package mock provides test doubles for wenyan interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/wenyan"
)

// Interface compliance checks.
var (
	_ wenyan.Querier  = (*Querier)(nil)
	_ wenyan.Stream   = (*Stream)(nil)
	_ wenyan.Notifier = (*Notifier)(nil)
)

// Querier is a test double for wenyan.Querier.
// Set the function fields for the methods you need. Query methods panic when
// their field is nil to catch missing setup. CancelFn is nil-safe because
// coordinators cancel superseded requests as a matter of course.
type Querier struct {
	FlashFn          func(ctx context.Context, id string, q wenyan.Query, h wenyan.Handler) error
	ThinkingFn       func(ctx context.Context, id string, q wenyan.Query, h wenyan.Handler) error
	FrequencyInfoFn  func(ctx context.Context, id string, word string, page int, h wenyan.Handler) error
	SearchOriginalFn func(ctx context.Context, id string, excerpt string, target wenyan.SearchTarget, h wenyan.Handler) error
	CancelFn         func(id string)
}

// Flash delegates to FlashFn.
func (q *Querier) Flash(ctx context.Context, id string, query wenyan.Query, h wenyan.Handler) error {
	return q.FlashFn(ctx, id, query, h)
}

// Thinking delegates to ThinkingFn.
func (q *Querier) Thinking(ctx context.Context, id string, query wenyan.Query, h wenyan.Handler) error {
	return q.ThinkingFn(ctx, id, query, h)
}

// FrequencyInfo delegates to FrequencyInfoFn.
func (q *Querier) FrequencyInfo(ctx context.Context, id string, word string, page int, h wenyan.Handler) error {
	return q.FrequencyInfoFn(ctx, id, word, page, h)
}

// SearchOriginal delegates to SearchOriginalFn.
func (q *Querier) SearchOriginal(ctx context.Context, id string, excerpt string, target wenyan.SearchTarget, h wenyan.Handler) error {
	return q.SearchOriginalFn(ctx, id, excerpt, target, h)
}

// Cancel delegates to CancelFn. No-op when CancelFn is not set.
func (q *Querier) Cancel(id string) {
	if q.CancelFn != nil {
		q.CancelFn(id)
	}
}

// Notifier is a test double for wenyan.Notifier.
type Notifier struct {
	NotifyFn func(message string)
}

// Notify delegates to NotifyFn. No-op when NotifyFn is not set.
func (n *Notifier) Notify(message string) {
	if n.NotifyFn != nil {
		n.NotifyFn(message)
	}
}
