package wenyan

import "sync"

// Usage tracks token consumption for one completion, with the per-token
// prices the backend charged for it. Prices are in units of 1e-7 of the
// account currency per token.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	InputUnitPrice   int64
	OutputUnitPrice  int64
}

// Cost returns the amount charged for this usage in price units.
func (u Usage) Cost() int64 {
	return int64(u.PromptTokens)*u.InputUnitPrice + int64(u.CompletionTokens)*u.OutputUnitPrice
}

// UsageTotal is the running sum kept by a UsageMeter.
type UsageTotal struct {
	PromptTokens     int
	CompletionTokens int
	PromptCost       int64
	CompletionCost   int64
}

// Cost returns the combined prompt and completion cost.
func (t UsageTotal) Cost() int64 {
	return t.PromptCost + t.CompletionCost
}

// UsageMeter accumulates usage across every query of a metering session.
// Unlike the other structured events, usage is added, never replaced.
// It is safe for concurrent use because concurrent streams share it.
type UsageMeter struct {
	mu    sync.Mutex
	total UsageTotal
}

// Add adds the deltas of u to the running total.
func (m *UsageMeter) Add(u Usage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total.PromptTokens += u.PromptTokens
	m.total.CompletionTokens += u.CompletionTokens
	m.total.PromptCost += int64(u.PromptTokens) * u.InputUnitPrice
	m.total.CompletionCost += int64(u.CompletionTokens) * u.OutputUnitPrice
}

// Total returns a snapshot of the running total.
func (m *UsageMeter) Total() UsageTotal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}
