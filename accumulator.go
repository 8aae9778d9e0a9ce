package wenyan

import (
	"strings"
	"sync"
)

// Accumulator is a caller-owned text field that streamed chunks append to.
//
// The first Append after Restart replaces the previous content; later
// appends extend it. This keeps the last answer visible until the next one
// starts arriving and distinguishes "not yet started" from "received but
// empty".
type Accumulator struct {
	mu      sync.Mutex
	text    strings.Builder
	started bool
}

// Append adds a chunk, clearing the old content on the first call of a query.
func (a *Accumulator) Append(chunk string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		a.text.Reset()
		a.started = true
	}
	a.text.WriteString(chunk)
}

// Restart marks the beginning of a new query.
func (a *Accumulator) Restart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started = false
}

// Started reports whether a chunk has arrived since the last Restart.
func (a *Accumulator) Started() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}

// String returns the accumulated text.
func (a *Accumulator) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text.String()
}

// QuerySession owns the accumulator state of one user's query screen.
// Concurrent streams write to disjoint fields; the shared structured fields
// and the usage meter are guarded.
type QuerySession struct {
	meter *UsageMeter

	flash    Accumulator
	thinking Accumulator
	search   Accumulator
	extract  Accumulator

	mu         sync.Mutex
	dictionary DictionaryLookup
	frequency  *FrequencyInfo
}

// NewQuerySession creates a session that reports usage to meter. A nil meter
// gets a private one.
func NewQuerySession(meter *UsageMeter) *QuerySession {
	if meter == nil {
		meter = &UsageMeter{}
	}
	return &QuerySession{meter: meter}
}

// Begin starts a new word query and returns the handler table for it. The
// flash and thinking fields restart and the frequency info is cleared.
func (s *QuerySession) Begin() Handler {
	s.flash.Restart()
	s.thinking.Restart()

	s.mu.Lock()
	s.frequency = nil
	s.mu.Unlock()

	return s.handler()
}

// BeginFrequency starts loading another page of frequency info.
func (s *QuerySession) BeginFrequency() Handler {
	s.mu.Lock()
	s.frequency = nil
	s.mu.Unlock()

	return s.handler()
}

// BeginSearch starts an original-text search.
func (s *QuerySession) BeginSearch() Handler {
	s.search.Restart()
	return s.handler()
}

// BeginExtract starts a model-test extraction.
func (s *QuerySession) BeginExtract() Handler {
	s.extract.Restart()
	return s.handler()
}

func (s *QuerySession) handler() Handler {
	return Handler{
		OnFlash:          s.flash.Append,
		OnThinking:       s.thinking.Append,
		OnSearchOriginal: s.search.Append,
		OnExtract:        s.extract.Append,
		OnUsage:          s.meter.Add,
		OnDictionary: func(d DictionaryLookup) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.dictionary = d
		},
		OnFrequency: func(f FrequencyInfo) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.frequency = &f
		},
	}
}

// Flash returns the accumulated quick answer.
func (s *QuerySession) Flash() string { return s.flash.String() }

// Thinking returns the accumulated deep-thought text.
func (s *QuerySession) Thinking() string { return s.thinking.String() }

// Thought parses the deep-thought text into its tagged sections.
func (s *QuerySession) Thought() Thought { return ParseThought(s.thinking.String()) }

// SearchOriginal returns the accumulated original-text search result.
func (s *QuerySession) SearchOriginal() string { return s.search.String() }

// Extract returns the accumulated model-test extraction.
func (s *QuerySession) Extract() string { return s.extract.String() }

// Dictionary returns the latest dictionary lookup.
func (s *QuerySession) Dictionary() DictionaryLookup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dictionary
}

// Frequency returns the latest frequency info and whether one arrived since
// the last Begin.
func (s *QuerySession) Frequency() (FrequencyInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frequency == nil {
		return FrequencyInfo{}, false
	}
	return *s.frequency, true
}

// Usage returns the running usage total.
func (s *QuerySession) Usage() UsageTotal { return s.meter.Total() }
