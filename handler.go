package wenyan

// Handler is the fixed table of accumulator callbacks for one query
// invocation. Each event is delivered to exactly one slot; a nil slot drops
// the event.
//
// Text slots (OnFlash, OnThinking, OnSearchOriginal, OnExtract) receive
// incremental chunks that the caller appends. OnDictionary and OnFrequency
// receive values that replace the previous ones. OnUsage receives deltas that
// the caller adds to a running total.
type Handler struct {
	OnFlash          func(chunk string)
	OnThinking       func(chunk string)
	OnUsage          func(Usage)
	OnDictionary     func(DictionaryLookup)
	OnFrequency      func(FrequencyInfo)
	OnSearchOriginal func(chunk string)
	OnExtract        func(chunk string)
}

// Dispatch routes evt to its slot.
func (h Handler) Dispatch(evt Event) {
	switch e := evt.(type) {
	case EventFlash:
		if h.OnFlash != nil {
			h.OnFlash(e.Text)
		}
	case EventThinking:
		if h.OnThinking != nil {
			h.OnThinking(e.Text)
		}
	case EventUsage:
		if h.OnUsage != nil {
			h.OnUsage(e.Usage)
		}
	case EventDictionary:
		if h.OnDictionary != nil {
			h.OnDictionary(e.Lookup)
		}
	case EventFrequency:
		if h.OnFrequency != nil {
			h.OnFrequency(e.Info)
		}
	case EventSearchOriginal:
		if h.OnSearchOriginal != nil {
			h.OnSearchOriginal(e.Text)
		}
	case EventExtract:
		if h.OnExtract != nil {
			h.OnExtract(e.Text)
		}
	}
}

// Chain returns a Handler that calls every non-nil slot of hs in order.
// It lets a front end observe events that a QuerySession accumulates.
func Chain(hs ...Handler) Handler {
	return Handler{
		OnFlash:          chainText(hs, func(h Handler) func(string) { return h.OnFlash }),
		OnThinking:       chainText(hs, func(h Handler) func(string) { return h.OnThinking }),
		OnSearchOriginal: chainText(hs, func(h Handler) func(string) { return h.OnSearchOriginal }),
		OnExtract:        chainText(hs, func(h Handler) func(string) { return h.OnExtract }),
		OnUsage: func(u Usage) {
			for _, h := range hs {
				if h.OnUsage != nil {
					h.OnUsage(u)
				}
			}
		},
		OnDictionary: func(d DictionaryLookup) {
			for _, h := range hs {
				if h.OnDictionary != nil {
					h.OnDictionary(d)
				}
			}
		},
		OnFrequency: func(f FrequencyInfo) {
			for _, h := range hs {
				if h.OnFrequency != nil {
					h.OnFrequency(f)
				}
			}
		},
	}
}

func chainText(hs []Handler, slot func(Handler) func(string)) func(string) {
	return func(chunk string) {
		for _, h := range hs {
			if fn := slot(h); fn != nil {
				fn(chunk)
			}
		}
	}
}
