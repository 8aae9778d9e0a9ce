package wenyan

// Event is a sealed interface representing one decoded stream record.
// Transport failures come from Stream.Next's error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventFlash carries a chunk of the quick single-line answer.
type EventFlash struct {
	Text string
}

func (EventFlash) event() {}

// EventThinking carries a chunk of the deep-thought answer. Stopped is set on
// the chunk that finishes the completion.
type EventThinking struct {
	Text    string
	Stopped bool
}

func (EventThinking) event() {}

// EventUsage reports metered token consumption for one completion.
type EventUsage struct {
	Usage Usage
}

func (EventUsage) event() {}

// EventDictionary carries a dictionary lookup for the queried word.
type EventDictionary struct {
	Lookup DictionaryLookup
}

func (EventDictionary) event() {}

// EventFrequency carries corpus frequency statistics and example notes.
type EventFrequency struct {
	Info FrequencyInfo
}

func (EventFrequency) event() {}

// EventSearchOriginal carries a chunk of a located original text.
type EventSearchOriginal struct {
	Text    string
	Stopped bool
}

func (EventSearchOriginal) event() {}

// EventExtract carries a chunk of an extracted model test.
type EventExtract struct {
	Text    string
	Stopped bool
}

func (EventExtract) event() {}

// Interface compliance checks.
var (
	_ Event = EventFlash{}
	_ Event = EventThinking{}
	_ Event = EventUsage{}
	_ Event = EventDictionary{}
	_ Event = EventFrequency{}
	_ Event = EventSearchOriginal{}
	_ Event = EventExtract{}
)

// DictionaryLookup is the structured result of a dictionary query.
type DictionaryLookup struct {
	Basic    []string
	Detailed []string
	Phrase   []string
}

// Empty reports whether the lookup has no explanations at all.
func (d DictionaryLookup) Empty() bool {
	return len(d.Basic) == 0 && len(d.Detailed) == 0 && len(d.Phrase) == 0
}
