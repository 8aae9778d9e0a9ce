package ndjson

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/wenyan"
)

// Wire tags of the event variants. Several tags alias the same variant.
const (
	TypeText           = "text"
	TypeInstant        = "ai-instant"
	TypeFlash          = "ai-flash"
	TypeThought        = "ai-thought"
	TypeThinking       = "ai-thinking"
	TypeUsage          = "ai-usage"
	TypeDictionary     = "zdic"
	TypeFrequency      = "freq"
	TypeSearchOriginal = "search-original"
	TypeExtract        = "ai-extract"
)

// envelope is the outer shape of every record. Servers put the payload
// under either "data" or "result".
type envelope struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
	Result json.RawMessage `json:"result"`
}

// Parse decodes one record into an event. It returns an error wrapping
// [wenyan.ErrMalformedEvent] when the record is not a valid envelope or its
// payload fails validation, and [wenyan.ErrUnknownEvent] when the type is
// not recognized.
func Parse(line string) (wenyan.Event, error) {
	var env envelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", wenyan.ErrMalformedEvent, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", wenyan.ErrMalformedEvent)
	}
	payload := env.Data
	if isAbsent(payload) {
		payload = env.Result
	}
	if isAbsent(payload) {
		return nil, fmt.Errorf("%w: %s: missing payload", wenyan.ErrMalformedEvent, env.Type)
	}

	var (
		evt wenyan.Event
		err error
	)
	switch env.Type {
	case TypeText, TypeInstant, TypeFlash:
		evt, err = decodeFlash(payload)
	case TypeThought, TypeThinking:
		evt, err = decodeThinking(payload)
	case TypeUsage:
		evt, err = decodeUsage(payload)
	case TypeDictionary:
		evt, err = decodeDictionary(payload)
	case TypeFrequency:
		evt, err = decodeFrequency(payload)
	case TypeSearchOriginal:
		evt, err = decodeSearchOriginal(payload)
	case TypeExtract:
		evt, err = decodeExtract(payload)
	default:
		return nil, fmt.Errorf("%w: %q", wenyan.ErrUnknownEvent, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", wenyan.ErrMalformedEvent, env.Type, err)
	}
	return evt, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// chunk is a piece of streamed model output. Some variants send a bare
// string instead.
type chunk struct {
	Content *string `json:"content"`
	Stopped bool    `json:"stopped"`
}

func decodeChunk(raw json.RawMessage) (text string, stopped bool, err error) {
	if raw[0] == '"' {
		err = json.Unmarshal(raw, &text)
		return text, false, err
	}
	var c chunk
	if err := json.Unmarshal(raw, &c); err != nil {
		return "", false, err
	}
	if c.Content == nil {
		return "", false, fmt.Errorf("missing content")
	}
	return *c.Content, c.Stopped, nil
}

func decodeFlash(raw json.RawMessage) (wenyan.Event, error) {
	text, _, err := decodeChunk(raw)
	if err != nil {
		return nil, err
	}
	return wenyan.EventFlash{Text: text}, nil
}

func decodeThinking(raw json.RawMessage) (wenyan.Event, error) {
	text, stopped, err := decodeChunk(raw)
	if err != nil {
		return nil, err
	}
	return wenyan.EventThinking{Text: text, Stopped: stopped}, nil
}

func decodeSearchOriginal(raw json.RawMessage) (wenyan.Event, error) {
	text, stopped, err := decodeChunk(raw)
	if err != nil {
		return nil, err
	}
	return wenyan.EventSearchOriginal{Text: text, Stopped: stopped}, nil
}

func decodeExtract(raw json.RawMessage) (wenyan.Event, error) {
	text, stopped, err := decodeChunk(raw)
	if err != nil {
		return nil, err
	}
	return wenyan.EventExtract{Text: text, Stopped: stopped}, nil
}

type usagePrices struct {
	PromptPrice     *int64 `json:"prompt_price"`
	CompletionPrice *int64 `json:"completion_price"`
}

type usagePayload struct {
	PromptTokens     *int         `json:"prompt_tokens"`
	CompletionTokens *int         `json:"completion_tokens"`
	Model            *usagePrices `json:"model"`
	usagePrices
}

func decodeUsage(raw json.RawMessage) (wenyan.Event, error) {
	var p usagePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	prices := p.usagePrices
	if p.Model != nil {
		prices = *p.Model
	}
	if p.PromptTokens == nil || p.CompletionTokens == nil || prices.PromptPrice == nil || prices.CompletionPrice == nil {
		return nil, fmt.Errorf("usage requires prompt_tokens, completion_tokens, prompt_price and completion_price")
	}
	if *p.PromptTokens < 0 || *p.CompletionTokens < 0 {
		return nil, fmt.Errorf("negative token count")
	}
	return wenyan.EventUsage{Usage: wenyan.Usage{
		PromptTokens:     *p.PromptTokens,
		CompletionTokens: *p.CompletionTokens,
		InputUnitPrice:   *prices.PromptPrice,
		OutputUnitPrice:  *prices.CompletionPrice,
	}}, nil
}

type dictionaryPayload struct {
	Basic    []string `json:"basic_explanations"`
	Detailed []string `json:"detailed_explanations"`
	Phrase   []string `json:"phrase_explanations"`
}

func decodeDictionary(raw json.RawMessage) (wenyan.Event, error) {
	var p dictionaryPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return wenyan.EventDictionary{Lookup: wenyan.DictionaryLookup{
		Basic:    p.Basic,
		Detailed: p.Detailed,
		Phrase:   p.Phrase,
	}}, nil
}

type statPayload struct {
	Query        string `json:"query"`
	FreqTextbook int    `json:"freqTextbook"`
	FreqDataset  int    `json:"freqDataset"`
	FreqQuery    int    `json:"freqQuery"`
}

type notePayload struct {
	Context string `json:"context"`
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	Type    string `json:"type"`
}

type frequencyPayload struct {
	Stat       *statPayload  `json:"stat"`
	Notes      []notePayload `json:"notes"`
	TotalPages *int          `json:"total_pages"`
}

func decodeFrequency(raw json.RawMessage) (wenyan.Event, error) {
	var p frequencyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	info, err := p.toInfo()
	if err != nil {
		return nil, err
	}
	return wenyan.EventFrequency{Info: info}, nil
}

func (p frequencyPayload) toInfo() (wenyan.FrequencyInfo, error) {
	if p.Stat == nil {
		return wenyan.FrequencyInfo{}, fmt.Errorf("missing stat")
	}
	if p.TotalPages == nil || *p.TotalPages < 0 {
		return wenyan.FrequencyInfo{}, fmt.Errorf("missing or negative total_pages")
	}
	notes := make([]wenyan.Note, 0, len(p.Notes))
	for i, n := range p.Notes {
		typ := wenyan.NoteType(n.Type)
		if !typ.Valid() {
			return wenyan.FrequencyInfo{}, fmt.Errorf("note %d: unknown type %q", i, n.Type)
		}
		notes = append(notes, wenyan.Note{Context: n.Context, Query: n.Query, Answer: n.Answer, Type: typ})
	}
	return wenyan.FrequencyInfo{
		Stat: wenyan.FrequencyStat{
			Query:        p.Stat.Query,
			FreqTextbook: p.Stat.FreqTextbook,
			FreqDataset:  p.Stat.FreqDataset,
			FreqQuery:    p.Stat.FreqQuery,
		},
		Notes:      notes,
		TotalPages: *p.TotalPages,
	}, nil
}
