package wenyan

import (
	"context"
	"fmt"
	"strings"
)

// Query asks for the meaning of Word as used in Context, a classical
// Chinese sentence.
type Query struct {
	Word    string
	Context string
	// Deep selects the slower, stronger thinking model.
	Deep bool
}

// Validate checks that the query can be sent.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Word) == "" {
		return fmt.Errorf("word must not be empty: %w", ErrValidation)
	}
	if !strings.Contains(q.Context, q.Word) {
		return fmt.Errorf("word %q does not occur in context: %w", q.Word, ErrValidation)
	}
	return nil
}

// SearchTarget selects how much original text a search returns.
type SearchTarget string

const (
	SearchNone      SearchTarget = "none"
	SearchSentence  SearchTarget = "sentence"
	SearchParagraph SearchTarget = "paragraph"
	SearchFullText  SearchTarget = "full-text"
)

// Valid reports whether t is a known search target.
func (t SearchTarget) Valid() bool {
	switch t {
	case SearchNone, SearchSentence, SearchParagraph, SearchFullText:
		return true
	default:
		return false
	}
}

// Querier issues streaming queries against the backend. Each call is keyed
// by a caller-chosen request id that Cancel accepts; an empty id makes the
// request uncancellable by id. Calls block until the stream ends and deliver
// events to h in wire order. A cancelled call returns nil.
//
// Issuing a request under an id that is still live replaces the tracked
// request without cancelling it; callers cancel before reissuing.
type Querier interface {
	Flash(ctx context.Context, id string, q Query, h Handler) error
	Thinking(ctx context.Context, id string, q Query, h Handler) error
	FrequencyInfo(ctx context.Context, id string, word string, page int, h Handler) error
	SearchOriginal(ctx context.Context, id string, excerpt string, target SearchTarget, h Handler) error
	Cancel(id string)
}
