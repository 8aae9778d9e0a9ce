package wenyan

import (
	"cmp"
	"slices"
	"unicode/utf8"
)

// NoteType identifies the corpus an example note was drawn from.
type NoteType string

const (
	NoteTextbook NoteType = "textbook"
	NoteDataset  NoteType = "dataset"
	NoteQuery    NoteType = "query"
)

// Valid reports whether t is one of the known note types.
func (t NoteType) Valid() bool {
	switch t {
	case NoteTextbook, NoteDataset, NoteQuery:
		return true
	default:
		return false
	}
}

// Note is an example usage citation for a queried word.
type Note struct {
	Context string
	Query   string
	Answer  string
	Type    NoteType
}

// FrequencyStat holds how often a word appears in each corpus.
type FrequencyStat struct {
	Query        string
	FreqTextbook int
	FreqDataset  int
	FreqQuery    int
}

// TotalScore weights textbook hits highest, then user queries, then the
// general dataset.
func (s FrequencyStat) TotalScore() int {
	return s.FreqTextbook*6 + s.FreqDataset + s.FreqQuery*3
}

// FrequencyInfo is one page of frequency statistics for a word.
type FrequencyInfo struct {
	Stat       FrequencyStat
	Notes      []Note
	TotalPages int
}

// EmptyFrequencyInfo returns the value shown when the backend has no data
// for word.
func EmptyFrequencyInfo(word string) FrequencyInfo {
	return FrequencyInfo{
		Stat:       FrequencyStat{Query: word},
		TotalPages: 1,
	}
}

// SortNotes orders notes for display: shorter queries first, textbook notes
// before others of the same length, then lexicographically by query.
func SortNotes(notes []Note) {
	slices.SortStableFunc(notes, compareNotes)
}

func compareNotes(a, b Note) int {
	if c := cmp.Compare(utf8.RuneCountInString(a.Query), utf8.RuneCountInString(b.Query)); c != 0 {
		return c
	}
	at, bt := a.Type == NoteTextbook, b.Type == NoteTextbook
	switch {
	case at && !bt:
		return -1
	case bt && !at:
		return 1
	}
	return cmp.Compare(a.Query, b.Query)
}
