package wenyan

import (
	"strconv"
	"strings"
)

// Emphasize wraps every occurrence of keyword in sentence with open and
// close markers. Adjacent occurrences share one pair of markers.
func Emphasize(sentence, keyword, open, close string) string {
	if keyword == "" {
		return sentence
	}
	runes := []rune(sentence)
	marked := make([]bool, len(runes))
	kw := []rune(keyword)
	for i := 0; i+len(kw) <= len(runes); {
		if string(runes[i:i+len(kw)]) == keyword {
			for j := range kw {
				marked[i+j] = true
			}
			i += len(kw)
			continue
		}
		i++
	}
	return markRunes(runes, marked, open, close)
}

// EmphasizeIndices wraps the runes of sentence at the given indices.
func EmphasizeIndices(sentence string, indices []int, open, close string) string {
	runes := []rune(sentence)
	marked := make([]bool, len(runes))
	for _, i := range indices {
		if i >= 0 && i < len(runes) {
			marked[i] = true
		}
	}
	return markRunes(runes, marked, open, close)
}

func markRunes(runes []rune, marked []bool, open, close string) string {
	var b strings.Builder
	for i, r := range runes {
		if marked[i] && (i == 0 || !marked[i-1]) {
			b.WriteString(open)
		}
		b.WriteRune(r)
		if marked[i] && (i == len(runes)-1 || !marked[i+1]) {
			b.WriteString(close)
		}
	}
	return b.String()
}

// FormatThousands formats n with comma thousands separators.
func FormatThousands(n int64) string {
	if n < 0 {
		return "-" + FormatThousands(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
