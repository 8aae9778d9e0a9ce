package bubbletea

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/wenyan"
	"github.com/mattn/go-runewidth"
)

var _ Block = (*FrequencyBlock)(nil)

const maxQueryColumn = 8

// FrequencyBlock renders corpus statistics and example sentences for the
// query word, one note per line.
type FrequencyBlock struct {
	session *wenyan.QuerySession
	styles  Styles
	page    int
}

// NewFrequencyBlock creates a FrequencyBlock.
func NewFrequencyBlock(session *wenyan.QuerySession, styles Styles) *FrequencyBlock {
	return &FrequencyBlock{session: session, styles: styles, page: 1}
}

// SetPage records which page the notes belong to.
func (b *FrequencyBlock) SetPage(page int) {
	b.page = page
}

func (b *FrequencyBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *FrequencyBlock) View(width int) string {
	info, ok := b.session.Frequency()
	if !ok {
		return ""
	}
	s := info.Stat
	lines := []string{
		b.styles.Accent.Render("Corpus") + " " + s.Query,
		b.styles.Muted.Render(fmt.Sprintf("textbook %d · dataset %d · queries %d · score %s",
			s.FreqTextbook, s.FreqDataset, s.FreqQuery, wenyan.FormatThousands(int64(s.TotalScore())))),
	}
	if len(info.Notes) == 0 {
		lines = append(lines, b.styles.Muted.Render("No example sentences"))
		return strings.Join(lines, "\n")
	}

	notes := slices.Clone(info.Notes)
	wenyan.SortNotes(notes)

	column := 0
	for _, n := range notes {
		column = max(column, runewidth.StringWidth(n.Query))
	}
	column = min(column, maxQueryColumn)

	open, close := markers(b.styles.Keyword)
	// tag + space + column + two spaces
	room := max(width-2-column-2, 8)
	for _, n := range notes {
		query := runewidth.FillRight(runewidth.Truncate(n.Query, column, "…"), column)
		sentence := runewidth.Truncate(n.Context, room, "…")
		line := b.tag(n.Type) + " " + query + "  " + wenyan.Emphasize(sentence, n.Query, open, close)
		lines = append(lines, line)
		if n.Answer != "" {
			answer := runewidth.Truncate(n.Answer, max(width-5, 8), "…")
			lines = append(lines, "   "+b.styles.Muted.Render("→ "+answer))
		}
	}
	if info.TotalPages > 1 {
		lines = append(lines, b.styles.Muted.Render(fmt.Sprintf("page %d/%d", b.page, info.TotalPages)))
	}
	return strings.Join(lines, "\n")
}

func (b *FrequencyBlock) tag(t wenyan.NoteType) string {
	switch t {
	case wenyan.NoteTextbook:
		return b.styles.Textbook.Render("T")
	case wenyan.NoteDataset:
		return b.styles.Flash.Render("D")
	default:
		return b.styles.Muted.Render("Q")
	}
}
