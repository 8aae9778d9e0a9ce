package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/wenyan"
)

var _ Block = (*DictionaryBlock)(nil)

// DictionaryBlock renders the dictionary lookup.
type DictionaryBlock struct {
	session *wenyan.QuerySession
	styles  Styles
}

// NewDictionaryBlock creates a DictionaryBlock.
func NewDictionaryBlock(session *wenyan.QuerySession, styles Styles) *DictionaryBlock {
	return &DictionaryBlock{session: session, styles: styles}
}

func (b *DictionaryBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *DictionaryBlock) View(width int) string {
	lookup := b.session.Dictionary()
	if lookup.Empty() {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(max(width-2, 1))
	lines := []string{b.styles.Accent.Render("Dictionary")}
	groups := []struct {
		title   string
		entries []string
	}{
		{"Basic", lookup.Basic},
		{"Detailed", lookup.Detailed},
		{"Phrases", lookup.Phrase},
	}
	for _, g := range groups {
		if len(g.entries) == 0 {
			continue
		}
		lines = append(lines, b.styles.Muted.Render(g.title))
		for _, entry := range g.entries {
			item := wrap.Render(strings.TrimSpace(entry))
			lines = append(lines, "• "+strings.ReplaceAll(item, "\n", "\n  "))
		}
	}
	return strings.Join(lines, "\n")
}
