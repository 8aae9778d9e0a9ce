package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/wenyan"
	"github.com/fwojciec/wenyan/goldmark"
)

var _ Block = (*FlashBlock)(nil)

// FlashBlock renders the quick answer as markdown with the query word
// highlighted.
type FlashBlock struct {
	session *wenyan.QuerySession
	theme   wenyan.Theme
	styles  Styles
	keyword string
}

// NewFlashBlock creates a FlashBlock.
func NewFlashBlock(session *wenyan.QuerySession, theme wenyan.Theme, styles Styles) *FlashBlock {
	return &FlashBlock{session: session, theme: theme, styles: styles}
}

func (b *FlashBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	if msg, ok := msg.(KeywordMsg); ok {
		b.keyword = msg.Word
	}
	return b, nil
}

func (b *FlashBlock) View(width int) string {
	text := b.session.Flash()
	if text == "" {
		return ""
	}
	body := goldmark.Render(text, goldmark.Options{
		Width:   width,
		Theme:   b.theme,
		Keyword: b.keyword,
	})
	return b.styles.Accent.Render("Quick answer") + "\n" + body
}
