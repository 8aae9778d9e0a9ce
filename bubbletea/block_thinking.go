package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/wenyan"
)

var _ Block = (*ThinkingBlock)(nil)

// ThinkingBlock renders the reasoning part of the deep answer with a
// collapsible toggle.
type ThinkingBlock struct {
	session   *wenyan.QuerySession
	collapsed bool
	styles    Styles
}

// NewThinkingBlock creates a ThinkingBlock that starts collapsed.
func NewThinkingBlock(session *wenyan.QuerySession, styles Styles) *ThinkingBlock {
	return &ThinkingBlock{session: session, collapsed: true, styles: styles}
}

func (b *ThinkingBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *ThinkingBlock) View(width int) string {
	if b.session.Thinking() == "" {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(width)

	indicator := "▶"
	if !b.collapsed {
		indicator = "▼"
	}
	header := b.styles.Thinking.Render(wrap.Render(indicator + " Thinking"))
	if b.collapsed {
		return header
	}
	think := b.session.Thought().Think
	if think == "" {
		return header
	}
	return header + "\n" + b.styles.Thinking.Render(wrap.Render(think))
}
