package bubbletea

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/wenyan"
)

var _ Block = (*ErrorBlock)(nil)

// ErrorBlock renders a query failure that no notice has reported yet:
// a rejected query before anything was sent, or a broken response.
type ErrorBlock struct {
	err    error
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(err error, styles Styles) *ErrorBlock {
	return &ErrorBlock{err: err, styles: styles}
}

func (b *ErrorBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *ErrorBlock) View(width int) string {
	title, hint := describe(b.err)
	lines := []string{b.styles.Error.Render(title), b.err.Error()}
	if hint != "" {
		lines = append(lines, b.styles.Muted.Render(hint))
	}
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func describe(err error) (title, hint string) {
	switch {
	case errors.Is(err, wenyan.ErrValidation):
		return "Invalid query", "The word must appear in the sentence."
	case errors.Is(err, wenyan.ErrNoBody):
		return "Empty response", "The server answered without a body. Try again."
	default:
		return "Query failed", ""
	}
}
