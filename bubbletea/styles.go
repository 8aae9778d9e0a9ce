package bubbletea

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/wenyan"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Keyword  lipgloss.Style
	Flash    lipgloss.Style
	Thinking lipgloss.Style
	Answer   lipgloss.Style
	Textbook lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t wenyan.Theme) Styles {
	return Styles{
		Keyword:  lipgloss.NewStyle().Foreground(ansiColor(t.Keyword)).Bold(true),
		Flash:    lipgloss.NewStyle().Foreground(ansiColor(t.Flash)),
		Thinking: lipgloss.NewStyle().Foreground(ansiColor(t.Thinking)).Faint(true),
		Answer:   lipgloss.NewStyle().Foreground(ansiColor(t.Answer)).Bold(true),
		Textbook: lipgloss.NewStyle().Foreground(ansiColor(t.Textbook)),
		Error:    lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:  lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

// markers returns the escape sequences style wraps text in, for use with
// [wenyan.Emphasize].
func markers(style lipgloss.Style) (open, close string) {
	open, close, _ = strings.Cut(style.Render("\x00"), "\x00")
	return open, close
}
