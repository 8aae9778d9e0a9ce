package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// Block is a renderable section of the result view. Unlike tea.Model, View
// takes a width parameter so the root model controls layout and blocks are
// testable in isolation. A block with nothing to show renders "".
type Block interface {
	Update(tea.Msg) (Block, tea.Cmd)
	View(width int) string
}

// ToggleMsg tells a collapsible block to toggle its collapsed state.
type ToggleMsg struct{}

// KeywordMsg tells blocks which word to highlight.
type KeywordMsg struct {
	Word string
}
