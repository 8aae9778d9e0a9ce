// Package goldmark renders streamed answer text to ANSI-styled terminal
// output using goldmark for parsing and lipgloss for styling.
package goldmark

import "github.com/fwojciec/wenyan"

// Options control how text is rendered.
type Options struct {
	// Width wraps paragraphs and list items. Zero means 80 columns.
	Width int
	Theme wenyan.Theme
	// Keyword, when set, is highlighted wherever it occurs in plain text.
	Keyword string
}

// Render parses markdown source and returns ANSI-styled terminal output.
// Partial input from an in-progress stream renders as far as it goes.
func Render(source string, opts Options) string {
	if source == "" {
		return ""
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	r := newRenderer(opts)
	return r.render([]byte(source))
}
