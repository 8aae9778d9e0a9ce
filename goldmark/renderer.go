package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type ansiRenderer struct {
	width   int
	keyword string

	bold      lipgloss.Style
	italic    lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	highlight lipgloss.Style
}

func newRenderer(opts Options) *ansiRenderer {
	return &ansiRenderer{
		width:     opts.Width,
		keyword:   opts.Keyword,
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		heading:   lipgloss.NewStyle().Foreground(ansiColor(opts.Theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(opts.Theme.Muted)).Faint(true),
		highlight: lipgloss.NewStyle().Foreground(ansiColor(opts.Theme.Keyword)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *ansiRenderer) render(source []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	r.walkBlock(doc, source, r.width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

func (r *ansiRenderer) walkBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderBlock(c, source, width, buf)
		if c.NextSibling() != nil {
			buf.WriteString("\n")
		}
	}
}

func (r *ansiRenderer) renderBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		buf.WriteString(wrap(r.collectInline(n, source), width))
		buf.WriteString("\n")

	case *ast.Heading:
		buf.WriteString(wrap(r.heading.Render(r.collectInline(n, source)), width))
		buf.WriteString("\n")

	case *ast.Blockquote:
		// Quoted classical text keeps a gutter on every line.
		var inner bytes.Buffer
		r.walkBlock(n, source, width-2, &inner)
		gutter := r.muted.Render("│") + " "
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			buf.WriteString(gutter + line + "\n")
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.WriteString("  " + r.muted.Render(strings.TrimRight(string(line.Value(source)), "\n")))
			buf.WriteString("\n")
		}

	case *ast.List:
		r.renderList(n, source, width, buf, 0)

	case *ast.ThematicBreak:
		buf.WriteString(r.muted.Render(strings.Repeat("─", min(width, 20))))
		buf.WriteString("\n")

	case *ast.HTMLBlock:
		// Section markers the parser did not consume are shown verbatim.
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(source))
		}

	default:
		r.walkBlock(node, source, width, buf)
	}
}

func (r *ansiRenderer) renderList(node *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	n := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n)
			n++
		}
		indent := strings.Repeat("  ", depth)

		var content bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if sub, ok := ic.(*ast.List); ok {
				r.writeListItem(buf, indent, marker, content.String(), width)
				content.Reset()
				marker = strings.Repeat(" ", len(marker))
				r.renderList(sub, source, width, buf, depth+1)
				continue
			}
			content.WriteString(r.collectInline(ic, source))
		}
		if content.Len() > 0 {
			r.writeListItem(buf, indent, marker, content.String(), width)
		}
	}
}

// writeListItem writes a list item with continuation lines aligned under
// the item text.
func (r *ansiRenderer) writeListItem(buf *bytes.Buffer, indent, marker, content string, width int) {
	if content == "" {
		return
	}
	prefix := indent + marker
	pad := lipgloss.Width(prefix)
	lines := strings.Split(wrap(content, max(width-pad, 10)), "\n")
	for i, line := range lines {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
		} else {
			buf.WriteString(strings.Repeat(" ", pad) + line + "\n")
		}
	}
}

// collectInline recursively collects styled inline text from a node's children.
func (r *ansiRenderer) collectInline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &buf)
	}
	return buf.String()
}

func (r *ansiRenderer) renderInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		value := n.Segment.Value(source)
		buf.WriteString(r.emphasize(string(value)))
		if n.HardLineBreak() {
			buf.WriteByte('\n')
		} else if n.SoftLineBreak() && needsSpace(value, n.NextSibling(), source) {
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.WriteString(r.emphasize(string(n.Value)))

	case *ast.Emphasis:
		inner := r.collectInline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		buf.WriteString(r.bold.Render(r.collectInline(n, source)))

	case *ast.Link:
		buf.WriteString(r.collectInline(n, source))

	case *ast.AutoLink:
		buf.WriteString(r.muted.Render(string(n.URL(source))))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, buf)
		}
	}
}

// emphasize styles every occurrence of the keyword in s.
func (r *ansiRenderer) emphasize(s string) string {
	if r.keyword == "" || !strings.Contains(s, r.keyword) {
		return s
	}
	return strings.ReplaceAll(s, r.keyword, r.highlight.Render(r.keyword))
}

// needsSpace reports whether a soft line break between value and the next
// inline becomes a space. Chinese text joins across line breaks without one.
func needsSpace(value []byte, next ast.Node, source []byte) bool {
	last, _ := utf8.DecodeLastRune(value)
	if isCJK(last) {
		return false
	}
	if t, ok := next.(*ast.Text); ok {
		first, _ := utf8.DecodeRune(t.Segment.Value(source))
		if isCJK(first) {
			return false
		}
	}
	return true
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.In(r, unicode.Hiragana, unicode.Katakana) ||
		(r >= 0x3000 && r <= 0x303f) || (r >= 0xff00 && r <= 0xffef)
}

// wrap word-wraps s to width. lipgloss pads every line to the full width;
// the padding is trimmed so output can be embedded in other layouts.
func wrap(s string, width int) string {
	lines := strings.Split(lipgloss.NewStyle().Width(width).Render(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
