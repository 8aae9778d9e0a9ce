package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/wenyan"
	"github.com/fwojciec/wenyan/goldmark"
)

var _ Block = (*AnswersBlock)(nil)

// AnswersBlock renders the explanation and numbered answers parsed from
// the deep answer. The adopted answer is marked.
type AnswersBlock struct {
	session *wenyan.QuerySession
	theme   wenyan.Theme
	styles  Styles
	keyword string
	adopted int
}

// NewAnswersBlock creates an AnswersBlock.
func NewAnswersBlock(session *wenyan.QuerySession, theme wenyan.Theme, styles Styles) *AnswersBlock {
	return &AnswersBlock{session: session, theme: theme, styles: styles}
}

// Adopt marks the answer at 1-based index as adopted. Zero clears the mark.
func (b *AnswersBlock) Adopt(index int) {
	b.adopted = index
}

// Answers returns the parsed answers.
func (b *AnswersBlock) Answers() []string {
	return b.session.Thought().Answers
}

func (b *AnswersBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	if msg, ok := msg.(KeywordMsg); ok {
		b.keyword = msg.Word
	}
	return b, nil
}

func (b *AnswersBlock) View(width int) string {
	thought := b.session.Thought()
	var sections []string
	if thought.Explain != "" {
		body := goldmark.Render(thought.Explain, goldmark.Options{
			Width:   width,
			Theme:   b.theme,
			Keyword: b.keyword,
		})
		sections = append(sections, b.styles.Accent.Render("Explanation")+"\n"+body)
	}
	if len(thought.Answers) > 0 {
		lines := []string{b.styles.Accent.Render("Answers")}
		for i, answer := range thought.Answers {
			line := fmt.Sprintf("%d. %s", i+1, b.styles.Answer.Render(answer))
			if i+1 == b.adopted {
				line += " " + b.styles.Success.Render("✓")
			}
			lines = append(lines, line)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	return strings.Join(sections, "\n\n")
}
