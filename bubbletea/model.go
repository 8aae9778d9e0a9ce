package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/wenyan"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// job runs one coordinator call, forwarding events to observe.
type job func(ctx context.Context, observe wenyan.Handler) error

// Option configures a Model.
type Option func(*Model)

// WithAdopt enables adopting answers with Alt+1 to Alt+9.
func WithAdopt(fn AdoptFunc) Option {
	return func(m *Model) { m.adopt = fn }
}

// WithNotifier shows notices from n in the status line.
func WithNotifier(n *Notifier) Option {
	return func(m *Model) { m.notices = n.ch }
}

// WithDeepThinking sets the initial deep-thinking mode.
func WithDeepThinking(deep bool) Option {
	return func(m *Model) { m.deep = deep }
}

// Model is the Bubble Tea model for the query TUI.
type Model struct {
	// Word is the query word input. Exported for test access.
	Word textinput.Model
	// Sentence is the context sentence input. Exported for test access.
	Sentence textinput.Model
	// Viewport is the scrollable result area. Exported for test access.
	Viewport viewport.Model

	coord   Coordinator
	adopt   AdoptFunc
	notices <-chan string
	theme   wenyan.Theme
	styles  Styles
	deep    bool

	query wenyan.Query
	page  int

	flash      *FlashBlock
	answers    *AnswersBlock
	thinking   *ThinkingBlock
	dictionary *DictionaryBlock
	frequency  *FrequencyBlock

	running bool
	cancel  context.CancelFunc
	eventCh chan wenyan.Event
	doneCh  chan error
	err     error
	notice  string
	ready   bool
}

// New creates a new TUI Model driving coord.
func New(coord Coordinator, theme wenyan.Theme, opts ...Option) Model {
	word := textinput.New()
	word.Prompt = "word › "
	word.Placeholder = "the word to explain"
	word.Focus()

	sentence := textinput.New()
	sentence.Prompt = "sentence › "
	sentence.Placeholder = "the sentence it appears in"

	styles := NewStyles(theme)
	session := coord.Session()
	m := Model{
		Word:       word,
		Sentence:   sentence,
		coord:      coord,
		theme:      theme,
		styles:     styles,
		page:       1,
		flash:      NewFlashBlock(session, theme, styles),
		answers:    NewAnswersBlock(session, theme, styles),
		thinking:   NewThinkingBlock(session, styles),
		dictionary: NewDictionaryBlock(session, styles),
		frequency:  NewFrequencyBlock(session, styles),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Running returns whether a query is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last error no notice has reported, if any.
func (m Model) Err() error { return m.err }

// Notice returns the last notice shown in the status line.
func (m Model) Notice() string { return m.notice }

// Deep returns whether the next query asks for deep thinking.
func (m Model) Deep() bool { return m.deep }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.notices == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, listenForNotice(m.notices))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m.Viewport.SetContent(m.renderContent())
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case QueryDoneMsg:
		m.running = false
		if m.cancel != nil {
			m.cancel()
		}
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		if msg.Err != nil && !wenyan.IsHandled(msg.Err) && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m.Viewport.SetContent(m.renderContent())
		return m, nil

	case NoticeMsg:
		m.notice = msg.Text
		return m, listenForNotice(m.notices)

	case AdoptDoneMsg:
		if msg.Err != nil {
			if !wenyan.IsHandled(msg.Err) {
				m.err = msg.Err
			}
			return m, nil
		}
		m.answers.Adopt(msg.Index)
		m.Viewport.SetContent(m.renderContent())
		return m, nil
	}

	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m, cmd = m.updateInputs(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.Viewport.View())
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")

	b.WriteString(m.Word.View())
	b.WriteString("\n")
	b.WriteString(m.Sentence.View())

	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 2
	statusHeight := 1
	borderHeight := 3 // newlines between sections
	vpHeight := msg.Height - inputH - statusHeight - borderHeight

	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
		m.Viewport.SetContent(m.renderContent())
	}

	m.Word.Width = msg.Width - runewidth.StringWidth(m.Word.Prompt)
	m.Sentence.Width = msg.Width - runewidth.StringWidth(m.Sentence.Prompt)
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			// Release blocked forwarders before waiting on in-flight callbacks.
			if m.cancel != nil {
				m.cancel()
			}
			m.coord.Cancel()
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		return m.submitQuery()

	case tea.KeyTab, tea.KeyShiftTab:
		if m.Word.Focused() {
			m.Word.Blur()
			return m, m.Sentence.Focus()
		}
		m.Sentence.Blur()
		return m, m.Word.Focus()

	case tea.KeyCtrlT:
		block, cmd := m.thinking.Update(ToggleMsg{})
		m.thinking = block.(*ThinkingBlock)
		m.Viewport.SetContent(m.renderContent())
		return m, cmd

	case tea.KeyCtrlD:
		if !m.running {
			m.deep = !m.deep
		}
		return m, nil

	case tea.KeyCtrlN:
		return m.turnPage(1)

	case tea.KeyCtrlP:
		return m.turnPage(-1)
	}

	if msg.Alt && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if r := msg.Runes[0]; r >= '1' && r <= '9' {
			return m.adoptAnswer(int(r - '0'))
		}
	}

	// When idle, pass keys to both the inputs (for typing) and viewport
	// (for scrolling). Only forward non-character keys to viewport to avoid
	// conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m, cmd = m.updateInputs(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var wordCmd, sentenceCmd tea.Cmd
	m.Word, wordCmd = m.Word.Update(msg)
	m.Sentence, sentenceCmd = m.Sentence.Update(msg)
	return m, tea.Batch(wordCmd, sentenceCmd)
}

func (m Model) submitQuery() (tea.Model, tea.Cmd) {
	q := wenyan.Query{
		Word:    strings.TrimSpace(m.Word.Value()),
		Context: strings.TrimSpace(m.Sentence.Value()),
		Deep:    m.deep,
	}
	if err := q.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.notice = ""
	m.query = q
	m.page = 1
	m.frequency.SetPage(1)
	m.answers.Adopt(0)
	for _, b := range []Block{m.flash, m.answers} {
		b.Update(KeywordMsg{Word: q.Word})
	}

	return m.start(func(ctx context.Context, observe wenyan.Handler) error {
		return m.coord.Query(ctx, q, observe)
	})
}

func (m Model) turnPage(delta int) (tea.Model, tea.Cmd) {
	if m.running || m.query.Word == "" {
		return m, nil
	}
	info, ok := m.coord.Session().Frequency()
	if !ok {
		return m, nil
	}
	page := m.page + delta
	if page < 1 || page > info.TotalPages {
		return m, nil
	}
	m.page = page
	m.frequency.SetPage(page)

	word := m.query.Word
	return m.start(func(ctx context.Context, observe wenyan.Handler) error {
		return m.coord.Frequency(ctx, word, page, observe)
	})
}

func (m Model) adoptAnswer(index int) (tea.Model, tea.Cmd) {
	if m.running || m.adopt == nil {
		return m, nil
	}
	answers := m.answers.Answers()
	if index > len(answers) {
		return m, nil
	}
	adopt, q, answer := m.adopt, m.query, answers[index-1]
	return m, func() tea.Msg {
		return AdoptDoneMsg{Index: index, Err: adopt(context.Background(), q, answer)}
	}
}

func (m Model) start(run job) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan wenyan.Event, 256)
	m.doneCh = make(chan error, 1)
	m.running = true
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoTop()

	return m, tea.Batch(
		startQuery(run, ctx, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

func (m Model) blocks() []Block {
	blocks := []Block{m.flash, m.answers, m.thinking, m.dictionary, m.frequency}
	if m.err != nil {
		blocks = append([]Block{NewErrorBlock(m.err, m.styles)}, blocks...)
	}
	return blocks
}

func (m Model) renderContent() string {
	var views []string
	for _, block := range m.blocks() {
		if v := block.View(m.Viewport.Width); v != "" {
			views = append(views, v)
		}
	}
	return strings.Join(views, "\n\n")
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.notice != "" {
		return m.styles.Error.Render(m.notice)
	}
	if m.running {
		return m.styles.Muted.Render("Querying... Ctrl+C to cancel")
	}
	deep := "off"
	if m.deep {
		deep = "on"
	}
	status := fmt.Sprintf("Enter to query · Tab switch · Ctrl+D deep: %s · Ctrl+C quit", deep)
	if total := m.coord.Session().Usage(); total.PromptTokens+total.CompletionTokens > 0 {
		status += fmt.Sprintf(" · tokens %s/%s",
			wenyan.FormatThousands(int64(total.PromptTokens)),
			wenyan.FormatThousands(int64(total.CompletionTokens)))
	}
	return m.styles.Muted.Render(status)
}

// startQuery runs a coordinator call in a goroutine and signals completion.
func startQuery(run job, ctx context.Context, eventCh chan<- wenyan.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := run(ctx, forward(ctx, eventCh))
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// forward returns an observer that re-emits every event on ch.
func forward(ctx context.Context, ch chan<- wenyan.Event) wenyan.Handler {
	send := func(e wenyan.Event) {
		select {
		case ch <- e:
		case <-ctx.Done():
		}
	}
	text := func(wrap func(string) wenyan.Event) func(string) {
		return func(chunk string) { send(wrap(chunk)) }
	}
	return wenyan.Handler{
		OnFlash:          text(func(s string) wenyan.Event { return wenyan.EventFlash{Text: s} }),
		OnThinking:       text(func(s string) wenyan.Event { return wenyan.EventThinking{Text: s} }),
		OnSearchOriginal: text(func(s string) wenyan.Event { return wenyan.EventSearchOriginal{Text: s} }),
		OnExtract:        text(func(s string) wenyan.Event { return wenyan.EventExtract{Text: s} }),
		OnUsage:          func(u wenyan.Usage) { send(wenyan.EventUsage{Usage: u}) },
		OnDictionary:     func(d wenyan.DictionaryLookup) { send(wenyan.EventDictionary{Lookup: d}) },
		OnFrequency:      func(f wenyan.FrequencyInfo) { send(wenyan.EventFrequency{Info: f}) },
	}
}

// listenForEvent waits for the next event from the channel.
// When the channel closes, it reads the error from doneCh and returns QueryDoneMsg.
func listenForEvent(ch <-chan wenyan.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			err := <-doneCh
			return QueryDoneMsg{Err: err}
		}
		return StreamEventMsg{Event: evt}
	}
}

// listenForNotice waits for the next notice.
func listenForNotice(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Text: <-ch}
	}
}
