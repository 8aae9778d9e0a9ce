// Package bubbletea provides an interactive terminal UI for querying the
// meaning of a word in a classical Chinese sentence.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/wenyan"
)

// Coordinator is the query driver the UI runs. [wenyan.Coordinator]
// implements it.
type Coordinator interface {
	Query(ctx context.Context, q wenyan.Query, observers ...wenyan.Handler) error
	Frequency(ctx context.Context, word string, page int, observers ...wenyan.Handler) error
	Cancel()
	Session() *wenyan.QuerySession
}

// AdoptFunc records answer as the accepted meaning of q.
type AdoptFunc func(ctx context.Context, q wenyan.Query, answer string) error

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streamed event for delivery to the model. The
// event has already been recorded in the query session.
type StreamEventMsg struct {
	Event wenyan.Event
}

// QueryDoneMsg signals that every stream of a query has ended.
type QueryDoneMsg struct {
	Err error
}

// NoticeMsg carries a failure notice for the status line.
type NoticeMsg struct {
	Text string
}

// AdoptDoneMsg reports the outcome of adopting an answer.
type AdoptDoneMsg struct {
	Index int // 1-based
	Err   error
}

// Notifier implements [wenyan.Notifier] by handing notices to the UI.
// Notices that arrive while the UI is busy are dropped once the buffer is
// full.
type Notifier struct {
	ch chan string
}

var _ wenyan.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier. Pass it to the model with WithNotifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan string, 16)}
}

// Notify queues message for display.
func (n *Notifier) Notify(message string) {
	select {
	case n.ch <- message:
	default:
	}
}
