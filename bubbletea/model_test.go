package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/wenyan"
	bt "github.com/fwojciec/wenyan/bubbletea"
	"github.com/fwojciec/wenyan/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCoordinator records calls without running any streams.
type fakeCoordinator struct {
	session *wenyan.QuerySession

	mu      sync.Mutex
	queries []wenyan.Query
	pages   []int
	cancels int
}

func newFakeCoordinator() *fakeCoordinator {
	return &fakeCoordinator{session: wenyan.NewQuerySession(nil)}
}

func (f *fakeCoordinator) Query(_ context.Context, q wenyan.Query, _ ...wenyan.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return nil
}

func (f *fakeCoordinator) Frequency(_ context.Context, _ string, page int, _ ...wenyan.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, page)
	return nil
}

func (f *fakeCoordinator) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
}

func (f *fakeCoordinator) Session() *wenyan.QuerySession { return f.session }

// streamingQuerier answers every query with a fixed set of events.
func streamingQuerier() *mock.Querier {
	return &mock.Querier{
		FlashFn: func(_ context.Context, _ string, q wenyan.Query, h wenyan.Handler) error {
			h.OnFlash("quick answer for " + q.Word)
			return nil
		},
		ThinkingFn: func(_ context.Context, _ string, _ wenyan.Query, h wenyan.Handler) error {
			h.OnThinking("<think>pondering</think>\n")
			h.OnThinking("<answers>review；relearn</answers>")
			h.OnUsage(wenyan.Usage{PromptTokens: 1200, CompletionTokens: 34})
			return nil
		},
		FrequencyInfoFn: func(_ context.Context, _ string, word string, _ int, h wenyan.Handler) error {
			h.OnFrequency(wenyan.FrequencyInfo{
				Stat:       wenyan.FrequencyStat{Query: word, FreqTextbook: 1},
				Notes:      []wenyan.Note{{Query: word, Context: "mock sentence", Type: wenyan.NoteTextbook}},
				TotalPages: 2,
			})
			return nil
		},
	}
}

func initModel(t *testing.T, coord bt.Coordinator, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(coord, wenyan.DefaultTheme(), opts...)
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// drain runs the commands a query start returns until the query completes.
func drain(t *testing.T, m bt.Model, cmd tea.Cmd) bt.Model {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)

	// The first command runs the query to completion; the second listens.
	assert.Nil(t, batch[0]())
	next := batch[1]
	for next != nil {
		msg := next()
		updated, c := m.Update(msg)
		m = updated.(bt.Model)
		if _, done := msg.(bt.QueryDoneMsg); done {
			return m
		}
		next = c
	}
	t.Fatal("query never completed")
	return m
}

func submit(t *testing.T, m bt.Model, word, sentence string) (bt.Model, tea.Cmd) {
	t.Helper()
	m.Word.SetValue(word)
	m.Sentence.SetValue(sentence)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(bt.Model), cmd
}

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(newFakeCoordinator(), wenyan.DefaultTheme())

	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
	assert.False(t, m.Deep())
	assert.Equal(t, "Initializing...", m.View())

	deep := bt.New(newFakeCoordinator(), wenyan.DefaultTheme(), bt.WithDeepThinking(true))
	assert.True(t, deep.Deep())
}

func TestModel_WindowSize(t *testing.T) {
	t.Parallel()

	m := initModel(t, newFakeCoordinator())
	assert.Equal(t, 80, m.Viewport.Width)
	assert.Equal(t, 18, m.Viewport.Height) // 24 - 2 - 1 - 3

	m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.Viewport.Width)
	assert.Equal(t, 34, m.Viewport.Height)
	assert.Contains(t, m.View(), "Enter to query")
}

func TestModel_Submit(t *testing.T) {
	t.Parallel()

	t.Run("empty word is rejected", func(t *testing.T) {
		t.Parallel()

		coord := newFakeCoordinator()
		m, cmd := submit(t, initModel(t, coord), "  ", "学而时习之")

		assert.Nil(t, cmd)
		assert.False(t, m.Running())
		assert.ErrorIs(t, m.Err(), wenyan.ErrValidation)
		assert.Contains(t, m.View(), "Error:")
	})

	t.Run("valid query starts running", func(t *testing.T) {
		t.Parallel()

		coord := newFakeCoordinator()
		m, cmd := submit(t, initModel(t, coord), " 习 ", "学而时习之")

		assert.True(t, m.Running())
		assert.NoError(t, m.Err())
		require.NotNil(t, cmd)
		assert.Contains(t, m.View(), "Querying...")

		m = drain(t, m, cmd)
		assert.False(t, m.Running())
		require.Len(t, coord.queries, 1)
		assert.Equal(t, wenyan.Query{Word: "习", Context: "学而时习之"}, coord.queries[0])
	})

	t.Run("enter is ignored while running", func(t *testing.T) {
		t.Parallel()

		m, _ := submit(t, initModel(t, newFakeCoordinator()), "习", "学而时习之")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
	})

	t.Run("deep mode is sent with the query", func(t *testing.T) {
		t.Parallel()

		coord := newFakeCoordinator()
		m := initModel(t, coord)
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
		assert.True(t, m.Deep())
		assert.Contains(t, m.View(), "deep: on")

		m, cmd := submit(t, m, "习", "学而时习之")
		drain(t, m, cmd)
		require.Len(t, coord.queries, 1)
		assert.True(t, coord.queries[0].Deep)
	})
}

func TestModel_QueryCycle(t *testing.T) {
	t.Parallel()

	coord := wenyan.NewCoordinator(streamingQuerier(), wenyan.NewQuerySession(nil))
	m, cmd := submit(t, initModel(t, coord), "习", "学而时习之")
	m = drain(t, m, cmd)

	assert.False(t, m.Running())
	assert.NoError(t, m.Err())

	view := m.View()
	assert.Contains(t, view, "quick answer for 习")
	assert.Contains(t, view, "1. review")
	assert.Contains(t, view, "2. relearn")
	assert.Contains(t, view, "▶ Thinking")
	assert.Contains(t, view, "Corpus 习")
	assert.Contains(t, view, "tokens 1,200/34")
}

func TestModel_Cancel(t *testing.T) {
	t.Parallel()

	t.Run("ctrl+c while running cancels requests", func(t *testing.T) {
		t.Parallel()

		coord := newFakeCoordinator()
		m, _ := submit(t, initModel(t, coord), "习", "学而时习之")
		require.True(t, m.Running())

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		m = updated.(bt.Model)
		assert.Nil(t, cmd)
		assert.Equal(t, 1, coord.cancels)

		m = updateModel(t, m, bt.QueryDoneMsg{})
		assert.False(t, m.Running())
		assert.NoError(t, m.Err())
	})

	t.Run("ctrl+c while idle quits", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newFakeCoordinator())
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})
}

func TestModel_QueryDone(t *testing.T) {
	t.Parallel()

	t.Run("handled errors stay out of the status line", func(t *testing.T) {
		t.Parallel()

		m, _ := submit(t, initModel(t, newFakeCoordinator()), "习", "学而时习之")
		m = updateModel(t, m, bt.QueryDoneMsg{Err: &wenyan.HandledError{Err: &wenyan.StatusError{StatusCode: 503}}})
		assert.NoError(t, m.Err())
	})

	t.Run("unreported errors are shown", func(t *testing.T) {
		t.Parallel()

		m, _ := submit(t, initModel(t, newFakeCoordinator()), "习", "学而时习之")
		m = updateModel(t, m, bt.QueryDoneMsg{Err: wenyan.ErrNoBody})
		assert.ErrorIs(t, m.Err(), wenyan.ErrNoBody)
		assert.Contains(t, m.View(), "Error: response has no body")
	})
}

func TestModel_Notices(t *testing.T) {
	t.Parallel()

	n := bt.NewNotifier()
	n.Notify(wenyan.MsgUnavailable)
	m := initModel(t, newFakeCoordinator(), bt.WithNotifier(n))

	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	msg := batch[1]()
	assert.Equal(t, bt.NoticeMsg{Text: wenyan.MsgUnavailable}, msg)

	updated, cmd := m.Update(msg)
	m = updated.(bt.Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, wenyan.MsgUnavailable, m.Notice())
	assert.Contains(t, m.View(), wenyan.MsgUnavailable)
}

func TestNotifier_DropsWhenFull(t *testing.T) {
	t.Parallel()

	n := bt.NewNotifier()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			n.Notify("x")
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked")
	}
}

func TestModel_Inputs(t *testing.T) {
	t.Parallel()

	m := initModel(t, newFakeCoordinator())
	require.True(t, m.Word.Focused())

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("习")})
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.Word.Focused())
	assert.True(t, m.Sentence.Focused())

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("学而时习之")})
	assert.Equal(t, "习", m.Word.Value())
	assert.Equal(t, "学而时习之", m.Sentence.Value())

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.True(t, m.Word.Focused())
}

func TestModel_ThinkingToggle(t *testing.T) {
	t.Parallel()

	coord := newFakeCoordinator()
	coord.session.Begin().OnThinking("<think>pondering</think>")
	m := initModel(t, coord)

	assert.Contains(t, m.View(), "▶ Thinking")
	assert.NotContains(t, m.View(), "pondering")

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Contains(t, m.View(), "▼ Thinking")
	assert.Contains(t, m.View(), "pondering")
}

func TestModel_StreamEventRefreshes(t *testing.T) {
	t.Parallel()

	coord := newFakeCoordinator()
	m := initModel(t, coord)
	assert.NotContains(t, m.View(), "late chunk")

	coord.session.Begin().OnFlash("late chunk")
	m = updateModel(t, m, bt.StreamEventMsg{Event: wenyan.EventFlash{Text: "late chunk"}})
	assert.Contains(t, m.View(), "late chunk")
}

func TestModel_Adopt(t *testing.T) {
	t.Parallel()

	type adoption struct {
		q      wenyan.Query
		answer string
	}

	setup := func(t *testing.T, adopted chan<- adoption, err error) bt.Model {
		t.Helper()
		coord := newFakeCoordinator()
		adopt := func(_ context.Context, q wenyan.Query, answer string) error {
			adopted <- adoption{q: q, answer: answer}
			return err
		}
		m, cmd := submit(t, initModel(t, coord, bt.WithAdopt(adopt)), "习", "学而时习之")
		m = drain(t, m, cmd)
		coord.session.Begin().OnThinking("<answers>review；relearn</answers>")
		return updateModel(t, m, bt.StreamEventMsg{})
	}

	t.Run("alt+digit adopts the numbered answer", func(t *testing.T) {
		t.Parallel()

		adopted := make(chan adoption, 1)
		m := setup(t, adopted, nil)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})
		require.NotNil(t, cmd)
		msg := cmd()
		assert.Equal(t, bt.AdoptDoneMsg{Index: 2}, msg)

		got := <-adopted
		assert.Equal(t, "relearn", got.answer)
		assert.Equal(t, "习", got.q.Word)

		m = updateModel(t, m, msg)
		assert.Contains(t, m.View(), "2. relearn ✓")
	})

	t.Run("out of range index is ignored", func(t *testing.T) {
		t.Parallel()

		m := setup(t, make(chan adoption, 1), nil)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5"), Alt: true})
		assert.Nil(t, cmd)
	})

	t.Run("failure leaves the answer unmarked", func(t *testing.T) {
		t.Parallel()

		m := setup(t, make(chan adoption, 1), errors.New("boom"))
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true})
		require.NotNil(t, cmd)
		m = updateModel(t, m, cmd())
		assert.NotContains(t, m.View(), "✓")
		assert.EqualError(t, m.Err(), "boom")
	})

	t.Run("plain digits are typed", func(t *testing.T) {
		t.Parallel()

		m := setup(t, make(chan adoption, 1), nil)
		m.Word.SetValue("")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
		assert.Equal(t, "1", m.Word.Value())
	})
}

func TestModel_FrequencyPaging(t *testing.T) {
	t.Parallel()

	coord := newFakeCoordinator()
	m, cmd := submit(t, initModel(t, coord), "习", "学而时习之")
	m = drain(t, m, cmd)

	coord.session.BeginFrequency().OnFrequency(wenyan.FrequencyInfo{
		Stat:       wenyan.FrequencyStat{Query: "习"},
		Notes:      []wenyan.Note{{Query: "习", Context: "学而时习之", Type: wenyan.NoteTextbook}},
		TotalPages: 2,
	})

	// Page 0 does not exist.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Nil(t, cmd)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(bt.Model)
	assert.True(t, m.Running())
	m = drain(t, m, cmd)
	assert.Equal(t, []int{2}, coord.pages)

	// The fake does not deliver a new page, so the old info still says 2 pages.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Nil(t, cmd)
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	coord := wenyan.NewCoordinator(streamingQuerier(), wenyan.NewQuerySession(nil))
	m := bt.New(coord, wenyan.DefaultTheme())

	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 24),
	)

	tm.Type("x")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Type("a sentence with x")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("quick answer for x")) &&
			bytes.Contains(out, []byte("relearn")) &&
			bytes.Contains(out, []byte("Enter to query"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	final, ok := fm.(bt.Model)
	require.True(t, ok)
	assert.False(t, final.Running())
	assert.NoError(t, final.Err())
	assert.Equal(t, "quick answer for x", coord.Session().Flash())
}
