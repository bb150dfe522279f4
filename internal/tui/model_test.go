package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldenspoon/internal/chat/chattest"
	"goldenspoon/internal/domain"
	"goldenspoon/internal/embedding/embeddingtest"
	"goldenspoon/internal/knowledge"
	"goldenspoon/internal/service"
	"goldenspoon/internal/session"
	"goldenspoon/internal/vectorstore"
	"goldenspoon/internal/vectorstore/memory"
)

type fakeEars struct {
	text string
	err  error
}

func (f fakeEars) Hear(context.Context, domain.Language) (string, error) { return f.text, f.err }

func (f fakeEars) Transcribe(context.Context, []byte, domain.Language) (string, error) {
	return f.text, f.err
}

func newTestModel(t *testing.T, ears service.Transcriber) (Model, *chattest.Scripted) {
	t.Helper()
	coll := vectorstore.NewCollection(embeddingtest.NewTopics(), memory.NewStorage(), nil)
	require.NoError(t, coll.Index(context.Background(), knowledge.Documents()))
	chat := chattest.NewScripted()
	a, err := service.NewAssistant(service.Config{Retriever: coll, Chat: chat, Ears: ears})
	require.NoError(t, err)

	m := New(context.Background(), a, session.NewState("tui"), "A family restaurant.")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model), chat
}

// drive runs cmd and feeds the resulting turn messages back into the model
// until no more work is scheduled. Timer based messages are dropped.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "turn did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case stageMsg, partialMsg, turnDoneMsg, listenDoneMsg, memoryClearedMsg:
			next, nextCmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nextCmd)
		case spinner.TickMsg, nil:
		}
	}
	return m
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func TestTypedQuestionIsAnswered(t *testing.T) {
	m, chat := newTestModel(t, nil)
	chat.Queue(chattest.Reply{Fragments: []string{"Yes,", "we deliver."}})

	m.input.SetValue("Do you deliver?")
	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Empty(t, m.input.Value())

	m = drive(t, m, cmd)
	assert.False(t, m.busy)
	assert.Equal(t, "Ready.", m.status)
	assert.Equal(t, []domain.Turn{
		{Role: domain.RoleUser, Text: "Do you deliver?"},
		{Role: domain.RoleAssistant, Text: "Yes, we deliver."},
	}, m.state.Log())
	assert.Contains(t, m.View(), "Yes, we deliver.")
}

func TestBlankInputDoesNothing(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.input.SetValue("   ")
	next, cmd := m.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.False(t, next.(Model).busy)
}

func TestGenerationErrorShowsNotice(t *testing.T) {
	m, chat := newTestModel(t, nil)
	chat.Queue(chattest.Reply{Err: errors.New("boom")})

	m.input.SetValue("Hello")
	next, cmd := m.Update(key(tea.KeyEnter))
	m = drive(t, next.(Model), cmd)
	assert.Equal(t, domain.Notice(domain.ErrGeneration), m.status)
	assert.Len(t, m.state.Log(), 1)
}

func TestPushToTalk(t *testing.T) {
	m, _ := newTestModel(t, fakeEars{text: "What's on your menu?"})
	next, cmd := m.Update(key(tea.KeyCtrlT))
	m = next.(Model)
	assert.True(t, m.busy)
	assert.Contains(t, m.status, "Listening")

	m = drive(t, m, cmd)
	log := m.state.Log()
	require.Len(t, log, 2)
	assert.Equal(t, "What's on your menu?", log[0].Text)
}

func TestPushToTalkTimeoutLeavesLog(t *testing.T) {
	m, _ := newTestModel(t, fakeEars{err: domain.NewRecognitionError(domain.NoSpeech, nil)})
	next, cmd := m.Update(key(tea.KeyCtrlT))
	m = drive(t, next.(Model), cmd)
	assert.False(t, m.busy)
	assert.Equal(t, "No speech detected. Please speak clearly.", m.status)
	assert.Empty(t, m.state.Log())
}

func TestPushToTalkWithoutEars(t *testing.T) {
	m, _ := newTestModel(t, nil)
	next, cmd := m.Update(key(tea.KeyCtrlT))
	assert.Nil(t, cmd)
	assert.Equal(t, "Voice input is not configured.", next.(Model).status)
	assert.NotContains(t, next.(Model).help(), "ctrl+t")
}

func TestTypedInputWhileBusyIsAnsweredNext(t *testing.T) {
	m, _ := newTestModel(t, fakeEars{text: "Do you deliver?"})
	next, listenCmd := m.Update(key(tea.KeyCtrlT))
	m = next.(Model)

	m.input.SetValue("What's on your menu?")
	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "Queued")

	m = drive(t, m, listenCmd)
	log := m.state.Log()
	require.Len(t, log, 4)
	assert.Equal(t, "Do you deliver?", log[0].Text, "voice input goes first")
	assert.Equal(t, "What's on your menu?", log[2].Text)
}

func TestLanguageToggle(t *testing.T) {
	m, _ := newTestModel(t, nil)
	next, _ := m.Update(key(tea.KeyCtrlL))
	m = next.(Model)
	assert.Equal(t, domain.Hindi, m.state.Language())
	assert.Contains(t, m.View(), "Hindi")

	next, _ = m.Update(key(tea.KeyCtrlL))
	assert.Equal(t, domain.English, next.(Model).state.Language())
}

func TestClearLogKeepsMemoryAndClearMemoryKeepsLog(t *testing.T) {
	m, chat := newTestModel(t, nil)
	m.input.SetValue("Do you deliver?")
	next, cmd := m.Update(key(tea.KeyEnter))
	m = drive(t, next.(Model), cmd)
	require.Len(t, m.state.Log(), 2)

	next, _ = m.Update(key(tea.KeyCtrlX))
	m = next.(Model)
	assert.Empty(t, m.state.Log())
	assert.Equal(t, 2, chat.HistoryLen())
	assert.Contains(t, m.View(), "No messages yet.")

	m.state.Append(domain.Turn{Role: domain.RoleUser, Text: "kept"})
	next, cmd = m.Update(key(tea.KeyCtrlK))
	m = drive(t, next.(Model), cmd)
	assert.Zero(t, chat.HistoryLen())
	assert.Len(t, m.state.Log(), 1)
	assert.Equal(t, "Model memory cleared.", m.status)
}

// blockingPort is an assistant whose ClearMemory waits until released.
type blockingPort struct {
	release chan struct{}
	cleared chan struct{}
}

func (p *blockingPort) Cycle(context.Context, *session.State, service.TurnHooks) (service.TurnResult, error) {
	return service.TurnResult{}, nil
}

func (p *blockingPort) Listen(context.Context, *session.State) (string, error) { return "", nil }

func (p *blockingPort) ClearMemory() {
	<-p.release
	close(p.cleared)
}

func (p *blockingPort) ListenEnabled() bool { return false }
func (p *blockingPort) VoiceEnabled() bool { return false }

func TestClearMemoryDoesNotBlockUpdate(t *testing.T) {
	port := &blockingPort{release: make(chan struct{}), cleared: make(chan struct{})}
	m := New(context.Background(), port, session.NewState("tui"), "")

	returned := make(chan tea.Cmd, 1)
	go func() {
		_, cmd := m.Update(key(tea.KeyCtrlK))
		returned <- cmd
	}()
	var cmd tea.Cmd
	select {
	case cmd = <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Update waited for ClearMemory")
	}
	require.NotNil(t, cmd)

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()
	close(port.release)
	<-port.cleared
	assert.IsType(t, memoryClearedMsg{}, <-msgs)
}

func TestQueuedTypedInputRunsAfterFailedListen(t *testing.T) {
	m, _ := newTestModel(t, fakeEars{err: domain.NewRecognitionError(domain.Unintelligible, nil)})
	next, listenCmd := m.Update(key(tea.KeyCtrlT))
	m = next.(Model)
	m.input.SetValue("Can I make a reservation?")
	next, _ = m.Update(key(tea.KeyEnter))

	m = drive(t, next.(Model), listenCmd)
	assert.False(t, m.busy)
	assert.False(t, m.state.HasPending())
	log := m.state.Log()
	require.Len(t, log, 2)
	assert.Equal(t, "Can I make a reservation?", log[0].Text)
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, nil)
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD} {
		_, cmd := m.Update(key(k))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestRenderConversationShowsPartial(t *testing.T) {
	out := renderConversation([]domain.Turn{{Role: domain.RoleUser, Text: "Hi"}}, "Hello the ", 60)
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "Hello the▌")
	assert.True(t, strings.Index(out, "Hi") < strings.Index(out, "Hello"))
}

func TestViewBeforeResize(t *testing.T) {
	m := New(context.Background(), nil, session.NewState("x"), "")
	assert.Equal(t, "Loading...", m.View())
}
