package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"goldenspoon/internal/domain"
	"goldenspoon/internal/service"
	"goldenspoon/internal/session"
)

// AssistantPort is the TUI-facing subset of the assistant.
type AssistantPort interface {
	Cycle(ctx context.Context, state *session.State, hooks service.TurnHooks) (service.TurnResult, error)
	Listen(ctx context.Context, state *session.State) (string, error)
	ClearMemory()
	ListenEnabled() bool
	VoiceEnabled() bool
}

type stageMsg struct{ stage service.Stage }

type partialMsg struct{ buffer string }

type turnDoneMsg struct {
	result service.TurnResult
	err    error
}

type listenDoneMsg struct {
	text string
	err  error
}

type memoryClearedMsg struct{}

// Model is the Bubble Tea model for the chat UI. Every message re-renders
// from the session state, which is the single source of truth for the log.
type Model struct {
	ctx      context.Context
	port     AssistantPort
	state    *session.State
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	summary  string
	status   string
	partial  string
	stage    service.Stage
	busy     bool
	events   chan tea.Msg
	ready    bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, port AssistantPort, state *session.State, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Or type your question here..."
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:      ctx,
		port:     port,
		state:    state,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		summary:  summary,
		stage:    service.StageIdle,
		status:   "Ask about our menu, delivery, reservations and more.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and turn events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 2 + ih + 1 // header, summary, status, help, input
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-ch)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.state.SubmitTyped(text)
			if m.busy {
				m.status = "Queued; it will be answered after the current turn."
				return m, nil
			}
			return m.startTurn()
		case "ctrl+t":
			if m.busy {
				return m, nil
			}
			if !m.port.ListenEnabled() {
				m.status = "Voice input is not configured."
				return m, nil
			}
			return m.startListening()
		case "ctrl+l":
			next := domain.Hindi
			if m.state.Language() == domain.Hindi {
				next = domain.English
			}
			m.state.SetLanguage(next)
			m.status = "Language: " + next.DisplayName()
			return m, nil
		case "ctrl+x":
			m.state.ClearLog()
			m.status = "Conversation log cleared. The assistant still remembers the conversation (ctrl+k to forget)."
			m.refresh()
			return m, nil
		case "ctrl+k":
			port := m.port
			return m, func() tea.Msg {
				port.ClearMemory()
				return memoryClearedMsg{}
			}
		}

	case memoryClearedMsg:
		if !m.busy {
			m.status = "Model memory cleared."
		}
		return m, nil

	case listenDoneMsg:
		if msg.err != nil {
			m.busy = false
			m.stage = service.StageIdle
			m.status = domain.Notice(msg.err)
			if m.state.HasPending() {
				return m.startTurn()
			}
			return m, nil
		}
		m.status = fmt.Sprintf("Heard: %q", msg.text)
		return m.startTurn()

	case stageMsg:
		m.stage = msg.stage
		if text := stageText(msg.stage); text != "" {
			m.status = text
		}
		return m, waitForEvent(m.events)

	case partialMsg:
		m.partial = msg.buffer
		m.refresh()
		return m, waitForEvent(m.events)

	case turnDoneMsg:
		m.busy = false
		m.partial = ""
		m.events = nil
		m.stage = service.StageIdle
		switch {
		case errors.Is(msg.err, domain.ErrNoInput):
			m.status = "Nothing to answer."
		case msg.err != nil:
			m.status = domain.Notice(msg.err)
		case msg.result.VoiceErr != nil:
			m.status = domain.Notice(msg.result.VoiceErr)
		default:
			m.status = "Ready."
		}
		m.refresh()
		if m.state.HasPending() {
			return m.startTurn()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startTurn runs one assistant cycle in the background. Hook callbacks are
// turned into messages and read back one at a time.
func (m Model) startTurn() (Model, tea.Cmd) {
	m.busy = true
	m.partial = ""
	events := make(chan tea.Msg, 64)
	m.events = events
	ctx, port, state := m.ctx, m.port, m.state
	run := func() tea.Msg {
		go func() {
			res, err := port.Cycle(ctx, state, service.TurnHooks{
				OnStage:   func(s service.Stage) { events <- stageMsg{stage: s} },
				OnPartial: func(b string) { events <- partialMsg{buffer: b} },
			})
			events <- turnDoneMsg{result: res, err: err}
		}()
		return <-events
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m Model) startListening() (Model, tea.Cmd) {
	m.busy = true
	m.stage = service.StageAwaitingInput
	m.status = fmt.Sprintf("Listening... Say something in %s!", m.state.Language().DisplayName())
	ctx, port, state := m.ctx, m.port, m.state
	listen := func() tea.Msg {
		text, err := port.Listen(ctx, state)
		return listenDoneMsg{text: text, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, listen)
}

func waitForEvent(events chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg { return <-events }
}

func stageText(s service.Stage) string {
	switch s {
	case service.StageRetrieving:
		return "Looking that up..."
	case service.StageGenerating:
		return "Thinking..."
	case service.StageVoicing:
		return "Speaking..."
	}
	return ""
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderConversation(m.state.Log(), m.partial, m.viewport.Width))
	m.viewport.GotoBottom()
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	lang := langStyle.Render(m.state.Language().DisplayName())
	header := headerStyle.Render("The Golden Spoon") + "  " + lang
	summary := summaryStyle.Width(max(20, m.viewport.Width)).Render(m.summary)
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := m.status
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	return header + "\n" + summary + "\n" + chat + "\n" + input + "\n" +
		statusStyle.Render(status) + "\n" + helpStyle.Render(m.help())
}

func (m Model) help() string {
	keys := []string{"enter send"}
	if m.port.ListenEnabled() {
		keys = append(keys, "ctrl+t speak")
	}
	keys = append(keys, "ctrl+l language", "ctrl+x clear log", "ctrl+k clear memory", "ctrl+c quit")
	return strings.Join(keys, " • ")
}

func renderConversation(log []domain.Turn, partial string, width int) string {
	if len(log) == 0 && partial == "" {
		return summaryStyle.Render("No messages yet.")
	}
	wrap := lipgloss.NewStyle().Width(max(10, width-2))
	var b strings.Builder
	for i, t := range log {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderTurn(t.Role, t.Text, wrap))
	}
	if partial != "" {
		if len(log) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderTurn(domain.RoleAssistant, strings.TrimSpace(partial)+"▌", wrap))
	}
	return b.String()
}

func renderTurn(role domain.Role, text string, wrap lipgloss.Style) string {
	if role == domain.RoleUser {
		return userStyle.Render("You") + "\n" + wrap.Render(text)
	}
	return assistantStyle.Render("Golden Spoon") + "\n" + wrap.Render(text)
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	langStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)
