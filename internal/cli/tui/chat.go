package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lvyanru/triagectl/internal/cli/triage"
	"github.com/lvyanru/triagectl/internal/cli/types"
)

// requestTimeout bounds one flow step, backend call included
const requestTimeout = 30 * time.Second

// ChatOptions configures the intake chat screen
type ChatOptions struct {
	// TypingDelay is how long the typing indicator shows before each reply
	TypingDelay time.Duration
	// SummaryDelay is added before the summary reply
	SummaryDelay time.Duration
	// Greeting is shown when the screen opens; empty for none
	Greeting string
}

// ChatProgram encapsulates the intake chat TUI program
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a new intake chat program
func NewChatProgram(flow *triage.Flow, opts ChatOptions) *ChatProgram {
	return &ChatProgram{model: initialChatModel(flow, opts)}
}

// Run starts the chat TUI program
func (p *ChatProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// chatModel is the Bubble Tea model of the intake chat
type chatModel struct {
	flow *triage.Flow
	conv *triage.Conversation
	opts ChatOptions

	input       textinput.Model
	contentView viewport.Model
	spinner     spinner.Model

	// busy is set from Enter until the last queued reply is shown
	busy    bool
	state   triage.State
	pending []triage.Reply
	err     error

	width  int
	height int
}

func initialChatModel(flow *triage.Flow, opts ChatOptions) chatModel {
	input := textinput.New()
	input.Placeholder = "Descreva o que está sentindo..."
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)
	contentViewport.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	conv := triage.NewConversation()
	if opts.Greeting != "" {
		conv.Add(types.SenderBot, opts.Greeting)
	}

	m := chatModel{
		flow:        flow,
		conv:        conv,
		opts:        opts,
		input:       input,
		contentView: contentViewport,
		spinner:     sp,
		state:       flow.State(),
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
	m.refreshContent()
	return m
}

// Message type definitions
type (
	flowRepliesMsg struct {
		replies []triage.Reply
		state   triage.State
		err     error
	}
	replyDueMsg struct{}
)

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.conv.IsTyping() {
			m.refreshContent()
		}
		cmds = append(cmds, cmd)

	case flowRepliesMsg:
		m.err = msg.err
		m.state = msg.state
		m.pending = msg.replies
		cmds = append(cmds, m.nextReply())

	case replyDueMsg:
		m.conv.HideTyping()
		if len(m.pending) > 0 {
			m.conv.Add(types.SenderBot, m.pending[0].Text)
			m.pending = m.pending[1:]
		}
		cmds = append(cmds, m.nextReply())
	}

	if !m.busy {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		cmds = append(cmds, tea.Quit)

	case tea.KeyEnter:
		if m.busy {
			break
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			break
		}
		m.input.Reset()
		m.conv.Add(types.SenderUser, text)
		m.busy = true
		m.err = nil
		m.refreshContent()
		cmds = append(cmds, m.handleInput(text))

	case tea.KeyCtrlL:
		if !m.busy {
			m.flow.Reset()
			m.state = m.flow.State()
			m.conv.Clear()
			if m.opts.Greeting != "" {
				m.conv.Add(types.SenderBot, m.opts.Greeting)
			}
			m.err = nil
			m.refreshContent()
		}

	case tea.KeyUp:
		m.contentView.LineUp(1)

	case tea.KeyDown:
		m.contentView.LineDown(1)

	case tea.KeyPgUp:
		m.contentView.ViewUp()

	case tea.KeyPgDown:
		m.contentView.ViewDown()
	}

	return cmds
}

// handleInput runs one flow step off the update loop
func (m *chatModel) handleInput(text string) tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		replies, err := flow.Handle(ctx, text)
		return flowRepliesMsg{replies: replies, state: flow.State(), err: err}
	}
}

// nextReply shows the typing indicator and schedules the next queued
// reply, or releases the input when the queue is empty
func (m *chatModel) nextReply() tea.Cmd {
	if len(m.pending) == 0 {
		m.busy = false
		m.refreshContent()
		return nil
	}

	delay := m.opts.TypingDelay
	if m.pending[0].Summary {
		delay += m.opts.SummaryDelay
	}
	m.conv.ShowTyping(types.SenderBot)
	m.refreshContent()
	return tea.Tick(delay, func(time.Time) tea.Msg { return replyDueMsg{} })
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	m.refreshContent()
}

// refreshContent re-renders the conversation and scrolls to the bottom
func (m *chatModel) refreshContent() {
	display := renderMessages(m.conv.Messages(), m.spinner.View()+" digitando...")
	if m.err != nil {
		display += "\n" + errorStyle.Render(fmt.Sprintf("Erro: %v", m.err))
	}

	if m.width > 0 {
		display = wrapText(display, m.width)
	}

	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	status := dimStyle.Render(fmt.Sprintf("Triagem %s • %s", shortID(m.conv.ID()), stateLabel(m.state)))
	if m.busy {
		status += dimStyle.Render(" • aguardando...")
	}

	content := m.contentView.View()

	var inputView string
	if m.busy {
		inputView = dimStyle.Render("> ") + dimStyle.Render("Aguarde a resposta...")
	} else {
		inputView = promptStyle.Render("> ") + m.input.View()
	}

	help := ""
	if !m.busy {
		help = dimStyle.Render("Enter enviar • \"corrigir\" editar respostas • Ctrl+L reiniciar • ↑↓ rolar • Esc sair")
	}

	parts := []string{status, "", content, "", inputView}
	if help != "" {
		parts = append(parts, help)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// stateLabel describes the flow state in the status bar
func stateLabel(s triage.State) string {
	switch s {
	case triage.StateCollectingSymptom:
		return "sintoma principal"
	case triage.StateCollectingDuration:
		return "duração"
	case triage.StateCollectingOtherSymptoms:
		return "outros sintomas"
	case triage.StateSubmitting:
		return "enviando"
	case triage.StateFinalized:
		return "finalizada"
	case triage.StateCorrecting:
		return "correção"
	default:
		return string(s)
	}
}
