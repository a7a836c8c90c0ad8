package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lvyanru/triagectl/internal/cli/triage"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/cli/ui"
)

// ticketHeightReserved is the space kept for the ticket box
const ticketHeightReserved = 12

// TotemProgram is the kiosk screen: free-text AI triage that ends with a
// printed ticket
type TotemProgram struct {
	model totemModel
}

// NewTotemProgram creates a new kiosk program
func NewTotemProgram(chat *triage.ChatService) *TotemProgram {
	return &TotemProgram{model: initialTotemModel(chat)}
}

// Run starts the kiosk TUI program
func (p *TotemProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type totemModel struct {
	chat *triage.ChatService

	input       textinput.Model
	contentView viewport.Model
	spinner     spinner.Model

	busy     bool
	ticket   *types.ChatTriageResponse
	issuedAt time.Time

	width  int
	height int
}

type totemAnswerMsg struct {
	resp *types.ChatTriageResponse
	err  error
}

func initialTotemModel(chat *triage.ChatService) totemModel {
	input := textinput.New()
	input.Placeholder = "Descreva seus sintomas..."
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	m := totemModel{
		chat:        chat,
		input:       input,
		contentView: viewport.New(defaultViewportWidth, defaultViewportHeight-ticketHeightReserved),
		spinner:     sp,
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
	m.refreshContent()
	return m
}

// Init initializes the model (Bubble Tea interface)
func (m totemModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update processes messages and updates the model (Bubble Tea interface)
func (m totemModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
		if m.ticket != nil {
			contentHeight -= ticketHeightReserved
		}
		if contentHeight < minContentHeight {
			contentHeight = minContentHeight
		}
		m.contentView.Width = msg.Width
		m.contentView.Height = contentHeight
		m.input.Width = msg.Width - 3
		m.refreshContent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.busy {
			m.refreshContent()
		}
		cmds = append(cmds, cmd)

	case totemAnswerMsg:
		m.busy = false
		if msg.err != nil {
			m.chat.HandleFailure(msg.err)
		} else {
			m.chat.HandleResponse(msg.resp)
			if msg.resp.TriageCode != "" {
				m.ticket = msg.resp
				m.issuedAt = time.Now()
			}
		}
		m.refreshContent()
	}

	if !m.busy {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *totemModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
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
		m.chat.Post(text)
		m.busy = true
		m.refreshContent()
		cmds = append(cmds, m.ask(text))

	case tea.KeyCtrlN:
		// next patient
		if !m.busy {
			m.chat.Clear()
			m.ticket = nil
			m.refreshContent()
		}

	case tea.KeyUp:
		m.contentView.LineUp(1)

	case tea.KeyDown:
		m.contentView.LineDown(1)
	}

	return cmds
}

func (m *totemModel) ask(text string) tea.Cmd {
	chat := m.chat
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := chat.Ask(ctx, text)
		return totemAnswerMsg{resp: resp, err: err}
	}
}

func (m *totemModel) refreshContent() {
	display := renderMessages(m.chat.Messages(), m.spinner.View()+" analisando seus sintomas...")
	if m.width > 0 {
		display = wrapText(display, m.width)
	}
	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

// View renders the UI (Bubble Tea interface)
func (m totemModel) View() string {
	status := accentStyle.Render("🏥 Totem de Autoatendimento")
	if m.busy {
		status += dimStyle.Render(" • analisando...")
	}

	parts := []string{status, "", m.contentView.View()}
	if m.ticket != nil {
		parts = append(parts, "", ui.RenderTicket(m.ticket.TriageCode, m.ticket.RiskLevel, m.issuedAt))
	}

	if m.busy {
		parts = append(parts, "", dimStyle.Render("> ")+dimStyle.Render("Aguarde..."))
	} else {
		parts = append(parts, "", promptStyle.Render("> ")+m.input.View())
		parts = append(parts, dimStyle.Render("Enter enviar • Ctrl+N próximo paciente • Esc sair"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
