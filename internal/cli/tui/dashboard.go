package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lvyanru/triagectl/internal/cli/dashboard"
	"github.com/lvyanru/triagectl/internal/cli/ui"
	"github.com/lvyanru/triagectl/internal/domain"
)

var sortCycle = []dashboard.SortKey{
	dashboard.SortByUrgency,
	dashboard.SortByName,
	dashboard.SortByAge,
	dashboard.SortByDuration,
}

// DashboardProgram is the doctor's patient board screen
type DashboardProgram struct {
	model dashboardModel
}

// NewDashboardProgram creates a new dashboard program
func NewDashboardProgram(board *dashboard.Board, doctorName string) *DashboardProgram {
	return &DashboardProgram{model: initialDashboardModel(board, doctorName)}
}

// Run starts the dashboard TUI program
func (p *DashboardProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type dashboardModel struct {
	board      *dashboard.Board
	doctorName string

	contentView viewport.Model
	notes       textinput.Model
	// writing is set while the analysis input has focus
	writing bool

	flash    string
	flashErr bool

	width  int
	height int
}

func initialDashboardModel(board *dashboard.Board, doctorName string) dashboardModel {
	notes := textinput.New()
	notes.Placeholder = "Digite sua análise..."
	notes.CharLimit = inputCharLimit
	notes.Width = defaultInputWidth
	notes.Prompt = ""

	m := dashboardModel{
		board:       board,
		doctorName:  doctorName,
		contentView: viewport.New(defaultViewportWidth, defaultViewportHeight),
		notes:       notes,
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
	m.refreshContent()
	return m
}

// Init initializes the model (Bubble Tea interface)
func (m dashboardModel) Init() tea.Cmd {
	return nil
}

// Update processes messages and updates the model (Bubble Tea interface)
func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	wasWriting := m.writing

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.writing {
			cmds = append(cmds, m.handleNotesKey(msg)...)
		} else {
			cmds = append(cmds, m.handleKeyPress(msg)...)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := msg.Height - inputHeightReserved - statusHeightReserved - 2
		if contentHeight < minContentHeight {
			contentHeight = minContentHeight
		}
		m.contentView.Width = msg.Width
		m.contentView.Height = contentHeight
		m.notes.Width = msg.Width - 3
		m.refreshContent()
	}

	// the key that opens the input is not typed into it
	if wasWriting && m.writing {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles board navigation keys
func (m *dashboardModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	m.flash = ""

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return []tea.Cmd{tea.Quit}
	case tea.KeyRight, tea.KeyDown:
		m.board.Next()
	case tea.KeyLeft, tea.KeyUp:
		m.board.Previous()
	case tea.KeyPgUp:
		m.contentView.ViewUp()
		return nil
	case tea.KeyPgDown:
		m.contentView.ViewDown()
		return nil
	case tea.KeyRunes:
		return m.handleRune(msg.String())
	}

	m.refreshContent()
	return nil
}

func (m *dashboardModel) handleRune(key string) []tea.Cmd {
	switch key {
	case "q":
		return []tea.Cmd{tea.Quit}
	case "g":
		_ = m.board.SetView(dashboard.ViewGrid)
	case "l":
		_ = m.board.SetView(dashboard.ViewList)
	case "c":
		_ = m.board.SetView(dashboard.ViewCarousel)
	case "s":
		key, _ := m.board.Sort()
		_ = m.board.SortBy(nextSortKey(key))
	case "d":
		m.board.ToggleDirection()
	case "x":
		m.completeCurrent()
	case "a":
		if _, ok := m.board.Current(); ok {
			m.writing = true
			m.notes.Reset()
			m.notes.Focus()
			m.refreshContent()
			return []tea.Cmd{textinput.Blink}
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if err := m.board.GoTo(int(key[0] - '1')); err != nil {
				m.setFlash(domain.UserMessage(err), true)
			}
		}
	}

	m.refreshContent()
	return nil
}

// handleNotesKey handles keys while the analysis input is focused
func (m *dashboardModel) handleNotesKey(msg tea.KeyMsg) []tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []tea.Cmd{tea.Quit}
	case tea.KeyEsc:
		m.writing = false
		m.notes.Blur()
	case tea.KeyEnter:
		p, ok := m.board.Current()
		if !ok {
			m.writing = false
			break
		}
		if _, err := m.board.SendAnalysis(p.ID, m.notes.Value()); err != nil {
			m.setFlash(domain.UserMessage(err), true)
			break
		}
		m.writing = false
		m.notes.Blur()
		m.setFlash(fmt.Sprintf("Análise enviada para %s!", p.Name), false)
	}
	m.refreshContent()
	return nil
}

func (m *dashboardModel) completeCurrent() {
	p, ok := m.board.Current()
	if !ok {
		return
	}
	if _, err := m.board.Complete(p.ID); err != nil {
		m.setFlash(domain.UserMessage(err), true)
		return
	}
	m.setFlash(fmt.Sprintf("%s foi marcado como atendido!", p.Name), false)
}

func (m *dashboardModel) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

func (m *dashboardModel) refreshContent() {
	patients := m.board.Patients()

	var body string
	switch m.board.View() {
	case dashboard.ViewList:
		body = ui.RenderPatientTable(patients, m.board.Slide())
	case dashboard.ViewCarousel:
		if p, ok := m.board.Current(); ok {
			body = ui.RenderPatientCard(p, m.board.Slide(), len(patients))
		} else {
			body = ui.RenderPatientGrid(nil)
		}
	default:
		body = ui.RenderPatientGrid(patients)
		if p, ok := m.board.Current(); ok {
			body += "\n\n" + dimStyle.Render("Selecionado: ") + boldStyle.Render(p.Name)
		}
	}

	m.contentView.SetContent(body)
}

// View renders the UI (Bubble Tea interface)
func (m dashboardModel) View() string {
	key, dir := m.board.Sort()
	header := ui.RenderBoardHeader(m.doctorName, key, dir, m.board.View(), m.board.Len())

	parts := []string{header, "", m.contentView.View(), ""}

	if m.flash != "" {
		style := accentStyle
		if m.flashErr {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.flash))
	}

	if m.writing {
		p, _ := m.board.Current()
		parts = append(parts,
			dimStyle.Render("Análise para "+p.Name),
			promptStyle.Render("> ")+m.notes.View(),
			dimStyle.Render("Enter enviar • Esc cancelar"),
		)
	} else {
		parts = append(parts, dimStyle.Render(strings.Join([]string{
			"g/l/c visão",
			"s ordenar",
			"d direção",
			"←→ navegar",
			"1-9 ir para",
			"a análise",
			"x atendido",
			"q sair",
		}, " • ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func nextSortKey(k dashboard.SortKey) dashboard.SortKey {
	for i, key := range sortCycle {
		if key == k {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}
