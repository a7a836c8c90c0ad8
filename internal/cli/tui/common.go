package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/lvyanru/triagectl/internal/cli/types"
)

// UI configuration constants
const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 2000
	inputHeightReserved   = 2
	statusHeightReserved  = 3
	minContentHeight      = 10
	idDisplayLength       = 8
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	doctorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// senderLabel returns the styled author line of a message
func senderLabel(s types.Sender) string {
	switch s {
	case types.SenderUser:
		return boldStyle.Render("Você")
	case types.SenderDoctor:
		return doctorStyle.Render("Médico")
	case types.SenderAI:
		return accentStyle.Render("Assistente IA")
	default:
		return accentStyle.Render("Triagem")
	}
}

// renderMessages renders a conversation; typing is the indicator shown in
// place of transient messages
func renderMessages(messages []types.ChatMessage, typing string) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString("\n")
		b.WriteString(senderLabel(m.Sender))
		b.WriteString("\n")
		if m.Typing {
			b.WriteString(dimStyle.Render(typing))
		} else {
			b.WriteString(m.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// shortID trims an identifier for the status bar
func shortID(id string) string {
	if len(id) > idDisplayLength {
		return id[:idDisplayLength]
	}
	return id
}

// wrapText applies auto-wrapping to text, correctly handling wide characters
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		// Keep empty lines as-is
		if strings.TrimSpace(line) == "" {
			continue
		}

		result.WriteString(wrapLine(line, maxWidth))
	}

	return result.String()
}

// wrapLine wraps a single line at maxWidth terminal cells
func wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)

		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}
