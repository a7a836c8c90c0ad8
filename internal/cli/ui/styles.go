package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lvyanru/triagectl/internal/cli/types"
)

// Styles defines all lipgloss styles used in the CLI
var Styles = struct {
	Bold       lipgloss.Style
	Muted      lipgloss.Style
	Title      lipgloss.Style
	SuccessBox lipgloss.Style
	ErrorBox   lipgloss.Style
	WarningBox lipgloss.Style
	Card       lipgloss.Style
	Ticket     lipgloss.Style
}{
	Bold:  lipgloss.NewStyle().Bold(true),
	Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

	Title: lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Bold(true).
		MarginTop(1).
		MarginBottom(1),

	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(0, 1).
		Width(60),

	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1).
		Width(60),

	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("214")).
		Padding(0, 1).
		Width(60),

	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(56),

	Ticket: lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("86")).
		Padding(1, 4).
		Align(lipgloss.Center),
}

var urgencyColors = map[types.Urgency]lipgloss.Color{
	types.UrgencyRed:    lipgloss.Color("196"),
	types.UrgencyOrange: lipgloss.Color("208"),
	types.UrgencyYellow: lipgloss.Color("226"),
	types.UrgencyGreen:  lipgloss.Color("42"),
}

// UrgencyColor returns the terminal colour of an urgency
func UrgencyColor(u types.Urgency) lipgloss.Color {
	if c, ok := urgencyColors[u]; ok {
		return c
	}
	return lipgloss.Color("245")
}

// UrgencyStyle returns a bold style in the urgency colour
func UrgencyStyle(u types.Urgency) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(UrgencyColor(u)).Bold(true)
}
