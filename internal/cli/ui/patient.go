package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/lvyanru/triagectl/internal/cli/dashboard"
	"github.com/lvyanru/triagectl/internal/cli/types"
)

var (
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // Gray
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))            // Yellow
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true) // Pink
	nameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)  // Cyan
)

var urgencyMarkers = map[types.Urgency]string{
	types.UrgencyRed:    "🔴",
	types.UrgencyOrange: "🟠",
	types.UrgencyYellow: "🟡",
	types.UrgencyGreen:  "🟢",
}

// UrgencyMarker returns the coloured dot of an urgency
func UrgencyMarker(u types.Urgency) string {
	if m, ok := urgencyMarkers[u]; ok {
		return m
	}
	return "⚪"
}

// RenderBoardHeader renders the dashboard title line
func RenderBoardHeader(doctorName string, key dashboard.SortKey, dir dashboard.Direction, view dashboard.ViewMode, count int) string {
	if doctorName == "" {
		doctorName = "Médico"
	}
	arrow := "↓"
	if dir == dashboard.Asc {
		arrow = "↑"
	}

	title := Styles.Title.Render("🩺 Painel de Triagem · Dr(a). " + doctorName)
	info := fmt.Sprintf("%s %s  %s %s %s  %s %s",
		keyStyle.Render("Pacientes:"), highlightStyle.Render(strconv.Itoa(count)),
		keyStyle.Render("Ordem:"), valueStyle.Render(string(key)), arrow,
		keyStyle.Render("Visão:"), valueStyle.Render(string(view)),
	)
	return title + "\n" + info
}

// RenderPatientGrid renders the roster grouped by urgency as a tree
func RenderPatientGrid(patients []types.Patient) string {
	if len(patients) == 0 {
		return keyStyle.Render("Nenhum paciente aguardando atendimento")
	}

	var sections []string
	for _, u := range types.Urgencies {
		var group []types.Patient
		for _, p := range patients {
			if p.Urgency == u {
				group = append(group, p)
			}
		}
		if len(group) == 0 {
			continue
		}

		label := fmt.Sprintf("%s %s %s",
			UrgencyMarker(u),
			UrgencyStyle(u).Render(dashboard.UrgencyLabel(u)),
			keyStyle.Render(fmt.Sprintf("(%d)", len(group))),
		)
		root := tree.Root(label)
		for _, p := range group {
			root.Child(buildPatientNode(p))
		}
		sections = append(sections, root.String())
	}
	return strings.Join(sections, "\n\n")
}

func buildPatientNode(p types.Patient) *tree.Tree {
	label := fmt.Sprintf("%s %s", nameStyle.Render(p.Name), keyStyle.Render(fmt.Sprintf("#%d · %d anos", p.ID, p.Age)))
	node := tree.New().Root(label)
	node.Child(formatKeyValue("Sintoma:", p.Symptom))
	node.Child(formatKeyValue("Duração:", p.Duration))
	if p.OtherSymptoms != "" {
		node.Child(formatKeyValue("Outros:", p.OtherSymptoms))
	}
	return node
}

// RenderPatientTable renders the roster as a table. The row at selected
// is highlighted; pass -1 for none.
func RenderPatientTable(patients []types.Patient, selected int) string {
	if len(patients) == 0 {
		return keyStyle.Render("Nenhum paciente aguardando atendimento")
	}

	rows := make([][]string, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			strconv.Itoa(p.Age),
			p.Symptom,
			p.Duration,
			UrgencyMarker(p.Urgency) + " " + dashboard.UrgencyLabel(p.Urgency),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(keyStyle).
		Headers("#", "Nome", "Idade", "Sintoma", "Duração", "Urgência").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Bold(true).Foreground(lipgloss.Color("86"))
			case row == selected:
				return s.Foreground(lipgloss.Color("212")).Bold(true)
			case col == 5:
				return s.Foreground(UrgencyColor(patients[row].Urgency))
			}
			return s
		})
	return t.String()
}

// RenderPatientCard renders one patient for the carousel view
func RenderPatientCard(p types.Patient, index, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", UrgencyMarker(p.Urgency), UrgencyStyle(p.Urgency).Render(dashboard.UrgencyLabel(p.Urgency)))
	fmt.Fprintf(&b, "\n%s\n", nameStyle.Render(p.Name))
	fmt.Fprintf(&b, "%s\n\n", keyStyle.Render(fmt.Sprintf("%d anos · paciente #%d", p.Age, p.ID)))
	fmt.Fprintf(&b, "%s\n", formatKeyValue("Sintoma principal:", p.Symptom))
	fmt.Fprintf(&b, "%s\n", formatKeyValue("Duração:", p.Duration))
	fmt.Fprintf(&b, "%s", formatKeyValue("Outros sintomas:", p.OtherSymptoms))

	card := Styles.Card.BorderForeground(UrgencyColor(p.Urgency)).Render(b.String())
	pager := keyStyle.Render(fmt.Sprintf("◀  %d / %d  ▶", index+1, total))
	return lipgloss.JoinVertical(lipgloss.Center, card, pager)
}

// formatKeyValue formats a key-value pair
func formatKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s",
		keyStyle.Render(key),
		value,
	)
}
