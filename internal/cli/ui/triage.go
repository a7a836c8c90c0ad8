package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/lvyanru/triagectl/internal/cli/auth"
	"github.com/lvyanru/triagectl/internal/cli/triage"
	"github.com/lvyanru/triagectl/internal/cli/types"
)

// RenderTriageResult renders an AI triage answer in a box bordered with
// the risk colour
func RenderTriageResult(resp *types.ChatTriageResponse) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(triage.RiskColor(resp.RiskLevel))).
		Padding(0, 1).
		Width(60)
	return box.Render(triage.FormatResponse(resp))
}

// RenderTicket renders the kiosk ticket with the triage code
func RenderTicket(code, riskLevel string, issued time.Time) string {
	const width = 28
	lines := []string{
		"SENHA DE TRIAGEM",
		"",
		padCenter(code, width),
		"",
		padCenter(triage.RiskEmoji(riskLevel)+" "+riskLevel, width),
		issued.Format("02/01/2006 15:04"),
		"",
		"Apresente este código na recepção.",
	}
	return Styles.Ticket.Render(strings.Join(lines, "\n"))
}

// padCenter centers s in width terminal cells
func padCenter(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// RenderSessionStatus renders the stored session for the status command
func RenderSessionStatus(user *types.User, info *auth.TokenInfo, baseURL string, now time.Time) string {
	if user == nil {
		return keyStyle.Render("Não autenticado")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", nameStyle.Render(user.Name))
	fmt.Fprintf(&b, "%s\n", formatKeyValue("Email:", user.Email))
	fmt.Fprintf(&b, "%s\n", formatKeyValue("Perfil:", roleLabel(user.Role)))
	fmt.Fprintf(&b, "%s", formatKeyValue("Servidor:", baseURL))

	if info != nil && !info.ExpiresAt.IsZero() {
		expiry := info.ExpiresAt.Local().Format("02/01/2006 15:04")
		if info.Expired(now) {
			expiry = errorColor.Sprint(expiry + " (expirado)")
		}
		fmt.Fprintf(&b, "\n%s", formatKeyValue("Token expira:", expiry))
	}
	return b.String()
}

func roleLabel(r types.Role) string {
	switch r {
	case types.RoleDoctor:
		return "Médico"
	case types.RolePatient:
		return "Paciente"
	default:
		return string(r)
	}
}
