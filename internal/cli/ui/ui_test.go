package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/lvyanru/triagectl/internal/cli/auth"
	"github.com/lvyanru/triagectl/internal/cli/dashboard"
	"github.com/lvyanru/triagectl/internal/cli/types"
)

func TestRenderPatientGridGroupsByUrgency(t *testing.T) {
	out := RenderPatientGrid(dashboard.SeedRoster())

	order := []string{"Emergência", "Muita Urgência", "Urgência", "Pouca Urgência"}
	last := -1
	for _, label := range order {
		idx := strings.Index(out, label+" ")
		if idx < 0 {
			t.Fatalf("missing section %q in:\n%s", label, out)
		}
		if idx < last {
			t.Errorf("section %q out of order", label)
		}
		last = idx
	}
	if !strings.Contains(out, "Carlos Pereira") || !strings.Contains(out, "Roberto Santos") {
		t.Error("expected both orange patients in the grid")
	}
}

func TestRenderEmptyRoster(t *testing.T) {
	for name, out := range map[string]string{
		"grid":  RenderPatientGrid(nil),
		"table": RenderPatientTable(nil, -1),
	} {
		if !strings.Contains(out, "Nenhum paciente") {
			t.Errorf("%s: got %q", name, out)
		}
	}
}

func TestRenderPatientTable(t *testing.T) {
	out := RenderPatientTable(dashboard.SeedRoster(), 0)
	for _, want := range []string{"Nome", "Urgência", "João Silva", "3 semanas"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestRenderPatientCard(t *testing.T) {
	p := dashboard.SeedRoster()[0]
	out := RenderPatientCard(p, 0, 5)
	if !strings.Contains(out, p.Name) || !strings.Contains(out, "1 / 5") {
		t.Errorf("unexpected card:\n%s", out)
	}
}

func TestPadCenter(t *testing.T) {
	got := padCenter("TRI-1", 11)
	if runewidth.StringWidth(got) != 11 {
		t.Errorf("width = %d, want 11", runewidth.StringWidth(got))
	}
	if strings.TrimSpace(got) != "TRI-1" {
		t.Errorf("padCenter lost content: %q", got)
	}
	if padCenter("muito longo", 3) != "muito longo" {
		t.Error("overlong text must be returned as is")
	}
}

func TestRenderSessionStatus(t *testing.T) {
	if out := RenderSessionStatus(nil, nil, "", time.Now()); !strings.Contains(out, "Não autenticado") {
		t.Errorf("anonymous status = %q", out)
	}

	user := &types.User{Name: "Dra. Ana", Email: "ana@example.com", Role: types.RoleDoctor}
	info := &auth.TokenInfo{ExpiresAt: time.Now().Add(-time.Minute)}
	out := RenderSessionStatus(user, info, "http://localhost:8000/api", time.Now())
	for _, want := range []string{"Dra. Ana", "Médico", "expirado", "localhost:8000"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTicket(t *testing.T) {
	out := RenderTicket("TRI-123", "Vermelho", time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))
	for _, want := range []string{"TRI-123", "Vermelho", "01/03/2026 09:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("ticket missing %q", want)
		}
	}
}
