package guard

import (
	"testing"

	"github.com/lvyanru/triagectl/internal/domain"
)

type fakeSession struct {
	loggedIn bool
	doctor   bool
}

func (s fakeSession) IsLoggedIn() bool { return s.loggedIn }
func (s fakeSession) IsDoctor() bool   { return s.doctor }

func TestResolve(t *testing.T) {
	anonymous := fakeSession{}
	patient := fakeSession{loggedIn: true}
	doctor := fakeSession{loggedIn: true, doctor: true}

	tests := []struct {
		name    string
		route   string
		session fakeSession
		want    Route
	}{
		{"startup anonymous", "/", anonymous, RouteHome},
		{"startup patient", "", patient, RouteHome},
		{"startup doctor", "/", doctor, RouteDashboard},
		{"dashboard doctor", "/dashboard", doctor, RouteDashboard},
		{"dashboard patient", "/dashboard", patient, RouteHome},
		{"dashboard anonymous", "/dashboard", anonymous, RouteLogin},
		{"login anonymous", "/auth/login", anonymous, RouteLogin},
		{"login patient", "/auth/login", patient, RouteHome},
		{"register doctor", "/auth/register/", doctor, RouteDashboard},
		{"auth prefix", "auth", anonymous, RouteLogin},
		{"auth prefix doctor", "/auth", doctor, RouteDashboard},
		{"complete profile", "/auth/complete-profile", patient, RouteCompleteProfile},
		{"totem", "/TOTEM", anonymous, RouteTotem},
		{"home", "home", doctor, RouteHome},
		{"unmatched", "/admin", doctor, RouteHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.route, tt.session); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.route, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]Route{
		"":              RouteRoot,
		"/":             RouteRoot,
		"//":            RouteRoot,
		" dashboard/ ":  RouteDashboard,
		"/Auth/Login":   RouteLogin,
		"/unknown/path": "/unknown/path",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequire(t *testing.T) {
	if err := Require(RouteDashboard, fakeSession{loggedIn: true, doctor: true}); err != nil {
		t.Fatalf("doctor: unexpected error %v", err)
	}
	if err := Require(RouteDashboard, fakeSession{}); !domain.IsNotAuthenticated(err) {
		t.Errorf("anonymous: got %v, want not authenticated", err)
	}
	err := Require(RouteDashboard, fakeSession{loggedIn: true})
	if !domain.IsForbidden(err) {
		t.Errorf("patient: got %v, want forbidden", err)
	}
	if got := domain.UserMessage(err); got != MsgDoctorsOnly {
		t.Errorf("patient message = %q, want %q", got, MsgDoctorsOnly)
	}
	if err := Require(RouteTotem, fakeSession{}); err != nil {
		t.Errorf("totem: unexpected error %v", err)
	}
}
