// Package guard decides which screen a route actually opens for the
// current session.
package guard

import (
	"strings"

	"github.com/lvyanru/triagectl/internal/domain"
)

// MsgDoctorsOnly is shown when a patient asks for the dashboard
const MsgDoctorsOnly = "Acesso restrito a médicos."

// Route is a screen path
type Route string

const (
	RouteRoot            Route = "/"
	RouteHome            Route = "/home"
	RouteAuth            Route = "/auth"
	RouteLogin           Route = "/auth/login"
	RouteRegister        Route = "/auth/register"
	RouteCompleteProfile Route = "/auth/complete-profile"
	RouteDashboard       Route = "/dashboard"
	RouteTotem           Route = "/totem"
)

// Routes lists every screen route
var Routes = []Route{RouteRoot, RouteHome, RouteLogin, RouteRegister, RouteCompleteProfile, RouteDashboard, RouteTotem}

// Session is what the guards read
type Session interface {
	IsLoggedIn() bool
	IsDoctor() bool
}

// Resolve returns the route to open when route is requested
func Resolve(route string, s Session) Route {
	r := Normalize(route)
	// a redirect target never redirects more than twice
	for i := 0; i < 3; i++ {
		next := resolveOnce(r, s)
		if next == r {
			return r
		}
		r = next
	}
	return r
}

func resolveOnce(r Route, s Session) Route {
	switch r {
	case RouteRoot:
		return landing(s)
	case RouteAuth:
		return RouteLogin
	case RouteLogin, RouteRegister:
		// auth pages send logged-in users to their landing screen
		if s.IsLoggedIn() {
			return landing(s)
		}
		return r
	case RouteDashboard:
		if s.IsLoggedIn() && s.IsDoctor() {
			return r
		}
		if s.IsLoggedIn() {
			return RouteHome
		}
		return RouteLogin
	case RouteHome, RouteCompleteProfile, RouteTotem:
		return r
	default:
		return RouteHome
	}
}

// Require returns nil when route opens as requested for s, otherwise the
// error behind the redirect
func Require(route Route, s Session) error {
	target := Resolve(string(route), s)
	switch {
	case target == Normalize(string(route)):
		return nil
	case target == RouteLogin:
		return domain.NewNotAuthenticatedError()
	default:
		return domain.NewForbiddenError(MsgDoctorsOnly)
	}
}

// landing is the startup redirect target
func landing(s Session) Route {
	if s.IsLoggedIn() && s.IsDoctor() {
		return RouteDashboard
	}
	return RouteHome
}

// Normalize cleans a user-typed route: leading slash, no trailing slash,
// lower case
func Normalize(route string) Route {
	r := strings.ToLower(strings.TrimSpace(route))
	if r == "" {
		return RouteRoot
	}
	if !strings.HasPrefix(r, "/") {
		r = "/" + r
	}
	if len(r) > 1 {
		r = strings.TrimRight(r, "/")
		if r == "" {
			r = "/"
		}
	}
	return Route(r)
}
