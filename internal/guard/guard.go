// Package guard decides, per navigation, whether a route renders or redirects.
// It has no knowledge of any UI: callers feed it the session phase and act on
// the returned Action.
package guard

import "github.com/hongminglow/vault-console/internal/auth"

// Kind classifies a guard outcome.
type Kind int

const (
	Render Kind = iota
	Loading
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Action is what the caller must do for the requested route. Target is set
// only for Redirect.
type Action struct {
	Kind   Kind
	Target string
}

// Evaluate applies the guard rules in order: loading while booting, sign-in
// for protected routes without a session, the landing route for public
// routes with a session, and render otherwise.
func Evaluate(phase auth.Phase, requiresAuth bool) Action {
	switch {
	case phase == auth.Booting:
		return Action{Kind: Loading}
	case requiresAuth && phase != auth.Authenticated:
		return Action{Kind: Redirect, Target: auth.SigninRoute}
	case !requiresAuth && phase == auth.Authenticated:
		return Action{Kind: Redirect, Target: auth.LandingRoute}
	default:
		return Action{Kind: Render}
	}
}

// PhaseSource is satisfied by *auth.Controller.
type PhaseSource interface {
	Phase() auth.Phase
}

// Navigate resolves path against the route table and evaluates the guard of
// its region. Unknown paths render the not-found page without a guard.
func Navigate(src PhaseSource, path string) (Route, Action) {
	route, ok := Lookup(path)
	if !ok {
		return NotFound(path), Action{Kind: Render}
	}
	return route, Evaluate(src.Phase(), route.Region.RequiresAuth)
}
