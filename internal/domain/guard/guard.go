// internal/domain/guard/guard.go
package guard

import (
	"github.com/wouhouch/hub/internal/domain/identity"
)

const (
	// HomePath is where signed-in users land
	HomePath = "/home"
	// SignInPath is where anonymous users are sent
	SignInPath = "/sign-in"
)

// Decision is the outcome of a route guard
type Decision int

const (
	Render Decision = iota
	// Wait means the identity check is still running; decide again once it ends
	Wait
	RedirectSignIn
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case Wait:
		return "wait"
	case RedirectSignIn:
		return "redirect_sign_in"
	case RedirectHome:
		return "redirect_home"
	}
	return "unknown"
}

// Target is the redirect location, or "" for Render and Wait
func (d Decision) Target() string {
	switch d {
	case RedirectSignIn:
		return SignInPath
	case RedirectHome:
		return HomePath
	}
	return ""
}

// Session is what a guard needs to know about the browser
type Session struct {
	// Loading: nothing is known yet
	Loading bool
	// Optimistic: the principal comes from cache and is not yet confirmed
	Optimistic    bool
	Authenticated bool
	Role          identity.Role
}

// FromState maps an identity state to guard input
func FromState(s identity.State) Session {
	out := Session{
		Loading:       s.Phase == identity.PhaseLoading,
		Optimistic:    s.Phase == identity.PhaseCached,
		Authenticated: s.Principal != nil,
	}
	if s.Principal != nil {
		out.Role = s.Principal.Role
	}
	return out
}

// RouteOptions describes a non-admin route
type RouteOptions struct {
	AuthRequired bool
	// AllowAuthenticated keeps signed-in users on auth-free routes
	AllowAuthenticated bool
}

// Protected decides access to a regular route
func Protected(s Session, opts RouteOptions) Decision {
	if s.Loading {
		return Wait
	}

	d := Render
	switch {
	case !opts.AuthRequired && s.Authenticated && !opts.AllowAuthenticated:
		d = RedirectHome
	case opts.AuthRequired && !s.Authenticated:
		d = RedirectSignIn
	}
	return settle(s, d)
}

// Admin decides access to an admin route
func Admin(s Session) Decision {
	if s.Loading {
		return Wait
	}

	d := Render
	switch {
	case !s.Authenticated:
		d = RedirectSignIn
	case s.Role != identity.RoleAdmin:
		d = RedirectHome
	}
	return settle(s, d)
}

// settle never redirects on a principal that is still unconfirmed
func settle(s Session, d Decision) Decision {
	if s.Optimistic && d != Render {
		return Wait
	}
	return d
}

// Confirmed holds a Render until the principal is confirmed. Admin changes
// go through it so a cached role alone never authorises them.
func Confirmed(s Session, d Decision) Decision {
	if s.Optimistic && d == Render {
		return Wait
	}
	return d
}
