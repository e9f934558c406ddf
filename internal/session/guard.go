package session

import (
	"context"
	"fmt"
)

// DefaultFallback is where denied views redirect when none is configured.
const DefaultFallback = "/"

// Outcome is the result of a guard check.
type Outcome int

const (
	// OutcomePending means the session is still unknown; show a neutral loading state.
	OutcomePending Outcome = iota
	OutcomeAllowed
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllowed:
		return "allowed"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "pending"
	}
}

// Decision is what a view should do.
type Decision struct {
	Outcome  Outcome
	Redirect string // set when Outcome is OutcomeRedirect
	Role     Role   // identity role, when it was fetched
}

// Allowed reports whether the view may render.
func (d Decision) Allowed() bool { return d.Outcome == OutcomeAllowed }

// StateReader exposes the current session state.
type StateReader interface {
	State() State
}

// RoleFunc fetches the role of the authenticated identity from the server.
type RoleFunc func(ctx context.Context) (Role, error)

// Guard protects a view. A zero Required role admits any authenticated user.
type Guard struct {
	Required Role
	Fallback string
}

// Check decides access. The identity is only fetched when the session is
// authenticated and a role is required, so anonymous sessions never cause
// a network call.
func (g Guard) Check(ctx context.Context, sessions StateReader, fetch RoleFunc) (Decision, error) {
	fallback := g.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}

	switch sessions.State() {
	case StateUnknown:
		return Decision{Outcome: OutcomePending}, nil
	case StateAnonymous:
		return Decision{Outcome: OutcomeRedirect, Redirect: fallback}, nil
	}

	if g.Required.Rank() == 0 {
		return Decision{Outcome: OutcomeAllowed}, nil
	}

	role, err := fetch(ctx)
	if err != nil {
		return Decision{Outcome: OutcomeRedirect, Redirect: fallback}, fmt.Errorf("fetch identity: %w", err)
	}
	if role.AtLeast(g.Required) {
		return Decision{Outcome: OutcomeAllowed, Role: role}, nil
	}
	return Decision{Outcome: OutcomeRedirect, Redirect: fallback, Role: role}, nil
}

// DefaultGuestRedirect is where guest-only views send authenticated users.
const DefaultGuestRedirect = "/profile"

// GuestOnly protects views that only make sense without a session, such as
// login and register.
type GuestOnly struct {
	Redirect string
}

// Check allows anonymous sessions and redirects authenticated ones.
func (g GuestOnly) Check(sessions StateReader) Decision {
	switch sessions.State() {
	case StateUnknown:
		return Decision{Outcome: OutcomePending}
	case StateAuthenticated:
		redirect := g.Redirect
		if redirect == "" {
			redirect = DefaultGuestRedirect
		}
		return Decision{Outcome: OutcomeRedirect, Redirect: redirect}
	default:
		return Decision{Outcome: OutcomeAllowed}
	}
}
