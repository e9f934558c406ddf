// Package session derives which flow a user may reach from the persisted
// token, reacts to session-expired signals, and gates views by role.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/me/hive/internal/event"
)

// State is the derived session state.
type State int

const (
	// StateUnknown holds until the token store has been read once.
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Reason explains a state update.
type Reason int

const (
	ReasonResolved Reason = iota + 1
	ReasonLogin
	ReasonCleared
	ReasonUnauthorized
)

func (r Reason) String() string {
	switch r {
	case ReasonResolved:
		return "resolved"
	case ReasonLogin:
		return "login"
	case ReasonCleared:
		return "cleared"
	case ReasonUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Update is published on every state change and on every unauthorized
// signal, even when the state was already anonymous.
type Update struct {
	From   State
	To     State
	Reason Reason
}

// Gate is the session state machine. Run feeds it from the Bus.
type Gate struct {
	bus    *Bus
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	applied  uint64
	forced   int
	resolved chan struct{}
	changed  chan struct{}
	updates  event.Feed[Update]
}

// NewGate returns a Gate in StateUnknown.
func NewGate(bus *Bus, logger *slog.Logger) *Gate {
	return &Gate{
		bus:      bus,
		logger:   logger.With("component", "session.gate"),
		resolved: make(chan struct{}),
		changed:  make(chan struct{}),
	}
}

// Run consumes bus events until ctx is done or another subscriber takes
// over the bus.
func (g *Gate) Run(ctx context.Context) error {
	for ev := range g.bus.Subscribe(ctx) {
		g.apply(ev)
	}
	return ctx.Err()
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// ForcedLogouts counts unauthorized signals the gate has applied.
func (g *Gate) ForcedLogouts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.forced
}

// Watch streams state updates applied after the call.
func (g *Gate) Watch(ctx context.Context) <-chan Update {
	ch, _ := g.updates.Subscribe(ctx)
	return ch
}

// Wait blocks until the gate has left StateUnknown.
func (g *Gate) Wait(ctx context.Context) (State, error) {
	select {
	case <-g.resolved:
		return g.State(), nil
	case <-ctx.Done():
		return g.State(), ctx.Err()
	}
}

// Settle blocks until every event published on the bus before the call
// has been applied.
func (g *Gate) Settle(ctx context.Context) error {
	target := g.bus.Seq()
	for {
		g.mu.Lock()
		if g.applied >= target {
			g.mu.Unlock()
			return nil
		}
		ch := g.changed
		g.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (g *Gate) apply(ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ev.Seq <= g.applied {
		return
	}

	from := g.state
	switch ev.Kind {
	case EventToken:
		to := StateAnonymous
		if ev.Present {
			to = StateAuthenticated
		}
		if from != to {
			reason := ReasonCleared
			switch {
			case from == StateUnknown:
				reason = ReasonResolved
			case to == StateAuthenticated:
				reason = ReasonLogin
			}
			g.state = to
			g.logger.Debug("session state", "from", from, "to", to, "reason", reason)
			g.updates.Send(Update{From: from, To: to, Reason: reason})
		}
	case EventUnauthorized:
		g.state = StateAnonymous
		g.forced++
		g.logger.Warn("session invalidated", "from", from)
		g.updates.Send(Update{From: from, To: StateAnonymous, Reason: ReasonUnauthorized})
	}

	g.applied = ev.Seq
	if g.state != StateUnknown {
		select {
		case <-g.resolved:
		default:
			close(g.resolved)
		}
	}
	close(g.changed)
	g.changed = make(chan struct{})
}
