package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/me/hive/internal/event"
	"github.com/me/hive/internal/tokenstore"
)

// EventKind distinguishes the two kinds of session events.
type EventKind int

const (
	// EventToken reports a token store change.
	EventToken EventKind = iota + 1
	// EventUnauthorized is the one-shot session-expired signal.
	EventUnauthorized
)

// Event travels on the Bus. Token events carry presence, never the token.
type Event struct {
	Seq     uint64
	Kind    EventKind
	Present bool
}

// TokenObservable is the part of the token store the Bus listens to.
type TokenObservable interface {
	Observe(fn func(tokenstore.Value)) (cancel func())
}

// Bus delivers token changes and unauthorized signals on one ordered
// channel, so a clear that precedes a signal is always seen first. At most
// one subscriber is active; subscribing again closes the previous channel.
type Bus struct {
	logger *slog.Logger

	mu         sync.Mutex
	seq        uint64
	last       *Event
	feed       event.Feed[Event]
	cancelPrev context.CancelFunc
	detach     func()
}

// NewBus attaches a Bus to the token store.
func NewBus(tokens TokenObservable, logger *slog.Logger) *Bus {
	b := &Bus{logger: logger.With("component", "session.bus")}
	b.detach = tokens.Observe(func(v tokenstore.Value) {
		b.publish(Event{Kind: EventToken, Present: v.Present})
	})
	return b
}

// Unauthorized emits the session-expired signal.
func (b *Bus) Unauthorized() {
	b.logger.Debug("unauthorized signal")
	b.publish(Event{Kind: EventUnauthorized})
}

// Subscribe returns the event channel for the new active subscriber. The
// latest token event, if any, is replayed first.
func (b *Bus) Subscribe(ctx context.Context) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancelPrev != nil {
		b.cancelPrev()
	}
	var initial []Event
	if b.last != nil {
		initial = append(initial, *b.last)
	}
	ch, cancel := b.feed.Subscribe(ctx, initial...)
	b.cancelPrev = cancel
	return ch
}

// Seq returns the sequence number of the most recent event.
func (b *Bus) Seq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

// Close detaches from the token store and ends the active subscription.
func (b *Bus) Close() {
	b.mu.Lock()
	detach, cancel := b.detach, b.cancelPrev
	b.detach, b.cancelPrev = nil, nil
	b.mu.Unlock()

	// detach takes the store lock, which is held while publishing; call it unlocked.
	if detach != nil {
		detach()
	}
	if cancel != nil {
		cancel()
	}
}

func (b *Bus) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	e.Seq = b.seq
	if e.Kind == EventToken {
		ev := e
		b.last = &ev
	}
	b.feed.Send(e)
}
