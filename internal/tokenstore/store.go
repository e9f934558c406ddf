// Package tokenstore persists the single bearer token of the current
// session and publishes every change to it.
package tokenstore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/me/hive/internal/event"
)

// Key is the name under which backends persist the token.
const Key = "access_token"

// Backend is durable storage for one token value.
type Backend interface {
	// Load returns the persisted token; ok is false when none is stored.
	Load(ctx context.Context) (token string, ok bool, err error)
	// Save replaces the persisted token.
	Save(ctx context.Context, token string) error
	// Delete removes the persisted token. Deleting an absent token is not an error.
	Delete(ctx context.Context) error
	Close() error
}

// Value is one observed state of the store.
type Value struct {
	Token   string
	Present bool
}

type observer struct {
	id int
	fn func(Value)
}

// Store is the single owner of the session token. It keeps the last known
// value in memory so request-path reads never touch the backend once the
// store has been resolved.
type Store struct {
	backend Backend
	logger  *slog.Logger

	// mu serializes mutations so a persist and its notifications form one step.
	mu        sync.Mutex
	resolved  bool
	current   Value
	observers []observer
	nextID    int
	feed      event.Feed[Value]
}

// New creates a Store over backend. Nothing is read until Load or Token.
func New(backend Backend, logger *slog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With("component", "tokenstore"),
	}
}

// Load reads the backend once. Later calls return the cached value.
func (s *Store) Load(ctx context.Context) (Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return Value{}, err
	}
	return s.current, nil
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.resolved {
		return nil
	}
	tok, ok, err := s.backend.Load(ctx)
	if err != nil {
		return storageErr("load", err)
	}
	s.logger.Debug("token loaded", "present", ok)
	s.publishLocked(Value{Token: tok, Present: ok && tok != ""})
	return nil
}

// Token returns the current token, loading it on first use.
func (s *Store) Token(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return "", false, err
	}
	return s.current.Token, s.current.Present, nil
}

// Resolved reports whether the backend has been read at least once.
func (s *Store) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// Write persists token, replacing any previous value.
func (s *Store) Write(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(ctx, token); err != nil {
		return storageErr("save", err)
	}
	s.logger.Debug("token written")
	s.publishLocked(Value{Token: token, Present: true})
	return nil
}

// Clear removes the token. Clearing an absent token succeeds and is still
// published.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Delete(ctx); err != nil {
		return storageErr("delete", err)
	}
	s.logger.Debug("token cleared")
	s.publishLocked(Value{})
	return nil
}

// Observe registers fn to be called synchronously, in mutation order, with
// every published value. If the store is already resolved fn is called
// immediately with the current value. fn must not call back into the Store.
func (s *Store) Observe(fn func(Value)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	if s.resolved {
		fn(s.current)
	}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Watch streams the current value (once resolved) followed by every later
// write and clear, each exactly once and in order. The channel closes when
// ctx is done.
func (s *Store) Watch(ctx context.Context) <-chan Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	var initial []Value
	if s.resolved {
		initial = append(initial, s.current)
	}
	ch, _ := s.feed.Subscribe(ctx, initial...)
	return ch
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) publishLocked(v Value) {
	s.resolved = true
	s.current = v
	for _, o := range s.observers {
		o.fn(v)
	}
	s.feed.Send(v)
}
