package tokenstore

import (
	"context"
	"sync"
)

// MemoryBackend keeps the token in process memory. It does not survive a
// restart and is meant for tests and the "memory" backend setting.
type MemoryBackend struct {
	mu    sync.Mutex
	token string
	ok    bool
	err   error
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// SetErr makes every following operation fail with err (nil restores).
func (m *MemoryBackend) SetErr(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *MemoryBackend) Load(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	return m.token, m.ok, nil
}

func (m *MemoryBackend) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.token, m.ok = token, true
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.token, m.ok = "", false
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
