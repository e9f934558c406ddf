package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	b := NewFileBackend(path)
	ctx := context.Background()

	if _, ok, err := b.Load(ctx); err != nil || ok {
		t.Fatalf("Load() on missing file = ok %v, err %v", ok, err)
	}

	if err := b.Save(ctx, "abc123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credentials mode = %o, want 600", perm)
	}

	tok, ok, err := b.Load(ctx)
	if err != nil || !ok || tok != "abc123" {
		t.Errorf("Load() = %q, %v, %v", tok, ok, err)
	}

	if err := b.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := b.Delete(ctx); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
}

func TestFileBackend_SurvivesNewStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	ctx := context.Background()

	first := New(NewFileBackend(path), testLogger())
	if err := first.Write(ctx, "persisted"); err != nil {
		t.Fatalf("write: %v", err)
	}

	second := New(NewFileBackend(path), testLogger())
	tok, ok, err := second.Token(ctx)
	if err != nil || !ok || tok != "persisted" {
		t.Errorf("Token() after restart = %q, %v, %v", tok, ok, err)
	}
}

func TestFileBackend_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	os.WriteFile(path, []byte("{not json"), 0600)

	s := New(NewFileBackend(path), testLogger())
	if _, _, err := s.Token(context.Background()); err == nil {
		t.Error("expected error for corrupt credentials")
	}
}
