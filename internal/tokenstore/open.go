package tokenstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Backend kinds accepted by OpenBackend.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// OpenBackend constructs the backend named by kind. An empty path selects
// the default location under ~/.hive.
func OpenBackend(ctx context.Context, kind, path string, logger *slog.Logger) (Backend, error) {
	switch kind {
	case KindFile, "":
		if path == "" {
			p, err := DefaultCredentialsPath()
			if err != nil {
				return nil, storageErr("open", err)
			}
			path = p
		}
		return NewFileBackend(path), nil
	case KindSQLite:
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, storageErr("open", fmt.Errorf("find home directory: %w", err))
			}
			path = filepath.Join(home, ".hive", "hive.db")
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
				return nil, storageErr("open", fmt.Errorf("create data directory: %w", err))
			}
		}
		b, err := NewSQLiteBackend(ctx, path, logger)
		if err != nil {
			return nil, storageErr("open", err)
		}
		return b, nil
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown token backend %q", kind)
	}
}
