package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps the token as a row of a small SQLite key-value table.
type SQLiteBackend struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteBackend opens (or creates) the database at dbPath and migrates it.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteBackend(ctx context.Context, dbPath string, logger *slog.Logger) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteBackend{
		db:     db,
		logger: logger.With("component", "tokenstore.sqlite"),
	}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context) (string, bool, error) {
	b.logger.Debug("sql", "op", "select", "table", "credentials", "key", Key)

	var value string
	err := b.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE key = ?`, Key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, value != "", nil
}

func (b *SQLiteBackend) Save(ctx context.Context, token string) error {
	b.logger.Debug("sql", "op", "upsert", "table", "credentials", "key", Key)

	_, err := b.db.ExecContext(ctx,
		`INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		Key, token, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (b *SQLiteBackend) Delete(ctx context.Context) error {
	b.logger.Debug("sql", "op", "delete", "table", "credentials", "key", Key)

	_, err := b.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, Key)
	return err
}

// Close closes the underlying database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
