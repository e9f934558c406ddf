package tokenstore

import (
	"context"
	"database/sql"
)

// schema holds the DDL for the local credential table.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS credentials (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
