package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the run registry.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		state        TEXT NOT NULL,
		burst_policy TEXT NOT NULL,
		heartbeat    INTEGER NOT NULL DEFAULT 1,
		clock        INTEGER NOT NULL DEFAULT 0,
		iterations   INTEGER NOT NULL DEFAULT 0,
		resets       INTEGER NOT NULL DEFAULT 0,
		processes    TEXT NOT NULL DEFAULT '[]',
		error        TEXT NOT NULL DEFAULT '',
		created_at   INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
