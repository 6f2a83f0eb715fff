package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all local state tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS credentials (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS progress_snapshot (
		user_id    INTEGER PRIMARY KEY,
		records    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS notification_snapshot (
		user_id       INTEGER PRIMARY KEY,
		notifications TEXT NOT NULL,
		unread_count  INTEGER NOT NULL DEFAULT 0,
		updated_at    TEXT NOT NULL
	)`,
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
