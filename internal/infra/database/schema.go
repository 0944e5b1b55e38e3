package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements mirror the Firestore layout: every row belongs to a user.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id             TEXT PRIMARY KEY,
		user_id        TEXT,
		service_name   TEXT NOT NULL,
		cost           NUMERIC(12,2) NOT NULL,
		currency       TEXT NOT NULL DEFAULT 'USD',
		cycle          TEXT NOT NULL DEFAULT 'monthly',
		next_bill_date TIMESTAMPTZ NOT NULL,
		reminder_days  INTEGER NOT NULL DEFAULT 0,
		category       TEXT NOT NULL DEFAULT 'Other',
		management_url TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS subscriptions_due_idx ON subscriptions (reminder_days, next_bill_date)`,
	`CREATE TABLE IF NOT EXISTS device_tokens (
		user_id    TEXT NOT NULL,
		token      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, token)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         BIGSERIAL PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		body       TEXT NOT NULL,
		read       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reminder_ledger (
		reminder_key TEXT PRIMARY KEY,
		sent_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables the reminder job reads and writes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error applying schema: %w", err)
		}
	}
	return nil
}
