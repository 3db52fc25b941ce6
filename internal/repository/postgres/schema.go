package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS campaigns (
		seq              BIGSERIAL PRIMARY KEY,
		id               TEXT NOT NULL UNIQUE,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL,
		full_description TEXT NOT NULL DEFAULT '',
		goal             NUMERIC NOT NULL,
		raised           NUMERIC NOT NULL DEFAULT 0,
		contributors     INTEGER NOT NULL DEFAULT 0,
		image            TEXT NOT NULL DEFAULT '',
		category         TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL,
		progress         INTEGER NOT NULL DEFAULT 0,
		location         TEXT NOT NULL,
		created_by       TEXT NOT NULL DEFAULT '',
		created_date     TIMESTAMPTZ NOT NULL,
		milestones       JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS contributions (
		seq                   BIGSERIAL PRIMARY KEY,
		id                    TEXT NOT NULL UNIQUE,
		campaign_id           TEXT NOT NULL,
		amount                NUMERIC NOT NULL,
		contributor_email     TEXT NOT NULL,
		method                TEXT NOT NULL,
		transaction_id        TEXT NOT NULL UNIQUE,
		state                 TEXT NOT NULL,
		status                TEXT NOT NULL,
		native_amount         NUMERIC(28, 8) NOT NULL DEFAULT 0,
		ledger_transaction_id TEXT,
		failure_reason        TEXT,
		needs_reconciliation  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at            TIMESTAMPTZ NOT NULL,
		updated_at            TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS contributions_campaign_idx ON contributions (campaign_id, seq)`,
	`CREATE TABLE IF NOT EXISTS transaction_records (
		seq                   BIGSERIAL PRIMARY KEY,
		transaction_id        TEXT NOT NULL UNIQUE,
		campaign_id           TEXT NOT NULL,
		amount                NUMERIC NOT NULL,
		contributor           TEXT NOT NULL,
		recorded_at           TIMESTAMPTZ NOT NULL,
		status                TEXT NOT NULL,
		ledger_transaction_id TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS transaction_records_campaign_idx ON transaction_records (campaign_id, seq)`,

	// Upgrades for tables created by earlier releases.
	`ALTER TABLE campaigns ALTER COLUMN goal TYPE NUMERIC, ALTER COLUMN raised TYPE NUMERIC`,
	`ALTER TABLE contributions ALTER COLUMN amount TYPE NUMERIC`,
	`ALTER TABLE contributions ADD COLUMN IF NOT EXISTS needs_reconciliation BOOLEAN NOT NULL DEFAULT FALSE`,
	`ALTER TABLE transaction_records ALTER COLUMN amount TYPE NUMERIC`,
}

// EnsureSchema creates the tables used by the PostgreSQL repositories if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
