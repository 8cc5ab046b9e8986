// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors for repository operations.
var (
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientFunds is an expected business outcome, not a system
	// error: a debit was refused because it would take the balance below
	// zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Migrate creates the schema. Shared by main and the integration tests.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			channel VARCHAR(64) NOT NULL,
			username VARCHAR(64) NOT NULL,
			balance BIGINT NOT NULL DEFAULT 0,
			total_earned BIGINT NOT NULL DEFAULT 0,
			total_spent BIGINT NOT NULL DEFAULT 0,
			last_daily_claim BIGINT NOT NULL DEFAULT 0,
			last_bonus_stream_id VARCHAR(64) NOT NULL DEFAULT '',
			message_count BIGINT NOT NULL DEFAULT 0,
			last_activity_reward BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (channel, username),
			CONSTRAINT balance_non_negative CHECK (balance >= 0)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_channel_balance ON accounts(channel, balance DESC)`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id BIGSERIAL PRIMARY KEY,
			channel VARCHAR(64) NOT NULL,
			username VARCHAR(64) NOT NULL,
			type VARCHAR(50) NOT NULL,
			amount BIGINT NOT NULL,
			balance_before BIGINT NOT NULL,
			balance_after BIGINT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_account_time ON ledger_entries(channel, username, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS bet_records (
			id BIGSERIAL PRIMARY KEY,
			channel VARCHAR(64) NOT NULL,
			username VARCHAR(64) NOT NULL,
			slot_result VARCHAR(128) NOT NULL,
			result_type VARCHAR(16) NOT NULL,
			rarity VARCHAR(16) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bet_records_account_time ON bet_records(channel, username, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS equipment_items (
			id BIGSERIAL PRIMARY KEY,
			channel VARCHAR(64) NOT NULL,
			username VARCHAR(64) NOT NULL,
			item_type VARCHAR(50) NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_equipment_items_account ON equipment_items(channel, username, expires_at)`,
	}

	for i, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i+1, err)
		}
	}
	return nil
}
