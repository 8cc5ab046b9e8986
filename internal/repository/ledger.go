package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"twitch-casino-bot/internal/model"
)

const entryColumns = `id, channel, username, type, amount, balance_before, balance_after, description, created_at`

// LedgerEntryRepository reads the append-only transaction log. Entries are
// written by BalanceRepository inside the same transaction as the balance
// update; this repository only queries them.
type LedgerEntryRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerEntryRepository creates a new LedgerEntryRepository instance.
func NewLedgerEntryRepository(pool *pgxpool.Pool) *LedgerEntryRepository {
	return &LedgerEntryRepository{pool: pool}
}

func scanEntry(row pgx.Row) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := row.Scan(
		&e.ID,
		&e.Channel,
		&e.Username,
		&e.Type,
		&e.Amount,
		&e.BalanceBefore,
		&e.BalanceAfter,
		&e.Description,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// History retrieves an account's most recent entries, newest first.
func (r *LedgerEntryRepository) History(ctx context.Context, channel, username string, limit int) ([]*model.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE channel = $1 AND username = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`
	return r.queryEntries(ctx, query, channel, username, limit)
}

// Replay retrieves every entry for an account in write order. Summing the
// signed amounts in this order must reproduce the current balance.
func (r *LedgerEntryRepository) Replay(ctx context.Context, channel, username string) ([]*model.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE channel = $1 AND username = $2
		ORDER BY created_at ASC, id ASC
	`
	return r.queryEntries(ctx, query, channel, username)
}

func (r *LedgerEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*model.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}
