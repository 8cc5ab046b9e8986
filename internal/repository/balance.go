package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"twitch-casino-bot/internal/model"
)

const accountColumns = `channel, username, balance, total_earned, total_spent,
		last_daily_claim, last_bonus_stream_id, message_count, last_activity_reward,
		created_at, updated_at`

// BalanceRepository handles account persistence. Balance mutations go
// through ApplyDelta, which writes the account update and the ledger entry
// in one database transaction.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository instance.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*model.BalanceAccount, error) {
	var a model.BalanceAccount
	err := row.Scan(
		&a.Channel,
		&a.Username,
		&a.Balance,
		&a.TotalEarned,
		&a.TotalSpent,
		&a.LastDailyClaim,
		&a.LastBonusStreamID,
		&a.MessageCount,
		&a.LastActivityReward,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get retrieves an account. Returns ErrAccountNotFound if it does not exist.
func (r *BalanceRepository) Get(ctx context.Context, channel, username string) (*model.BalanceAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE channel = $1 AND username = $2`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, channel, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// Create creates an account with the given starting balance and records the
// grant as a ledger entry. Concurrent creation for the same (channel, user)
// resolves via ON CONFLICT: the loser reads back the winner's row, so no
// duplicate accounts or duplicate grants are possible.
func (r *BalanceRepository) Create(ctx context.Context, channel, username string, startingBalance int64) (*model.BalanceAccount, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO accounts (channel, username, balance, total_earned)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (channel, username) DO NOTHING
		RETURNING ` + accountColumns

	account, err := scanAccount(tx.QueryRow(ctx, query, channel, username, startingBalance))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race: the account already exists.
			return r.Get(ctx, channel, username)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	const entryQuery = `
		INSERT INTO ledger_entries (channel, username, type, amount, balance_before, balance_after, description)
		VALUES ($1, $2, $3, $4, 0, $4, $5)
	`
	if _, err := tx.Exec(ctx, entryQuery, channel, username, model.EntryTypeAdminAdjust, startingBalance, "starting balance grant"); err != nil {
		return nil, fmt.Errorf("failed to record starting balance grant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit account creation: %w", err)
	}
	return account, nil
}

// ApplyDelta applies a signed balance change and appends the matching
// ledger entry as one transaction. A negative delta that would take the
// balance below zero is refused with ErrInsufficientFunds and leaves the
// account untouched.
func (r *BalanceRepository) ApplyDelta(ctx context.Context, channel, username string, amount int64, entryType, description string) (*model.BalanceAccount, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE accounts
		SET balance = balance + $3,
			total_earned = total_earned + CASE WHEN $3 > 0 THEN $3 ELSE 0 END,
			total_spent = total_spent + CASE WHEN $3 < 0 THEN -$3 ELSE 0 END,
			updated_at = NOW()
		WHERE channel = $1 AND username = $2 AND balance + $3 >= 0
		RETURNING ` + accountColumns

	account, err := scanAccount(tx.QueryRow(ctx, query, channel, username, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the account is missing or the guard refused the debit.
			if _, getErr := r.Get(ctx, channel, username); getErr != nil {
				return nil, getErr
			}
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	const entryQuery = `
		INSERT INTO ledger_entries (channel, username, type, amount, balance_before, balance_after, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.Exec(ctx, entryQuery,
		channel, username, entryType, amount,
		account.Balance-amount, account.Balance, description)
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit balance delta: %w", err)
	}
	return account, nil
}

// SetDailyClaim updates the last daily claim timestamp (unix seconds).
func (r *BalanceRepository) SetDailyClaim(ctx context.Context, channel, username string, claimTime int64) error {
	const query = `
		UPDATE accounts
		SET last_daily_claim = $3, updated_at = NOW()
		WHERE channel = $1 AND username = $2
	`
	result, err := r.pool.Exec(ctx, query, channel, username, claimTime)
	if err != nil {
		return fmt.Errorf("failed to update daily claim: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// IncrementMessageCount bumps the account's message counter and returns the
// updated account. The increment is a single statement, so concurrent
// messages never lose counts.
func (r *BalanceRepository) IncrementMessageCount(ctx context.Context, channel, username string) (*model.BalanceAccount, error) {
	query := `
		UPDATE accounts
		SET message_count = message_count + 1, updated_at = NOW()
		WHERE channel = $1 AND username = $2
		RETURNING ` + accountColumns

	account, err := scanAccount(r.pool.QueryRow(ctx, query, channel, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to increment message count: %w", err)
	}
	return account, nil
}

// SetActivityReward updates the last activity reward timestamp (unix seconds).
func (r *BalanceRepository) SetActivityReward(ctx context.Context, channel, username string, rewardTime int64) error {
	const query = `
		UPDATE accounts
		SET last_activity_reward = $3, updated_at = NOW()
		WHERE channel = $1 AND username = $2
	`
	result, err := r.pool.Exec(ctx, query, channel, username, rewardTime)
	if err != nil {
		return fmt.Errorf("failed to update activity reward: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// TopByBalance retrieves the top N accounts in a channel by balance.
func (r *BalanceRepository) TopByBalance(ctx context.Context, channel string, limit int) ([]*model.BalanceAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE channel = $1
		ORDER BY balance DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*model.BalanceAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}
