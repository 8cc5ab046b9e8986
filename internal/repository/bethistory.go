package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"twitch-casino-bot/internal/model"
)

// BetHistoryRepository persists slot roll records for statistics.
type BetHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewBetHistoryRepository creates a new BetHistoryRepository instance.
func NewBetHistoryRepository(pool *pgxpool.Pool) *BetHistoryRepository {
	return &BetHistoryRepository{pool: pool}
}

// Append records one roll.
func (r *BetHistoryRepository) Append(ctx context.Context, record *model.BetRecord) error {
	const query = `
		INSERT INTO bet_records (channel, username, slot_result, result_type, rarity)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		record.Channel, record.Username, record.SlotResult, record.ResultType, record.Rarity)
	if err != nil {
		return fmt.Errorf("failed to append bet record: %w", err)
	}
	return nil
}

// ByUser retrieves a user's most recent rolls, newest first.
func (r *BetHistoryRepository) ByUser(ctx context.Context, channel, username string, limit int) ([]*model.BetRecord, error) {
	const query = `
		SELECT id, channel, username, slot_result, result_type, rarity, created_at
		FROM bet_records
		WHERE channel = $1 AND username = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, channel, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet records: %w", err)
	}
	defer rows.Close()

	var records []*model.BetRecord
	for rows.Next() {
		var rec model.BetRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Channel,
			&rec.Username,
			&rec.SlotResult,
			&rec.ResultType,
			&rec.Rarity,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bet records: %w", err)
	}
	return records, nil
}

// StatsByUser aggregates a user's roll counts per outcome type.
func (r *BetHistoryRepository) StatsByUser(ctx context.Context, channel, username string) (*model.BetStats, error) {
	const query = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE result_type = 'jackpot'),
			COUNT(*) FILTER (WHERE result_type = 'partial'),
			COUNT(*) FILTER (WHERE result_type = 'miss')
		FROM bet_records
		WHERE channel = $1 AND username = $2
	`

	var stats model.BetStats
	err := r.pool.QueryRow(ctx, query, channel, username).Scan(
		&stats.TotalBets,
		&stats.Jackpots,
		&stats.Partials,
		&stats.Misses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet stats: %w", err)
	}
	return &stats, nil
}
