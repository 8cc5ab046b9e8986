package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"twitch-casino-bot/internal/model"
)

// EquipmentRepository handles equipment item persistence. Expiry is lazy:
// reads filter on expires_at > now, expired rows stay until vacuumed by
// hand if ever.
type EquipmentRepository struct {
	pool *pgxpool.Pool
}

// NewEquipmentRepository creates a new EquipmentRepository instance.
func NewEquipmentRepository(pool *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{pool: pool}
}

// AddItem grants a user an equipment item until expiresAt.
func (r *EquipmentRepository) AddItem(ctx context.Context, channel, username, itemType string, expiresAt time.Time) error {
	const query = `
		INSERT INTO equipment_items (channel, username, item_type, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, channel, username, itemType, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to add equipment item: %w", err)
	}
	return nil
}

// ActiveItems retrieves a user's unexpired items in acquisition order.
func (r *EquipmentRepository) ActiveItems(ctx context.Context, channel, username string) ([]*model.UserEquipmentItem, error) {
	const query = `
		SELECT id, channel, username, item_type, expires_at, created_at
		FROM equipment_items
		WHERE channel = $1 AND username = $2 AND expires_at > NOW()
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, channel, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get active equipment: %w", err)
	}
	defer rows.Close()

	var items []*model.UserEquipmentItem
	for rows.Next() {
		var item model.UserEquipmentItem
		err := rows.Scan(
			&item.ID,
			&item.Channel,
			&item.Username,
			&item.ItemType,
			&item.ExpiresAt,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating equipment items: %w", err)
	}
	return items, nil
}

// HasActiveItem checks whether the user holds an unexpired item of a type.
func (r *EquipmentRepository) HasActiveItem(ctx context.Context, channel, username, itemType string) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM equipment_items
			WHERE channel = $1 AND username = $2 AND item_type = $3 AND expires_at > NOW()
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, channel, username, itemType).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check equipment item: %w", err)
	}
	return exists, nil
}
