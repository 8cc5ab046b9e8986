package equipment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/model"
)

// ItemStore is the persistence boundary for equipment items. Implementations
// must apply the lazy-expiry filter (expires_at > now) on reads.
type ItemStore interface {
	ActiveItems(ctx context.Context, channel, username string) ([]*model.UserEquipmentItem, error)
}

// Resolver turns a user's active equipment rows into the effect set consumed
// by payout, timeout and cooldown logic.
type Resolver struct {
	store ItemStore
}

// NewResolver creates a new Resolver instance.
func NewResolver(store ItemStore) *Resolver {
	return &Resolver{store: store}
}

// ActiveEffects returns the effects granted by the user's unexpired
// equipment, in the order the items were acquired. Unknown item types are
// logged and skipped rather than failing the lookup.
func (r *Resolver) ActiveEffects(ctx context.Context, channel, username string) ([]Effect, error) {
	items, err := r.store.ActiveItems(ctx, channel, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load active equipment: %w", err)
	}

	effects := make([]Effect, 0, len(items))
	for _, item := range items {
		cfg, ok := GetItem(ItemType(item.ItemType))
		if !ok {
			log.Warn().
				Str("channel", channel).
				Str("user", username).
				Str("item_type", item.ItemType).
				Msg("Unknown equipment item type, skipping")
			continue
		}
		effects = append(effects, cfg.Effect)
	}

	return effects, nil
}
