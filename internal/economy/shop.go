package economy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"twitch-casino-bot/internal/equipment"
	"twitch-casino-bot/internal/model"
)

// Shop errors.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrItemAlreadyActive = errors.New("item already active")
)

// EquipmentStore grants purchased items and reports active holdings.
type EquipmentStore interface {
	AddItem(ctx context.Context, channel, username, itemType string, expiresAt time.Time) error
	HasActiveItem(ctx context.Context, channel, username, itemType string) (bool, error)
}

// ShopService sells time-boxed equipment for coins.
type ShopService struct {
	ledger *Ledger
	items  EquipmentStore
	now    func() time.Time
}

// NewShopService creates a new ShopService instance.
func NewShopService(ledger *Ledger, items EquipmentStore) *ShopService {
	return &ShopService{ledger: ledger, items: items, now: time.Now}
}

// Items returns the purchasable catalog.
func (s *ShopService) Items() []equipment.ItemConfig {
	return equipment.AllItems()
}

// Purchase debits the item price and grants the item until its duration
// elapses. Buying an item the user already holds active is refused before
// any money moves; an insufficient balance surfaces as
// ErrInsufficientFunds with nothing granted.
func (s *ShopService) Purchase(ctx context.Context, channel, username string, itemType equipment.ItemType) (*equipment.ItemConfig, error) {
	item, ok := equipment.GetItem(itemType)
	if !ok {
		return nil, ErrItemNotFound
	}

	active, err := s.items.HasActiveItem(ctx, channel, username, string(itemType))
	if err != nil {
		return nil, fmt.Errorf("failed to check existing item: %w", err)
	}
	if active {
		return nil, ErrItemAlreadyActive
	}

	desc := fmt.Sprintf("purchased %s", item.Name)
	if _, err := s.ledger.Debit(ctx, channel, username, item.Price, model.EntryTypeShopPurchase, desc); err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(item.Duration)
	if err := s.items.AddItem(ctx, channel, username, string(itemType), expiresAt); err != nil {
		return nil, fmt.Errorf("failed to grant item after purchase: %w", err)
	}
	return &item, nil
}
