package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/economy"
	"twitch-casino-bot/internal/equipment"
)

// ShopHandler handles the equipment shop commands.
type ShopHandler struct {
	shop *economy.ShopService
}

// NewShopHandler creates a new ShopHandler instance.
func NewShopHandler(shop *economy.ShopService) *ShopHandler {
	return &ShopHandler{shop: shop}
}

// HandleList replies with the purchasable catalog.
func (h *ShopHandler) HandleList() string {
	parts := make([]string, 0, len(equipment.AllItems()))
	for _, item := range equipment.AllItems() {
		parts = append(parts, fmt.Sprintf("%s (%d)", item.Type, item.Price))
	}
	return "Shop: " + strings.Join(parts, " | ") + ". Buy with !buy <item>"
}

// HandleBuy purchases an item: !buy <item>.
func (h *ShopHandler) HandleBuy(ctx context.Context, channel, username string, args []string) string {
	if len(args) != 1 {
		return fmt.Sprintf("@%s usage: !buy <item>", username)
	}

	item, err := h.shop.Purchase(ctx, channel, username, equipment.ItemType(strings.ToLower(args[0])))
	switch {
	case errors.Is(err, economy.ErrItemNotFound):
		return fmt.Sprintf("@%s no such item. Check !shop", username)
	case errors.Is(err, economy.ErrItemAlreadyActive):
		return fmt.Sprintf("@%s you already have that item active.", username)
	case errors.Is(err, economy.ErrInsufficientFunds):
		return fmt.Sprintf("@%s you can't afford that.", username)
	case err != nil:
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to purchase item")
		return somethingWentWrong(username)
	}
	return fmt.Sprintf("@%s bought %s! Active for %s.", username, item.Name, item.Duration)
}
