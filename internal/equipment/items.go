package equipment

import "time"

// ItemType identifies a purchasable equipment item.
type ItemType string

// Item types available in the shop.
const (
	ItemModBadge       ItemType = "mod_badge"       // blocks roll timeouts
	ItemHourglass      ItemType = "hourglass"       // halves roll timeouts
	ItemEspressoShot   ItemType = "espresso_shot"   // shortens roll cooldown
	ItemLuckyHorseshoe ItemType = "lucky_horseshoe" // boosts jackpot payouts
	ItemLoadedReels    ItemType = "loaded_reels"    // boosts partial payouts
	ItemScrapMagnet    ItemType = "scrap_magnet"    // boosts consolation payouts
	ItemGoldenCalendar ItemType = "golden_calendar" // boosts daily bonus
)

// ItemConfig holds the shop configuration for one item.
type ItemConfig struct {
	Type        ItemType
	Name        string
	Price       int64
	Duration    time.Duration
	Description string
	Effect      Effect
}

// Items contains all purchasable equipment.
var Items = map[ItemType]ItemConfig{
	ItemModBadge: {
		Type:        ItemModBadge,
		Name:        "Mod Badge",
		Price:       1500,
		Duration:    6 * time.Hour,
		Description: "Blocks any timeout from a losing roll for 6 hours",
		Effect:      Effect{Kind: TimeoutProtection, ItemName: "Mod Badge"},
	},
	ItemHourglass: {
		Type:        ItemHourglass,
		Name:        "Hourglass",
		Price:       1000,
		Duration:    6 * time.Hour,
		Description: "Halves roll timeouts for 6 hours",
		Effect:      Effect{Kind: TimeoutReduction, Factor: 0.5, ItemName: "Hourglass"},
	},
	ItemEspressoShot: {
		Type:        ItemEspressoShot,
		Name:        "Espresso Shot",
		Price:       500,
		Duration:    time.Hour,
		Description: "Roll cooldown capped at 30 seconds for 1 hour",
		Effect:      Effect{Kind: RollCooldownOverride, Seconds: 30, ItemName: "Espresso Shot"},
	},
	ItemLuckyHorseshoe: {
		Type:        ItemLuckyHorseshoe,
		Name:        "Lucky Horseshoe",
		Price:       2000,
		Duration:    6 * time.Hour,
		Description: "Jackpot payouts x1.5 for 6 hours",
		Effect:      Effect{Kind: JackpotPayoutMultiplier, Factor: 1.5, ItemName: "Lucky Horseshoe"},
	},
	ItemLoadedReels: {
		Type:        ItemLoadedReels,
		Name:        "Loaded Reels",
		Price:       1000,
		Duration:    6 * time.Hour,
		Description: "Partial payouts x1.25 for 6 hours",
		Effect:      Effect{Kind: PartialPayoutMultiplier, Factor: 1.25, ItemName: "Loaded Reels"},
	},
	ItemScrapMagnet: {
		Type:        ItemScrapMagnet,
		Name:        "Scrap Magnet",
		Price:       800,
		Duration:    3 * time.Hour,
		Description: "Consolation payouts x2 for 3 hours",
		Effect:      Effect{Kind: MissPayoutMultiplier, Factor: 2.0, ItemName: "Scrap Magnet"},
	},
	ItemGoldenCalendar: {
		Type:        ItemGoldenCalendar,
		Name:        "Golden Calendar",
		Price:       2500,
		Duration:    24 * time.Hour,
		Description: "Daily bonus x2 for 24 hours",
		Effect:      Effect{Kind: DailyBonusMultiplier, Factor: 2.0, ItemName: "Golden Calendar"},
	},
}

// GetItem returns the item config for a given type.
func GetItem(itemType ItemType) (ItemConfig, bool) {
	item, ok := Items[itemType]
	return item, ok
}

// AllItems returns all shop items in display order.
func AllItems() []ItemConfig {
	order := []ItemType{
		ItemModBadge,
		ItemHourglass,
		ItemEspressoShot,
		ItemLuckyHorseshoe,
		ItemLoadedReels,
		ItemScrapMagnet,
		ItemGoldenCalendar,
	}

	items := make([]ItemConfig, 0, len(order))
	for _, itemType := range order {
		if item, ok := Items[itemType]; ok {
			items = append(items, item)
		}
	}
	return items
}
