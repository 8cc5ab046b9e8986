// Package slot implements the slot machine: the symbol catalog, the
// weighted reel engine and the payout/timeout calculator.
package slot

// Rarity is the total order over symbol rarities used for tie-breaking and
// highest-rarity selection.
type Rarity int

const (
	Common Rarity = iota + 1
	Uncommon
	Rare
	Epic
	Legendary
	Mythical
)

// String returns the rarity name as persisted in bet records.
func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	case Mythical:
		return "mythical"
	default:
		return "unknown"
	}
}

// Rank returns the rarity's numeric rank (Common=1 .. Mythical=6).
func (r Rarity) Rank() int {
	return int(r)
}

// Symbol is one reel symbol. Weights are relative sampling weights, they
// need not sum to 1.
type Symbol struct {
	Name   string
	Weight float64
	Rarity Rarity
}

// DefaultCatalog returns the static six-symbol catalog. The weights bias
// draws overwhelmingly toward the three cheap symbols; the Star is a
// once-in-a-lifetime draw.
func DefaultCatalog() []Symbol {
	return []Symbol{
		{Name: "Cherry", Weight: 40, Rarity: Common},
		{Name: "Lemon", Weight: 30, Rarity: Uncommon},
		{Name: "Grape", Weight: 20, Rarity: Rare},
		{Name: "Diamond", Weight: 7, Rarity: Epic},
		{Name: "Seven", Weight: 3, Rarity: Legendary},
		{Name: "Star", Weight: 0.0001, Rarity: Mythical},
	}
}
