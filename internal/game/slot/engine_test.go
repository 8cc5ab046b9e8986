package slot

import (
	"math/rand"
	"testing"

	"pgregory.net/rapid"
)

func symbol(name string, weight float64, rarity Rarity) Symbol {
	return Symbol{Name: name, Weight: weight, Rarity: rarity}
}

func TestClassify(t *testing.T) {
	cherry := symbol("Cherry", 40, Common)
	lemon := symbol("Lemon", 30, Uncommon)
	grape := symbol("Grape", 20, Rare)

	tests := []struct {
		name string
		draw [3]Symbol
		want Outcome
	}{
		{"three identical", [3]Symbol{cherry, cherry, cherry}, Jackpot},
		{"pair first two", [3]Symbol{cherry, cherry, lemon}, Partial},
		{"pair outer", [3]Symbol{cherry, lemon, cherry}, Partial},
		{"pair last two", [3]Symbol{lemon, cherry, cherry}, Partial},
		{"all distinct", [3]Symbol{cherry, lemon, grape}, Miss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.draw); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.draw, got, tt.want)
			}
		})
	}
}

func TestDetermineRarity(t *testing.T) {
	cherry := symbol("Cherry", 40, Common)
	lemon := symbol("Lemon", 30, Uncommon)
	diamond := symbol("Diamond", 7, Epic)
	seven := symbol("Seven", 3, Legendary)
	lemonTwin := symbol("Lime", 30, Uncommon)

	tests := []struct {
		name    string
		draw    [3]Symbol
		outcome Outcome
		want    Rarity
	}{
		{"jackpot uses the only symbol", [3]Symbol{seven, seven, seven}, Jackpot, Legendary},
		{"partial takes the rarer of pair and odd one", [3]Symbol{cherry, cherry, diamond}, Partial, Epic},
		{"partial keeps pair rarity when pair is rarer", [3]Symbol{diamond, diamond, cherry}, Partial, Epic},
		{"partial tie favors the repeated symbol", [3]Symbol{lemon, lemon, lemonTwin}, Partial, Uncommon},
		{"miss takes the highest rank", [3]Symbol{cherry, diamond, lemon}, Miss, Epic},
		{"miss rank tie resolved by draw order", [3]Symbol{lemon, lemonTwin, cherry}, Miss, Uncommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineRarity(tt.draw, tt.outcome); got != tt.want {
				t.Errorf("DetermineRarity(%v, %v) = %v, want %v", tt.draw, tt.outcome, got, tt.want)
			}
		})
	}
}

func TestSpinDeterministicWithSeededRand(t *testing.T) {
	catalog := DefaultCatalog()
	a := NewEngineWithRand(catalog, rand.New(rand.NewSource(42)))
	b := NewEngineWithRand(catalog, rand.New(rand.NewSource(42)))

	for i := 0; i < 100; i++ {
		da, db := a.Spin(), b.Spin()
		if da != db {
			t.Fatalf("spin %d diverged: %v vs %v", i, da, db)
		}
	}
}

func TestSpinOnlyDrawsCatalogSymbols(t *testing.T) {
	catalog := DefaultCatalog()
	engine := NewEngineWithRand(catalog, rand.New(rand.NewSource(7)))

	for i := 0; i < 1000; i++ {
		for _, s := range engine.Spin() {
			if _, err := FindSymbol(catalog, s.Name); err != nil {
				t.Fatalf("drew symbol outside catalog: %q", s.Name)
			}
		}
	}
}

func TestFormatDraw(t *testing.T) {
	draw := [3]Symbol{
		symbol("Cherry", 40, Common),
		symbol("Cherry", 40, Common),
		symbol("Seven", 3, Legendary),
	}
	want := "Cherry | Cherry | Seven"
	if got := FormatDraw(draw); got != want {
		t.Errorf("FormatDraw() = %q, want %q", got, want)
	}
}

func TestDefaultCatalogRarityOrder(t *testing.T) {
	catalog := DefaultCatalog()
	if len(catalog) != 6 {
		t.Fatalf("expected 6 symbols, got %d", len(catalog))
	}
	// Rarer symbols carry lower weights.
	for i := 1; i < len(catalog); i++ {
		if catalog[i].Weight > catalog[i-1].Weight {
			t.Errorf("symbol %q (weight %v) heavier than %q (weight %v)",
				catalog[i].Name, catalog[i].Weight, catalog[i-1].Name, catalog[i-1].Weight)
		}
		if catalog[i].Rarity.Rank() <= catalog[i-1].Rarity.Rank() {
			t.Errorf("symbol %q rarity does not increase", catalog[i].Name)
		}
	}
}

// TestRarityWithinDrawProperty: for any draw, the resolved rarity is the
// rarity of one of the drawn symbols.
func TestRarityWithinDrawProperty(t *testing.T) {
	catalog := DefaultCatalog()

	rapid.Check(t, func(t *rapid.T) {
		var draw [3]Symbol
		for i := range draw {
			draw[i] = catalog[rapid.IntRange(0, len(catalog)-1).Draw(t, "symbol")]
		}

		outcome := Classify(draw)
		rarity := DetermineRarity(draw, outcome)

		found := false
		for _, s := range draw {
			if s.Rarity == rarity {
				found = true
			}
		}
		if !found {
			t.Fatalf("rarity %v not present in draw %v", rarity, draw)
		}

		if outcome == Miss {
			for _, s := range draw {
				if s.Rarity.Rank() > rarity.Rank() {
					t.Fatalf("miss rarity %v is not the maximum in %v", rarity, draw)
				}
			}
		}
	})
}
