package slot

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"twitch-casino-bot/internal/equipment"
)

func TestComputePayout(t *testing.T) {
	tests := []struct {
		name        string
		outcome     Outcome
		rarity      Rarity
		bet         int64
		effects     []equipment.Effect
		wantPayout  int64
		wantTimeout int
	}{
		{
			name:        "miss with epic consolation beats bet refund",
			outcome:     Miss,
			rarity:      Epic,
			bet:         50,
			wantPayout:  25,
			wantTimeout: 60,
		},
		{
			name:       "common jackpot",
			outcome:    Jackpot,
			rarity:     Common,
			bet:        100,
			wantPayout: 140,
		},
		{
			name:       "mythical jackpot",
			outcome:    Jackpot,
			rarity:     Mythical,
			bet:        100,
			wantPayout: 70000,
		},
		{
			name:       "rare partial",
			outcome:    Partial,
			rarity:     Rare,
			bet:        100,
			wantPayout: 120,
		},
		{
			name:        "miss without consolation pays nothing",
			outcome:     Miss,
			rarity:      Rare,
			bet:         500,
			wantPayout:  0,
			wantTimeout: 180,
		},
		{
			name:        "legendary miss consolation with no timeout",
			outcome:     Miss,
			rarity:      Legendary,
			bet:         100,
			wantPayout:  50,
			wantTimeout: 0,
		},
		{
			name:        "mythical miss consolation with no timeout",
			outcome:     Miss,
			rarity:      Mythical,
			bet:         100,
			wantPayout:  5000,
			wantTimeout: 0,
		},
		{
			name:        "refund floor wins over small consolation",
			outcome:     Miss,
			rarity:      Epic,
			bet:         1000,
			wantPayout:  100,
			wantTimeout: 60,
		},
		{
			name:    "jackpot multiplier equipment",
			outcome: Jackpot,
			rarity:  Common,
			bet:     100,
			effects: []equipment.Effect{
				{Kind: equipment.JackpotPayoutMultiplier, Factor: 1.5, ItemName: "Lucky Horseshoe"},
			},
			wantPayout: 210,
		},
		{
			name:    "partial multiplier equipment truncates",
			outcome: Partial,
			rarity:  Common,
			bet:     25,
			effects: []equipment.Effect{
				{Kind: equipment.PartialPayoutMultiplier, Factor: 1.25, ItemName: "Loaded Reels"},
			},
			// 0.2*25*2*1.25 = 12.5, truncated
			wantPayout: 12,
		},
		{
			name:    "miss multiplier applies to consolation",
			outcome: Miss,
			rarity:  Epic,
			bet:     50,
			effects: []equipment.Effect{
				{Kind: equipment.MissPayoutMultiplier, Factor: 2.0, ItemName: "Scrap Magnet"},
			},
			wantPayout:  50,
			wantTimeout: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePayout(tt.outcome, tt.rarity, tt.bet, tt.effects)
			if got.Payout != tt.wantPayout {
				t.Errorf("payout = %d, want %d", got.Payout, tt.wantPayout)
			}
			if got.TimeoutSeconds != tt.wantTimeout {
				t.Errorf("timeout = %d, want %d", got.TimeoutSeconds, tt.wantTimeout)
			}
		})
	}
}

func TestTimeoutEquipment(t *testing.T) {
	protection := equipment.Effect{Kind: equipment.TimeoutProtection, ItemName: "Mod Badge"}
	reduction := equipment.Effect{Kind: equipment.TimeoutReduction, Factor: 0.5, ItemName: "Hourglass"}
	otherReduction := equipment.Effect{Kind: equipment.TimeoutReduction, Factor: 0.5, ItemName: "Second Hourglass"}

	t.Run("protection blocks the timeout entirely", func(t *testing.T) {
		got := ComputePayout(Miss, Rare, 100, []equipment.Effect{reduction, protection})
		if got.TimeoutSeconds != 0 {
			t.Errorf("timeout = %d, want 0", got.TimeoutSeconds)
		}
		if got.TimeoutMessage != "Mod Badge blocked the timeout" {
			t.Errorf("message = %q", got.TimeoutMessage)
		}
	})

	t.Run("single reduction halves and names the item", func(t *testing.T) {
		got := ComputePayout(Miss, Rare, 100, []equipment.Effect{reduction})
		if got.TimeoutSeconds != 90 {
			t.Errorf("timeout = %d, want 90", got.TimeoutSeconds)
		}
		if got.TimeoutMessage != "Hourglass reduced the timeout" {
			t.Errorf("message = %q", got.TimeoutMessage)
		}
	})

	t.Run("reductions stack multiplicatively", func(t *testing.T) {
		got := ComputePayout(Miss, Rare, 100, []equipment.Effect{reduction, otherReduction})
		if got.TimeoutSeconds != 45 {
			t.Errorf("timeout = %d, want 45", got.TimeoutSeconds)
		}
		if !strings.HasPrefix(got.TimeoutMessage, "Equipment stack (") {
			t.Errorf("message = %q, want stack message", got.TimeoutMessage)
		}
	})

	t.Run("no message when no equipment applies", func(t *testing.T) {
		got := ComputePayout(Miss, Rare, 100, nil)
		if got.TimeoutSeconds != 180 || got.TimeoutMessage != "" {
			t.Errorf("got %d %q, want 180 with no message", got.TimeoutSeconds, got.TimeoutMessage)
		}
	})

	t.Run("winning outcomes never time out", func(t *testing.T) {
		got := ComputePayout(Jackpot, Common, 100, nil)
		if got.TimeoutSeconds != 0 || got.TimeoutMessage != "" {
			t.Errorf("jackpot produced timeout %d %q", got.TimeoutSeconds, got.TimeoutMessage)
		}
	})
}

func TestCalculateRollCooldown(t *testing.T) {
	override := equipment.Effect{Kind: equipment.RollCooldownOverride, Seconds: 30, ItemName: "Espresso Shot"}
	slowOverride := equipment.Effect{Kind: equipment.RollCooldownOverride, Seconds: 90, ItemName: "Decaf"}

	tests := []struct {
		name    string
		effects []equipment.Effect
		want    int
	}{
		{"no equipment keeps the default", nil, 60},
		{"override shortens", []equipment.Effect{override}, 30},
		{"override never lengthens", []equipment.Effect{slowOverride}, 60},
		{"minimum of all overrides wins", []equipment.Effect{slowOverride, override}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateRollCooldown(60, tt.effects); got != tt.want {
				t.Errorf("CalculateRollCooldown() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestPayoutProperty: payouts are deterministic, never negative, and the
// timeout only ever appears on a miss.
func TestPayoutProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		outcome := Outcome(rapid.IntRange(0, 2).Draw(t, "outcome"))
		rarity := Rarity(rapid.IntRange(int(Common), int(Mythical)).Draw(t, "rarity"))
		bet := rapid.Int64Range(1, 5000).Draw(t, "bet")

		first := ComputePayout(outcome, rarity, bet, nil)
		second := ComputePayout(outcome, rarity, bet, nil)

		if first != second {
			t.Fatalf("payout not deterministic: %+v vs %+v", first, second)
		}
		if first.Payout < 0 {
			t.Fatalf("negative payout %d", first.Payout)
		}
		if outcome != Miss && first.TimeoutSeconds != 0 {
			t.Fatalf("timeout %d on outcome %v", first.TimeoutSeconds, outcome)
		}
	})
}
