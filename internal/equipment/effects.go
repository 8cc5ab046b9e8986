// Package equipment models time-boxed equipment items and the effects they
// grant. Effects are a closed set of kinds consumed by the payout, timeout
// and cooldown logic via explicit switches.
package equipment

// EffectKind identifies one effect variant.
type EffectKind int

const (
	// TimeoutProtection cancels any chat timeout from a losing roll.
	TimeoutProtection EffectKind = iota
	// TimeoutReduction multiplies the timeout duration by Factor (< 1).
	TimeoutReduction
	// RollCooldownOverride caps the roll cooldown at Seconds.
	RollCooldownOverride
	// JackpotPayoutMultiplier multiplies jackpot payouts by Factor.
	JackpotPayoutMultiplier
	// PartialPayoutMultiplier multiplies partial payouts by Factor.
	PartialPayoutMultiplier
	// MissPayoutMultiplier multiplies consolation payouts by Factor.
	MissPayoutMultiplier
	// DailyBonusMultiplier multiplies the daily bonus by Factor.
	DailyBonusMultiplier
)

// Effect is one active equipment effect. Which fields are meaningful
// depends on Kind: Factor for multiplier/reduction kinds, Seconds for
// cooldown overrides. ItemName carries the owning item's display name for
// user-facing messages.
type Effect struct {
	Kind     EffectKind
	Factor   float64
	Seconds  int
	ItemName string
}

// String returns the effect kind name for logging.
func (k EffectKind) String() string {
	switch k {
	case TimeoutProtection:
		return "timeout_protection"
	case TimeoutReduction:
		return "timeout_reduction"
	case RollCooldownOverride:
		return "roll_cooldown_override"
	case JackpotPayoutMultiplier:
		return "jackpot_payout_multiplier"
	case PartialPayoutMultiplier:
		return "partial_payout_multiplier"
	case MissPayoutMultiplier:
		return "miss_payout_multiplier"
	case DailyBonusMultiplier:
		return "daily_bonus_multiplier"
	default:
		return "unknown"
	}
}

// ProductOf multiplies the Factor of every effect of the given kind.
// Returns 1.0 when no effect of that kind is present.
func ProductOf(effects []Effect, kind EffectKind) float64 {
	product := 1.0
	for _, e := range effects {
		if e.Kind == kind {
			product *= e.Factor
		}
	}
	return product
}
