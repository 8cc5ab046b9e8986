package slot

import (
	"fmt"
	"strings"

	"twitch-casino-bot/internal/equipment"
)

// Fixed payout constants.
const (
	// JackpotMultiplier is the global multiplier applied on top of the
	// rarity base for jackpot outcomes.
	JackpotMultiplier = 7
	// PartialMultiplier is the global multiplier for partial outcomes.
	PartialMultiplier = 2
	// MissRefundFraction guarantees a consolation payout of at least this
	// fraction of the bet.
	MissRefundFraction = 0.1
)

// Timeout durations in seconds for miss outcomes, before equipment.
const (
	timeoutEpic          = 60
	timeoutConsolation   = 120
	timeoutNoConsolation = 180
)

// PayoutResult is the computed result of one roll's payout and penalty.
type PayoutResult struct {
	// Payout is the gross amount credited back, 0 for a full loss.
	Payout int64
	// TimeoutSeconds is the chat timeout after equipment reduction.
	TimeoutSeconds int
	// TimeoutMessage names the equipment that blocked or reduced the
	// timeout; empty when no equipment applied.
	TimeoutMessage string
}

// baseMultiplier is the fixed rarity multiplier table.
func baseMultiplier(r Rarity) float64 {
	switch r {
	case Common:
		return 0.2
	case Uncommon:
		return 0.4
	case Rare:
		return 0.6
	case Epic:
		return 1.0
	case Legendary:
		return 5.0
	case Mythical:
		return 100.0
	default:
		return 0
	}
}

// ConsolationPrize is the miss-outcome consolation table keyed by the
// rarest symbol involved.
func ConsolationPrize(r Rarity) int64 {
	switch r {
	case Mythical:
		return 5000
	case Legendary:
		return 50
	case Epic:
		return 25
	default:
		return 0
	}
}

// ComputePayout computes the gross payout and timeout for one classified
// roll. It is a pure function of its inputs: same outcome, rarity, bet and
// effects always yield the same result. The payout is truncated to an
// integer and never negative.
func ComputePayout(outcome Outcome, rarity Rarity, bet int64, effects []equipment.Effect) PayoutResult {
	var gross float64

	switch outcome {
	case Jackpot:
		gross = baseMultiplier(rarity) * float64(bet) * JackpotMultiplier
		gross *= equipment.ProductOf(effects, equipment.JackpotPayoutMultiplier)
	case Partial:
		gross = baseMultiplier(rarity) * float64(bet) * PartialMultiplier
		gross *= equipment.ProductOf(effects, equipment.PartialPayoutMultiplier)
	case Miss:
		prize := ConsolationPrize(rarity)
		if prize > 0 {
			gross = float64(prize)
			if refund := float64(bet) * MissRefundFraction; refund > gross {
				gross = refund
			}
			gross *= equipment.ProductOf(effects, equipment.MissPayoutMultiplier)
		}
	}

	payout := int64(gross)
	if payout < 0 {
		payout = 0
	}

	timeout, message := 0, ""
	if outcome == Miss {
		timeout, message = applyTimeoutEffects(missTimeout(rarity), effects)
	}

	return PayoutResult{
		Payout:         payout,
		TimeoutSeconds: timeout,
		TimeoutMessage: message,
	}
}

// missTimeout returns the base timeout for a miss of the given rarity.
// Jackpot and partial outcomes never produce a timeout.
func missTimeout(rarity Rarity) int {
	prize := ConsolationPrize(rarity)
	switch {
	case prize > 0 && (rarity == Legendary || rarity == Mythical):
		return 0
	case rarity == Epic:
		return timeoutEpic
	case prize > 0:
		return timeoutConsolation
	default:
		return timeoutNoConsolation
	}
}

// applyTimeoutEffects applies equipment to a base timeout. A protection
// effect short-circuits to zero using the first matching item's message.
// Otherwise every reduction effect contributes its factor to the product.
func applyTimeoutEffects(base int, effects []equipment.Effect) (int, string) {
	if base <= 0 {
		return 0, ""
	}

	for _, e := range effects {
		if e.Kind == equipment.TimeoutProtection {
			return 0, fmt.Sprintf("%s blocked the timeout", e.ItemName)
		}
	}

	factor := 1.0
	var names []string
	for _, e := range effects {
		if e.Kind == equipment.TimeoutReduction {
			factor *= e.Factor
			names = append(names, e.ItemName)
		}
	}
	if len(names) == 0 {
		return base, ""
	}

	reduced := int(float64(base) * factor)
	if len(names) == 1 {
		return reduced, fmt.Sprintf("%s reduced the timeout", names[0])
	}
	return reduced, fmt.Sprintf("Equipment stack (%s) reduced the timeout", strings.Join(names, ", "))
}

// CalculateRollCooldown returns the effective roll cooldown: the minimum of
// the default and every cooldown override held. Equipment can only shorten
// the cooldown, never lengthen it.
func CalculateRollCooldown(defaultSeconds int, effects []equipment.Effect) int {
	cooldown := defaultSeconds
	for _, e := range effects {
		if e.Kind == equipment.RollCooldownOverride && e.Seconds < cooldown {
			cooldown = e.Seconds
		}
	}
	return cooldown
}
