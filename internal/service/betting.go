// Package service composes the game engines, economy and repositories
// into the operations exposed to chat commands and the REST API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/equipment"
	"twitch-casino-bot/internal/game/slot"
	"twitch-casino-bot/internal/model"
	"twitch-casino-bot/internal/pkg/lock"
)

// Betting business outcomes.
var (
	ErrBetTooSmall = errors.New("bet below minimum")
	ErrBetTooLarge = errors.New("bet above maximum")
	ErrOnCooldown  = errors.New("roll is on cooldown")
)

// Wallet is the slice of the economy ledger the betting service uses.
type Wallet interface {
	Credit(ctx context.Context, channel, username string, amount int64, entryType, description string) (*model.BalanceAccount, error)
	Debit(ctx context.Context, channel, username string, amount int64, entryType, description string) (*model.BalanceAccount, error)
}

// BetRecorder persists roll records.
type BetRecorder interface {
	Append(ctx context.Context, record *model.BetRecord) error
}

// EffectSource resolves a user's active equipment effects.
type EffectSource interface {
	ActiveEffects(ctx context.Context, channel, username string) ([]equipment.Effect, error)
}

// BettingConfig holds the roll limits.
type BettingConfig struct {
	MinBet          int64
	MaxBet          int64
	CooldownSeconds int
}

// RollResult is the full outcome of one slot roll.
type RollResult struct {
	Draw    [3]slot.Symbol
	Outcome slot.Outcome
	Rarity  slot.Rarity
	Bet     int64
	Payout  int64
	// Profit is Payout minus Bet; negative on a losing roll.
	Profit  int64
	Balance int64
	// TimeoutSeconds is the chat timeout to apply, 0 for none.
	TimeoutSeconds int
	// TimeoutMessage names the equipment that blocked or reduced the
	// timeout, empty when none applied.
	TimeoutMessage string
}

// CooldownError carries the seconds remaining until the next allowed roll.
type CooldownError struct {
	Remaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("roll available in %ds", e.Remaining)
}

// Is makes errors.Is(err, ErrOnCooldown) match.
func (e *CooldownError) Is(target error) bool {
	return target == ErrOnCooldown
}

// BettingService runs slot rolls: it validates the bet, enforces the
// per-user cooldown, debits the stake, records the roll and credits any
// payout. The stake debit and the payout credit are separate ledger
// entries so the audit trail shows the full money flow.
type BettingService struct {
	engine   *slot.Engine
	wallet   Wallet
	records  BetRecorder
	effects  EffectSource
	cfg      BettingConfig
	lastRoll sync.Map // lock key -> time.Time

	now func() time.Time
}

// NewBettingService creates a new BettingService instance.
func NewBettingService(engine *slot.Engine, wallet Wallet, records BetRecorder, effects EffectSource, cfg BettingConfig) *BettingService {
	return &BettingService{
		engine:  engine,
		wallet:  wallet,
		records: records,
		effects: effects,
		cfg:     cfg,
		now:     time.Now,
	}
}

// MinBet returns the configured minimum bet, for user-facing messages.
func (s *BettingService) MinBet() int64 { return s.cfg.MinBet }

// MaxBet returns the configured maximum bet.
func (s *BettingService) MaxBet() int64 { return s.cfg.MaxBet }

// Roll runs one slot roll for the user.
//
// Order matters: the stake is debited before any payout is credited, and
// the bet record is written as soon as the debit succeeds, so every paid
// roll appears in the history even if crediting the payout fails.
func (s *BettingService) Roll(ctx context.Context, channel, username string, bet int64) (*RollResult, error) {
	if bet < s.cfg.MinBet {
		return nil, ErrBetTooSmall
	}
	if bet > s.cfg.MaxBet {
		return nil, ErrBetTooLarge
	}

	effects, err := s.effects.ActiveEffects(ctx, channel, username)
	if err != nil {
		return nil, err
	}

	if remaining := s.cooldownRemaining(channel, username, effects); remaining > 0 {
		return nil, &CooldownError{Remaining: remaining}
	}

	draw := s.engine.Spin()
	outcome := slot.Classify(draw)
	rarity := slot.DetermineRarity(draw, outcome)

	account, err := s.wallet.Debit(ctx, channel, username, bet,
		model.EntryTypeBetLoss, fmt.Sprintf("slot roll: %s", slot.FormatDraw(draw)))
	if err != nil {
		return nil, err
	}
	s.lastRoll.Store(lock.Key(channel, username), s.now())

	record := &model.BetRecord{
		Channel:    channel,
		Username:   username,
		SlotResult: slot.FormatDraw(draw),
		ResultType: outcome.String(),
		Rarity:     rarity.String(),
	}
	if err := s.records.Append(ctx, record); err != nil {
		// The roll already happened; losing the record is not worth
		// failing the user's result.
		log.Error().Err(err).
			Str("channel", channel).
			Str("user", username).
			Msg("Failed to append bet record")
	}

	payout := slot.ComputePayout(outcome, rarity, bet, effects)

	balance := account.Balance
	if payout.Payout > 0 {
		entryType := model.EntryTypeBetWin
		if outcome == slot.Miss {
			entryType = model.EntryTypeConsolation
		}
		account, err = s.wallet.Credit(ctx, channel, username, payout.Payout,
			entryType, fmt.Sprintf("slot %s payout (%s)", outcome, rarity))
		if err != nil {
			return nil, fmt.Errorf("failed to credit payout: %w", err)
		}
		balance = account.Balance
	}

	log.Info().
		Str("channel", channel).
		Str("user", username).
		Str("draw", slot.FormatDraw(draw)).
		Str("outcome", outcome.String()).
		Str("rarity", rarity.String()).
		Int64("bet", bet).
		Int64("payout", payout.Payout).
		Int("timeout", payout.TimeoutSeconds).
		Msg("Slot roll")

	return &RollResult{
		Draw:           draw,
		Outcome:        outcome,
		Rarity:         rarity,
		Bet:            bet,
		Payout:         payout.Payout,
		Profit:         payout.Payout - bet,
		Balance:        balance,
		TimeoutSeconds: payout.TimeoutSeconds,
		TimeoutMessage: payout.TimeoutMessage,
	}, nil
}

// cooldownRemaining returns how many seconds remain before the user may
// roll again, after equipment cooldown overrides.
func (s *BettingService) cooldownRemaining(channel, username string, effects []equipment.Effect) int {
	v, ok := s.lastRoll.Load(lock.Key(channel, username))
	if !ok {
		return 0
	}
	cooldown := slot.CalculateRollCooldown(s.cfg.CooldownSeconds, effects)
	elapsed := s.now().Sub(v.(time.Time))
	remaining := cooldown - int(elapsed.Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}
