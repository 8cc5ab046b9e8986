package economy

import (
	"context"
	"fmt"
	"time"

	"twitch-casino-bot/internal/equipment"
	"twitch-casino-bot/internal/model"
	"twitch-casino-bot/internal/pkg/lock"
)

// EffectSource yields a user's active equipment effects.
type EffectSource interface {
	ActiveEffects(ctx context.Context, channel, username string) ([]equipment.Effect, error)
}

// BonusConfig holds daily and activity reward tuning.
type BonusConfig struct {
	DailyReward      int64
	DailyCooldown    time.Duration
	ActivityReward   int64
	ActivityMessages int64
	ActivityInterval time.Duration
}

// DailyResult reports the outcome of a daily claim attempt.
type DailyResult struct {
	Claimed   bool
	Amount    int64
	Remaining time.Duration
}

// BonusService grants daily bonuses and chat activity rewards.
type BonusService struct {
	store   BalanceStore
	ledger  *Ledger
	effects EffectSource
	locks   *lock.AccountLock
	cfg     BonusConfig
	now     func() time.Time
}

// NewBonusService creates a new BonusService instance.
func NewBonusService(store BalanceStore, ledger *Ledger, effects EffectSource, locks *lock.AccountLock, cfg BonusConfig) *BonusService {
	return &BonusService{
		store:   store,
		ledger:  ledger,
		effects: effects,
		locks:   locks,
		cfg:     cfg,
		now:     time.Now,
	}
}

// ClaimDaily attempts the daily bonus claim. The reward is multiplied by
// the product of any active daily-bonus equipment. The check-credit-stamp
// sequence runs under the account lock so double-submitted claims cannot
// both succeed.
func (s *BonusService) ClaimDaily(ctx context.Context, channel, username string) (*DailyResult, error) {
	var result *DailyResult

	err := s.locks.WithLock(channel, username, func() error {
		account, err := s.ledger.GetOrCreateBalance(ctx, channel, username)
		if err != nil {
			return err
		}

		now := s.now()
		if account.LastDailyClaim > 0 {
			nextClaim := time.Unix(account.LastDailyClaim, 0).Add(s.cfg.DailyCooldown)
			if now.Before(nextClaim) {
				result = &DailyResult{Remaining: nextClaim.Sub(now)}
				return nil
			}
		}

		reward := s.cfg.DailyReward
		effects, err := s.effects.ActiveEffects(ctx, channel, username)
		if err != nil {
			return fmt.Errorf("failed to resolve equipment: %w", err)
		}
		reward = int64(float64(reward) * equipment.ProductOf(effects, equipment.DailyBonusMultiplier))

		if _, err := s.store.ApplyDelta(ctx, channel, username, reward, model.EntryTypeDaily, "daily bonus"); err != nil {
			return err
		}
		if err := s.store.SetDailyClaim(ctx, channel, username, now.Unix()); err != nil {
			return err
		}

		result = &DailyResult{Claimed: true, Amount: reward}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordMessage counts one chat message and credits the activity reward
// when the counter crosses the configured threshold, throttled by the
// minimum interval. Returns the credited amount, 0 when nothing was due.
func (s *BonusService) RecordMessage(ctx context.Context, channel, username string) (int64, error) {
	var credited int64

	err := s.locks.WithLock(channel, username, func() error {
		if _, err := s.ledger.GetOrCreateBalance(ctx, channel, username); err != nil {
			return err
		}

		account, err := s.store.IncrementMessageCount(ctx, channel, username)
		if err != nil {
			return err
		}

		if s.cfg.ActivityMessages <= 0 || account.MessageCount%s.cfg.ActivityMessages != 0 {
			return nil
		}

		now := s.now()
		if account.LastActivityReward > 0 {
			since := now.Sub(time.Unix(account.LastActivityReward, 0))
			if since < s.cfg.ActivityInterval {
				return nil
			}
		}

		if _, err := s.store.ApplyDelta(ctx, channel, username, s.cfg.ActivityReward, model.EntryTypeActivity, "chat activity reward"); err != nil {
			return err
		}
		if err := s.store.SetActivityReward(ctx, channel, username, now.Unix()); err != nil {
			return err
		}
		credited = s.cfg.ActivityReward
		return nil
	})
	if err != nil {
		return 0, err
	}
	return credited, nil
}
