// Package economy implements the balance ledger: lazy account creation,
// atomic credit/debit with an append-only audit trail, and bounded
// user-to-user transfers.
package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/model"
	"twitch-casino-bot/internal/pkg/lock"
	"twitch-casino-bot/internal/repository"
)

// Sentinel errors surfaced to callers. Insufficient funds and missing
// accounts are expected business outcomes, not system failures.
var (
	ErrInsufficientFunds = repository.ErrInsufficientFunds
	ErrAccountNotFound   = repository.ErrAccountNotFound
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrTransferTooSmall  = errors.New("transfer amount below minimum")
	ErrTransferTooLarge  = errors.New("transfer amount above maximum")
)

// BalanceStore is the persistence boundary for accounts. The pgx-backed
// repository implements it; tests use an in-memory fake.
type BalanceStore interface {
	Get(ctx context.Context, channel, username string) (*model.BalanceAccount, error)
	Create(ctx context.Context, channel, username string, startingBalance int64) (*model.BalanceAccount, error)
	ApplyDelta(ctx context.Context, channel, username string, amount int64, entryType, description string) (*model.BalanceAccount, error)
	SetDailyClaim(ctx context.Context, channel, username string, claimTime int64) error
	IncrementMessageCount(ctx context.Context, channel, username string) (*model.BalanceAccount, error)
	SetActivityReward(ctx context.Context, channel, username string, rewardTime int64) error
}

// Ledger owns all balance mutations. Every mutation is serialized per
// account by an in-process lock around the store's read-check-write
// sequence, so two concurrent debits can never both pass the sufficiency
// check.
type Ledger struct {
	store           BalanceStore
	locks           *lock.AccountLock
	startingBalance int64
	transferMin     int64
	transferMax     int64
}

// NewLedger creates a new Ledger instance.
func NewLedger(store BalanceStore, locks *lock.AccountLock, startingBalance, transferMin, transferMax int64) *Ledger {
	return &Ledger{
		store:           store,
		locks:           locks,
		startingBalance: startingBalance,
		transferMin:     transferMin,
		transferMax:     transferMax,
	}
}

// TransferMin returns the configured transfer minimum, for user-facing
// messages.
func (l *Ledger) TransferMin() int64 { return l.transferMin }

// TransferMax returns the configured transfer maximum.
func (l *Ledger) TransferMax() int64 { return l.transferMax }

// GetOrCreateBalance returns the account, creating it with the starting
// balance on first lookup. The grant is recorded as an admin_adjust ledger
// entry by the store.
func (l *Ledger) GetOrCreateBalance(ctx context.Context, channel, username string) (*model.BalanceAccount, error) {
	account, err := l.store.Get(ctx, channel, username)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account, err = l.store.Create(ctx, channel, username, l.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	log.Info().
		Str("channel", channel).
		Str("user", username).
		Int64("starting_balance", l.startingBalance).
		Msg("Account created")
	return account, nil
}

// Credit adds amount to the account and appends a ledger entry. The
// account is created lazily if missing. Never fails for business reasons.
func (l *Ledger) Credit(ctx context.Context, channel, username string, amount int64, entryType, description string) (*model.BalanceAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	l.locks.Lock(channel, username)
	defer l.locks.Unlock(channel, username)

	if _, err := l.GetOrCreateBalance(ctx, channel, username); err != nil {
		return nil, err
	}
	return l.store.ApplyDelta(ctx, channel, username, amount, entryType, description)
}

// Debit subtracts amount from the account and appends a ledger entry.
// Returns ErrInsufficientFunds, leaving the balance unchanged and writing
// no entry, when the account cannot cover the amount.
func (l *Ledger) Debit(ctx context.Context, channel, username string, amount int64, entryType, description string) (*model.BalanceAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	l.locks.Lock(channel, username)
	defer l.locks.Unlock(channel, username)

	if _, err := l.GetOrCreateBalance(ctx, channel, username); err != nil {
		return nil, err
	}
	return l.store.ApplyDelta(ctx, channel, username, -amount, entryType, description)
}

// Transfer moves amount from sender to receiver as one logical operation:
// the debit and credit happen under both accounts' locks, and a failed
// debit leaves no partial effect. The receiver must already have an
// account.
func (l *Ledger) Transfer(ctx context.Context, channel, sender, receiver string, amount int64) error {
	switch {
	case sender == receiver:
		return ErrSelfTransfer
	case amount < l.transferMin:
		return ErrTransferTooSmall
	case amount > l.transferMax:
		return ErrTransferTooLarge
	}

	if _, err := l.store.Get(ctx, channel, receiver); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to get receiver: %w", err)
	}

	return l.locks.WithOrderedLock(channel, sender, receiver, func() error {
		if _, err := l.GetOrCreateBalance(ctx, channel, sender); err != nil {
			return err
		}

		debitDesc := fmt.Sprintf("transfer to %s", receiver)
		if _, err := l.store.ApplyDelta(ctx, channel, sender, -amount, model.EntryTypeTransfer, debitDesc); err != nil {
			return err
		}

		creditDesc := fmt.Sprintf("transfer from %s", sender)
		if _, err := l.store.ApplyDelta(ctx, channel, receiver, amount, model.EntryTypeTransfer, creditDesc); err != nil {
			// Undo the debit so no partial transfer is visible.
			if _, undoErr := l.store.ApplyDelta(ctx, channel, sender, amount, model.EntryTypeTransfer, "transfer reversal"); undoErr != nil {
				log.Error().Err(undoErr).
					Str("channel", channel).
					Str("sender", sender).
					Msg("Failed to reverse transfer debit")
			}
			return fmt.Errorf("failed to credit receiver: %w", err)
		}
		return nil
	})
}
