package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/economy"
	"twitch-casino-bot/internal/model"
)

// LeaderboardSource lists the channel's richest accounts.
type LeaderboardSource interface {
	TopByBalance(ctx context.Context, channel string, limit int) ([]*model.BalanceAccount, error)
}

// HistorySource reads recent ledger entries.
type HistorySource interface {
	History(ctx context.Context, channel, username string, limit int) ([]*model.LedgerEntry, error)
}

// AccountHandler handles balance, daily, transfer, leaderboard and
// history commands, and counts ordinary messages for activity rewards.
type AccountHandler struct {
	ledger      *economy.Ledger
	bonus       *economy.BonusService
	leaderboard LeaderboardSource
	history     HistorySource
}

// NewAccountHandler creates a new AccountHandler instance.
func NewAccountHandler(ledger *economy.Ledger, bonus *economy.BonusService, leaderboard LeaderboardSource, history HistorySource) *AccountHandler {
	return &AccountHandler{
		ledger:      ledger,
		bonus:       bonus,
		leaderboard: leaderboard,
		history:     history,
	}
}

// HandleMessage counts a non-command chat line toward the activity reward.
func (h *AccountHandler) HandleMessage(ctx context.Context, channel, username string) string {
	credited, err := h.bonus.RecordMessage(ctx, channel, username)
	if err != nil {
		log.Error().Err(err).
			Str("channel", channel).
			Str("user", username).
			Msg("Failed to record message")
		return ""
	}
	if credited > 0 {
		return fmt.Sprintf("@%s earned %d coins for keeping chat alive!", username, credited)
	}
	return ""
}

// HandleBalance replies with the user's balance, creating the account on
// first contact.
func (h *AccountHandler) HandleBalance(ctx context.Context, channel, username string) string {
	account, err := h.ledger.GetOrCreateBalance(ctx, channel, username)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to get balance")
		return somethingWentWrong(username)
	}
	return fmt.Sprintf("@%s you have %d coins (earned %d, spent %d).",
		username, account.Balance, account.TotalEarned, account.TotalSpent)
}

// HandleDaily claims the daily bonus.
func (h *AccountHandler) HandleDaily(ctx context.Context, channel, username string) string {
	result, err := h.bonus.ClaimDaily(ctx, channel, username)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to claim daily")
		return somethingWentWrong(username)
	}
	if !result.Claimed {
		return fmt.Sprintf("@%s your daily bonus is ready in %s.", username, formatDuration(result.Remaining))
	}
	return fmt.Sprintf("@%s claimed the daily bonus: +%d coins!", username, result.Amount)
}

// HandleTransfer moves coins to another user: !give <user> <amount>.
func (h *AccountHandler) HandleTransfer(ctx context.Context, channel, username string, args []string) string {
	if len(args) != 2 {
		return fmt.Sprintf("@%s usage: !give <user> <amount>", username)
	}
	receiver := strings.ToLower(strings.TrimPrefix(args[0], "@"))
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		return fmt.Sprintf("@%s that's not a valid amount.", username)
	}

	err = h.ledger.Transfer(ctx, channel, username, receiver, amount)
	switch {
	case err == nil:
		return fmt.Sprintf("@%s sent %d coins to @%s!", username, amount, receiver)
	case errors.Is(err, economy.ErrSelfTransfer):
		return fmt.Sprintf("@%s you can't send coins to yourself.", username)
	case errors.Is(err, economy.ErrTransferTooSmall):
		return fmt.Sprintf("@%s transfers start at %d coins.", username, h.ledger.TransferMin())
	case errors.Is(err, economy.ErrTransferTooLarge):
		return fmt.Sprintf("@%s transfers are capped at %d coins.", username, h.ledger.TransferMax())
	case errors.Is(err, economy.ErrAccountNotFound):
		return fmt.Sprintf("@%s I don't know @%s yet.", username, receiver)
	case errors.Is(err, economy.ErrInsufficientFunds):
		return fmt.Sprintf("@%s you don't have %d coins.", username, amount)
	default:
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to transfer")
		return somethingWentWrong(username)
	}
}

// HandleTop replies with the channel's richest users.
func (h *AccountHandler) HandleTop(ctx context.Context, channel string) string {
	accounts, err := h.leaderboard.TopByBalance(ctx, channel, 5)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to get leaderboard")
		return ""
	}
	if len(accounts) == 0 {
		return "Nobody has any coins yet."
	}

	parts := make([]string, 0, len(accounts))
	for i, a := range accounts {
		parts = append(parts, fmt.Sprintf("%d. %s (%d)", i+1, a.Username, a.Balance))
	}
	return "Richest chatters: " + strings.Join(parts, " | ")
}

// HandleHistory replies with the user's latest ledger entries.
func (h *AccountHandler) HandleHistory(ctx context.Context, channel, username string) string {
	entries, err := h.history.History(ctx, channel, username, 5)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to get history")
		return somethingWentWrong(username)
	}
	if len(entries) == 0 {
		return fmt.Sprintf("@%s no transactions yet.", username)
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%+d (%s)", e.Amount, e.Type))
	}
	return fmt.Sprintf("@%s recent: %s", username, strings.Join(parts, ", "))
}

func somethingWentWrong(username string) string {
	return fmt.Sprintf("@%s something went wrong, try again later.", username)
}

// formatDuration renders a remaining duration as "3h12m" or "45m".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
