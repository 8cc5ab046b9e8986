package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/chat"
	"twitch-casino-bot/internal/economy"
	"twitch-casino-bot/internal/game/slot"
	"twitch-casino-bot/internal/model"
	"twitch-casino-bot/internal/service"
)

// StatsSource reads roll statistics.
type StatsSource interface {
	StatsByUser(ctx context.Context, channel, username string) (*model.BetStats, error)
}

// GameHandler handles the slot roll and stats commands. Miss timeouts are
// applied through the chat sink.
type GameHandler struct {
	betting *service.BettingService
	stats   StatsSource
	sink    chat.Sink
}

// NewGameHandler creates a new GameHandler instance.
func NewGameHandler(betting *service.BettingService, stats StatsSource, sink chat.Sink) *GameHandler {
	return &GameHandler{betting: betting, stats: stats, sink: sink}
}

// HandleRoll runs a slot roll: !roll <amount>.
func (h *GameHandler) HandleRoll(ctx context.Context, channel, username string, args []string) string {
	if len(args) != 1 {
		return fmt.Sprintf("@%s usage: !roll <amount>", username)
	}
	bet, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || bet <= 0 {
		return fmt.Sprintf("@%s that's not a valid bet.", username)
	}

	result, err := h.betting.Roll(ctx, channel, username, bet)
	var cooldownErr *service.CooldownError
	switch {
	case errors.As(err, &cooldownErr):
		return fmt.Sprintf("@%s slow down, next roll in %ds.", username, cooldownErr.Remaining)
	case errors.Is(err, service.ErrBetTooSmall):
		return fmt.Sprintf("@%s bets start at %d coins.", username, h.betting.MinBet())
	case errors.Is(err, service.ErrBetTooLarge):
		return fmt.Sprintf("@%s bets are capped at %d coins.", username, h.betting.MaxBet())
	case errors.Is(err, economy.ErrInsufficientFunds):
		return fmt.Sprintf("@%s you don't have %d coins.", username, bet)
	case err != nil:
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to roll")
		return somethingWentWrong(username)
	}

	if result.TimeoutSeconds > 0 {
		if err := h.sink.Timeout(ctx, channel, username, result.TimeoutSeconds); err != nil {
			log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to apply timeout")
		}
	}

	return rollSummary(username, result)
}

// HandleStats replies with the user's aggregate roll stats.
func (h *GameHandler) HandleStats(ctx context.Context, channel, username string) string {
	stats, err := h.stats.StatsByUser(ctx, channel, username)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to get stats")
		return somethingWentWrong(username)
	}
	if stats.TotalBets == 0 {
		return fmt.Sprintf("@%s you haven't rolled yet. Try !roll 10", username)
	}
	return fmt.Sprintf("@%s rolls: %d | jackpots: %d | partials: %d | misses: %d",
		username, stats.TotalBets, stats.Jackpots, stats.Partials, stats.Misses)
}

// rollSummary renders a finished roll for chat.
func rollSummary(username string, r *service.RollResult) string {
	draw := slot.FormatDraw(r.Draw)

	var tail string
	switch r.Outcome {
	case slot.Jackpot:
		tail = fmt.Sprintf("JACKPOT! +%d coins (balance %d)", r.Payout, r.Balance)
	case slot.Partial:
		tail = fmt.Sprintf("pair! +%d coins (balance %d)", r.Payout, r.Balance)
	default:
		if r.Payout > 0 {
			tail = fmt.Sprintf("miss, but consolation +%d coins (balance %d)", r.Payout, r.Balance)
		} else {
			tail = fmt.Sprintf("miss, -%d coins (balance %d)", r.Bet, r.Balance)
		}
		if r.TimeoutMessage != "" {
			tail += ". " + r.TimeoutMessage
		} else if r.TimeoutSeconds > 0 {
			tail += fmt.Sprintf(". Timed out for %ds!", r.TimeoutSeconds)
		}
	}
	return fmt.Sprintf("@%s [ %s ] %s", username, draw, tail)
}
