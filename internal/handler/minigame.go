package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/economy"
	"twitch-casino-bot/internal/game/minigame"
	"twitch-casino-bot/internal/service"
)

// MinigameHandler handles guesses and choices against active sessions.
type MinigameHandler struct {
	minigames *service.MinigameService
}

// NewMinigameHandler creates a new MinigameHandler instance.
func NewMinigameHandler(minigames *service.MinigameService) *MinigameHandler {
	return &MinigameHandler{minigames: minigames}
}

// HandleGuess processes a number guess: !guess <number>.
func (h *MinigameHandler) HandleGuess(ctx context.Context, channel, username string, args []string) string {
	if len(args) != 1 {
		return fmt.Sprintf("@%s usage: !guess <number>", username)
	}
	guess, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("@%s that's not a number.", username)
	}

	result, err := h.minigames.GuessNumber(ctx, channel, username, guess)
	switch {
	case errors.Is(err, minigame.ErrNoActiveGame):
		return fmt.Sprintf("@%s there's no number game running.", username)
	case err != nil:
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to process guess")
		return somethingWentWrong(username)
	}

	switch {
	case result.Expired:
		return "The number game is over, nobody got it in time."
	case result.Won:
		return fmt.Sprintf("@%s got it! +%d coins!", username, result.Prize)
	default:
		return fmt.Sprintf("@%s nope, go %s. Prize is down to %d coins.", username, result.Hint, result.Prize)
	}
}

// HandleWord processes word-game input: !word <letter> or !word <word>.
func (h *MinigameHandler) HandleWord(ctx context.Context, channel, username string, args []string) string {
	if len(args) != 1 {
		return fmt.Sprintf("@%s usage: !word <letter or word>", username)
	}
	attempt := args[0]

	var result *minigame.WordGuessResult
	var err error
	if utf8.RuneCountInString(attempt) == 1 {
		letter, _ := utf8.DecodeRuneInString(attempt)
		result, err = h.minigames.GuessLetter(ctx, channel, username, letter)
	} else {
		result, err = h.minigames.GuessWord(ctx, channel, username, attempt)
	}

	switch {
	case errors.Is(err, minigame.ErrNoActiveGame):
		return fmt.Sprintf("@%s there's no word game running.", username)
	case err != nil:
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to process word guess")
		return somethingWentWrong(username)
	}

	switch {
	case result.Expired:
		return "The word game is over, nobody solved it in time."
	case result.Won:
		return fmt.Sprintf("@%s solved it! +%d coins!", username, result.Prize)
	case result.AlreadyGuessed:
		return fmt.Sprintf("@%s that letter is already open: %s", username, result.Masked)
	case result.Revealed:
		return fmt.Sprintf("Good one @%s! %s (prize now %d)", username, result.Masked, result.Prize)
	default:
		return fmt.Sprintf("@%s no luck. %s (prize %d)", username, result.Masked, result.Prize)
	}
}

// HandleRPS records a rock-paper-scissors choice: !rps <rock|paper|scissors>.
func (h *MinigameHandler) HandleRPS(ctx context.Context, channel, username string, args []string) string {
	if len(args) != 1 {
		return fmt.Sprintf("@%s usage: !rps <rock|paper|scissors>", username)
	}
	choice, ok := minigame.ParseChoice(args[0])
	if !ok {
		return fmt.Sprintf("@%s pick rock, paper or scissors.", username)
	}

	err := h.minigames.ChooseRPS(ctx, channel, username, choice)
	switch {
	case errors.Is(err, minigame.ErrNoActiveGame):
		return fmt.Sprintf("@%s there's no rock-paper-scissors round running.", username)
	case errors.Is(err, minigame.ErrAlreadyChosen):
		return fmt.Sprintf("@%s you already made your choice.", username)
	case errors.Is(err, minigame.ErrGameExpired):
		return fmt.Sprintf("@%s too late, the round is closing.", username)
	case errors.Is(err, economy.ErrInsufficientFunds):
		return fmt.Sprintf("@%s you can't cover the entry fee.", username)
	case err != nil:
		log.Error().Err(err).Str("channel", channel).Str("user", username).Msg("Failed to process choice")
		return somethingWentWrong(username)
	}
	return fmt.Sprintf("@%s is in with %s!", username, choice)
}
