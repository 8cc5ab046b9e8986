package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/game/minigame"
	"twitch-casino-bot/internal/model"
)

// MinigameConfig holds the per-game prize and session tuning.
type MinigameConfig struct {
	SessionDuration time.Duration
	Number          minigame.NumberConfig
	Word            minigame.WordConfig
	RPS             minigame.RPSConfig
}

// MinigameService bridges the in-memory session store and the economy:
// wins become ledger credits, rock-paper-scissors entry fees become
// debits. Session state never touches the database.
type MinigameService struct {
	store  *minigame.Store
	wallet Wallet
	cfg    MinigameConfig

	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// NewMinigameService creates a service with a time-seeded RNG.
func NewMinigameService(store *minigame.Store, wallet Wallet, cfg MinigameConfig) *MinigameService {
	return NewMinigameServiceWithRand(store, wallet, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewMinigameServiceWithRand creates a service with an explicit RNG, used
// by tests for deterministic targets and bot choices.
func NewMinigameServiceWithRand(store *minigame.Store, wallet Wallet, cfg MinigameConfig, rng *rand.Rand) *MinigameService {
	return &MinigameService{
		store:  store,
		wallet: wallet,
		cfg:    cfg,
		rng:    rng,
		now:    time.Now,
	}
}

// Store exposes the session store to the orchestrator.
func (s *MinigameService) Store() *minigame.Store {
	return s.store
}

// GuessNumber processes a number guess and credits the prize on a win.
func (s *MinigameService) GuessNumber(ctx context.Context, channel, username string, guess int) (*minigame.NumberGuessResult, error) {
	result, err := s.store.GuessNumber(channel, guess, s.now())
	if err != nil {
		return nil, err
	}
	if result.Won {
		if _, err := s.wallet.Credit(ctx, channel, username, result.Prize,
			model.EntryTypeMinigamePrize, "number guess win"); err != nil {
			return nil, fmt.Errorf("failed to credit prize: %w", err)
		}
		log.Info().
			Str("channel", channel).
			Str("user", username).
			Int64("prize", result.Prize).
			Msg("Number game won")
	}
	return result, nil
}

// GuessLetter processes a letter guess in the word game. The reveal that
// completes the word wins and credits the prize.
func (s *MinigameService) GuessLetter(ctx context.Context, channel, username string, letter rune) (*minigame.WordGuessResult, error) {
	result, err := s.store.GuessLetter(channel, letter, s.now())
	if err != nil {
		return nil, err
	}
	return s.settleWordResult(ctx, channel, username, result)
}

// GuessWord processes a full-word guess.
func (s *MinigameService) GuessWord(ctx context.Context, channel, username, word string) (*minigame.WordGuessResult, error) {
	result, err := s.store.GuessWord(channel, word, s.now())
	if err != nil {
		return nil, err
	}
	return s.settleWordResult(ctx, channel, username, result)
}

func (s *MinigameService) settleWordResult(ctx context.Context, channel, username string, result *minigame.WordGuessResult) (*minigame.WordGuessResult, error) {
	if result.Won {
		if _, err := s.wallet.Credit(ctx, channel, username, result.Prize,
			model.EntryTypeMinigamePrize, "word guess win"); err != nil {
			return nil, fmt.Errorf("failed to credit prize: %w", err)
		}
		log.Info().
			Str("channel", channel).
			Str("user", username).
			Int64("prize", result.Prize).
			Msg("Word game won")
	}
	return result, nil
}

// ChooseRPS records the user's rock-paper-scissors choice. The entry fee
// is only debited after the duplicate check, so a repeat choice costs
// nothing; if recording the choice fails after the debit, the fee is
// refunded.
func (s *MinigameService) ChooseRPS(ctx context.Context, channel, username string, choice minigame.Choice) error {
	chosen, err := s.store.HasChosen(channel, username)
	if err != nil {
		return err
	}
	if chosen {
		return minigame.ErrAlreadyChosen
	}

	fee := s.cfg.RPS.EntryFee
	if _, err := s.wallet.Debit(ctx, channel, username, fee,
		model.EntryTypeMinigameFee, "rock-paper-scissors entry"); err != nil {
		return err
	}

	if err := s.store.AcceptChoice(channel, username, choice, s.now()); err != nil {
		if _, refundErr := s.wallet.Credit(ctx, channel, username, fee,
			model.EntryTypeMinigameFee, "rock-paper-scissors entry refund"); refundErr != nil {
			log.Error().Err(refundErr).
				Str("channel", channel).
				Str("user", username).
				Msg("Failed to refund entry fee")
		}
		return err
	}
	return nil
}

// FinalizeRPS settles the channel's round and credits every winner an
// even share of the bank. A round with no winners discards the bank.
func (s *MinigameService) FinalizeRPS(ctx context.Context, channel string) (*minigame.RPSResult, error) {
	s.mu.Lock()
	result, err := s.store.FinalizeRPS(channel, s.rng)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, winner := range result.Winners {
		if _, err := s.wallet.Credit(ctx, channel, winner, result.Share,
			model.EntryTypeMinigamePrize, "rock-paper-scissors win"); err != nil {
			log.Error().Err(err).
				Str("channel", channel).
				Str("user", winner).
				Msg("Failed to credit rock-paper-scissors share")
		}
	}

	log.Info().
		Str("channel", channel).
		Str("bot_choice", result.BotChoice.String()).
		Int("participants", result.Participants).
		Int("winners", len(result.Winners)).
		Int64("share", result.Share).
		Msg("Rock-paper-scissors settled")
	return result, nil
}

// StartNumber opens a number-guessing session with a random target in
// [1,100].
func (s *MinigameService) StartNumber(channel string) (*minigame.NumberGame, error) {
	s.mu.Lock()
	target := s.rng.Intn(100) + 1
	s.mu.Unlock()
	return s.store.StartNumber(channel, target, s.cfg.Number, s.now(), s.cfg.SessionDuration)
}

// StartWord opens a word-guessing session for the given word.
func (s *MinigameService) StartWord(channel, word, hint string) (*minigame.WordGame, error) {
	return s.store.StartWord(channel, word, hint, s.cfg.Word, s.now(), s.cfg.SessionDuration)
}

// StartRPS opens a rock-paper-scissors round.
func (s *MinigameService) StartRPS(channel string) (*minigame.RPSGame, error) {
	return s.store.StartRPS(channel, s.cfg.RPS, s.now(), s.cfg.SessionDuration)
}
