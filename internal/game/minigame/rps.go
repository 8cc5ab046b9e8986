package minigame

import (
	"math/rand"
	"strings"
	"time"
)

// Choice is a rock-paper-scissors move.
type Choice int

const (
	Rock Choice = iota
	Paper
	Scissors
)

func (c Choice) String() string {
	switch c {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	}
	return "unknown"
}

// ParseChoice maps user input to a Choice. It accepts the full word and
// the first letter.
func ParseChoice(s string) (Choice, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "r":
		return Rock, true
	case "paper", "p":
		return Paper, true
	case "scissors", "s":
		return Scissors, true
	}
	return 0, false
}

// Counter returns the choice that beats c.
func Counter(c Choice) Choice {
	switch c {
	case Rock:
		return Paper
	case Paper:
		return Scissors
	default:
		return Rock
	}
}

// RPSGame is a channel-wide rock-paper-scissors round. Every participant
// pays an entry fee into the bank; when the round closes the bot reveals
// its choice and the players who countered it split the bank.
type RPSGame struct {
	Channel   string
	BaseBank  int64
	EntryFee  int64
	Choices   map[string]Choice // username -> choice
	StartTime time.Time
	EndTime   time.Time
}

// RPSConfig holds the bank tuning for rock-paper-scissors rounds.
type RPSConfig struct {
	BaseBank int64
	EntryFee int64
}

// RPSResult is the settled outcome of a round.
type RPSResult struct {
	BotChoice     Choice
	WinningChoice Choice
	Winners       []string
	Share         int64
	Bank          int64
	Participants  int
}

// StartRPS creates a rock-paper-scissors round for the channel.
func (s *Store) StartRPS(channel string, cfg RPSConfig, now time.Time, duration time.Duration) (*RPSGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rps[channel]; ok {
		return nil, ErrGameActive
	}

	g := &RPSGame{
		Channel:   channel,
		BaseBank:  cfg.BaseBank,
		EntryFee:  cfg.EntryFee,
		Choices:   make(map[string]Choice),
		StartTime: now,
		EndTime:   now.Add(duration),
	}
	s.rps[channel] = g
	return g, nil
}

// HasChosen reports whether the user already locked in a choice. Callers
// check this before charging the entry fee so a repeat choice costs nothing.
func (s *Store) HasChosen(channel, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.rps[channel]
	if !ok {
		return false, ErrNoActiveGame
	}
	_, chosen := g.Choices[username]
	return chosen, nil
}

// AcceptChoice records the user's choice and grows the bank by the entry
// fee. The fee must already be debited by the caller.
func (s *Store) AcceptChoice(channel, username string, choice Choice, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.rps[channel]
	if !ok {
		return ErrNoActiveGame
	}
	if now.After(g.EndTime) {
		return ErrGameExpired
	}
	if _, chosen := g.Choices[username]; chosen {
		return ErrAlreadyChosen
	}
	g.Choices[username] = choice
	return nil
}

// FinalizeRPS closes the round: the bot picks uniformly, players who made
// the countering choice split the bank evenly (rounded down, at least 1).
// With no winners the bank is discarded.
func (s *Store) FinalizeRPS(channel string, rng *rand.Rand) (*RPSResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.rps[channel]
	if !ok {
		return nil, ErrNoActiveGame
	}
	delete(s.rps, channel)

	bot := Choice(rng.Intn(3))
	winning := Counter(bot)

	res := &RPSResult{
		BotChoice:     bot,
		WinningChoice: winning,
		Bank:          g.BaseBank + g.EntryFee*int64(len(g.Choices)),
		Participants:  len(g.Choices),
	}
	for user, c := range g.Choices {
		if c == winning {
			res.Winners = append(res.Winners, user)
		}
	}
	if n := int64(len(res.Winners)); n > 0 {
		res.Share = res.Bank / n
		if res.Share < 1 {
			res.Share = 1
		}
	}
	return res, nil
}
