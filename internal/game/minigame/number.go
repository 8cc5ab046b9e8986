package minigame

import "time"

// NumberGame is a guess-the-number session. The prize decays by a fixed
// decrement on every wrong guess, down to a floor.
type NumberGame struct {
	Channel   string
	Target    int
	Prize     int64
	Decrement int64
	Floor     int64
	StartTime time.Time
	EndTime   time.Time
}

// NumberConfig holds the prize tuning for number games.
type NumberConfig struct {
	Prize     int64
	Decrement int64
	Floor     int64
}

// NumberGuessResult reports one guess against a number game.
type NumberGuessResult struct {
	// Won is set when the guess matched; Prize then holds the amount to
	// credit the winner.
	Won   bool
	Prize int64
	// Hint is "higher" or "lower" on a wrong guess.
	Hint string
	// Expired is set when the session had already passed its end time;
	// the session is removed and nobody is credited.
	Expired bool
}

// StartNumber creates a number game for the channel. The target must be in
// [1,100]. Fails with ErrGameActive if a number game is already running.
func (s *Store) StartNumber(channel string, target int, cfg NumberConfig, now time.Time, duration time.Duration) (*NumberGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.number[channel]; ok {
		return nil, ErrGameActive
	}

	g := &NumberGame{
		Channel:   channel,
		Target:    target,
		Prize:     cfg.Prize,
		Decrement: cfg.Decrement,
		Floor:     cfg.Floor,
		StartTime: now,
		EndTime:   now.Add(duration),
	}
	s.number[channel] = g
	return g, nil
}

// GuessNumber processes one guess. A correct guess wins the current prize
// and ends the game; a wrong guess decays the prize and returns a
// direction hint. A guess against an expired session reaps it.
func (s *Store) GuessNumber(channel string, guess int, now time.Time) (*NumberGuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.number[channel]
	if !ok {
		return nil, ErrNoActiveGame
	}

	if now.After(g.EndTime) {
		delete(s.number, channel)
		return &NumberGuessResult{Expired: true}, nil
	}

	if guess == g.Target {
		prize := g.Prize
		delete(s.number, channel)
		return &NumberGuessResult{Won: true, Prize: prize}, nil
	}

	g.Prize -= g.Decrement
	if g.Prize < g.Floor {
		g.Prize = g.Floor
	}

	hint := "higher"
	if guess > g.Target {
		hint = "lower"
	}
	return &NumberGuessResult{Hint: hint, Prize: g.Prize}, nil
}
