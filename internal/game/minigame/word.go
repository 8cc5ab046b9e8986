package minigame

import (
	"strings"
	"time"
)

// WordGame is a guess-the-word session. Each newly revealed letter decays
// the prize by a fixed decrement from the ceiling down to a floor. The
// reveal that completes the word wins and does not decay the prize.
type WordGame struct {
	Channel   string
	Word      string // lowercased target
	Hint      string
	Revealed  map[rune]bool
	Prize     int64
	Decrement int64
	Floor     int64
	StartTime time.Time
	EndTime   time.Time
}

// WordConfig holds the prize tuning for word games.
type WordConfig struct {
	Ceiling   int64
	Decrement int64
	Floor     int64
}

// WordGuessResult reports one letter or full-word guess.
type WordGuessResult struct {
	Won   bool
	Prize int64
	// Revealed is set when a letter guess uncovered a new letter.
	Revealed bool
	// AlreadyGuessed is set when the letter was revealed before; repeat
	// guesses are no-ops, not misses.
	AlreadyGuessed bool
	// Masked is the current word display, e.g. "с_ _ т".
	Masked  string
	Expired bool
}

// StartWord creates a word game for the channel. Fails with ErrGameActive
// if a word game is already running.
func (s *Store) StartWord(channel, word, hint string, cfg WordConfig, now time.Time, duration time.Duration) (*WordGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.word[channel]; ok {
		return nil, ErrGameActive
	}

	g := &WordGame{
		Channel:   channel,
		Word:      strings.ToLower(word),
		Hint:      hint,
		Revealed:  make(map[rune]bool),
		Prize:     cfg.Ceiling,
		Decrement: cfg.Decrement,
		Floor:     cfg.Floor,
		StartTime: now,
		EndTime:   now.Add(duration),
	}
	s.word[channel] = g
	return g, nil
}

// GuessLetter processes a single-letter guess. Revealing the last hidden
// letter wins the current prize; revealing any other letter decays it.
func (s *Store) GuessLetter(channel string, letter rune, now time.Time) (*WordGuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.word[channel]
	if !ok {
		return nil, ErrNoActiveGame
	}

	if now.After(g.EndTime) {
		delete(s.word, channel)
		return &WordGuessResult{Expired: true}, nil
	}

	letter = toLowerRune(letter)
	if !strings.ContainsRune(g.Word, letter) {
		return &WordGuessResult{Prize: g.Prize, Masked: g.masked()}, nil
	}
	if g.Revealed[letter] {
		return &WordGuessResult{AlreadyGuessed: true, Prize: g.Prize, Masked: g.masked()}, nil
	}

	g.Revealed[letter] = true
	if g.allRevealed() {
		prize := g.Prize
		delete(s.word, channel)
		return &WordGuessResult{Won: true, Revealed: true, Prize: prize}, nil
	}

	g.Prize -= g.Decrement
	if g.Prize < g.Floor {
		g.Prize = g.Floor
	}
	return &WordGuessResult{Revealed: true, Prize: g.Prize, Masked: g.masked()}, nil
}

// GuessWord processes a full-word guess. An exact match wins the current
// prize; anything else is a miss that costs nothing.
func (s *Store) GuessWord(channel, word string, now time.Time) (*WordGuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.word[channel]
	if !ok {
		return nil, ErrNoActiveGame
	}

	if now.After(g.EndTime) {
		delete(s.word, channel)
		return &WordGuessResult{Expired: true}, nil
	}

	if strings.ToLower(strings.TrimSpace(word)) != g.Word {
		return &WordGuessResult{Prize: g.Prize, Masked: g.masked()}, nil
	}

	prize := g.Prize
	delete(s.word, channel)
	return &WordGuessResult{Won: true, Prize: prize}, nil
}

// allRevealed reports whether every distinct letter has been revealed.
func (g *WordGame) allRevealed() bool {
	for _, r := range g.Word {
		if !g.Revealed[r] {
			return false
		}
	}
	return true
}

// masked renders the word with unrevealed letters hidden.
func (g *WordGame) masked() string {
	var b strings.Builder
	for i, r := range g.Word {
		if i > 0 {
			b.WriteByte(' ')
		}
		if g.Revealed[r] {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func toLowerRune(r rune) rune {
	return []rune(strings.ToLower(string(r)))[0]
}
