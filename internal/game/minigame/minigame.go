// Package minigame implements the ephemeral per-channel minigame sessions:
// number guessing, word guessing and rock-paper-scissors. Sessions live in
// memory only, keyed by channel, with at most one active session per game
// kind per channel. A session leaves the store the moment it is won,
// expired or aborted; removal is what makes the channel eligible for a new
// session of that kind.
package minigame

import (
	"errors"
	"sync"
	"time"
)

// Kind identifies a minigame type.
type Kind int

const (
	KindNumber Kind = iota
	KindWord
	KindRPS
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindWord:
		return "word"
	case KindRPS:
		return "rps"
	default:
		return "unknown"
	}
}

// Business-outcome errors for session operations.
var (
	// ErrGameActive means a session of that kind already exists for the
	// channel. Starting over an in-progress game would destroy its
	// stakes, so this is an explicit refusal, never an overwrite.
	ErrGameActive = errors.New("game already active")
	// ErrNoActiveGame means no session of that kind exists.
	ErrNoActiveGame = errors.New("no active game")
	// ErrGameExpired means the session's end time has passed.
	ErrGameExpired = errors.New("game expired")
	// ErrAlreadyChosen means the user already submitted an RPS choice.
	ErrAlreadyChosen = errors.New("choice already submitted")
)

// ExpiredSession identifies a session found past its end time.
type ExpiredSession struct {
	Kind    Kind
	Channel string
}

// Store is the in-process registry of active sessions. All access is
// serialized by a single mutex: guesses, prize decay and terminal
// transitions for one channel never race.
type Store struct {
	mu     sync.Mutex
	number map[string]*NumberGame
	word   map[string]*WordGame
	rps    map[string]*RPSGame
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		number: make(map[string]*NumberGame),
		word:   make(map[string]*WordGame),
		rps:    make(map[string]*RPSGame),
	}
}

// HasAny reports whether the channel has an active session of any kind.
func (s *Store) HasAny(channel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, n := s.number[channel]
	_, w := s.word[channel]
	_, r := s.rps[channel]
	return n || w || r
}

// ExpiredSessions lists sessions whose end time has passed. It does not
// remove them: number and word games are aborted via Abort, RPS games are
// settled via FinalizeRPS so their bank can be paid out.
func (s *Store) ExpiredSessions(now time.Time) []ExpiredSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []ExpiredSession
	for ch, g := range s.number {
		if now.After(g.EndTime) {
			expired = append(expired, ExpiredSession{Kind: KindNumber, Channel: ch})
		}
	}
	for ch, g := range s.word {
		if now.After(g.EndTime) {
			expired = append(expired, ExpiredSession{Kind: KindWord, Channel: ch})
		}
	}
	for ch, g := range s.rps {
		if now.After(g.EndTime) {
			expired = append(expired, ExpiredSession{Kind: KindRPS, Channel: ch})
		}
	}
	return expired
}

// ActiveKinds lists the session kinds currently active for a channel.
func (s *Store) ActiveKinds(channel string) []Kind {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kinds []Kind
	if _, ok := s.number[channel]; ok {
		kinds = append(kinds, KindNumber)
	}
	if _, ok := s.word[channel]; ok {
		kinds = append(kinds, KindWord)
	}
	if _, ok := s.rps[channel]; ok {
		kinds = append(kinds, KindRPS)
	}
	return kinds
}

// Abort removes a session without any payout. Used for expiry of number
// and word games and for force-ending sessions when a stream goes offline.
// Returns ErrNoActiveGame if nothing was active.
func (s *Store) Abort(channel string, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindNumber:
		if _, ok := s.number[channel]; !ok {
			return ErrNoActiveGame
		}
		delete(s.number, channel)
	case KindWord:
		if _, ok := s.word[channel]; !ok {
			return ErrNoActiveGame
		}
		delete(s.word, channel)
	case KindRPS:
		if _, ok := s.rps[channel]; !ok {
			return ErrNoActiveGame
		}
		delete(s.rps, channel)
	}
	return nil
}
