package service

import (
	"math/rand"
	"sync"
)

// WordSource supplies words for the word-guessing game.
type WordSource interface {
	RandomWord() (word, hint string)
}

type wordEntry struct {
	word string
	hint string
}

// StaticWordSource picks uniformly from a fixed word list.
type StaticWordSource struct {
	mu      sync.Mutex
	rng     *rand.Rand
	entries []wordEntry
}

// defaultWords is the built-in word list used when no external source is
// configured.
var defaultWords = []wordEntry{
	{"jackpot", "what everyone at the slots is chasing"},
	{"stream", "what you are watching right now"},
	{"emote", "chat speaks in these"},
	{"cooldown", "the wait between rolls"},
	{"diamond", "a rare symbol on the reels"},
	{"treasure", "pirates bury it"},
	{"keyboard", "full of letters, some of them sticky"},
	{"headset", "streamer hardware, usually on backwards"},
	{"victory", "what the winners type in chat"},
	{"coin", "the currency of this very chat"},
}

// NewStaticWordSource creates a source over the built-in list.
func NewStaticWordSource(rng *rand.Rand) *StaticWordSource {
	return &StaticWordSource{rng: rng, entries: defaultWords}
}

// RandomWord returns a uniformly chosen word and its hint.
func (s *StaticWordSource) RandomWord() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[s.rng.Intn(len(s.entries))]
	return e.word, e.hint
}
