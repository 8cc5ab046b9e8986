package slot

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Outcome classifies a three-symbol draw.
type Outcome int

const (
	// Jackpot: all three drawn symbols are identical.
	Jackpot Outcome = iota
	// Partial: exactly two of three drawn symbols match.
	Partial
	// Miss: all three drawn symbols differ.
	Miss
)

// String returns the outcome name as persisted in bet records.
func (o Outcome) String() string {
	switch o {
	case Jackpot:
		return "jackpot"
	case Partial:
		return "partial"
	case Miss:
		return "miss"
	default:
		return "unknown"
	}
}

// Engine draws weighted symbols. Draws are independent with replacement.
type Engine struct {
	symbols []Symbol
	total   float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an engine over the given catalog with a time-seeded RNG.
func NewEngine(symbols []Symbol) *Engine {
	return NewEngineWithRand(symbols, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewEngineWithRand creates an engine with an explicit RNG, used by tests
// for deterministic draws.
func NewEngineWithRand(symbols []Symbol, rng *rand.Rand) *Engine {
	var total float64
	for _, s := range symbols {
		total += s.Weight
	}
	return &Engine{symbols: symbols, total: total, rng: rng}
}

// Spin draws three symbols, each draw weighted by Symbol.Weight.
func (e *Engine) Spin() [3]Symbol {
	e.mu.Lock()
	defer e.mu.Unlock()
	return [3]Symbol{e.draw(), e.draw(), e.draw()}
}

func (e *Engine) draw() Symbol {
	r := e.rng.Float64() * e.total
	for _, s := range e.symbols {
		r -= s.Weight
		if r < 0 {
			return s
		}
	}
	// Float accumulation can leave r at the boundary; fall back to the
	// last symbol.
	return e.symbols[len(e.symbols)-1]
}

// Classify counts distinct symbol names among the draw: one distinct name
// is a Jackpot, two a Partial, three a Miss.
func Classify(draw [3]Symbol) Outcome {
	distinct := make(map[string]struct{}, 3)
	for _, s := range draw {
		distinct[s.Name] = struct{}{}
	}
	switch len(distinct) {
	case 1:
		return Jackpot
	case 2:
		return Partial
	default:
		return Miss
	}
}

// DetermineRarity resolves the outcome's rarity:
//   - Jackpot: rarity of the only symbol.
//   - Partial: the higher-ranked of the repeated and the unique symbol,
//     ties favoring the repeated one.
//   - Miss: the highest-ranked rarity among the three symbols, first drawn
//     symbol winning rank ties.
func DetermineRarity(draw [3]Symbol, outcome Outcome) Rarity {
	switch outcome {
	case Jackpot:
		return draw[0].Rarity
	case Partial:
		repeated, unique := splitPartial(draw)
		if unique.Rarity.Rank() > repeated.Rarity.Rank() {
			return unique.Rarity
		}
		return repeated.Rarity
	default:
		highest := draw[0].Rarity
		for _, s := range draw[1:] {
			if s.Rarity.Rank() > highest.Rank() {
				highest = s.Rarity
			}
		}
		return highest
	}
}

// splitPartial returns the symbol appearing twice and the one appearing once.
func splitPartial(draw [3]Symbol) (repeated, unique Symbol) {
	switch {
	case draw[0].Name == draw[1].Name:
		return draw[0], draw[2]
	case draw[0].Name == draw[2].Name:
		return draw[0], draw[1]
	default:
		return draw[1], draw[0]
	}
}

// FormatDraw renders the draw for bet records and chat output,
// e.g. "Cherry | Cherry | Seven".
func FormatDraw(draw [3]Symbol) string {
	names := make([]string, 0, 3)
	for _, s := range draw {
		names = append(names, s.Name)
	}
	return strings.Join(names, " | ")
}

// FindSymbol looks a symbol up by name in a catalog. Used by tests and by
// replay tooling; returns an error for unknown names.
func FindSymbol(symbols []Symbol, name string) (Symbol, error) {
	for _, s := range symbols {
		if s.Name == name {
			return s, nil
		}
	}
	return Symbol{}, fmt.Errorf("unknown symbol %q", name)
}
