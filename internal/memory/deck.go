package memory

import (
	"math/rand/v2"
	"time"
)

// Token is a matchable symbol. Two cards match when their tokens are equal.
type Token string

// DefaultTokens is the twelve-symbol set used by the Petsy web client.
var DefaultTokens = []Token{
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊",
	"🐻", "🐼", "🐨", "🐯", "🦁", "🐮",
}

// Card is a single position in a deck.
type Card struct {
	Index int   `json:"index"`
	Token Token `json:"token"`
}

// Deck is the ordered card layout of one level. It is immutable once the
// level has started.
type Deck []Card

// Tokens returns the token of each card in deck order.
func (d Deck) Tokens() []Token {
	out := make([]Token, len(d))
	for i, c := range d {
		out[i] = c.Token
	}
	return out
}

// NewDeck builds a deck from a token layout, assigning indices in order.
func NewDeck(layout []Token) Deck {
	d := make(Deck, len(layout))
	for i, t := range layout {
		d[i] = Card{Index: i, Token: t}
	}
	return d
}

// Rules holds the tunable parameters of the game.
type Rules struct {
	// Tokens is the symbol set. Its length caps the number of pairs per level.
	Tokens []Token

	// PairBase is added to the level to get the pair count (default 2).
	PairBase int

	// TimeBase is the level-1 time budget in seconds (default 30).
	TimeBase int

	// TimeStep is how many seconds each level removes from the budget (default 3).
	TimeStep int

	// TimeFloor is the minimum time budget in seconds (default 10).
	TimeFloor int

	// Tick is the countdown period (default 1s).
	Tick time.Duration

	// Settle is how long a mismatched pair stays face-up (default 700ms).
	Settle time.Duration
}

// DefaultRules returns the rules of the Petsy web client.
func DefaultRules() Rules {
	tokens := make([]Token, len(DefaultTokens))
	copy(tokens, DefaultTokens)
	return Rules{
		Tokens:    tokens,
		PairBase:  2,
		TimeBase:  30,
		TimeStep:  3,
		TimeFloor: 10,
		Tick:      time.Second,
		Settle:    700 * time.Millisecond,
	}
}

// PairCount returns min(PairBase+level, len(Tokens)).
func (r Rules) PairCount(level int) int {
	return min(r.PairBase+level, len(r.Tokens))
}

// TimeBudget returns max(TimeFloor, TimeBase-(level-1)*TimeStep).
func (r Rules) TimeBudget(level int) int {
	return max(r.TimeFloor, r.TimeBase-(level-1)*r.TimeStep)
}

// Dealer lays out the cards of a level. Implementations receive the symbols
// chosen for the level and must return a deck holding each exactly twice.
type Dealer interface {
	Deal(level int, symbols []Token) Deck
}

// RandomDealer shuffles the doubled symbols uniformly (Fisher-Yates).
type RandomDealer struct {
	rng *rand.Rand
}

// NewRandomDealer creates a dealer backed by rng. A nil rng uses a randomly
// seeded PCG source.
func NewRandomDealer(rng *rand.Rand) *RandomDealer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomDealer{rng: rng}
}

// NewSeededDealer creates a dealer whose layouts are reproducible for seed.
func NewSeededDealer(seed uint64) *RandomDealer {
	return &RandomDealer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Deal implements Dealer.
func (d *RandomDealer) Deal(_ int, symbols []Token) Deck {
	layout := make([]Token, 0, len(symbols)*2)
	layout = append(layout, symbols...)
	layout = append(layout, symbols...)
	d.rng.Shuffle(len(layout), func(i, j int) {
		layout[i], layout[j] = layout[j], layout[i]
	})
	return NewDeck(layout)
}
