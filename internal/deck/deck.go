package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// DeckSize is the number of cards in the universe
const DeckSize = 52

var universe = func() [DeckSize]Card {
	var u [DeckSize]Card
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(rank, suit)
			u[c.Index()] = c
		}
	}
	return u
}()

// Universe returns the fixed 52-card set, ordered by Card.Index()
func Universe() [DeckSize]Card {
	return universe
}

// Deck samples cards without replacement from the universe. It holds no
// dealt-card state of its own: every Draw names the cards to exclude.
type Deck struct {
	rng  *rand.Rand
	pool [DeckSize]Card
}

// NewDeck creates a deck drawing from the given random source
func NewDeck(rng *rand.Rand) *Deck {
	return &Deck{rng: rng}
}

// Draw returns n distinct cards chosen uniformly at random from the universe
// minus excluded. Every n-combination of the remaining pool is equally likely.
//
// Draw panics if fewer than n cards remain; callers size their requests from
// fixed stage sizes so this only fires on a broken invariant.
func (d *Deck) Draw(n int, excluded CardSet) []Card {
	pool := d.pool[:0]
	for _, c := range universe {
		if !excluded.Contains(c) {
			pool = append(pool, c)
		}
	}
	if n < 0 || n > len(pool) {
		panic(fmt.Sprintf("deck: cannot draw %d cards from %d remaining", n, len(pool)))
	}

	// Partial Fisher-Yates: the first n slots end up a uniform sample.
	for i := 0; i < n; i++ {
		j := i + d.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	drawn := make([]Card, n)
	copy(drawn, pool[:n])
	return drawn
}

// Remaining returns how many cards are available once excluded is removed
func Remaining(excluded CardSet) int {
	return DeckSize - excluded.Len()
}
