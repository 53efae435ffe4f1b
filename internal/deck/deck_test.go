package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-mcts/internal/randutil"
)

func TestUniverseHasFiftyTwoDistinctCards(t *testing.T) {
	var all CardSet
	for i, c := range Universe() {
		require.True(t, c.Valid())
		assert.Equal(t, i, c.Index())
		all.Add(c)
	}
	assert.Equal(t, DeckSize, all.Len())
}

func TestDrawRespectsExclusions(t *testing.T) {
	d := NewDeck(randutil.New(1))
	excluded := NewCardSet(MustParseCards("AsAhKdQc")...)

	for range 2000 {
		drawn := d.Draw(7, excluded)
		require.Len(t, drawn, 7)

		var seen CardSet
		for _, c := range drawn {
			assert.False(t, excluded.Contains(c), "drew excluded card %s", c)
			assert.False(t, seen.Contains(c), "drew duplicate card %s", c)
			seen.Add(c)
		}
	}
}

func TestDrawWholeRemainingPool(t *testing.T) {
	d := NewDeck(randutil.New(2))
	u := Universe()
	excluded := NewCardSet(u[:49]...)

	drawn := d.Draw(3, excluded)
	assert.ElementsMatch(t, u[49:], drawn)
}

func TestDrawPanicsWhenPoolExhausted(t *testing.T) {
	d := NewDeck(randutil.New(3))
	u := Universe()
	excluded := NewCardSet(u[:51]...)
	assert.Panics(t, func() { d.Draw(2, excluded) })
}

// Every 2-combination of a 6-card pool should appear with frequency 1/15.
func TestDrawIsUniformOverCombinations(t *testing.T) {
	d := NewDeck(randutil.New(4))
	u := Universe()
	excluded := NewCardSet(u[:46]...)

	const draws = 60000
	counts := make(map[CardSet]int)
	for range draws {
		counts[NewCardSet(d.Draw(2, excluded)...)]++
	}
	require.Len(t, counts, 15)

	expected := float64(draws) / 15
	chiSquared := 0.0
	for _, n := range counts {
		diff := float64(n) - expected
		chiSquared += diff * diff / expected
	}
	// 14 degrees of freedom; p = 0.001 critical value is 36.12.
	assert.Less(t, chiSquared, 36.12)

	for combo, n := range counts {
		assert.InDelta(t, 1.0/15, float64(n)/draws, 0.01, "combination %v", combo.Cards())
	}
}

func TestCardSetOperations(t *testing.T) {
	a := NewCardSet(MustParseCards("AsKs")...)
	b := NewCardSet(MustParseCards("KsQs")...)

	u := a.Union(b)
	assert.Equal(t, 3, u.Len())
	assert.True(t, u.Contains(NewCard(Queen, Spades)))
	assert.Equal(t, 49, Remaining(u))
	assert.ElementsMatch(t, MustParseCards("AsKsQs"), u.Cards())
}
