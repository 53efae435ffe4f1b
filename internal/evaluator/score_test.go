package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-mcts/internal/deck"
)

func five(s string) [5]deck.Card {
	return [5]deck.Card(deck.MustParseCards(s))
}

func seven(s string) [7]deck.Card {
	return [7]deck.Card(deck.MustParseCards(s))
}

func two(s string) [2]deck.Card {
	return [2]deck.Card(deck.MustParseCards(s))
}

func TestScoreFive(t *testing.T) {
	tests := []struct {
		name     string
		cards    string
		category Category
		tiebreak []deck.Rank
	}{
		{"royal flush", "AsKsQsJsTs", StraightFlush, []deck.Rank{deck.Ace}},
		{"steel wheel", "5h4h3h2hAh", StraightFlush, []deck.Rank{deck.Five}},
		{"quads", "9c9d9h9sKd", FourOfAKind, []deck.Rank{deck.Nine, deck.King}},
		{"full house low trips", "2h2d2c5s5h", FullHouse, []deck.Rank{deck.Two, deck.Five}},
		{"flush", "Kd9d7d4d2d", Flush, []deck.Rank{deck.King, deck.Nine, deck.Seven, deck.Four, deck.Two}},
		{"broadway", "AhKdQcJsTh", Straight, []deck.Rank{deck.Ace}},
		{"wheel", "2h3d4c5sAh", Straight, []deck.Rank{deck.Five}},
		{"trips", "7s7h7dAc2d", ThreeOfAKind, []deck.Rank{deck.Seven, deck.Ace, deck.Two}},
		{"two pair", "JsJd4c4hQs", TwoPair, []deck.Rank{deck.Jack, deck.Four, deck.Queen}},
		{"pair", "8s8dAcTh3s", Pair, []deck.Rank{deck.Eight, deck.Ace, deck.Ten, deck.Three}},
		{"high card", "AsJd9c6h2s", HighCard, []deck.Rank{deck.Ace, deck.Jack, deck.Nine, deck.Six, deck.Two}},
		{"no wrap around", "QsKdAc2h3s", HighCard, []deck.Rank{deck.Ace, deck.King, deck.Queen, deck.Three, deck.Two}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreFive(five(tt.cards))
			assert.Equal(t, tt.category, score.Category)
			assert.Equal(t, tt.tiebreak, score.Tiebreak)
		})
	}
}

func TestHandScoreOrdering(t *testing.T) {
	// Each hand beats the one after it.
	ladder := []string{
		"AsKsQsJsTs",
		"6h5h4h3h2h",
		"5d4d3d2dAd",
		"AsAhAdAcKs",
		"AsAhAdAc2s",
		"KsKhKdAcAs",
		"KsKhKdQcQs",
		"AhJh9h6h3h",
		"AhJh9h6h2h",
		"AsKdQcJhTs",
		"6s5d4c3h2s",
		"5s4d3c2hAs",
		"QsQhQdAc3s",
		"QsQhQdKc3s",
		"AsAhKdKc2s",
		"AsAhQdQcKs",
		"AsAhQdQcJs",
		"2s2hAdKcQs",
		"AsKhQdJc9s",
	}

	for i := 0; i+1 < len(ladder); i++ {
		stronger := ScoreFive(five(ladder[i]))
		weaker := ScoreFive(five(ladder[i+1]))
		assert.Equal(t, 1, stronger.Compare(weaker), "%s should beat %s", ladder[i], ladder[i+1])
		assert.Equal(t, -1, weaker.Compare(stronger), "%s should lose to %s", ladder[i+1], ladder[i])
	}

	a := ScoreFive(five("AsKdQc9h7s"))
	b := ScoreFive(five("AhKcQd9s7h"))
	assert.Equal(t, 0, a.Compare(b), "suits never break ties")
}

// Category counts over all C(52,5) hands match the standard table.
func TestScoreFiveExhaustiveCategoryCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive enumeration")
	}

	expected := map[Category]int{
		StraightFlush: 40,
		FourOfAKind:   624,
		FullHouse:     3744,
		Flush:         5108,
		Straight:      10200,
		ThreeOfAKind:  54912,
		TwoPair:       123552,
		Pair:          1098240,
		HighCard:      1302540,
	}

	u := deck.Universe()
	counts := make(map[Category]int)
	var hand [5]deck.Card
	for a := 0; a < 48; a++ {
		hand[0] = u[a]
		for b := a + 1; b < 49; b++ {
			hand[1] = u[b]
			for c := b + 1; c < 50; c++ {
				hand[2] = u[c]
				for d := c + 1; d < 51; d++ {
					hand[3] = u[d]
					for e := d + 1; e < 52; e++ {
						hand[4] = u[e]
						counts[ScoreFive(hand).Category]++
					}
				}
			}
		}
	}

	assert.Equal(t, expected, counts)
}

func TestBestOfSeven(t *testing.T) {
	tests := []struct {
		name     string
		cards    string
		category Category
		tiebreak []deck.Rank
	}{
		{"royal flush with extras", "AsKsQsJsTs9h8h", StraightFlush, []deck.Rank{deck.Ace}},
		{"flush beats straight from other subset", "9h8h7h6d5h2h3c", Flush, []deck.Rank{deck.Nine, deck.Eight, deck.Seven, deck.Five, deck.Two}},
		{"two trips make full house", "KsKhKd7s7h7dAc", FullHouse, []deck.Rank{deck.King, deck.Seven}},
		{"three pairs keep best kicker", "AsAhKdKc2s2hQc", TwoPair, []deck.Rank{deck.Ace, deck.King, deck.Queen}},
		{"six card straight uses top", "9s8h7d6c5s4h2c", Straight, []deck.Rank{deck.Nine}},
		{"quads pick high kicker", "5s5h5d5cKs2h3h", FourOfAKind, []deck.Rank{deck.Five, deck.King}},
		{"wheel with extra high card", "As2d3c4h5sKdQc", Straight, []deck.Rank{deck.Five}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := BestOfSeven(seven(tt.cards))
			assert.Equal(t, tt.category, score.Category)
			assert.Equal(t, tt.tiebreak, score.Tiebreak)
		})
	}
}

// The best-of-seven score dominates each 5-card subset and equals one of them.
func TestBestOfSevenDominatesSubsets(t *testing.T) {
	for _, hand := range randomHands(t, 500, 7) {
		cards := [7]deck.Card(hand)
		best := BestOfSeven(cards)

		matched := false
		for i := 0; i < 7; i++ {
			for j := i + 1; j < 7; j++ {
				var sub [5]deck.Card
				n := 0
				for k, c := range cards {
					if k != i && k != j {
						sub[n] = c
						n++
					}
				}
				score := ScoreFive(sub)
				require.GreaterOrEqual(t, best.Compare(score), 0, "hand %v", hand)
				if best.Compare(score) == 0 {
					matched = true
				}
			}
		}
		assert.True(t, matched, "best score of %v must come from a subset", hand)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		hero     string
		villain  string
		board    string
		expected Outcome
	}{
		{"trip aces beat pair of twos", "AhAd", "2s2d", "AcKd7c4h9s", Win},
		{"board broadway outranks trip aces", "AhAd", "2s2d", "AcKdQcJhTh", Tie},
		{"shared board straight chops", "AhKh", "QsQd", "AcKdQcJhTh", Tie},
		{"set loses to flush", "7s7d", "AhKh", "7h2h9hJcQd", Loss},
		{"kicker decides", "AsQd", "AhJc", "Ac8d5s3h2c", Win},
		{"board plays for both", "2s3d", "4c5h", "AsKsQsJsTs", Tie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(two(tt.hero), two(tt.villain), five(tt.board))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCompareIsAntisymmetric(t *testing.T) {
	for _, hand := range randomHands(t, 1000, 9) {
		a, b, board := [2]deck.Card(hand[0:2]), [2]deck.Card(hand[2:4]), [5]deck.Card(hand[4:9])

		ab := Compare(a, b, board)
		ba := Compare(b, a, board)
		assert.InDelta(t, 1.0, float64(ab+ba), 1e-12, "hands %v", hand)
		if ab == Tie {
			assert.Equal(t, Tie, ba)
		}
	}
}

func TestHandScoreString(t *testing.T) {
	assert.Equal(t, "Straight (5)", ScoreFive(five("2h3d4c5sAh")).String())
	assert.Equal(t, "Full House (2 5)", ScoreFive(five("2h2d2c5s5h")).String())
	assert.Equal(t, "win", Win.String())
	assert.Equal(t, "tie", Tie.String())
	assert.Equal(t, "loss", Loss.String())
}

func TestShowdownReportsHeroHand(t *testing.T) {
	outcome, score := Showdown(two("AhAd"), two("2s2d"), five("AcKd7c4h9s"))
	assert.Equal(t, Win, outcome)
	assert.Equal(t, ThreeOfAKind, score.Category)
	assert.Equal(t, []deck.Rank{deck.Ace, deck.King, deck.Nine}, score.Tiebreak)
}
