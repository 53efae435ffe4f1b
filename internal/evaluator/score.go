package evaluator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/holdem-mcts/internal/deck"
)

// Category enumerates the poker hand categories ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the readable name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandScore is a totally ordered hand value: category first, then the
// tiebreak ranks most-significant first.
type HandScore struct {
	Category Category
	Tiebreak []deck.Rank
}

// Compare returns 1 if s is stronger, -1 if other is stronger, 0 if equal
func (s HandScore) Compare(other HandScore) int {
	if s.Category != other.Category {
		if s.Category > other.Category {
			return 1
		}
		return -1
	}
	return slices.Compare(s.Tiebreak, other.Tiebreak)
}

// String returns a description such as "Straight (5)" or "Pair (A K Q 9)"
func (s HandScore) String() string {
	ranks := make([]string, len(s.Tiebreak))
	for i, r := range s.Tiebreak {
		ranks[i] = r.String()
	}
	return fmt.Sprintf("%s (%s)", s.Category, strings.Join(ranks, " "))
}

type rankGroup struct {
	rank  deck.Rank
	count int
}

// ScoreFive scores exactly five cards.
func ScoreFive(cards [5]deck.Card) HandScore {
	var counts [deck.Ace + 1]int
	flush := true
	for _, c := range cards {
		counts[c.Rank]++
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// Groups sorted by count then rank, both descending, give tiebreak precedence.
	groups := make([]rankGroup, 0, 5)
	for r := deck.Ace; r >= deck.Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	slices.SortStableFunc(groups, func(a, b rankGroup) int {
		return b.count - a.count
	})

	straightHigh := straightHighCard(groups)

	switch {
	case flush && straightHigh > 0:
		return HandScore{Category: StraightFlush, Tiebreak: []deck.Rank{straightHigh}}
	case groups[0].count == 4:
		return HandScore{Category: FourOfAKind, Tiebreak: groupRanks(groups)}
	case groups[0].count == 3 && groups[1].count >= 2:
		return HandScore{Category: FullHouse, Tiebreak: groupRanks(groups)}
	case flush:
		return HandScore{Category: Flush, Tiebreak: groupRanks(groups)}
	case straightHigh > 0:
		return HandScore{Category: Straight, Tiebreak: []deck.Rank{straightHigh}}
	case groups[0].count == 3:
		return HandScore{Category: ThreeOfAKind, Tiebreak: groupRanks(groups)}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandScore{Category: TwoPair, Tiebreak: groupRanks(groups)}
	case groups[0].count == 2:
		return HandScore{Category: Pair, Tiebreak: groupRanks(groups)}
	default:
		return HandScore{Category: HighCard, Tiebreak: groupRanks(groups)}
	}
}

// straightHighCard returns the top rank of a five-rank run, 5 for the wheel,
// or 0 when the distinct ranks do not form a straight.
func straightHighCard(groups []rankGroup) deck.Rank {
	if len(groups) != 5 {
		return 0
	}
	// All singletons, so groups is already rank-descending.
	hi, lo := groups[0].rank, groups[4].rank
	if hi-lo == 4 {
		return hi
	}
	if hi == deck.Ace && groups[1].rank == deck.Five && lo == deck.Two {
		return deck.Five
	}
	return 0
}

func groupRanks(groups []rankGroup) []deck.Rank {
	ranks := make([]deck.Rank, len(groups))
	for i, g := range groups {
		ranks[i] = g.rank
	}
	return ranks
}

// BestOfSeven scores every 5-card subset of seven cards and returns the
// strongest. All 21 subsets are evaluated.
func BestOfSeven(cards [7]deck.Card) HandScore {
	var best HandScore
	first := true
	var five [5]deck.Card

	// Each subset is the seven cards minus one pair (i, j).
	for i := 0; i < 7; i++ {
		for j := i + 1; j < 7; j++ {
			n := 0
			for k, c := range cards {
				if k != i && k != j {
					five[n] = c
					n++
				}
			}
			score := ScoreFive(five)
			if first || score.Compare(best) > 0 {
				best = score
				first = false
			}
		}
	}
	return best
}

// Outcome is the hero's share of a heads-up showdown.
type Outcome float64

const (
	Loss Outcome = 0
	Tie  Outcome = 0.5
	Win  Outcome = 1
)

// String returns "win", "tie" or "loss"
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Tie:
		return "tie"
	default:
		return "loss"
	}
}

// Compare plays hero against villain over a shared five-card board.
func Compare(hero, villain [2]deck.Card, board [5]deck.Card) Outcome {
	outcome, _ := Showdown(hero, villain, board)
	return outcome
}

// Showdown is Compare that also returns the hero's best hand.
func Showdown(hero, villain [2]deck.Card, board [5]deck.Card) (Outcome, HandScore) {
	heroScore := BestOfSeven(sevenOf(hero, board))
	villainScore := BestOfSeven(sevenOf(villain, board))

	switch heroScore.Compare(villainScore) {
	case 1:
		return Win, heroScore
	case -1:
		return Loss, heroScore
	default:
		return Tie, heroScore
	}
}

func sevenOf(hole [2]deck.Card, board [5]deck.Card) [7]deck.Card {
	var seven [7]deck.Card
	copy(seven[:2], hole[:])
	copy(seven[2:], board[:])
	return seven
}
