package deck

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCard is returned when a card token cannot be parsed
	ErrInvalidCard = errors.New("invalid card")

	// ErrDuplicateCard is returned when the same card appears twice in one hand
	ErrDuplicateCard = errors.New("duplicate card")
)

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const suitLetters = "shdc"

// String returns the single-letter token for a suit
func (s Suit) String() string {
	if s > Clubs {
		return "?"
	}
	return string(suitLetters[s])
}

// Symbol returns the suit glyph used for terminal display
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank, Two through Ace (2-14)
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankLetters = "23456789TJQKA"

// String returns the single-character token for a rank
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankLetters[r-Two])
}

// Card is an immutable playing card. Cards order by rank only.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the two-character token for the card (e.g., "As")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Pretty returns the card with a suit glyph (e.g., "A♠")
func (c Card) Pretty() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Index returns the card's position in the 52-card universe (0-51)
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// Valid reports whether the card has an in-range rank and suit
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit <= Clubs
}

// Less orders cards by rank only
func (c Card) Less(other Card) bool {
	return c.Rank < other.Rank
}

// ParseCard parses a two-character token like "As" or "td".
// Ranks: 2-9, T, J, Q, K, A. Suits: s, h, d, c. Case-insensitive.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q must be two characters", ErrInvalidCard, s)
	}

	ri := strings.IndexByte(rankLetters, upper(s[0]))
	if ri < 0 {
		return Card{}, fmt.Errorf("%w: unknown rank '%c' in %q", ErrInvalidCard, s[0], s)
	}
	si := strings.IndexByte(suitLetters, lower(s[1]))
	if si < 0 {
		return Card{}, fmt.Errorf("%w: unknown suit '%c' in %q", ErrInvalidCard, s[1], s)
	}

	return Card{Rank: Two + Rank(ri), Suit: Suit(si)}, nil
}

// ParseCards parses a run of card tokens, either concatenated ("AsKd")
// or separated by whitespace/commas ("As Kd", "As,Kd").
func ParseCards(s string) ([]Card, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', ',':
			return -1
		}
		return r
	}, s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: card string length %d must be even", ErrInvalidCard, len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// ParseUniqueCards parses cards and rejects any repeated card
func ParseUniqueCards(s string) ([]Card, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return nil, err
	}
	var seen CardSet
	for _, c := range cards {
		if seen.Contains(c) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen.Add(c)
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

// FormatCards joins card tokens with a separator
func FormatCards(cards []Card, sep string) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, sep)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}
