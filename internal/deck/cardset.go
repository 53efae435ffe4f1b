package deck

import "math/bits"

// CardSet represents a set of cards using a bitset for fast operations.
// Each card maps to the bit at Card.Index().
type CardSet uint64

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards ...Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs.Add(card)
	}
	return cs
}

// Add adds a card to the set
func (cs *CardSet) Add(card Card) {
	*cs |= 1 << card.Index()
}

// AddAll adds every card in cards to the set
func (cs *CardSet) AddAll(cards []Card) {
	for _, card := range cards {
		cs.Add(card)
	}
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card Card) bool {
	return cs&(1<<card.Index()) != 0
}

// Union returns the cards present in either set
func (cs CardSet) Union(other CardSet) CardSet {
	return cs | other
}

// Len returns the number of cards in the set
func (cs CardSet) Len() int {
	return bits.OnesCount64(uint64(cs))
}

// Cards returns the set's members in universe order
func (cs CardSet) Cards() []Card {
	cards := make([]Card, 0, cs.Len())
	for rest := uint64(cs); rest != 0; rest &= rest - 1 {
		cards = append(cards, universe[bits.TrailingZeros64(rest)])
	}
	return cards
}
