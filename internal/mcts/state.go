package mcts

import (
	"fmt"

	"github.com/lox/holdem-mcts/internal/deck"
)

// Stage names how much of a round has been revealed. Stages are revealed in
// order, so a state at StageTurn also holds opponent cards and the flop.
type Stage uint8

const (
	StageHole Stage = iota
	StageOpponent
	StageFlop
	StageTurn
	StageRiver
)

// String returns the stage name
func (s Stage) String() string {
	switch s {
	case StageHole:
		return "hole"
	case StageOpponent:
		return "opponent"
	case StageFlop:
		return "flop"
	case StageTurn:
		return "turn"
	case StageRiver:
		return "river"
	default:
		return "unknown"
	}
}

// stageSizes is the number of cards the next stage reveals, indexed by the
// current stage.
var stageSizes = [...]int{
	StageHole:     2,
	StageOpponent: 3,
	StageFlop:     1,
	StageTurn:     1,
}

// GameState is an immutable snapshot of one rollout. Hero is always set;
// the remaining fields are populated up to Stage.
type GameState struct {
	Hero     [2]deck.Card
	Opponent [2]deck.Card
	Flop     [3]deck.Card
	Turn     deck.Card
	River    deck.Card
	Stage    Stage
}

// NewRootState creates the state for a search: hero cards only.
func NewRootState(hero [2]deck.Card) GameState {
	return GameState{Hero: hero, Stage: StageHole}
}

// HasOpponent reports whether the opponent's hole cards are populated
func (s GameState) HasOpponent() bool { return s.Stage >= StageOpponent }

// HasFlop reports whether the flop is populated
func (s GameState) HasFlop() bool { return s.Stage >= StageFlop }

// HasTurn reports whether the turn card is populated
func (s GameState) HasTurn() bool { return s.Stage >= StageTurn }

// HasRiver reports whether the river card is populated
func (s GameState) HasRiver() bool { return s.Stage >= StageRiver }

// IsTerminal reports whether every stage has been revealed
func (s GameState) IsTerminal() bool {
	return s.HasOpponent() && s.HasFlop() && s.HasTurn() && s.HasRiver()
}

// NextStageSize returns how many cards the next stage reveals, or 0 when terminal
func (s GameState) NextStageSize() int {
	if s.IsTerminal() {
		return 0
	}
	return stageSizes[s.Stage]
}

// Cards returns every populated card in the state
func (s GameState) Cards() deck.CardSet {
	cs := deck.NewCardSet(s.Hero[:]...)
	if s.HasOpponent() {
		cs.AddAll(s.Opponent[:])
	}
	if s.HasFlop() {
		cs.AddAll(s.Flop[:])
	}
	if s.HasTurn() {
		cs.Add(s.Turn)
	}
	if s.HasRiver() {
		cs.Add(s.River)
	}
	return cs
}

// Board returns the five community cards. Only meaningful when terminal.
func (s GameState) Board() [5]deck.Card {
	return [5]deck.Card{s.Flop[0], s.Flop[1], s.Flop[2], s.Turn, s.River}
}

// Reveal returns a copy of s with the next stage populated from cards.
// len(cards) must equal NextStageSize.
func (s GameState) Reveal(cards []deck.Card) (GameState, error) {
	if s.IsTerminal() {
		return s, fmt.Errorf("state already terminal")
	}
	if want := s.NextStageSize(); len(cards) != want {
		return s, fmt.Errorf("stage %s needs %d cards, got %d", s.Stage+1, want, len(cards))
	}

	next := s
	switch s.Stage {
	case StageHole:
		next.Opponent = [2]deck.Card(cards)
	case StageOpponent:
		next.Flop = [3]deck.Card(cards)
	case StageFlop:
		next.Turn = cards[0]
	case StageTurn:
		next.River = cards[0]
	}
	next.Stage = s.Stage + 1
	return next, nil
}

// String renders the populated fields, e.g. "AsAh | KdQc | 2s3s4s 5h 6h"
func (s GameState) String() string {
	out := deck.FormatCards(s.Hero[:], "")
	if s.HasOpponent() {
		out += " | " + deck.FormatCards(s.Opponent[:], "")
	}
	if s.HasFlop() {
		out += " | " + deck.FormatCards(s.Flop[:], "")
	}
	if s.HasTurn() {
		out += " " + s.Turn.String()
	}
	if s.HasRiver() {
		out += " " + s.River.String()
	}
	return out
}
