package mcts

import (
	"math"

	"github.com/lox/holdem-mcts/internal/deck"
)

// NodeID addresses a node in a Tree's arena.
type NodeID int32

// NoParent is the parent of the root node.
const NoParent NodeID = -1

// RootID is always the first node in the arena.
const RootID NodeID = 0

// Node holds one revealed state and its visit statistics. Children are
// append-only and kept in insertion order.
type Node struct {
	Parent   NodeID
	Children []NodeID
	State    GameState
	Visits   int
	Reward   float64
}

// Tree is an arena of nodes linked by index. It is not safe for concurrent use.
type Tree struct {
	nodes []Node
}

// NewTree creates a tree holding only the root state
func NewTree(root GameState) *Tree {
	return &Tree{nodes: []Node{{Parent: NoParent, State: root}}}
}

// Len returns the number of nodes in the tree
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns a read-only copy of a node
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Root returns a copy of the root node
func (t *Tree) Root() Node {
	return t.nodes[RootID]
}

// AddChild appends a child holding state under parent and returns its id
func (t *Tree) AddChild(parent NodeID, state GameState) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Parent: parent, State: state})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}

// IsFullyExpanded reports whether the node has reached the branching cap.
// The cap is a heuristic limit, not the count of unseen card combinations.
func (t *Tree) IsFullyExpanded(id NodeID, expansionCap int) bool {
	return len(t.nodes[id].Children) >= expansionCap
}

// SelectionScore returns the UCB1 value of a node. Unvisited nodes score +Inf.
func (t *Tree) SelectionScore(id NodeID, exploration float64) float64 {
	n := &t.nodes[id]
	if n.Visits == 0 {
		return math.Inf(1)
	}

	parentVisits := 1
	if n.Parent != NoParent && t.nodes[n.Parent].Visits > 0 {
		parentVisits = t.nodes[n.Parent].Visits
	}

	visits := float64(n.Visits)
	return n.Reward/visits + exploration*math.Sqrt(math.Log(float64(parentVisits))/visits)
}

// SelectBestChild returns the child with the highest selection score,
// preferring the earliest child on ties. ok is false when id has no children.
func (t *Tree) SelectBestChild(id NodeID, exploration float64) (best NodeID, ok bool) {
	bestScore := math.Inf(-1)
	for _, child := range t.nodes[id].Children {
		score := t.SelectionScore(child, exploration)
		if !ok || score > bestScore {
			best, bestScore, ok = child, score, true
		}
	}
	return best, ok
}

// PathCards unions the cards of every state from id up to the root.
func (t *Tree) PathCards(id NodeID) deck.CardSet {
	var cs deck.CardSet
	for cur := id; cur != NoParent; cur = t.nodes[cur].Parent {
		cs = cs.Union(t.nodes[cur].State.Cards())
	}
	return cs
}

// Backpropagate adds one visit and reward to every node from id to the root
func (t *Tree) Backpropagate(id NodeID, reward float64) {
	for cur := id; cur != NoParent; cur = t.nodes[cur].Parent {
		t.nodes[cur].Visits++
		t.nodes[cur].Reward += reward
	}
}

// Depth returns the number of edges between id and the root
func (t *Tree) Depth(id NodeID) int {
	depth := 0
	for cur := t.nodes[id].Parent; cur != NoParent; cur = t.nodes[cur].Parent {
		depth++
	}
	return depth
}
