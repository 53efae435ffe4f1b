package mcts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-mcts/internal/deck"
	"github.com/lox/holdem-mcts/internal/evaluator"
	"github.com/lox/holdem-mcts/internal/statistics"
)

// ErrInvalidHand is returned when the hero's hole cards are unusable
var ErrInvalidHand = errors.New("invalid hero hand")

const (
	// DefaultExpansionCap is the branching cap per node
	DefaultExpansionCap = 1000

	// DefaultIterations is used by callers that have no explicit count
	DefaultIterations = 10000
)

// DefaultExploration is the UCB1 exploration constant, √2
var DefaultExploration = math.Sqrt2

// ProgressFunc receives the number of completed iterations and the target
type ProgressFunc func(done, total int)

// Config holds the tunable search parameters
type Config struct {
	Exploration   float64
	ExpansionCap  int
	TimeBudget    time.Duration // zero means no limit
	ProgressEvery int
}

// DefaultConfig returns the standard search parameters
func DefaultConfig() Config {
	return Config{
		Exploration:   DefaultExploration,
		ExpansionCap:  DefaultExpansionCap,
		ProgressEvery: 1000,
	}
}

// Option configures an Engine
type Option func(*Engine)

// WithConfig replaces the engine's search parameters
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithExploration sets the UCB1 exploration constant
func WithExploration(c float64) Option {
	return func(e *Engine) { e.config.Exploration = c }
}

// WithExpansionCap sets the per-node branching cap
func WithExpansionCap(n int) Option {
	return func(e *Engine) { e.config.ExpansionCap = n }
}

// WithTimeBudget stops the search once the budget elapses
func WithTimeBudget(d time.Duration) Option {
	return func(e *Engine) { e.config.TimeBudget = d }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger.WithPrefix("mcts") }
}

// WithClock sets the clock used for time budgets and elapsed time
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithProgress registers a callback invoked every ProgressEvery iterations
// and once at the end of a run
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// Result summarises a search run
type Result struct {
	Equity     float64
	Iterations int
	Visits     int
	Reward     float64
	Nodes      int
	Elapsed    time.Duration
	Stats      statistics.Statistics
}

// Engine runs Monte Carlo Tree Search over the stages of a heads-up round,
// estimating the hero's equity against a random opponent hand and board.
// An Engine owns its tree and is not safe for concurrent use.
type Engine struct {
	config   Config
	tree     *Tree
	deck     *deck.Deck
	logger   *log.Logger
	clock    quartz.Clock
	progress ProgressFunc
	stats    statistics.Statistics
}

// NewEngine creates an engine for the hero's hole cards. rng drives every
// random draw, so a seeded rng makes the search reproducible.
func NewEngine(hero [2]deck.Card, rng *rand.Rand, opts ...Option) (*Engine, error) {
	for _, c := range hero {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: card %v out of range", ErrInvalidHand, c)
		}
	}
	if hero[0] == hero[1] {
		return nil, fmt.Errorf("%w: %s appears twice", ErrInvalidHand, hero[0])
	}

	e := &Engine{
		config: DefaultConfig(),
		tree:   NewTree(NewRootState(hero)),
		deck:   deck.NewDeck(rng),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.config.ExpansionCap < 1 {
		return nil, fmt.Errorf("expansion cap must be positive, got %d", e.config.ExpansionCap)
	}
	if e.config.Exploration < 0 || math.IsNaN(e.config.Exploration) {
		return nil, fmt.Errorf("exploration constant must be non-negative, got %v", e.config.Exploration)
	}
	return e, nil
}

// Tree returns the engine's search tree
func (e *Engine) Tree() *Tree {
	return e.tree
}

// Iterate runs one select/expand, simulate and backpropagate pass and
// returns the terminal node and its reward.
func (e *Engine) Iterate() (NodeID, evaluator.Outcome) {
	node := RootID
	for !e.tree.Node(node).State.IsTerminal() {
		if !e.tree.IsFullyExpanded(node, e.config.ExpansionCap) {
			node = e.expand(node)
			continue
		}
		// A fully expanded node always has at least one child.
		node, _ = e.tree.SelectBestChild(node, e.config.Exploration)
	}

	state := e.tree.Node(node).State
	outcome, heroScore := evaluator.Showdown(state.Hero, state.Opponent, state.Board())
	e.stats.Add(outcome, heroScore.Category)

	e.tree.Backpropagate(node, float64(outcome))
	return node, outcome
}

// expand samples the next stage for node, excluding every card already on
// the path from the root, and appends the new child.
func (e *Engine) expand(node NodeID) NodeID {
	state := e.tree.Node(node).State
	cards := e.deck.Draw(state.NextStageSize(), e.tree.PathCards(node))

	child, err := state.Reveal(cards)
	if err != nil {
		panic(fmt.Sprintf("mcts: expand %s: %v", state.Stage, err))
	}
	return e.tree.AddChild(node, child)
}

// Run performs up to iterations search passes and returns the root's
// average reward as the equity estimate. The context is checked between
// iterations; on cancellation the partial result is returned with ctx.Err().
// An exhausted time budget ends the run without error.
func (e *Engine) Run(ctx context.Context, iterations int) (Result, error) {
	if iterations < 0 {
		return Result{}, fmt.Errorf("iterations must be non-negative, got %d", iterations)
	}

	start := e.clock.Now()
	var deadline time.Time
	if e.config.TimeBudget > 0 {
		deadline = start.Add(e.config.TimeBudget)
	}

	root := e.tree.Root().State
	e.logger.Debug("Starting search",
		"hero", deck.FormatCards(root.Hero[:], ""),
		"iterations", iterations,
		"exploration", e.config.Exploration,
		"expansion_cap", e.config.ExpansionCap,
		"time_budget", e.config.TimeBudget)

	var runErr error
	done := 0
	for ; done < iterations; done++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if !deadline.IsZero() && !e.clock.Now().Before(deadline) {
			e.logger.Debug("Time budget exhausted", "completed", done)
			break
		}

		e.Iterate()

		if e.progress != nil && e.config.ProgressEvery > 0 && (done+1)%e.config.ProgressEvery == 0 {
			e.progress(done+1, iterations)
		}
	}
	if e.progress != nil {
		e.progress(done, iterations)
	}

	result := e.result(done, e.clock.Since(start))
	e.logger.Debug("Search finished",
		"equity", fmt.Sprintf("%.4f", result.Equity),
		"iterations", result.Iterations,
		"nodes", result.Nodes,
		"elapsed", result.Elapsed)

	return result, runErr
}

func (e *Engine) result(iterations int, elapsed time.Duration) Result {
	root := e.tree.Root()
	r := Result{
		Iterations: iterations,
		Visits:     root.Visits,
		Reward:     root.Reward,
		Nodes:      e.tree.Len(),
		Elapsed:    elapsed,
		Stats:      e.stats,
	}
	if root.Visits > 0 {
		r.Equity = root.Reward / float64(root.Visits)
	}
	return r
}

// Estimate is a convenience wrapper: build an engine and run it.
func Estimate(ctx context.Context, hero [2]deck.Card, iterations int, rng *rand.Rand, opts ...Option) (Result, error) {
	e, err := NewEngine(hero, rng, opts...)
	if err != nil {
		return Result{}, err
	}
	return e.Run(ctx, iterations)
}
