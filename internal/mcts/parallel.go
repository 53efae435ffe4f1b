package mcts

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-mcts/internal/deck"
	"github.com/lox/holdem-mcts/internal/randutil"
)

// RunParallel splits iterations across workers, each searching its own
// independently seeded tree, and combines the root visit and reward sums.
// Trees are never shared between goroutines.
//
// A progress callback passed in opts receives the combined completed count
// and may be called from several goroutines at once.
func RunParallel(ctx context.Context, hero [2]deck.Card, iterations, workers int, seed int64, opts ...Option) (Result, error) {
	if workers < 1 {
		return Result{}, fmt.Errorf("workers must be positive, got %d", workers)
	}
	if iterations < 0 {
		return Result{}, fmt.Errorf("iterations must be non-negative, got %d", iterations)
	}
	if workers > iterations && iterations > 0 {
		workers = iterations
	}
	if workers == 1 {
		return Estimate(ctx, hero, iterations, randutil.New(seed), opts...)
	}

	// Probe the options once so a shared progress callback can be fanned in.
	probe := &Engine{config: DefaultConfig()}
	for _, opt := range opts {
		opt(probe)
	}

	var completed atomic.Int64
	seeds := randutil.WorkerSeeds(seed, workers)
	results := make([]Result, workers)
	per, remainder := iterations/workers, iterations%workers

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		n := per
		if w < remainder {
			n++
		}

		workerOpts := opts
		if probe.progress != nil {
			var reported int
			report := probe.progress
			workerOpts = append(append([]Option{}, opts...), WithProgress(func(done, _ int) {
				total := completed.Add(int64(done - reported))
				reported = done
				report(int(total), iterations)
			}))
		}

		g.Go(func() error {
			e, err := NewEngine(hero, randutil.New(seeds[w]), workerOpts...)
			if err != nil {
				return err
			}
			results[w], err = e.Run(gctx, n)
			return err
		})
	}
	err := g.Wait()

	return combine(results), err
}

// combine sums independent trees' root statistics into one result.
func combine(results []Result) Result {
	var out Result
	for _, r := range results {
		out.Iterations += r.Iterations
		out.Visits += r.Visits
		out.Reward += r.Reward
		out.Nodes += r.Nodes
		if r.Elapsed > out.Elapsed {
			out.Elapsed = r.Elapsed
		}
		out.Stats.Merge(&r.Stats)
	}
	if out.Visits > 0 {
		out.Equity = out.Reward / float64(out.Visits)
	}
	return out
}
