package mcts

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallelCombinesWorkers(t *testing.T) {
	result, err := RunParallel(context.Background(), hand("AsAh"), 2003, 4, 17)
	require.NoError(t, err)

	assert.Equal(t, 2003, result.Iterations)
	assert.Equal(t, 2003, result.Visits)
	assert.Equal(t, 2003, result.Stats.Samples)
	assert.InDelta(t, result.Reward/2003, result.Equity, 1e-12)
	assert.InDelta(t, 0.85, result.Equity, 0.06)
	require.NoError(t, result.Stats.Validate())
}

func TestRunParallelIsDeterministicForSeed(t *testing.T) {
	a, err := RunParallel(context.Background(), hand("9s8s"), 800, 3, 5)
	require.NoError(t, err)
	b, err := RunParallel(context.Background(), hand("9s8s"), 800, 3, 5)
	require.NoError(t, err)

	assert.Equal(t, a.Equity, b.Equity)
	assert.Equal(t, a.Stats, b.Stats)
}

func TestRunParallelSingleWorkerMatchesEstimate(t *testing.T) {
	a, err := RunParallel(context.Background(), hand("JcJd"), 500, 1, 8)
	require.NoError(t, err)
	b, err := RunParallel(context.Background(), hand("JcJd"), 500, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, a.Equity, b.Equity)
	assert.Equal(t, 500, a.Iterations)
}

func TestRunParallelValidatesArguments(t *testing.T) {
	_, err := RunParallel(context.Background(), hand("AsAh"), 100, 0, 1)
	assert.Error(t, err)

	_, err = RunParallel(context.Background(), hand("AsAh"), -1, 2, 1)
	assert.Error(t, err)

	_, err = RunParallel(context.Background(), hand("AsAs"), 100, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidHand)
}

func TestRunParallelClampsWorkers(t *testing.T) {
	result, err := RunParallel(context.Background(), hand("AsAh"), 3, 16, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Iterations)
}

func TestRunParallelReportsCombinedProgress(t *testing.T) {
	var mu sync.Mutex
	maxDone := 0
	cfg := DefaultConfig()
	cfg.ProgressEvery = 50

	_, err := RunParallel(context.Background(), hand("AsAh"), 1000, 4, 3,
		WithConfig(cfg),
		WithProgress(func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 1000, total)
			if done > maxDone {
				maxDone = done
			}
		}))
	require.NoError(t, err)
	assert.Equal(t, 1000, maxDone)
}

func TestRunParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := RunParallel(ctx, hand("AsAh"), 1000, 4, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Iterations)
}
