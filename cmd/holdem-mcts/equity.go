package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/holdem-mcts/internal/api"
	"github.com/lox/holdem-mcts/internal/deck"
	"github.com/lox/holdem-mcts/internal/fileutil"
	"github.com/lox/holdem-mcts/internal/mcts"
	"github.com/lox/holdem-mcts/internal/randutil"
)

// EquityCmd estimates a starting hand's equity against a random opponent
type EquityCmd struct {
	Hand string `arg:"" help:"Hero hole cards, e.g. 'AsAh' or 'As Ah'"`

	SearchFlags

	Possibilities bool   `short:"p" help:"Show how often the hero finishes with each hand type"`
	Progress      bool   `help:"Show a live progress bar"`
	Output        string `short:"o" type:"path" help:"Also write the result as JSON to this file"`
}

func (c *EquityCmd) Run(g *Globals) error {
	hero, err := parseHand(c.Hand)
	if err != nil {
		return err
	}

	cfg, logger, err := g.load(&c.SearchFlags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := randutil.Seed(cfg.Seed)
	logger.Debug("Using seed", "seed", seed, "explicit", cfg.Seed != nil)

	search := func(ctx context.Context, progress mcts.ProgressFunc) (mcts.Result, error) {
		opts := []mcts.Option{
			mcts.WithConfig(cfg.Search()),
			mcts.WithLogger(logger),
		}
		if progress != nil {
			opts = append(opts, mcts.WithProgress(progress))
		}
		return mcts.RunParallel(ctx, hero, cfg.Iterations, cfg.Workers, seed, opts...)
	}

	var result mcts.Result
	if c.Progress {
		result, err = runWithProgress(ctx, cfg.Iterations, search)
	} else {
		result, err = search(ctx, nil)
	}
	if err != nil && result.Iterations == 0 {
		return err
	}
	if err != nil {
		logger.Warn("Search interrupted, showing partial result", "error", err)
	}

	renderResult(os.Stdout, hero, result, seed, c.Possibilities)

	if c.Output != "" {
		if err := fileutil.WriteJSON(c.Output, api.NewEquityResponse(hero, seed, result)); err != nil {
			return err
		}
		logger.Info("Wrote result", "path", c.Output)
	}
	return nil
}

// parseHand parses exactly two distinct hole cards
func parseHand(s string) ([2]deck.Card, error) {
	cards, err := deck.ParseUniqueCards(s)
	if err != nil {
		return [2]deck.Card{}, fmt.Errorf("hand %q: %w", s, err)
	}
	if len(cards) != 2 {
		return [2]deck.Card{}, fmt.Errorf("hand %q: must contain exactly 2 cards, got %d", s, len(cards))
	}
	return [2]deck.Card(cards), nil
}
