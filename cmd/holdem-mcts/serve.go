package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/holdem-mcts/internal/api"
)

// ServeCmd runs the HTTP equity service
type ServeCmd struct {
	Addr          *string `short:"a" env:"HOLDEM_MCTS_ADDR" help:"Listen address (default localhost:8080)"`
	MaxIterations *int    `env:"HOLDEM_MCTS_MAX_ITERATIONS" help:"Upper bound on iterations per request"`

	SearchFlags
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.load(&c.SearchFlags)
	if err != nil {
		return err
	}
	if c.Addr != nil {
		cfg.Address = *c.Addr
	}
	if c.MaxIterations != nil {
		cfg.MaxIterations = *c.MaxIterations
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.NewServer(cfg, logger).ListenAndServe(ctx)
}
