package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-mcts/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every subcommand
type Globals struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" type:"path" default:"holdem-mcts.hcl" env:"HOLDEM_MCTS_CONFIG" help:"HCL configuration file (ignored if missing)"`
	Debug   bool             `env:"HOLDEM_MCTS_DEBUG" help:"Enable debug logging"`
	NoColor bool             `env:"NO_COLOR" help:"Disable coloured output"`
}

type CLI struct {
	Globals

	Equity EquityCmd `cmd:"" default:"withargs" help:"Estimate the equity of a starting hand (default)"`
	Serve  ServeCmd  `cmd:"" help:"Serve equity searches over HTTP"`
}

func main() {
	// A .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Failed to load .env", "error", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-mcts"),
		kong.Description("Monte Carlo Tree Search equity estimator for heads-up hold'em"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// SearchFlags override values from the configuration file when set
type SearchFlags struct {
	Iterations   *int           `short:"i" env:"HOLDEM_MCTS_ITERATIONS" help:"Number of search iterations (default 10000)"`
	Workers      *int           `short:"w" env:"HOLDEM_MCTS_WORKERS" help:"Independent search trees run in parallel (default 1)"`
	Seed         *int64         `short:"s" env:"HOLDEM_MCTS_SEED" help:"Random seed for reproducible results"`
	Exploration  *float64       `env:"HOLDEM_MCTS_EXPLORATION" help:"UCB1 exploration constant (default √2)"`
	ExpansionCap *int           `env:"HOLDEM_MCTS_EXPANSION_CAP" help:"Maximum children per node (default 1000)"`
	TimeBudget   *time.Duration `env:"HOLDEM_MCTS_TIME_BUDGET" help:"Stop searching after this long"`
}

// apply overlays explicitly set flags onto cfg
func (f *SearchFlags) apply(cfg *config.Config) {
	if f.Iterations != nil {
		cfg.Iterations = *f.Iterations
	}
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}
	if f.Seed != nil {
		cfg.Seed = f.Seed
	}
	if f.Exploration != nil {
		cfg.Exploration = *f.Exploration
	}
	if f.ExpansionCap != nil {
		cfg.ExpansionCap = *f.ExpansionCap
	}
	if f.TimeBudget != nil {
		cfg.TimeBudget = *f.TimeBudget
	}
}

// load resolves the configuration file, flag overrides and logger
func (g *Globals) load(flags *SearchFlags) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return cfg, g.logger(cfg), nil
}

func (g *Globals) logger(cfg *config.Config) *log.Logger {
	level := cfg.Level()
	if g.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	if g.NoColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}
