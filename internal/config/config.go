package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-mcts/internal/mcts"
)

// ErrInvalidConfig is returned when a configuration value is out of range
var ErrInvalidConfig = errors.New("invalid config")

// File is the HCL layout of a search configuration file
type File struct {
	Search *SearchBlock `hcl:"search,block"`
	Serve  *ServeBlock  `hcl:"serve,block"`
	Log    *LogBlock    `hcl:"log,block"`
}

// SearchBlock holds search parameters
type SearchBlock struct {
	Iterations   *int     `hcl:"iterations,optional"`
	Workers      *int     `hcl:"workers,optional"`
	Seed         *int64   `hcl:"seed,optional"`
	Exploration  *float64 `hcl:"exploration,optional"`
	ExpansionCap *int     `hcl:"expansion_cap,optional"`
	TimeBudget   string   `hcl:"time_budget,optional"`
}

// ServeBlock holds HTTP server settings
type ServeBlock struct {
	Address       string `hcl:"address,optional"`
	MaxIterations *int   `hcl:"max_iterations,optional"`
}

// LogBlock holds logging settings
type LogBlock struct {
	Level string `hcl:"level,optional"`
}

// Config is the resolved configuration with defaults applied
type Config struct {
	Iterations    int
	Workers       int
	Seed          *int64
	Exploration   float64
	ExpansionCap  int
	TimeBudget    time.Duration
	Address       string
	MaxIterations int
	LogLevel      string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Iterations:    mcts.DefaultIterations,
		Workers:       1,
		Exploration:   mcts.DefaultExploration,
		ExpansionCap:  mcts.DefaultExpansionCap,
		Address:       "localhost:8080",
		MaxIterations: 200000,
		LogLevel:      "info",
	}
}

// Load reads an HCL configuration file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var f File
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg, err := f.resolve()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve overlays the values present in the file onto the defaults
func (f *File) resolve() (*Config, error) {
	cfg := Default()

	if s := f.Search; s != nil {
		if s.Iterations != nil {
			cfg.Iterations = *s.Iterations
		}
		if s.Workers != nil {
			cfg.Workers = *s.Workers
		}
		if s.Exploration != nil {
			cfg.Exploration = *s.Exploration
		}
		if s.ExpansionCap != nil {
			cfg.ExpansionCap = *s.ExpansionCap
		}
		cfg.Seed = s.Seed
		if s.TimeBudget != "" {
			d, err := time.ParseDuration(s.TimeBudget)
			if err != nil {
				return nil, fmt.Errorf("%w: time_budget: %v", ErrInvalidConfig, err)
			}
			cfg.TimeBudget = d
		}
	}

	if s := f.Serve; s != nil {
		if s.Address != "" {
			cfg.Address = s.Address
		}
		if s.MaxIterations != nil {
			cfg.MaxIterations = *s.MaxIterations
		}
	}

	if f.Log != nil && f.Log.Level != "" {
		cfg.LogLevel = f.Log.Level
	}
	return cfg, nil
}

// Validate checks every value is in range
func (c *Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be non-negative, got %d", ErrInvalidConfig, c.Iterations)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Exploration < 0 || math.IsNaN(c.Exploration) || math.IsInf(c.Exploration, 0) {
		return fmt.Errorf("%w: exploration must be a non-negative number, got %v", ErrInvalidConfig, c.Exploration)
	}
	if c.ExpansionCap < 1 {
		return fmt.Errorf("%w: expansion_cap must be positive, got %d", ErrInvalidConfig, c.ExpansionCap)
	}
	if c.TimeBudget < 0 {
		return fmt.Errorf("%w: time_budget must be non-negative, got %s", ErrInvalidConfig, c.TimeBudget)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Search returns the engine parameters
func (c *Config) Search() mcts.Config {
	cfg := mcts.DefaultConfig()
	cfg.Exploration = c.Exploration
	cfg.ExpansionCap = c.ExpansionCap
	cfg.TimeBudget = c.TimeBudget
	return cfg
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
