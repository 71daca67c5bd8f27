// Package config loads simulation run and sweep definitions from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dilemma/internal/model"
	"dilemma/internal/strategy"
	"dilemma/internal/sweep"
)

// Config is one simulation definition: the roster, the execution mode,
// and the axes to sweep. Single-value runs are sweeps with one point.
type Config struct {
	Mode    string   `yaml:"mode"`
	Roster  []string `yaml:"roster"`
	Seed    int64    `yaml:"seed"`
	Workers int      `yaml:"workers"`

	PointWorkers int `yaml:"point_workers"`

	Axes AxesConfig `yaml:"axes"`
}

type AxesConfig struct {
	// PayoffPresets names preset tables; PayoffTables gives explicit
	// ones. Both may be combined.
	PayoffPresets  []string            `yaml:"payoff_presets"`
	PayoffTables   []model.PayoffTable `yaml:"payoff_tables"`
	NumMoves       []int               `yaml:"num_moves"`
	MistakeProbs   []float64           `yaml:"mistake_probs"`
	StartMultiples []int               `yaml:"start_multiples"`
	ReplaceCounts  []int               `yaml:"replace_counts"`
	Iterations     []int               `yaml:"iterations"`
}

// Load reads a YAML config, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func ApplyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = sweep.ModeTournament
	}
	if len(cfg.Roster) == 0 {
		cfg.Roster = strategy.Names()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PointWorkers <= 0 {
		cfg.PointWorkers = 1
	}
	if len(cfg.Axes.PayoffPresets) == 0 && len(cfg.Axes.PayoffTables) == 0 {
		cfg.Axes.PayoffPresets = []string{"classical-rewards"}
	}
	if len(cfg.Axes.NumMoves) == 0 {
		cfg.Axes.NumMoves = []int{10}
	}
	if len(cfg.Axes.MistakeProbs) == 0 {
		cfg.Axes.MistakeProbs = []float64{0}
	}
	if cfg.Mode == sweep.ModeEvolve {
		if len(cfg.Axes.StartMultiples) == 0 {
			cfg.Axes.StartMultiples = []int{3}
		}
		if len(cfg.Axes.ReplaceCounts) == 0 {
			cfg.Axes.ReplaceCounts = []int{1}
		}
		if len(cfg.Axes.Iterations) == 0 {
			cfg.Axes.Iterations = []int{10}
		}
	}
}

func Validate(cfg *Config) error {
	switch cfg.Mode {
	case sweep.ModeTournament, sweep.ModeEvolve:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", sweep.ModeTournament, sweep.ModeEvolve, cfg.Mode)
	}
	for _, kind := range cfg.Roster {
		if _, err := strategy.Resolve(kind); err != nil {
			return err
		}
	}
	for _, name := range cfg.Axes.PayoffPresets {
		if _, ok := model.PresetPayoffTable(name); !ok {
			return fmt.Errorf("unknown payoff preset: %s", name)
		}
	}
	for _, moves := range cfg.Axes.NumMoves {
		if moves <= 0 {
			return fmt.Errorf("num_moves values must be > 0, got %d", moves)
		}
	}
	for _, prob := range cfg.Axes.MistakeProbs {
		if prob < 0 || prob > 1 {
			return fmt.Errorf("mistake_probs values must be in [0,1], got %g", prob)
		}
	}
	for _, multiple := range cfg.Axes.StartMultiples {
		if multiple <= 0 {
			return fmt.Errorf("start_multiples values must be > 0, got %d", multiple)
		}
	}
	for _, count := range cfg.Axes.ReplaceCounts {
		if count < 0 {
			return fmt.Errorf("replace_counts values must be >= 0, got %d", count)
		}
	}
	for _, iters := range cfg.Axes.Iterations {
		if iters <= 0 {
			return fmt.Errorf("iterations values must be > 0, got %d", iters)
		}
	}
	return nil
}

// SweepConfig lowers the loaded config into the sweep runner's shape,
// resolving payoff presets into concrete tables.
func (c *Config) SweepConfig() (sweep.Config, error) {
	tables := make([]model.PayoffTable, 0, len(c.Axes.PayoffPresets)+len(c.Axes.PayoffTables))
	for _, name := range c.Axes.PayoffPresets {
		table, ok := model.PresetPayoffTable(name)
		if !ok {
			return sweep.Config{}, fmt.Errorf("unknown payoff preset: %s", name)
		}
		tables = append(tables, table)
	}
	tables = append(tables, c.Axes.PayoffTables...)

	return sweep.Config{
		Roster:       c.Roster,
		Mode:         c.Mode,
		Seed:         c.Seed,
		Workers:      c.Workers,
		PointWorkers: c.PointWorkers,
		Axes: sweep.Axes{
			PayoffTables:   tables,
			NumMoves:       c.Axes.NumMoves,
			MistakeProbs:   c.Axes.MistakeProbs,
			StartMultiples: c.Axes.StartMultiples,
			ReplaceCounts:  c.Axes.ReplaceCounts,
			Iterations:     c.Axes.Iterations,
		},
	}, nil
}
