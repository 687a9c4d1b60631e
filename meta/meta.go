// meta/meta.go
package meta

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"towers/game"
)

// MAX_TURNS caps a simulated match so a stalemate still terminates.
const MAX_TURNS = 300

// WORKERS defines the number of matches an experiment plays concurrently.
const WORKERS = 8

// Config holds every tunable of a run. Values come from TOWERS_* environment
// variables and may then be overridden by command-line flags.
type Config struct {
	PointLimit     int    `env:"TOWERS_POINT_LIMIT" envDefault:"100"`
	CommandCards   int    `env:"TOWERS_COMMAND_CARDS" envDefault:"5"`
	CPPerTurn      int    `env:"TOWERS_CP_PER_TURN" envDefault:"4"`
	MaxCP          int    `env:"TOWERS_MAX_CP" envDefault:"6"`
	Activations    int    `env:"TOWERS_ACTIVATIONS" envDefault:"3"`
	MaxDeployment  int    `env:"TOWERS_MAX_DEPLOYMENT" envDefault:"5"`
	DeploymentRows int    `env:"TOWERS_DEPLOYMENT_ROWS" envDefault:"2"`
	BoardWidth     int    `env:"TOWERS_BOARD_WIDTH" envDefault:"10"`
	BoardHeight    int    `env:"TOWERS_BOARD_HEIGHT" envDefault:"8"`
	MatchFormat    string `env:"TOWERS_MATCH_FORMAT" envDefault:"single"`
	StrictLOS      bool   `env:"TOWERS_STRICT_LOS" envDefault:"false"`
	Retreat        bool   `env:"TOWERS_RETREAT" envDefault:"false"`

	Seed      uint64 `env:"TOWERS_SEED" envDefault:"1"`
	LogLevel  string `env:"TOWERS_LOG_LEVEL" envDefault:"info"`
	MaxTurns  int    `env:"TOWERS_MAX_TURNS" envDefault:"300"`
	Games     int    `env:"TOWERS_GAMES" envDefault:"10"`
	Workers   int    `env:"TOWERS_WORKERS" envDefault:"8"`
	OutputDir string `env:"TOWERS_OUTPUT_DIR" envDefault:"experiments/results"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RegisterFlags binds command-line flags to cfg, using the current values as
// defaults.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&cfg.PointLimit, "points", cfg.PointLimit, "army point limit")
	fs.IntVar(&cfg.Activations, "activations", cfg.Activations, "activations per turn")
	fs.StringVar(&cfg.MatchFormat, "format", cfg.MatchFormat, "match format: single or best-of-3")
	fs.BoolVar(&cfg.StrictLOS, "strict-los", cfg.StrictLOS, "forest blocks ranged attacks")
	fs.BoolVar(&cfg.Retreat, "retreat", cfg.Retreat, "failed morale checks retreat instead of taking damage")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zerolog level")
	fs.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "turn cap per match")
	fs.IntVar(&cfg.Games, "games", cfg.Games, "games per match-up")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "matches played concurrently")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "experiment output directory")
}

// Rules builds the rule set described by the configuration.
func (cfg Config) Rules() (*game.StandardRules, error) {
	format, err := game.ParseMatchFormat(cfg.MatchFormat)
	if err != nil {
		return nil, err
	}
	positive := []struct {
		name  string
		value int
	}{
		{"point limit", cfg.PointLimit},
		{"CP per turn", cfg.CPPerTurn},
		{"max CP", cfg.MaxCP},
		{"activations", cfg.Activations},
		{"max deployment", cfg.MaxDeployment},
		{"deployment rows", cfg.DeploymentRows},
		{"board width", cfg.BoardWidth},
		{"board height", cfg.BoardHeight},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	if cfg.CommandCards < 0 {
		return nil, fmt.Errorf("command cards must not be negative, got %d", cfg.CommandCards)
	}
	if 2*cfg.DeploymentRows > cfg.BoardHeight {
		return nil, fmt.Errorf("%d deployment rows per side do not fit a board %d rows high", cfg.DeploymentRows, cfg.BoardHeight)
	}

	rules := game.NewStandardRules()
	rules.Points = cfg.PointLimit
	rules.CommandCards = cfg.CommandCards
	rules.CPIncome = cfg.CPPerTurn
	rules.CPCap = cfg.MaxCP
	rules.Activations = cfg.Activations
	rules.Deployment = cfg.MaxDeployment
	rules.ZoneRows = cfg.DeploymentRows
	rules.Width = cfg.BoardWidth
	rules.Height = cfg.BoardHeight
	rules.Format = format
	rules.StrictLOS = cfg.StrictLOS
	rules.RetreatOnMorale = cfg.Retreat
	return rules, nil
}

// Level parses the configured log level.
func (cfg Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
