package meta

import (
	"flag"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"towers/game"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 100, cfg.PointLimit)
	require.Equal(t, MAX_TURNS, cfg.MaxTurns)
	require.Equal(t, WORKERS, cfg.Workers)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	require.Equal(t, game.NewStandardRules(), rules, "defaults should match the standard rules")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TOWERS_POINT_LIMIT", "150")
	t.Setenv("TOWERS_MATCH_FORMAT", "best-of-3")
	t.Setenv("TOWERS_RETREAT", "true")
	t.Setenv("TOWERS_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, uint64(42), cfg.Seed)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	require.Equal(t, 150, rules.PointLimit())
	require.Equal(t, game.BestOfThree, rules.MatchFormat())
	require.True(t, rules.RetreatOnFailedMorale())
}

func TestLoadError(t *testing.T) {
	t.Setenv("TOWERS_ACTIVATIONS", "many")
	_, err := Load()
	require.ErrorContains(t, err, "parse env:")
}

func TestRulesValidation(t *testing.T) {
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(cfg *Config)
		want   string
	}{
		{"unknown format", func(cfg *Config) { cfg.MatchFormat = "best-of-5" }, "unknown match format"},
		{"zero activations", func(cfg *Config) { cfg.Activations = 0 }, "activations must be positive"},
		{"negative cards", func(cfg *Config) { cfg.CommandCards = -1 }, "command cards"},
		{"zones overlap", func(cfg *Config) { cfg.DeploymentRows = 5 }, "do not fit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := cfg.Rules()
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TOWERS_GAMES", "3")
	cfg, err := Load()
	require.NoError(t, err)

	fs := flag.NewFlagSet("towers", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-games", "7", "-strict-los"}))
	require.Equal(t, 7, cfg.Games)
	require.True(t, cfg.StrictLOS)

	fs = flag.NewFlagSet("towers", flag.ContinueOnError)
	cfg, err = Load()
	require.NoError(t, err)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))
	require.Equal(t, 3, cfg.Games)
}

func TestLevel(t *testing.T) {
	cfg := Config{LogLevel: "debug"}
	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, level)

	cfg.LogLevel = "loud"
	_, err = cfg.Level()
	require.Error(t, err)
}
