package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"towers/agent"
	"towers/meta"
)

func testConfig(t *testing.T) meta.Config {
	cfg, err := meta.Load()
	require.NoError(t, err)
	cfg.Games = 1
	cfg.MaxTurns = 12
	cfg.Workers = 2
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestRunDoctrineExperiment(t *testing.T) {
	cfg := testConfig(t)
	dir, err := RunDoctrineExperiment(context.Background(), cfg)
	require.NoError(t, err)
	require.DirExists(t, dir)

	n := len(agent.DoctrineNames())
	f, err := os.Open(filepath.Join(dir, "game_records.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+n*(n-1), "header plus one game per seating")

	for _, file := range []string{"agent_configs.csv", "move_records.csv"} {
		require.FileExists(t, filepath.Join(dir, file))
	}
}

func TestRunDoctrineExperimentRejectsBadRules(t *testing.T) {
	cfg := testConfig(t)
	cfg.MatchFormat = "best-of-7"
	_, err := RunDoctrineExperiment(context.Background(), cfg)
	require.Error(t, err)
}

func TestRunDoctrineExperimentCancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunDoctrineExperiment(ctx, cfg)
	require.ErrorIs(t, err, context.Canceled)
}
