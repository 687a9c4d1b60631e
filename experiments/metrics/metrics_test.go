package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"towers/game"
)

func TestCollector(t *testing.T) {
	final := game.NewGameState(game.NewStandardRules())
	final.Turn = 7

	c := NewCollector()
	c.Start(game.Player1)
	c.AddMove(MoveMetric{Player: "player1", Action: "Attack", Damage: 2})
	c.AddMove(MoveMetric{Player: "player2", Action: "Move", Rejected: true})

	gm, moves, err := c.Complete(final, game.Player2, "no remaining units")
	require.NoError(t, err)
	require.Equal(t, "player1", gm.StartingPlayer)
	require.Equal(t, "player2", gm.Winner)
	require.Equal(t, 7, gm.Turns)
	require.Equal(t, 2, gm.TotalMoves)
	require.Equal(t, 1, gm.Rejected)
	want, err := final.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, want, gm.Fingerprint)
	require.Len(t, moves, 2)
	require.Equal(t, 1, moves[0].Step)
	require.Equal(t, 2, moves[1].Step)

	d := NewDummyCollector()
	d.Start(game.Player1)
	d.AddMove(MoveMetric{Action: "Attack"})
	gm, moves, err = d.Complete(final, "", "turn limit")
	require.NoError(t, err)
	require.Nil(t, moves)
	require.Equal(t, 1, gm.TotalMoves)
	require.Empty(t, gm.Winner)
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "doctrines")
	require.NoError(t, err)
	require.DirExists(t, w.Dir())

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Doctrine: "default"}, {ID: 2, Doctrine: "cautious"}}))
	require.NoError(t, w.WriteGameRecords([]GameRecord{{ID: 1, Agent1: 1, Agent2: 2, Seed: 9, GameMetric: GameMetric{Winner: "player1", Turns: 12}}}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{Game: 1, MoveMetric: MoveMetric{Step: 1, Action: "EndTurn"}}}))

	rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Equal(t, [][]string{{"id", "doctrine"}, {"1", "default"}, {"2", "cautious"}}, rows)

	rows = readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, rows, 2)
	require.Equal(t, "winner", rows[0][5])
	require.Equal(t, "player1", rows[1][5])
	require.Equal(t, "9", rows[1][3])

	rows = readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Len(t, rows, 2)
	require.Equal(t, "EndTurn", rows[1][5])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
