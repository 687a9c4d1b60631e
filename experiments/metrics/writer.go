package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one side of a match-up.
type AgentConfig struct {
	ID       int
	Doctrine string
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID playing player1
	Agent2 int // AgentConfig.ID playing player2
	Seed   uint64
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> and writes every file there.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Doctrine,
		})
	}
	return w.write("agent_configs.csv", []string{"id", "doctrine"}, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{
		"id", "agent1", "agent2", "seed", "starting_player", "winner", "reason", "skirmishes", "turns",
		"moves", "combats", "rejected", "fingerprint", "start_time", "end_time", "duration",
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.FormatUint(record.Seed, 10),
			record.StartingPlayer,
			record.Winner,
			record.Reason,
			strconv.Itoa(record.Skirmishes),
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.TotalMoves),
			strconv.Itoa(record.Combats),
			strconv.Itoa(record.Rejected),
			strconv.FormatUint(record.Fingerprint, 16),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "skirmish", "turn", "player", "action", "move", "duration", "damage", "rejected"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Skirmish),
			strconv.Itoa(record.Turn),
			record.Player,
			record.Action,
			record.Move,
			record.Duration.String(),
			strconv.Itoa(record.Damage),
			strconv.FormatBool(record.Rejected),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
