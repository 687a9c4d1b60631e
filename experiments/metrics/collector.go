package metrics

import (
	"fmt"
	"time"

	"towers/game"
)

type MoveMetric struct {
	Step     int
	Skirmish int
	Turn     int
	Player   string
	Action   string
	Move     string
	Duration time.Duration // Time the agent took to choose
	Damage   int           // Damage dealt by combats the move resolved
	Rejected bool          // The agent's move was illegal and the turn was ended instead
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // Empty for a draw
	Reason         string
	Skirmishes     int
	Turns          int
	TotalMoves     int
	Combats        int
	Rejected       int
	Fingerprint    uint64 // Of the final state
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

type Collector interface {
	Start(startingPlayer game.PlayerID)
	AddMove(metric MoveMetric)
	Complete(final *game.GameState, winner game.PlayerID, reason string) (GameMetric, []MoveMetric, error)
}

type collector struct {
	startingPlayer game.PlayerID
	startTime      time.Time
	moves          []MoveMetric
	count          int
	rejected       int
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(startingPlayer game.PlayerID) {
	c.startingPlayer = startingPlayer
	c.startTime = time.Now()
	c.moves = nil
	c.count = 0
	c.rejected = 0
}

func (c *collector) AddMove(metric MoveMetric) {
	c.count++
	metric.Step = c.count
	if metric.Rejected {
		c.rejected++
	}
	c.moves = append(c.moves, metric)
}

func (c *collector) Complete(final *game.GameState, winner game.PlayerID, reason string) (GameMetric, []MoveMetric, error) {
	end := time.Now()
	fingerprint, err := final.Fingerprint()
	if err != nil {
		return GameMetric{}, nil, fmt.Errorf("fingerprint final state: %w", err)
	}
	return GameMetric{
		StartingPlayer: string(c.startingPlayer),
		Winner:         string(winner),
		Reason:         reason,
		Skirmishes:     final.Skirmish,
		Turns:          final.Turn,
		TotalMoves:     c.count,
		Combats:        len(final.CombatLog),
		Rejected:       c.rejected,
		Fingerprint:    fingerprint,
		StartTime:      c.startTime,
		EndTime:        end,
		Duration:       end.Sub(c.startTime),
	}, c.moves, nil
}

// dummyCollector keeps only the game summary.
type dummyCollector struct {
	collector
}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (c *dummyCollector) AddMove(metric MoveMetric) {
	c.count++
	if metric.Rejected {
		c.rejected++
	}
}

func (c *dummyCollector) Complete(final *game.GameState, winner game.PlayerID, reason string) (GameMetric, []MoveMetric, error) {
	metric, _, err := c.collector.Complete(final, winner, reason)
	return metric, nil, err
}
