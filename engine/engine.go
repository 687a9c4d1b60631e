package engine

import (
	"towers/experiments/metrics"
	"towers/game"
)

const MaxMoves = 10000

const ReasonTurnLimit = "turn limit"

type Runner interface {
	// Run plays a match till there's a winner, the turn limit is reached or
	// a max number of moves is reached
	Run() (winner game.PlayerID, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
