package agent

import (
	"towers/game"
)

// Agent picks the acting player's next battle move.
type Agent interface {
	// FindMove returns a legal move for gs.CurrentPlayer. Agents end the turn
	// when they have nothing better to do.
	FindMove(gs *game.GameState) game.GameMove
}

var endTurn = game.GameMove{ActionType: game.EndTurnAction}
