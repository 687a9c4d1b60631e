package game

import "fmt"

// EndTurn closes the acting player's turn and opens the opponent's.
func (m *Manager) EndTurn(gs *GameState) (*GameState, error) {
	if err := requirePhase(gs, BattlePhase); err != nil {
		return m.reject(gs, err)
	}
	ws := gs.Copy()
	m.removeDeadUnits(ws)

	ending := ws.CurrentPlayer
	for _, id := range ws.UnitIDs() {
		if u := ws.Units[id]; u.PlayerID == ending && u.OnBoard() && !u.InSupply {
			m.addMorale(ws, id)
			m.log.Log(CategoryAction, fmt.Sprintf("%s is out of supply", id), Fields{"unit": id})
		}
	}

	next := ending.Opponent()
	ws.CurrentPlayer = next
	ws.Turn++
	p := ws.Players[next]
	p.CP = min(p.CP+m.rules.CPPerTurn(), m.rules.MaxCP())
	ws.Players[next] = p
	ws.ActivationsRemaining = m.rules.ActivationsPerTurn()
	for _, id := range ws.UnitIDs() {
		if u := ws.Units[id]; u.PlayerID == next && u.Alive() {
			u.Activated = false
			ws.Units[id] = u
		}
	}
	ws.Effects = make(map[string]Modifiers)

	m.log.Log(CategoryStateChange, fmt.Sprintf("turn %d: %s to act", ws.Turn, next), Fields{
		"turn":   ws.Turn,
		"player": string(next),
		"cp":     p.CP,
	})
	m.startTurn(ws, next)
	return ws, nil
}

// startTurn runs the start-of-turn effects for player: skald rallies, then
// morale checks for shaken units.
func (m *Manager) startTurn(ws *GameState, player PlayerID) {
	m.skaldRally(ws, player)
	m.startOfTurnMorale(ws, player)
	m.removeDeadUnits(ws)
}
