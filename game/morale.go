package game

import "fmt"

// Units with at least this many tokens test their morale each turn.
const moraleCheckThreshold = 3

// Radius within which a fallen commander shakes the enemy.
const commanderDeathRadius = 3

func (m *Manager) AddMoraleToken(gs *GameState, unitID string) *GameState {
	ws := gs.Copy()
	m.addMorale(ws, unitID)
	return ws
}

func (m *Manager) RemoveMoraleToken(gs *GameState, unitID string) *GameState {
	ws := gs.Copy()
	m.removeMorale(ws, unitID)
	return ws
}

// PerformMoraleCheck rolls a check for one unit and reports whether it held.
func (m *Manager) PerformMoraleCheck(gs *GameState, unitID string) (*GameState, bool) {
	ws := gs.Copy()
	passed := m.moraleCheck(ws, unitID)
	m.removeDeadUnits(ws)
	return ws, passed
}

func (m *Manager) ProcessStartOfTurnMoraleChecks(gs *GameState, player PlayerID) *GameState {
	ws := gs.Copy()
	m.startOfTurnMorale(ws, player)
	m.removeDeadUnits(ws)
	return ws
}

// ProcessCommanderDeath shakes enemies around at, the hex the commander fell
// on. A dead unit no longer holds its position, so the caller supplies it.
func (m *Manager) ProcessCommanderDeath(gs *GameState, commanderID string, at HexPosition) *GameState {
	ws := gs.Copy()
	if u, ok := ws.Units[commanderID]; ok {
		m.commanderDeath(ws, u, at)
	}
	return ws
}

func (m *Manager) ProcessSkaldRally(gs *GameState, player PlayerID) *GameState {
	ws := gs.Copy()
	m.skaldRally(ws, player)
	return ws
}

func (m *Manager) addMorale(ws *GameState, unitID string) {
	u, ok := ws.Units[unitID]
	if !ok || u.TemplateID == TemplateShardbearer {
		return
	}
	u.MoraleTokens++
	ws.Units[unitID] = u
}

func (m *Manager) removeMorale(ws *GameState, unitID string) {
	u, ok := ws.Units[unitID]
	if !ok || u.MoraleTokens == 0 {
		return
	}
	u.MoraleTokens--
	ws.Units[unitID] = u
}

func (m *Manager) moraleCheck(ws *GameState, unitID string) bool {
	u, ok := ws.Units[unitID]
	if !ok {
		return true
	}
	t, ok := m.catalog.Unit(u.TemplateID)
	if !ok {
		m.log.Log(CategoryError, "morale check on unit with unknown template", Fields{"unit": unitID, "template": u.TemplateID})
		return true
	}

	roll := rollD6(m.dice)
	if m.rules.MoraleCheckPasses(roll, t.Defense) {
		m.log.Log(CategoryAction, fmt.Sprintf("%s holds its nerve", unitID), Fields{"unit": unitID, "roll": roll})
		return true
	}

	if dest, ok := m.findRetreat(ws, u); ok {
		u.Position = dest
		if u.MoraleTokens > 0 {
			u.MoraleTokens--
		}
		ws.Units[unitID] = u
		m.log.Log(CategoryMovement, fmt.Sprintf("%s retreats to %s", unitID, dest), Fields{"unit": unitID, "roll": roll, "to": dest.String()})
		m.recomputeSupply(ws)
		return false
	}

	u.CurrentHP = max(u.CurrentHP-1, 0)
	ws.Units[unitID] = u
	m.log.Log(CategoryAction, fmt.Sprintf("%s breaks and suffers 1 damage", unitID), Fields{"unit": unitID, "roll": roll, "hp": u.CurrentHP})
	return false
}

// findRetreat picks an empty adjacent hex that increases the distance to the
// nearest enemy. Retreat is off under the standard rules.
func (m *Manager) findRetreat(ws *GameState, u Unit) (HexPosition, bool) {
	if !m.rules.RetreatOnFailedMorale() || !u.OnBoard() {
		return HexPosition{}, false
	}
	occ := ws.occupancy()
	nearest := func(p HexPosition) int {
		best := -1
		for _, other := range occ {
			if other.PlayerID == u.PlayerID {
				continue
			}
			if d := Distance(p, other.Position); best < 0 || d < best {
				best = d
			}
		}
		return best
	}
	current := nearest(u.Position)
	if current < 0 {
		return HexPosition{}, false
	}
	for _, n := range u.Position.Neighbors() {
		if !ws.Board.Contains(n) {
			continue
		}
		if _, taken := occ[n]; taken {
			continue
		}
		if nearest(n) > current {
			return n, true
		}
	}
	return HexPosition{}, false
}

func (m *Manager) startOfTurnMorale(ws *GameState, player PlayerID) {
	for _, id := range ws.UnitIDs() {
		u := ws.Units[id]
		if u.PlayerID != player || !u.OnBoard() || u.MoraleTokens < moraleCheckThreshold {
			continue
		}
		if !m.moraleCheck(ws, id) {
			failed := ws.Units[id]
			failed.Activated = true
			ws.Units[id] = failed
		}
	}
}

// commanderDeath adds a token to every deployed enemy within range of where
// the commander fell.
func (m *Manager) commanderDeath(ws *GameState, commander Unit, at HexPosition) {
	for _, id := range ws.UnitIDs() {
		u := ws.Units[id]
		if u.PlayerID == commander.PlayerID || !u.OnBoard() {
			continue
		}
		if Distance(u.Position, at) <= commanderDeathRadius {
			m.addMorale(ws, id)
		}
	}
	m.log.Log(CategoryAction, fmt.Sprintf("commander %s has fallen", commander.ID), Fields{"unit": commander.ID, "position": at.String()})
}

// skaldRally removes one token from each friendly unit adjacent to one of
// the player's skalds.
func (m *Manager) skaldRally(ws *GameState, player PlayerID) {
	for _, sid := range ws.UnitIDs() {
		skald := ws.Units[sid]
		if skald.PlayerID != player || skald.TemplateID != TemplateSkald || !skald.OnBoard() {
			continue
		}
		for _, id := range ws.UnitIDs() {
			u := ws.Units[id]
			if id == sid || u.PlayerID != player || !u.OnBoard() || u.MoraleTokens == 0 {
				continue
			}
			if Distance(u.Position, skald.Position) == 1 {
				m.removeMorale(ws, id)
			}
		}
	}
}
