package game

// CalculateSupply recomputes InSupply for every unit.
func (m *Manager) CalculateSupply(gs *GameState) *GameState {
	ws := gs.Copy()
	m.recomputeSupply(ws)
	return ws
}

func (m *Manager) recomputeSupply(ws *GameState) {
	occ := ws.occupancy()
	for _, id := range ws.UnitIDs() {
		u := ws.Units[id]
		switch {
		case u.OnBoard():
			u.InSupply = m.traceSupply(ws, occ, u)
		case u.Placement == InReserve:
			// Reserves wait behind the lines.
			u.InSupply = true
		default:
			u.InSupply = false
		}
		ws.Units[id] = u
	}
}

// traceSupply walks outward from the unit through empty or friendly hexes
// until it reaches a supply source.
func (m *Manager) traceSupply(ws *GameState, occ map[HexPosition]Unit, u Unit) bool {
	visited := map[HexPosition]bool{u.Position: true}
	queue := []HexPosition{u.Position}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if m.isSupplySource(ws, occ, cur, u.PlayerID) {
			return true
		}
		for _, n := range cur.Neighbors() {
			if visited[n] || !ws.Board.Contains(n) {
				continue
			}
			visited[n] = true
			if other, ok := occ[n]; ok && other.PlayerID != u.PlayerID {
				continue
			}
			queue = append(queue, n)
		}
	}
	return false
}

// isSupplySource: a controlled camp, fort or city, or any hex of the
// player's own deployment rows.
func (m *Manager) isSupplySource(ws *GameState, occ map[HexPosition]Unit, p HexPosition, player PlayerID) bool {
	if tt, ok := m.catalog.Terrain(ws.TerrainAt(p)); ok && tt.SupplySource && controls(ws, occ, p, player) {
		return true
	}
	return ws.InDeploymentZone(player, p, m.rules.DeploymentRows())
}

// controls: a friendly unit stands on or next to p.
func controls(ws *GameState, occ map[HexPosition]Unit, p HexPosition, player PlayerID) bool {
	if u, ok := occ[p]; ok && u.PlayerID == player {
		return true
	}
	for _, n := range p.Neighbors() {
		if !ws.Board.Contains(n) {
			continue
		}
		if u, ok := occ[n]; ok && u.PlayerID == player {
			return true
		}
	}
	return false
}
