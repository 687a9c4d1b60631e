package game

import (
	"fmt"
	"strconv"
)

// DeployUnit places a reserve unit in the acting player's deployment zone.
// In battle this costs an activation and the unit cannot act again this turn.
func (m *Manager) DeployUnit(gs *GameState, unitID string, pos HexPosition) (*GameState, error) {
	m.log.Log(CategoryDeployment, "deploy requested", Fields{"unit": unitID, "position": pos.String()})
	if err := requirePhase(gs, DeploymentPhase, BattlePhase); err != nil {
		return m.reject(gs, err)
	}
	md := meta("unit", unitID, "position", pos.String())
	u, ok := gs.Units[unitID]
	if !ok {
		return m.reject(gs, validation(CodeUnitNotFound, md, "unit %s not found", unitID))
	}
	if !u.Alive() {
		return m.reject(gs, validation(CodeUnitDead, md, "unit %s is dead", unitID))
	}
	if u.Placement != InReserve {
		return m.reject(gs, validation(CodeUnitNotInReserve, md, "unit %s is not in reserve", unitID))
	}
	if u.PlayerID != gs.CurrentPlayer {
		return m.reject(gs, validation(CodeNotYourTurn, md, "unit %s does not belong to %s", unitID, gs.CurrentPlayer))
	}
	if !gs.Board.Contains(pos) {
		return m.reject(gs, validation(CodeOffBoard, md, "position %s is off the board", pos))
	}
	if !gs.InDeploymentZone(u.PlayerID, pos, m.rules.DeploymentRows()) {
		return m.reject(gs, validation(CodeOutsideZone, md, "position %s is outside the deployment zone", pos))
	}
	if occupant, taken := gs.UnitAt(pos); taken {
		md["occupant"] = occupant.ID
		return m.reject(gs, validation(CodeOccupied, md, "position %s is occupied by %s", pos, occupant.ID))
	}
	battle := gs.Phase == BattlePhase
	if battle && gs.ActivationsRemaining <= 0 {
		return m.reject(gs, validation(CodeNoActivations, md, "no activations remaining this turn"))
	}
	if limit := m.rules.MaxDeployment(); !battle && m.onBoardCount(gs, u.PlayerID) >= limit {
		md["limit"] = strconv.Itoa(limit)
		return m.reject(gs, validation(CodeDeploymentLimit, md, "at most %d units may be deployed", limit))
	}
	if _, ok := m.catalog.Unit(u.TemplateID); !ok {
		return m.reject(gs, invariant(CodeDanglingTemplate, meta("unit", unitID, "template", u.TemplateID),
			"unit %s references unknown template %s", unitID, u.TemplateID))
	}

	ws := gs.Copy()
	m.place(ws, unitID, pos)
	if battle {
		spendActivation(ws, unitID)
	}
	m.log.Log(CategoryDeployment, fmt.Sprintf("%s deployed at %s", unitID, pos), Fields{
		"unit":        unitID,
		"position":    pos.String(),
		"activations": ws.ActivationsRemaining,
	})
	return ws, nil
}

// place puts a unit on the board and refreshes counts and supply.
func (m *Manager) place(ws *GameState, unitID string, pos HexPosition) {
	u := ws.Units[unitID]
	u.Placement = Deployed
	u.Position = pos
	ws.Units[unitID] = u
	ws.recountDeployed()
	m.recomputeSupply(ws)
}

// withdraw returns a unit to reserve.
func (m *Manager) withdraw(ws *GameState, unitID string) {
	u := ws.Units[unitID]
	u.Placement = InReserve
	u.Position = HexPosition{}
	ws.Units[unitID] = u
	delete(ws.Effects, unitID)
	ws.recountDeployed()
	m.recomputeSupply(ws)
}

// UndeployUnit takes a unit back off the board during deployment.
func (m *Manager) UndeployUnit(gs *GameState, unitID string) (*GameState, error) {
	if err := requirePhase(gs, DeploymentPhase); err != nil {
		return m.reject(gs, err)
	}
	md := meta("unit", unitID)
	u, ok := gs.Units[unitID]
	if !ok {
		return m.reject(gs, validation(CodeUnitNotFound, md, "unit %s not found", unitID))
	}
	if !u.OnBoard() {
		return m.reject(gs, validation(CodeUnitNotDeployed, md, "unit %s is not deployed", unitID))
	}
	if u.PlayerID != gs.CurrentPlayer {
		return m.reject(gs, validation(CodeNotYourTurn, md, "unit %s does not belong to %s", unitID, gs.CurrentPlayer))
	}
	ws := gs.Copy()
	m.withdraw(ws, unitID)
	m.log.Log(CategoryDeployment, fmt.Sprintf("%s returned to reserve", unitID), Fields{"unit": unitID})
	return ws, nil
}

// AutoDeploy fills the acting player's free deployment slots with reserve
// units placed on shuffled zone hexes.
func (m *Manager) AutoDeploy(gs *GameState) (*GameState, error) {
	if err := requirePhase(gs, DeploymentPhase); err != nil {
		return m.reject(gs, err)
	}
	player := gs.CurrentPlayer

	var reserves []string
	for _, u := range gs.PlayerUnits(player) {
		if u.Alive() && u.Placement == InReserve {
			reserves = append(reserves, u.ID)
		}
	}
	var free []HexPosition
	for _, p := range gs.DeploymentZone(player, m.rules.DeploymentRows()) {
		if _, taken := gs.UnitAt(p); !taken {
			free = append(free, p)
		}
	}
	slots := m.rules.MaxDeployment() - m.onBoardCount(gs, player)
	n := min(len(reserves), len(free), max(slots, 0))

	ws := gs.Copy()
	shuffle(m.dice, free)
	for i := 0; i < n; i++ {
		m.place(ws, reserves[i], free[i])
	}
	m.log.Log(CategoryDeployment, fmt.Sprintf("%s auto-deployed %d units", player, n), Fields{"player": string(player), "count": n})
	return ws, nil
}

// PassDeployment hands deployment to the other player.
func (m *Manager) PassDeployment(gs *GameState) (*GameState, error) {
	if err := requirePhase(gs, DeploymentPhase); err != nil {
		return m.reject(gs, err)
	}
	ws := gs.Copy()
	ws.CurrentPlayer = gs.CurrentPlayer.Opponent()
	m.log.Log(CategoryStateChange, fmt.Sprintf("%s to deploy", ws.CurrentPlayer), Fields{"player": string(ws.CurrentPlayer)})
	return ws, nil
}

// StartBattlePhase ends deployment and opens the first battle turn for the
// acting player.
func (m *Manager) StartBattlePhase(gs *GameState) (*GameState, error) {
	if err := requirePhase(gs, DeploymentPhase); err != nil {
		return m.reject(gs, err)
	}
	ws := gs.Copy()
	if err := m.transition(ws, BattlePhase); err != nil {
		return m.reject(gs, err)
	}
	ws.ActivationsRemaining = m.rules.ActivationsPerTurn()
	m.recomputeSupply(ws)
	m.startTurn(ws, ws.CurrentPlayer)
	return ws, nil
}
