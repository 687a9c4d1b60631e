package game

import (
	"fmt"
	"sort"
)

// GameMove is an intent from a player or agent. Only the fields the action
// needs are read.
type GameMove struct {
	ActionType  ActionType  `json:"action"`
	Player      PlayerID    `json:"player,omitempty"`   // Army building actions
	UnitID      string      `json:"unitId,omitempty"`   // Acting unit
	TargetID    string      `json:"targetId,omitempty"` // Defender
	To          HexPosition `json:"to"`
	CardID      string      `json:"cardId,omitempty"`
	TemplateIDs []string    `json:"templateIds,omitempty"`
	CardIDs     []string    `json:"cardIds,omitempty"`
}

// IsStochastic reports whether applying the move rolls dice.
func (gm GameMove) IsStochastic() bool {
	return gm.ActionType == AttackAction || gm.ActionType == ChargeAction || gm.ActionType == AutoDeployAction
}

func (gm GameMove) String() string {
	switch gm.ActionType {
	case BuildArmyAction:
		return fmt.Sprintf("%s %s %v", gm.ActionType, gm.Player, gm.TemplateIDs)
	case DraftCardsAction:
		return fmt.Sprintf("%s %s %v", gm.ActionType, gm.Player, gm.CardIDs)
	case DeployAction, MoveAction, BuildCampAction:
		return fmt.Sprintf("%s %s -> %s", gm.ActionType, gm.UnitID, gm.To)
	case UndeployAction:
		return fmt.Sprintf("%s %s", gm.ActionType, gm.UnitID)
	case AttackAction:
		return fmt.Sprintf("%s %s -> %s", gm.ActionType, gm.UnitID, gm.TargetID)
	case ChargeAction:
		return fmt.Sprintf("%s %s via %s -> %s", gm.ActionType, gm.UnitID, gm.To, gm.TargetID)
	case PlayCardAction:
		return fmt.Sprintf("%s %s on %s", gm.ActionType, gm.CardID, gm.UnitID)
	default:
		return gm.ActionType.String()
	}
}

// Play dispatches a move to the matching operation.
func (m *Manager) Play(gs *GameState, move GameMove) (*GameState, error) {
	switch move.ActionType {
	case BuildArmyAction:
		return m.BuildArmy(gs, move.Player, move.TemplateIDs)
	case DraftCardsAction:
		return m.DraftCommandCards(gs, move.Player, move.CardIDs)
	case StartDeploymentAction:
		return m.StartDeploymentPhase(gs)
	case DeployAction:
		return m.DeployUnit(gs, move.UnitID, move.To)
	case UndeployAction:
		return m.UndeployUnit(gs, move.UnitID)
	case AutoDeployAction:
		return m.AutoDeploy(gs)
	case PassDeploymentAction:
		return m.PassDeployment(gs)
	case StartBattleAction:
		return m.StartBattlePhase(gs)
	case MoveAction:
		return m.MoveUnit(gs, move.UnitID, move.To)
	case AttackAction:
		return m.ExecuteCombat(gs, move.UnitID, move.TargetID)
	case ChargeAction:
		return m.ChargeUnit(gs, move.UnitID, move.To, move.TargetID)
	case BuildCampAction:
		return m.BuildSupplyCamp(gs, move.UnitID, move.To)
	case PlayCardAction:
		return m.PlayCommandCard(gs, move.CardID, CardTarget{UnitID: move.UnitID, Position: move.To})
	case EndTurnAction:
		return m.EndTurn(gs)
	case NextSkirmishAction:
		return m.StartNextSkirmish(gs)
	default:
		return m.reject(gs, validation(CodeUnknownAction, meta("action", move.ActionType.String()), "unknown action %s", move.ActionType))
	}
}

// ValidMovePositions lists the empty hexes unitID could move to now.
func (m *Manager) ValidMovePositions(gs *GameState, unitID string) []HexPosition {
	if gs.Phase != BattlePhase {
		return nil
	}
	u, t, err := m.readyUnit(gs, unitID)
	if err != nil {
		return nil
	}
	occ := gs.occupancy()
	var out []HexPosition
	for _, p := range gs.Board.HexesInRange(u.Position, m.reach(gs, u, t)) {
		if _, taken := occ[p]; !taken {
			out = append(out, p)
		}
	}
	return out
}

// ValidAttackTargets lists the enemy ids unitID could attack now, sorted.
func (m *Manager) ValidAttackTargets(gs *GameState, unitID string) []string {
	if gs.Phase != BattlePhase {
		return nil
	}
	if _, _, err := m.readyUnit(gs, unitID); err != nil {
		return nil
	}
	var out []string
	for _, id := range gs.UnitIDs() {
		if CanAttack(gs, m.catalog, m.rules, unitID, id) == nil {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// LegalMoves enumerates the battle actions open to the acting player: every
// attack, every move, every reserve deployment, and ending the turn.
func (m *Manager) LegalMoves(gs *GameState) []GameMove {
	if gs.Phase != BattlePhase {
		return nil
	}
	var moves []GameMove
	for _, u := range gs.PlayerUnits(gs.CurrentPlayer) {
		for _, target := range m.ValidAttackTargets(gs, u.ID) {
			moves = append(moves, GameMove{ActionType: AttackAction, UnitID: u.ID, TargetID: target})
		}
		for _, p := range m.ValidMovePositions(gs, u.ID) {
			moves = append(moves, GameMove{ActionType: MoveAction, UnitID: u.ID, To: p})
		}
		if u.Alive() && u.Placement == InReserve && gs.ActivationsRemaining > 0 {
			for _, p := range gs.DeploymentZone(u.PlayerID, m.rules.DeploymentRows()) {
				if _, taken := gs.UnitAt(p); !taken {
					moves = append(moves, GameMove{ActionType: DeployAction, UnitID: u.ID, To: p})
				}
			}
		}
	}
	return append(moves, GameMove{ActionType: EndTurnAction})
}
