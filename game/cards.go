package game

import (
	"fmt"
	"strconv"

	"towers/utils"
)

// CardTarget is what a command card is played on. Deployment cards also use
// Position.
type CardTarget struct {
	UnitID   string
	Position HexPosition
}

// PlayCommandCard spends CP to play a card from the acting player's hand.
// Playing a card does not use an activation.
func (m *Manager) PlayCommandCard(gs *GameState, cardID string, target CardTarget) (*GameState, error) {
	m.log.Log(CategoryAction, "command card requested", Fields{"card": cardID, "target": target.UnitID})
	if err := requirePhase(gs, BattlePhase); err != nil {
		return m.reject(gs, err)
	}
	player := gs.Players[gs.CurrentPlayer]
	md := meta("card", cardID, "player", string(player.ID), "target", target.UnitID)
	card, ok := m.catalog.Card(cardID)
	if !ok {
		return m.reject(gs, validation(CodeUnknownCard, md, "unknown command card %q", cardID))
	}
	if !utils.Contains(player.Hand, cardID) {
		return m.reject(gs, validation(CodeCardNotInHand, md, "%s is not in %s's hand", card.Name, player.ID))
	}
	if player.CP < card.CPCost {
		md["cp"] = strconv.Itoa(player.CP)
		md["cost"] = strconv.Itoa(card.CPCost)
		return m.reject(gs, validation(CodeInsufficientCP, md, "%s costs %d CP, %s has %d", card.Name, card.CPCost, player.ID, player.CP))
	}
	u, ok := gs.Units[target.UnitID]
	if !ok {
		return m.reject(gs, validation(CodeUnitNotFound, md, "unit %s not found", target.UnitID))
	}
	if u.PlayerID != player.ID || !u.Alive() {
		return m.reject(gs, validation(CodeInvalidTarget, md, "%s must target a living friendly unit", card.Name))
	}
	t, ok := m.catalog.Unit(u.TemplateID)
	if !ok {
		return m.reject(gs, invariant(CodeDanglingTemplate, meta("unit", u.ID, "template", u.TemplateID),
			"unit %s references unknown template %s", u.ID, u.TemplateID))
	}
	if err := m.checkCardTarget(gs, card, u, t, target); err != nil {
		return m.reject(gs, err)
	}

	ws := gs.Copy()
	m.applyCard(ws, card, u, target)
	p := ws.Players[player.ID]
	p.CP -= card.CPCost
	p.Hand = utils.Remove(p.Hand, cardID)
	ws.Players[player.ID] = p
	m.log.Log(CategoryAction, fmt.Sprintf("%s played %s on %s", player.ID, card.Name, u.ID), Fields{
		"card":   cardID,
		"effect": string(card.Effect),
		"target": u.ID,
		"cp":     p.CP,
	})
	return ws, nil
}

func (m *Manager) checkCardTarget(gs *GameState, card CommandCard, u Unit, t UnitTemplate, target CardTarget) *Error {
	md := meta("card", card.ID, "target", u.ID)
	needOnBoard := func() *Error {
		if !u.OnBoard() {
			return validation(CodeUnitNotDeployed, md, "%s must target a deployed unit", card.Name)
		}
		return nil
	}
	needReserve := func() *Error {
		if u.Placement != InReserve {
			return validation(CodeUnitNotInReserve, md, "%s must target a reserve unit", card.Name)
		}
		if !gs.Board.Contains(target.Position) {
			return validation(CodeOffBoard, md, "position %s is off the board", target.Position)
		}
		if _, taken := gs.UnitAt(target.Position); taken {
			return validation(CodeOccupied, md, "position %s is occupied", target.Position)
		}
		return nil
	}

	switch card.Effect {
	case EffectMovementBonus, EffectFlankBonus, EffectDefenseBonus, EffectMoraleBoost, EffectSaveUnit:
		return needOnBoard()
	case EffectAttackBonus:
		if err := needOnBoard(); err != nil {
			return err
		}
		if t.Ranged <= 0 {
			return validation(CodeInvalidTarget, md, "%s needs a ranged unit", card.Name)
		}
	case EffectRangedDefense:
		if err := needOnBoard(); err != nil {
			return err
		}
		if !t.HasKeyword(KeywordInfantry) {
			return validation(CodeInvalidTarget, md, "%s needs an infantry unit", card.Name)
		}
	case EffectDoubleShot:
		if err := needOnBoard(); err != nil {
			return err
		}
		if !t.HasKeyword(KeywordSiege) {
			return validation(CodeInvalidTarget, md, "%s needs a siege unit", card.Name)
		}
	case EffectDeployMilitia:
		if t.ID != TemplateMilitia {
			return validation(CodeInvalidTarget, md, "%s needs a militia unit", card.Name)
		}
		if err := needReserve(); err != nil {
			return err
		}
		occ := gs.occupancy()
		tt, ok := m.catalog.Terrain(gs.TerrainAt(target.Position))
		if !ok || !tt.SupplySource || !controls(gs, occ, target.Position, u.PlayerID) {
			return validation(CodeInvalidTarget, md, "%s must deploy onto a controlled supply source", card.Name)
		}
	case EffectAmbushDeploy:
		if !t.HasKeyword(KeywordSkirmisher) {
			return validation(CodeInvalidTarget, md, "%s needs a skirmisher unit", card.Name)
		}
		if err := needReserve(); err != nil {
			return err
		}
		if !gs.InDeploymentZone(u.PlayerID, target.Position, m.rules.DeploymentRows()) {
			return validation(CodeOutsideZone, md, "position %s is outside the deployment zone", target.Position)
		}
	default:
		return invariant(CodeUnknownCard, md, "command card %s has unknown effect %q", card.ID, card.Effect)
	}
	return nil
}

func (m *Manager) applyCard(ws *GameState, card CommandCard, u Unit, target CardTarget) {
	switch card.Effect {
	case EffectMovementBonus:
		ws.addEffect(u.ID, ModMovement, 2)
	case EffectAttackBonus:
		ws.addEffect(u.ID, ModAttack, 3)
	case EffectFlankBonus:
		ws.addEffect(u.ID, ModFlankAttack, 2)
	case EffectRangedDefense:
		ws.addEffect(u.ID, ModRangedDefense, 3)
	case EffectDoubleShot:
		ws.addEffect(u.ID, ModExtraAttack, 1)
	case EffectDefenseBonus:
		for _, id := range ws.UnitIDs() {
			other := ws.Units[id]
			if other.PlayerID == u.PlayerID && other.OnBoard() && Distance(other.Position, u.Position) == 1 {
				ws.addEffect(id, ModDefense, 2)
			}
		}
	case EffectMoraleBoost:
		for _, id := range ws.UnitIDs() {
			other := ws.Units[id]
			if other.PlayerID == u.PlayerID && other.OnBoard() && Distance(other.Position, u.Position) <= 2 {
				m.removeMorale(ws, id)
			}
		}
	case EffectDeployMilitia, EffectAmbushDeploy:
		m.place(ws, u.ID, target.Position)
	case EffectSaveUnit:
		m.withdraw(ws, u.ID)
	}
}
