package game

import (
	"fmt"
	"strconv"
)

// BuildArmy replaces player's roster with one reserve unit per template id.
// The total cost must fit the point limit.
func (m *Manager) BuildArmy(gs *GameState, player PlayerID, templateIDs []string) (*GameState, error) {
	m.log.Log(CategoryAction, "build army requested", Fields{"player": string(player), "templates": templateIDs})
	if err := requirePhase(gs, ArmyBuildingPhase); err != nil {
		return m.reject(gs, err)
	}
	if !player.Valid() {
		return m.reject(gs, validation(CodeUnknownPlayer, meta("player", string(player)), "unknown player %q", player))
	}
	if len(templateIDs) == 0 {
		return m.reject(gs, validation(CodeEmptyArmy, meta("player", string(player)), "an army needs at least one unit"))
	}

	total := 0
	for _, id := range templateIDs {
		t, ok := m.catalog.Unit(id)
		if !ok {
			return m.reject(gs, validation(CodeUnknownTemplate, meta("template", id), "unknown unit template %q", id))
		}
		total += t.Cost
	}
	if limit := m.rules.PointLimit(); total > limit {
		return m.reject(gs, validation(CodeOverPointLimit,
			meta("player", string(player), "cost", strconv.Itoa(total), "limit", strconv.Itoa(limit)),
			"army costs %d points, limit is %d", total, limit))
	}

	ws := gs.Copy()
	m.musterArmy(ws, player, templateIDs)
	m.log.Log(CategoryAction, fmt.Sprintf("%s built an army of %d units", player, len(templateIDs)), Fields{
		"player": string(player),
		"cost":   total,
	})
	return ws, nil
}

// musterArmy recreates player's units in reserve at full strength.
func (m *Manager) musterArmy(ws *GameState, player PlayerID, templateIDs []string) {
	for id, u := range ws.Units {
		if u.PlayerID == player {
			delete(ws.Units, id)
			delete(ws.Effects, id)
		}
	}
	for i, tid := range templateIDs {
		t, _ := m.catalog.Unit(tid)
		id := fmt.Sprintf("%s_%s_%d", player, tid, i)
		ws.Units[id] = Unit{
			ID:         id,
			TemplateID: tid,
			PlayerID:   player,
			CurrentHP:  t.HP,
			Placement:  InReserve,
			InSupply:   true,
		}
	}
	p := ws.Players[player]
	p.ArmyList = append([]string(nil), templateIDs...)
	p.DeployedUnits = 0
	ws.Players[player] = p
}

// DraftCommandCards sets the player's hand for the match.
func (m *Manager) DraftCommandCards(gs *GameState, player PlayerID, cardIDs []string) (*GameState, error) {
	if err := requirePhase(gs, ArmyBuildingPhase); err != nil {
		return m.reject(gs, err)
	}
	if !player.Valid() {
		return m.reject(gs, validation(CodeUnknownPlayer, meta("player", string(player)), "unknown player %q", player))
	}
	if limit := m.rules.MaxCommandCards(); len(cardIDs) > limit {
		return m.reject(gs, validation(CodeTooManyCards, meta("count", strconv.Itoa(len(cardIDs)), "limit", strconv.Itoa(limit)),
			"at most %d command cards may be drafted", limit))
	}
	for _, id := range cardIDs {
		if _, ok := m.catalog.Card(id); !ok {
			return m.reject(gs, validation(CodeUnknownCard, meta("card", id), "unknown command card %q", id))
		}
	}

	ws := gs.Copy()
	p := ws.Players[player]
	p.Hand = append([]string(nil), cardIDs...)
	ws.Players[player] = p
	m.log.Log(CategoryAction, fmt.Sprintf("%s drafted %d command cards", player, len(cardIDs)), Fields{"player": string(player), "cards": cardIDs})
	return ws, nil
}

// StartDeploymentPhase closes army building once both rosters exist.
func (m *Manager) StartDeploymentPhase(gs *GameState) (*GameState, error) {
	if err := requirePhase(gs, ArmyBuildingPhase); err != nil {
		return m.reject(gs, err)
	}
	for _, id := range PlayerIDs {
		if len(gs.Players[id].ArmyList) == 0 {
			return m.reject(gs, validation(CodeEmptyArmy, meta("player", string(id)), "%s has not built an army", id))
		}
	}
	ws := gs.Copy()
	if err := m.transition(ws, DeploymentPhase); err != nil {
		return m.reject(gs, err)
	}
	ws.CurrentPlayer = Player1
	return ws, nil
}
