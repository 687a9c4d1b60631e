package game

import (
	"fmt"
	"strconv"
)

const ReasonNoRemainingUnits = "no remaining units"

// Victory is the verdict on a battle. The zero value means undecided.
type Victory struct {
	Winner PlayerID `json:"winner,omitempty"`
	Loser  PlayerID `json:"loser,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

func (v Victory) Decided() bool {
	return v.Winner != ""
}

// EvaluateVictory decides a battle: a player with no living units in reserve
// or on the board loses while the opponent still has one. Only battles are
// judged; rosters are legitimately empty while armies are being built.
func EvaluateVictory(gs *GameState) Victory {
	if gs.Phase != BattlePhase {
		return Victory{}
	}
	alive := make(map[PlayerID]int, len(PlayerIDs))
	for _, u := range gs.Units {
		if u.CurrentHP > 0 && (u.Placement == Deployed || u.Placement == InReserve) {
			alive[u.PlayerID]++
		}
	}
	for _, p := range PlayerIDs {
		if alive[p] == 0 && alive[p.Opponent()] > 0 {
			return Victory{Winner: p.Opponent(), Loser: p, Reason: ReasonNoRemainingUnits}
		}
	}
	return Victory{}
}

// ConcludeBattle records a decided battle. A single battle ends the match;
// in best of three the skirmish ends unless the winner now has two.
func (m *Manager) ConcludeBattle(gs *GameState, v Victory) (*GameState, error) {
	if err := requirePhase(gs, BattlePhase); err != nil {
		return m.reject(gs, err)
	}
	if !v.Decided() {
		return m.reject(gs, validation(CodeInvalidTarget, nil, "the battle has no winner yet"))
	}
	ws := gs.Copy()
	ws.MatchScore[v.Winner]++
	score := ws.MatchScore[v.Winner]

	next, reason := MatchEndPhase, v.Reason
	if m.rules.MatchFormat() == BestOfThree {
		if score >= 2 {
			reason = fmt.Sprintf("won %d/3 skirmishes", score)
		} else {
			next = SkirmishEndPhase
		}
	}
	if err := m.transition(ws, next); err != nil {
		return m.reject(gs, err)
	}
	ws.WinReason = reason
	if next == MatchEndPhase {
		ws.Winner = v.Winner
	}
	m.log.Log(CategoryStateChange, fmt.Sprintf("%s wins: %s", v.Winner, reason), Fields{
		"winner":   string(v.Winner),
		"reason":   reason,
		"skirmish": ws.Skirmish,
		"score":    strconv.Itoa(score),
	})
	return ws, nil
}

// StartNextSkirmish rebuilds both armies into reserve and reopens deployment.
func (m *Manager) StartNextSkirmish(gs *GameState) (*GameState, error) {
	if err := requirePhase(gs, SkirmishEndPhase); err != nil {
		return m.reject(gs, err)
	}
	ws := gs.Copy()
	if err := m.transition(ws, DeploymentPhase); err != nil {
		return m.reject(gs, err)
	}
	for _, id := range PlayerIDs {
		for _, tid := range ws.Players[id].ArmyList {
			if _, ok := m.catalog.Unit(tid); !ok {
				return m.reject(gs, invariant(CodeDanglingTemplate, meta("player", string(id), "template", tid),
					"army list references unknown template %s", tid))
			}
		}
		m.musterArmy(ws, id, ws.Players[id].ArmyList)
		p := ws.Players[id]
		p.CP = m.rules.CPPerTurn()
		ws.Players[id] = p
	}
	ws.Skirmish++
	ws.Turn = 1
	ws.CurrentPlayer = Player1
	ws.ActivationsRemaining = m.rules.ActivationsPerTurn()
	ws.Effects = make(map[string]Modifiers)
	ws.WinReason = ""
	m.log.Log(CategoryStateChange, fmt.Sprintf("skirmish %d begins", ws.Skirmish), Fields{"skirmish": ws.Skirmish})
	return ws, nil
}
