package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedDice replays d6 faces in order, wrapping around.
type scriptedDice struct {
	faces []int
	next  int
}

func dice(faces ...int) *scriptedDice {
	return &scriptedDice{faces: faces}
}

func (d *scriptedDice) Intn(n int) int {
	if len(d.faces) == 0 {
		return 0
	}
	f := d.faces[d.next%len(d.faces)]
	d.next++
	return (f - 1) % n
}

func (d *scriptedDice) used() int {
	return d.next
}

type recordingSink struct {
	entries []Category
}

func (s *recordingSink) Log(c Category, _ string, _ Fields) {
	s.entries = append(s.entries, c)
}

func (s *recordingSink) count(c Category) int {
	n := 0
	for _, e := range s.entries {
		if e == c {
			n++
		}
	}
	return n
}

func newTestManager(faces ...int) *Manager {
	return NewManager(NewStandardRules(), DefaultCatalog(), WithRoller(dice(faces...)))
}

// battleState returns an empty battle on a featureless board with player1
// to act.
func battleState(m *Manager) *GameState {
	gs := NewGameState(m.rules)
	gs.Phase = BattlePhase
	gs.Terrain = map[HexPosition]string{}
	return gs
}

// put deploys a fresh unit directly onto the board.
func put(t *testing.T, m *Manager, gs *GameState, id, template string, player PlayerID, pos HexPosition) Unit {
	t.Helper()
	tmpl, ok := m.catalog.Unit(template)
	require.True(t, ok, "template %s should exist", template)
	u := Unit{
		ID:         id,
		TemplateID: template,
		PlayerID:   player,
		CurrentHP:  tmpl.HP,
		Position:   pos,
		Placement:  Deployed,
		InSupply:   true,
	}
	gs.Units[id] = u
	gs.recountDeployed()
	return u
}

// reserve adds a fresh unit to a player's reserve.
func reserve(t *testing.T, m *Manager, gs *GameState, id, template string, player PlayerID) Unit {
	t.Helper()
	u := put(t, m, gs, id, template, player, HexPosition{})
	u.Placement = InReserve
	gs.Units[id] = u
	gs.recountDeployed()
	return u
}
