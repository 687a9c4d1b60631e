package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// surround fills every neighbour of center with player's militia except the
// positions listed in skip.
func surround(t *testing.T, m *Manager, gs *GameState, center HexPosition, player PlayerID, skip ...HexPosition) {
	t.Helper()
	for i, n := range center.Neighbors() {
		if containsHex(skip, n) {
			continue
		}
		put(t, m, gs, "ring_"+string(rune('a'+i)), TemplateMilitia, player, n)
	}
}

func containsHex(ps []HexPosition, p HexPosition) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func TestCalculateSupply(t *testing.T) {
	m := newTestManager()

	t.Run("open board reaches the deployment edge", func(t *testing.T) {
		gs := battleState(m)
		put(t, m, gs, "u", TemplateMilitia, Player1, Hex(5, 5))
		out := m.CalculateSupply(gs)
		require.True(t, out.Units["u"].InSupply)
	})

	t.Run("enemies all around cut supply", func(t *testing.T) {
		gs := battleState(m)
		put(t, m, gs, "u", TemplateMilitia, Player1, Hex(5, 5))
		surround(t, m, gs, Hex(5, 5), Player2)

		out := m.CalculateSupply(gs)
		require.False(t, out.Units["u"].InSupply)
		require.True(t, gs.Units["u"].InSupply, "input snapshot must not change")
	})

	t.Run("a friendly link keeps the chain open until it is lost", func(t *testing.T) {
		gs := battleState(m)
		link := Hex(5, 4)
		put(t, m, gs, "u", TemplateMilitia, Player1, Hex(5, 5))
		surround(t, m, gs, Hex(5, 5), Player2, link)
		put(t, m, gs, "link", TemplateMilitia, Player1, link)

		out := m.CalculateSupply(gs)
		require.True(t, out.Units["u"].InSupply)
		require.True(t, out.Units["link"].InSupply)

		lost := out.Copy()
		l := lost.Units["link"]
		l.CurrentHP = 0
		lost.Units["link"] = l
		put(t, m, lost, "blocker", TemplateMilitia, Player2, link)

		out = m.CalculateSupply(lost)
		require.False(t, out.Units["u"].InSupply)
	})

	t.Run("standing on a supply camp supplies the unit", func(t *testing.T) {
		gs := battleState(m)
		gs.Terrain[Hex(5, 5)] = TerrainSupplyCamp
		put(t, m, gs, "u", TemplateMilitia, Player1, Hex(5, 5))
		surround(t, m, gs, Hex(5, 5), Player2)

		out := m.CalculateSupply(gs)
		require.True(t, out.Units["u"].InSupply)
	})

	t.Run("inside the deployment rows", func(t *testing.T) {
		gs := battleState(m)
		put(t, m, gs, "u", TemplateMilitia, Player1, Hex(5, 1))
		surround(t, m, gs, Hex(5, 1), Player2)

		out := m.CalculateSupply(gs)
		require.True(t, out.Units["u"].InSupply)
	})

	t.Run("is idempotent", func(t *testing.T) {
		gs := battleState(m)
		put(t, m, gs, "u", TemplateMilitia, Player1, Hex(5, 5))
		surround(t, m, gs, Hex(5, 5), Player2)
		reserve(t, m, gs, "r", TemplateMilitia, Player1)

		once := m.CalculateSupply(gs)
		twice := m.CalculateSupply(once)
		require.Equal(t, once, twice)
		require.True(t, once.Units["r"].InSupply)
	})
}
