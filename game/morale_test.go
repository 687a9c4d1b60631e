package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoraleTokens(t *testing.T) {
	m := newTestManager()
	gs := battleState(m)
	put(t, m, gs, "mil", TemplateMilitia, Player1, Hex(1, 1))
	put(t, m, gs, "shard", TemplateShardbearer, Player1, Hex(2, 1))

	t.Run("add increments", func(t *testing.T) {
		out := m.AddMoraleToken(gs, "mil")
		require.Equal(t, 1, out.Units["mil"].MoraleTokens)
		require.Equal(t, 0, gs.Units["mil"].MoraleTokens)
	})

	t.Run("shardbearer ignores tokens", func(t *testing.T) {
		out := m.AddMoraleToken(gs, "shard")
		require.Equal(t, 0, out.Units["shard"].MoraleTokens)
	})

	t.Run("remove floors at zero", func(t *testing.T) {
		out := m.RemoveMoraleToken(gs, "mil")
		require.Equal(t, 0, out.Units["mil"].MoraleTokens)

		out = m.RemoveMoraleToken(m.AddMoraleToken(gs, "mil"), "mil")
		require.Equal(t, 0, out.Units["mil"].MoraleTokens)
	})

	t.Run("unknown unit is a no-op", func(t *testing.T) {
		out := m.AddMoraleToken(gs, "nobody")
		require.Equal(t, gs, out)
	})
}

func TestPerformMoraleCheck(t *testing.T) {
	t.Run("roll plus half defense reaching four passes", func(t *testing.T) {
		m := newTestManager(3)
		gs := battleState(m)
		put(t, m, gs, "mil", TemplateMilitia, Player1, Hex(1, 1))

		out, passed := m.PerformMoraleCheck(gs, "mil")
		require.True(t, passed)
		require.Equal(t, 2, out.Units["mil"].CurrentHP)
	})

	t.Run("failure without a retreat costs a hit point", func(t *testing.T) {
		m := newTestManager(2)
		gs := battleState(m)
		put(t, m, gs, "mil", TemplateMilitia, Player1, Hex(1, 1))

		out, passed := m.PerformMoraleCheck(gs, "mil")
		require.False(t, passed)
		require.Equal(t, 1, out.Units["mil"].CurrentHP)
		require.Equal(t, Hex(1, 1), out.Units["mil"].Position)
	})

	t.Run("failure can destroy the unit", func(t *testing.T) {
		m := newTestManager(1)
		gs := battleState(m)
		u := put(t, m, gs, "mil", TemplateMilitia, Player1, Hex(1, 1))
		u.CurrentHP = 1
		gs.Units["mil"] = u

		out, _ := m.PerformMoraleCheck(gs, "mil")
		require.Equal(t, Dead, out.Units["mil"].Placement)
		require.Equal(t, 0, out.Players[Player1].DeployedUnits)
	})

	t.Run("retreat when enabled", func(t *testing.T) {
		rules := NewStandardRules()
		rules.RetreatOnMorale = true
		m := NewManager(rules, DefaultCatalog(), WithRoller(dice(1)))
		gs := battleState(m)
		u := put(t, m, gs, "mil", TemplateMilitia, Player1, Hex(4, 4))
		u.MoraleTokens = 3
		gs.Units["mil"] = u
		put(t, m, gs, "enemy", TemplateMilitia, Player2, Hex(4, 5))

		out, passed := m.PerformMoraleCheck(gs, "mil")
		require.False(t, passed)
		moved := out.Units["mil"]
		require.NotEqual(t, Hex(4, 4), moved.Position)
		require.Greater(t, Distance(moved.Position, Hex(4, 5)), 1)
		require.Equal(t, 2, moved.MoraleTokens)
		require.Equal(t, 2, moved.CurrentHP)
	})
}

func TestStartOfTurnMoraleChecks(t *testing.T) {
	d := dice(1)
	m := NewManager(NewStandardRules(), DefaultCatalog(), WithRoller(d))
	gs := battleState(m)
	shaken := put(t, m, gs, "shaken", TemplateSpearmen, Player1, Hex(1, 1))
	shaken.MoraleTokens = 3
	gs.Units["shaken"] = shaken
	steady := put(t, m, gs, "steady", TemplateSpearmen, Player1, Hex(3, 1))
	steady.MoraleTokens = 2
	gs.Units["steady"] = steady
	enemy := put(t, m, gs, "enemy", TemplateSpearmen, Player2, Hex(3, 6))
	enemy.MoraleTokens = 5
	gs.Units["enemy"] = enemy

	out := m.ProcessStartOfTurnMoraleChecks(gs, Player1)
	require.Equal(t, 1, d.used(), "only the shaken unit rolls")
	require.True(t, out.Units["shaken"].Activated)
	require.Equal(t, 2, out.Units["shaken"].CurrentHP)
	require.False(t, out.Units["steady"].Activated)
	require.Equal(t, 3, out.Units["enemy"].CurrentHP)
}

func TestCommanderDeath(t *testing.T) {
	m := newTestManager(6, 1)
	gs := battleState(m)
	put(t, m, gs, "shard", TemplateShardbearer, Player1, Hex(4, 3))
	cmd := put(t, m, gs, "cmd", "commander", Player2, Hex(4, 4))
	cmd.CurrentHP = 1
	gs.Units["cmd"] = cmd
	put(t, m, gs, "near", TemplateMilitia, Player1, Hex(5, 3))
	put(t, m, gs, "far", TemplateMilitia, Player1, Hex(9, 0))
	put(t, m, gs, "ally", TemplateMilitia, Player2, Hex(4, 5))

	out, err := m.ExecuteCombat(gs, "shard", "cmd")
	require.NoError(t, err)
	require.Equal(t, Dead, out.Units["cmd"].Placement)
	require.Equal(t, 1, out.Units["near"].MoraleTokens)
	require.Equal(t, 0, out.Units["far"].MoraleTokens)
	require.Equal(t, 0, out.Units["ally"].MoraleTokens)
	require.Equal(t, 0, out.Units["shard"].MoraleTokens, "shardbearer is immune")
}

func TestProcessCommanderDeath(t *testing.T) {
	m := newTestManager()
	gs := battleState(m)
	cmd := put(t, m, gs, "cmd", "commander", Player2, Hex(8, 6))
	put(t, m, gs, "near", TemplateMilitia, Player1, Hex(8, 5))
	put(t, m, gs, "origin", TemplateMilitia, Player1, Hex(0, 0))

	cmd.CurrentHP = 0
	gs.Units["cmd"] = cmd
	m.removeDeadUnits(gs)
	require.Equal(t, Dead, gs.Units["cmd"].Placement)
	for _, id := range []string{"near", "origin"} {
		u := gs.Units[id]
		u.MoraleTokens = 0
		gs.Units[id] = u
	}

	out := m.ProcessCommanderDeath(gs, "cmd", Hex(8, 6))
	require.Equal(t, 1, out.Units["near"].MoraleTokens)
	require.Equal(t, 0, out.Units["origin"].MoraleTokens)
	require.Equal(t, 0, gs.Units["near"].MoraleTokens, "input snapshot must not change")
}

func TestSkaldRally(t *testing.T) {
	m := newTestManager()
	gs := battleState(m)
	put(t, m, gs, "skald", TemplateSkald, Player1, Hex(4, 4))
	next := put(t, m, gs, "next", TemplateMilitia, Player1, Hex(4, 5))
	next.MoraleTokens = 2
	gs.Units["next"] = next
	away := put(t, m, gs, "away", TemplateMilitia, Player1, Hex(7, 7))
	away.MoraleTokens = 2
	gs.Units["away"] = away

	out := m.ProcessSkaldRally(gs, Player1)
	require.Equal(t, 1, out.Units["next"].MoraleTokens)
	require.Equal(t, 2, out.Units["away"].MoraleTokens)
}
