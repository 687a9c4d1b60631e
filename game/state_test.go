package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnitJSON(t *testing.T) {
	m := newTestManager()
	gs := battleState(m)
	put(t, m, gs, "on", TemplateMilitia, Player1, Hex(4, 4))
	reserve(t, m, gs, "off", TemplateMilitia, Player1)
	dead := put(t, m, gs, "dead", TemplateMilitia, Player2, Hex(0, 0))
	dead.CurrentHP = 0
	dead.Placement = Dead
	dead.Position = HexPosition{}
	gs.Units["dead"] = dead

	decode := func(u Unit) map[string]any {
		b, err := json.Marshal(u)
		require.NoError(t, err)
		var out map[string]any
		require.NoError(t, json.Unmarshal(b, &out))
		return out
	}

	on := decode(gs.Units["on"])
	require.Equal(t, "4,4", on["position"])
	require.Equal(t, "deployed", on["placement"])
	require.Equal(t, "on", on["id"])

	require.NotContains(t, decode(gs.Units["off"]), "position")
	require.NotContains(t, decode(gs.Units["dead"]), "position")
}

func TestOutcomeTags(t *testing.T) {
	b, err := json.Marshal([]Outcome{MassiveHit, Hit, Tie, Miss})
	require.NoError(t, err)
	require.JSONEq(t, `["massive-hit","hit","tie","miss"]`, string(b))
}
