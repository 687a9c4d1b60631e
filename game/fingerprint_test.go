package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	m := newTestManager()
	gs := battleState(m)
	put(t, m, gs, "a", TemplateMilitia, Player1, Hex(1, 1))
	put(t, m, gs, "b", TemplateSpearmen, Player2, Hex(3, 6))

	before, err := gs.Fingerprint()
	require.NoError(t, err)
	again, err := gs.Copy().Fingerprint()
	require.NoError(t, err)
	require.Equal(t, before, again)

	moved, err := m.MoveUnit(gs, "a", Hex(1, 2))
	require.NoError(t, err)
	after, err := moved.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}
