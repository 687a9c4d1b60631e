package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	board := Board{Width: 10, Height: 8}

	t.Run("zero to itself and symmetric", func(t *testing.T) {
		for _, a := range board.Positions() {
			require.Equal(t, 0, Distance(a, a))
			for _, b := range board.Positions() {
				require.Equal(t, Distance(a, b), Distance(b, a), "distance %s-%s should be symmetric", a, b)
			}
		}
	})

	t.Run("satisfies the triangle inequality", func(t *testing.T) {
		ps := board.Positions()
		for _, a := range ps {
			for _, b := range ps {
				for _, c := range ps[:12] {
					require.LessOrEqual(t, Distance(a, b), Distance(a, c)+Distance(c, b))
				}
			}
		}
	})

	t.Run("known values", func(t *testing.T) {
		require.Equal(t, 3, Distance(Hex(0, 0), Hex(3, 0)))
		require.Equal(t, 5, Distance(Hex(0, 0), Hex(0, 5)))
		require.Equal(t, 1, Distance(Hex(6, 5), Hex(5, 5)))
	})

	t.Run("neighbour offsets are axial", func(t *testing.T) {
		// The fixed neighbour offsets are not all one step apart under the
		// offset distance.
		require.Equal(t, 2, Distance(Hex(0, 0), Hex(-1, 1)))
	})
}

func TestNeighbors(t *testing.T) {
	got := Hex(2, 3).Neighbors()
	require.Equal(t, [6]HexPosition{
		{Q: 3, R: 3}, {Q: 2, R: 4}, {Q: 1, R: 4},
		{Q: 1, R: 3}, {Q: 2, R: 2}, {Q: 3, R: 2},
	}, got)
}

func TestFloorDiv(t *testing.T) {
	require.Equal(t, -1, floorDiv(-1, 2))
	require.Equal(t, -2, floorDiv(-3, 2))
	require.Equal(t, 1, floorDiv(3, 2))
	require.Equal(t, 0, floorDiv(0, 2))
}

func TestBoard(t *testing.T) {
	b := Board{Width: 10, Height: 8}
	require.True(t, b.Contains(Hex(0, 0)))
	require.True(t, b.Contains(Hex(9, 7)))
	require.False(t, b.Contains(Hex(10, 0)))
	require.False(t, b.Contains(Hex(0, -1)))
	require.Len(t, b.Positions(), 80)

	t.Run("hexes in range include the centre", func(t *testing.T) {
		in := b.HexesInRange(Hex(0, 0), 0)
		require.Equal(t, []HexPosition{Hex(0, 0)}, in)
		for _, p := range b.HexesInRange(Hex(4, 4), 2) {
			require.LessOrEqual(t, Distance(Hex(4, 4), p), 2)
		}
	})
}

func TestLineBetween(t *testing.T) {
	require.Equal(t, []HexPosition{Hex(0, 1), Hex(0, 2), Hex(0, 3)}, LineBetween(Hex(0, 0), Hex(0, 4)))
	require.Empty(t, LineBetween(Hex(6, 5), Hex(5, 5)))
}

func TestHexPositionKeysJSONMaps(t *testing.T) {
	in := map[HexPosition]string{Hex(3, 4): TerrainForest}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"3,4":"forest"}`, string(b))

	var out map[HexPosition]string
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, in, out)

	var p HexPosition
	require.Error(t, p.UnmarshalText([]byte("3")))
}
