package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"towers/game"
)

func TestPickArmy(t *testing.T) {
	catalog := game.DefaultCatalog()
	for seed := uint64(1); seed <= 5; seed++ {
		army := PickArmy(catalog, 100, game.NewRoller(seed))
		require.NotEmpty(t, army)

		spent := 0
		for _, id := range army {
			tmpl, ok := catalog.Unit(id)
			require.True(t, ok)
			spent += tmpl.Cost
		}
		require.LessOrEqual(t, spent, 100)
		require.Less(t, 100-spent, 4, "the cheapest template should no longer fit")
	}

	require.Empty(t, PickArmy(catalog, 3, game.NewRoller(1)))
	require.Equal(t, PickArmy(catalog, 100, game.NewRoller(9)), PickArmy(catalog, 100, game.NewRoller(9)))
}

func TestPickCards(t *testing.T) {
	catalog := game.DefaultCatalog()
	hand := PickCards(catalog, 5, game.NewRoller(2))
	require.Len(t, hand, 5)

	seen := map[string]bool{}
	for _, id := range hand {
		_, ok := catalog.Card(id)
		require.True(t, ok)
		require.False(t, seen[id], "card %s drawn twice", id)
		seen[id] = true
	}

	require.Len(t, PickCards(catalog, 50, game.NewRoller(2)), len(catalog.Cards()))
}
