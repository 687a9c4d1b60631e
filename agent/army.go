package agent

import (
	"towers/game"
)

// PickArmy spends up to limit points on templates drawn at random from the
// ones still affordable. It stops when nothing fits.
func PickArmy(catalog *game.Catalog, limit int, roller game.Roller) []string {
	army := []string{}
	budget := limit
	for {
		var affordable []string
		for _, t := range catalog.Units() {
			if t.Cost > 0 && t.Cost <= budget {
				affordable = append(affordable, t.ID)
			}
		}
		if len(affordable) == 0 {
			return army
		}
		pick := affordable[roller.Intn(len(affordable))]
		t, _ := catalog.Unit(pick)
		army = append(army, pick)
		budget -= t.Cost
	}
}

// PickCards draws n distinct command cards at random.
func PickCards(catalog *game.Catalog, n int, roller game.Roller) []string {
	var pool []string
	for _, c := range catalog.Cards() {
		pool = append(pool, c.ID)
	}
	hand := []string{}
	for len(hand) < n && len(pool) > 0 {
		i := roller.Intn(len(pool))
		hand = append(hand, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return hand
}
