package game

// EvaluateMaterial weighs each side's surviving units by cost scaled by
// remaining HP, normalised to [-1,1] for player.
func EvaluateMaterial(gs *GameState, player PlayerID, catalog *Catalog) float64 {
	material := make(map[PlayerID]float64, len(PlayerIDs))
	for _, u := range gs.Units {
		if !u.Alive() {
			continue
		}
		t, ok := catalog.Unit(u.TemplateID)
		if !ok || t.HP == 0 {
			continue
		}
		material[u.PlayerID] += float64(t.Cost) * float64(u.CurrentHP) / float64(t.HP)
	}
	return normalize(material[player], material[player.Opponent()])
}

// EvaluateSupply compares the share of each side's deployed units that are
// in supply and unshaken.
func EvaluateSupply(gs *GameState, player PlayerID, _ *Catalog) float64 {
	healthy := make(map[PlayerID]float64, len(PlayerIDs))
	for _, u := range gs.Units {
		if u.OnBoard() && u.InSupply && u.MoraleTokens < moraleCheckThreshold {
			healthy[u.PlayerID]++
		}
	}
	return normalize(healthy[player], healthy[player.Opponent()])
}

// EvaluatePosition blends material and supply, material counting double.
func EvaluatePosition(gs *GameState, player PlayerID, catalog *Catalog) float64 {
	return (2*EvaluateMaterial(gs, player, catalog) + EvaluateSupply(gs, player, catalog)) / 3
}

func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
