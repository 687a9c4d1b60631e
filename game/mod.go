package game

// Evaluate scores a snapshot between -1 and 1 from player's point of view;
// positive favours player.
type Evaluate func(gs *GameState, player PlayerID, catalog *Catalog) float64
