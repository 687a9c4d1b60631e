package agent

import (
	"fmt"

	"towers/game"
)

type Option func(g *Greedy)

// WithDoctrine replaces the default scoring doctrine. The doctrine must be
// compiled.
func WithDoctrine(d *Doctrine) Option {
	return func(g *Greedy) {
		if d != nil {
			g.doctrine = d
		}
	}
}

func WithSink(sink game.Sink) Option {
	return func(g *Greedy) {
		if sink != nil {
			g.log = sink
		}
	}
}

// Greedy takes the best-scoring attack, else the best-scoring move that
// beats staying put, else deploys a reserve, else ends the turn. It never
// plays command cards.
type Greedy struct {
	m        *game.Manager
	doctrine *Doctrine
	log      game.Sink
}

func NewGreedy(m *game.Manager, options ...Option) *Greedy {
	d, err := LoadDoctrine("default")
	if err != nil {
		panic(err)
	}
	g := &Greedy{m: m, doctrine: d, log: game.NopSink{}}
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *Greedy) Doctrine() string {
	return g.doctrine.Name
}

func (g *Greedy) FindMove(gs *game.GameState) game.GameMove {
	if gs.Phase != game.BattlePhase || gs.ActivationsRemaining <= 0 {
		return endTurn
	}
	if move, score, ok := g.bestAttack(gs); ok {
		g.chose(gs, move, score)
		return move
	}
	if move, score, ok := g.bestMove(gs); ok {
		g.chose(gs, move, score)
		return move
	}
	if move, ok := g.bestDeployment(gs); ok {
		g.chose(gs, move, 0)
		return move
	}
	g.chose(gs, endTurn, 0)
	return endTurn
}

func (g *Greedy) chose(gs *game.GameState, move game.GameMove, score float64) {
	g.log.Log(game.CategoryAI, fmt.Sprintf("%s chose %s", gs.CurrentPlayer, move), game.Fields{
		"player":   string(gs.CurrentPlayer),
		"doctrine": g.doctrine.Name,
		"move":     move.String(),
		"score":    score,
	})
}

func (g *Greedy) bestAttack(gs *game.GameState) (game.GameMove, float64, bool) {
	var best game.GameMove
	bestScore, found := 0.0, false
	for _, u := range g.readyUnits(gs) {
		for _, target := range g.m.ValidAttackTargets(gs, u.ID) {
			p, err := g.m.PreviewCombat(gs, u.ID, target)
			if err != nil {
				continue
			}
			env := AttackEnv{
				Attacker: g.view(u),
				Target:   g.view(gs.Units[target]),
				Distance: game.Distance(u.Position, gs.Units[target].Position),
				Ranged:   p.Input.Ranged,
				Flanked:  game.IsFlanked(gs, gs.Units[target]),
				Attack:   p.Attack,
				Defense:  p.Defense,
				Odds:     p.Attack - p.Defense,
			}
			score, err := g.doctrine.scoreAttack(env)
			if err != nil {
				g.fail(err)
				continue
			}
			if score < g.doctrine.MinAttack {
				continue
			}
			if !found || score > bestScore {
				best = game.GameMove{ActionType: game.AttackAction, UnitID: u.ID, TargetID: target}
				bestScore, found = score, true
			}
		}
	}
	return best, bestScore, found
}

func (g *Greedy) bestMove(gs *game.GameState) (game.GameMove, float64, bool) {
	goals := g.goals(gs)
	var best game.GameMove
	bestGain, bestScore, found := 0.0, 0.0, false
	for _, u := range g.readyUnits(gs) {
		stay, err := g.doctrine.scoreMove(g.moveEnv(gs, u, u.Position, goals))
		if err != nil {
			g.fail(err)
			continue
		}
		for _, p := range g.m.ValidMovePositions(gs, u.ID) {
			score, err := g.doctrine.scoreMove(g.moveEnv(gs, u, p, goals))
			if err != nil {
				g.fail(err)
				continue
			}
			if gain := score - stay; gain > 0 && (!found || gain > bestGain) {
				best = game.GameMove{ActionType: game.MoveAction, UnitID: u.ID, To: p}
				bestGain, bestScore, found = gain, score, true
			}
		}
	}
	return best, bestScore, found
}

// bestDeployment brings a reserve unit onto the free zone hex closest to
// the enemy.
func (g *Greedy) bestDeployment(gs *game.GameState) (game.GameMove, bool) {
	rows := g.m.Rules().DeploymentRows()
	goals := g.goals(gs)
	for _, u := range gs.PlayerUnits(gs.CurrentPlayer) {
		if !u.Alive() || u.Placement != game.InReserve {
			continue
		}
		var best game.HexPosition
		bestDist := -1
		for _, p := range gs.DeploymentZone(u.PlayerID, rows) {
			if _, taken := gs.UnitAt(p); taken {
				continue
			}
			if d := nearest(p, goals); bestDist < 0 || d < bestDist {
				best, bestDist = p, d
			}
		}
		if bestDist >= 0 {
			return game.GameMove{ActionType: game.DeployAction, UnitID: u.ID, To: best}, true
		}
	}
	return game.GameMove{}, false
}

func (g *Greedy) moveEnv(gs *game.GameState, u game.Unit, to game.HexPosition, goals []game.HexPosition) MoveEnv {
	terrain := gs.TerrainAt(to)
	tt, _ := g.m.Catalog().Terrain(terrain)
	center := game.Hex(gs.Board.Width/2, gs.Board.Height/2)
	return MoveEnv{
		Unit:         g.view(u),
		Steps:        game.Distance(u.Position, to),
		NearestEnemy: nearest(to, goals),
		Terrain:      terrain,
		DefenseBonus: tt.DefenseBonus,
		SupplySource: tt.SupplySource,
		Center:       game.Distance(to, center),
	}
}

// goals are the enemy positions to close on, or the board centre when no
// enemy is on the board.
func (g *Greedy) goals(gs *game.GameState) []game.HexPosition {
	var goals []game.HexPosition
	for _, u := range gs.PlayerUnits(gs.CurrentPlayer.Opponent()) {
		if u.OnBoard() {
			goals = append(goals, u.Position)
		}
	}
	if len(goals) == 0 {
		goals = append(goals, game.Hex(gs.Board.Width/2, gs.Board.Height/2))
	}
	return goals
}

func (g *Greedy) readyUnits(gs *game.GameState) []game.Unit {
	var ready []game.Unit
	for _, u := range gs.PlayerUnits(gs.CurrentPlayer) {
		if u.OnBoard() && !u.Activated {
			ready = append(ready, u)
		}
	}
	return ready
}

func (g *Greedy) view(u game.Unit) UnitView {
	t, _ := g.m.Catalog().Unit(u.TemplateID)
	return UnitView{
		ID:       u.ID,
		Template: u.TemplateID,
		HP:       u.CurrentHP,
		MaxHP:    t.HP,
		Cost:     t.Cost,
		Move:     t.Move,
		Melee:    t.Melee,
		Ranged:   t.Ranged,
		Defense:  t.Defense,
		Morale:   u.MoraleTokens,
		InSupply: u.InSupply,
		Keywords: t.Keywords,
	}
}

func (g *Greedy) fail(err error) {
	g.log.Log(game.CategoryError, "doctrine evaluation failed", game.Fields{
		"doctrine": g.doctrine.Name,
		"error":    err.Error(),
	})
}

func nearest(p game.HexPosition, goals []game.HexPosition) int {
	best := -1
	for _, q := range goals {
		if d := game.Distance(p, q); best < 0 || d < best {
			best = d
		}
	}
	return best
}
