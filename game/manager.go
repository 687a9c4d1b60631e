package game

import "fmt"

// Manager applies intents to snapshots. It holds the rules, the catalog, the
// dice and the log sink; it holds no match state of its own.
type Manager struct {
	rules   Rules
	catalog *Catalog
	dice    Roller
	log     Sink
}

type Option func(m *Manager)

func WithRoller(r Roller) Option {
	return func(m *Manager) {
		if r != nil {
			m.dice = r
		}
	}
}

func WithSink(s Sink) Option {
	return func(m *Manager) {
		if s != nil {
			m.log = s
		}
	}
}

func NewManager(rules Rules, catalog *Catalog, opts ...Option) *Manager {
	if rules == nil {
		panic("rules are required")
	}
	if catalog == nil {
		panic("catalog is required")
	}
	m := &Manager{
		rules:   rules,
		catalog: catalog,
		dice:    NewRoller(1),
		log:     NopSink{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Rules() Rules {
	return m.rules
}

func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// NewGame returns a fresh match in army building.
func (m *Manager) NewGame() *GameState {
	gs := NewGameState(m.rules)
	m.log.Log(CategoryStateChange, "new game", Fields{
		"width":  gs.Board.Width,
		"height": gs.Board.Height,
		"format": m.rules.MatchFormat().String(),
	})
	return gs
}

// reject logs err and hands back the untouched snapshot.
func (m *Manager) reject(gs *GameState, err *Error) (*GameState, error) {
	category := CategoryValidation
	if err.Kind == KindInvariant {
		category = CategoryError
	}
	fields := Fields{"code": string(err.Code)}
	for k, v := range err.Metadata {
		fields[k] = v
	}
	m.log.Log(category, err.Message, fields)
	return gs, err
}

func requirePhase(gs *GameState, allowed ...Phase) *Error {
	for _, p := range allowed {
		if gs.Phase == p {
			return nil
		}
	}
	if gs.Phase == MatchEndPhase {
		return validation(CodeMatchOver, meta("phase", gs.Phase.String()), "the match is over")
	}
	return validation(CodeWrongPhase, meta("phase", gs.Phase.String()), "action not allowed during %s phase", gs.Phase)
}

func (m *Manager) transition(ws *GameState, next Phase) *Error {
	if !ws.Phase.CanTransitionTo(next) {
		return invariant(CodeIllegalTransition, meta("from", ws.Phase.String(), "to", next.String()),
			"illegal phase transition from %s to %s", ws.Phase, next)
	}
	m.log.Log(CategoryStateChange, fmt.Sprintf("phase %s -> %s", ws.Phase, next), Fields{"from": ws.Phase.String(), "to": next.String()})
	ws.Phase = next
	return nil
}

// readyUnit checks that unitID can take a battle action for the acting
// player right now.
func (m *Manager) readyUnit(gs *GameState, unitID string) (Unit, UnitTemplate, *Error) {
	md := meta("unit", unitID)
	u, ok := gs.Units[unitID]
	if !ok {
		return Unit{}, UnitTemplate{}, validation(CodeUnitNotFound, md, "unit %s not found", unitID)
	}
	if !u.Alive() {
		return u, UnitTemplate{}, validation(CodeUnitDead, md, "unit %s is dead", unitID)
	}
	if u.Placement != Deployed {
		return u, UnitTemplate{}, validation(CodeUnitNotDeployed, md, "unit %s is not on the battlefield", unitID)
	}
	if u.Activated {
		return u, UnitTemplate{}, validation(CodeAlreadyActivated, md, "unit %s has already activated this turn", unitID)
	}
	if u.PlayerID != gs.CurrentPlayer {
		return u, UnitTemplate{}, validation(CodeNotYourTurn, md, "unit %s does not belong to %s", unitID, gs.CurrentPlayer)
	}
	if gs.ActivationsRemaining <= 0 {
		return u, UnitTemplate{}, validation(CodeNoActivations, md, "no activations remaining this turn")
	}
	t, ok := m.catalog.Unit(u.TemplateID)
	if !ok {
		return u, UnitTemplate{}, invariant(CodeDanglingTemplate, meta("unit", unitID, "template", u.TemplateID),
			"unit %s references unknown template %s", unitID, u.TemplateID)
	}
	return u, t, nil
}

// spendActivation marks the unit as having acted and consumes one point of
// the turn's budget.
func spendActivation(ws *GameState, unitID string) {
	u := ws.Units[unitID]
	u.Activated = true
	ws.Units[unitID] = u
	ws.ActivationsRemaining = max(ws.ActivationsRemaining-1, 0)
}

func damageUnit(ws *GameState, unitID string, amount int) {
	if amount <= 0 {
		return
	}
	u := ws.Units[unitID]
	u.CurrentHP = max(u.CurrentHP-amount, 0)
	ws.Units[unitID] = u
}

// removeDeadUnits moves every unit at 0 HP to the dead placement, fires
// commander deaths and refreshes deployment counts and supply.
func (m *Manager) removeDeadUnits(ws *GameState) {
	removed := false
	for _, id := range ws.UnitIDs() {
		u := ws.Units[id]
		if u.CurrentHP > 0 || u.Placement == Dead {
			continue
		}
		wasOnBoard := u.Placement == Deployed
		at := u.Position

		u.CurrentHP = 0
		u.Placement = Dead
		u.Position = HexPosition{}
		u.Activated = false
		u.InSupply = false
		ws.Units[id] = u
		delete(ws.Effects, id)
		removed = true
		m.log.Log(CategoryAction, fmt.Sprintf("%s is destroyed", id), Fields{"unit": id, "player": string(u.PlayerID)})

		if t, ok := m.catalog.Unit(u.TemplateID); ok && wasOnBoard && t.HasKeyword(KeywordCommander) {
			m.commanderDeath(ws, u, at)
		}
	}
	if removed {
		ws.recountDeployed()
		m.recomputeSupply(ws)
	}
}

func (m *Manager) onBoardCount(gs *GameState, player PlayerID) int {
	n := 0
	for _, u := range gs.Units {
		if u.PlayerID == player && u.OnBoard() {
			n++
		}
	}
	return n
}
