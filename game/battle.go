package game

import (
	"fmt"
	"strconv"
)

// MoveUnit moves a ready unit up to its movement allowance to an empty hex.
func (m *Manager) MoveUnit(gs *GameState, unitID string, to HexPosition) (*GameState, error) {
	m.log.Log(CategoryMovement, "move requested", Fields{"unit": unitID, "to": to.String()})
	if err := requirePhase(gs, BattlePhase); err != nil {
		return m.reject(gs, err)
	}
	u, t, err := m.readyUnit(gs, unitID)
	if err != nil {
		return m.reject(gs, err)
	}
	if err := m.checkDestination(gs, u, t, to); err != nil {
		return m.reject(gs, err)
	}

	ws := gs.Copy()
	from := u.Position
	m.relocate(ws, unitID, to)
	spendActivation(ws, unitID)
	m.log.Log(CategoryMovement, fmt.Sprintf("%s moved %s -> %s", unitID, from, to), Fields{
		"unit":        unitID,
		"from":        from.String(),
		"to":          to.String(),
		"activations": ws.ActivationsRemaining,
	})
	return ws, nil
}

func (m *Manager) checkDestination(gs *GameState, u Unit, t UnitTemplate, to HexPosition) *Error {
	md := meta("unit", u.ID, "to", to.String())
	if !gs.Board.Contains(to) {
		return validation(CodeOffBoard, md, "position %s is off the board", to)
	}
	if occupant, taken := gs.UnitAt(to); taken {
		md["occupant"] = occupant.ID
		return validation(CodeOccupied, md, "position %s is occupied by %s", to, occupant.ID)
	}
	dist := Distance(u.Position, to)
	if reach := m.reach(gs, u, t); dist > reach {
		md["distance"] = strconv.Itoa(dist)
		md["move"] = strconv.Itoa(reach)
		return validation(CodeOutOfRange, md, "%s can move %d hexes, target is %d away", u.ID, reach, dist)
	}
	return nil
}

func (m *Manager) reach(gs *GameState, u Unit, t UnitTemplate) int {
	return t.Move + gs.effect(u.ID, ModMovement)
}

func (m *Manager) relocate(ws *GameState, unitID string, to HexPosition) {
	u := ws.Units[unitID]
	u.Position = to
	ws.Units[unitID] = u
	m.recomputeSupply(ws)
}

// ExecuteCombat resolves an attack and applies its damage, morale and
// casualties.
func (m *Manager) ExecuteCombat(gs *GameState, attackerID, defenderID string) (*GameState, error) {
	m.log.Log(CategoryCombat, "attack requested", Fields{"attacker": attackerID, "defender": defenderID})
	if err := requirePhase(gs, BattlePhase); err != nil {
		return m.reject(gs, err)
	}
	if _, _, err := m.readyUnit(gs, attackerID); err != nil {
		return m.reject(gs, err)
	}
	if err := CanAttack(gs, m.catalog, m.rules, attackerID, defenderID); err != nil {
		return m.reject(gs, err.(*Error))
	}

	ws := gs.Copy()
	result := m.attack(ws, attackerID, defenderID, 0)
	if ws.effect(attackerID, ModExtraAttack) > 0 {
		ws.clearEffect(attackerID, ModExtraAttack)
	} else {
		spendActivation(ws, attackerID)
	}
	m.removeDeadUnits(ws)
	m.logCombat(result, ws)
	return ws, nil
}

// ChargeUnit moves a unit next to an enemy and attacks it in melee as one
// activation. Every hex moved counts towards the charge bonus.
func (m *Manager) ChargeUnit(gs *GameState, unitID string, to HexPosition, defenderID string) (*GameState, error) {
	m.log.Log(CategoryCombat, "charge requested", Fields{"unit": unitID, "to": to.String(), "defender": defenderID})
	if err := requirePhase(gs, BattlePhase); err != nil {
		return m.reject(gs, err)
	}
	u, t, err := m.readyUnit(gs, unitID)
	if err != nil {
		return m.reject(gs, err)
	}
	md := meta("unit", unitID, "defender", defenderID, "to", to.String())
	if t.Melee <= 0 {
		return m.reject(gs, validation(CodeInvalidTarget, md, "%s cannot fight in melee", unitID))
	}
	if err := m.checkDestination(gs, u, t, to); err != nil {
		return m.reject(gs, err)
	}
	d, ok := gs.Units[defenderID]
	if !ok {
		return m.reject(gs, validation(CodeUnitNotFound, md, "defender %s not found", defenderID))
	}
	if !d.OnBoard() || d.PlayerID == u.PlayerID {
		return m.reject(gs, validation(CodeInvalidTarget, md, "%s is not an enemy on the battlefield", defenderID))
	}
	if Distance(to, d.Position) != 1 {
		return m.reject(gs, validation(CodeOutOfRange, md, "charge must end adjacent to %s", defenderID))
	}

	ws := gs.Copy()
	charge := Distance(u.Position, to)
	if tt, ok := m.catalog.Terrain(ws.TerrainAt(to)); ok && tt.CancelsCharge {
		charge = 0
	}
	m.relocate(ws, unitID, to)
	if err := CanAttack(ws, m.catalog, m.rules, unitID, defenderID); err != nil {
		return m.reject(gs, err.(*Error))
	}
	result := m.attack(ws, unitID, defenderID, charge)
	spendActivation(ws, unitID)
	m.removeDeadUnits(ws)
	m.logCombat(result, ws)
	return ws, nil
}

// attack resolves and applies one combat on the working copy. The caller
// settles activations and casualties.
func (m *Manager) attack(ws *GameState, attackerID, defenderID string, charge int) CombatResult {
	in := m.combatInput(ws, attackerID, defenderID, charge)
	result := ResolveCombat(in, m.catalog, m.rules, m.dice)
	result.ID = fmt.Sprintf("combat-%d", len(ws.CombatLog)+1)
	ws.CombatLog = append(ws.CombatLog, result)

	if result.Outcome == Miss {
		damageUnit(ws, attackerID, result.Damage)
	} else {
		damageUnit(ws, defenderID, result.Damage)
	}
	for i := 0; i < result.MoraleGained; i++ {
		m.addMorale(ws, attackerID)
		m.addMorale(ws, defenderID)
	}
	// Attack bonuses last for one attack only.
	ws.clearEffect(attackerID, ModAttack)
	return result
}

func (m *Manager) combatInput(gs *GameState, attackerID, defenderID string, charge int) CombatInput {
	a := gs.Units[attackerID]
	d := gs.Units[defenderID]
	return CombatInput{
		Attacker:       a,
		Defender:       d,
		State:          gs,
		Ranged:         Distance(a.Position, d.Position) > 1,
		ChargeDistance: charge,
		Modifiers: Modifiers{
			ModAttack:        gs.effect(attackerID, ModAttack),
			ModFlankAttack:   gs.effect(attackerID, ModFlankAttack),
			ModDefense:       gs.effect(defenderID, ModDefense),
			ModRangedDefense: gs.effect(defenderID, ModRangedDefense),
		},
	}
}

// CombatPreview is what an attack would be rolled against.
type CombatPreview struct {
	Input   CombatInput
	Attack  int
	Defense int
}

// PreviewCombat computes the attack and defense values of a legal attack
// without rolling or changing anything.
func (m *Manager) PreviewCombat(gs *GameState, attackerID, defenderID string) (CombatPreview, error) {
	if err := CanAttack(gs, m.catalog, m.rules, attackerID, defenderID); err != nil {
		return CombatPreview{}, err
	}
	in := m.combatInput(gs, attackerID, defenderID, 0)
	return CombatPreview{
		Input:   in,
		Attack:  AttackValue(in, m.catalog),
		Defense: DefenseValue(in, m.catalog),
	}, nil
}

func (m *Manager) logCombat(r CombatResult, ws *GameState) {
	m.log.Log(CategoryCombat, fmt.Sprintf("%s attacks %s: %s", r.AttackerID, r.DefenderID, r.Outcome), Fields{
		"combat":        r.ID,
		"attacker":      r.AttackerID,
		"defender":      r.DefenderID,
		"attackerValue": r.AttackerValue,
		"defenderValue": r.DefenderValue,
		"attackerRoll":  r.AttackerRoll,
		"defenderRoll":  r.DefenderRoll,
		"margin":        r.Margin,
		"outcome":       r.Outcome.String(),
		"damage":        r.Damage,
		"ranged":        r.Ranged,
		"effects":       r.SpecialEffects,
		"activations":   ws.ActivationsRemaining,
	})
}

// BuildSupplyCamp turns an adjacent empty plain hex into a supply camp.
func (m *Manager) BuildSupplyCamp(gs *GameState, unitID string, at HexPosition) (*GameState, error) {
	if err := requirePhase(gs, BattlePhase); err != nil {
		return m.reject(gs, err)
	}
	u, t, err := m.readyUnit(gs, unitID)
	if err != nil {
		return m.reject(gs, err)
	}
	md := meta("unit", unitID, "position", at.String())
	if !t.HasKeyword(KeywordEngineer) {
		return m.reject(gs, validation(CodeInvalidTarget, md, "%s cannot build supply camps", unitID))
	}
	if !gs.Board.Contains(at) {
		return m.reject(gs, validation(CodeOffBoard, md, "position %s is off the board", at))
	}
	if Distance(u.Position, at) != 1 {
		return m.reject(gs, validation(CodeOutOfRange, md, "supply camps must be built next to the engineer"))
	}
	if _, taken := gs.UnitAt(at); taken {
		return m.reject(gs, validation(CodeOccupied, md, "position %s is occupied", at))
	}
	if gs.TerrainAt(at) != TerrainPlain {
		return m.reject(gs, validation(CodeInvalidTarget, md, "supply camps can only be built on plain terrain"))
	}

	ws := gs.Copy()
	ws.Terrain[at] = TerrainSupplyCamp
	spendActivation(ws, unitID)
	m.recomputeSupply(ws)
	m.log.Log(CategoryAction, fmt.Sprintf("%s built a supply camp at %s", unitID, at), Fields{"unit": unitID, "position": at.String()})
	return ws, nil
}
