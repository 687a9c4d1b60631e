package game

import "fmt"

// CombatInput is everything a single attack is resolved from.
type CombatInput struct {
	Attacker       Unit
	Defender       Unit
	State          *GameState
	Ranged         bool
	ChargeDistance int
	Modifiers      Modifiers // Optional card modifiers; missing keys count as zero
}

type CombatResult struct {
	ID             string   `json:"id"`
	AttackerID     string   `json:"attackerId"`
	DefenderID     string   `json:"defenderId"`
	AttackerValue  int      `json:"attackerValue"`
	DefenderValue  int      `json:"defenderValue"`
	AttackerRoll   int      `json:"attackerRoll"`
	DefenderRoll   int      `json:"defenderRoll"`
	Margin         int      `json:"margin"`
	Outcome        Outcome  `json:"outcome"`
	Ranged         bool     `json:"ranged"`
	Damage         int      `json:"damage"`
	MoraleGained   int      `json:"moraleGained"`
	SpecialEffects []string `json:"specialEffects,omitempty"`
}

// IsFlanked reports whether at least two living enemies stand next to u.
func IsFlanked(gs *GameState, u Unit) bool {
	if !u.OnBoard() {
		return false
	}
	enemies := 0
	for _, n := range u.Position.Neighbors() {
		if !gs.Board.Contains(n) {
			continue
		}
		if other, ok := gs.UnitAt(n); ok && other.PlayerID != u.PlayerID {
			enemies++
		}
	}
	return enemies >= 2
}

// AttackValue is the attacker's side of the comparison before dice.
func AttackValue(in CombatInput, catalog *Catalog) int {
	at, ok := catalog.Unit(in.Attacker.TemplateID)
	if !ok {
		return 0
	}
	value := at.Melee
	if in.Ranged {
		value = at.Ranged
	}
	value += in.Modifiers[ModAttack]

	if in.ChargeDistance >= 2 && at.HasKeyword(KeywordCavalry) {
		if at.HasKeyword(KeywordHeavy) {
			value += 3
		} else {
			value += 2
		}
	}

	flanked := IsFlanked(in.State, in.Defender)
	if flanked {
		value += 2 + in.Modifiers[ModFlankAttack]
	}

	if in.Ranged {
		if tt, ok := catalog.Terrain(in.State.TerrainAt(in.Attacker.Position)); ok {
			value += tt.RangedAttackBonus
		}
		if Distance(in.Attacker.Position, in.Defender.Position) == 1 {
			value--
		}
	}
	return value
}

// DefenseValue is the defender's side of the comparison before dice.
func DefenseValue(in CombatInput, catalog *Catalog) int {
	dt, ok := catalog.Unit(in.Defender.TemplateID)
	if !ok {
		return 0
	}
	value := dt.Defense

	if at, ok := catalog.Unit(in.Attacker.TemplateID); ok && at.HasKeyword(KeywordCavalry) {
		switch dt.ID {
		case TemplateSpearmen:
			value++
		case TemplatePikemen:
			value += 2
		}
	}

	if tt, ok := catalog.Terrain(in.State.TerrainAt(in.Defender.Position)); ok {
		value += tt.DefenseBonus
		if in.Ranged {
			value += tt.RangedDefenseBonus
		}
	}

	if !in.Defender.InSupply {
		value -= 2
	}

	value += in.Modifiers[ModDefense]
	if in.Ranged {
		value += in.Modifiers[ModRangedDefense]
	}
	return value
}

// ResolveCombat rolls one attack. It reads but never modifies in.State;
// applying the result is the manager's job.
func ResolveCombat(in CombatInput, catalog *Catalog, rules Rules, dice Roller) CombatResult {
	attack := AttackValue(in, catalog)
	defense := DefenseValue(in, catalog)
	attackRoll := rollD6(dice)
	defenseRoll := rollD6(dice)
	margin := (attack + attackRoll) - (defense + defenseRoll)

	outcome, damage, morale := rules.DetermineAttackOutcome(margin, in.Ranged)
	var effects []string

	shardbearer := in.Attacker.TemplateID == TemplateShardbearer
	if outcome == Tie && shardbearer {
		outcome, damage, morale = Hit, 1, 0
		effects = append(effects, "Shardbearer wins the tie")
	}
	if shardbearer && margin >= 3 {
		damage++
		effects = append(effects, "Shardbearer strikes true (+1 damage)")
	}
	if in.Attacker.TemplateID == TemplateHeavyCavalry && damage > 0 && outcome != Miss && IsFlanked(in.State, in.Defender) {
		damage++
		effects = append(effects, "Heavy cavalry rides down a flanked unit (+1 damage)")
	}

	return CombatResult{
		AttackerID:     in.Attacker.ID,
		DefenderID:     in.Defender.ID,
		AttackerValue:  attack,
		DefenderValue:  defense,
		AttackerRoll:   attackRoll,
		DefenderRoll:   defenseRoll,
		Margin:         margin,
		Outcome:        outcome,
		Ranged:         in.Ranged,
		Damage:         damage,
		MoraleGained:   morale,
		SpecialEffects: effects,
	}
}

// CanAttack returns nil when attacker may attack defender right now.
func CanAttack(gs *GameState, catalog *Catalog, rules Rules, attackerID, defenderID string) error {
	md := meta("attacker", attackerID, "defender", defenderID)
	attacker, ok := gs.Units[attackerID]
	if !ok {
		return validation(CodeUnitNotFound, md, "attacker %s not found", attackerID)
	}
	defender, ok := gs.Units[defenderID]
	if !ok {
		return validation(CodeUnitNotFound, md, "defender %s not found", defenderID)
	}
	if !attacker.Alive() {
		return validation(CodeUnitDead, md, "attacker %s is dead", attackerID)
	}
	if !defender.Alive() {
		return validation(CodeUnitDead, md, "defender %s is dead", defenderID)
	}
	if !attacker.OnBoard() || !defender.OnBoard() {
		return validation(CodeUnitNotDeployed, md, "both units must be on the battlefield")
	}
	if attacker.PlayerID == defender.PlayerID {
		return validation(CodeInvalidTarget, md, "cannot attack a friendly unit")
	}
	if attacker.Activated {
		return validation(CodeAlreadyActivated, md, "unit %s has already activated this turn", attackerID)
	}
	at, ok := catalog.Unit(attacker.TemplateID)
	if !ok {
		return invariant(CodeDanglingTemplate, md, "unit %s references unknown template %s", attackerID, attacker.TemplateID)
	}

	dist := Distance(attacker.Position, defender.Position)
	md["distance"] = fmt.Sprint(dist)
	melee := at.Melee > 0 && dist == 1
	ranged := at.Ranged > 0 && dist >= 1 && dist <= at.MaxRange()
	if !melee && !ranged {
		return validation(CodeOutOfRange, md, "target is out of range (distance %d)", dist)
	}
	if !melee && rules.StrictLineOfSight() && !HasLineOfSight(gs, catalog, attacker.Position, defender.Position) {
		return validation(CodeNoLineOfSight, md, "line of sight is blocked")
	}
	return nil
}

// HasLineOfSight reports whether no blocking terrain lies strictly between
// from and to.
func HasLineOfSight(gs *GameState, catalog *Catalog, from, to HexPosition) bool {
	for _, p := range LineBetween(from, to) {
		if tt, ok := catalog.Terrain(gs.TerrainAt(p)); ok && tt.BlocksLOS {
			return false
		}
	}
	return true
}
