package agent

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"towers/utils"
)

// UnitView is the read-only picture of a unit that doctrine expressions see.
type UnitView struct {
	ID       string
	Template string
	HP       int
	MaxHP    int
	Cost     int
	Move     int
	Melee    int
	Ranged   int
	Defense  int
	Morale   int
	InSupply bool
	Keywords []string
}

// AttackEnv is the environment of an attack expression.
type AttackEnv struct {
	Attacker UnitView
	Target   UnitView
	Distance int
	Ranged   bool
	Flanked  bool
	Attack   int // Attack value before the roll
	Defense  int // Defense value before the roll
	Odds     int // Attack - Defense
}

// MoveEnv is the environment of a move expression. Staying put is scored
// with the same expression, To equal to From.
type MoveEnv struct {
	Unit         UnitView
	Steps        int    // Hexes moved
	NearestEnemy int    // Distance from the destination to the closest enemy on the board
	Terrain      string // Terrain id at the destination
	DefenseBonus int
	SupplySource bool
	Center       int // Distance from the destination to the board centre
}

// Doctrine scores candidate attacks and moves with expr expressions. Higher
// scores win; attacks scoring below MinAttack are not made.
type Doctrine struct {
	Name      string
	AttackSrc string
	MoveSrc   string
	MinAttack float64

	attack *vm.Program
	move   *vm.Program
}

// Compile checks both expressions against their environments.
func (d *Doctrine) Compile() error {
	attack, err := expr.Compile(d.AttackSrc, expr.Env(AttackEnv{}), expr.AsFloat64())
	if err != nil {
		return fmt.Errorf("doctrine %s: attack expression: %w", d.Name, err)
	}
	move, err := expr.Compile(d.MoveSrc, expr.Env(MoveEnv{}), expr.AsFloat64())
	if err != nil {
		return fmt.Errorf("doctrine %s: move expression: %w", d.Name, err)
	}
	d.attack, d.move = attack, move
	return nil
}

func (d *Doctrine) scoreAttack(env AttackEnv) (float64, error) {
	return run(d.attack, env)
}

func (d *Doctrine) scoreMove(env MoveEnv) (float64, error) {
	return run(d.move, env)
}

func run(program *vm.Program, env any) (float64, error) {
	if program == nil {
		return 0, fmt.Errorf("doctrine is not compiled")
	}
	out, err := vm.Run(program, env)
	if err != nil {
		return 0, err
	}
	switch v := out.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expression returned %T, want a number", out)
	}
}

// Built-in doctrines. The default attacks the weakest target in reach and
// closes on the nearest enemy.
var doctrines = map[string]Doctrine{
	"default": {
		Name:      "default",
		AttackSrc: `-Target.HP`,
		MoveSrc:   `-NearestEnemy`,
		MinAttack: math.Inf(-1),
	},
	"aggressive": {
		Name:      "aggressive",
		AttackSrc: `Odds * 2 - Target.HP + Target.Cost / 6 + (Flanked ? 2 : 0)`,
		MoveSrc:   `-NearestEnemy * 2 + DefenseBonus`,
		MinAttack: math.Inf(-1),
	},
	"cautious": {
		Name:      "cautious",
		AttackSrc: `Odds - Target.HP + (Ranged ? 2 : 0)`,
		MoveSrc:   `DefenseBonus * 2 - abs(NearestEnemy - 2) + (SupplySource ? 1 : 0)`,
		MinAttack: -2,
	},
}

// DoctrineNames lists the built-in doctrines, sorted.
func DoctrineNames() []string {
	return utils.SortedKeys(doctrines)
}

// LoadDoctrine returns a compiled copy of a built-in doctrine.
func LoadDoctrine(name string) (*Doctrine, error) {
	d, ok := doctrines[name]
	if !ok {
		return nil, fmt.Errorf("unknown doctrine %q", name)
	}
	if err := d.Compile(); err != nil {
		return nil, err
	}
	return &d, nil
}
