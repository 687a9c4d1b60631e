package game

import "fmt"

// Outcome is the band a combat margin falls into.
type Outcome int

const (
	MassiveHit Outcome = iota
	Hit
	Tie
	Miss
)

func (o Outcome) String() string {
	switch o {
	case MassiveHit:
		return "massive-hit"
	case Hit:
		return "hit"
	case Tie:
		return "tie"
	case Miss:
		return "miss"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// MatchFormat selects how a match is won.
type MatchFormat int

const (
	// SingleBattle ends the match with the first battle decided.
	SingleBattle MatchFormat = iota
	// BestOfThree plays skirmishes until a player has won two.
	BestOfThree
)

func (f MatchFormat) String() string {
	switch f {
	case SingleBattle:
		return "single"
	case BestOfThree:
		return "best-of-3"
	default:
		return fmt.Sprintf("MatchFormat(%d)", int(f))
	}
}

func ParseMatchFormat(s string) (MatchFormat, error) {
	switch s {
	case "", "single":
		return SingleBattle, nil
	case "best-of-3", "bo3":
		return BestOfThree, nil
	default:
		return SingleBattle, fmt.Errorf("unknown match format %q", s)
	}
}

type Rules interface {
	PointLimit() int
	MaxCommandCards() int
	CPPerTurn() int
	MaxCP() int
	ActivationsPerTurn() int
	MaxDeployment() int
	DeploymentRows() int
	BoardSize() Board
	MatchFormat() MatchFormat
	// DetermineAttackOutcome maps a combat margin to an outcome, the damage
	// dealt and the morale tokens each side gains.
	DetermineAttackOutcome(margin int, ranged bool) (outcome Outcome, damage, morale int)
	MoraleCheckPasses(roll, defense int) bool
	StrictLineOfSight() bool
	RetreatOnFailedMorale() bool
}
