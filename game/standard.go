package game

type StandardRules struct {
	Points          int
	CommandCards    int
	CPIncome        int
	CPCap           int
	Activations     int
	Deployment      int
	ZoneRows        int
	Width           int
	Height          int
	Format          MatchFormat
	StrictLOS       bool
	RetreatOnMorale bool
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		Points:       100,
		CommandCards: 5,
		CPIncome:     4,
		CPCap:        6,
		Activations:  3,
		Deployment:   5,
		ZoneRows:     2,
		Width:        10,
		Height:       8,
		Format:       SingleBattle,
	}
}

func (sr *StandardRules) PointLimit() int         { return sr.Points }
func (sr *StandardRules) MaxCommandCards() int    { return sr.CommandCards }
func (sr *StandardRules) CPPerTurn() int          { return sr.CPIncome }
func (sr *StandardRules) MaxCP() int              { return sr.CPCap }
func (sr *StandardRules) ActivationsPerTurn() int { return sr.Activations }
func (sr *StandardRules) MaxDeployment() int      { return sr.Deployment }
func (sr *StandardRules) DeploymentRows() int     { return sr.ZoneRows }
func (sr *StandardRules) BoardSize() Board        { return Board{Width: sr.Width, Height: sr.Height} }
func (sr *StandardRules) MatchFormat() MatchFormat {
	return sr.Format
}
func (sr *StandardRules) StrictLineOfSight() bool     { return sr.StrictLOS }
func (sr *StandardRules) RetreatOnFailedMorale() bool { return sr.RetreatOnMorale }

func (sr *StandardRules) DetermineAttackOutcome(margin int, ranged bool) (Outcome, int, int) {
	switch {
	case margin >= 3:
		return MassiveHit, 2, 0
	case margin >= 1:
		return Hit, 1, 0
	case margin == 0:
		return Tie, 0, 1
	default:
		// Melee attackers that fail take recoil damage; archers do not.
		if ranged {
			return Miss, 0, 0
		}
		return Miss, 1, 0
	}
}

// MoraleCheckPasses: d6 + half defense (rounded down) must reach 4.
func (sr *StandardRules) MoraleCheckPasses(roll, defense int) bool {
	return roll+defense/2 >= 4
}
