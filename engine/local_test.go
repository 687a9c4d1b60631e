package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"towers/agent"
	"towers/experiments/metrics"
	"towers/game"
)

func newMatch(seed uint64, options ...Option) *Engine {
	m := game.NewManager(game.NewStandardRules(), game.DefaultCatalog(), game.WithRoller(game.NewRoller(seed)))
	aggressive, err := agent.LoadDoctrine("aggressive")
	if err != nil {
		panic(err)
	}
	return LocalEngine(m,
		agent.NewGreedy(m, agent.WithDoctrine(aggressive)),
		agent.NewGreedy(m),
		game.NewRoller(seed+1000),
		options...,
	)
}

// passive never acts.
type passive struct{}

func (passive) FindMove(*game.GameState) game.GameMove {
	return game.GameMove{ActionType: game.EndTurnAction}
}

// cheater always tries to move a unit that does not exist.
type cheater struct{}

func (cheater) FindMove(*game.GameState) game.GameMove {
	return game.GameMove{ActionType: game.MoveAction, UnitID: "ghost", To: game.Hex(0, 0)}
}

func TestRun(t *testing.T) {
	t.Run("terminates with a result", func(t *testing.T) {
		e := newMatch(7, WithCollector(metrics.NewCollector()))
		winner, gm, moves, err := e.Run()
		require.NoError(t, err)
		require.NotEmpty(t, gm.Reason)
		require.Equal(t, string(winner), gm.Winner)
		require.Len(t, moves, gm.TotalMoves)
		require.Positive(t, gm.TotalMoves)
		require.LessOrEqual(t, gm.TotalMoves, MaxMoves)
		if e.State.Phase == game.MatchEndPhase {
			require.Equal(t, e.State.Winner, winner)
		} else {
			require.Equal(t, ReasonTurnLimit, gm.Reason)
		}
	})

	t.Run("same seed replays the same match", func(t *testing.T) {
		_, first, _, err := newMatch(42).Run()
		require.NoError(t, err)
		_, second, _, err := newMatch(42).Run()
		require.NoError(t, err)
		require.Equal(t, first.Fingerprint, second.Fingerprint)
		require.Equal(t, first.Turns, second.Turns)
		require.Equal(t, first.Winner, second.Winner)
	})

	t.Run("turn limit adjudicates on position", func(t *testing.T) {
		m := game.NewManager(game.NewStandardRules(), game.DefaultCatalog(), game.WithRoller(game.NewRoller(3)))
		e := LocalEngine(m, passive{}, passive{}, game.NewRoller(3),
			WithMaxTurns(4),
			WithArmies([]string{game.TemplateSpearmen, game.TemplateMilitia}, []string{game.TemplateMilitia}),
		)
		winner, gm, _, err := e.Run()
		require.NoError(t, err)
		require.Equal(t, ReasonTurnLimit, gm.Reason)
		require.Equal(t, game.Player1, winner, "the larger army leads on material")
		require.Equal(t, 5, e.State.Turn)
		require.Equal(t, 4, gm.TotalMoves)
	})

	t.Run("custom evaluator decides the turn limit", func(t *testing.T) {
		m := game.NewManager(game.NewStandardRules(), game.DefaultCatalog(), game.WithRoller(game.NewRoller(3)))
		e := LocalEngine(m, passive{}, passive{}, game.NewRoller(3),
			WithMaxTurns(2),
			WithArmies([]string{game.TemplateSpearmen, game.TemplateMilitia}, []string{game.TemplateMilitia}),
			WithEvaluator(func(*game.GameState, game.PlayerID, *game.Catalog) float64 { return 0 }),
		)
		winner, gm, _, err := e.Run()
		require.NoError(t, err)
		require.Empty(t, winner, "a level position is a draw")
		require.Equal(t, ReasonTurnLimit, gm.Reason)
	})

	t.Run("illegal moves end the turn", func(t *testing.T) {
		m := game.NewManager(game.NewStandardRules(), game.DefaultCatalog(), game.WithRoller(game.NewRoller(3)))
		e := LocalEngine(m, cheater{}, passive{}, game.NewRoller(3),
			WithMaxTurns(2),
			WithArmies([]string{game.TemplateMilitia}, []string{game.TemplateMilitia}),
			WithCollector(metrics.NewCollector()),
		)
		_, gm, moves, err := e.Run()
		require.NoError(t, err)
		require.Equal(t, 1, gm.Rejected)
		require.Len(t, moves, 2)
		require.True(t, moves[0].Rejected)
		require.False(t, moves[1].Rejected)
		require.Equal(t, 3, e.State.Turn)
	})

	t.Run("unknown template in a fixed army fails setup", func(t *testing.T) {
		m := game.NewManager(game.NewStandardRules(), game.DefaultCatalog())
		e := LocalEngine(m, passive{}, passive{}, game.NewRoller(1),
			WithArmies([]string{"dragon"}, []string{game.TemplateMilitia}))
		_, _, _, err := e.Run()
		require.Error(t, err)
		require.True(t, game.IsValidation(err))
	})
}
