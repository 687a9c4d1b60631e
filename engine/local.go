package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"towers/agent"
	"towers/experiments/metrics"
	"towers/game"
	"towers/meta"
)

type Option func(e *Engine)

// WithMaxTurns caps the battle turns; the match is then adjudicated on
// position.
func WithMaxTurns(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTurns = n
		}
	}
}

// WithArmies fixes the rosters instead of drawing them at random.
func WithArmies(player1, player2 []string) Option {
	return func(e *Engine) {
		e.armies = map[game.PlayerID][]string{game.Player1: player1, game.Player2: player2}
	}
}

// WithEvaluator changes how a match stopped by the turn limit is decided.
func WithEvaluator(evaluate game.Evaluate) Option {
	return func(e *Engine) {
		if evaluate != nil {
			e.evaluate = evaluate
		}
	}
}

func WithCollector(c metrics.Collector) Option {
	return func(e *Engine) {
		if c != nil {
			e.collector = c
		}
	}
}

// Engine plays a whole match between two agents on one goroutine.
type Engine struct {
	State *game.GameState

	m         *game.Manager
	agents    map[game.PlayerID]agent.Agent
	roller    game.Roller
	maxTurns  int
	armies    map[game.PlayerID][]string
	collector metrics.Collector
	evaluate  game.Evaluate
}

var _ Runner = (*Engine)(nil)

// LocalEngine seats agent1 as player1 and agent2 as player2. roller draws
// the random armies and command cards; combat dice come from m.
func LocalEngine(m *game.Manager, agent1, agent2 agent.Agent, roller game.Roller, options ...Option) *Engine {
	if agent1 == nil || agent2 == nil {
		panic("need two agents")
	}
	e := &Engine{
		State:     m.NewGame(),
		m:         m,
		agents:    map[game.PlayerID]agent.Agent{game.Player1: agent1, game.Player2: agent2},
		roller:    roller,
		maxTurns:  meta.MAX_TURNS,
		collector: metrics.NewDummyCollector(),
		evaluate:  game.EvaluatePosition,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire match until a winner is found.
func (e *Engine) Run() (game.PlayerID, metrics.GameMetric, []metrics.MoveMetric, error) {
	if err := e.setup(); err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	e.collector.Start(e.State.CurrentPlayer)
	log.Debug().Msgf("%s is starting", e.State.CurrentPlayer)

	reason := ""
	for moves := 0; moves < MaxMoves && e.State.Phase != game.MatchEndPhase; moves++ {
		if e.State.Turn > e.maxTurns {
			reason = ReasonTurnLimit
			break
		}
		if err := e.step(); err != nil {
			return "", metrics.GameMetric{}, nil, err
		}
		if e.State.Phase == game.SkirmishEndPhase {
			if err := e.nextSkirmish(); err != nil {
				return "", metrics.GameMetric{}, nil, err
			}
		}
	}

	winner := e.State.Winner
	if e.State.Phase == game.MatchEndPhase {
		reason = e.State.WinReason
	} else {
		if reason == "" {
			reason = fmt.Sprintf("%d moves", MaxMoves)
		}
		winner = e.adjudicate()
	}
	gameMetric, moveMetrics, err := e.collector.Complete(e.State, winner, reason)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	log.Debug().Msgf("match over after %d turns: winner=%q reason=%s", e.State.Turn, winner, reason)
	return winner, gameMetric, moveMetrics, nil
}

func (e *Engine) setup() error {
	rules := e.m.Rules()
	for _, id := range game.PlayerIDs {
		army := e.armies[id]
		if army == nil {
			army = agent.PickArmy(e.m.Catalog(), rules.PointLimit(), e.roller)
		}
		cards := agent.PickCards(e.m.Catalog(), rules.MaxCommandCards(), e.roller)
		if err := e.play(game.GameMove{ActionType: game.BuildArmyAction, Player: id, TemplateIDs: army}); err != nil {
			return err
		}
		if err := e.play(game.GameMove{ActionType: game.DraftCardsAction, Player: id, CardIDs: cards}); err != nil {
			return err
		}
	}
	if err := e.play(game.GameMove{ActionType: game.StartDeploymentAction}); err != nil {
		return err
	}
	return e.deploy()
}

// deploy lets both players auto-deploy in turn and opens the battle.
func (e *Engine) deploy() error {
	for _, action := range []game.ActionType{
		game.AutoDeployAction, game.PassDeploymentAction,
		game.AutoDeployAction, game.PassDeploymentAction,
		game.StartBattleAction,
	} {
		if err := e.play(game.GameMove{ActionType: action}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) nextSkirmish() error {
	log.Debug().Msgf("skirmish %d over, score %v", e.State.Skirmish, e.State.MatchScore)
	if err := e.play(game.GameMove{ActionType: game.NextSkirmishAction}); err != nil {
		return err
	}
	return e.deploy()
}

// step asks the acting agent for a move. An illegal choice ends the turn
// instead, so a confused agent cannot stall the match.
func (e *Engine) step() error {
	gs := e.State
	player := gs.CurrentPlayer
	start := time.Now()
	move := e.agents[player].FindMove(gs)
	elapsed := time.Since(start)

	next, err := e.m.Play(gs, move)
	rejected := false
	if err != nil {
		if !game.IsValidation(err) {
			return fmt.Errorf("play %s: %w", move, err)
		}
		log.Debug().Msgf("%s chose an illegal move %s: %v", player, move, err)
		rejected = true
		next, err = e.m.Play(gs, game.GameMove{ActionType: game.EndTurnAction})
		if err != nil {
			return fmt.Errorf("end turn after rejected move: %w", err)
		}
	}

	damage := 0
	for _, r := range next.CombatLog[len(gs.CombatLog):] {
		damage += r.Damage
	}
	e.collector.AddMove(metrics.MoveMetric{
		Skirmish: gs.Skirmish,
		Turn:     gs.Turn,
		Player:   string(player),
		Action:   move.ActionType.String(),
		Move:     move.String(),
		Duration: elapsed,
		Damage:   damage,
		Rejected: rejected,
	})
	e.State = next
	return e.conclude()
}

// play applies a setup move; any rejection is fatal.
func (e *Engine) play(move game.GameMove) error {
	next, err := e.m.Play(e.State, move)
	if err != nil {
		return fmt.Errorf("play %s: %w", move, err)
	}
	e.State = next
	return nil
}

func (e *Engine) conclude() error {
	v := game.EvaluateVictory(e.State)
	if !v.Decided() {
		return nil
	}
	next, err := e.m.ConcludeBattle(e.State, v)
	if err != nil {
		return fmt.Errorf("conclude battle: %w", err)
	}
	e.State = next
	return nil
}

// adjudicate awards an unfinished match to the better placed player, or
// nobody when the position is level.
func (e *Engine) adjudicate() game.PlayerID {
	score := e.evaluate(e.State, game.Player1, e.m.Catalog())
	switch {
	case score > 0:
		return game.Player1
	case score < 0:
		return game.Player2
	default:
		return ""
	}
}
