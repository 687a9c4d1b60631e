package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"towers/agent"
	"towers/experiments"
	"towers/game"
	"towers/gamelog"
	"towers/gamemaster"
	"towers/meta"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("towers failed")
	}
}

func run() error {
	cfg, err := meta.Load()
	if err != nil {
		return err
	}
	mode := flag.String("mode", "match", "experiment or match")
	doctrine1 := flag.String("doctrine1", "aggressive", "player1 doctrine in match mode")
	doctrine2 := flag.String("doctrine2", "cautious", "player2 doctrine in match mode")
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *mode {
	case "experiment":
		dir, err := experiments.RunDoctrineExperiment(ctx, cfg)
		if err != nil {
			return err
		}
		log.Info().Msgf("results written to %s", dir)
		return nil
	case "match":
		return runMatch(cfg, *doctrine1, *doctrine2)
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
}

// runMatch plays one match through a game master session, logging every
// rules event.
func runMatch(cfg meta.Config, doctrine1, doctrine2 string) error {
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	sink := gamelog.NewZerologSink(log.Logger)
	m := game.NewManager(rules, game.DefaultCatalog(), game.WithRoller(game.NewRoller(cfg.Seed)), game.WithSink(sink))

	agents := map[game.PlayerID]agent.Agent{}
	for id, name := range map[game.PlayerID]string{game.Player1: doctrine1, game.Player2: doctrine2} {
		d, err := agent.LoadDoctrine(name)
		if err != nil {
			return err
		}
		agents[id] = agent.NewGreedy(m, agent.WithDoctrine(d), agent.WithSink(sink))
	}

	session := gamemaster.NewLocalEngine(m, gamemaster.WithSink(sink))
	state, updates := session.Init()
	log.Info().Msgf("session %s started", session.Session())

	roller := game.NewRoller(^cfg.Seed)
	for _, id := range game.PlayerIDs {
		army := agent.PickArmy(m.Catalog(), rules.PointLimit(), roller)
		cards := agent.PickCards(m.Catalog(), rules.MaxCommandCards(), roller)
		if err := playAll(session,
			game.GameMove{ActionType: game.BuildArmyAction, Player: id, TemplateIDs: army},
			game.GameMove{ActionType: game.DraftCardsAction, Player: id, CardIDs: cards},
		); err != nil {
			return err
		}
	}
	if err := playAll(session, game.GameMove{ActionType: game.StartDeploymentAction}); err != nil {
		return err
	}
	state = session.State()

	for state.Phase != game.MatchEndPhase {
		switch {
		case state.Phase == game.DeploymentPhase:
			err = playAll(session, deployment...)
		case state.Phase == game.SkirmishEndPhase:
			err = playAll(session, game.GameMove{ActionType: game.NextSkirmishAction})
		case state.Turn > cfg.MaxTurns:
			log.Info().Msgf("no winner after %d turns", cfg.MaxTurns)
			return nil
		default:
			err = session.Play(agents[state.CurrentPlayer].FindMove(state))
			if game.IsValidation(err) {
				err = session.Play(game.GameMove{ActionType: game.EndTurnAction})
			}
		}
		if err != nil && !errors.Is(err, gamemaster.ErrGameOver) {
			return err
		}
		for u, ok := updates(); ok; u, ok = updates() {
			if u.Victory.Decided() {
				log.Info().Msgf("%s wins skirmish %d: %s", u.Victory.Winner, u.State.Skirmish, u.Victory.Reason)
			}
		}
		state = session.State()
	}

	final := session.State()
	log.Info().Msgf("match over: %s wins (%s), score %v", final.Winner, final.WinReason, final.MatchScore)
	return nil
}

var deployment = []game.GameMove{
	{ActionType: game.AutoDeployAction},
	{ActionType: game.PassDeploymentAction},
	{ActionType: game.AutoDeployAction},
	{ActionType: game.PassDeploymentAction},
	{ActionType: game.StartBattleAction},
}

func playAll(session gamemaster.Engine, moves ...game.GameMove) error {
	for _, move := range moves {
		if err := session.Play(move); err != nil {
			return fmt.Errorf("play %s: %w", move, err)
		}
	}
	return nil
}
