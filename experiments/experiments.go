package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"towers/agent"
	"towers/engine"
	"towers/experiments/metrics"
	"towers/game"
	"towers/meta"
)

// RunDoctrineExperiment pits every built-in doctrine against every other,
// each side starting half of the games, and writes the results under
// cfg.OutputDir. It returns the directory written to.
func RunDoctrineExperiment(ctx context.Context, cfg meta.Config) (string, error) {
	configs := []metrics.AgentConfig{}
	for i, name := range agent.DoctrineNames() {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Doctrine: name})
	}

	// Both seatings of each pair so neither doctrine always moves first
	matchUps := [][2]metrics.AgentConfig{}
	for _, a := range configs {
		for _, b := range configs {
			if a.ID != b.ID {
				matchUps = append(matchUps, [2]metrics.AgentConfig{a, b})
			}
		}
	}

	return runExperiment(ctx, "doctrines", cfg, configs, matchUps)
}

type job struct {
	id      int
	matchUp [2]metrics.AgentConfig
	seed    uint64
}

type result struct {
	game  metrics.GameRecord
	moves []metrics.MoveRecord
}

func runExperiment(ctx context.Context, name string, cfg meta.Config, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) (string, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return "", err
	}

	jobs := []job{}
	for _, matchUp := range matchUps {
		for i := 0; i < cfg.Games; i++ {
			jobs = append(jobs, job{id: len(jobs) + 1, matchUp: matchUp, seed: cfg.Seed + uint64(len(jobs))})
		}
	}

	log.Info().Msgf("starting %s experiment: %d match-ups, %d games...", name, len(matchUps), len(jobs))

	results := make([]result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	workers := cfg.Workers
	if workers <= 0 {
		workers = meta.WORKERS
	}
	g.SetLimit(workers)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := runGame(rules, cfg.MaxTurns, j)
			if err != nil {
				return fmt.Errorf("game %d: %w", j.id, err)
			}
			results[i] = r
			log.Info().Msgf("completed game %d of %d (%s vs %s) with winner: %q",
				j.id, len(jobs), j.matchUp[0].Doctrine, j.matchUp[1].Doctrine, r.game.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	log.Info().Msgf("completed %s experiment", name)

	gameRecords := make([]metrics.GameRecord, 0, len(results))
	moveRecords := []metrics.MoveRecord{}
	for _, r := range results {
		gameRecords = append(gameRecords, r.game)
		moveRecords = append(moveRecords, r.moves...)
	}
	return store(name, cfg.OutputDir, configs, gameRecords, moveRecords)
}

func store(name, root string, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

// runGame plays one seeded match on its own manager.
func runGame(rules game.Rules, maxTurns int, j job) (result, error) {
	m := game.NewManager(rules, game.DefaultCatalog(), game.WithRoller(game.NewRoller(j.seed)))
	agents := [2]agent.Agent{}
	for i, config := range j.matchUp {
		d, err := agent.LoadDoctrine(config.Doctrine)
		if err != nil {
			return result{}, err
		}
		agents[i] = agent.NewGreedy(m, agent.WithDoctrine(d))
	}

	e := engine.LocalEngine(m, agents[0], agents[1], game.NewRoller(^j.seed),
		engine.WithMaxTurns(maxTurns),
		engine.WithCollector(metrics.NewCollector()),
	)
	_, gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return result{}, err
	}

	r := result{
		game: metrics.GameRecord{
			ID:         j.id,
			Agent1:     j.matchUp[0].ID,
			Agent2:     j.matchUp[1].ID,
			Seed:       j.seed,
			GameMetric: gameMetric,
		},
	}
	for _, mm := range moveMetrics {
		r.moves = append(r.moves, metrics.MoveRecord{Game: j.id, MoveMetric: mm})
	}
	return r, nil
}
