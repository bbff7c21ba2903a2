package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Players int
	Mode    game.Mode
	Agent   string   // Agent spec for every seat in Manual mode
	Agents  []string // Optional per-seat overrides, empty entries fall back to Agent
	Seed    int64    // Base seed, 0 picks one from the clock
	Workers int      // Concurrent rounds, 0 uses GOMAXPROCS
	Logger  *log.Logger
}

// Result is the outcome of a simulation run
type Result struct {
	RunID string
	Seed  int64 // Resolved base seed, replays the run when passed back in
	Stats *statistics.Statistics
}

// Simulator runs independent rounds in parallel
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger}
}

// Validate checks the configuration before any round is played
func (c Config) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", c.Rounds)
	}
	if c.Players < game.MinPlayers {
		return fmt.Errorf("players must be at least %d, got %d", game.MinPlayers, c.Players)
	}
	if len(c.Agents) > c.Players {
		return fmt.Errorf("%d agents given for %d players", len(c.Agents), c.Players)
	}
	if c.Mode == game.Manual {
		for seat := 0; seat < c.Players; seat++ {
			if _, err := game.ParseAgent(c.agentSpec(seat), nil); err != nil {
				return fmt.Errorf("seat %d: %w", seat+1, err)
			}
		}
	}
	return nil
}

func (c Config) agentSpec(seat int) string {
	if seat < len(c.Agents) && c.Agents[seat] != "" {
		return c.Agents[seat]
	}
	return c.Agent
}

// Run plays every round and aggregates the outcomes. Each round gets its
// own game and random stream derived from the base seed, so the result does
// not depend on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	seed := randutil.Resolve(s.config.Seed)
	runID := gameid.Generate()

	workers := s.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s.logger.Info("Starting simulation",
		"run", runID,
		"rounds", s.config.Rounds,
		"players", s.config.Players,
		"mode", s.config.Mode,
		"seed", seed,
		"workers", workers)

	outcomes := make([]statistics.RoundOutcome, s.config.Rounds)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range outcomes {
		g.Go(func() error {
			outcome, err := s.playRound(ctx, runID, seed, i)
			if err != nil {
				return fmt.Errorf("round %d: %w", i+1, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, o := range outcomes {
		stats.Add(o)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete", "run", runID, "decided", stats.Decided(), "no_winner", stats.NoWinner)
	return &Result{RunID: runID, Seed: seed, Stats: stats}, nil
}

func (s *Simulator) playRound(ctx context.Context, runID string, seed int64, i int) (statistics.RoundOutcome, error) {
	roundSeed := randutil.Derive(seed, i)
	rng := randutil.New(roundSeed)

	g := game.NewGame(
		game.WithRNG(rng),
		game.WithID(fmt.Sprintf("%s-%d", runID, i+1)),
	)
	g.SetPlayersNumber(s.config.Players)
	for seat := 0; seat < s.config.Players; seat++ {
		g.AddPlayer(game.NewPlayer(fmt.Sprintf("Seat%d", seat+1)))
	}
	g.Start()
	g.SetMode(s.config.Mode)

	engine := game.NewEngine(g, nil)
	if s.config.Mode == game.Manual {
		for seat := range s.config.Players {
			agent, err := game.ParseAgent(s.config.agentSpec(seat), rng)
			if err != nil {
				return statistics.RoundOutcome{}, err
			}
			engine.SetSeatAgent(seat, agent)
		}
	}

	result, err := engine.PlayRound(ctx)
	if err != nil && !errors.Is(err, game.ErrNoValidWinner) {
		return statistics.RoundOutcome{}, err
	}

	outcome := statistics.RoundOutcome{
		Seats:      len(result.Standings),
		WinnerSeat: -1,
		WinScore:   result.WinScore,
		Passes:     result.Passes,
		CardsDrawn: result.CardsDrawn,
	}
	for seat, st := range result.Standings {
		if st.Bust {
			outcome.Busts++
		}
		if result.HasWinner() && st.Name == result.Winner {
			outcome.WinnerSeat = seat
		}
	}

	s.logger.Debug("Round finished",
		"round", i+1,
		"seed", roundSeed,
		"winner", result.Winner,
		"score", result.WinScore,
		"passes", result.Passes)
	return outcome, nil
}
