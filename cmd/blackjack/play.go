package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/prompt"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/transcript"
)

const (
	modeQuestion = "Choose game mode: 0 [auto] | 1 [manual] "
	foldQuestion = "Do you fold? 0 [no] | 1 [yes] "
)

// PlayCmd runs one interactive round. Flags override the config file and
// environment; zero values leave them alone.
type PlayCmd struct {
	Config     string            `short:"c" default:"blackjack.hcl" help:"HCL config file, skipped when missing"`
	EnvFile    string            `default:".env" help:"Dotenv file with BLACKJACK_* variables, skipped when missing"`
	Players    int               `short:"p" help:"Number of players (asked when unset)"`
	Names      []string          `short:"n" help:"Player names in seat order, the rest are asked"`
	Mode       string            `short:"m" help:"auto or manual (asked when unset)"`
	Agent      map[string]string `help:"Let a bot play a seat, e.g. --agent Dealer=threshold:17"`
	Seed       int64             `help:"Shuffle seed, 0 picks one"`
	LogLevel   string            `help:"Log level: debug, info, warn, error"`
	LogFile    string            `help:"Write logs to this file instead of stderr"`
	Transcript string            `short:"t" help:"Write the round transcript as YAML"`
	NoColor    bool              `help:"Disable colored output"`
	ShowDeck   bool              `help:"Show the number of cards left after each draw"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config, c.EnvFile)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.LogFile, cfg.Level(), "PLAY")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signalContext(logger)
	defer cancel()

	s := &session{
		in:     os.Stdin,
		out:    os.Stdout,
		cfg:    cfg,
		logger: logger,
		formatting: game.FormattingOptions{
			ShowDeckCount: c.ShowDeck,
		},
	}
	_, err = s.play(ctx)
	return err
}

func (c *PlayCmd) apply(cfg *config.Config) {
	if c.Players != 0 {
		cfg.Players = c.Players
	}
	if len(c.Names) > 0 {
		cfg.Names = c.Names
	}
	if c.Mode != "" {
		cfg.Mode = c.Mode
	}
	for name, spec := range c.Agent {
		cfg.Agents[name] = spec
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.LogFile = c.LogFile
	}
	if c.Transcript != "" {
		cfg.Transcript = c.Transcript
	}
	if c.NoColor {
		cfg.Color = false
	}
}

// session is one interactive round from roster to winner
type session struct {
	in         io.Reader
	out        io.Writer
	cfg        *config.Config
	logger     *log.Logger
	formatting game.FormattingOptions
}

func (s *session) play(ctx context.Context) (*game.RoundResult, error) {
	cfg := s.cfg
	styles := display.NewStyles(s.out, cfg.Color)
	console := display.NewConsole(s.out, styles, s.formatting)

	prompter := prompt.New(s.in, s.out, s.logger)
	defer prompter.Close()
	prompter.QuestionStyle = styles.Question
	prompter.ErrorStyle = styles.Error

	seed := randutil.Resolve(cfg.Seed)
	bus := game.NewEventBus()
	bus.Subscribe(console)
	bus.Subscribe(display.NewLogSubscriber(s.logger))

	var recorder *transcript.Recorder
	if cfg.Transcript != "" {
		recorder = transcript.NewRecorder(seed)
		bus.Subscribe(recorder)
	}

	g := game.NewGame(game.WithEventBus(bus), game.WithRNG(randutil.New(seed)))
	s.logger.Info("Starting session", "game", g.ID(), "seed", seed)
	console.Banner("♠ ♥ Blackjack ♦ ♣")

	count := cfg.Players
	if count == 0 {
		var err error
		count, err = prompter.PlayersNumber(ctx, max(game.MinPlayers, len(cfg.Names)))
		if err != nil {
			return nil, err
		}
	}
	g.SetPlayersNumber(count)

	taken := func(name string) bool {
		_, ok := g.Player(name)
		return ok
	}
	for seat := 0; seat < count; seat++ {
		var name string
		if seat < len(cfg.Names) {
			name = cfg.Names[seat]
		} else {
			var err error
			if name, err = prompter.Name(ctx, taken); err != nil {
				return nil, err
			}
		}
		g.AddPlayer(game.NewPlayer(name))
	}

	g.Start()

	mode, fixed, err := cfg.FixedMode()
	if err != nil {
		return nil, err
	}
	if !fixed {
		choice, err := prompter.Int(ctx, modeQuestion, prompt.InvalidChoice)
		if err != nil {
			return nil, err
		}
		mode = game.ModeFromChoice(choice)
	}
	g.SetMode(mode)

	human := game.NewHumanAgent(func(game.PlayerView) (bool, error) {
		return prompter.Choice(ctx, foldQuestion)
	})
	engine := game.NewEngine(g, human)

	botRNG := randutil.New(randutil.Derive(seed, 0))
	for name := range cfg.Agents {
		spec := cfg.BotAgent(name)
		if spec == "" {
			continue
		}
		if !taken(name) {
			s.logger.Warn("Agent configured for a player who is not at the table", "player", name)
			continue
		}
		agent, err := game.ParseAgent(spec, botRNG)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", name, err)
		}
		engine.SetAgent(name, agent)
	}

	result, err := engine.PlayRound(ctx)
	if err != nil && !errors.Is(err, game.ErrNoValidWinner) {
		return nil, err
	}

	console.Standings(result)

	if recorder != nil {
		recorder.SetResult(result)
		if err := recorder.WriteFile(cfg.Transcript); err != nil {
			return result, err
		}
		s.logger.Info("Transcript written", "path", cfg.Transcript)
	}
	return result, nil
}
