package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd plays bot rounds without a prompt
type SimulateCmd struct {
	Rounds   int      `short:"r" default:"10000" help:"Number of rounds to play"`
	Players  int      `short:"p" default:"2" help:"Players per round"`
	Mode     string   `short:"m" default:"auto" help:"auto or manual"`
	Agent    string   `short:"a" default:"threshold" help:"Agent for every seat in manual mode: threshold[:N], never, random"`
	Seats    []string `help:"Per-seat agent overrides in seat order"`
	Seed     int64    `help:"Base seed, 0 picks one"`
	Workers  int      `short:"w" help:"Rounds played concurrently (default GOMAXPROCS)"`
	LogLevel string   `default:"warn" help:"Log level: debug, info, warn, error"`
	LogFile  string   `help:"Write logs to this file instead of stderr"`
	NoColor  bool     `help:"Disable colored output"`
}

func (c *SimulateCmd) Run() error {
	mode, err := game.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	logger, closeLog, err := newLogger(c.LogFile, level, "SIM")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signalContext(logger)
	defer cancel()

	result, err := simulator.New(simulator.Config{
		Rounds:  c.Rounds,
		Players: c.Players,
		Mode:    mode,
		Agent:   c.Agent,
		Agents:  c.Seats,
		Seed:    c.Seed,
		Workers: c.Workers,
		Logger:  logger,
	}).Run(ctx)
	if err != nil {
		return err
	}

	console := display.NewConsole(os.Stdout, display.NewStyles(os.Stdout, !c.NoColor), game.FormattingOptions{})
	console.Report(display.ReportInfo{
		RunID:   result.RunID,
		Seed:    result.Seed,
		Players: c.Players,
		Mode:    mode,
		Agent:   c.Agent,
	}, result.Stats)
	return nil
}
