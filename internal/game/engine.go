package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Engine runs the turn loop for a started Game. It is shared by the
// interactive driver and the simulator.
type Engine struct {
	game         *Game
	defaultAgent Agent
	agents       map[string]Agent
	seatAgents   map[int]Agent
}

// NewEngine creates an engine. defaultAgent answers for every player without
// an agent of their own and is only consulted in Manual mode.
func NewEngine(game *Game, defaultAgent Agent) *Engine {
	return &Engine{
		game:         game,
		defaultAgent: defaultAgent,
		agents:       make(map[string]Agent),
		seatAgents:   make(map[int]Agent),
	}
}

// SetAgent assigns an agent to the named player. Seats sharing a name share
// the agent; use SetSeatAgent to tell them apart.
func (e *Engine) SetAgent(playerName string, agent Agent) {
	e.agents[playerName] = agent
}

// SetSeatAgent assigns an agent to the zero-based seat. It takes precedence
// over an agent set by name.
func (e *Engine) SetSeatAgent(seat int, agent Agent) {
	e.seatAgents[seat] = agent
}

// Standing is a player's final position in the round
type Standing struct {
	Name   string
	Score  int
	Cards  []deck.Card
	Folded bool
	Bust   bool
}

// RoundResult contains the results of a completed round
type RoundResult struct {
	GameID     string
	Mode       Mode
	Winner     string
	WinScore   int
	Standings  []Standing
	Passes     int
	CardsDrawn int
}

// HasWinner reports whether a winner was determined
func (r *RoundResult) HasWinner() bool {
	return r.Winner != ""
}

// PlayRound plays passes until the round is over and reports the winner.
//
// When every score is over 21 the result is still returned, without a
// winner, together with ErrNoValidWinner. The context is checked between
// turns.
func (e *Engine) PlayRound(ctx context.Context) (*RoundResult, error) {
	g := e.game
	if g.deck == nil {
		return nil, ErrNotStarted
	}
	if len(g.players) < MinPlayers {
		return nil, fmt.Errorf("%w: have %d", ErrTooFewPlayers, len(g.players))
	}

	result := &RoundResult{
		GameID: g.id,
		Mode:   g.mode,
	}

	for {
		result.Passes++

		var err error
		switch g.mode {
		case Auto:
			err = e.autoPass(ctx, result)
		case Manual:
			err = e.manualPass(ctx, result)
		default:
			err = fmt.Errorf("unsupported mode %s", g.mode)
		}
		if err != nil {
			return nil, err
		}

		if g.IsOver() {
			break
		}
	}

	return e.finish(result)
}

// autoPass deals one card to every player in seat order. The pass stops at
// the first bust; later seats do not get a card that pass.
func (e *Engine) autoPass(ctx context.Context, result *RoundResult) error {
	g := e.game
	for _, p := range g.players {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.publish(NewTurnStartedEvent(g.now(), p.Name, p.Score(), result.Passes))

		if err := e.deal(p, result); err != nil {
			return err
		}
		if p.IsBust() {
			g.publish(NewPlayerBustEvent(g.now(), p.Name, p.Score()))
			break
		}
	}
	return nil
}

// manualPass gives each playing seat the choice to stand once it holds
// cards. The pass stops early on a bust or once at most one player is left.
func (e *Engine) manualPass(ctx context.Context, result *RoundResult) error {
	g := e.game
	for seat, p := range g.players {
		if !p.Plays() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		g.publish(NewTurnStartedEvent(g.now(), p.Name, p.Score(), result.Passes))

		if p.Score() != 0 {
			stand, err := e.agentFor(seat, p).ShouldStand(e.view(p, result.Passes))
			if err != nil {
				return fmt.Errorf("decision for %s: %w", p.Name, err)
			}
			if stand {
				p.Stand()
				g.publish(NewPlayerFoldedEvent(g.now(), p.Name, p.Score()))
				continue
			}
		}

		if err := e.deal(p, result); err != nil {
			return err
		}
		if p.IsBust() {
			g.publish(NewPlayerBustEvent(g.now(), p.Name, p.Score()))
			break
		}
		if g.IsLastRound() {
			break
		}
	}
	return nil
}

func (e *Engine) deal(p *Player, result *RoundResult) error {
	g := e.game
	card, err := g.Draw()
	if err != nil {
		return fmt.Errorf("draw for %s: %w", p.Name, err)
	}
	p.Hit(card)
	result.CardsDrawn++
	g.publish(NewCardDrawnEvent(g.now(), p.Name, card, p.Score(), g.deck.Remaining()))
	return nil
}

func (e *Engine) finish(result *RoundResult) (*RoundResult, error) {
	g := e.game
	scores := g.Scores()
	for _, p := range g.players {
		result.Standings = append(result.Standings, Standing{
			Name:   p.Name,
			Score:  p.Score(),
			Cards:  p.Cards(),
			Folded: !p.Plays(),
			Bust:   p.IsBust(),
		})
	}

	winner, win, err := g.Winner()
	if err != nil {
		g.publish(NewRoundOverEvent(g.now(), g.id, scores, result.Passes, true))
		if errors.Is(err, ErrNoValidWinner) {
			return result, err
		}
		return nil, err
	}

	result.Winner = winner.Name
	result.WinScore = win
	g.publish(NewWinnerDeclaredEvent(g.now(), winner.Name, win))
	g.publish(NewRoundOverEvent(g.now(), g.id, scores, result.Passes, false))
	return result, nil
}

func (e *Engine) agentFor(seat int, p *Player) Agent {
	if a, ok := e.seatAgents[seat]; ok && a != nil {
		return a
	}
	if a, ok := e.agents[p.Name]; ok && a != nil {
		return a
	}
	if e.defaultAgent != nil {
		return e.defaultAgent
	}
	return NeverStandAgent{}
}

func (e *Engine) view(p *Player, pass int) PlayerView {
	g := e.game
	view := PlayerView{
		Name:          p.Name,
		Score:         p.Score(),
		Cards:         p.Cards(),
		Pass:          pass,
		ActivePlayers: g.ActivePlayers(),
	}
	for _, other := range g.players {
		if other == p {
			continue
		}
		view.Opponents = append(view.Opponents, OpponentView{
			Name:  other.Name,
			Score: other.Score(),
			Plays: other.Plays(),
		})
	}
	return view
}
