package game

import (
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/gameid"
)

// MinPlayers is the smallest roster a round can be played with
const MinPlayers = 2

var (
	// ErrNoValidWinner is returned when every score is over 21
	ErrNoValidWinner = errors.New("no player finished at or under 21")
	// ErrNotStarted is returned when cards are requested before Start
	ErrNotStarted = errors.New("game has not been started")
	// ErrTooFewPlayers is returned when a round is played with fewer than MinPlayers
	ErrTooFewPlayers = errors.New("at least two players are required")
)

// Option configures a Game
type Option func(*Game)

// WithEventBus publishes game events on bus instead of a private one
func WithEventBus(bus EventBus) Option {
	return func(g *Game) { g.bus = bus }
}

// WithClock sets the clock used to timestamp events
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithRNG sets the random source used by Start to shuffle the deck
func WithRNG(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithID sets the game identifier instead of generating one
func WithID(id string) Option {
	return func(g *Game) { g.id = id }
}

// Game owns the roster and the deck for a single round
type Game struct {
	id            string
	playersNumber int
	players       []*Player
	deck          *deck.Deck
	mode          Mode
	rng           *rand.Rand
	bus           EventBus
	clock         quartz.Clock
}

// NewGame creates an empty game in Auto mode
func NewGame(opts ...Option) *Game {
	g := &Game{
		mode: Auto,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.bus == nil {
		g.bus = NewEventBus()
	}
	if g.clock == nil {
		g.clock = quartz.NewReal()
	}
	if g.id == "" {
		g.id = gameid.Generate()
	}
	return g
}

// ID returns the game identifier
func (g *Game) ID() string { return g.id }


// SetPlayersNumber records how many players the driver will register
func (g *Game) SetPlayersNumber(n int) {
	g.playersNumber = n
}

// PlayersNumber returns the expected roster size
func (g *Game) PlayersNumber() int {
	return g.playersNumber
}

// AddPlayer appends a player to the roster. Seats follow insertion order.
func (g *Game) AddPlayer(p *Player) {
	g.players = append(g.players, p)
	g.publish(NewPlayerAddedEvent(g.now(), p.Name, len(g.players)))
}

// Players returns the roster in seat order. The slice is a copy; the
// players are shared.
func (g *Game) Players() []*Player {
	return slices.Clone(g.players)
}

// Player returns the first player with the given name
func (g *Game) Player(name string) (*Player, bool) {
	for _, p := range g.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// SetMode sets how turns are played
func (g *Game) SetMode(mode Mode) {
	g.mode = mode
	g.publish(NewModeChangedEvent(g.now(), mode))
}

// Mode returns the current mode
func (g *Game) Mode() Mode {
	return g.mode
}

// Start builds a fresh deck and shuffles it. Players are left untouched.
func (g *Game) Start() {
	g.StartWithDeck(deck.NewShuffledDeck(g.rng))
}

// StartWithDeck uses d as the round's deck without shuffling it
func (g *Game) StartWithDeck(d *deck.Deck) {
	g.deck = d
	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.Name
	}
	g.publish(NewGameStartedEvent(g.now(), g.id, names, d.Remaining()))
}

// Deck returns the round's deck, or nil before Start
func (g *Game) Deck() *deck.Deck {
	return g.deck
}

// Draw takes the top card of the round's deck
func (g *Game) Draw() (deck.Card, error) {
	if g.deck == nil {
		return deck.Card{}, ErrNotStarted
	}
	return g.deck.Draw()
}

// ActivePlayers returns how many players have not stood
func (g *Game) ActivePlayers() int {
	n := 0
	for _, p := range g.players {
		if p.Plays() {
			n++
		}
	}
	return n
}

// IsOver reports whether any player is bust or nobody is still playing
func (g *Game) IsOver() bool {
	for _, p := range g.players {
		if p.IsBust() {
			return true
		}
	}
	return g.ActivePlayers() == 0
}

// IsLastRound reports whether at most one player is still playing
func (g *Game) IsLastRound() bool {
	return g.ActivePlayers() <= 1
}

// Scores returns each player's score in seat order
func (g *Game) Scores() []int {
	scores := make([]int, len(g.players))
	for i, p := range g.players {
		scores[i] = p.Score()
	}
	return scores
}

// Winner returns the first player in seat order holding the winning score
func (g *Game) Winner() (*Player, int, error) {
	scores := g.Scores()
	win, err := WinScore(scores)
	if err != nil {
		return nil, 0, err
	}
	idx := slices.Index(scores, win)
	return g.players[idx], win, nil
}

// WinScore discards the highest score while it is over 21 and returns the
// first one that is not. Returns ErrNoValidWinner when nothing is left.
func WinScore(scores []int) (int, error) {
	remaining := slices.Clone(scores)
	for len(remaining) > 0 {
		i := maxIndex(remaining)
		if remaining[i] <= BustLimit {
			return remaining[i], nil
		}
		remaining = slices.Delete(remaining, i, i+1)
	}
	return 0, ErrNoValidWinner
}

func maxIndex(xs []int) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func (g *Game) now() time.Time {
	return g.clock.Now()
}

func (g *Game) publish(event GameEvent) {
	g.bus.Publish(event)
}
