package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(e GameEvent) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

func (r *eventRecorder) draws() []CardDrawnEvent {
	var out []CardDrawnEvent
	for _, e := range r.events {
		if d, ok := e.(CardDrawnEvent); ok {
			out = append(out, d)
		}
	}
	return out
}

// scripted answers ShouldStand from a queue per player and counts calls
type scripted struct {
	answers map[string][]bool
	calls   map[string]int
}

func newScripted(answers map[string][]bool) *scripted {
	return &scripted{answers: answers, calls: make(map[string]int)}
}

func (s *scripted) ShouldStand(view PlayerView) (bool, error) {
	s.calls[view.Name]++
	q := s.answers[view.Name]
	if len(q) == 0 {
		return false, nil
	}
	s.answers[view.Name] = q[1:]
	return q[0], nil
}

func setupRound(t *testing.T, mode Mode, cards string, names ...string) (*Game, *eventRecorder) {
	t.Helper()
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)

	g := NewGame(WithID("round"), WithEventBus(bus))
	for _, n := range names {
		g.AddPlayer(NewPlayer(n))
	}
	g.StartWithDeck(deck.NewDeckFromCards(deck.MustParseCards(cards)...))
	g.SetMode(mode)
	rec.events = nil
	return g, rec
}

func TestAutoRoundEndsAtFirstBust(t *testing.T) {
	g, rec := setupRound(t, Auto, "10h Ks 9c 5d Ah 3s 4s", "Alice", "Bob")

	result, err := NewEngine(g, nil).PlayRound(context.Background())
	require.NoError(t, err)

	alice, _ := g.Player("Alice")
	bob, _ := g.Player("Bob")

	// pass 1: 10 / 10, pass 2: 19 / 15, pass 3: Alice draws an ace and busts,
	// Bob does not get a card that pass
	assert.Equal(t, 30, alice.Score())
	assert.Equal(t, 15, bob.Score())
	assert.Equal(t, 3, result.Passes)
	assert.Equal(t, 5, result.CardsDrawn)
	assert.Equal(t, 2, g.Deck().Remaining())

	assert.Equal(t, "Bob", result.Winner)
	assert.Equal(t, 15, result.WinScore)
	assert.True(t, result.HasWinner())
	assert.Equal(t, Auto, result.Mode)
	assert.Equal(t, "round", result.GameID)

	require.Len(t, result.Standings, 2)
	assert.True(t, result.Standings[0].Bust)
	assert.False(t, result.Standings[1].Bust)
	assert.False(t, result.Standings[1].Folded)

	var scores []int
	for _, d := range rec.draws() {
		scores = append(scores, d.Score)
	}
	assert.Equal(t, []int{10, 10, 19, 15, 30}, scores)

	types := rec.types()
	assert.Equal(t, EventTypePlayerBust, types[len(types)-3])
	assert.Equal(t, EventTypeWinnerDeclared, types[len(types)-2])
	assert.Equal(t, EventTypeRoundOver, types[len(types)-1])
}

func TestAutoRoundIgnoresAgents(t *testing.T) {
	g, _ := setupRound(t, Auto, "2c 3c 4c 5c Kc Kd Ks Kh", "a", "b")
	agent := newScripted(map[string][]bool{"a": {true}, "b": {true}})

	_, err := NewEngine(g, agent).PlayRound(context.Background())
	require.NoError(t, err)
	assert.Empty(t, agent.calls)
}

func TestManualRoundStandAndBust(t *testing.T) {
	g, rec := setupRound(t, Manual, "10h 9s 7c 5d Kd 2c", "Alice", "Bob")
	agent := newScripted(map[string][]bool{
		"Alice": {false, true},
		"Bob":   {false, false},
	})

	result, err := NewEngine(g, agent).PlayRound(context.Background())
	require.NoError(t, err)

	alice, _ := g.Player("Alice")
	bob, _ := g.Player("Bob")

	assert.Equal(t, 17, alice.Score())
	assert.False(t, alice.Plays())
	assert.Equal(t, 24, bob.Score())
	assert.True(t, bob.IsBust())

	// nobody is asked before they hold a card
	assert.Equal(t, 2, agent.calls["Alice"])
	assert.Equal(t, 2, agent.calls["Bob"])

	assert.Equal(t, "Alice", result.Winner)
	assert.Equal(t, 17, result.WinScore)
	assert.Equal(t, 3, result.Passes)

	assert.Equal(t, []EventType{
		EventTypeTurnStarted, EventTypeCardDrawn, // Alice 10
		EventTypeTurnStarted, EventTypeCardDrawn, // Bob 9
		EventTypeTurnStarted, EventTypeCardDrawn, // Alice 17
		EventTypeTurnStarted, EventTypeCardDrawn, // Bob 14
		EventTypeTurnStarted, EventTypePlayerFolded, // Alice stands
		EventTypeTurnStarted, EventTypeCardDrawn, EventTypePlayerBust, // Bob 24
		EventTypeWinnerDeclared,
		EventTypeRoundOver,
	}, rec.types())
}

func TestManualRoundAllStand(t *testing.T) {
	g, _ := setupRound(t, Manual, "10h 9s 7c 5d 2c 3c", "Alice", "Bob")
	agent := newScripted(map[string][]bool{
		"Alice": {false, true},
		"Bob":   {false, false, true},
	})

	result, err := NewEngine(g, agent).PlayRound(context.Background())
	require.NoError(t, err)

	bob, _ := g.Player("Bob")
	// Bob plays on alone after Alice stands, drawing a 2, then stands
	assert.Equal(t, 16, bob.Score())
	assert.Equal(t, 0, g.ActivePlayers())
	assert.Equal(t, "Alice", result.Winner)
	assert.Equal(t, 17, result.WinScore)
	assert.Equal(t, 4, result.Passes)
	assert.Equal(t, 5, result.CardsDrawn)
}

func TestManualBustSkipsRemainingSeats(t *testing.T) {
	g, _ := setupRound(t, Manual, "As 2c 3d Ad 4h", "a", "b", "c")
	agent := newScripted(nil)

	result, err := NewEngine(g, agent).PlayRound(context.Background())
	require.NoError(t, err)

	b, _ := g.Player("b")
	c, _ := g.Player("c")
	assert.Equal(t, 1, agent.calls["a"])
	assert.Equal(t, 0, agent.calls["b"], "b never acts in the pass where a busts")
	assert.Equal(t, 2, b.Score())
	assert.Equal(t, 3, c.Score())
	assert.Equal(t, "c", result.Winner)
	assert.Equal(t, 1, g.Deck().Remaining())
}

func TestPerPlayerAgents(t *testing.T) {
	g, _ := setupRound(t, Manual, "10h 9s 8c 5d Kd 2c 3c", "human", "bot")
	human := newScripted(map[string][]bool{"human": {true}})

	e := NewEngine(g, human)
	e.SetAgent("bot", ThresholdAgent{Threshold: 20})

	result, err := e.PlayRound(context.Background())
	require.NoError(t, err)

	bot, _ := g.Player("bot")
	// human stands on 10; bot draws 8 to 17, then 5 to 22
	assert.Equal(t, 22, bot.Score())
	assert.Equal(t, "human", result.Winner)
	assert.Equal(t, 0, human.calls["bot"])
}

func TestSeatAgentsWithSharedName(t *testing.T) {
	g, rec := setupRound(t, Manual, "10h 9s 8c 5d Kd 2c 3c", "x", "x")

	e := NewEngine(g, nil)
	e.SetAgent("x", NeverStandAgent{})
	e.SetSeatAgent(0, ThresholdAgent{Threshold: 5})

	result, err := e.PlayRound(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Standings, 2)
	assert.True(t, result.Standings[0].Folded, "seat 0 stands on 10")
	assert.False(t, result.Standings[1].Folded, "seat 1 keeps the shared agent")

	last := rec.events[len(rec.events)-1]
	over, ok := last.(RoundOverEvent)
	require.True(t, ok, "last event is %T", last)
	assert.Equal(t, g.Scores(), over.Scores)
	assert.Len(t, over.Scores, 2)
}

func TestPlayRoundEmptyDeck(t *testing.T) {
	g, _ := setupRound(t, Auto, "2c 2d", "a", "b")

	_, err := NewEngine(g, nil).PlayRound(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, deck.ErrEmptyDeck)
	assert.Contains(t, err.Error(), "draw for a")
}

func TestPlayRoundPreconditions(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		g := newTestGame("a", "b")
		_, err := NewEngine(g, nil).PlayRound(context.Background())
		assert.ErrorIs(t, err, ErrNotStarted)
	})

	t.Run("too few players", func(t *testing.T) {
		g := newTestGame("solo")
		g.Start()
		_, err := NewEngine(g, nil).PlayRound(context.Background())
		assert.ErrorIs(t, err, ErrTooFewPlayers)
	})

	t.Run("cancelled context", func(t *testing.T) {
		g := newTestGame("a", "b")
		g.Start()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewEngine(g, nil).PlayRound(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAgentErrorStopsRound(t *testing.T) {
	g, _ := setupRound(t, Manual, "10h 9s 7c 5d", "a", "b")
	boom := errors.New("input closed")
	agent := AgentFunc(func(PlayerView) (bool, error) { return false, boom })

	_, err := NewEngine(g, agent).PlayRound(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAgentSeesOpponents(t *testing.T) {
	g, _ := setupRound(t, Manual, "10h 9s 7c 5d Kd Kc", "a", "b")
	var seen []PlayerView
	agent := AgentFunc(func(v PlayerView) (bool, error) {
		seen = append(seen, v)
		return true, nil
	})

	_, err := NewEngine(g, agent).PlayRound(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	first := seen[0]
	assert.Equal(t, "a", first.Name)
	assert.Equal(t, 10, first.Score)
	assert.Equal(t, 2, first.Pass)
	require.Len(t, first.Opponents, 1)
	assert.Equal(t, OpponentView{Name: "b", Score: 9, Plays: true}, first.Opponents[0])
}

func TestEventsUseInjectedClock(t *testing.T) {
	clock := quartz.NewMock(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock.Set(at)

	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)

	g := NewGame(WithClock(clock), WithEventBus(bus), WithID("clocked"))
	g.AddPlayer(NewPlayer("a"))
	g.AddPlayer(NewPlayer("b"))
	g.StartWithDeck(deck.NewDeckFromCards(deck.MustParseCards("Ks Kd As Ah Ac")...))

	_, err := NewEngine(g, nil).PlayRound(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, rec.events)
	for _, e := range rec.events {
		assert.Equal(t, at, e.Timestamp(), "event %s", e.EventType())
	}
}
