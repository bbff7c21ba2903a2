package game

import (
	"reflect"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeGameStarted    EventType = "game_started"
	EventTypePlayerAdded    EventType = "player_added"
	EventTypeModeChanged    EventType = "mode_changed"
	EventTypeTurnStarted    EventType = "turn_started"
	EventTypeCardDrawn      EventType = "card_drawn"
	EventTypePlayerFolded   EventType = "player_folded"
	EventTypePlayerBust     EventType = "player_bust"
	EventTypeWinnerDeclared EventType = "winner_declared"
	EventTypeRoundOver      EventType = "round_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartedEvent is published when the deck has been prepared
type GameStartedEvent struct {
	GameID    string
	Players   []string
	DeckSize  int
	timestamp time.Time
}

func (e GameStartedEvent) EventType() EventType { return EventTypeGameStarted }
func (e GameStartedEvent) Timestamp() time.Time { return e.timestamp }

// NewGameStartedEvent creates a new game started event
func NewGameStartedEvent(at time.Time, gameID string, players []string, deckSize int) GameStartedEvent {
	return GameStartedEvent{
		GameID:    gameID,
		Players:   players,
		DeckSize:  deckSize,
		timestamp: at,
	}
}

// PlayerAddedEvent is published when a player joins the roster
type PlayerAddedEvent struct {
	Player    string
	Seat      int
	timestamp time.Time
}

func (e PlayerAddedEvent) EventType() EventType { return EventTypePlayerAdded }
func (e PlayerAddedEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerAddedEvent creates a new player added event
func NewPlayerAddedEvent(at time.Time, player string, seat int) PlayerAddedEvent {
	return PlayerAddedEvent{Player: player, Seat: seat, timestamp: at}
}

// ModeChangedEvent is published when the game mode is set
type ModeChangedEvent struct {
	Mode      Mode
	timestamp time.Time
}

func (e ModeChangedEvent) EventType() EventType { return EventTypeModeChanged }
func (e ModeChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewModeChangedEvent creates a new mode changed event
func NewModeChangedEvent(at time.Time, mode Mode) ModeChangedEvent {
	return ModeChangedEvent{Mode: mode, timestamp: at}
}

// TurnStartedEvent is published when a player is about to act
type TurnStartedEvent struct {
	Player    string
	Score     int
	Pass      int
	timestamp time.Time
}

func (e TurnStartedEvent) EventType() EventType { return EventTypeTurnStarted }
func (e TurnStartedEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnStartedEvent creates a new turn started event
func NewTurnStartedEvent(at time.Time, player string, score, pass int) TurnStartedEvent {
	return TurnStartedEvent{Player: player, Score: score, Pass: pass, timestamp: at}
}

// CardDrawnEvent is published after a card is added to a player's hand
type CardDrawnEvent struct {
	Player    string
	Card      deck.Card
	Score     int // score after the card
	Remaining int // cards left in the deck
	timestamp time.Time
}

func (e CardDrawnEvent) EventType() EventType { return EventTypeCardDrawn }
func (e CardDrawnEvent) Timestamp() time.Time { return e.timestamp }

// NewCardDrawnEvent creates a new card drawn event
func NewCardDrawnEvent(at time.Time, player string, card deck.Card, score, remaining int) CardDrawnEvent {
	return CardDrawnEvent{
		Player:    player,
		Card:      card,
		Score:     score,
		Remaining: remaining,
		timestamp: at,
	}
}

// PlayerFoldedEvent is published when a player stands
type PlayerFoldedEvent struct {
	Player    string
	Score     int
	timestamp time.Time
}

func (e PlayerFoldedEvent) EventType() EventType { return EventTypePlayerFolded }
func (e PlayerFoldedEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerFoldedEvent creates a new player folded event
func NewPlayerFoldedEvent(at time.Time, player string, score int) PlayerFoldedEvent {
	return PlayerFoldedEvent{Player: player, Score: score, timestamp: at}
}

// PlayerBustEvent is published when a player's score goes over 21
type PlayerBustEvent struct {
	Player    string
	Score     int
	timestamp time.Time
}

func (e PlayerBustEvent) EventType() EventType { return EventTypePlayerBust }
func (e PlayerBustEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerBustEvent creates a new player bust event
func NewPlayerBustEvent(at time.Time, player string, score int) PlayerBustEvent {
	return PlayerBustEvent{Player: player, Score: score, timestamp: at}
}

// WinnerDeclaredEvent is published once the winning score is known
type WinnerDeclaredEvent struct {
	Player    string
	Score     int
	timestamp time.Time
}

func (e WinnerDeclaredEvent) EventType() EventType { return EventTypeWinnerDeclared }
func (e WinnerDeclaredEvent) Timestamp() time.Time { return e.timestamp }

// NewWinnerDeclaredEvent creates a new winner declared event
func NewWinnerDeclaredEvent(at time.Time, player string, score int) WinnerDeclaredEvent {
	return WinnerDeclaredEvent{Player: player, Score: score, timestamp: at}
}

// RoundOverEvent is published when the round ends, with or without a winner
type RoundOverEvent struct {
	GameID    string
	Scores    []int // seat order
	Passes    int
	NoWinner  bool
	timestamp time.Time
}

func (e RoundOverEvent) EventType() EventType { return EventTypeRoundOver }
func (e RoundOverEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundOverEvent creates a new round over event
func NewRoundOverEvent(at time.Time, gameID string, scores []int, passes int, noWinner bool) RoundOverEvent {
	return RoundOverEvent{
		GameID:    gameID,
		Scores:    scores,
		Passes:    passes,
		NoWinner:  noWinner,
		timestamp: at,
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously in subscription order
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events.
// Subscribers whose type cannot be compared, such as functions or structs
// holding slices, cannot be found and are left in place. Subscribe a
// pointer to be able to remove it.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if subscriber == nil || !reflect.TypeOf(subscriber).Comparable() {
		return
	}
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
