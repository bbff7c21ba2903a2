package display

import (
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// LogSubscriber writes every game event to a structured logger at debug
// level. Winners and round ends are logged at info.
type LogSubscriber struct {
	logger *log.Logger
}

// NewLogSubscriber creates a subscriber logging to logger
func NewLogSubscriber(logger *log.Logger) *LogSubscriber {
	return &LogSubscriber{logger: logger}
}

// OnEvent implements game.EventSubscriber
func (l *LogSubscriber) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.GameStartedEvent:
		l.logger.Info("Game started", "game", e.GameID, "players", e.Players, "deck", e.DeckSize)
	case game.PlayerAddedEvent:
		l.logger.Debug("Player added", "player", e.Player, "seat", e.Seat)
	case game.ModeChangedEvent:
		l.logger.Debug("Mode changed", "mode", e.Mode)
	case game.TurnStartedEvent:
		l.logger.Debug("Turn started", "player", e.Player, "score", e.Score, "pass", e.Pass)
	case game.CardDrawnEvent:
		l.logger.Debug("Card drawn", "player", e.Player, "card", e.Card.Short(), "score", e.Score, "remaining", e.Remaining)
	case game.PlayerFoldedEvent:
		l.logger.Debug("Player folded", "player", e.Player, "score", e.Score)
	case game.PlayerBustEvent:
		l.logger.Debug("Player bust", "player", e.Player, "score", e.Score)
	case game.WinnerDeclaredEvent:
		l.logger.Info("Winner declared", "player", e.Player, "score", e.Score)
	case game.RoundOverEvent:
		if e.NoWinner {
			l.logger.Warn("Round over without a winner", "game", e.GameID, "passes", e.Passes)
			return
		}
		l.logger.Info("Round over", "game", e.GameID, "passes", e.Passes)
	default:
		l.logger.Debug("Event", "type", event.EventType())
	}
}
