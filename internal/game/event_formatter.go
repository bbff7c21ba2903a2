package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are rendered
type FormattingOptions struct {
	ShowDeckCount bool // append cards left after each draw
	ShowPass      bool // include the pass number on turn lines
}

// EventFormatter renders game events as the lines shown to players
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders any event. Unknown events render as their type name.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case GameStartedEvent:
		return "The blackjack game has been started."
	case PlayerAddedEvent:
		return fmt.Sprintf("Player %s was added.", e.Player)
	case ModeChangedEvent:
		return fmt.Sprintf("Game mode has been changed to %s.", e.Mode)
	case TurnStartedEvent:
		return ef.FormatTurnStarted(e)
	case CardDrawnEvent:
		return ef.FormatCardDrawn(e)
	case PlayerFoldedEvent:
		return fmt.Sprintf("%s folded. The last draw.", e.Player)
	case PlayerBustEvent:
		return fmt.Sprintf("%s[%d] lost.", e.Player, e.Score)
	case WinnerDeclaredEvent:
		return fmt.Sprintf("The winner is %s[%d].", e.Player, e.Score)
	case RoundOverEvent:
		return ef.FormatRoundOver(e)
	default:
		return event.EventType().String()
	}
}

// FormatTurnStarted formats a turn start
func (ef *EventFormatter) FormatTurnStarted(e TurnStartedEvent) string {
	line := fmt.Sprintf("Currently playing: %s[%d].", e.Player, e.Score)
	if ef.opts.ShowPass {
		line = fmt.Sprintf("Pass %d. %s", e.Pass, line)
	}
	return line
}

// FormatCardDrawn formats a draw with the player's new score
func (ef *EventFormatter) FormatCardDrawn(e CardDrawnEvent) string {
	line := fmt.Sprintf("%q has been drawn. %s's scores: %d.", e.Card.String(), e.Player, e.Score)
	if ef.opts.ShowDeckCount {
		line += fmt.Sprintf(" (%d left)", e.Remaining)
	}
	return line
}

// FormatRoundOver formats the end of the round
func (ef *EventFormatter) FormatRoundOver(e RoundOverEvent) string {
	if e.NoWinner {
		return "The game is over. Every player went over 21, there is no winner."
	}
	return "The game is over."
}

// FormatStandings renders the final table, one player per line
func (ef *EventFormatter) FormatStandings(result *RoundResult) string {
	var b strings.Builder
	for _, s := range result.Standings {
		cards := make([]string, len(s.Cards))
		for i, c := range s.Cards {
			cards[i] = c.Short()
		}
		status := "stands"
		switch {
		case s.Bust:
			status = "bust"
		case !s.Folded:
			status = "playing"
		}
		fmt.Fprintf(&b, "%-12s %2d  %-8s [%s]\n", s.Name, s.Score, status, strings.Join(cards, " "))
	}
	return b.String()
}
