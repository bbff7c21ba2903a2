// Package transcript records the events of a round and saves them as YAML.
package transcript

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameid"
)

// Entry is one recorded event
type Entry struct {
	At     time.Time `yaml:"at"`
	Type   string    `yaml:"type"`
	Player string    `yaml:"player,omitempty"`
	Card   string    `yaml:"card,omitempty"`
	Score  int       `yaml:"score,omitempty"`
	Text   string    `yaml:"text"`
}

// Standing is a player's final hand
type Standing struct {
	Name   string   `yaml:"name"`
	Score  int      `yaml:"score"`
	Cards  []string `yaml:"cards"`
	Folded bool     `yaml:"folded,omitempty"`
	Bust   bool     `yaml:"bust,omitempty"`
}

// Transcript is the document written to disk
type Transcript struct {
	GameID    string     `yaml:"game_id"`
	Seed      int64      `yaml:"seed,omitempty"`
	Mode      string     `yaml:"mode"`
	Players   []string   `yaml:"players"`
	Winner    string     `yaml:"winner,omitempty"`
	WinScore  int        `yaml:"win_score,omitempty"`
	Passes    int        `yaml:"passes"`
	Standings []Standing `yaml:"standings,omitempty"`
	Events    []Entry    `yaml:"events"`
}

// Recorder is an event subscriber that builds a Transcript
type Recorder struct {
	formatter *game.EventFormatter
	doc       Transcript
}

// NewRecorder creates a recorder. seed is stored so the round can be replayed.
func NewRecorder(seed int64) *Recorder {
	return &Recorder{
		formatter: game.NewEventFormatter(game.FormattingOptions{ShowPass: true}),
		doc: Transcript{
			Seed: seed,
			Mode: game.Auto.String(),
		},
	}
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.GameEvent) {
	entry := Entry{
		At:   event.Timestamp(),
		Type: event.EventType().String(),
		Text: r.formatter.Format(event),
	}

	switch e := event.(type) {
	case game.GameStartedEvent:
		r.doc.GameID = e.GameID
		r.doc.Players = append([]string(nil), e.Players...)
	case game.PlayerAddedEvent:
		entry.Player = e.Player
	case game.ModeChangedEvent:
		r.doc.Mode = e.Mode.String()
	case game.TurnStartedEvent:
		entry.Player, entry.Score = e.Player, e.Score
	case game.CardDrawnEvent:
		entry.Player, entry.Score = e.Player, e.Score
		entry.Card = e.Card.String()
	case game.PlayerFoldedEvent:
		entry.Player, entry.Score = e.Player, e.Score
	case game.PlayerBustEvent:
		entry.Player, entry.Score = e.Player, e.Score
	case game.WinnerDeclaredEvent:
		entry.Player, entry.Score = e.Player, e.Score
		r.doc.Winner, r.doc.WinScore = e.Player, e.Score
	case game.RoundOverEvent:
		r.doc.Passes = e.Passes
	}

	r.doc.Events = append(r.doc.Events, entry)
}

// SetResult adds the final standings of a finished round
func (r *Recorder) SetResult(result *game.RoundResult) {
	if result == nil {
		return
	}
	r.doc.Standings = r.doc.Standings[:0]
	for _, st := range result.Standings {
		cards := make([]string, len(st.Cards))
		for i, c := range st.Cards {
			cards[i] = c.String()
		}
		r.doc.Standings = append(r.doc.Standings, Standing{
			Name:   st.Name,
			Score:  st.Score,
			Cards:  cards,
			Folded: st.Folded,
			Bust:   st.Bust,
		})
	}
}

// Transcript returns what has been recorded so far
func (r *Recorder) Transcript() Transcript {
	return r.doc
}

// Encode writes the transcript as YAML
func (t Transcript) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile saves the transcript to path, replacing any previous file atomically
func (r *Recorder) WriteFile(path string) error {
	doc := r.Transcript()
	if err := fileutil.WriteAtomic(path, 0o644, doc.Encode); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// ReadFile loads a transcript written by WriteFile
func ReadFile(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var t Transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	if err := gameid.Validate(t.GameID); err != nil {
		return nil, fmt.Errorf("transcript %s: %w", path, err)
	}
	return &t, nil
}
