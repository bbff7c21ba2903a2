package transcript

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

const testGameID = "01HZX5TESTR0VND0000000000A"

func playRecordedRound(t *testing.T, rec *Recorder, at time.Time) *game.RoundResult {
	t.Helper()
	clock := quartz.NewMock(t)
	clock.Set(at)

	bus := game.NewEventBus()
	bus.Subscribe(rec)

	g := game.NewGame(game.WithEventBus(bus), game.WithClock(clock), game.WithID(testGameID))
	g.AddPlayer(game.NewPlayer("Alice"))
	g.AddPlayer(game.NewPlayer("Bob"))
	g.StartWithDeck(deck.NewDeckFromCards(deck.MustParseCards("10h Ks 9c 5d Ah 3s 4s")...))
	g.SetMode(game.Auto)

	result, err := game.NewEngine(g, nil).PlayRound(context.Background())
	require.NoError(t, err)
	rec.SetResult(result)
	return result
}

func TestRecorderCollectsRound(t *testing.T) {
	rec := NewRecorder(99)
	playRecordedRound(t, rec, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	doc := rec.Transcript()
	assert.Equal(t, testGameID, doc.GameID)
	assert.Equal(t, int64(99), doc.Seed)
	assert.Equal(t, "AUTO", doc.Mode)
	assert.Equal(t, []string{"Alice", "Bob"}, doc.Players)
	assert.Equal(t, "Bob", doc.Winner)
	assert.Equal(t, 15, doc.WinScore)
	assert.Equal(t, 3, doc.Passes)

	require.Len(t, doc.Standings, 2)
	assert.Equal(t, []string{"10 Hearts", "9 Clubs", "A Hearts"}, doc.Standings[0].Cards)
	assert.True(t, doc.Standings[0].Bust)

	first, last := doc.Events[0], doc.Events[len(doc.Events)-1]
	assert.Equal(t, "player_added", first.Type)
	assert.Equal(t, "Player Alice was added.", first.Text)
	assert.Equal(t, "round_over", last.Type)

	var drawn []string
	for _, e := range doc.Events {
		if e.Type == "card_drawn" {
			drawn = append(drawn, e.Card)
		}
	}
	assert.Equal(t, []string{"10 Hearts", "K Spades", "9 Clubs", "5 Diamonds", "A Hearts"}, drawn)
}

func TestWriteAndReadFile(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecorder(7)
	playRecordedRound(t, rec, at)

	path := filepath.Join(t.TempDir(), "round.yaml")
	require.NoError(t, rec.WriteFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "game_id: "+testGameID+"\n"), "unexpected header:\n%s", raw)
	assert.Contains(t, string(raw), "The winner is Bob[15].")

	got, err := ReadFile(path)
	require.NoError(t, err)

	want := rec.Transcript()
	assert.Equal(t, want.GameID, got.GameID)
	assert.Equal(t, want.Winner, got.Winner)
	assert.Equal(t, want.Standings, got.Standings)
	require.Len(t, got.Events, len(want.Events))
	for i := range want.Events {
		assert.True(t, want.Events[i].At.Equal(got.Events[i].At), "event %d time", i)
		assert.Equal(t, want.Events[i].Text, got.Events[i].Text)
	}
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	badID := filepath.Join(t.TempDir(), "bad-id.yaml")
	require.NoError(t, os.WriteFile(badID, []byte("game_id: not-an-id\nmode: AUTO\n"), 0o644))
	_, err = ReadFile(badID)
	assert.ErrorContains(t, err, "game ID must be exactly 26 characters")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("events: [unterminated"), 0o644))
	_, err = ReadFile(bad)
	assert.Error(t, err)
}
