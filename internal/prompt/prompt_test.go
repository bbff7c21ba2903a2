package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(t *testing.T, input string) (*Prompter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	p := New(strings.NewReader(input), &out, nil)
	t.Cleanup(p.Close)
	return p, &out
}

func TestIntReprompts(t *testing.T) {
	p, out := newTestPrompter(t, "yes\n\n2.5\n7\n")

	n, err := p.Int(context.Background(), "Pick: ", InvalidInteger)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	assert.Equal(t, 4, strings.Count(out.String(), "Pick:"))
	assert.Equal(t, 3, strings.Count(out.String(), InvalidInteger))
}

func TestChoice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"zero is no", "0\n", false},
		{"one is yes", "1\n", true},
		{"other integers are yes", "5\n", true},
		{"negative is yes", "-1\n", true},
		{"padded", "  1  \n", true},
		{"no trailing newline", "1", true},
		{"bad then good", "y\n0\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(t, tt.input)
			got, err := p.Choice(context.Background(), "Do you fold? 0 [no] | 1 [yes] ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChoiceInvalidMessage(t *testing.T) {
	p, out := newTestPrompter(t, "maybe\n1\n")
	_, err := p.Choice(context.Background(), "? ")
	require.NoError(t, err)
	assert.Contains(t, out.String(), InvalidChoice)
}

func TestEndOfInput(t *testing.T) {
	p, _ := newTestPrompter(t, "nope\n")
	_, err := p.Choice(context.Background(), "? ")
	assert.ErrorIs(t, err, ErrNoInput)

	p, _ = newTestPrompter(t, "")
	_, err = p.Name(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestCancelledWhileWaiting(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	p := New(r, &out, nil)
	t.Cleanup(p.Close)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := p.Choice(ctx, "? ")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = p.Choice(context.Background(), "? ")
	assert.ErrorIs(t, err, ErrNoInput, "the prompter is stopped after an interrupt")
}

func TestCancelledBeforeAsking(t *testing.T) {
	p, out := newTestPrompter(t, "1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Choice(ctx, "? ")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestWindowsLineEndings(t *testing.T) {
	p, _ := newTestPrompter(t, "3\r\nAlice\r\n")

	n, err := p.Int(context.Background(), "? ", InvalidInteger)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	name, err := p.Name(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestAnswersQueuedAcrossQuestions(t *testing.T) {
	p, _ := newTestPrompter(t, "2\nAnn\n0\n")
	ctx := context.Background()

	n, err := p.PlayersNumber(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	name, err := p.Name(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ann", name)

	yes, err := p.Choice(ctx, "? ")
	require.NoError(t, err)
	assert.False(t, yes)
}

func typeLine(m *model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestModelStaysOnQuestionUntilValid(t *testing.T) {
	var out bytes.Buffer
	m := newModel(&out, log.New(io.Discard))

	reply := make(chan answer, 1)
	m.Update(askMsg{
		text:     "Pick: ",
		question: "Pick: ",
		invalid:  lipgloss.NewStyle(),
		check:    checkInt(InvalidChoice, nil),
		reply:    reply,
	})

	typeLine(m, "abc")
	assert.Empty(t, reply)
	assert.Equal(t, "Pick: "+InvalidChoice+"\nPick: ", out.String())

	typeLine(m, "1")
	require.Len(t, reply, 1)
	assert.Equal(t, answer{text: "1"}, <-reply)
	assert.Nil(t, m.current)
}

func TestModelKeepsLinesTypedEarly(t *testing.T) {
	m := newModel(io.Discard, log.New(io.Discard))
	typeLine(m, "Bob")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Al")})
	m.Update(inputClosedMsg{})

	replies := make([]chan answer, 3)
	for i := range replies {
		replies[i] = make(chan answer, 1)
		m.Update(askMsg{reply: replies[i]})
	}

	assert.Equal(t, answer{text: "Bob"}, <-replies[0])
	assert.Equal(t, answer{text: "Al"}, <-replies[1], "a partly typed line is the last answer")
	assert.Equal(t, answer{err: ErrNoInput}, <-replies[2])
}

func TestPlayersNumber(t *testing.T) {
	p, out := newTestPrompter(t, "two\n1\n3\n")
	n, err := p.PlayersNumber(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, out.String(), InvalidInteger)
	assert.Contains(t, out.String(), "At least 2 players are needed.")
}

func TestName(t *testing.T) {
	p, out := newTestPrompter(t, "\nBob\n  Alice  \n")
	taken := func(name string) bool { return name == "Bob" }

	name, err := p.Name(context.Background(), taken)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
	assert.Contains(t, out.String(), "Name cannot be empty.")
	assert.Contains(t, out.String(), "Bob is already playing.")
}

func TestModelInterruptQuits(t *testing.T) {
	var out bytes.Buffer
	m := newModel(&out, log.New(io.Discard))
	m.Update(askMsg{question: "? ", reply: make(chan answer, 1)})

	_, cmd := m.Update(interruptMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.current)
	assert.Equal(t, "? \n", out.String())
}
