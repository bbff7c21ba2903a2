// Package prompt reads answers from a line-oriented terminal.
//
// Questions are served by a single inline Bubble Tea program that owns the
// input for the prompter's lifetime. It runs without a renderer, so the
// terminal stays in cooked mode and echoes what is typed. Answers are
// checked when Enter is pressed and the question is asked again until one
// is accepted. End of input is reported as ErrNoInput since nobody is left
// to answer.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// ErrNoInput is returned when input ends before a question is answered
var ErrNoInput = errors.New("no more input")

const (
	// InvalidChoice is shown when a 0/1 answer is not an integer
	InvalidChoice = "Invalid answer. Choose 0 or 1."
	// InvalidInteger is shown when a count is not an integer
	InvalidInteger = "Invalid answer. Provide an integer."
)

// Prompter asks questions on out and reads answers from in
type Prompter struct {
	program *tea.Program
	done    chan struct{}

	QuestionStyle lipgloss.Style
	ErrorStyle    lipgloss.Style
}

// New creates a prompter and starts the program reading in. Call Close to
// stop it. A nil logger discards diagnostics.
func New(in io.Reader, out io.Writer, logger *log.Logger) *Prompter {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	p := &Prompter{
		done:          make(chan struct{}),
		QuestionStyle: lipgloss.NewStyle(),
		ErrorStyle:    lipgloss.NewStyle(),
	}
	input := &eofReader{r: in}
	p.program = tea.NewProgram(newModel(out, logger),
		tea.WithInput(input),
		tea.WithOutput(out),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	input.onEOF = func() { p.program.Send(inputClosedMsg{}) }

	go func() {
		defer close(p.done)
		if _, err := p.program.Run(); err != nil {
			logger.Debug("Prompt program stopped", "error", err)
		}
	}()
	return p
}

// Close stops the program and waits for it to exit
func (p *Prompter) Close() {
	p.program.Quit()
	<-p.done
}

// ask sends a question to the program and waits for an accepted answer
func (p *Prompter) ask(ctx context.Context, question string, check checkFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reply := make(chan answer, 1)
	p.program.Send(askMsg{
		text:     question,
		question: p.QuestionStyle.Render(question),
		invalid:  p.ErrorStyle,
		check:    check,
		reply:    reply,
	})

	select {
	case a := <-reply:
		return a.text, a.err
	case <-ctx.Done():
		p.program.Send(interruptMsg{})
		return "", ctx.Err()
	case <-p.done:
		// an answer may have landed just before the program exited
		select {
		case a := <-reply:
			return a.text, a.err
		default:
			return "", ErrNoInput
		}
	}
}

// Line asks question and returns the trimmed answer
func (p *Prompter) Line(ctx context.Context, question string) (string, error) {
	return p.ask(ctx, question, nil)
}

// Int asks question until the answer is an integer, printing invalid after
// each bad answer
func (p *Prompter) Int(ctx context.Context, question, invalid string) (int, error) {
	text, err := p.ask(ctx, question, checkInt(invalid, nil))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(text)
}

// Choice asks a 0/1 question. Any non-zero integer counts as yes.
func (p *Prompter) Choice(ctx context.Context, question string) (bool, error) {
	n, err := p.Int(ctx, question, InvalidChoice)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// PlayersNumber asks for the number of players until it is at least min
func (p *Prompter) PlayersNumber(ctx context.Context, min int) (int, error) {
	text, err := p.ask(ctx, "Enter number of players: ", checkInt(InvalidInteger, func(n int) string {
		if n < min {
			return fmt.Sprintf("At least %d players are needed.", min)
		}
		return ""
	}))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(text)
}

// Name asks for a player's name until it is non-blank and accepted by taken
// returning false. taken may be nil.
func (p *Prompter) Name(ctx context.Context, taken func(string) bool) (string, error) {
	return p.ask(ctx, "Enter player's name: ", func(name string) string {
		switch {
		case name == "":
			return "Name cannot be empty."
		case taken != nil && taken(name):
			return fmt.Sprintf("%s is already playing.", name)
		}
		return ""
	})
}

// checkInt accepts integers that also pass extra, which may be nil
func checkInt(invalid string, extra func(int) string) checkFunc {
	return func(text string) string {
		n, err := strconv.Atoi(text)
		if err != nil {
			return invalid
		}
		if extra != nil {
			return extra(n)
		}
		return ""
	}
}

// eofReader tells the program when input runs out. Bytes returned together
// with io.EOF are handed over first so none are dropped.
type eofReader struct {
	r        io.Reader
	onEOF    func()
	eof      bool
	notified bool
}

func (e *eofReader) Read(b []byte) (int, error) {
	if !e.eof {
		n, err := e.r.Read(b)
		if !errors.Is(err, io.EOF) {
			return n, err
		}
		e.eof = true
		if n > 0 {
			return n, nil
		}
	}
	if !e.notified {
		e.notified = true
		e.onEOF()
	}
	return 0, io.EOF
}
