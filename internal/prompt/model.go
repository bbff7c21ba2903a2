package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// checkFunc returns the message to show for a rejected answer, or "" to
// accept it
type checkFunc func(text string) string

type answer struct {
	text string
	err  error
}

// askMsg puts a question to the model. The accepted answer, or ErrNoInput,
// is delivered once on reply.
type askMsg struct {
	text     string
	question string
	invalid  lipgloss.Style
	check    checkFunc
	reply    chan<- answer
}

// inputClosedMsg reports that nothing more will be typed
type inputClosedMsg struct{}

// interruptMsg abandons the pending question and stops the program
type interruptMsg struct{}

// model collects typed lines and hands them to the pending question. Lines
// typed before a question arrives are kept for it.
type model struct {
	out    io.Writer
	logger *log.Logger
	input  textinput.Model

	lines   []string
	current *askMsg
	closed  bool
	afterCR bool
}

func newModel(out io.Writer, logger *log.Logger) *model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorHide)
	ti.Focus()

	return &model{
		out:    out,
		logger: logger.WithPrefix("prompt"),
		input:  ti,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case askMsg:
		m.current = &msg
		fmt.Fprint(m.out, msg.question)
		m.serve()
		return m, nil

	case inputClosedMsg:
		m.closeInput()
		return m, nil

	case interruptMsg:
		if m.current != nil {
			fmt.Fprintln(m.out)
			m.current = nil
		}
		return m, tea.Quit

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "enter", "ctrl+j":
			// a CRLF line ending arrives as enter then ctrl+j
			if key == "ctrl+j" && m.afterCR {
				m.afterCR = false
				return m, nil
			}
			m.afterCR = key == "enter"
			m.lines = append(m.lines, m.input.Value())
			m.input.Reset()
			m.serve()
			return m, nil
		case "ctrl+c", "ctrl+d":
			m.closeInput()
			return m, nil
		}
		m.afterCR = false
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View is never drawn; the program runs without a renderer
func (m *model) View() string {
	return ""
}

// closeInput treats a partly typed line as the last answer
func (m *model) closeInput() {
	if m.closed {
		return
	}
	m.closed = true
	if value := m.input.Value(); value != "" {
		m.lines = append(m.lines, value)
		m.input.Reset()
	}
	m.serve()
}

// serve answers the pending question from the collected lines, asking again
// after each rejected one
func (m *model) serve() {
	for m.current != nil && len(m.lines) > 0 {
		text := strings.TrimSpace(m.lines[0])
		m.lines = m.lines[1:]

		if m.current.check != nil {
			if problem := m.current.check(text); problem != "" {
				m.logger.Debug("Rejected answer", "question", strings.TrimSpace(m.current.text), "answer", text)
				fmt.Fprintln(m.out, m.current.invalid.Render(problem))
				fmt.Fprint(m.out, m.current.question)
				continue
			}
		}
		m.current.reply <- answer{text: text}
		m.current = nil
	}

	if m.current != nil && m.closed {
		m.current.reply <- answer{err: ErrNoInput}
		m.current = nil
	}
}
