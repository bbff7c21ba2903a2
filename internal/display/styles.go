package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles used by the console, prompts and reports. They are bound to a
// renderer for one output so color detection follows that writer.
type Styles struct {
	Title     lipgloss.Style
	Info      lipgloss.Style
	Turn      lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Fold      lipgloss.Style
	Bust      lipgloss.Style
	Winner    lipgloss.Style
	Question  lipgloss.Style
	Error     lipgloss.Style
	Label     lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles builds styles for w. With color disabled every style renders
// plain text.
func NewStyles(w io.Writer, color bool) Styles {
	var r *lipgloss.Renderer
	if color {
		r = lipgloss.NewRenderer(w)
	} else {
		r = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	}

	return Styles{
		Title: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		Turn: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")),
		RedCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: r.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")).
			Bold(true),
		Fold: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")),
		Bust: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Winner: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Question: r.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		Label: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Width(18),
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}
