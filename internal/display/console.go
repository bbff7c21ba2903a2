package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
)

// Console prints game events for the people at the table
type Console struct {
	out       io.Writer
	styles    Styles
	formatter *game.EventFormatter
}

// NewConsole creates a console subscriber writing to out
func NewConsole(out io.Writer, styles Styles, opts game.FormattingOptions) *Console {
	return &Console{
		out:       out,
		styles:    styles,
		formatter: game.NewEventFormatter(opts),
	}
}

// OnEvent implements game.EventSubscriber
func (c *Console) OnEvent(event game.GameEvent) {
	line := c.formatter.Format(event)
	fmt.Fprintln(c.out, c.styleFor(event).Render(line))
}

func (c *Console) styleFor(event game.GameEvent) lipgloss.Style {
	switch e := event.(type) {
	case game.TurnStartedEvent:
		return c.styles.Turn
	case game.CardDrawnEvent:
		if e.Card.IsRed() {
			return c.styles.RedCard
		}
		return c.styles.BlackCard
	case game.PlayerFoldedEvent:
		return c.styles.Fold
	case game.PlayerBustEvent:
		return c.styles.Bust
	case game.WinnerDeclaredEvent:
		return c.styles.Winner
	default:
		return c.styles.Info
	}
}

// Banner prints the title line
func (c *Console) Banner(title string) {
	fmt.Fprintln(c.out, c.styles.Title.Render(" "+title+" "))
	fmt.Fprintln(c.out)
}

// Standings prints every player's final hand
func (c *Console) Standings(result *game.RoundResult) {
	if result == nil || len(result.Standings) == 0 {
		return
	}
	fmt.Fprintln(c.out)
	for _, line := range strings.Split(strings.TrimRight(c.formatter.FormatStandings(result), "\n"), "\n") {
		fmt.Fprintln(c.out, c.styles.Muted.Render(line))
	}
}

// ReportInfo describes the run a report belongs to
type ReportInfo struct {
	RunID   string
	Seed    int64
	Players int
	Mode    game.Mode
	Agent   string
}

// Report renders simulation statistics
func (c *Console) Report(info ReportInfo, stats *statistics.Statistics) {
	fmt.Fprintln(c.out, RenderReport(c.styles, info, stats))
}

// RenderReport formats simulation statistics as a block of labelled rows
func RenderReport(s Styles, info ReportInfo, stats *statistics.Statistics) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render(label), s.Info.Render(value))
	}

	mode := info.Mode.String()
	if info.Mode == game.Manual && info.Agent != "" {
		mode += " (" + info.Agent + ")"
	}

	rows := []string{
		s.Title.Render(" Simulation results "),
		"",
		row("Run", info.RunID),
		row("Seed", fmt.Sprint(info.Seed)),
		row("Mode", mode),
		row("Rounds", fmt.Sprint(stats.Rounds)),
		row("No winner", fmt.Sprintf("%d (%.1f%%)", stats.NoWinner, pct(stats.NoWinner, stats.Rounds))),
		row("Winning score", fmt.Sprintf("%.2f avg, %.2f sd, %.0f median", stats.Mean(), stats.StdDev(), stats.Median())),
		row("Passes", fmt.Sprintf("%.2f per round", stats.AvgPasses())),
		row("Bust rate", fmt.Sprintf("%.1f%%", stats.BustRate()*100)),
		"",
	}
	for seat := 0; seat < info.Players; seat++ {
		wins := 0
		if seat < len(stats.Wins) {
			wins = stats.Wins[seat]
		}
		rows = append(rows, row(fmt.Sprintf("Seat %d", seat+1),
			fmt.Sprintf("%d wins (%.1f%%)", wins, stats.WinRate(seat)*100)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
