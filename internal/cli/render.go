package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordgrid/internal/utils"
	"github.com/bastiangx/wordgrid/pkg/search"
	"github.com/charmbracelet/lipgloss"
)

// Display controls how matches are printed.
type Display struct {
	Color      bool
	ShowWeight bool
}

// Printer renders ranked matches to one writer.
type Printer struct {
	out     io.Writer
	display Display

	header lipgloss.Style
	rank   lipgloss.Style
	word   lipgloss.Style
	weight lipgloss.Style
	empty  lipgloss.Style
}

// NewPrinter styles output for out. Colors are only emitted when enabled
// and out is a terminal that supports them.
func NewPrinter(out io.Writer, display Display) *Printer {
	r := lipgloss.NewRenderer(out)
	p := &Printer{
		out:     out,
		display: display,
		header:  r.NewStyle(),
		rank:    r.NewStyle(),
		word:    r.NewStyle(),
		weight:  r.NewStyle(),
		empty:   r.NewStyle(),
	}
	if display.Color {
		p.header = p.header.Bold(true).Foreground(lipgloss.Color("#B4BEFE"))
		p.rank = p.rank.Foreground(lipgloss.Color("#6C7086"))
		p.word = p.word.Foreground(lipgloss.Color("75"))
		p.weight = p.weight.Foreground(lipgloss.Color("#A6E3A1"))
		p.empty = p.empty.Italic(true).Foreground(lipgloss.Color("#F38BA8"))
	}
	return p
}

// Print writes matches, best first, with their rank.
func (p *Printer) Print(matches []search.Match, candidates int, elapsed time.Duration) {
	if len(matches) == 0 {
		fmt.Fprintln(p.out, p.empty.Render(
			fmt.Sprintf("No matches among %s candidates", utils.FormatWithCommas(candidates))))
		return
	}

	fmt.Fprintln(p.out, p.header.Render(
		fmt.Sprintf("Found %d matches among %s candidates in %v:",
			len(matches), utils.FormatWithCommas(candidates), elapsed.Round(time.Microsecond))))

	width := 0
	for _, m := range matches {
		width = max(width, lipgloss.Width(m.Word))
	}
	for i, m := range matches {
		line := p.rank.Render(fmt.Sprintf("%3d.", i+1)) + " " + p.word.Render(m.Word)
		if p.display.ShowWeight {
			pad := width - lipgloss.Width(m.Word)
			line += fmt.Sprintf("%*s  ", pad, "") + p.weight.Render(fmt.Sprintf("(weight: %s)", utils.FormatWithCommas(m.Weight)))
		}
		fmt.Fprintln(p.out, line)
	}
}
