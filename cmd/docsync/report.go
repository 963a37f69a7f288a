package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"docsync/internal/domain"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5A00D"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// colorEnabled is resolved once: styling is for humans at a terminal, not
// for piped output.
var colorEnabled = term.IsTerminal(int(os.Stdout.Fd()))

func paint(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// printSummary writes the per-source report and aggregate counts, plus an
// itemized failure list sufficient to diagnose without consulting logs.
func printSummary(out io.Writer, s *domain.Summary) {
	for _, o := range s.Outcomes {
		if o.Success {
			fmt.Fprintf(out, "%s %s %s\n", paint(okStyle, "✓"), o.URL, paint(dimStyle, "→ "+o.Output))
		} else {
			fmt.Fprintf(out, "%s %s %s\n", paint(failStyle, "✗"), o.URL, paint(dimStyle, "(fallback written)"))
		}
	}

	fmt.Fprintf(out, "\nSynchronized %d/%d sources", s.Succeeded, s.Total)
	if s.Failed > 0 {
		fmt.Fprintf(out, " (%s)", paint(warnStyle, fmt.Sprintf("%d failed", s.Failed)))
	}
	fmt.Fprintln(out)

	if failures := s.Failures(); len(failures) > 0 {
		fmt.Fprintln(out, "\nFailed sources:")
		for _, o := range failures {
			fmt.Fprintf(out, "  %s %s: %s\n", paint(failStyle, "-"), o.URL, o.Error)
		}
	}
}
