// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

var (
	colorGood  = lipgloss.Color("#22C55E")
	colorInfo  = lipgloss.Color("#60A5FA")
	colorWarn  = lipgloss.Color("#F59E0B")
	colorBad   = lipgloss.Color("#EF4444")
	colorTitle = lipgloss.Color("#4A4A8A")
)

var summaryStyles = struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Box    lipgloss.Style
	Status map[types.Status]lipgloss.Style
}{
	Title: lipgloss.NewStyle().Bold(true).Foreground(colorTitle),
	Label: lipgloss.NewStyle().Width(26),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorTitle).
		Padding(0, 1),
	Status: map[types.Status]lipgloss.Style{
		types.StatusVerified:    lipgloss.NewStyle().Foreground(colorGood),
		types.StatusImplemented: lipgloss.NewStyle().Foreground(colorInfo),
		types.StatusTestOnly:    lipgloss.NewStyle().Foreground(colorWarn),
		types.StatusUnverified:  lipgloss.NewStyle().Foreground(colorBad),
	},
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteSummary prints the run summary. Styling is applied only when w is
// a terminal.
func WriteSummary(w io.Writer, rep *types.Report) {
	if IsTerminal(w) {
		fmt.Fprintln(w, styledSummary(rep))
		return
	}
	writePlainSummary(w, rep)
}

func writePlainSummary(w io.Writer, rep *types.Report) {
	stats := rep.Statistics
	fmt.Fprintf(w, "\nFound %d requirements\n", stats.TotalRequirements)
	fmt.Fprintf(w, "  - Safety: %d\n", stats.SafetyRequirements)
	fmt.Fprintf(w, "  - Security: %d\n", stats.SecurityRequirements)
	fmt.Fprintf(w, "  - Implementation coverage: %.1f%%\n", stats.ImplementationCoverage)
	fmt.Fprintf(w, "  - Test coverage: %.1f%%\n", stats.TestCoverage)
	fmt.Fprintf(w, "  - Verification coverage: %.1f%%\n", stats.VerificationCoverage)
	for _, s := range types.Statuses {
		fmt.Fprintf(w, "  %s %-12s %d\n", statusIcon(s), s, stats.ByStatus[s])
	}
	fmt.Fprintf(w, "Scanned %d docs, %d sources, %d test files, %d plans (%d skipped)\n",
		rep.Scanned.Docs, rep.Scanned.Sources, rep.Scanned.Tests, rep.Scanned.Plans, rep.Scanned.Failed)
}

func styledSummary(rep *types.Report) string {
	stats := rep.Statistics
	s := summaryStyles

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render(label), value)
	}

	rows := []string{
		s.Title.Render(fmt.Sprintf("Traceability: %d requirements", stats.TotalRequirements)),
		row("Safety", fmt.Sprint(stats.SafetyRequirements)),
		row("Security", fmt.Sprint(stats.SecurityRequirements)),
		row("Implementation coverage", fmt.Sprintf("%.1f%%", stats.ImplementationCoverage)),
		row("Test coverage", fmt.Sprintf("%.1f%%", stats.TestCoverage)),
		row("Verification coverage", coverageStyle(stats.VerificationCoverage).Render(fmt.Sprintf("%.1f%%", stats.VerificationCoverage))),
		"",
	}
	for _, st := range types.Statuses {
		rows = append(rows, row(
			s.Status[st].Render(statusIcon(st)+" "+string(st)),
			fmt.Sprint(stats.ByStatus[st])))
	}
	if rep.Scanned.Failed > 0 {
		rows = append(rows, "", s.Status[types.StatusTestOnly].Render(
			fmt.Sprintf("⚠ %d artifacts skipped", rep.Scanned.Failed)))
	}

	return s.Box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func coverageStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= 80:
		return summaryStyles.Status[types.StatusVerified]
	case pct >= 50:
		return summaryStyles.Status[types.StatusTestOnly]
	default:
		return summaryStyles.Status[types.StatusUnverified]
	}
}
