// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// WriteMarkdown writes the summary table, one traceability matrix per
// category, the unverified list, and the test coverage table.
func WriteMarkdown(w io.Writer, rep *types.Report) error {
	var b strings.Builder
	stats := rep.Statistics

	b.WriteString("# Traceability Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.Format(timeLayout))

	b.WriteString("## Summary Statistics\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Total Requirements | %d |\n", stats.TotalRequirements)
	fmt.Fprintf(&b, "| Safety Requirements | %d |\n", stats.SafetyRequirements)
	fmt.Fprintf(&b, "| Security Requirements | %d |\n", stats.SecurityRequirements)
	fmt.Fprintf(&b, "| Implementation Coverage | %.1f%% |\n", stats.ImplementationCoverage)
	fmt.Fprintf(&b, "| Test Coverage | %.1f%% |\n", stats.TestCoverage)
	fmt.Fprintf(&b, "| Verification Coverage | %.1f%% |\n", stats.VerificationCoverage)

	b.WriteString("\n## Requirements Traceability Matrix\n")
	for _, c := range types.Categories {
		fmt.Fprintf(&b, "\n### %s Requirements\n\n", categoryLabel(c))
		b.WriteString("| Req ID | Status | Implementations | Tests |\n")
		b.WriteString("|--------|--------|-----------------|-------|\n")
		for _, req := range rep.RequirementsByCategory(c) {
			fmt.Fprintf(&b, "| %s | %s %s | %d | %d |\n",
				req.ID, statusIcon(req.Status), req.Status, len(req.Implementations), len(req.Tests))
		}
	}

	b.WriteString("\n## Unverified Requirements\n\n")
	unverified := rep.RequirementsByStatus(types.StatusUnverified)
	if len(unverified) == 0 {
		b.WriteString("None - all requirements are at least partially traced.\n")
	}
	for _, req := range unverified {
		fmt.Fprintf(&b, "- **%s**: %s\n", req.ID, req.Title)
	}

	b.WriteString("\n## Test Coverage\n\n")
	b.WriteString("| Test ID | Requirements Covered | Result |\n")
	b.WriteString("|---------|----------------------|--------|\n")
	for _, tc := range rep.Tests {
		reqs := "None"
		if len(tc.RequirementIDs) > 0 {
			reqs = strings.Join(tc.RequirementIDs, ", ")
		}
		result := string(tc.Result)
		if result == "" {
			result = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", tc.ID, reqs, result)
	}

	if len(rep.Warnings) > 0 {
		b.WriteString("\n## Skipped Artifacts\n\n")
		for _, warn := range rep.Warnings {
			fmt.Fprintf(&b, "- `%s`: %s\n", warn.Path, warn.Error)
		}
	}

	b.WriteString("\n---\n*Report generated by traceability*\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func categoryLabel(c types.Category) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
