// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/traceability-engine/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded analysis runs",
	Long: `History lists the most recent analysis runs recorded by analyze, newest
first, with their coverage figures. Use --requirement to follow one
requirement's status across runs.`,
	SilenceUsage: true,
	RunE:         runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().String("requirement", "", "show the status trail of one requirement ID")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("history-db", "", "run history database (default <output>/history.db)")
	historyCmd.Flags().StringP("output", "o", defaultOutputDir, "report output directory holding history.db")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	reqID, _ := cmd.Flags().GetString("requirement")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	dbPath := historyPath(cmd)
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if reqID != "" {
		entries, err := store.RequirementHistory(cmd.Context(), reqID, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, entries)
		}
		return formatStatusTrail(out, reqID, entries)
	}

	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, runs)
	}
	return formatRuns(out, runs)
}

// historyPath resolves the database from --history-db, then the config
// file, then the output directory.
func historyPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("history-db"); p != "" {
		return p
	}
	if p := viper.GetString("history.db"); p != "" {
		return p
	}
	output := viper.GetString("report.output")
	if cmd.Flags().Changed("output") {
		output, _ = cmd.Flags().GetString("output")
	}
	return filepath.Join(output, history.FileName)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatRuns(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-8s  %-6s  %-9s  %-9s  %-9s  %s\n",
		"Generated", "Run", "Reqs", "Verified", "Impl", "Tested", "Skipped")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Fprintf(w, "%-19s  %-8s  %-6d  %-9s  %-9s  %-9s  %d\n",
			r.GeneratedAt.Local().Format("2006-01-02 15:04:05"), r.ID[:8], r.TotalRequirements,
			percent(r.VerificationCoverage), percent(r.ImplementationCoverage), percent(r.TestCoverage),
			r.ArtifactsFailed)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func formatStatusTrail(w io.Writer, reqID string, entries []history.StatusEntry) error {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No history for %s.\n", reqID)
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-8s  %-12s  %-5s  %s\n", "Generated", "Run", "Status", "Impl", "Tests")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s  %-8s  %-12s  %-5d  %d\n",
			e.GeneratedAt.Local().Format("2006-01-02 15:04:05"), e.RunID[:8], e.Status,
			e.Implementations, e.Tests)
	}
	return nil
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}
