// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/traceability-engine/internal/analyze"
	"github.com/pdiddy/traceability-engine/internal/coverage"
	"github.com/pdiddy/traceability-engine/internal/history"
	"github.com/pdiddy/traceability-engine/internal/metrics"
	"github.com/pdiddy/traceability-engine/internal/report"
	"github.com/pdiddy/traceability-engine/internal/watch"
	"github.com/pdiddy/traceability-engine/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Build the traceability matrix and write reports",
	Long: `Analyze scans documentation for requirement definitions, source code for
implementation references, and tests and verification plans for test
identifiers. It links them, computes coverage, and writes reports to the
output directory.

The command exits with status 2 when verification coverage is below the
threshold. With --watch it keeps running and re-analyzes on every change.`,
	SilenceUsage: true,
	RunE:         runAnalyze,
}

// flagKeys binds analyze flags to config keys.
var flagKeys = map[string]string{
	"project":      "scan.project",
	"workers":      "scan.workers",
	"results":      "scan.results",
	"classify":     "scan.classify",
	"output":       "report.output",
	"format":       "report.formats",
	"threshold":    "report.threshold",
	"history-db":   "history.db",
	"metrics-file": "metrics.file",
	"watch":        "watch.enabled",
	"debounce":     "watch.debounce",
}

func init() {
	f := analyzeCmd.Flags()
	f.StringP("project", "p", ".", "project root to scan")
	f.StringP("output", "o", defaultOutputDir, "output directory for reports")
	f.StringP("format", "f", "all", "report formats: json, yaml, markdown, html (comma-separated) or all")
	f.Float64("threshold", coverage.DefaultThreshold, "minimum verification coverage percentage")
	f.Int("workers", 1, "artifacts read in parallel per phase")
	f.String("results", "", "YAML file of test results (results: {TEST-ID: pass|fail|not-yet-run})")
	f.String("classify", string(types.ClassifyByPath), "requirement category source: path or pattern")
	f.String("metrics-file", "", "write Prometheus textfile metrics to this path")
	f.String("history-db", "", "run history database (default <output>/history.db)")
	f.Bool("no-history", false, "do not record this run in the history database")
	f.Bool("watch", false, "re-run the analysis when project files change")
	f.Duration("debounce", watch.DefaultDebounce, "quiet period before a watch re-run")

	for flag, key := range flagKeys {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadTraceConfig()
	if err != nil {
		return err
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}

	analyzer, err := analyze.New(cfg.Scan, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	err = runOnce(ctx, analyzer, cfg, out)
	if !cfg.Watch.Enabled {
		return err
	}
	if err != nil {
		logger.Warn("analysis finished with error", "error", err)
	}
	return watchProject(ctx, analyzer, cfg, out)
}

// runOnce performs one analysis and writes every configured output. The
// threshold check comes last so reports exist even when it fails.
func runOnce(ctx context.Context, analyzer *analyze.Analyzer, cfg types.TraceConfig, out io.Writer) error {
	if abs, err := filepath.Abs(cfg.Scan.Root); err == nil {
		fmt.Fprintf(out, "Analyzing project: %s\n", abs)
	}

	rep, err := analyzer.Run(ctx)
	if err != nil {
		return err
	}
	report.WriteSummary(out, rep)
	fmt.Fprintln(out)

	paths, err := report.Write(cfg.Report.OutputDir, cfg.Report.Formats, rep)
	for _, p := range paths {
		fmt.Fprintf(out, "Generated: %s\n", p)
	}
	if err != nil {
		return err
	}

	if cfg.History.Enabled {
		if err := recordHistory(ctx, cfg.History.DBPath, rep, out); err != nil {
			return err
		}
	}

	if cfg.Metrics.TextfilePath != "" {
		rec := metrics.NewRecorder()
		rec.Observe(rep)
		if err := rec.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Metrics: %s\n", cfg.Metrics.TextfilePath)
	}

	return coverage.CheckThreshold(rep.Statistics, cfg.Report.Threshold)
}

func recordHistory(ctx context.Context, path string, rep *types.Report, out io.Writer) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.Record(ctx, rep)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Recorded run %s\n", runID)
	return nil
}

func watchProject(ctx context.Context, analyzer *analyze.Analyzer, cfg types.TraceConfig, out io.Writer) error {
	var ignore []string
	for _, dir := range []string{
		cfg.Report.OutputDir,
		filepath.Dir(cfg.History.DBPath),
		filepath.Dir(cfg.Metrics.TextfilePath),
	} {
		if dir != "." && dir != "" {
			ignore = append(ignore, dir)
		}
	}
	ignore = absAll(ignore)

	w, err := watch.New(cfg.Scan.Root, ignore, cfg.Watch.Debounce, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(out, "\nWatching %s for changes (Ctrl-C to stop)\n", cfg.Scan.Root)
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		fmt.Fprintf(out, "\n%d file(s) changed, re-analyzing\n", len(changed))
		return runOnce(ctx, analyzer, cfg, out)
	})
}

// absAll resolves paths against the working directory, dropping any
// that cannot be resolved.
func absAll(paths []string) []string {
	var out []string
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			out = append(out, abs)
		}
	}
	return out
}
