// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/traceability-engine/internal/coverage"
	"github.com/pdiddy/traceability-engine/internal/history"
	"github.com/pdiddy/traceability-engine/internal/report"
	"github.com/pdiddy/traceability-engine/internal/watch"
	"github.com/pdiddy/traceability-engine/pkg/types"
)

const defaultOutputDir = "reports/traceability"

// envKeyReplacer maps nested keys such as report.threshold to
// TRACEABILITY_REPORT_THRESHOLD.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func init() {
	def := types.DefaultScanConfig()
	viper.SetDefault("scan.project", def.Root)
	viper.SetDefault("scan.docs", def.DocGlobs)
	viper.SetDefault("scan.sources", def.SourceGlobs)
	viper.SetDefault("scan.source_exclude", def.SourceExclude)
	viper.SetDefault("scan.tests", def.TestGlobs)
	viper.SetDefault("scan.plans", def.PlanGlobs)
	viper.SetDefault("scan.exclude", def.Exclude)
	viper.SetDefault("scan.workers", def.Workers)
	viper.SetDefault("scan.classify", string(def.Classify))
	viper.SetDefault("report.output", defaultOutputDir)
	viper.SetDefault("report.formats", "all")
	viper.SetDefault("report.threshold", coverage.DefaultThreshold)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("watch.debounce", watch.DefaultDebounce)
}

// loadTraceConfig assembles a TraceConfig from viper. Flags bound to the
// same keys take precedence over the config file and environment.
func loadTraceConfig() (types.TraceConfig, error) {
	formats, err := report.ParseFormats(strings.Join(viper.GetStringSlice("report.formats"), ","))
	if err != nil {
		return types.TraceConfig{}, err
	}

	threshold := viper.GetFloat64("report.threshold")
	if threshold < 0 || threshold > 100 {
		return types.TraceConfig{}, fmt.Errorf("threshold %.1f out of range: use 0-100", threshold)
	}

	output := viper.GetString("report.output")
	dbPath := viper.GetString("history.db")
	if dbPath == "" {
		dbPath = filepath.Join(output, history.FileName)
	}

	return types.TraceConfig{
		Scan: types.ScanConfig{
			Root:          viper.GetString("scan.project"),
			DocGlobs:      viper.GetStringSlice("scan.docs"),
			SourceGlobs:   viper.GetStringSlice("scan.sources"),
			SourceExclude: viper.GetStringSlice("scan.source_exclude"),
			TestGlobs:     viper.GetStringSlice("scan.tests"),
			PlanGlobs:     viper.GetStringSlice("scan.plans"),
			Exclude:       viper.GetStringSlice("scan.exclude"),
			Workers:       viper.GetInt("scan.workers"),
			Classify:      types.ClassifyMode(viper.GetString("scan.classify")),
			ResultsFile:   viper.GetString("scan.results"),
			Patterns: types.PatternConfig{
				Safety:   viper.GetStringSlice("scan.patterns.safety"),
				Security: viper.GetStringSlice("scan.patterns.security"),
				Tests:    viper.GetStringSlice("scan.patterns.tests"),
			},
		},
		Report: types.ReportConfig{
			OutputDir: output,
			Formats:   formats,
			Threshold: threshold,
		},
		History: types.HistoryConfig{
			Enabled: viper.GetBool("history.enabled"),
			DBPath:  dbPath,
		},
		Metrics: types.MetricsConfig{
			TextfilePath: viper.GetString("metrics.file"),
		},
		Watch: types.WatchConfig{
			Enabled:  viper.GetBool("watch.enabled"),
			Debounce: viper.GetDuration("watch.debounce"),
		},
	}, nil
}
