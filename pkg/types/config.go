package types

import "time"

// PatternConfig lists identifier patterns added to the built-in registry.
type PatternConfig struct {
	// Safety holds extra regular expressions for safety requirement IDs.
	Safety []string `json:"safety,omitempty" yaml:"safety,omitempty"`

	// Security holds extra regular expressions for security requirement IDs.
	Security []string `json:"security,omitempty" yaml:"security,omitempty"`

	// Tests holds extra regular expressions for test case IDs.
	Tests []string `json:"tests,omitempty" yaml:"tests,omitempty"`
}

// ClassifyMode selects how documentation requirements get their category.
type ClassifyMode string

const (
	// ClassifyByPath uses the artifact path: "safety" in the path means
	// safety, anything else security.
	ClassifyByPath ClassifyMode = "path"

	// ClassifyByPattern uses the pattern group that matched the identifier.
	ClassifyByPattern ClassifyMode = "pattern"
)

// ScanConfig holds settings for artifact discovery and extraction.
type ScanConfig struct {
	// Root is the project root; artifact paths are reported relative to it.
	Root string `json:"root" yaml:"root"`

	// DocGlobs select documentation artifacts (requirement definitions).
	DocGlobs []string `json:"doc_globs" yaml:"doc_globs"`

	// SourceGlobs select implementation artifacts.
	SourceGlobs []string `json:"source_globs" yaml:"source_globs"`

	// SourceExclude removes matches from SourceGlobs (e.g. test directories).
	SourceExclude []string `json:"source_exclude" yaml:"source_exclude"`

	// TestGlobs select test source artifacts.
	TestGlobs []string `json:"test_globs" yaml:"test_globs"`

	// PlanGlobs select verification-plan documents.
	PlanGlobs []string `json:"plan_globs" yaml:"plan_globs"`

	// Exclude removes matches from every artifact kind.
	Exclude []string `json:"exclude" yaml:"exclude"`

	// Workers bounds parallel reads within one phase (default 1, sequential).
	Workers int `json:"workers" yaml:"workers"`

	// Classify selects the documentation category rule (default "path").
	Classify ClassifyMode `json:"classify" yaml:"classify"`

	// Patterns extends the built-in identifier patterns.
	Patterns PatternConfig `json:"patterns" yaml:"patterns"`

	// ResultsFile optionally names a YAML file of test outcomes.
	ResultsFile string `json:"results_file,omitempty" yaml:"results_file,omitempty"`
}

// DefaultScanConfig returns the layout the tool expects out of the box.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Root:          ".",
		DocGlobs:      []string{"docs/**/*.md"},
		SourceGlobs:   []string{"{shared,driver_ui,infotainment_ui}/**/*.{cpp,h,hpp,qml}"},
		SourceExclude: []string{"**/tests/**"},
		TestGlobs:     []string{"{tests,driver_ui/tests,infotainment_ui/tests}/**/*.cpp"},
		PlanGlobs:     []string{"docs/**/*Plan*.md"},
		Exclude:       []string{"**/.git/**", "**/build/**"},
		Workers:       1,
		Classify:      ClassifyByPath,
	}
}

// ReportFormat names an output renderer.
type ReportFormat string

const (
	FormatJSON     ReportFormat = "json"
	FormatYAML     ReportFormat = "yaml"
	FormatMarkdown ReportFormat = "markdown"
	FormatHTML     ReportFormat = "html"
)

// AllFormats lists every renderer in output order.
var AllFormats = []ReportFormat{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// ReportConfig holds settings for report generation.
type ReportConfig struct {
	// OutputDir is where report files are written (e.g. "reports/traceability").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Formats selects the renderers to run.
	Formats []ReportFormat `json:"formats" yaml:"formats"`

	// Threshold is the minimum verification coverage percentage (default 50).
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// HistoryConfig holds settings for the run history database.
type HistoryConfig struct {
	// Enabled controls whether analyze records runs.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// DBPath is the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// MetricsConfig holds settings for the Prometheus textfile export.
type MetricsConfig struct {
	// TextfilePath is the output file; empty disables the export.
	TextfilePath string `json:"textfile_path,omitempty" yaml:"textfile_path,omitempty"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	// Enabled re-runs the analysis whenever project files change.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Debounce is the quiet period before a re-run (default 500ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

// TraceConfig groups all settings for one analyze invocation.
type TraceConfig struct {
	Scan    ScanConfig    `json:"scan" yaml:"scan"`
	Report  ReportConfig  `json:"report" yaml:"report"`
	History HistoryConfig `json:"history" yaml:"history"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Watch   WatchConfig   `json:"watch" yaml:"watch"`
}
