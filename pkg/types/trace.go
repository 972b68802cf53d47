// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Category classifies a requirement as a safety or security obligation.
type Category string

const (
	CategorySafety   Category = "safety"
	CategorySecurity Category = "security"
)

// Categories lists every requirement category in report order.
var Categories = []Category{CategorySafety, CategorySecurity}

// Status is the verification status derived from a requirement's links.
type Status string

const (
	StatusVerified    Status = "verified"
	StatusImplemented Status = "implemented"
	StatusTestOnly    Status = "test-only"
	StatusUnverified  Status = "unverified"
)

// Statuses lists every verification status in report order.
var Statuses = []Status{StatusVerified, StatusImplemented, StatusTestOnly, StatusUnverified}

// TestResult is the recorded outcome of a test case.
type TestResult string

const (
	ResultPass      TestResult = "pass"
	ResultFail      TestResult = "fail"
	ResultNotYetRun TestResult = "not-yet-run"
)

// Valid reports whether r is one of the accepted result values.
func (r TestResult) Valid() bool {
	switch r {
	case ResultPass, ResultFail, ResultNotYetRun:
		return true
	}
	return false
}

// Location points at a line inside a project artifact.
type Location struct {
	// File is the project-relative, slash-separated artifact path.
	File string `json:"file" yaml:"file"`

	// Line is the 1-based line number.
	Line int `json:"line" yaml:"line"`
}

// String formats the location as file:line.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Requirement is a uniquely identified safety or security obligation
// discovered in documentation. Identity fields are fixed by the first
// occurrence; later occurrences only contribute links.
type Requirement struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Category Category `json:"category" yaml:"category"`

	// Source is where the requirement was first defined.
	Source Location `json:"source" yaml:"source"`

	// Implementations holds file:line locators in discovery order, without duplicates.
	Implementations []string `json:"implementations" yaml:"implementations"`

	// Tests holds associated test IDs in discovery order, without duplicates.
	Tests []string `json:"tests" yaml:"tests"`

	Status Status `json:"status" yaml:"status"`
}

// Implementation is a source line that references one or more requirements.
type Implementation struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`

	// Function is the enclosing function or component name, or "unknown".
	Function string `json:"function" yaml:"function"`

	// RequirementIDs lists the identifiers on the line, ordered by column.
	RequirementIDs []string `json:"requirement_ids" yaml:"requirement_ids"`
}

// Locator returns the file:line key of the implementation.
func (i Implementation) Locator() string {
	return Location{File: i.File, Line: i.Line}.String()
}

// TestCase is a uniquely identified verification activity.
type TestCase struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`

	// RequirementIDs may name requirements that were never defined.
	RequirementIDs []string `json:"requirement_ids" yaml:"requirement_ids"`

	// Result is empty when no outcome has been recorded.
	Result TestResult `json:"result,omitempty" yaml:"result,omitempty"`
}

// Statistics is a coverage snapshot computed from a set of requirements.
// It is always derived, never stored alongside the registry.
type Statistics struct {
	TotalRequirements    int `json:"total_requirements" yaml:"total_requirements"`
	SafetyRequirements   int `json:"safety_requirements" yaml:"safety_requirements"`
	SecurityRequirements int `json:"security_requirements" yaml:"security_requirements"`

	TotalImplementations int `json:"total_implementations" yaml:"total_implementations"`
	TotalTests           int `json:"total_tests" yaml:"total_tests"`

	VerifiedRequirements    int `json:"verified_requirements" yaml:"verified_requirements"`
	ImplementedRequirements int `json:"implemented_requirements" yaml:"implemented_requirements"`
	TestedRequirements      int `json:"tested_requirements" yaml:"tested_requirements"`

	VerificationCoverage   float64 `json:"verification_coverage" yaml:"verification_coverage"`
	ImplementationCoverage float64 `json:"implementation_coverage" yaml:"implementation_coverage"`
	TestCoverage           float64 `json:"test_coverage" yaml:"test_coverage"`

	// ByStatus counts requirements per verification status.
	ByStatus map[Status]int `json:"by_status" yaml:"by_status"`
}

// ArtifactWarning records an artifact that was skipped during a scan.
type ArtifactWarning struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// ScanCounts records how many artifacts of each kind were read.
type ScanCounts struct {
	Docs    int `json:"docs" yaml:"docs"`
	Sources int `json:"sources" yaml:"sources"`
	Tests   int `json:"tests" yaml:"tests"`
	Plans   int `json:"plans" yaml:"plans"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Report is the frozen result of one analysis run, handed read-only to
// renderers, the history store, and the metrics exporter.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	ProjectRoot string        `json:"project_root" yaml:"project_root"`
	Duration    time.Duration `json:"duration" yaml:"duration"`

	Statistics Statistics `json:"statistics" yaml:"statistics"`

	// Requirements is sorted by ID.
	Requirements []Requirement `json:"requirements" yaml:"requirements"`

	// Tests is sorted by ID.
	Tests []TestCase `json:"tests" yaml:"tests"`

	// Implementations is in discovery order.
	Implementations []Implementation `json:"implementations" yaml:"implementations"`

	Scanned  ScanCounts        `json:"scanned" yaml:"scanned"`
	Warnings []ArtifactWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RequirementsByCategory returns the report's requirements in category c,
// preserving ID order.
func (r *Report) RequirementsByCategory(c Category) []Requirement {
	var out []Requirement
	for _, req := range r.Requirements {
		if req.Category == c {
			out = append(out, req)
		}
	}
	return out
}

// RequirementsByStatus returns the report's requirements with status s,
// preserving ID order.
func (r *Report) RequirementsByStatus(s Status) []Requirement {
	var out []Requirement
	for _, req := range r.Requirements {
		if req.Status == s {
			out = append(out, req)
		}
	}
	return out
}
