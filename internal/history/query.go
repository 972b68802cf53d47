// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

const defaultLimit = 20

// Run is one recorded analysis.
type Run struct {
	ID                     string        `json:"id" yaml:"id"`
	GeneratedAt            time.Time     `json:"generated_at" yaml:"generated_at"`
	ProjectRoot            string        `json:"project_root" yaml:"project_root"`
	Duration               time.Duration `json:"duration" yaml:"duration"`
	TotalRequirements      int           `json:"total_requirements" yaml:"total_requirements"`
	SafetyRequirements     int           `json:"safety_requirements" yaml:"safety_requirements"`
	SecurityRequirements   int           `json:"security_requirements" yaml:"security_requirements"`
	TotalImplementations   int           `json:"total_implementations" yaml:"total_implementations"`
	TotalTests             int           `json:"total_tests" yaml:"total_tests"`
	Verified               int           `json:"verified" yaml:"verified"`
	Implemented            int           `json:"implemented" yaml:"implemented"`
	Tested                 int           `json:"tested" yaml:"tested"`
	VerificationCoverage   float64       `json:"verification_coverage" yaml:"verification_coverage"`
	ImplementationCoverage float64       `json:"implementation_coverage" yaml:"implementation_coverage"`
	TestCoverage           float64       `json:"test_coverage" yaml:"test_coverage"`
	ArtifactsFailed        int           `json:"artifacts_failed" yaml:"artifacts_failed"`
}

// StatusEntry is a requirement's status in one run.
type StatusEntry struct {
	RunID           string         `json:"run_id" yaml:"run_id"`
	GeneratedAt     time.Time      `json:"generated_at" yaml:"generated_at"`
	RequirementID   string         `json:"requirement_id" yaml:"requirement_id"`
	Category        types.Category `json:"category" yaml:"category"`
	Status          types.Status   `json:"status" yaml:"status"`
	Implementations int            `json:"implementations" yaml:"implementations"`
	Tests           int            `json:"tests" yaml:"tests"`
}

// Runs returns up to limit runs, newest first. A non-positive limit
// selects the default of 20.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, generated_at, project_root, duration_ms,
			total_requirements, safety_requirements, security_requirements,
			total_implementations, total_tests, verified, implemented, tested,
			verification_coverage, implementation_coverage, test_coverage, artifacts_failed
		 FROM runs ORDER BY generated_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var generatedAt string
		var durationMS int64
		if err := rows.Scan(&r.ID, &generatedAt, &r.ProjectRoot, &durationMS,
			&r.TotalRequirements, &r.SafetyRequirements, &r.SecurityRequirements,
			&r.TotalImplementations, &r.TotalTests, &r.Verified, &r.Implemented, &r.Tested,
			&r.VerificationCoverage, &r.ImplementationCoverage, &r.TestCoverage, &r.ArtifactsFailed,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.GeneratedAt, err = time.Parse(timeFormat, generatedAt); err != nil {
			return nil, fmt.Errorf("parsing time of run %s: %w", r.ID, err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RequirementHistory returns the recorded statuses of one requirement,
// newest first, limited like Runs.
func (s *Store) RequirementHistory(ctx context.Context, requirementID string, limit int) ([]StatusEntry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rs.run_id, r.generated_at, rs.requirement_id, rs.category, rs.status,
			rs.implementations, rs.tests
		 FROM requirement_status rs
		 JOIN runs r ON r.id = rs.run_id
		 WHERE rs.requirement_id = ?
		 ORDER BY r.generated_at DESC, r.rowid DESC LIMIT ?`, requirementID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying requirement history: %w", err)
	}
	defer rows.Close()

	var entries []StatusEntry
	for rows.Next() {
		var e StatusEntry
		var generatedAt, category, status string
		if err := rows.Scan(&e.RunID, &generatedAt, &e.RequirementID, &category, &status,
			&e.Implementations, &e.Tests); err != nil {
			return nil, fmt.Errorf("scanning status: %w", err)
		}
		if e.GeneratedAt, err = time.Parse(timeFormat, generatedAt); err != nil {
			return nil, fmt.Errorf("parsing time of run %s: %w", e.RunID, err)
		}
		e.Category = types.Category(category)
		e.Status = types.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
