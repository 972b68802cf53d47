// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records analysis runs in SQLite so coverage can be
// tracked over time. The store is written after a run completes and is
// never read back into an analysis.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// FileName is the database file name inside the report output directory.
const FileName = "history.db"

// timeFormat is fixed-width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			project_root TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			total_requirements INTEGER NOT NULL,
			safety_requirements INTEGER NOT NULL,
			security_requirements INTEGER NOT NULL,
			total_implementations INTEGER NOT NULL,
			total_tests INTEGER NOT NULL,
			verified INTEGER NOT NULL,
			implemented INTEGER NOT NULL,
			tested INTEGER NOT NULL,
			verification_coverage REAL NOT NULL,
			implementation_coverage REAL NOT NULL,
			test_coverage REAL NOT NULL,
			artifacts_failed INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at)`,
		`CREATE TABLE IF NOT EXISTS requirement_status (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			requirement_id TEXT NOT NULL,
			category TEXT NOT NULL,
			status TEXT NOT NULL,
			implementations INTEGER NOT NULL,
			tests INTEGER NOT NULL,
			PRIMARY KEY (run_id, requirement_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requirement_status_req ON requirement_status(requirement_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores rep as a new run and returns its ID.
func (s *Store) Record(ctx context.Context, rep *types.Report) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	st := rep.Statistics
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, generated_at, project_root, duration_ms,
			total_requirements, safety_requirements, security_requirements,
			total_implementations, total_tests, verified, implemented, tested,
			verification_coverage, implementation_coverage, test_coverage, artifacts_failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rep.GeneratedAt.UTC().Format(timeFormat), rep.ProjectRoot, rep.Duration.Milliseconds(),
		st.TotalRequirements, st.SafetyRequirements, st.SecurityRequirements,
		st.TotalImplementations, st.TotalTests,
		st.VerifiedRequirements, st.ImplementedRequirements, st.TestedRequirements,
		st.VerificationCoverage, st.ImplementationCoverage, st.TestCoverage,
		rep.Scanned.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO requirement_status (run_id, requirement_id, category, status, implementations, tests)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, req := range rep.Requirements {
		_, err := stmt.ExecContext(ctx,
			runID, req.ID, string(req.Category), string(req.Status),
			len(req.Implementations), len(req.Tests),
		)
		if err != nil {
			return "", fmt.Errorf("inserting status for %s: %w", req.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}
