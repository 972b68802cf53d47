// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "reports", "traceability", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func report(at time.Time, fsr12 types.Status, verification float64) *types.Report {
	return &types.Report{
		GeneratedAt: at,
		ProjectRoot: "/work/vehicle",
		Duration:    1500 * time.Millisecond,
		Statistics: types.Statistics{
			TotalRequirements:    2,
			SafetyRequirements:   2,
			VerifiedRequirements: 1,
			VerificationCoverage: verification,
		},
		Requirements: []types.Requirement{
			{ID: "FSR-12", Category: types.CategorySafety, Status: fsr12, Implementations: []string{"a.cpp:1"}},
			{ID: "FSR-13", Category: types.CategorySafety, Status: types.StatusUnverified},
		},
		Scanned: types.ScanCounts{Failed: 1},
	}
}

func TestRecordAndRuns(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first, err := store.Record(ctx, report(base, types.StatusImplemented, 0))
	require.NoError(t, err)
	_, err = uuid.Parse(first)
	assert.NoError(t, err, "run IDs are UUIDs")

	second, err := store.Record(ctx, report(base.Add(time.Hour), types.StatusVerified, 50))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := store.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "newest first")
	assert.Equal(t, base.Add(time.Hour), runs[0].GeneratedAt)
	assert.InDelta(t, 50.0, runs[0].VerificationCoverage, 1e-9)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
	assert.Equal(t, 2, runs[0].TotalRequirements)
	assert.Equal(t, 1, runs[0].ArtifactsFailed)
	assert.Equal(t, "/work/vehicle", runs[0].ProjectRoot)

	limited, err := store.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRequirementHistory(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, st := range []types.Status{types.StatusUnverified, types.StatusImplemented, types.StatusVerified} {
		_, err := store.Record(ctx, report(base.Add(time.Duration(i)*time.Minute), st, 0))
		require.NoError(t, err)
	}

	entries, err := store.RequirementHistory(ctx, "FSR-12", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, types.StatusVerified, entries[0].Status)
	assert.Equal(t, types.StatusImplemented, entries[1].Status)
	assert.Equal(t, types.StatusUnverified, entries[2].Status)
	assert.Equal(t, types.CategorySafety, entries[0].Category)
	assert.Equal(t, 1, entries[0].Implementations)

	none, err := store.RequirementHistory(ctx, "CSG-1", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpenReusesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Record(ctx, report(time.Now(), types.StatusVerified, 50))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.Runs(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestMalformedTimestamp(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, report(time.Now(), types.StatusVerified, 0))
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx, `UPDATE runs SET generated_at = 'yesterday' WHERE id = ?`, id)
	require.NoError(t, err)

	_, err = store.Runs(ctx, 10)
	assert.ErrorContains(t, err, "parsing time of run "+id)

	_, err = store.RequirementHistory(ctx, "FSR-12", 10)
	assert.ErrorContains(t, err, "parsing time of run "+id)
}
