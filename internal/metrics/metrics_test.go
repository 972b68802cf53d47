// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		Duration: 2 * time.Second,
		Statistics: types.Statistics{
			TotalRequirements:      4,
			SafetyRequirements:     3,
			SecurityRequirements:   1,
			TotalImplementations:   5,
			TotalTests:             6,
			VerificationCoverage:   25,
			ImplementationCoverage: 50,
			TestCoverage:           75,
			ByStatus: map[types.Status]int{
				types.StatusVerified:   1,
				types.StatusTestOnly:   2,
				types.StatusUnverified: 1,
			},
		},
		Scanned: types.ScanCounts{Docs: 3, Sources: 7, Tests: 2, Plans: 1, Failed: 1},
	}
}

func TestObserve(t *testing.T) {
	r := NewRecorder()
	r.Observe(sampleReport())

	assert.Equal(t, 3.0, testutil.ToFloat64(r.requirements.WithLabelValues("safety")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requirements.WithLabelValues("security")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.statuses.WithLabelValues("test-only")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.statuses.WithLabelValues("implemented")))
	assert.Equal(t, 25.0, testutil.ToFloat64(r.coverage.WithLabelValues("verification")))
	assert.Equal(t, 75.0, testutil.ToFloat64(r.coverage.WithLabelValues("test")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.scanned.WithLabelValues("source")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.tests))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.implementations))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.duration))

	// 2 categories + 4 statuses + 3 coverage kinds + 4 artifact kinds + 4 gauges.
	count, err := testutil.GatherAndCount(r.Registry())
	require.NoError(t, err)
	assert.Equal(t, 17, count)
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe(sampleReport())

	path := filepath.Join(t.TempDir(), "metrics", "traceability.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `traceability_coverage_percent{kind="verification"} 25`)
	assert.Contains(t, out, `traceability_requirements{category="safety"} 3`)
	assert.Contains(t, out, "# TYPE traceability_run_duration_seconds gauge")
}
