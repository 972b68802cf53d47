// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/traceability-engine/internal/discover"
	"github.com/pdiddy/traceability-engine/pkg/types"
)

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

// limiterSource places the implementing comment on line 40 with the
// enclosing function five lines above it.
func limiterSource() string {
	var lines []string
	for i := 1; i < 35; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, "void Limiter::apply() {")
	for i := 36; i < 40; i++ {
		lines = append(lines, "    torque = clamp(torque);")
	}
	lines = append(lines, "    // Implements FSR-12 torque limiter", "}")
	return strings.Join(lines, "\n")
}

// newProject writes a small project and returns a config scanning it.
func newProject(t *testing.T) types.ScanConfig {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "docs/safety/FSR.md", []byte(
		"# Functional safety requirements\n\n"+
			"| ID | Title |\n"+
			"| FSR-12 | Engine shall not exceed rated torque |\n"+
			"| FSR-13 | Limp home on sensor loss |\n"))
	writeFile(t, root, "docs/security/Goals.md", []byte(
		"| CSG-4 | Authenticate powertrain frames |\n"+
			"| TARA-2 | Spoofed CAN frame |\n"))
	writeFile(t, root, "docs/verification/VerificationPlan.md", []byte(
		"## SEC-1 frame authentication\n\nCovers CSG-4.\n"))
	writeFile(t, root, "engine/limiter.cpp", []byte(limiterSource()))
	writeFile(t, root, "engine/auth.cpp", []byte(
		"bool Auth::verify(const Frame& f) {\n    // CR-INF-9 TARA-2\n}\n"))
	writeFile(t, root, "tests/limiter_test.cpp", []byte(
		"TEST_F(LimiterTest, RespectsFSR12) { // T-FSR-1 FSR-12 }\n"+
			"TEST(Dangling, Ref) { // T-FSR-2 FSR-99 }\n"))

	return types.ScanConfig{
		Root:        root,
		DocGlobs:    []string{"docs/**/*.md"},
		SourceGlobs: []string{"engine/**/*.cpp"},
		TestGlobs:   []string{"tests/**/*.cpp"},
		PlanGlobs:   []string{"docs/**/*Plan*.md"},
		Workers:     1,
		Classify:    types.ClassifyByPath,
	}
}

func run(t *testing.T, cfg types.ScanConfig) *types.Report {
	t.Helper()
	a, err := New(cfg, nil)
	require.NoError(t, err)
	rep, err := a.Run(context.Background())
	require.NoError(t, err)
	return rep
}

func find(t *testing.T, rep *types.Report, id string) types.Requirement {
	t.Helper()
	for _, r := range rep.Requirements {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("requirement %s not in report", id)
	return types.Requirement{}
}

func findTest(t *testing.T, rep *types.Report, id string) types.TestCase {
	t.Helper()
	for _, tc := range rep.Tests {
		if tc.ID == id {
			return tc
		}
	}
	t.Fatalf("test %s not in report", id)
	return types.TestCase{}
}

func TestRunEndToEnd(t *testing.T) {
	rep := run(t, newProject(t))

	assert.Equal(t, []string{"CSG-4", "FSR-12", "FSR-13", "TARA-2"}, ids(rep.Requirements))

	fsr12 := find(t, rep, "FSR-12")
	assert.Equal(t, "FSR-12 Engine shall not exceed rated torque", fsr12.Title)
	assert.Equal(t, types.CategorySafety, fsr12.Category)
	assert.Equal(t, types.Location{File: "docs/safety/FSR.md", Line: 4}, fsr12.Source)
	assert.Equal(t, []string{"engine/limiter.cpp:40"}, fsr12.Implementations)
	assert.Equal(t, []string{"T-FSR-1"}, fsr12.Tests)
	assert.Equal(t, types.StatusVerified, fsr12.Status)

	assert.Equal(t, types.StatusUnverified, find(t, rep, "FSR-13").Status)
	assert.Equal(t, types.StatusTestOnly, find(t, rep, "CSG-4").Status, "plan association")
	assert.Equal(t, types.StatusImplemented, find(t, rep, "TARA-2").Status)
	assert.Equal(t, types.CategorySecurity, find(t, rep, "TARA-2").Category)

	dangling := findTest(t, rep, "T-FSR-2")
	assert.Equal(t, "Ref", dangling.Description)
	assert.Equal(t, []string{"FSR-99"}, dangling.RequirementIDs)
	assert.Equal(t, "Defined in documentation", findTest(t, rep, "SEC-1").Description)

	stats := rep.Statistics
	assert.Equal(t, 4, stats.TotalRequirements)
	assert.Equal(t, 2, stats.SafetyRequirements)
	assert.Equal(t, 2, stats.SecurityRequirements)
	assert.Equal(t, 2, stats.TotalImplementations)
	assert.Equal(t, 3, stats.TotalTests)
	assert.InDelta(t, 25.0, stats.VerificationCoverage, 1e-9)
	assert.InDelta(t, 50.0, stats.ImplementationCoverage, 1e-9)
	assert.InDelta(t, 50.0, stats.TestCoverage, 1e-9)

	assert.Equal(t, types.ScanCounts{Docs: 3, Sources: 2, Tests: 1, Plans: 1}, rep.Scanned)
	assert.Empty(t, rep.Warnings)
	assert.False(t, rep.GeneratedAt.IsZero())
}

func TestScenarioImplementationThenVerification(t *testing.T) {
	cfg := newProject(t)
	cfg.TestGlobs = nil
	cfg.PlanGlobs = nil

	rep := run(t, cfg)
	fsr12 := find(t, rep, "FSR-12")
	assert.Equal(t, types.StatusImplemented, fsr12.Status)
	require.Len(t, rep.Implementations, 2)
	assert.Equal(t, "Limiter::apply", rep.Implementations[1].Function)
	assert.Equal(t, 40, rep.Implementations[1].Line)

	// A single verified requirement gives full verification coverage.
	single := t.TempDir()
	writeFile(t, single, "docs/safety/FSR.md", []byte("| FSR-12 | Engine shall not exceed rated torque |\n"))
	writeFile(t, single, "engine/limiter.cpp", []byte(limiterSource()))
	writeFile(t, single, "tests/limiter_test.cpp", []byte("TEST_F(LimiterTest, RespectsFSR12) { // T-FSR-1 FSR-12 }\n"))
	cfg.Root = single
	cfg.TestGlobs = []string{"tests/**/*.cpp"}

	rep = run(t, cfg)
	assert.Equal(t, types.StatusVerified, find(t, rep, "FSR-12").Status)
	assert.InDelta(t, 100.0, rep.Statistics.VerificationCoverage, 1e-9)
}

func TestRunSkipsUnreadableArtifact(t *testing.T) {
	cfg := newProject(t)
	writeFile(t, cfg.Root, "engine/corrupt.cpp", []byte{0xff, 0xfe, 'F', 'S', 'R', '-', '1', '3', 0xc0})

	rep := run(t, cfg)

	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, "engine/corrupt.cpp", rep.Warnings[0].Path)
	assert.Equal(t, 1, rep.Scanned.Failed)
	assert.Equal(t, 2, rep.Scanned.Sources)
	assert.Equal(t, types.StatusUnverified, find(t, rep, "FSR-13").Status, "nothing taken from the corrupt file")
	assert.Equal(t, types.StatusVerified, find(t, rep, "FSR-12").Status, "siblings unaffected")
}

func TestRunSkipsMissingArtifact(t *testing.T) {
	cfg := newProject(t)
	a, err := New(cfg, nil)
	require.NoError(t, err)

	set, err := discover.Find(cfg)
	require.NoError(t, err)
	set.Sources = append(set.Sources, "engine/gone.cpp")

	rep, err := a.RunSet(context.Background(), set)
	require.NoError(t, err)
	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, "engine/gone.cpp", rep.Warnings[0].Path)
}

func TestRunEmptyProject(t *testing.T) {
	cfg := newProject(t)
	cfg.Root = t.TempDir()

	rep := run(t, cfg)
	assert.Empty(t, rep.Requirements)
	assert.Zero(t, rep.Statistics.VerificationCoverage)
	assert.Zero(t, rep.Statistics.ImplementationCoverage)
	assert.Zero(t, rep.Statistics.TestCoverage)
}

func TestRunIsRepeatable(t *testing.T) {
	cfg := newProject(t)
	a, err := New(cfg, nil)
	require.NoError(t, err)

	first, err := a.Run(context.Background())
	require.NoError(t, err)
	second, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Requirements, second.Requirements)
	assert.Equal(t, first.Tests, second.Tests)
	assert.Equal(t, first.Implementations, second.Implementations)
	assert.Equal(t, first.Statistics, second.Statistics)
}

func TestParallelMatchesSequential(t *testing.T) {
	cfg := newProject(t)
	for i := 0; i < 12; i++ {
		writeFile(t, cfg.Root, filepath.Join("engine", "gen", strings.Repeat("x", i+1)+".cpp"),
			[]byte("void f() {\n// FSR-13 TARA-2\n}\n"))
	}

	sequential := run(t, cfg)
	cfg.Workers = 4
	parallel := run(t, cfg)

	assert.Equal(t, sequential.Requirements, parallel.Requirements)
	assert.Equal(t, sequential.Tests, parallel.Tests)
	assert.Equal(t, sequential.Implementations, parallel.Implementations)
	assert.Equal(t, sequential.Statistics, parallel.Statistics)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		cfg := newProject(t)
		cfg.Workers = workers
		a, err := New(cfg, nil)
		require.NoError(t, err)
		_, err = a.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestRunAppliesResults(t *testing.T) {
	cfg := newProject(t)
	cfg.ResultsFile = filepath.Join(cfg.Root, "results.yaml")
	writeFile(t, cfg.Root, "results.yaml", []byte("results:\n  T-FSR-1: pass\n  SEC-1: fail\n  T-CL-404: pass\n"))

	rep := run(t, cfg)
	assert.Equal(t, types.ResultPass, findTest(t, rep, "T-FSR-1").Result)
	assert.Equal(t, types.ResultFail, findTest(t, rep, "SEC-1").Result)
	assert.Empty(t, findTest(t, rep, "T-FSR-2").Result)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := newProject(t)
	cfg.Classify = "folder"
	_, err := New(cfg, nil)
	assert.Error(t, err)

	cfg = newProject(t)
	cfg.Patterns.Safety = []string{"("}
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func ids(reqs []types.Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.ID
	}
	return out
}
