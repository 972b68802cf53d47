// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coverage derives verification status per requirement and
// aggregate coverage statistics. Every function is pure: results depend
// only on the arguments and are recomputed on each call.
package coverage

import (
	"fmt"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// DefaultThreshold is the minimum verification coverage percentage.
const DefaultThreshold = 50.0

// Status maps the two link facts of a requirement to its verification
// status. All four combinations are covered.
func Status(hasImpl, hasTest bool) types.Status {
	switch {
	case hasImpl && hasTest:
		return types.StatusVerified
	case hasImpl:
		return types.StatusImplemented
	case hasTest:
		return types.StatusTestOnly
	default:
		return types.StatusUnverified
	}
}

// StatusOf returns the status of req from its current links.
func StatusOf(req types.Requirement) types.Status {
	return Status(len(req.Implementations) > 0, len(req.Tests) > 0)
}

// Evaluate returns a copy of reqs with Status set on every element. The
// input slice is not modified.
func Evaluate(reqs []types.Requirement) []types.Requirement {
	out := make([]types.Requirement, len(reqs))
	for i, req := range reqs {
		req.Status = StatusOf(req)
		out[i] = req
	}
	return out
}

// Compute derives statistics from reqs. Status is recomputed from links
// rather than read from the Status field. implementations and tests are
// the record counts reported alongside. An empty requirement set yields
// zero percentages.
func Compute(reqs []types.Requirement, implementations, tests int) types.Statistics {
	stats := types.Statistics{
		TotalRequirements:    len(reqs),
		TotalImplementations: implementations,
		TotalTests:           tests,
		ByStatus:             make(map[types.Status]int, len(types.Statuses)),
	}
	for _, s := range types.Statuses {
		stats.ByStatus[s] = 0
	}

	for _, req := range reqs {
		switch req.Category {
		case types.CategorySafety:
			stats.SafetyRequirements++
		case types.CategorySecurity:
			stats.SecurityRequirements++
		}

		status := StatusOf(req)
		stats.ByStatus[status]++
		if status == types.StatusVerified {
			stats.VerifiedRequirements++
		}
		if status == types.StatusVerified || status == types.StatusImplemented {
			stats.ImplementedRequirements++
		}
		if len(req.Tests) > 0 {
			stats.TestedRequirements++
		}
	}

	stats.VerificationCoverage = percent(stats.VerifiedRequirements, stats.TotalRequirements)
	stats.ImplementationCoverage = percent(stats.ImplementedRequirements, stats.TotalRequirements)
	stats.TestCoverage = percent(stats.TestedRequirements, stats.TotalRequirements)
	return stats
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// ThresholdError reports verification coverage below the required minimum.
type ThresholdError struct {
	Coverage  float64
	Threshold float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("verification coverage (%.1f%%) is below %.0f%%", e.Coverage, e.Threshold)
}

// CheckThreshold returns a *ThresholdError when verification coverage is
// below minimum. Coverage equal to minimum passes.
func CheckThreshold(stats types.Statistics, minimum float64) error {
	if stats.VerificationCoverage < minimum {
		return &ThresholdError{Coverage: stats.VerificationCoverage, Threshold: minimum}
	}
	return nil
}
