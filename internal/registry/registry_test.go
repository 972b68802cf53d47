// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

func loc(file string, line int) types.Location {
	return types.Location{File: file, Line: line}
}

func TestDefineRequirementFirstSeenWins(t *testing.T) {
	reg := New()

	assert.True(t, reg.DefineRequirement("FSR-12", "first", types.CategorySafety, loc("docs/safety.md", 3)))
	assert.False(t, reg.DefineRequirement("FSR-12", "second", types.CategorySecurity, loc("docs/other.md", 9)))

	req, ok := reg.Requirement("FSR-12")
	require.True(t, ok)
	assert.Equal(t, "first", req.Title)
	assert.Equal(t, types.CategorySafety, req.Category)
	assert.Equal(t, loc("docs/safety.md", 3), req.Source)
	assert.Equal(t, types.StatusUnverified, req.Status)
}

func TestRecordImplementation(t *testing.T) {
	reg := New()
	reg.DefineRequirement("FSR-12", "t", types.CategorySafety, loc("d.md", 1))

	impl := types.Implementation{File: "engine/limiter.cpp", Line: 40, Function: "Limiter::apply", RequirementIDs: []string{"FSR-12", "FSR-99"}}
	assert.True(t, reg.RecordImplementation(impl))
	assert.False(t, reg.RecordImplementation(impl), "same file:line is recorded once")
	assert.True(t, reg.RecordImplementation(types.Implementation{File: "engine/limiter.cpp", Line: 41, RequirementIDs: []string{"FSR-12"}}))

	req, _ := reg.Requirement("FSR-12")
	assert.Equal(t, []string{"engine/limiter.cpp:40", "engine/limiter.cpp:41"}, req.Implementations)

	_, ok := reg.Requirement("FSR-99")
	assert.False(t, ok, "undefined requirement is not created by a reference")
	assert.Len(t, reg.Implementations(), 2)
}

func TestAssociate(t *testing.T) {
	reg := New()
	reg.DefineRequirement("FSR-12", "t", types.CategorySafety, loc("d.md", 1))
	reg.DeclareTest("T-FSR-1", "RespectsFSR12")

	reg.Associate("T-FSR-1", "FSR-12")
	reg.Associate("T-FSR-1", "FSR-12")
	reg.Associate("T-FSR-1", "FSR-404")
	reg.Associate("T-MISSING-1", "FSR-12")

	tc, ok := reg.Test("T-FSR-1")
	require.True(t, ok)
	assert.Equal(t, []string{"FSR-12", "FSR-404"}, tc.RequirementIDs)

	req, _ := reg.Requirement("FSR-12")
	assert.Equal(t, []string{"T-FSR-1"}, req.Tests)

	_, ok = reg.Test("T-MISSING-1")
	assert.False(t, ok)
}

func TestDeclareTestFirstSeenWins(t *testing.T) {
	reg := New()
	assert.True(t, reg.DeclareTest("SEC-1", "Denies"))
	assert.False(t, reg.DeclareTest("SEC-1", "Defined in documentation"))

	tc, _ := reg.Test("SEC-1")
	assert.Equal(t, "Denies", tc.Description)
}

func TestSetResult(t *testing.T) {
	reg := New()
	reg.DeclareTest("FI-1", "x")

	assert.True(t, reg.SetResult("FI-1", types.ResultFail))
	assert.False(t, reg.SetResult("FI-2", types.ResultPass))

	tc, _ := reg.Test("FI-1")
	assert.Equal(t, types.ResultFail, tc.Result)
}

func TestCopiesAreDetached(t *testing.T) {
	reg := New()
	reg.DefineRequirement("FSR-1", "t", types.CategorySafety, loc("d.md", 1))
	reg.RecordImplementation(types.Implementation{File: "a.cpp", Line: 1, RequirementIDs: []string{"FSR-1"}})

	reqs := reg.Requirements()
	reqs[0].Implementations[0] = "mutated"
	reqs[0].Title = "mutated"

	req, _ := reg.Requirement("FSR-1")
	assert.Equal(t, "a.cpp:1", req.Implementations[0])
	assert.Equal(t, "t", req.Title)

	impls := reg.Implementations()
	impls[0].RequirementIDs[0] = "mutated"
	assert.Equal(t, "FSR-1", reg.Implementations()[0].RequirementIDs[0])
}

func TestOrdering(t *testing.T) {
	reg := New()
	for _, id := range []string{"TSR-2", "FSR-10", "FSR-1"} {
		reg.DefineRequirement(id, id, types.CategorySafety, loc("d.md", 1))
	}
	for _, id := range []string{"SEC-2", "FI-1"} {
		reg.DeclareTest(id, id)
	}

	ids := func(reqs []types.Requirement) []string {
		var out []string
		for _, r := range reqs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"TSR-2", "FSR-10", "FSR-1"}, ids(reg.Requirements()))
	assert.Equal(t, []string{"FSR-1", "FSR-10", "TSR-2"}, ids(reg.SortedRequirements()))
	assert.Equal(t, "FI-1", reg.SortedTests()[0].ID)

	nReq, nTest := reg.Len()
	assert.Equal(t, 3, nReq)
	assert.Equal(t, 2, nTest)
}
