// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry keeps the canonical requirement and test-case entities
// of one analysis run. Identity fields are fixed by the first occurrence;
// link lists are insertion-ordered and never hold duplicates, so applying
// the same facts twice leaves the registry unchanged.
package registry

import (
	"slices"
	"sort"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

type requirementEntry struct {
	req       types.Requirement
	implSeen  map[string]bool
	testsSeen map[string]bool
}

type testEntry struct {
	tc      types.TestCase
	reqSeen map[string]bool
}

// Registry maps identifiers to requirements and test cases. It is not safe
// for concurrent use; callers serialize mutation.
type Registry struct {
	requirements map[string]*requirementEntry
	reqOrder     []string

	tests     map[string]*testEntry
	testOrder []string

	implementations []types.Implementation
	implSeen        map[string]bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		requirements: make(map[string]*requirementEntry),
		tests:        make(map[string]*testEntry),
		implSeen:     make(map[string]bool),
	}
}

// DefineRequirement registers a requirement on its first occurrence and
// reports whether it was new. Later calls for the same ID are ignored.
func (r *Registry) DefineRequirement(id, title string, category types.Category, source types.Location) bool {
	if _, ok := r.requirements[id]; ok {
		return false
	}
	r.requirements[id] = &requirementEntry{
		req: types.Requirement{
			ID:       id,
			Title:    title,
			Category: category,
			Source:   source,
			Status:   types.StatusUnverified,
		},
		implSeen:  make(map[string]bool),
		testsSeen: make(map[string]bool),
	}
	r.reqOrder = append(r.reqOrder, id)
	return true
}

// RecordImplementation stores an implementation record, once per
// file:line, and links its locator into every referenced requirement that
// is registered. It reports whether the record was new.
func (r *Registry) RecordImplementation(impl types.Implementation) bool {
	loc := impl.Locator()
	if r.implSeen[loc] {
		return false
	}
	r.implSeen[loc] = true
	impl.RequirementIDs = slices.Clone(impl.RequirementIDs)
	r.implementations = append(r.implementations, impl)

	for _, id := range impl.RequirementIDs {
		e, ok := r.requirements[id]
		if !ok || e.implSeen[loc] {
			continue
		}
		e.implSeen[loc] = true
		e.req.Implementations = append(e.req.Implementations, loc)
	}
	return true
}

// DeclareTest registers a test case on its first occurrence and reports
// whether it was new.
func (r *Registry) DeclareTest(id, description string) bool {
	if _, ok := r.tests[id]; ok {
		return false
	}
	r.tests[id] = &testEntry{
		tc:      types.TestCase{ID: id, Description: description},
		reqSeen: make(map[string]bool),
	}
	r.testOrder = append(r.testOrder, id)
	return true
}

// Associate links a declared test to a requirement identifier. The test
// always records the identifier; the requirement gains the reverse link
// only if it is registered. Associating an undeclared test is a no-op.
func (r *Registry) Associate(testID, reqID string) {
	te, ok := r.tests[testID]
	if !ok {
		return
	}
	if !te.reqSeen[reqID] {
		te.reqSeen[reqID] = true
		te.tc.RequirementIDs = append(te.tc.RequirementIDs, reqID)
	}

	re, ok := r.requirements[reqID]
	if !ok || re.testsSeen[testID] {
		return
	}
	re.testsSeen[testID] = true
	re.req.Tests = append(re.req.Tests, testID)
}

// SetResult records the outcome of a declared test. It reports false when
// the test is unknown.
func (r *Registry) SetResult(testID string, result types.TestResult) bool {
	te, ok := r.tests[testID]
	if !ok {
		return false
	}
	te.tc.Result = result
	return true
}

// Requirement returns a copy of the requirement with id.
func (r *Registry) Requirement(id string) (types.Requirement, bool) {
	e, ok := r.requirements[id]
	if !ok {
		return types.Requirement{}, false
	}
	return copyRequirement(e.req), true
}

// Test returns a copy of the test case with id.
func (r *Registry) Test(id string) (types.TestCase, bool) {
	e, ok := r.tests[id]
	if !ok {
		return types.TestCase{}, false
	}
	return copyTest(e.tc), true
}

// Requirements returns copies of all requirements in insertion order.
func (r *Registry) Requirements() []types.Requirement {
	out := make([]types.Requirement, len(r.reqOrder))
	for i, id := range r.reqOrder {
		out[i] = copyRequirement(r.requirements[id].req)
	}
	return out
}

// SortedRequirements returns copies of all requirements ordered by ID.
func (r *Registry) SortedRequirements() []types.Requirement {
	out := r.Requirements()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tests returns copies of all test cases in insertion order.
func (r *Registry) Tests() []types.TestCase {
	out := make([]types.TestCase, len(r.testOrder))
	for i, id := range r.testOrder {
		out[i] = copyTest(r.tests[id].tc)
	}
	return out
}

// SortedTests returns copies of all test cases ordered by ID.
func (r *Registry) SortedTests() []types.TestCase {
	out := r.Tests()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Implementations returns copies of all implementation records in
// discovery order.
func (r *Registry) Implementations() []types.Implementation {
	out := make([]types.Implementation, len(r.implementations))
	for i, impl := range r.implementations {
		impl.RequirementIDs = slices.Clone(impl.RequirementIDs)
		out[i] = impl
	}
	return out
}

// Len returns the number of requirements and test cases.
func (r *Registry) Len() (requirements, tests int) {
	return len(r.reqOrder), len(r.testOrder)
}

func copyRequirement(req types.Requirement) types.Requirement {
	req.Implementations = slices.Clone(req.Implementations)
	req.Tests = slices.Clone(req.Tests)
	return req
}

func copyTest(tc types.TestCase) types.TestCase {
	tc.RequirementIDs = slices.Clone(tc.RequirementIDs)
	return tc
}
