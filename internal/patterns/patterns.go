// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package patterns holds the identifier-recognition rules for requirements
// and test cases, and the rule that assigns a category to documentation.
package patterns

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// Built-in requirement patterns by category. Order matters only for
// Patterns(); matching always tries every pattern of every group.
var (
	safetyPatterns = []string{
		`SR-CL-\d+`, // safety requirements
		`FSR-\d+`,   // functional safety requirements
		`TSR-\d+`,   // technical safety requirements
		`SG-\d+`,    // safety goals
	}

	securityPatterns = []string{
		`CR-INF-\d+`, // security requirements
		`CSG-\d+`,    // cybersecurity goals
		`TARA-\d+`,   // threat scenarios
	}

	testPatterns = []string{
		`T-CL-\d+`,  // cluster tests
		`T-FSR-\d+`, // FSR tests
		`T-TSR-\d+`, // TSR tests
		`SEC-\d+`,   // security tests
		`FI-\d+`,    // fault injection tests
	}
)

// group is an ordered list of patterns sharing a category.
type group struct {
	category types.Category
	patterns []*regexp.Regexp
}

// Registry is the immutable set of identifier patterns for one analysis run.
type Registry struct {
	groups []group
	tests  []*regexp.Regexp
}

// Match is one identifier found on a line. Start and End are byte offsets.
type Match struct {
	ID       string
	Category types.Category
	Start    int
	End      int
}

// Default returns a registry with only the built-in patterns.
func Default() *Registry {
	r, err := New(types.PatternConfig{})
	if err != nil {
		panic(err)
	}
	return r
}

// New builds a registry from the built-in patterns plus extra. It returns
// an error when an extra pattern does not compile.
func New(extra types.PatternConfig) (*Registry, error) {
	safety, err := compileAll(append(append([]string{}, safetyPatterns...), extra.Safety...))
	if err != nil {
		return nil, fmt.Errorf("compiling safety patterns: %w", err)
	}
	security, err := compileAll(append(append([]string{}, securityPatterns...), extra.Security...))
	if err != nil {
		return nil, fmt.Errorf("compiling security patterns: %w", err)
	}
	tests, err := compileAll(append(append([]string{}, testPatterns...), extra.Tests...))
	if err != nil {
		return nil, fmt.Errorf("compiling test patterns: %w", err)
	}

	return &Registry{
		groups: []group{
			{category: types.CategorySafety, patterns: safety},
			{category: types.CategorySecurity, patterns: security},
		},
		tests: tests,
	}, nil
}

func compileAll(exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	seen := make(map[string]bool)
	for _, expr := range exprs {
		if seen[expr] {
			continue
		}
		seen[expr] = true
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", expr, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Categories returns the requirement categories in registry order.
func (r *Registry) Categories() []types.Category {
	out := make([]types.Category, len(r.groups))
	for i, g := range r.groups {
		out[i] = g.category
	}
	return out
}

// Patterns returns the ordered patterns for category c, or nil for an
// unknown category.
func (r *Registry) Patterns(c types.Category) []*regexp.Regexp {
	for _, g := range r.groups {
		if g.category == c {
			return append([]*regexp.Regexp(nil), g.patterns...)
		}
	}
	return nil
}

// TestPatterns returns the ordered test-case patterns.
func (r *Registry) TestPatterns() []*regexp.Regexp {
	return append([]*regexp.Regexp(nil), r.tests...)
}

// FindRequirements returns every non-overlapping requirement identifier on
// line, across all categories, ordered by position.
func (r *Registry) FindRequirements(line string) []Match {
	var candidates []Match
	for _, g := range r.groups {
		candidates = appendMatches(candidates, line, g.patterns, g.category)
	}
	return resolve(candidates)
}

// FindTests returns every non-overlapping test identifier on line, ordered
// by position.
func (r *Registry) FindTests(line string) []Match {
	return resolve(appendMatches(nil, line, r.tests, ""))
}

func appendMatches(dst []Match, line string, res []*regexp.Regexp, c types.Category) []Match {
	for _, re := range res {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			if !atBoundary(line, loc[0]) {
				continue
			}
			dst = append(dst, Match{
				ID:       line[loc[0]:loc[1]],
				Category: c,
				Start:    loc[0],
				End:      loc[1],
			})
		}
	}
	return dst
}

// atBoundary reports whether an identifier may start at offset i. An
// identifier glued to a preceding letter, digit, or hyphen is the tail of a
// longer identifier (FSR-1 inside T-FSR-1, SG-4 inside CSG-4).
func atBoundary(line string, i int) bool {
	if i == 0 {
		return true
	}
	b := line[i-1]
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '-':
		return false
	}
	return true
}

// resolve orders candidates by position and drops any that overlap an
// earlier (or, at the same start, longer) match.
func resolve(candidates []Match) []Match {
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	out := candidates[:0]
	end := -1
	for _, m := range candidates {
		if m.Start < end {
			continue
		}
		out = append(out, m)
		end = m.End
	}
	return out
}

// IDs returns the identifiers of matches in order.
func IDs(matches []Match) []string {
	if len(matches) == 0 {
		return nil
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}
