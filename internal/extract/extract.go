// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract recognises requirement and test identifiers in artifact
// text and infers the context around each match: a requirement title in
// documentation, the enclosing function in source, the test name in test
// source. Scanning is line-oriented and never fails on content.
package extract

import (
	"strings"

	"github.com/pdiddy/traceability-engine/internal/patterns"
	"github.com/pdiddy/traceability-engine/pkg/types"
)

// Kind says how an artifact is interpreted.
type Kind string

const (
	KindDoc    Kind = "doc"
	KindSource Kind = "source"
	KindTest   Kind = "test"
	KindPlan   Kind = "plan"
)

// Artifact is the raw text of one project file with its path label.
type Artifact struct {
	Path string
	Kind Kind
	Text string
}

// OccurrenceKind distinguishes requirement matches from test matches.
type OccurrenceKind string

const (
	OccurrenceRequirement OccurrenceKind = "requirement"
	OccurrenceTest        OccurrenceKind = "test"
)

// Occurrence is one identifier match with its 1-based line number.
// Category is empty for test identifiers.
type Occurrence struct {
	Kind     OccurrenceKind
	Category types.Category
	ID       string
	Line     int
}

// Definition is the first appearance of a requirement in a document.
type Definition struct {
	ID    string
	Group types.Category
	Title string
	Line  int
}

// TestDecl is the first appearance of a test identifier in an artifact.
type TestDecl struct {
	ID          string
	Description string
	Line        int
}

// Association links a test identifier to a requirement identifier.
type Association struct {
	TestID        string
	RequirementID string
}

// Result is everything one artifact contributes to the trace graph.
type Result struct {
	Path            string
	Kind            Kind
	Definitions     []Definition
	Implementations []types.Implementation
	Tests           []TestDecl
	Associations    []Association
}

// Scanner applies a pattern registry to artifact text.
type Scanner struct {
	patterns *patterns.Registry
}

// NewScanner returns a Scanner using reg.
func NewScanner(reg *patterns.Registry) *Scanner {
	return &Scanner{patterns: reg}
}

// splitLines splits text on newlines, dropping a trailing carriage return
// from each line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Extract returns every requirement and test identifier in text, line by
// line, each line's matches ordered by column with requirements first.
func (s *Scanner) Extract(text string) []Occurrence {
	return s.extractLines(splitLines(text))
}

func (s *Scanner) extractLines(lines []string) []Occurrence {
	var out []Occurrence
	for i, line := range lines {
		for _, m := range s.patterns.FindRequirements(line) {
			out = append(out, Occurrence{Kind: OccurrenceRequirement, Category: m.Category, ID: m.ID, Line: i + 1})
		}
		for _, m := range s.patterns.FindTests(line) {
			out = append(out, Occurrence{Kind: OccurrenceTest, ID: m.ID, Line: i + 1})
		}
	}
	return out
}

// Scan interprets an artifact according to its kind, working from the
// occurrences Extract finds in its text.
func (s *Scanner) Scan(a Artifact) Result {
	lines := splitLines(a.Text)
	occs := s.extractLines(lines)
	res := Result{Path: a.Path, Kind: a.Kind}

	switch a.Kind {
	case KindDoc:
		scanDoc(lines, occs, &res)
	case KindSource:
		scanSource(lines, occs, &res)
	case KindTest:
		scanTest(lines, occs, &res)
	case KindPlan:
		scanPlan(occs, &res)
	}
	return res
}

// byLine calls fn once per line that has occurrences, in line order,
// with that line's requirement and test identifiers.
func byLine(occs []Occurrence, fn func(line int, reqIDs, testIDs []string)) {
	for i := 0; i < len(occs); {
		line := occs[i].Line
		var reqIDs, testIDs []string
		for ; i < len(occs) && occs[i].Line == line; i++ {
			if occs[i].Kind == OccurrenceRequirement {
				reqIDs = append(reqIDs, occs[i].ID)
			} else {
				testIDs = append(testIDs, occs[i].ID)
			}
		}
		fn(line, reqIDs, testIDs)
	}
}

func scanDoc(lines []string, occs []Occurrence, res *Result) {
	seen := make(map[string]bool)
	for _, o := range occs {
		if o.Kind != OccurrenceRequirement || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		res.Definitions = append(res.Definitions, Definition{
			ID:    o.ID,
			Group: o.Category,
			Title: Title(lines[o.Line-1]),
			Line:  o.Line,
		})
	}
}

func scanSource(lines []string, occs []Occurrence, res *Result) {
	byLine(occs, func(line int, reqIDs, _ []string) {
		if len(reqIDs) == 0 {
			return
		}
		res.Implementations = append(res.Implementations, types.Implementation{
			File:           res.Path,
			Line:           line,
			Function:       FunctionName(lines, line-1),
			RequirementIDs: unique(reqIDs),
		})
	})
}

// scanTest associates each test identifier with the requirement
// identifiers on the same line.
func scanTest(lines []string, occs []Occurrence, res *Result) {
	seen := make(map[string]bool)
	linked := make(map[Association]bool)
	byLine(occs, func(line int, reqIDs, testIDs []string) {
		for _, testID := range testIDs {
			if !seen[testID] {
				seen[testID] = true
				res.Tests = append(res.Tests, TestDecl{
					ID:          testID,
					Description: TestDescription(lines, line-1),
					Line:        line,
				})
			}
			for _, reqID := range reqIDs {
				a := Association{TestID: testID, RequirementID: reqID}
				if !linked[a] {
					linked[a] = true
					res.Associations = append(res.Associations, a)
				}
			}
		}
	})
}

// scanPlan associates every test identifier in a verification plan with
// every requirement identifier in the same document.
func scanPlan(occs []Occurrence, res *Result) {
	seenTest := make(map[string]bool)
	seenReq := make(map[string]bool)
	var reqIDs []string

	for _, o := range occs {
		switch o.Kind {
		case OccurrenceTest:
			if seenTest[o.ID] {
				continue
			}
			seenTest[o.ID] = true
			res.Tests = append(res.Tests, TestDecl{
				ID:          o.ID,
				Description: PlanTestDescription,
				Line:        o.Line,
			})
		case OccurrenceRequirement:
			if !seenReq[o.ID] {
				seenReq[o.ID] = true
				reqIDs = append(reqIDs, o.ID)
			}
		}
	}

	for _, t := range res.Tests {
		for _, reqID := range reqIDs {
			res.Associations = append(res.Associations, Association{TestID: t.ID, RequirementID: reqID})
		}
	}
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
