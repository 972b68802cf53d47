// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// Document is the structured report layout shared by JSON and YAML:
// requirements and tests keyed by ID.
type Document struct {
	GeneratedAt     time.Time                   `json:"generated_at" yaml:"generated_at"`
	ProjectRoot     string                      `json:"project_root" yaml:"project_root"`
	Statistics      types.Statistics            `json:"statistics" yaml:"statistics"`
	Requirements    map[string]RequirementEntry `json:"requirements" yaml:"requirements"`
	Tests           map[string]TestEntry        `json:"tests" yaml:"tests"`
	Implementations []types.Implementation      `json:"implementations" yaml:"implementations"`
	Scanned         types.ScanCounts            `json:"scanned" yaml:"scanned"`
	Warnings        []types.ArtifactWarning     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RequirementEntry is one requirement in a Document.
type RequirementEntry struct {
	ID              string         `json:"id" yaml:"id"`
	Title           string         `json:"title" yaml:"title"`
	Category        types.Category `json:"category" yaml:"category"`
	Source          string         `json:"source" yaml:"source"`
	Status          types.Status   `json:"status" yaml:"status"`
	Implementations []string       `json:"implementations" yaml:"implementations"`
	Tests           []string       `json:"tests" yaml:"tests"`
}

// TestEntry is one test case in a Document.
type TestEntry struct {
	ID           string           `json:"id" yaml:"id"`
	Description  string           `json:"description" yaml:"description"`
	Requirements []string         `json:"requirements" yaml:"requirements"`
	Result       types.TestResult `json:"result,omitempty" yaml:"result,omitempty"`
}

// NewDocument converts rep to the keyed layout. Empty link lists are
// rendered as empty arrays rather than null.
func NewDocument(rep *types.Report) Document {
	doc := Document{
		GeneratedAt:     rep.GeneratedAt,
		ProjectRoot:     rep.ProjectRoot,
		Statistics:      rep.Statistics,
		Requirements:    make(map[string]RequirementEntry, len(rep.Requirements)),
		Tests:           make(map[string]TestEntry, len(rep.Tests)),
		Implementations: rep.Implementations,
		Scanned:         rep.Scanned,
		Warnings:        rep.Warnings,
	}
	if doc.Implementations == nil {
		doc.Implementations = []types.Implementation{}
	}

	for _, req := range rep.Requirements {
		doc.Requirements[req.ID] = RequirementEntry{
			ID:              req.ID,
			Title:           req.Title,
			Category:        req.Category,
			Source:          req.Source.String(),
			Status:          req.Status,
			Implementations: nonNil(req.Implementations),
			Tests:           nonNil(req.Tests),
		}
	}
	for _, tc := range rep.Tests {
		doc.Tests[tc.ID] = TestEntry{
			ID:           tc.ID,
			Description:  tc.Description,
			Requirements: nonNil(tc.RequirementIDs),
			Result:       tc.Result,
		}
	}
	return doc
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep *types.Report) error {
	data, err := json.MarshalIndent(NewDocument(rep), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteYAML writes rep as YAML.
func WriteYAML(w io.Writer, rep *types.Report) error {
	data, err := yaml.Marshal(NewDocument(rep))
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}
