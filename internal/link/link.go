// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package link applies per-artifact extraction results to the entity
// registry, establishing requirement definitions, implementation links,
// and bidirectional test associations.
package link

import (
	"github.com/pdiddy/traceability-engine/internal/extract"
	"github.com/pdiddy/traceability-engine/internal/patterns"
	"github.com/pdiddy/traceability-engine/internal/registry"
	"github.com/pdiddy/traceability-engine/pkg/types"
)

// Linker is the single owner of registry mutation during a run.
type Linker struct {
	reg        *registry.Registry
	classifier patterns.Classifier
}

// New returns a Linker writing to reg. A nil classifier selects path
// classification.
func New(reg *registry.Registry, classifier patterns.Classifier) *Linker {
	if classifier == nil {
		classifier = patterns.PathClassifier{}
	}
	return &Linker{reg: reg, classifier: classifier}
}

// Registry returns the registry the linker writes to.
func (l *Linker) Registry() *registry.Registry {
	return l.reg
}

// Apply merges one artifact's result into the registry. Applying the same
// result twice has no further effect.
func (l *Linker) Apply(res extract.Result) {
	for _, d := range res.Definitions {
		l.reg.DefineRequirement(d.ID, d.Title,
			l.classifier.Classify(res.Path, d.Group),
			types.Location{File: res.Path, Line: d.Line})
	}

	for _, impl := range res.Implementations {
		l.reg.RecordImplementation(impl)
	}

	for _, t := range res.Tests {
		l.reg.DeclareTest(t.ID, t.Description)
	}
	for _, a := range res.Associations {
		l.reg.Associate(a.TestID, a.RequirementID)
	}
}

// ApplyAll merges results in order.
func (l *Linker) ApplyAll(results []extract.Result) {
	for _, res := range results {
		l.Apply(res)
	}
}
