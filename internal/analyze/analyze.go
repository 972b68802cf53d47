// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze runs one traceability analysis: it reads the discovered
// artifacts phase by phase, extracts identifiers, links them through a
// fresh registry, and freezes the outcome into a types.Report.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/traceability-engine/internal/coverage"
	"github.com/pdiddy/traceability-engine/internal/discover"
	"github.com/pdiddy/traceability-engine/internal/extract"
	"github.com/pdiddy/traceability-engine/internal/link"
	"github.com/pdiddy/traceability-engine/internal/patterns"
	"github.com/pdiddy/traceability-engine/internal/registry"
	"github.com/pdiddy/traceability-engine/pkg/types"
)

// ErrNotUTF8 marks an artifact whose bytes are not valid UTF-8.
var ErrNotUTF8 = errors.New("not valid UTF-8 text")

// Analyzer holds the immutable pieces shared by every run. Each call to
// Run builds its own registry, so one Analyzer may run repeatedly.
type Analyzer struct {
	cfg        types.ScanConfig
	patterns   *patterns.Registry
	scanner    *extract.Scanner
	classifier patterns.Classifier
	logger     *slog.Logger
	now        func() time.Time
}

// New builds an Analyzer from cfg. A nil logger discards log output.
func New(cfg types.ScanConfig, logger *slog.Logger) (*Analyzer, error) {
	reg, err := patterns.New(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	classifier, err := patterns.NewClassifier(cfg.Classify)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{
		cfg:        cfg,
		patterns:   reg,
		scanner:    extract.NewScanner(reg),
		classifier: classifier,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Patterns returns the pattern registry in use.
func (a *Analyzer) Patterns() *patterns.Registry {
	return a.patterns
}

// Run discovers artifacts under the configured root and analyzes them.
func (a *Analyzer) Run(ctx context.Context) (*types.Report, error) {
	set, err := discover.Find(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("discovering artifacts: %w", err)
	}
	a.logger.Debug("discovered artifacts",
		"docs", len(set.Docs), "sources", len(set.Sources),
		"tests", len(set.Tests), "plans", len(set.Plans))
	return a.RunSet(ctx, set)
}

// phase is one sequential stage of a run.
type phase struct {
	kind  extract.Kind
	paths []string
	count *int
}

// RunSet analyzes an already discovered artifact set. Phases run in order
// (documents, sources, test files, plans) so that every requirement is
// defined before anything links to it.
func (a *Analyzer) RunSet(ctx context.Context, set discover.Set) (*types.Report, error) {
	start := a.now()
	linker := link.New(registry.New(), a.classifier)
	rep := &types.Report{ProjectRoot: a.cfg.Root}

	phases := []phase{
		{extract.KindDoc, set.Docs, &rep.Scanned.Docs},
		{extract.KindSource, set.Sources, &rep.Scanned.Sources},
		{extract.KindTest, set.Tests, &rep.Scanned.Tests},
		{extract.KindPlan, set.Plans, &rep.Scanned.Plans},
	}

	for _, p := range phases {
		outcomes, err := a.scanPhase(ctx, p.kind, p.paths)
		if err != nil {
			return nil, err
		}
		for _, o := range outcomes {
			if o.err != nil {
				a.logger.Warn("skipping unreadable artifact", "path", o.path, "error", o.err)
				rep.Warnings = append(rep.Warnings, types.ArtifactWarning{Path: o.path, Error: o.err.Error()})
				rep.Scanned.Failed++
				continue
			}
			linker.Apply(o.result)
			*p.count++
		}
		a.logger.Debug("phase complete", "kind", p.kind, "artifacts", len(p.paths))
	}

	reg := linker.Registry()
	if a.cfg.ResultsFile != "" {
		results, err := LoadResults(a.cfg.ResultsFile)
		if err != nil {
			return nil, err
		}
		a.applyResults(reg, results)
	}

	rep.Requirements = coverage.Evaluate(reg.SortedRequirements())
	rep.Tests = reg.SortedTests()
	rep.Implementations = reg.Implementations()
	rep.Statistics = coverage.Compute(rep.Requirements, len(rep.Implementations), len(rep.Tests))
	rep.GeneratedAt = a.now()
	rep.Duration = rep.GeneratedAt.Sub(start)
	return rep, nil
}

// outcome is the result of reading and scanning one artifact.
type outcome struct {
	path   string
	result extract.Result
	err    error
}

// scanPhase reads and scans paths, returning outcomes in input order.
// Artifact failures are carried in the outcome; only cancellation is
// returned as an error.
func (a *Analyzer) scanPhase(ctx context.Context, kind extract.Kind, paths []string) ([]outcome, error) {
	out := make([]outcome, len(paths))

	if a.cfg.Workers <= 1 {
		for i, p := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = a.scanOne(kind, p)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = a.scanOne(kind, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, ctx.Err()
}

func (a *Analyzer) scanOne(kind extract.Kind, path string) outcome {
	text, err := readArtifact(filepath.Join(a.cfg.Root, filepath.FromSlash(path)))
	if err != nil {
		return outcome{path: path, err: err}
	}
	return outcome{
		path:   path,
		result: a.scanner.Scan(extract.Artifact{Path: path, Kind: kind, Text: text}),
	}
}

func readArtifact(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	return string(data), nil
}

func (a *Analyzer) applyResults(reg *registry.Registry, results map[string]types.TestResult) {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if !reg.SetResult(id, results[id]) {
			a.logger.Warn("ignoring result for unknown test", "test", id)
		}
	}
}
