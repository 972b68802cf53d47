// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover selects the project artifacts to scan by expanding
// doublestar glob patterns relative to the project root.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// Set holds slash-separated artifact paths relative to the project root,
// sorted and without duplicates within each kind. A plan document is
// usually also present in Docs.
type Set struct {
	Docs    []string
	Sources []string
	Tests   []string
	Plans   []string
}

// Len returns the number of artifact entries across all kinds.
func (s Set) Len() int {
	return len(s.Docs) + len(s.Sources) + len(s.Tests) + len(s.Plans)
}

// Find expands the globs in cfg against cfg.Root.
func Find(cfg types.ScanConfig) (Set, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return Set{}, fmt.Errorf("project root %s: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return Set{}, fmt.Errorf("project root %s is not a directory", cfg.Root)
	}

	for _, p := range concat(cfg.DocGlobs, cfg.SourceGlobs, cfg.SourceExclude, cfg.TestGlobs, cfg.PlanGlobs, cfg.Exclude) {
		if !doublestar.ValidatePattern(p) {
			return Set{}, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	fsys := os.DirFS(cfg.Root)
	var set Set

	if set.Docs, err = expand(fsys, cfg.DocGlobs, cfg.Exclude); err != nil {
		return Set{}, err
	}
	if set.Sources, err = expand(fsys, cfg.SourceGlobs, concat(cfg.Exclude, cfg.SourceExclude)); err != nil {
		return Set{}, err
	}
	if set.Tests, err = expand(fsys, cfg.TestGlobs, cfg.Exclude); err != nil {
		return Set{}, err
	}
	if set.Plans, err = expand(fsys, cfg.PlanGlobs, cfg.Exclude); err != nil {
		return Set{}, err
	}
	return set, nil
}

// expand returns the sorted union of files matching globs, minus any path
// matching an exclude pattern.
func expand(fsys fs.FS, globs, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	for _, g := range globs {
		matches, err := doublestar.Glob(fsys, g, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", g, err)
		}
		for _, m := range matches {
			if seen[m] || excluded(m, exclude) {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}

	sort.Strings(out)
	return out, nil
}

func excluded(path string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
