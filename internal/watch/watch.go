// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-runs an action when files under a project root change.
// Bursts of file events are collapsed into one call after a quiet period.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Action is called with the project-relative paths that changed.
type Action func(ctx context.Context, changed []string) error

// Watcher watches every directory under a root except ignored ones.
type Watcher struct {
	root     string
	ignore   []string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
}

// New starts watching root. ignore lists directories (absolute or relative
// to root) whose events are dropped; dot-directories are always skipped.
func New(root string, ignore []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{root: abs, debounce: debounce, fsw: fsw, logger: logger}
	for _, dir := range ignore {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(abs, dir)
		}
		w.ignore = append(w.ignore, filepath.Clean(dir))
	}

	if err := w.addTree(abs); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls fn after each burst of changes until ctx is done. Errors from
// fn are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn Action) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			rel, keep := w.handle(event)
			if !keep {
				continue
			}
			pending[rel] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			slices.Sort(changed)
			clear(pending)

			w.logger.Debug("change detected", "files", len(changed))
			if err := fn(ctx, changed); err != nil {
				w.logger.Error("re-run failed", "error", err)
			}
		}
	}
}

// handle filters an event and adds watches for new directories. It
// returns the slash-separated path relative to the root.
func (w *Watcher) handle(event fsnotify.Event) (string, bool) {
	if w.skipped(event.Name) {
		return "", false
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return "", false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// skipped reports whether path lies in an ignored or hidden directory.
func (w *Watcher) skipped(path string) bool {
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.skipped(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
}
