// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a frozen types.Report as JSON, YAML, Markdown,
// HTML, or a terminal summary. Renderers only read the report.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// baseName is the file name stem shared by every rendered format.
const baseName = "traceability"

// FileName returns the output file name for format f.
func FileName(f types.ReportFormat) string {
	switch f {
	case types.FormatMarkdown:
		return baseName + ".md"
	default:
		return baseName + "." + string(f)
	}
}

// ParseFormats turns a comma-separated list such as "json,html" into
// formats. "all" selects every format. Duplicates are dropped and the
// result follows types.AllFormats order.
func ParseFormats(spec string) ([]types.ReportFormat, error) {
	want := make(map[types.ReportFormat]bool)
	for _, part := range strings.Split(spec, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		switch {
		case name == "":
			continue
		case name == "all":
			return slices.Clone(types.AllFormats), nil
		case name == "md":
			want[types.FormatMarkdown] = true
		case slices.Contains(types.AllFormats, types.ReportFormat(name)):
			want[types.ReportFormat(name)] = true
		default:
			return nil, fmt.Errorf("unknown report format %q: use json, yaml, markdown, html or all", part)
		}
	}
	if len(want) == 0 {
		return nil, fmt.Errorf("no report format given")
	}

	var out []types.ReportFormat
	for _, f := range types.AllFormats {
		if want[f] {
			out = append(out, f)
		}
	}
	return out, nil
}

// Render writes rep to w in format f.
func Render(w io.Writer, f types.ReportFormat, rep *types.Report) error {
	switch f {
	case types.FormatJSON:
		return WriteJSON(w, rep)
	case types.FormatYAML:
		return WriteYAML(w, rep)
	case types.FormatMarkdown:
		return WriteMarkdown(w, rep)
	case types.FormatHTML:
		return WriteHTML(w, rep)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// Write renders rep into dir once per format and returns the written
// paths. dir is created when missing.
func Write(dir string, formats []types.ReportFormat, rep *types.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var paths []string
	for _, f := range formats {
		path := filepath.Join(dir, FileName(f))
		if err := writeFile(path, f, rep); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, f types.ReportFormat, rep *types.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Render(file, f, rep); err != nil {
		file.Close()
		return fmt.Errorf("rendering %s: %w", f, err)
	}
	return file.Close()
}

// statusIcon maps a status to the marker used in text reports.
func statusIcon(s types.Status) string {
	switch s {
	case types.StatusVerified:
		return "✓"
	case types.StatusImplemented:
		return "◐"
	case types.StatusTestOnly:
		return "○"
	case types.StatusUnverified:
		return "✗"
	default:
		return "?"
	}
}

const timeLayout = "2006-01-02 15:04:05"
