// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// htmlTitleLen is the title length shown in HTML tables before eliding.
const htmlTitleLen = 50

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"short":    shortTitle,
	"pct":      func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"width":    func(f float64) template.CSS { return template.CSS(fmt.Sprintf("width: %.1f%%", f)) },
	"label":    categoryLabel,
	"stamp":    func(r *types.Report) string { return r.GeneratedAt.Format(timeLayout) },
	"category": func(r *types.Report, c types.Category) []types.Requirement { return r.RequirementsByCategory(c) },
}).Parse(htmlSource))

// WriteHTML writes a standalone styled HTML page.
func WriteHTML(w io.Writer, rep *types.Report) error {
	data := struct {
		Report     *types.Report
		Categories []types.Category
	}{rep, types.Categories}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("executing HTML template: %w", err)
	}
	return nil
}

func shortTitle(s string) string {
	r := []rune(s)
	if len(r) <= htmlTitleLen {
		return s
	}
	return string(r[:htmlTitleLen]) + "..."
}

const htmlSource = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Traceability Report</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 40px; background: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 40px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1a1a2e; border-bottom: 2px solid #4a4a8a; padding-bottom: 10px; }
        h2 { color: #4a4a8a; margin-top: 30px; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background: #4a4a8a; color: white; }
        tr:hover { background: #f5f5f5; }
        .stat-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin: 20px 0; }
        .stat-card { background: linear-gradient(135deg, #4a4a8a, #6a6aaa); color: white; padding: 20px; border-radius: 8px; text-align: center; }
        .stat-value { font-size: 2em; font-weight: bold; }
        .stat-label { opacity: 0.9; margin-top: 5px; }
        .status-verified { color: #22c55e; }
        .status-implemented { color: #60a5fa; }
        .status-test-only { color: #f59e0b; }
        .status-unverified { color: #ef4444; }
        .progress-bar { background: #e0e0e0; border-radius: 10px; overflow: hidden; height: 20px; }
        .progress-fill { height: 100%; background: linear-gradient(90deg, #22c55e, #60a5fa); }
        .timestamp { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Traceability Report</h1>
        <p class="timestamp">Generated: {{stamp .Report}}</p>
{{with .Report.Statistics}}
        <h2>Coverage Overview</h2>
        <div class="stat-grid">
            <div class="stat-card"><div class="stat-value">{{.TotalRequirements}}</div><div class="stat-label">Total Requirements</div></div>
            <div class="stat-card"><div class="stat-value">{{pct .VerificationCoverage}}</div><div class="stat-label">Verification Coverage</div></div>
            <div class="stat-card"><div class="stat-value">{{pct .ImplementationCoverage}}</div><div class="stat-label">Implementation Coverage</div></div>
            <div class="stat-card"><div class="stat-value">{{pct .TestCoverage}}</div><div class="stat-label">Test Coverage</div></div>
        </div>

        <h2>Coverage Progress</h2>
        <div class="progress-bar">
            <div class="progress-fill" style="{{width .VerificationCoverage}}"></div>
        </div>
{{end}}
{{- range $c := .Categories}}
        <h2>{{label $c}} Requirements</h2>
        <table>
            <tr><th>Req ID</th><th>Title</th><th>Status</th><th>Implementations</th><th>Tests</th></tr>
{{- range category $.Report $c}}
            <tr>
                <td><strong>{{.ID}}</strong></td>
                <td title="{{.Title}}">{{short .Title}}</td>
                <td class="status-{{.Status}}">{{.Status}}</td>
                <td>{{len .Implementations}}</td>
                <td>{{len .Tests}}</td>
            </tr>
{{- end}}
        </table>
{{- end}}
{{- if .Report.Warnings}}
        <h2>Skipped Artifacts</h2>
        <ul>
{{- range .Report.Warnings}}
            <li><code>{{.Path}}</code>: {{.Error}}</li>
{{- end}}
        </ul>
{{- end}}
    </div>
</body>
</html>
`
