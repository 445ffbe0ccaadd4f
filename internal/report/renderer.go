package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"CoinScan/internal/domain/models"
)

// Renderer builds the opportunities dashboard page from a scan report.
type Renderer struct {
	title string
	tmpl  *template.Template
}

func NewRenderer(title string) (*Renderer, error) {
	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"scoreClass": scoreClass,
		"price":      formatPrice,
		"pct":        func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"ratio":      func(v float64) string { return fmt.Sprintf("%.2fx", v) },
		"critLabel":  criterionLabel,
		"addOne":     func(i int) int { return i + 1 },
	}).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Renderer{title: title, tmpl: tmpl}, nil
}

type pageData struct {
	Title  string
	Report *models.ScanReport
}

// Render produces the full HTML page. A nil report renders the waiting
// state shown before the first scan completes.
func (r *Renderer) Render(report *models.ScanReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, pageData{Title: r.title, Report: report}); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

func scoreClass(score int) string {
	switch {
	case score >= 75:
		return "score-high"
	case score >= 50:
		return "score-mid"
	default:
		return "score-low"
	}
}

func formatPrice(v float64) string {
	switch {
	case v >= 1000:
		return fmt.Sprintf("%.2f", v)
	case v >= 1:
		return fmt.Sprintf("%.4f", v)
	default:
		return fmt.Sprintf("%.6f", v)
	}
}

func criterionLabel(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="60">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, Segoe UI, Roboto, sans-serif; background: #0d1117; color: #c9d1d9; margin: 0; padding: 2rem; }
h1 { color: #f0b90b; margin-bottom: 0.25rem; }
.meta { color: #8b949e; font-size: 0.85rem; margin-bottom: 1.5rem; }
table { width: 100%; border-collapse: collapse; background: #161b22; border-radius: 8px; overflow: hidden; }
th, td { padding: 0.6rem 0.9rem; text-align: left; border-bottom: 1px solid #21262d; }
th { background: #21262d; color: #8b949e; text-transform: uppercase; font-size: 0.75rem; letter-spacing: 0.05em; }
tr:hover td { background: #1c2129; }
.rank { color: #8b949e; width: 2rem; }
.symbol { font-weight: 600; }
.score { font-weight: 700; padding: 0.15rem 0.6rem; border-radius: 999px; display: inline-block; }
.score-high { background: #1f6e3c; color: #aff5b4; }
.score-mid { background: #6e5a1f; color: #f5e3af; }
.score-low { background: #21262d; color: #8b949e; }
.badge { display: inline-block; padding: 0.1rem 0.45rem; margin-right: 0.25rem; border-radius: 4px; font-size: 0.72rem; }
.badge-met { background: #12341c; color: #7ee787; }
.badge-miss { background: #21262d; color: #6e7681; text-decoration: line-through; }
.empty { padding: 3rem; text-align: center; color: #8b949e; background: #161b22; border-radius: 8px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Report}}
<div class="meta">
Generated {{.Report.GeneratedAt.Format "2006-01-02 15:04:05 UTC"}} &middot;
interval {{.Report.Interval}} &middot;
{{.Report.Scanned}} scanned &middot; {{.Report.Skipped}} skipped
</div>
{{if .Report.Results}}
<table>
<thead>
<tr><th class="rank">#</th><th>Symbol</th><th>Score</th><th>Last price</th><th>RSI</th><th>Volume</th><th>Criteria</th></tr>
</thead>
<tbody>
{{range $i, $r := .Report.Results}}
<tr>
<td class="rank">{{addOne $i}}</td>
<td class="symbol">{{$r.Symbol}}</td>
<td><span class="score {{scoreClass $r.Score}}">{{$r.Score}}</span></td>
<td>{{price $r.LastPrice}}</td>
<td>{{pct $r.RSI}}</td>
<td>{{ratio $r.VolumeRatio}}</td>
<td>
{{range $r.Breakdown}}<span class="badge {{if .Met}}badge-met{{else}}badge-miss{{end}}">{{critLabel .Name}}</span>{{end}}
</td>
</tr>
{{end}}
</tbody>
</table>
{{else}}
<div class="empty">No symbols survived this cycle. Next scan will retry.</div>
{{end}}
{{else}}
<div class="empty">Scan in progress. This page refreshes automatically.</div>
{{end}}
</body>
</html>
`
