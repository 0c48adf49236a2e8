package reporter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/ppiankov/nesshub/internal/models"
)

//go:embed templates/report.html
var templateFS embed.FS

// HTMLOptions tweaks the rendered report page.
type HTMLOptions struct {
	// PreviewLimit caps the findings table; 0 renders every finding.
	PreviewLimit int
	// DownloadPath, when set, adds a PDF download link (service preview).
	DownloadPath string
}

// htmlContext is the template's data root.
type htmlContext struct {
	Details       *models.ReportDetails
	Charts        models.ChartCollection
	Findings      []models.FindingRecord
	SeverityOrder []string
	Truncated     bool
	DownloadPath  string
}

// RenderHTML renders the full report page from the embedded template.
func RenderHTML(details *models.ReportDetails, charts models.ChartCollection, opts HTMLOptions) ([]byte, error) {
	funcMap := sprig.FuncMap()
	funcMap["severityColor"] = severityColorFor
	funcMap["score"] = formatScore

	tmpl, err := template.New("report.html").Funcs(funcMap).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}

	findings := details.Findings
	truncated := false
	if opts.PreviewLimit > 0 && len(findings) > opts.PreviewLimit {
		findings = findings[:opts.PreviewLimit]
		truncated = true
	}

	ctx := htmlContext{
		Details:       details,
		Charts:        charts,
		Findings:      findings,
		SeverityOrder: models.SeverityOrder,
		Truncated:     truncated,
		DownloadPath:  opts.DownloadPath,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("render report template: %w", err)
	}
	return buf.Bytes(), nil
}

// severityColorFor maps a severity label to its display color.
func severityColorFor(label string) string {
	if color, ok := severityColors[label]; ok {
		return color
	}
	return accentColor
}

// formatScore renders an optional CVSS score with the given precision.
func formatScore(precision int, score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", precision, *score)
}
