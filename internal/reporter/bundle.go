package reporter

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/nesshub/internal/models"
)

// PreviewFindingLimit caps the findings table on the HTML preview page.
// The full list is always available in the PDF.
const PreviewFindingLimit = 25

// NewReportID returns a fresh 32-char hex report identifier.
func NewReportID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// BuildBundle renders every artifact for one report: charts, the HTML
// preview page, and the full PDF document.
func BuildBundle(details *models.ReportDetails) (*models.ReportBundle, error) {
	id := NewReportID()

	charts := models.ChartCollection{
		Severity: SeverityBarChart(details.Aggregates.SeverityCounts),
		Hosts:    TopHostsChart(details.Aggregates.TopHosts),
		Families: TopFamiliesChart(details.Aggregates.TopFamilies),
		Risks:    RiskFactorChart(details.Aggregates.RiskCounts),
	}

	html, err := RenderHTML(details, charts, HTMLOptions{
		PreviewLimit: PreviewFindingLimit,
		DownloadPath: "/reports/" + id + ".pdf",
	})
	if err != nil {
		return nil, fmt.Errorf("build report %s: %w", id, err)
	}

	pdf, err := RenderPDF(details)
	if err != nil {
		return nil, fmt.Errorf("build report %s: %w", id, err)
	}

	return &models.ReportBundle{
		ID:      id,
		Details: details,
		Charts:  charts,
		HTML:    html,
		PDF:     pdf,
	}, nil
}
