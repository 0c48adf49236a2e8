package tui

import (
	"fmt"
	"strings"

	"github.com/ppiankov/nesshub/internal/models"
)

// headerHeight is the number of terminal lines the header occupies.
const headerHeight = 5

// renderHeader produces the header string from report aggregates.
func renderHeader(details *models.ReportDetails, width int) string {
	var b strings.Builder

	// Line 1: report name and customer
	b.WriteString("Nesshub  " + details.Metadata.Name)
	if details.Metadata.Customer != "" {
		b.WriteString("  (" + details.Metadata.Customer + ")")
	}
	b.WriteString("\n")

	// Line 2: totals
	agg := details.Aggregates
	b.WriteString(fmt.Sprintf("Findings: %d  Hosts: %d", agg.TotalFindings, agg.AffectedHosts))
	if agg.AverageCVSS != nil {
		b.WriteString(fmt.Sprintf("  Avg CVSS: %.2f", *agg.AverageCVSS))
	}
	b.WriteString("\n")

	// Line 3: severity breakdown
	sevParts := make([]string, 0, len(agg.SeverityCounts))
	for _, lc := range agg.SeverityCounts {
		if lc.Count == 0 {
			continue
		}
		label := fmt.Sprintf("%s:%d", strings.ToUpper(lc.Label[:1]), lc.Count)
		sevParts = append(sevParts, severityStyle(lc.Label).Render(label))
	}
	if len(sevParts) > 0 {
		b.WriteString(strings.Join(sevParts, "  "))
	}

	return styleHeader.Width(width).Render(b.String())
}
