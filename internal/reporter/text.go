package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/nesshub/internal/models"
	"golang.org/x/term"
)

const defaultTextWidth = 80

// TextReporter generates a human-readable terminal summary.
type TextReporter struct {
	writer io.Writer
	width  int
}

// NewTextReporter creates a text reporter. When the writer is a terminal,
// bars scale to its width; otherwise an 80-column layout is used.
func NewTextReporter(writer io.Writer) *TextReporter {
	width := defaultTextWidth
	if f, ok := writer.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 40 {
			width = w
		}
	}
	return &TextReporter{
		writer: writer,
		width:  width,
	}
}

// Generate writes the report summary.
func (r *TextReporter) Generate(details *models.ReportDetails) error {
	r.printHeader(details.Metadata)
	r.printf("Generated: %s\n\n", formatTimestamp(details.GeneratedAt))

	r.printOverallSummary(details)
	r.printSeverityBars(details.Aggregates.SeverityCounts)
	r.printTopList("Top Hosts", details.Aggregates.TopHosts)
	r.printTopList("Top Plugin Families", details.Aggregates.TopFamilies)
	r.printHostSummaries(details.HostSummaries)

	return nil
}

func (r *TextReporter) printHeader(metadata models.ReportMetadata) {
	r.printf("╔════════════════════════════════════════════╗\n")
	r.printf("║           Nesshub Scan Report              ║\n")
	r.printf("╚════════════════════════════════════════════╝\n\n")

	r.printf("Report:   %s\n", metadata.Name)
	if metadata.Customer != "" {
		r.printf("Customer: %s\n", metadata.Customer)
	}
	if metadata.ScanDate != "" {
		r.printf("Scan Date: %s\n", metadata.ScanDate)
	}
}

func (r *TextReporter) printOverallSummary(details *models.ReportDetails) {
	r.printf("Overall Summary:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  Total Findings: %d\n", details.Aggregates.TotalFindings)
	r.printf("  Affected Hosts: %d\n", details.Aggregates.AffectedHosts)
	if details.Aggregates.AverageCVSS != nil {
		r.printf("  Average CVSS:   %.2f\n", *details.Aggregates.AverageCVSS)
	} else {
		r.printf("  Average CVSS:   n/a\n")
	}
	r.printf("\n")

	if len(details.Aggregates.RiskCounts) > 0 {
		r.printf("Findings by Risk Factor:\n")
		for _, lc := range details.Aggregates.RiskCounts {
			r.printf("  %s: %d\n", lc.Label, lc.Count)
		}
		r.printf("\n")
	}
}

// printSeverityBars renders the severity histogram as scaled bars.
func (r *TextReporter) printSeverityBars(counts []models.LabelCount) {
	r.printf("Findings by Severity:\n")
	r.printf("--------------------------------------------------\n")

	max := 1
	for _, lc := range counts {
		if lc.Count > max {
			max = lc.Count
		}
	}

	barSpace := r.width - 24
	if barSpace < 10 {
		barSpace = 10
	}

	for _, lc := range counts {
		barLen := lc.Count * barSpace / max
		if lc.Count > 0 && barLen == 0 {
			barLen = 1
		}
		r.printf("  %-8s %4d %s\n", lc.Label, lc.Count, strings.Repeat("█", barLen))
	}
	r.printf("\n")
}

func (r *TextReporter) printTopList(title string, entries []models.LabelCount) {
	if len(entries) == 0 {
		return
	}
	r.printf("%s:\n", title)
	r.printf("--------------------------------------------------\n")
	for i, lc := range entries {
		r.printf("  %2d. %s (%d)\n", i+1, lc.Label, lc.Count)
	}
	r.printf("\n")
}

func (r *TextReporter) printHostSummaries(summaries []models.HostSeveritySummary) {
	if len(summaries) == 0 {
		return
	}
	r.printf("Host Severity Breakdown:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  %-28s %-15s %5s %5s %5s %5s %5s %6s\n",
		"Host", "IP", "Crit", "High", "Med", "Low", "Info", "Total")

	for _, row := range summaries {
		ip := row.IPAddress
		if ip == "" {
			ip = "-"
		}
		r.printf("  %-28s %-15s %5d %5d %5d %5d %5d %6d\n",
			truncateLabel(row.Host, 28),
			ip,
			row.SeverityTotals[models.SeverityCritical],
			row.SeverityTotals[models.SeverityHigh],
			row.SeverityTotals[models.SeverityMedium],
			row.SeverityTotals[models.SeverityLow],
			row.SeverityTotals[models.SeverityInfo],
			row.TotalFindings)
	}
	r.printf("\n")
}

// printf is a helper to write formatted output.
func (r *TextReporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.writer, format, args...)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
