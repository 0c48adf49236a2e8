// Package reporter renders generated reports: JSON, terminal text, HTML,
// SVG charts, and PDF, plus the bundle assembly the HTTP service caches.
package reporter

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/nesshub/internal/models"
)

// JSONReporter generates machine-readable JSON reports.
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		pretty: pretty,
	}
}

// Generate writes the full report details as JSON.
func (r *JSONReporter) Generate(details *models.ReportDetails) error {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(details, "", "  ")
	} else {
		data, err = json.Marshal(details)
	}
	if err != nil {
		return err
	}

	if _, err = r.writer.Write(data); err != nil {
		return err
	}

	// Trailing newline for terminal output
	_, err = r.writer.Write([]byte("\n"))
	return err
}

// GenerateSummaryOnly writes a compact summary without the finding list.
func (r *JSONReporter) GenerateSummaryOnly(details *models.ReportDetails) error {
	summary := struct {
		Metadata      models.ReportMetadata        `json:"metadata"`
		Aggregates    models.AggregatedMetrics     `json:"aggregates"`
		HostSummaries []models.HostSeveritySummary `json:"host_summaries"`
		GeneratedAt   string                       `json:"generated_at"`
	}{
		Metadata:      details.Metadata,
		Aggregates:    details.Aggregates,
		HostSummaries: details.HostSummaries,
		GeneratedAt:   details.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(summary, "", "  ")
	} else {
		data, err = json.Marshal(summary)
	}
	if err != nil {
		return err
	}

	if _, err = r.writer.Write(data); err != nil {
		return err
	}

	_, err = r.writer.Write([]byte("\n"))
	return err
}
