// Package engine orchestrates the report pipeline: decode a Nessus export,
// normalize it into finding records, and derive the aggregate metrics and
// host summaries consumed by the renderers.
package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/nesshub/internal/aggregator"
	"github.com/ppiankov/nesshub/internal/models"
	"github.com/ppiankov/nesshub/internal/parser"
)

// DefaultReportName is used when the caller supplies no report name.
const DefaultReportName = "Nessus Assessment"

// BuildReport turns raw Nessus XML plus caller-supplied metadata into an
// immutable ReportDetails. It is a pure function of its inputs: no I/O, no
// shared state, safe to run concurrently for independent uploads.
//
// Failure modes: InvalidFileError for empty input, malformed XML, or a
// document without the expected Report nesting; ErrNoFindings for a
// structurally valid export with zero report items.
func BuildReport(metadata models.ReportMetadata, xmlBytes []byte) (*models.ReportDetails, error) {
	metadata = normalizeMetadata(metadata)

	findings, err := parser.ParseFindings(xmlBytes)
	if err != nil {
		return nil, err
	}
	if len(findings) == 0 {
		return nil, models.ErrNoFindings
	}

	// Highest severity first; CVSS breaks ties, with absent scores ranked
	// as 0.0 for ordering only. The stable sort keeps document order for
	// full ties, so identical inputs produce identical output.
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return findings[i].Severity > findings[j].Severity
		}
		return findings[i].CVSSOrZero() > findings[j].CVSSOrZero()
	})

	return &models.ReportDetails{
		Metadata:      metadata,
		Findings:      findings,
		HostSummaries: aggregator.SummarizeHosts(findings),
		Aggregates:    aggregator.Aggregate(findings),
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// normalizeMetadata trims the free-form metadata fields and defaults an
// empty report name.
func normalizeMetadata(metadata models.ReportMetadata) models.ReportMetadata {
	metadata.Name = strings.TrimSpace(metadata.Name)
	if metadata.Name == "" {
		metadata.Name = DefaultReportName
	}
	metadata.Customer = strings.TrimSpace(metadata.Customer)
	metadata.ScanDate = strings.TrimSpace(metadata.ScanDate)
	return metadata
}
