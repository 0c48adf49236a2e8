// Package models defines the data structures shared across the Nesshub
// engine, renderers, and service layer.
package models

import "time"

// Severity labels for the scanner's 0-4 ordinal rating.
const (
	SeverityInfo     = "Info"
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// SeverityLabels maps the scanner's severity integer to its textual label.
var SeverityLabels = map[int]string{
	0: SeverityInfo,
	1: SeverityLow,
	2: SeverityMedium,
	3: SeverityHigh,
	4: SeverityCritical,
}

// SeverityOrder is the canonical presentation order, most severe first.
// Consumers (charts, tables, summaries) iterate this to get a complete,
// order-stable 5-entry sequence.
var SeverityOrder = []string{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// SeverityLabelFor returns the label for a severity integer.
// Unknown values map to Info, same as severity 0.
func SeverityLabelFor(severity int) string {
	if label, ok := SeverityLabels[severity]; ok {
		return label
	}
	return SeverityInfo
}

// ReportMetadata is user-supplied metadata for a generated report.
type ReportMetadata struct {
	Name     string `json:"name"`
	Customer string `json:"customer"`
	ScanDate string `json:"scan_date"`
}

// FindingRecord is one normalized Nessus finding: a single observation of a
// single plugin on a single host. Every field has a defined default, so
// normalizing a report item never fails.
type FindingRecord struct {
	Host         string   `json:"host"`
	Hostname     string   `json:"hostname,omitempty"`
	IPAddress    string   `json:"ip_address,omitempty"`
	Port         string   `json:"port,omitempty"`
	Protocol     string   `json:"protocol,omitempty"`
	PluginID     string   `json:"plugin_id"`
	PluginName   string   `json:"plugin_name"`
	PluginFamily string   `json:"plugin_family"`
	Severity     int      `json:"severity"`
	SeverityLabel string  `json:"severity_label"`
	RiskFactor   string   `json:"risk_factor"`
	// CVSSBase is nil when neither scoring version is present. It is never
	// treated as 0 in averages; 0.0 only substitutes for ordering.
	CVSSBase     *float64 `json:"cvss_base,omitempty"`
	CVEs         []string `json:"cves,omitempty"`
	Description  string   `json:"description,omitempty"`
	Solution     string   `json:"solution,omitempty"`
	PluginOutput string   `json:"plugin_output,omitempty"`
}

// CVSSOrZero returns the CVSS base score, or 0 when absent.
// Only for sorting; averaging must skip absent values instead.
func (f *FindingRecord) CVSSOrZero() float64 {
	if f.CVSSBase == nil {
		return 0
	}
	return *f.CVSSBase
}

// LabelCount is one (label, count) pair in an ordered histogram.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AggregatedMetrics is the read-only aggregate snapshot over one finding set.
type AggregatedMetrics struct {
	// SeverityCounts always has exactly 5 entries in SeverityOrder, zero-filled.
	SeverityCounts []LabelCount `json:"severity_counts"`
	// RiskCounts is sorted by count descending, first-seen order on ties.
	RiskCounts []LabelCount `json:"risk_counts"`
	// TopHosts and TopFamilies hold at most the 10 highest counts, descending.
	TopHosts    []LabelCount `json:"top_hosts"`
	TopFamilies []LabelCount `json:"top_families"`

	TotalFindings int `json:"total_findings"`
	AffectedHosts int `json:"affected_hosts"`
	// AverageCVSS is the mean over findings that carry a score, rounded to
	// 2 decimals. Nil when no finding has one.
	AverageCVSS *float64 `json:"average_cvss,omitempty"`
}

// HostSeveritySummary is the severity breakdown for one (host, ip) pair.
type HostSeveritySummary struct {
	Host      string `json:"host"`
	IPAddress string `json:"ip_address,omitempty"`
	// SeverityTotals always carries all 5 canonical labels, zero-filled.
	SeverityTotals map[string]int `json:"severity_totals"`
	TotalFindings  int            `json:"total_findings"`
}

// ReportDetails bundles metadata, findings, and metrics for rendering.
// Immutable after construction.
type ReportDetails struct {
	Metadata      ReportMetadata        `json:"metadata"`
	Findings      []FindingRecord       `json:"findings"`
	HostSummaries []HostSeveritySummary `json:"host_summaries"`
	Aggregates    AggregatedMetrics     `json:"aggregates"`
	GeneratedAt   time.Time             `json:"generated_at"`
}

// ChartCollection holds encoded image data URIs for the preview charts.
type ChartCollection struct {
	Severity string `json:"severity"`
	Hosts    string `json:"hosts"`
	Families string `json:"families"`
	Risks    string `json:"risks"`
}

// ReportBundle is the cached output for one generated report.
type ReportBundle struct {
	ID      string
	Details *ReportDetails
	Charts  ChartCollection
	HTML    []byte
	PDF     []byte
}
