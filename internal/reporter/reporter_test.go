package reporter

import (
	"time"

	"github.com/ppiankov/nesshub/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

// sampleDetails builds a small but fully-populated report for renderer tests.
func sampleDetails() *models.ReportDetails {
	return &models.ReportDetails{
		Metadata: models.ReportMetadata{
			Name:     "Quarterly Assessment",
			Customer: "Acme Corp",
			ScanDate: "2026-03-01",
		},
		Findings: []models.FindingRecord{
			{
				Host: "web01.acme.test", IPAddress: "10.0.0.5", Port: "443/https",
				PluginID: "51192", PluginName: "SSL Certificate Cannot Be Trusted",
				PluginFamily: "General", Severity: 4, SeverityLabel: models.SeverityCritical,
				RiskFactor: "Critical", CVSSBase: floatPtr(9.8),
				CVEs:        []string{"CVE-2024-0001"},
				Description: "The server certificate chain is broken.",
				Solution:    "Install a certificate from a trusted authority.",
			},
			{
				Host: "web01.acme.test", IPAddress: "10.0.0.5", Port: "22/ssh",
				PluginID: "10881", PluginName: "SSH Protocol Versions Supported",
				PluginFamily: "Service detection", Severity: 2, SeverityLabel: models.SeverityMedium,
				RiskFactor: "Medium", CVSSBase: floatPtr(5.3),
			},
			{
				Host: "db01.acme.test", IPAddress: "10.0.0.9",
				PluginID: "19506", PluginName: "Nessus Scan Information",
				PluginFamily: "Settings", Severity: 0, SeverityLabel: models.SeverityInfo,
				RiskFactor: "None",
			},
		},
		HostSummaries: []models.HostSeveritySummary{
			{
				Host: "web01.acme.test", IPAddress: "10.0.0.5",
				SeverityTotals: map[string]int{
					models.SeverityCritical: 1, models.SeverityHigh: 0,
					models.SeverityMedium: 1, models.SeverityLow: 0, models.SeverityInfo: 0,
				},
				TotalFindings: 2,
			},
			{
				Host: "db01.acme.test", IPAddress: "10.0.0.9",
				SeverityTotals: map[string]int{
					models.SeverityCritical: 0, models.SeverityHigh: 0,
					models.SeverityMedium: 0, models.SeverityLow: 0, models.SeverityInfo: 1,
				},
				TotalFindings: 1,
			},
		},
		Aggregates: models.AggregatedMetrics{
			SeverityCounts: []models.LabelCount{
				{Label: models.SeverityCritical, Count: 1},
				{Label: models.SeverityHigh, Count: 0},
				{Label: models.SeverityMedium, Count: 1},
				{Label: models.SeverityLow, Count: 0},
				{Label: models.SeverityInfo, Count: 1},
			},
			RiskCounts: []models.LabelCount{
				{Label: "Critical", Count: 1},
				{Label: "Medium", Count: 1},
				{Label: "None", Count: 1},
			},
			TopHosts: []models.LabelCount{
				{Label: "web01.acme.test", Count: 2},
				{Label: "db01.acme.test", Count: 1},
			},
			TopFamilies: []models.LabelCount{
				{Label: "General", Count: 1},
				{Label: "Service detection", Count: 1},
				{Label: "Settings", Count: 1},
			},
			TotalFindings: 3,
			AffectedHosts: 2,
			AverageCVSS:   floatPtr(7.55),
		},
		GeneratedAt: time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
	}
}
