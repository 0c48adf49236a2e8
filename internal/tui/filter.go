package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/nesshub/internal/models"
)

// filterState holds current active filters.
type filterState struct {
	Severity   string
	SearchText string
}

// sortField enumerates columns that can be sorted.
type sortField int

const (
	sortBySeverity sortField = iota
	sortByHost
	sortByPlugin
	sortByFamily
	sortByCVSS
)

// sortFieldCount is the total number of sortable columns.
const sortFieldCount = 5

// applyFilters returns findings matching all active filters.
func applyFilters(findings []models.FindingRecord, f filterState) []models.FindingRecord {
	result := make([]models.FindingRecord, 0, len(findings))
	searchLower := strings.ToLower(f.SearchText)

	for _, finding := range findings {
		if f.Severity != "" && finding.SeverityLabel != f.Severity {
			continue
		}
		if searchLower != "" && !matchesSearch(finding, searchLower) {
			continue
		}
		result = append(result, finding)
	}
	return result
}

func matchesSearch(f models.FindingRecord, searchLower string) bool {
	if strings.Contains(strings.ToLower(f.Host), searchLower) ||
		strings.Contains(strings.ToLower(f.PluginName), searchLower) ||
		strings.Contains(strings.ToLower(f.PluginFamily), searchLower) ||
		strings.Contains(strings.ToLower(f.Port), searchLower) ||
		strings.Contains(f.PluginID, searchLower) {
		return true
	}
	for _, cve := range f.CVEs {
		if strings.Contains(strings.ToLower(cve), searchLower) {
			return true
		}
	}
	return false
}

// sortFindings sorts a slice of findings in place by the given field.
func sortFindings(findings []models.FindingRecord, field sortField) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := &findings[i], &findings[j]
		switch field {
		case sortBySeverity:
			if a.Severity != b.Severity {
				return a.Severity > b.Severity
			}
			return a.CVSSOrZero() > b.CVSSOrZero()
		case sortByHost:
			return a.Host < b.Host
		case sortByPlugin:
			return a.PluginName < b.PluginName
		case sortByFamily:
			return a.PluginFamily < b.PluginFamily
		case sortByCVSS:
			return a.CVSSOrZero() > b.CVSSOrZero()
		default:
			return false
		}
	})
}

// severityChoices lists the severities present, most severe first.
func severityChoices(findings []models.FindingRecord) []string {
	present := make(map[string]bool)
	for i := range findings {
		present[findings[i].SeverityLabel] = true
	}

	var choices []string
	for _, label := range models.SeverityOrder {
		if present[label] {
			choices = append(choices, label)
		}
	}
	return choices
}

// sortFieldName returns a human-readable name for the sort field.
func sortFieldName(f sortField) string {
	switch f {
	case sortBySeverity:
		return "severity"
	case sortByHost:
		return "host"
	case sortByPlugin:
		return "plugin"
	case sortByFamily:
		return "family"
	case sortByCVSS:
		return "cvss"
	default:
		return "unknown"
	}
}

// formatCVSS renders an optional score for table and detail rows.
func formatCVSS(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *score)
}
