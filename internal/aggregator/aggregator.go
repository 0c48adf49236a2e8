// Package aggregator derives summary statistics from normalized finding
// records: severity and risk histograms, top offenders, per-host severity
// breakdowns, and scan-to-scan diffs.
package aggregator

import (
	"math"
	"sort"

	"github.com/ppiankov/nesshub/internal/models"
)

// TopLimit caps the top-hosts and top-families lists.
const TopLimit = 10

// Aggregate computes the metrics snapshot for one finding set.
// Callers reject empty sets before invoking it.
func Aggregate(findings []models.FindingRecord) models.AggregatedMetrics {
	severityCounts := make(map[string]int, len(models.SeverityOrder))
	hosts := newOrderedCounter()
	families := newOrderedCounter()
	risks := newOrderedCounter()

	var cvssSum float64
	var cvssN int

	for i := range findings {
		f := &findings[i]
		severityCounts[f.SeverityLabel]++
		hosts.add(f.Host)
		families.add(f.PluginFamily)
		risks.add(f.RiskFactor)

		if f.CVSSBase != nil {
			cvssSum += *f.CVSSBase
			cvssN++
		}
	}

	// Severity histogram is reindexed over the canonical order and
	// zero-filled, so consumers always see exactly 5 entries.
	severity := make([]models.LabelCount, 0, len(models.SeverityOrder))
	for _, label := range models.SeverityOrder {
		severity = append(severity, models.LabelCount{Label: label, Count: severityCounts[label]})
	}

	var averageCVSS *float64
	if cvssN > 0 {
		avg := math.Round(cvssSum/float64(cvssN)*100) / 100
		averageCVSS = &avg
	}

	return models.AggregatedMetrics{
		SeverityCounts: severity,
		RiskCounts:     risks.sortedDesc(0),
		TopHosts:       hosts.sortedDesc(TopLimit),
		TopFamilies:    families.sortedDesc(TopLimit),
		TotalFindings:  len(findings),
		AffectedHosts:  hosts.distinct(),
		AverageCVSS:    averageCVSS,
	}
}

// SummarizeHosts produces one severity-breakdown row per distinct
// (host, ip) pair, zero-filled across all severity labels and sorted by
// total findings descending. Two hosts sharing a display name but not an
// IP stay separate rows.
func SummarizeHosts(findings []models.FindingRecord) []models.HostSeveritySummary {
	type hostKey struct {
		host string
		ip   string
	}

	totals := make(map[hostKey]map[string]int)
	var order []hostKey

	for i := range findings {
		f := &findings[i]
		key := hostKey{host: f.Host, ip: f.IPAddress}
		row, ok := totals[key]
		if !ok {
			row = make(map[string]int, len(models.SeverityOrder))
			for _, label := range models.SeverityOrder {
				row[label] = 0
			}
			totals[key] = row
			order = append(order, key)
		}
		row[f.SeverityLabel]++
	}

	summaries := make([]models.HostSeveritySummary, 0, len(order))
	for _, key := range order {
		row := totals[key]
		total := 0
		for _, count := range row {
			total += count
		}
		summaries = append(summaries, models.HostSeveritySummary{
			Host:           key.host,
			IPAddress:      key.ip,
			SeverityTotals: row,
			TotalFindings:  total,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalFindings > summaries[j].TotalFindings
	})
	return summaries
}

// orderedCounter counts group keys while remembering first-seen order,
// which doubles as the deterministic tie-break when counts are equal.
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *orderedCounter) distinct() int {
	return len(c.order)
}

// sortedDesc returns (label, count) pairs sorted by count descending,
// first-seen order on ties, truncated to limit when limit > 0.
func (c *orderedCounter) sortedDesc(limit int) []models.LabelCount {
	pairs := make([]models.LabelCount, 0, len(c.order))
	for _, key := range c.order {
		pairs = append(pairs, models.LabelCount{Label: key, Count: c.counts[key]})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Count > pairs[j].Count
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}
