package aggregator

import "github.com/ppiankov/nesshub/internal/models"

// DiffResult is the structured outcome of comparing two scans.
type DiffResult struct {
	// New holds findings present in the new scan but not the baseline.
	New []models.FindingRecord `json:"new"`
	// Fixed holds findings present in the baseline but gone from the new scan.
	Fixed   []models.FindingRecord `json:"fixed"`
	Summary DiffSummary            `json:"summary"`
}

// DiffSummary holds aggregate counts for a scan diff.
type DiffSummary struct {
	BaselineTotal int            `json:"baseline_total"`
	CurrentTotal  int            `json:"current_total"`
	NewCount      int            `json:"new_count"`
	FixedCount    int            `json:"fixed_count"`
	Delta         int            `json:"delta"` // positive = more findings
	NewBySeverity map[string]int `json:"new_by_severity"`
}

// findingKey identifies a finding across scans. Host plus plugin plus port
// is stable: rescanning the same issue on the same service matches even
// when descriptions or plugin output differ.
func findingKey(f *models.FindingRecord) string {
	return f.Host + "|" + f.PluginID + "|" + f.Port
}

// Compare diffs a new scan against a baseline scan. Output order follows
// each input's order (first-seen), so repeated runs are deterministic.
func Compare(baseline, current []models.FindingRecord) *DiffResult {
	baseSet := make(map[string]struct{}, len(baseline))
	for i := range baseline {
		baseSet[findingKey(&baseline[i])] = struct{}{}
	}
	currSet := make(map[string]struct{}, len(current))
	for i := range current {
		currSet[findingKey(&current[i])] = struct{}{}
	}

	var newFindings, fixedFindings []models.FindingRecord
	newBySeverity := map[string]int{}

	for i := range current {
		if _, found := baseSet[findingKey(&current[i])]; !found {
			newFindings = append(newFindings, current[i])
			newBySeverity[current[i].SeverityLabel]++
		}
	}
	for i := range baseline {
		if _, found := currSet[findingKey(&baseline[i])]; !found {
			fixedFindings = append(fixedFindings, baseline[i])
		}
	}

	return &DiffResult{
		New:   newFindings,
		Fixed: fixedFindings,
		Summary: DiffSummary{
			BaselineTotal: len(baseline),
			CurrentTotal:  len(current),
			NewCount:      len(newFindings),
			FixedCount:    len(fixedFindings),
			Delta:         len(current) - len(baseline),
			NewBySeverity: newBySeverity,
		},
	}
}
