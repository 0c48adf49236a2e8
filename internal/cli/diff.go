package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/nesshub/internal/aggregator"
	"github.com/ppiankov/nesshub/internal/engine"
	"github.com/ppiankov/nesshub/internal/models"
	"github.com/spf13/cobra"
)

var (
	diffFormat  string
	diffOutput  string
	diffFailNew bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <baseline.nessus> <current.nessus>",
	Short: "Show what changed between two scans",
	Long: `Compare two Nessus exports and show scan-to-scan drift.

Shows new findings, fixed findings, and summary deltas. A finding is
matched across scans by host, plugin, and port, so rescanning the same
issue on the same service does not count as new.

Exit codes:
  0  No new findings (or --fail-new not set)
  1  New findings detected (with --fail-new)

Example:
  nesshub diff baseline.nessus current.nessus
  nesshub diff baseline.nessus current.nessus --fail-new
  nesshub diff baseline.nessus current.nessus --format json -o drift.json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "text",
		"output format: text or json")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "",
		"write output to file instead of stdout")
	diffCmd.Flags().BoolVar(&diffFailNew, "fail-new", false,
		"exit 1 if new findings are found (for CI gating)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	baseline, err := loadExport(args[0])
	if err != nil {
		return err
	}
	current, err := loadExport(args[1])
	if err != nil {
		return err
	}

	logVerbose("Comparing %s (%d findings) vs %s (%d findings)",
		args[1], current.Aggregates.TotalFindings,
		args[0], baseline.Aggregates.TotalFindings)

	result := aggregator.Compare(baseline.Findings, current.Findings)

	if err := outputDiff(result, args[0], args[1], diffFormat, diffOutput); err != nil {
		return err
	}

	// CI gate.
	if diffFailNew && result.Summary.NewCount > 0 {
		return &PolicyFailError{Violations: result.Summary.NewCount}
	}
	return nil
}

// loadExport parses one export for diffing. The report name is derived
// from the file name.
func loadExport(path string) (*models.ReportDetails, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	details, err := engine.BuildReport(metadataFor(path, "", "", ""), data)
	if err != nil {
		if models.IsInvalidFile(err) || errors.Is(err, models.ErrNoFindings) {
			return nil, &ValidationError{Message: fmt.Sprintf("%s: %v", path, err)}
		}
		return nil, err
	}
	return details, nil
}

// outputDiff renders the diff result to the chosen format.
func outputDiff(result *aggregator.DiffResult, baselinePath, currentPath, format, outputPath string) error {
	var writer *os.File
	if outputPath != "" {
		var err error
		writer, err = os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = writer.Close() }()
	} else {
		writer = os.Stdout
	}

	switch format {
	case "json":
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text":
		return printDiffText(writer, result, baselinePath, currentPath)
	default:
		return fmt.Errorf("unsupported format: %s (use text or json)", format)
	}
}

func printDiffText(w *os.File, r *aggregator.DiffResult, baselinePath, currentPath string) error {
	p := func(format string, args ...interface{}) {
		_, _ = fmt.Fprintf(w, format, args...)
	}

	p("╔════════════════════════════════════════════╗\n")
	p("║            Nesshub Scan Delta              ║\n")
	p("╚════════════════════════════════════════════╝\n\n")

	p("Baseline: %s\n", baselinePath)
	p("Current:  %s\n\n", currentPath)

	// Summary line.
	deltaSign := "+"
	if r.Summary.Delta < 0 {
		deltaSign = ""
	}
	p("Findings: %d → %d (%s%d)\n", r.Summary.BaselineTotal, r.Summary.CurrentTotal, deltaSign, r.Summary.Delta)
	p("New: %d   Fixed: %d\n\n", r.Summary.NewCount, r.Summary.FixedCount)

	// New findings.
	if len(r.New) > 0 {
		p("New Findings:\n")
		p("--------------------------------------------------\n")
		for i := range r.New {
			f := &r.New[i]
			p("  [%s] %s on %s\n", strings.ToUpper(f.SeverityLabel), f.PluginName, findingLocation(f))
			if len(f.CVEs) > 0 {
				p("         %s\n", strings.Join(f.CVEs, ", "))
			}
		}
		p("\n")
	}

	// Fixed findings.
	if len(r.Fixed) > 0 {
		p("Fixed Findings:\n")
		p("--------------------------------------------------\n")
		for i := range r.Fixed {
			f := &r.Fixed[i]
			p("  ✓ %s on %s\n", f.PluginName, findingLocation(f))
		}
		p("\n")
	}

	// Severity breakdown, most severe first.
	if len(r.Summary.NewBySeverity) > 0 {
		p("New by Severity:\n")
		for _, label := range models.SeverityOrder {
			if count := r.Summary.NewBySeverity[label]; count > 0 {
				p("  %s: %d\n", strings.ToUpper(label), count)
			}
		}
		p("\n")
	}

	if r.Summary.NewCount == 0 && r.Summary.FixedCount == 0 {
		p("No drift detected.\n")
	} else if r.Summary.NewCount == 0 {
		p("No new findings — only fixes.\n")
	}

	return nil
}

// findingLocation renders host:port for diff listings.
func findingLocation(f *models.FindingRecord) string {
	if f.Port != "" && f.Port != "0" {
		return f.Host + ":" + f.Port
	}
	return f.Host
}
