package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/nesshub/internal/batch"
	"github.com/ppiankov/nesshub/internal/engine"
	"github.com/ppiankov/nesshub/internal/models"
	"github.com/ppiankov/nesshub/internal/policy"
	"github.com/ppiankov/nesshub/internal/reporter"
	"github.com/spf13/cobra"
)

var (
	// Render command flags
	renderFormat   string
	renderOut      string
	renderName     string
	renderCustomer string
	renderScanDate string
	renderPolicy   string
	renderFailOn   string
	renderWorkers  int
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <file.nessus> [file.nessus...]",
	Short: "Render Nessus exports into report files",
	Long: `Render parses one or more .nessus exports and writes a report file per
export into the output directory. Multiple exports are processed
concurrently by a worker pool.

Output formats:
  html   standalone report page with severity charts (default)
  pdf    multi-page PDF document
  json   full normalized report for pipelines
  text   terminal-style summary

A policy file (.nesshub-policy.yaml) or --fail-on gate turns the render
into a CI check: reports are still written, but the command exits 1
when any export violates the policy.

Example:
  nesshub render scan.nessus
  nesshub render scan.nessus --format pdf --customer "Acme Corp"
  nesshub render scan.nessus --format html,pdf,json
  nesshub render q1/*.nessus --out ./reports --workers 8
  nesshub render scan.nessus --fail-on high`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html",
		"output format: html, pdf, json, or text (comma-separated for several)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "",
		"output directory (default from config)")
	renderCmd.Flags().StringVar(&renderName, "name", "",
		"report name (default: export file name)")
	renderCmd.Flags().StringVar(&renderCustomer, "customer", "",
		"customer name shown on the report")
	renderCmd.Flags().StringVar(&renderScanDate, "scan-date", "",
		"scan date shown on the report")
	renderCmd.Flags().StringVar(&renderPolicy, "policy", "",
		"policy file (default: .nesshub-policy.yaml if present)")
	renderCmd.Flags().StringVar(&renderFailOn, "fail-on", "",
		"fail when findings at or above this severity exist (low, medium, high, critical)")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", 0,
		"concurrent renders (default from config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	formats := splitFormats(renderFormat)
	if len(formats) == 0 {
		return fmt.Errorf("no output format given")
	}
	for _, format := range formats {
		if !validRenderFormat(format) {
			return fmt.Errorf("unsupported format: %s (use html, pdf, json, or text)", format)
		}
	}

	outDir := renderOut
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	workers := renderWorkers
	if workers <= 0 {
		workers = cfg.Workers
	}

	pol, err := resolvePolicy(renderPolicy, renderFailOn)
	if err != nil {
		return err
	}
	if pol != nil {
		logVerbose("Policy gate active")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logVerbose("Rendering %d export(s) with %d worker(s)", len(args), workers)

	results := batch.Run(context.Background(), workers, args, func(ctx context.Context, path string) error {
		return renderExport(path, outDir, formats, pol)
	})

	var invalid, runtime, violations int
	for _, res := range results {
		if res.Err == nil {
			for _, format := range formats {
				fmt.Printf("  %s -> %s\n", res.Path, filepath.Join(outDir, outputFileName(res.Path, format)))
			}
			continue
		}
		logError("%s: %v", res.Path, res.Err)

		var vErr *ValidationError
		var pErr *PolicyFailError
		switch {
		case errors.As(res.Err, &vErr):
			invalid++
		case errors.As(res.Err, &pErr):
			violations += pErr.Violations
		default:
			runtime++
		}
	}

	fmt.Printf("Rendered %d of %d export(s)\n", len(results)-batch.Failed(results), len(results))

	switch {
	case runtime > 0:
		return fmt.Errorf("%d export(s) failed", runtime)
	case invalid > 0:
		return &ValidationError{Message: fmt.Sprintf("%d export(s) could not be parsed", invalid)}
	case violations > 0:
		return &PolicyFailError{Violations: violations}
	}
	return nil
}

// renderExport parses one export, writes one report file per format, and
// applies the policy gate. A policy violation is returned after the
// reports are written.
func renderExport(path, outDir string, formats []string, pol *policy.Policy) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	details, err := engine.BuildReport(metadataFor(path, renderName, renderCustomer, renderScanDate), data)
	if err != nil {
		if models.IsInvalidFile(err) || errors.Is(err, models.ErrNoFindings) {
			return &ValidationError{Message: err.Error()}
		}
		return err
	}

	for _, format := range formats {
		outPath := filepath.Join(outDir, outputFileName(path, format))
		if err := writeReport(outPath, format, details); err != nil {
			return err
		}
		logDebug("Wrote %s (%d findings)", outPath, details.Aggregates.TotalFindings)
	}

	if pol != nil {
		result := pol.Evaluate(details)
		if !result.Pass {
			for _, v := range result.Violations {
				logError("%s: policy %s: %s", path, v.Rule, v.Message)
			}
			return &PolicyFailError{Violations: len(result.Violations)}
		}
	}
	return nil
}

// writeReport renders details in the given format to outPath.
func writeReport(outPath, format string, details *models.ReportDetails) error {
	switch format {
	case "html":
		charts := models.ChartCollection{
			Severity: reporter.SeverityBarChart(details.Aggregates.SeverityCounts),
			Hosts:    reporter.TopHostsChart(details.Aggregates.TopHosts),
			Families: reporter.TopFamiliesChart(details.Aggregates.TopFamilies),
			Risks:    reporter.RiskFactorChart(details.Aggregates.RiskCounts),
		}
		// No preview cap and no download link for file output.
		page, err := reporter.RenderHTML(details, charts, reporter.HTMLOptions{})
		if err != nil {
			return err
		}
		return os.WriteFile(outPath, page, 0o644)
	case "pdf":
		doc, err := reporter.RenderPDF(details)
		if err != nil {
			return err
		}
		return os.WriteFile(outPath, doc, 0o644)
	case "json":
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return reporter.NewJSONReporter(f, true).Generate(details)
	case "text":
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return reporter.NewTextReporter(f).Generate(details)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// resolvePolicy picks the policy source: --fail-on shorthand, an explicit
// file, or a discovered nesshub-policy.yaml. Nil means no gate.
func resolvePolicy(policyFile, failOn string) (*policy.Policy, error) {
	if failOn != "" {
		return policy.FailOn(failOn)
	}
	if policyFile != "" {
		p, err := policy.LoadFromFile(policyFile)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("policy file not found: %s", policyFile)
		}
		return p, nil
	}
	if found := policy.FindPolicyFile(); found != "" {
		return policy.LoadFromFile(found)
	}
	return nil, nil
}

// metadataFor builds report metadata for one export. The report name
// defaults to the export file name without its extension.
func metadataFor(path, name, customer, scanDate string) models.ReportMetadata {
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return models.ReportMetadata{
		Name:     name,
		Customer: customer,
		ScanDate: scanDate,
	}
}

// outputFileName maps an export path to its report file name.
func outputFileName(path, format string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	ext := map[string]string{
		"html": ".html",
		"pdf":  ".pdf",
		"json": ".json",
		"text": ".txt",
	}[format]
	return base + ext
}

// splitFormats parses a comma-separated format list.
func splitFormats(s string) []string {
	var formats []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			formats = append(formats, part)
		}
	}
	return formats
}

func validRenderFormat(format string) bool {
	switch format {
	case "html", "pdf", "json", "text":
		return true
	}
	return false
}
