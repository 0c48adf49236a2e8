package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/nesshub/internal/apiclient"
	"github.com/spf13/cobra"
)

var (
	submitServer   string
	submitName     string
	submitCustomer string
	submitScanDate string
	submitOut      string
	submitNoPDF    bool
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit <file.nessus>",
	Short: "Submit an export to a running Nesshub service",
	Long: `Submit uploads a .nessus export to a Nesshub service, prints the
generated report summary, and downloads the PDF.

The service keeps a bounded report cache, so download the PDF promptly
after submitting.

Example:
  nesshub submit scan.nessus
  nesshub submit scan.nessus --server http://reports.internal:8080
  nesshub submit scan.nessus --customer "Acme Corp" --out ./acme.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitServer, "server", "s", "http://localhost:8080",
		"base URL of the Nesshub service")
	submitCmd.Flags().StringVar(&submitName, "name", "",
		"report name (default: export file name)")
	submitCmd.Flags().StringVar(&submitCustomer, "customer", "",
		"customer name shown on the report")
	submitCmd.Flags().StringVar(&submitScanDate, "scan-date", "",
		"scan date shown on the report")
	submitCmd.Flags().StringVarP(&submitOut, "out", "o", "",
		"PDF output path (default: <report-id>.pdf in the output directory)")
	submitCmd.Flags().BoolVar(&submitNoPDF, "no-pdf", false,
		"skip the PDF download")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	client := apiclient.New(submitServer)

	logVerbose("Checking service health at %s", submitServer)
	if err := client.Health(); err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}

	name := submitName
	if name == "" {
		base := filepath.Base(filePath)
		name = base[:len(base)-len(filepath.Ext(base))]
	}

	logVerbose("Uploading %s", filePath)
	result, err := client.Submit(filePath, apiclient.SubmitOptions{
		ReportName: name,
		Customer:   submitCustomer,
		ScanDate:   submitScanDate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Report %s generated\n", result.ReportID)
	fmt.Printf("  Findings: %d\n", result.TotalFindings)
	fmt.Printf("  Hosts:    %d\n", result.AffectedHosts)

	if submitNoPDF {
		return nil
	}

	pdf, err := client.FetchPDF(result.ReportID)
	if err != nil {
		return err
	}

	outPath := submitOut
	if outPath == "" {
		outPath = filepath.Join(cfg.OutputDir, result.ReportID+".pdf")
	}
	if err := os.WriteFile(outPath, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fmt.Printf("  PDF:      %s\n", outPath)
	return nil
}
