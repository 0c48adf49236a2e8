package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/nesshub/internal/engine"
	"github.com/ppiankov/nesshub/internal/models"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.nessus> [file.nessus...]",
	Short: "Check that files are parseable Nessus exports",
	Long: `Validate parses .nessus exports without writing any report.

Returns exit 0 if every export is parseable and contains findings,
exit 2 otherwise with details on stderr.

Example:
  nesshub validate scan.nessus
  nesshub validate q1/*.nessus`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	invalid := 0
	for _, filePath := range args {
		err := validateExport(filePath)
		if err == nil {
			continue
		}
		if models.IsInvalidFile(err) || errors.Is(err, models.ErrNoFindings) {
			fmt.Fprintf(os.Stderr, "INVALID: %s: %v\n", filePath, err)
			invalid++
			continue
		}
		return err
	}

	if invalid > 0 {
		return &ValidationError{Message: fmt.Sprintf("%d of %d export(s) invalid", invalid, len(args))}
	}
	return nil
}

// validateExport parses one export and prints its summary line.
func validateExport(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	details, err := engine.BuildReport(metadataFor(filePath, "", "", ""), data)
	if err != nil {
		return err
	}

	fmt.Printf("VALID: %s: %d finding(s) across %d host(s)\n",
		filePath, details.Aggregates.TotalFindings, details.Aggregates.AffectedHosts)
	return nil
}
