package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/nesshub/internal/engine"
	"github.com/ppiankov/nesshub/internal/models"
	"github.com/ppiankov/nesshub/internal/tui"
	"github.com/spf13/cobra"
)

var (
	browseName     string
	browseCustomer string
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse <file.nessus>",
	Short: "Browse findings interactively in the terminal",
	Long: `Browse opens an interactive terminal view of a Nessus export.

Keys:
  /      search across host, plugin, family, port, and CVEs
  f      filter by severity
  s      cycle sort column
  c      copy the selected finding (OSC 52 clipboard)
  esc    clear filters
  q      quit

Example:
  nesshub browse scan.nessus`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseName, "name", "",
		"report name (default: export file name)")
	browseCmd.Flags().StringVar(&browseCustomer, "customer", "",
		"customer name shown in the header")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	details, err := engine.BuildReport(metadataFor(filePath, browseName, browseCustomer, ""), data)
	if err != nil {
		if models.IsInvalidFile(err) || errors.Is(err, models.ErrNoFindings) {
			return &ValidationError{Message: err.Error()}
		}
		return err
	}

	logVerbose("Loaded %d finding(s) from %s", details.Aggregates.TotalFindings, filePath)

	return tui.Run(details)
}
