package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/nesshub/internal/config"
	"github.com/spf13/cobra"
)

const (
	// Exit codes for CI integration
	ExitOK           = 0 // Success
	ExitPolicyFail   = 1 // Findings exceed a policy threshold
	ExitInvalidInput = 2 // Not a parseable Nessus export
	ExitRuntimeError = 3 // I/O, permissions, or runtime error
)

var (
	// Global config instance
	cfg *config.Config

	// Global flags
	configFile string
	verbose    bool
	debug      bool

	// buildVersion is injected from main via SetVersion
	buildVersion = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nesshub",
	Short: "Nesshub - Nessus vulnerability report engine",
	Long: `Nesshub turns raw Nessus (.nessus) exports into readable vulnerability
reports: standalone HTML pages, PDF documents, JSON for pipelines, and a
terminal summary.

It provides:
- Normalization and aggregation of Nessus XML scan data
- HTML, PDF, JSON, and text renderers with severity charts
- An HTTP upload service with cached PDF downloads
- An interactive terminal browser for findings
- Scan-to-scan diffing and policy gates for CI/CD

Quick start:
  nesshub render scan.nessus
  nesshub render scan.nessus --format pdf --customer "Acme Corp"
  nesshub browse scan.nessus
  nesshub serve

Other commands:
  nesshub diff baseline.nessus current.nessus
  nesshub submit scan.nessus --server http://reports.internal:8080
  nesshub validate scan.nessus`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Override config with flags if provided
		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}

		return nil
	},
}

// SetVersion records the build version injected by the linker.
func SetVersion(v string) {
	buildVersion = v
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		os.Exit(HandleError(err))
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ~/.nesshub.yaml or ./nesshub.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")

	// Add subcommands
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Nesshub %s\n", buildVersion)
		fmt.Println("The Nessus vulnerability report engine")
	},
}

// configCmd prints a sample configuration file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print a sample configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(config.GenerateSampleConfig())
	},
}

// HandleError determines the appropriate exit code for an error
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check error type to determine exit code
	switch err.(type) {
	case *ValidationError:
		return ExitInvalidInput
	case *PolicyFailError:
		return ExitPolicyFail
	default:
		// Check if it's an I/O or permission error
		if os.IsNotExist(err) || os.IsPermission(err) {
			return ExitRuntimeError
		}
		return ExitRuntimeError
	}
}

// ValidationError represents a malformed or empty Nessus export
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PolicyFailError represents a failed policy gate
type PolicyFailError struct {
	Violations int
}

func (e *PolicyFailError) Error() string {
	return fmt.Sprintf("policy gate failed with %d violation(s)", e.Violations)
}

// logVerbose prints a message if verbose mode is enabled
func logVerbose(format string, args ...interface{}) {
	if cfg != nil && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
	}
}

// logDebug prints a message if debug mode is enabled
func logDebug(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// logError prints an error message
func logError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}
