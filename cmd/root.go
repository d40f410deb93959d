// =============================================================================
// Compute Sales - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command runs
// the computation itself; subcommands are auxiliary.
//
// COBRA CLI STRUCTURE:
//   rootCmd (computesales <priceCatalogue.json> <salesRecord.json>)
//   └── versionCmd (computesales version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (e.g., --config, --verbose)
//   2. Validating the positional arguments
//   3. Mapping failures to exit code 1
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/computesales/internal/config"
)

// usageLine is printed when the positional arguments are wrong.
const usageLine = "Usage: computesales priceCatalogue.json salesRecord.json"

// errReported marks an error whose message was already shown to the user.
var errReported = errors.New("error already reported")

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// Flag overrides for the configuration file values.
var (
	outputFile  string
	xlsxFile    string
	pdfFile     string
	metricsFile string
	progress    bool
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "computesales <priceCatalogue.json> <salesRecord.json>",
	Short: "Compute the total cost of a sales record against a price catalogue",
	Long: `computesales joins a JSON price catalogue with a JSON sales record and
reports the total cost of all sales.

Malformed rows are reported on the console and skipped; the run continues.
The summary is printed and written to SalesResults.txt in the current
directory, together with the elapsed processing time.

Example Usage:
  computesales priceCatalogue.json salesRecord.json
  computesales priceCatalogue.json salesRecord.json --xlsx report_{date}.xlsx
  computesales version`,

	Args: validateArgs,

	// Errors are reported by the command itself.
	SilenceErrors: true,
	SilenceUsage:  true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n", err)
			return errReported
		}
		return runCompute(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1], cfg)
	},
}

// validateArgs requires exactly two positional arguments.
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(cmd.OutOrStdout(), usageLine)
		return errReported
	}
	return nil
}

// resolveConfig loads the configuration file and applies flag overrides.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputFile = outputFile
	}
	if flags.Changed("xlsx") {
		cfg.XLSXFile = xlsxFile
	}
	if flags.Changed("pdf") {
		cfg.PDFFile = pdfFile
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
	if flags.Changed("progress") {
		cfg.Progress = progress
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging on stderr",
	)

	rootCmd.Flags().StringVar(&outputFile, "output", "", "Result file (default SalesResults.txt)")
	rootCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "Also write the summary as an XLSX workbook")
	rootCmd.Flags().StringVar(&pdfFile, "pdf", "", "Also write the summary as a PDF document")
	rootCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format")
	rootCmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar on stderr")
}
