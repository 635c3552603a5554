package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "1.0.0"

	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "customs-invoice",
	Short: "Generate customs commercial invoice PDFs from shipment records",
	Long: `Customs Invoice renders the commercial invoice document that travels with
an international shipment: addresses, shipping info, the aggregated item
table with combination products and discounts, totals, and signature.

Examples:
  # Render the invoice for one shipment record
  customs-invoice generate shipment.json -i INV-1001 -o invoice.pdf

  # Render and validate the produced PDF
  customs-invoice generate shipment.json -i INV-1001 -o invoice.pdf --validate

  # Start the HTTP API server
  customs-invoice serve`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// newLogger builds the process logger; verbose switches to the development
// config with debug output.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
