package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/customs-invoice/internal/config"
	"github.com/rezonia/customs-invoice/pkg/customsinvoice"
)

var (
	generateInvoiceID string
	generateOutput    string
	generateValidate  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <store.json>",
	Short: "Render a commercial invoice PDF from a shipment store",
	Long: `Render the commercial invoice for one invoice record in a JSON shipment
store and write the PDF to a file.

When --invoice is omitted the first invoice in the store is used.

Examples:
  customs-invoice generate shipment.json -o invoice.pdf
  customs-invoice generate shipment.json -i INV-1001 -o invoice.pdf --validate`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInvoiceID, "invoice", "i", "", "Invoice id to render (default: first in store)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "invoice.pdf", "Output PDF path")
	generateCmd.Flags().BoolVar(&generateValidate, "validate", false, "Validate the produced PDF")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := customsinvoice.OpenStore(args[0])
	if err != nil {
		return err
	}

	id := generateInvoiceID
	if id == "" {
		ids := store.IDs()
		if len(ids) == 0 {
			return fmt.Errorf("store %s contains no invoices", args[0])
		}
		id = ids[0]
	}

	cfg := config.Load()
	pdf, err := customsinvoice.Generate(store, id, cfg)
	if err != nil {
		return err
	}

	if generateValidate {
		if err := api.Validate(bytes.NewReader(pdf), nil); err != nil {
			return fmt.Errorf("produced PDF failed validation: %w", err)
		}
		pages, err := api.PageCount(bytes.NewReader(pdf), nil)
		if err != nil {
			return fmt.Errorf("produced PDF failed page count: %w", err)
		}
		logger.Info("PDF validated", zap.Int("pages", pages))
	}

	if err := os.WriteFile(generateOutput, pdf, 0o644); err != nil {
		return err
	}

	logger.Info("commercial invoice written",
		zap.String("invoice", id),
		zap.String("output", generateOutput),
		zap.Int("bytes", len(pdf)))
	return nil
}
