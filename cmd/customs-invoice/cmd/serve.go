package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/customs-invoice/internal/config"
	"github.com/rezonia/customs-invoice/internal/server"
	"github.com/rezonia/customs-invoice/pkg/customsinvoice"
)

var (
	serveStore   string
	serveAddr    string
	serveDebug   bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server that renders commercial invoices on demand.

Endpoints:
  GET /health
  GET /api/v1/invoices/:id/commercial-invoice  - render as application/pdf

The generate endpoint is available only in non-production environments
(APP_ENV one of development, test, preview) and returns 403 elsewhere.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveStore, "store", "shipment.json", "JSON shipment store to serve from")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: config SERVER_ADDRESS)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 60*time.Second, "HTTP write timeout")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	appCfg := config.Load()
	addr := serveAddr
	if addr == "" {
		addr = appCfg.ServerAddress
	}

	store, err := customsinvoice.OpenStore(serveStore)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(&server.Config{
		Address:      addr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serveDebug,
	}, appCfg, store, logger)
	if err != nil {
		return err
	}

	logger.Info("server listening",
		zap.String("addr", addr),
		zap.String("env", appCfg.Environment),
		zap.String("store", serveStore))
	return srv.Run()
}
