package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hrintel/internal/config"
	"hrintel/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the assessment pipeline as a REST API.

Available endpoints:
- POST /assess: Generate interview questions for a job description
- POST /extract: Detect skills and role only
- GET /history, GET /history/{id}: Saved assessments
- POST /results, GET /results/top, DELETE /results: Candidate scores
- GET /catalog: Catalog summary
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")

	bindConfigFlag(serveCmd, "server.port", "port")
	bindConfigFlag(serveCmd, "server.host", "host")
	bindConfigFlag(serveCmd, "server.tls.mode", "tls-mode")
	bindConfigFlag(serveCmd, "server.tls.certfile", "cert-file")
	bindConfigFlag(serveCmd, "server.tls.keyfile", "key-file")
	bindConfigFlag(serveCmd, "server.tls.cafile", "ca-file")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	// Validate TLS configuration after applying overrides
	tempConfig := &config.Config{Server: cfg.Server}
	if err := tempConfig.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	om, err := newObservability(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := om.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Observability shutdown failed")
		}
	}()

	a, err := newApp(cfg, logger, appOptions{withStore: true, withAI: true, metrics: om.Metrics()})
	if err != nil {
		return err
	}
	defer a.Close()

	deps := server.Deps{
		Service:       a.service,
		Store:         a.store,
		Holder:        a.holder,
		Observability: om,
	}
	if a.ai != nil {
		deps.AI = a.ai
	}
	if vault := getVaultFromContext(ctx); vault != nil {
		deps.Vault = vault
	}

	return server.NewServer(cfg, Version, deps, logger).Start(ctx)
}
