package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docproof/internal/adapters/driving/web"
	"github.com/custodia-labs/docproof/internal/core/domain"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification web server",
	Long: `Serve the verification page that QR codes and verification URLs point to.

Routes:
  /verify.html?hash=0x...   human-readable result
  /api/v1/verify/{hash}     JSON result
  /api/v1/qr/{hash}.png     QR code
  /health/live              liveness probe
  /metrics                  Prometheus metrics

Set verify.host to the address this server is reachable at so that new
uploads link to it.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", web.DefaultAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if verificationService == nil {
		return errors.New("verification service not configured")
	}

	addr, _ := cmd.Flags().GetString("addr") //nolint:errcheck // flag is registered

	cfg := web.Config{Addr: addr}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			cfg.CacheTTL = settings.Verify.CacheTTL
		}
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = domain.DefaultAppSettings().Verify.CacheTTL
	}

	server := web.New(cfg, verificationService, metricsRecorder, metricsGatherer)
	cmd.Printf("Verification server listening on %s\n", server.Addr())
	return server.Run(cmd.Context())
}
