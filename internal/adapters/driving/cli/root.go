// Package cli provides the cobra command tree for docproof.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docproof/internal/adapters/driving/web"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
	"github.com/custodia-labs/docproof/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Services wired in by main. A nil service makes its commands fail with
// "<name> service not configured".
var (
	settingsService     driving.SettingsService
	sessionService      driving.SessionService
	orchestrator        driving.Orchestrator
	historyService      driving.HistoryService
	exporterService     driving.ExporterService
	verificationService driving.VerificationService
	walletManager       WalletManager
	metricsRecorder     web.Metrics
	metricsGatherer     prometheus.Gatherer
	pinningCheck        func(ctx context.Context) error
)

// Services bundles everything the commands call into.
type Services struct {
	Settings     driving.SettingsService
	Session      driving.SessionService
	Orchestrator driving.Orchestrator
	History      driving.HistoryService
	Exporter     driving.ExporterService
	Verification driving.VerificationService
	Wallet       WalletManager
	Metrics      web.Metrics
	Gatherer     prometheus.Gatherer
	// PinningCheck pings the configured pinning provider.
	PinningCheck func(ctx context.Context) error
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	settingsService = s.Settings
	sessionService = s.Session
	orchestrator = s.Orchestrator
	historyService = s.History
	exporterService = s.Exporter
	verificationService = s.Verification
	walletManager = s.Wallet
	metricsRecorder = s.Metrics
	metricsGatherer = s.Gatherer
	pinningCheck = s.PinningCheck
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docproof",
	Short: "Record document fingerprints on a ledger",
	Long: `docproof fingerprints local documents, pins them to IPFS and records the
fingerprint on the document registry contract.

Anyone holding a copy of the document can later check it against the
ledger with 'docproof verify' or the verification page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the command tree and reports a failure on stderr.
// Precondition failures are printed as warnings.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		rootCmd.PrintErrln(formatError(err))
	}
	return err
}

// formatError renders err with the prefix matching its category.
func formatError(err error) string {
	switch {
	case domain.IsPrecondition(err):
		return fmt.Sprintf("Warning: %v", err)
	case errors.Is(err, domain.ErrNoWallet):
		return "Error: no wallet detected. Create one with 'docproof wallet new' or import a key with 'docproof wallet import'."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
