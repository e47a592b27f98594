// Command docproof registers document fingerprints on an Ethereum ledger and
// verifies them.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/custodia-labs/docproof/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docproof/internal/adapters/driven/ethereum"
	"github.com/custodia-labs/docproof/internal/adapters/driven/metrics"
	"github.com/custodia-labs/docproof/internal/adapters/driven/pinning"
	"github.com/custodia-labs/docproof/internal/adapters/driven/qr"
	"github.com/custodia-labs/docproof/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docproof/internal/adapters/driving/cli"
	"github.com/custodia-labs/docproof/internal/core/services"
	"github.com/custodia-labs/docproof/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	closeFn, err := wire(ctx)
	if err != nil {
		stop()
		log.Fatalf("%v", err)
	}

	cli.SetVersion(version)
	err = cli.Execute(ctx)
	closeFn()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// wire builds every adapter and service and hands them to the CLI.
// The returned function releases the store and node connection.
func wire(ctx context.Context) (func(), error) {
	baseDir, err := file.DefaultDir()
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(baseDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	client, err := ethereum.Dial(ctx, settings.Network.RPCURL)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	closeFn := func() {
		client.Close()
		if err := store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}

	keystoreDir := settings.KeystoreDir
	if keystoreDir == "" {
		keystoreDir = filepath.Join(baseDir, "keystore")
	}
	wallet := ethereum.NewKeystoreWallet(keystoreDir, client, cli.PromptPassphrase)

	ledger, err := ethereum.NewLedger(client, settings.Network.ContractAddress, wallet)
	if err != nil {
		closeFn()
		return nil, err
	}

	pinner, err := pinning.CreatePinner(settings.Pinning)
	if err != nil {
		closeFn()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	state := services.NewSessionState()
	verification := services.NewVerificationService(ledger, qr.Renderer{}, settings)
	orchestrator := services.NewOrchestrator(state, pinner, ledger, wallet, store.UploadStore()).
		WithVerification(verification).
		WithRecorder(recorder).
		WithFingerprintMode(settings.Fingerprint).
		WithGasLimit(settings.Network.GasLimit)
	session := services.NewSessionService(state, wallet, store.SessionStore(), ledger)

	if account, err := session.Restore(ctx); err != nil {
		logger.Warn("restoring session: %v", err)
	} else if !account.IsZero() {
		logger.Debug("restored account %s", account)
	}

	cli.SetServices(cli.Services{
		Settings:     settingsService,
		Session:      session,
		Orchestrator: orchestrator,
		History:      services.NewHistoryService(state, ledger, store.UploadStore()),
		Exporter:     services.NewExporterService(state, orchestrator, ledger),
		Verification: verification,
		Wallet:       wallet,
		Metrics:      recorder,
		Gatherer:     registry,
		PinningCheck: func(ctx context.Context) error {
			return pinning.Validate(ctx, pinner)
		},
	})

	return closeFn, nil
}
