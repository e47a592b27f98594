package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change the network, pinning and verification settings.

Settings are stored in the config file shown by 'docproof config show'.
Pinning secrets may instead be supplied through the DOCPROOF_PINNING_JWT
and DOCPROOF_PINNING_SECRET environment variables.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long:  `Validate and store a single setting. Run 'docproof config keys' for the list.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Restore a setting's default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the pinning provider is reachable",
	Args:  cobra.NoArgs,
	RunE:  runConfigCheck,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("File: %s\n", settingsService.Path())
	cmd.Println()

	cmd.Println("[Network]")
	cmd.Printf("  RPC URL:   %s\n", settings.Network.RPCURL)
	cmd.Printf("  Contract:  %s\n", settings.Network.ContractAddress)
	cmd.Printf("  Explorer:  %s\n", settings.Network.ExplorerURL)
	cmd.Printf("  Gas limit: %d\n", settings.Network.GasLimit)
	cmd.Println()

	p := settings.Pinning
	cmd.Println("[Pinning]")
	cmd.Printf("  Provider:  %s\n", p.Provider.Description())
	cmd.Printf("  Endpoint:  %s\n", p.Endpoint)
	switch p.Provider {
	case domain.PinningPinata:
		cmd.Printf("  JWT:       %s\n", maskSecret(p.JWT))
	case domain.PinningKubo:
		if p.ProjectID != "" {
			cmd.Printf("  Project:   %s\n", p.ProjectID)
			cmd.Printf("  Secret:    %s\n", maskSecret(p.ProjectSecret))
		}
	}
	cmd.Printf("  Gateway:   %s\n", p.GatewayURL)
	cmd.Printf("  Timeout:   %s\n", p.Timeout)
	cmd.Printf("  Rate:      %g req/s\n", p.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Verification]")
	cmd.Printf("  Host:      %s\n", settings.Verify.Host)
	cmd.Printf("  Cache TTL: %s\n", settings.Verify.CacheTTL)
	cmd.Println()

	cmd.Println("[Local]")
	cmd.Printf("  Fingerprint mode: %s\n", settings.Fingerprint)
	keystore := settings.KeystoreDir
	if keystore == "" {
		keystore = "(default)"
	}
	cmd.Printf("  Keystore:         %s\n", keystore)
	cmd.Println()

	if !p.HasCredential() {
		cmd.Printf("Warning: no credential for %s; uploads will fail.\n", p.Provider)
		cmd.Println("Run 'docproof config set pinning.jwt <token>' to fix this.")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if services.IsSecretKey(key) {
		shown = maskSecret(value)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	cmd.Printf("%s restored to its default\n", args[0])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if pinningCheck == nil {
		return errors.New("pinning check not configured")
	}
	if err := pinningCheck(cmd.Context()); err != nil {
		return fmt.Errorf("pinning check failed: %w", err)
	}
	cmd.Println("Pinning provider reachable")
	return nil
}
