package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// WalletManager creates and lists local signing keys.
type WalletManager interface {
	Accounts() []domain.Account
	Create(passphrase string) (domain.Account, error)
	Import(hexKey, passphrase string) (domain.Account, error)
	Dir() string
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage signing keys",
	Long: `Create, import and list the encrypted keys used to sign ledger transactions.

Keys are stored in the keystore directory (wallet.keystore_dir) and
unlocked with their passphrase for each transaction.`,
}

var walletNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new key",
	Args:  cobra.NoArgs,
	RunE:  runWalletNew,
}

var walletImportCmd = &cobra.Command{
	Use:   "import [hexkey]",
	Short: "Import a hex-encoded private key",
	Long: `Import a hex-encoded private key into the keystore.

When the key is not given as an argument it is read from stdin without echo.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWalletImport,
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List keystore accounts",
	Args:  cobra.NoArgs,
	RunE:  runWalletList,
}

var connectCmd = &cobra.Command{
	Use:   "connect [address]",
	Short: "Connect a wallet account",
	Long: `Select the account used to sign transactions and remember it for later runs.

Without an address the first keystore account is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConnect,
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget the connected account",
	Args:  cobra.NoArgs,
	RunE:  runDisconnect,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show account, network and balance",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	walletCmd.AddCommand(walletNewCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletListCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(statusCmd)
}

func runWalletNew(cmd *cobra.Command, _ []string) error {
	if walletManager == nil {
		return errors.New("wallet service not configured")
	}

	passphrase, err := readNewPassphrase()
	if err != nil {
		return err
	}
	account, err := walletManager.Create(passphrase)
	if err != nil {
		return fmt.Errorf("failed to create key: %w", err)
	}

	cmd.Printf("Created account %s\n", account)
	cmd.Printf("Keystore: %s\n", walletManager.Dir())
	cmd.Println("Run 'docproof connect' to use it.")
	return nil
}

func runWalletImport(cmd *cobra.Command, args []string) error {
	if walletManager == nil {
		return errors.New("wallet service not configured")
	}

	var hexKey string
	if len(args) > 0 {
		hexKey = args[0]
	} else {
		key, err := readSecret("Private key (hex): ")
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		hexKey = key
	}
	if strings.TrimSpace(hexKey) == "" {
		return domain.Precondition(errors.New("a private key is required"))
	}

	passphrase, err := readNewPassphrase()
	if err != nil {
		return err
	}
	account, err := walletManager.Import(hexKey, passphrase)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			cmd.Printf("Account %s is already in the keystore\n", account)
			return nil
		}
		return fmt.Errorf("failed to import key: %w", err)
	}

	cmd.Printf("Imported account %s\n", account)
	return nil
}

func runWalletList(cmd *cobra.Command, _ []string) error {
	if walletManager == nil {
		return errors.New("wallet service not configured")
	}

	accounts := walletManager.Accounts()
	if len(accounts) == 0 {
		cmd.Println("No accounts. Run 'docproof wallet new' to create one.")
		return nil
	}

	var connected domain.Account
	if sessionService != nil {
		connected = sessionService.Account()
	}
	for _, a := range accounts {
		marker := " "
		if a.Equal(connected) {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, a)
	}
	return nil
}

func runConnect(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	var preferred domain.Account
	if len(args) > 0 {
		a, err := domain.ParseAccount(args[0])
		if err != nil {
			return domain.Precondition(fmt.Errorf("%q is not an address", args[0]))
		}
		preferred = a
	}

	account, err := sessionService.Connect(cmd.Context(), preferred)
	if err != nil {
		return err
	}
	cmd.Printf("Connected %s\n", account)
	return nil
}

func runDisconnect(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if err := sessionService.Disconnect(cmd.Context()); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	cmd.Println("Disconnected")
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	status, err := sessionService.Status(cmd.Context())
	if err != nil {
		return err
	}

	if status.WalletMissing {
		cmd.Println("Wallet:  not detected")
	}
	if status.Account.IsZero() {
		cmd.Println("Account: not connected")
	} else {
		cmd.Printf("Account: %s\n", status.Account)
	}
	if !status.WalletMissing {
		cmd.Printf("Network: %s (chain %d)\n", status.ChainLabel, status.ChainID)
	}
	if status.Balance != "" {
		cmd.Printf("Balance: %s\n", status.Balance)
	}
	if status.ExporterInfo != "" {
		cmd.Printf("Exporter: %s\n", status.ExporterInfo)
	}
	return nil
}
