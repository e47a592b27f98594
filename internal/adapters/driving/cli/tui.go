package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for docproof.

The TUI walks through fingerprinting a document, pinning it and recording
it on the ledger, and shows each transaction phase as it happens. Signing
requests open a passphrase dialog inside the TUI.

Controls:
  ↑/k, ↓/j - Navigate
  1-7      - Jump to a menu entry
  Enter    - Select / Submit
  Esc      - Back / Cancel
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Orchestrator: orchestrator,
		Verification: verificationService,
		Session:      sessionService,
		History:      historyService,
		Settings:     settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	prompter := tui.NewPrompter()
	prompter.Attach(p)
	setPassphrasePrompt(prompter.Prompt)
	defer func() {
		setPassphrasePrompt(nil)
		prompter.Detach()
	}()

	if sessionService != nil {
		go watchAccounts(ctx, p)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// watchAccounts forwards wallet account switches into the program.
func watchAccounts(ctx context.Context, p *tea.Program) {
	err := sessionService.Watch(ctx, func(account domain.Account) {
		p.Send(messages.AccountChanged{Account: account})
	})
	if err != nil && ctx.Err() == nil {
		logger.Debug("account watch stopped: %v", err)
	}
}
