package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/views/verify"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/views/wallet"
	"github.com/custodia-labs/docproof/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles
	keymap *keymap.KeyMap

	statusBar *status.Bar

	menuView     *menu.View
	uploadView   *upload.View
	verifyView   *verify.View
	historyView  *history.View
	walletView   *wallet.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// passphrase is non-nil while a signing request waits for an answer.
	passphrase        *input.Field
	passphraseAccount domain.Account
	passphraseReply   chan<- string

	account domain.Account
	network string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		statusBar:    status.NewBar(s, km),
		menuView:     menu.NewView(s),
		uploadView:   upload.NewView(s, ports.Orchestrator, ports.Verification),
		verifyView:   verify.NewView(s, ports.Verification, ports.Settings),
		historyView:  history.NewView(s, ports.History),
		walletView:   wallet.NewView(s, ports.Session),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}
	if ports.Session != nil {
		a.setAccount(ports.Session.Account(), "")
	}
	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.uploadView.WithContext(ctx)
	a.verifyView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	a.walletView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("docproof"),
		a.loadStatus(),
	)
}

// loadStatus fetches the session status for the status bar.
func (a *App) loadStatus() tea.Cmd {
	session := a.ports.Session
	if session == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		st, err := session.Status(ctx)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

func (a *App) setAccount(account domain.Account, network string) {
	a.account = account
	a.network = network
	a.statusBar.SetAccount(account, network)
	a.menuView.SetAccount(account, network)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		a.menuView, _ = a.menuView.Update(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.answerPassphrase("")
			return a, tea.Quit
		}
		if a.passphrase != nil {
			return a, a.handlePassphraseKey(msg)
		}
		return a, a.routeKey(msg)

	case messages.PassphraseRequested:
		// A second request while one is open declines the first.
		a.answerPassphrase("")
		a.passphraseAccount = msg.Account
		a.passphraseReply = msg.Reply
		a.passphrase = input.NewSecretField(a.styles, "Passphrase")
		a.passphrase.SetWidth(a.width - 8)
		return a, a.passphrase.Focus()

	case messages.ViewChanged:
		a.err = nil
		a.statusBar.Clear()
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewUpload:
			a.uploadView.Reset()
			a.statusBar.SetHints(a.keymap.ReadyHelp())
			return a, a.uploadView.Init()
		case messages.ViewVerify:
			a.verifyView.Reset()
			return a, a.verifyView.Init()
		case messages.ViewHistory:
			a.statusBar.SetHints(a.keymap.ListHelp())
			return a, a.historyView.Init()
		case messages.ViewWallet:
			return a, a.walletView.Init()
		case messages.ViewSettings:
			return a, a.settingsView.Init()
		case messages.ViewHelp:
			a.statusBar.SetState(status.StateHelp)
		case messages.ViewMenu:
			// Menu needs no initialisation
		}
		return a, nil

	case messages.DocumentHashed, spinner.TickMsg:
		a.uploadView, cmd = a.uploadView.Update(msg)
		return a, cmd

	case messages.PhaseChanged:
		a.statusBar.SetPhase(msg.Transition.To)
		a.uploadView, cmd = a.uploadView.Update(msg)
		return a, cmd

	case messages.SubmissionFinished:
		if msg.Session != nil {
			a.statusBar.SetPhase(msg.Session.Phase)
		}
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		}
		a.uploadView, cmd = a.uploadView.Update(msg)
		return a, cmd

	case messages.VerifyCompleted:
		a.verifyView, cmd = a.verifyView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded, messages.UploadsLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.StatusLoaded:
		if msg.Err == nil && msg.Status != nil {
			a.setAccount(msg.Status.Account, msg.Status.ChainLabel)
		}
		a.walletView, cmd = a.walletView.Update(msg)
		return a, cmd

	case messages.AccountChanged:
		a.setAccount(msg.Account, a.network)
		if a.currentView == messages.ViewWallet {
			// The wallet view refreshes the status itself.
			a.walletView, cmd = a.walletView.Update(msg)
			return a, cmd
		}
		return a, a.loadStatus()

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		if msg.Err != nil {
			a.statusBar.SetMessage(msg.Err.Error())
		}
		return a, nil

	case messages.Quit:
		a.answerPassphrase("")
		return a, tea.Quit
	}

	return a, nil
}

// routeKey forwards a key press to the active view.
func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		if keymap.Matches(msg.String(), a.keymap.Help) {
			return func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewHelp}
			}
		}
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewVerify:
		a.verifyView, cmd = a.verifyView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewWallet:
		a.walletView, cmd = a.walletView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Quit) {
			return func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
	}
	return cmd
}

func (a *App) handlePassphraseKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		a.answerPassphrase(a.passphrase.Value())
		return nil
	case tea.KeyEsc:
		a.answerPassphrase("")
		return nil
	}

	var cmd tea.Cmd
	a.passphrase, cmd = a.passphrase.Update(msg)
	return cmd
}

// answerPassphrase replies to the pending request, if any, and closes the dialog.
func (a *App) answerPassphrase(passphrase string) {
	if a.passphraseReply != nil {
		a.passphraseReply <- passphrase
	}
	a.passphraseReply = nil
	a.passphrase = nil
	a.passphraseAccount = ""
}

func (a *App) resize() {
	bodyHeight := a.height - 1
	a.statusBar.SetWidth(a.width)
	a.menuView.SetDimensions(a.width, bodyHeight)
	a.uploadView.SetDimensions(a.width, bodyHeight)
	a.verifyView.SetDimensions(a.width, bodyHeight)
	a.historyView.SetDimensions(a.width, bodyHeight)
	a.walletView.SetDimensions(a.width, bodyHeight)
	a.settingsView.SetDimensions(a.width, bodyHeight)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch {
	case a.passphrase != nil:
		body = a.viewPassphrase()
	case a.currentView == messages.ViewUpload:
		body = a.uploadView.View()
	case a.currentView == messages.ViewVerify:
		body = a.verifyView.View()
	case a.currentView == messages.ViewHistory:
		body = a.historyView.View()
	case a.currentView == messages.ViewWallet:
		body = a.walletView.View()
	case a.currentView == messages.ViewSettings:
		body = a.settingsView.View()
	case a.currentView == messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	return body + "\n" + a.statusBar.View()
}

func (a *App) viewPassphrase() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Signature requested"))
	b.WriteString("\n\n")
	b.WriteString("Unlock ")
	b.WriteString(a.styles.Hash.Render(a.passphraseAccount.String()))
	b.WriteString(" to sign the transaction.\n\n")
	b.WriteString(a.passphrase.View())
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[Enter] Sign  [Esc] Decline"))
	return a.styles.Border.Render(b.String())
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  1-7         Jump to option
  enter       Select option
  ?           This help
  q           Quit

Upload:
  enter       Fingerprint the file at the typed path
  u           Pin and record the document
  d           Delete the document's record
  f           Choose another file

Verify:
  enter       Look up a file or 0x fingerprint

History:
  tab         Switch between ledger records and local attempts
  r           Refresh

Wallet:
  c           Connect the first wallet account
  x           Disconnect
  r           Refresh

Settings:
  enter       Edit the highlighted setting
  u           Reset it to its default

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Account returns the account shown in the status bar.
func (a *App) Account() domain.Account {
	return a.account
}

// PassphrasePending reports whether a signing request is waiting.
func (a *App) PassphrasePending() bool {
	return a.passphrase != nil
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.resize()
	a.menuView.Update(tea.WindowSizeMsg{Width: width, Height: height})
}
