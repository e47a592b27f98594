// Package wallet provides the account and network view for the TUI.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// View shows the connected account and lets the user connect or disconnect.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session driving.SessionService

	status  *driving.SessionStatus
	err     error
	loading bool

	width  int
	height int
}

// NewView creates a new wallet view.
func NewView(s *styles.Styles, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		ctx:     context.Background(),
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		session: session,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context session calls run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the session status.
func (v *View) Init() tea.Cmd {
	return v.refresh()
}

func (v *View) refresh() tea.Cmd {
	if v.session == nil {
		v.err = errors.New("session service not configured")
		return nil
	}
	v.loading = true
	v.err = nil

	session := v.session
	ctx := v.ctx
	return func() tea.Msg {
		status, err := session.Status(ctx)
		return messages.StatusLoaded{Status: status, Err: err}
	}
}

func (v *View) connect() tea.Cmd {
	if v.session == nil {
		return nil
	}
	v.loading = true
	v.err = nil

	session := v.session
	ctx := v.ctx
	return func() tea.Msg {
		account, err := session.Connect(ctx, "")
		if err != nil {
			return messages.StatusLoaded{Err: err}
		}
		return messages.AccountChanged{Account: account}
	}
}

func (v *View) disconnect() tea.Cmd {
	if v.session == nil {
		return nil
	}
	session := v.session
	ctx := v.ctx
	return func() tea.Msg {
		if err := session.Disconnect(ctx); err != nil {
			return messages.StatusLoaded{Err: err}
		}
		return messages.AccountChanged{}
	}
}

// Update handles messages for the wallet view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		if v.loading {
			return v, nil
		}
		switch {
		case msg.String() == "c":
			return v, v.connect()
		case msg.String() == "x":
			return v, v.disconnect()
		case keymap.Matches(msg.String(), v.keymap.Refresh):
			return v, v.refresh()
		}

	case messages.StatusLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Status != nil {
			v.status = msg.Status
		}
		return v, nil

	case messages.AccountChanged:
		return v, v.refresh()
	}

	return v, nil
}

// View renders the wallet view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Wallet"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Contacting the wallet..."))
		b.WriteString("\n")
	case v.status != nil:
		v.renderStatus(&b)
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.errorText())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[c] Connect  [x] Disconnect  [r] Refresh  [Esc] Back"))
	return b.String()
}

func (v *View) renderStatus(b *strings.Builder) {
	st := v.status
	if st.WalletMissing {
		b.WriteString(v.styles.Warning.Render("No wallet found. Create one with: docproof wallet new"))
		b.WriteString("\n")
		return
	}
	if st.Account.IsZero() {
		b.WriteString(v.styles.Muted.Render("No account connected. Press c to connect."))
		b.WriteString("\n")
	} else {
		v.field(b, "Account", v.styles.Hash.Render(st.Account.String()))
		v.field(b, "Balance", st.Balance+" ETH")
		info := st.ExporterInfo
		if info == "" {
			info = v.styles.Muted.Render("not a registered exporter")
		}
		v.field(b, "Exporter", info)
	}
	if st.ChainLabel != "" {
		v.field(b, "Network", fmt.Sprintf("%s (chain %d)", st.ChainLabel, st.ChainID))
	}
}

func (v *View) field(b *strings.Builder, label, value string) {
	b.WriteString(v.styles.Label.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

func (v *View) errorText() string {
	if errors.Is(v.err, domain.ErrNoWallet) {
		return v.styles.Warning.Render("Warning: no wallet found. Create one with: docproof wallet new")
	}
	return v.styles.Error.Render("Error: " + v.err.Error())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Status returns the last loaded status.
func (v *View) Status() *driving.SessionStatus {
	return v.status
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
