// Package history provides the upload history view for the TUI.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// localLimit caps the number of local attempts listed.
const localLimit = 50

// Mode selects what the history view lists.
type Mode int

const (
	// ModeLedger lists HashAdded records of the connected account.
	ModeLedger Mode = iota
	// ModeLocal lists submission attempts stored on this machine.
	ModeLocal
)

// View lists ledger records or local submission attempts.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	history driving.HistoryService
	list    *list.RowList

	mode    Mode
	warning string
	err     error
	loading bool

	width  int
	height int
}

// NewView creates a new history view.
func NewView(s *styles.Styles, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		ctx:     context.Background(),
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		history: history,
		list:    list.NewRowList(s, "Ledger records"),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context queries run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the current mode.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	if v.history == nil {
		v.err = errors.New("history service not configured")
		return nil
	}
	v.loading = true
	v.err = nil
	v.warning = ""

	history := v.history
	ctx := v.ctx
	if v.mode == ModeLocal {
		return func() tea.Msg {
			sessions, err := history.Uploads(ctx, localLimit)
			return messages.UploadsLoaded{Sessions: sessions, Err: err}
		}
	}
	return func() tea.Msg {
		page, err := history.Records(ctx, domain.BlockRange{})
		return messages.HistoryLoaded{Page: page, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEsc:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case keymap.Matches(msg.String(), v.keymap.Toggle):
			if v.mode == ModeLedger {
				v.mode = ModeLocal
				v.list.SetTitle("Local attempts")
			} else {
				v.mode = ModeLedger
				v.list.SetTitle("Ledger records")
			}
			v.list.SetRows(nil)
			return v, v.load()
		case keymap.Matches(msg.String(), v.keymap.Refresh):
			return v, v.load()
		}
		v.list, _ = v.list.Update(msg)
		return v, nil

	case messages.HistoryLoaded:
		if v.mode != ModeLedger {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Page != nil {
			v.list.SetRows(recordRows(msg.Page.Records))
			if msg.Page.Partial && msg.Page.Err != nil {
				v.warning = "history may be incomplete: " + msg.Page.Err.Error()
			}
		}
		return v, nil

	case messages.UploadsLoaded:
		if v.mode != ModeLocal {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		v.list.SetRows(sessionRows(msg.Sessions))
		return v, nil
	}

	return v, nil
}

func recordRows(records []domain.LedgerRecord) []list.Row {
	rows := make([]list.Row, len(records))
	for i, r := range records {
		rows[i] = list.Row{
			Title:  r.ContentID.String(),
			Meta:   fmt.Sprintf("block %d", r.BlockNumber),
			Detail: r.TxHash,
		}
	}
	return rows
}

func sessionRows(sessions []domain.UploadSession) []list.Row {
	rows := make([]list.Row, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		title := s.FileName
		if title == "" {
			title = s.Operation.String()
		}
		detail := s.StartedAt.Format("2006-01-02 15:04:05")
		if !s.Fingerprint.IsZero() {
			detail += "  " + domain.Truncate(s.Fingerprint.Hex())
		}
		if msg := s.ErrorMessage(); msg != "" {
			detail += "  " + msg
		}
		rows[i] = list.Row{
			Title:  title,
			Meta:   s.Phase.String(),
			Detail: detail,
		}
	}
	return rows
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("History"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n")

	if v.warning != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render("Warning: " + v.warning))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Tab] Ledger/Local  [r] Refresh  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
}

// Mode returns what is being listed.
func (v *View) Mode() Mode {
	return v.mode
}

// Count returns the number of listed entries.
func (v *View) Count() int {
	return v.list.Count()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
