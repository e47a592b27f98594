// Package verify provides the document verification view for the TUI.
package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
	"github.com/custodia-labs/docproof/internal/fingerprint"
)

// View looks a document up on the ledger by file or fingerprint.
type View struct {
	ctx      context.Context
	styles   *styles.Styles
	verify   driving.VerificationService
	settings driving.SettingsService
	query    *input.Field

	fp      domain.Fingerprint
	record  *domain.DocumentRecord
	err     error
	loading bool

	width  int
	height int
}

// NewView creates a new verify view. settings may be nil, in which case
// files are fingerprinted as text.
func NewView(
	s *styles.Styles,
	verify driving.VerificationService,
	settings driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		ctx:      context.Background(),
		styles:   s,
		verify:   verify,
		settings: settings,
		query:    input.NewField(s, "File or 0x hash", ""),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context lookups run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.query.Init(), v.query.Focus())
}

// Reset clears the input and the last result.
func (v *View) Reset() {
	v.query.Reset()
	v.fp = domain.Fingerprint{}
	v.record = nil
	v.err = nil
	v.loading = false
}

// Update handles messages for the verify view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case tea.KeyEnter:
			q := strings.TrimSpace(v.query.Value())
			if q == "" || v.loading {
				return v, nil
			}
			v.loading = true
			v.err = nil
			v.record = nil
			return v, v.lookup(q)
		}

	case messages.VerifyCompleted:
		v.loading = false
		v.fp = msg.Fingerprint
		v.record = msg.Record
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	v.query, cmd = v.query.Update(msg)
	return v, cmd
}

// lookup resolves q to a fingerprint and asks the ledger for its record.
func (v *View) lookup(q string) tea.Cmd {
	verify := v.verify
	ctx := v.ctx
	mode := v.mode()
	return func() tea.Msg {
		if verify == nil {
			return messages.VerifyCompleted{Err: errors.New("verification service not configured")}
		}
		fp, err := resolve(q, mode)
		if err != nil {
			return messages.VerifyCompleted{Err: err}
		}
		rec, err := verify.Lookup(ctx, fp)
		return messages.VerifyCompleted{Fingerprint: fp, Record: rec, Err: err}
	}
}

func (v *View) mode() domain.FingerprintMode {
	if v.settings != nil {
		if s, err := v.settings.Get(); err == nil && s.Fingerprint.IsValid() {
			return s.Fingerprint
		}
	}
	return domain.FingerprintText
}

// resolve treats q as a file path when such a file exists and as a hex
// fingerprint otherwise.
func resolve(q string, mode domain.FingerprintMode) (domain.Fingerprint, error) {
	data, err := os.ReadFile(q) //nolint:gosec // user-selected document
	if err == nil {
		res, err := fingerprint.ComputeMode(mode, data)
		if err != nil {
			return domain.Fingerprint{}, domain.Precondition(err)
		}
		return res.Fingerprint, nil
	}
	if !os.IsNotExist(err) {
		return domain.Fingerprint{}, fmt.Errorf("read %s: %w", q, err)
	}
	fp, perr := domain.ParseFingerprint(q)
	if perr != nil {
		return domain.Fingerprint{}, domain.Precondition(fmt.Errorf("%s is neither a file nor a 0x fingerprint", q))
	}
	return fp, nil
}

// View renders the verify view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Verify Document"))
	b.WriteString("\n\n")
	b.WriteString(v.query.View())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Looking up..."))
		b.WriteString("\n")
	case v.err != nil:
		prefix := "Error: "
		if domain.IsPrecondition(v.err) {
			prefix = "Warning: "
		}
		b.WriteString(v.styles.Error.Render(prefix + v.err.Error()))
		b.WriteString("\n")
	case v.record != nil && !v.record.Exists():
		b.WriteString(v.styles.Warning.Render("Document Not Found"))
		b.WriteString("\n")
		v.field(&b, "Fingerprint", v.fp.Hex())
	case v.record != nil:
		v.renderRecord(&b)
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[Enter] Verify  [Esc] Back"))
	return b.String()
}

func (v *View) renderRecord(b *strings.Builder) {
	rec := v.record
	b.WriteString(v.styles.Success.Render("Document Verified Successfully"))
	b.WriteString("\n")
	v.field(b, "Fingerprint", v.fp.Hex())
	v.field(b, "Exporter", rec.ExporterInfo)
	v.field(b, "Block", fmt.Sprintf("%d", rec.BlockNumber))
	if rec.Timestamp > 0 {
		v.field(b, "Recorded", time.Unix(int64(rec.Timestamp), 0).UTC().Format(time.RFC1123))
	}
	if rec.ContentID != "" && v.verify != nil {
		v.field(b, "Document", v.verify.GatewayURL(rec.ContentID))
	}
	if v.verify != nil {
		v.field(b, "Verify", v.verify.URL(v.fp))
	}
}

func (v *View) field(b *strings.Builder, label, value string) {
	b.WriteString(v.styles.Label.Render(label) + v.styles.Normal.Render(value))
	b.WriteString("\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.query.SetWidth(width)
}

// Record returns the last lookup result, or nil.
func (v *View) Record() *domain.DocumentRecord {
	return v.record
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
