// Package upload provides the document upload lifecycle view for the TUI.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// eventBuffer holds transitions until the view drains them. A submission
// emits at most a handful.
const eventBuffer = 16

// View selects a document, shows its fingerprint and runs an upload or
// delete through the lifecycle.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	orch    driving.Orchestrator
	verify  driving.VerificationService
	path    *input.Field
	spinner spinner.Model

	selection   *domain.FileSelection
	transitions []domain.Transition
	session     *domain.UploadSession
	err         error
	busy        bool
	events      chan tea.Msg

	width  int
	height int
}

// NewView creates a new upload view. verify may be nil, in which case
// transaction and gateway links are shown raw.
func NewView(
	s *styles.Styles,
	orch driving.Orchestrator,
	verify driving.VerificationService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		ctx:     context.Background(),
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		orch:    orch,
		verify:  verify,
		path:    input.NewField(s, "File", "path/to/document"),
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context submissions run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.path.Init(), v.path.Focus())
}

// Reset clears the finished state so a new document can be chosen.
// A running submission is left alone.
func (v *View) Reset() {
	if v.busy {
		return
	}
	v.path.Reset()
	v.selection = nil
	v.transitions = nil
	v.session = nil
	v.err = nil
	if v.orch != nil {
		v.selection = v.orch.Selection()
	}
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.DocumentHashed:
		v.err = msg.Err
		if msg.Err == nil {
			v.selection = msg.Selection
			v.transitions = nil
			v.session = nil
			v.path.Blur()
		}
		return v, nil

	case messages.PhaseChanged:
		v.transitions = append(v.transitions, msg.Transition)
		return v, v.waitForEvent()

	case messages.SubmissionFinished:
		v.busy = false
		v.events = nil
		v.session = msg.Session
		v.err = msg.Err
		// A confirmed upload releases the document.
		if v.orch != nil {
			v.selection = v.orch.Selection()
		}
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.path, cmd = v.path.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.busy {
		// Keys are ignored until the submission settles.
		return v, nil
	}

	if v.path.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			path := strings.TrimSpace(v.path.Value())
			if path == "" {
				return v, nil
			}
			return v, v.hash(path)
		case tea.KeyEsc:
			if v.selection != nil {
				v.path.Blur()
				return v, nil
			}
			return v, backToMenu
		default:
			var cmd tea.Cmd
			v.path, cmd = v.path.Update(msg)
			return v, cmd
		}
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Upload):
		return v, v.submit(domain.MethodAddDocHash)
	case keymap.Matches(msg.String(), v.keymap.Delete):
		return v, v.submit(domain.MethodDeleteHash)
	case msg.String() == "f", msg.Type == tea.KeyEnter:
		// Choose another file.
		v.path.Reset()
		return v, v.path.Focus()
	case msg.Type == tea.KeyEsc:
		return v, backToMenu
	}
	return v, nil
}

func backToMenu() tea.Msg {
	return messages.ViewChanged{View: messages.ViewMenu}
}

// hash reads and fingerprints the file at path.
func (v *View) hash(path string) tea.Cmd {
	orch := v.orch
	ctx := v.ctx
	return func() tea.Msg {
		if orch == nil {
			return messages.DocumentHashed{Err: errors.New("orchestrator not configured")}
		}
		data, err := os.ReadFile(path) //nolint:gosec // user-selected document
		if err != nil {
			if os.IsNotExist(err) {
				return messages.DocumentHashed{Err: domain.Precondition(domain.ErrNoDocument)}
			}
			return messages.DocumentHashed{Err: fmt.Errorf("read %s: %w", path, err)}
		}
		sel, err := orch.SelectFile(ctx, filepath.Base(path), data)
		return messages.DocumentHashed{Selection: sel, Err: err}
	}
}

// submit starts method in the background and streams its transitions.
// The orchestrator checks the account and wallet and reports a refusal
// through SubmissionFinished.
func (v *View) submit(method domain.ContractMethod) tea.Cmd {
	if v.orch == nil {
		return nil
	}
	if v.selection == nil {
		v.err = domain.Precondition(domain.ErrNoDocument)
		return nil
	}

	v.busy = true
	v.err = nil
	v.session = nil
	v.transitions = nil
	v.events = make(chan tea.Msg, eventBuffer)

	events := v.events
	orch := v.orch
	ctx := v.ctx
	notify := func(t domain.Transition) {
		events <- messages.PhaseChanged{Transition: t}
	}

	go func() {
		var sess *domain.UploadSession
		var err error
		if method == domain.MethodDeleteHash {
			sess, err = orch.Delete(ctx, notify)
		} else {
			sess, err = orch.Upload(ctx, notify)
		}
		events <- messages.SubmissionFinished{Session: sess, Err: err}
		close(events)
	}()

	return tea.Batch(v.spinner.Tick, v.waitForEvent())
}

// waitForEvent delivers the next lifecycle message.
func (v *View) waitForEvent() tea.Cmd {
	events := v.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// View renders the upload view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Upload Document"))
	b.WriteString("\n\n")

	if v.path.Focused() || v.selection == nil {
		b.WriteString(v.path.View())
		b.WriteString("\n\n")
	}

	if v.selection != nil {
		v.renderSelection(&b)
	}

	for _, t := range v.transitions {
		b.WriteString(v.styles.Phase(t.To).Render("• " + t.Note()))
		if t.To == domain.PhasePending && t.TxHash != "" {
			b.WriteString(v.styles.Muted.Render("  " + t.TxHash))
		}
		b.WriteString("\n")
	}
	if v.busy {
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("working..."))
		b.WriteString("\n")
	}

	if v.session != nil && v.session.Confirmed() {
		b.WriteString("\n")
		v.renderReceipt(&b, v.session)
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(errorText(v.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(v.footer()))
	return b.String()
}

func (v *View) renderSelection(b *strings.Builder) {
	sel := v.selection
	b.WriteString(v.styles.Success.Render(domain.PhaseReady.Note()))
	b.WriteString("\n")
	v.field(b, "File", fmt.Sprintf("%s (%d bytes)", sel.Name, sel.Size))
	b.WriteString(v.styles.Label.Render("Fingerprint") + v.styles.Hash.Render(sel.Fingerprint.Hex()))
	b.WriteString("\n")
	if sel.Lossy {
		b.WriteString(v.styles.Warning.Render("Warning: not valid text; invalid bytes were replaced before hashing"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (v *View) renderReceipt(b *strings.Builder, sess *domain.UploadSession) {
	r := sess.Receipt
	v.field(b, "Block Number", fmt.Sprintf("%d", r.BlockNumber))
	v.field(b, "Block Hash", r.BlockHash)
	v.field(b, "Gas Used", fmt.Sprintf("%d", r.GasUsed))
	v.field(b, "Contract", r.ContractAddress.String())
	v.field(b, "From", r.From.String())
	tx := r.TxHash
	if v.verify != nil {
		tx = v.verify.TxURL(r.TxHash)
	}
	v.field(b, "Transaction", tx)
	if sess.ContentID != "" {
		v.field(b, "Content ID", sess.ContentID.String())
		if v.verify != nil {
			v.field(b, "Document", v.verify.GatewayURL(sess.ContentID))
		}
	}
	if sess.VerifyURL != "" {
		v.field(b, "Verify", sess.VerifyURL)
	}
	if sess.Balance != "" {
		v.field(b, "Balance", sess.Balance)
	}
}

func (v *View) field(b *strings.Builder, label, value string) {
	b.WriteString(v.styles.Label.Render(label) + v.styles.Normal.Render(value))
	b.WriteString("\n")
}

func (v *View) footer() string {
	switch {
	case v.busy:
		return "Waiting for the ledger..."
	case v.path.Focused():
		return "[Enter] Hash  [Esc] Back"
	case v.selection != nil:
		return "[u] Upload  [d] Delete  [f] Other file  [Esc] Back"
	default:
		return "[f] Choose file  [Esc] Back"
	}
}

// errorText renders preconditions as warnings, like the CLI does.
func errorText(err error) string {
	if domain.IsPrecondition(err) {
		return "Warning: " + err.Error()
	}
	return "Error: " + err.Error()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.path.SetWidth(width)
}

// Busy reports whether a submission is running.
func (v *View) Busy() bool {
	return v.busy
}

// Selection returns the hashed document, or nil.
func (v *View) Selection() *domain.FileSelection {
	return v.selection
}

// Session returns the last finished submission, or nil.
func (v *View) Session() *domain.UploadSession {
	return v.session
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
