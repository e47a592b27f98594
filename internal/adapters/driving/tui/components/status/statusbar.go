// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docproof/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady State = "ready"
	StateBusy  State = "busy"
	StateError State = "error"
	StateHelp  State = "help"
)

// Bar displays the connected account, the orchestrator phase and
// keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	account domain.Account
	network string
	phase   domain.Phase
	hints   []key.Binding
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the account and current state.
func (s *Bar) renderLeft() string {
	account := s.styles.Muted.Render("Not connected")
	if !s.account.IsZero() {
		account = s.styles.Hash.Render(s.account.Short())
		if s.network != "" {
			account += s.styles.Muted.Render(" @ " + s.network)
		}
	}

	switch s.state {
	case StateBusy:
		return account + "  " + s.styles.Phase(s.phase).Render(s.phase.Note())
	case StateError:
		if s.message != "" {
			return account + "  " + s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return account + "  " + s.styles.Error.Render("Error")
	case StateHelp:
		return account + "  " + s.styles.Normal.Render("Help")
	case StateReady:
		if s.message != "" {
			return account + "  " + s.styles.Normal.Render(s.message)
		}
	}
	return account
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.hints
	if len(bindings) == 0 {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetAccount sets the connected account and its network label.
func (s *Bar) SetAccount(account domain.Account, network string) {
	s.account = account
	s.network = network
}

// Account returns the connected account.
func (s *Bar) Account() domain.Account {
	return s.account
}

// SetPhase records the orchestrator phase. In-flight phases mark the
// bar busy; leaving them returns it to ready unless an error is shown.
func (s *Bar) SetPhase(p domain.Phase) {
	s.phase = p
	switch {
	case p.InFlight() || p == domain.PhaseHashing:
		s.state = StateBusy
	case s.state == StateBusy:
		s.state = StateReady
	}
}

// Phase returns the last recorded phase.
func (s *Bar) Phase() domain.Phase {
	return s.phase
}

// SetHints replaces the keybinding hints. Nil restores the defaults.
func (s *Bar) SetHints(bindings []key.Binding) {
	s.hints = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar state and message. The account is kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.phase = domain.PhaseIdle
	s.hints = nil
}
