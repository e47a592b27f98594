// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// Theme is the palette. Each colour carries a light and a dark variant and
// lipgloss picks one from the terminal background.
type Theme struct {
	Accent  lipgloss.AdaptiveColor // titles, selection
	Hash    lipgloss.AdaptiveColor // fingerprints, addresses, tx hashes
	Text    lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Ok      lipgloss.AdaptiveColor
	Caution lipgloss.AdaptiveColor
	Fault   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor
	Bar     lipgloss.AdaptiveColor // status bar background
}

// DefaultTheme returns the docproof palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#8247E5"},
		Hash:    lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#06B6D4"},
		Text:    lipgloss.AdaptiveColor{Light: "#1E1E2E", Dark: "#CDD6F4"},
		Muted:   lipgloss.AdaptiveColor{Light: "#7C7F93", Dark: "#6C7086"},
		Ok:      lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"},
		Caution: lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"},
		Fault:   lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"},
		Border:  lipgloss.AdaptiveColor{Light: "#BCC0CC", Dark: "#45475A"},
		Bar:     lipgloss.AdaptiveColor{Light: "#E6E9EF", Dark: "#181825"},
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style

	// Hash renders fingerprints, addresses and transaction hashes.
	Hash lipgloss.Style

	// Label is the fixed-width left column of key/value panels.
	Label lipgloss.Style
}

// labelWidth fits the longest panel label ("Content ID:").
const labelWidth = 14

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	boxed := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	return &Styles{
		theme:      theme,
		Title:      fg(theme.Accent).Bold(true),
		Subtitle:   fg(theme.Hash).Bold(true),
		Normal:     fg(theme.Text),
		Muted:      fg(theme.Muted),
		Selected:   fg(theme.Text).Background(theme.Accent).Bold(true),
		Error:      fg(theme.Fault),
		Success:    fg(theme.Ok),
		Warning:    fg(theme.Caution),
		InputField: boxed.Padding(0, 1),
		StatusBar:  fg(theme.Muted).Background(theme.Bar).Padding(0, 1),
		Help:       fg(theme.Muted),
		Border:     boxed,
		Hash:       fg(theme.Hash),
		Label:      fg(theme.Muted).Width(labelWidth),
	}
}

// Phase returns the style for an orchestrator phase note.
func (s *Styles) Phase(p domain.Phase) lipgloss.Style {
	switch p {
	case domain.PhaseConfirmed, domain.PhaseReady:
		return s.Success
	case domain.PhaseFailed:
		return s.Error
	case domain.PhaseAwaitingSignature:
		return s.Warning
	case domain.PhaseIdle:
		return s.Muted
	default:
		return s.Subtitle
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
