// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
	"github.com/custodia-labs/docproof/internal/core/services"
)

// View lists every setting and edits one at a time.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	settingsService driving.SettingsService

	keys     []string
	settings *domain.AppSettings
	selected int

	// editor is non-nil while a value is being edited.
	editor *input.Field
	notice string
	err    error

	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:          s,
		keymap:          keymap.DefaultKeyMap(),
		settingsService: settingsService,
		width:           80,
		height:          24,
	}
	if settingsService != nil {
		v.keys = settingsService.Keys()
	}
	return v
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	if v.settingsService == nil {
		v.err = errors.New("settings service not configured")
		return nil
	}
	svc := v.settingsService
	return func() tea.Msg {
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.editor != nil {
			return v.handleEditKey(msg)
		}
		return v.handleKey(msg)

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Settings != nil {
			v.settings = msg.Settings
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key
		return v, v.load()
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keymap.Matches(msg.String(), v.keymap.Select):
		v.startEdit()
	case msg.String() == "u":
		return v, v.unset()
	case keymap.Matches(msg.String(), v.keymap.Refresh):
		v.notice = ""
		return v, v.load()
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.editor = nil
		return v, nil
	case tea.KeyEnter:
		key := v.keys[v.selected]
		value := strings.TrimSpace(v.editor.Value())
		v.editor = nil
		return v, v.save(key, value)
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) startEdit() {
	if len(v.keys) == 0 || v.settingsService == nil {
		return
	}
	key := v.keys[v.selected]
	if services.IsSecretKey(key) {
		v.editor = input.NewSecretField(v.styles, key)
	} else {
		v.editor = input.NewField(v.styles, key, "")
		v.editor.SetValue(services.SettingValue(v.settings, key))
	}
	v.editor.SetWidth(v.width - 4)
	v.editor.Focus()
	v.notice = ""
}

func (v *View) save(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		return messages.SettingsSaved{Key: key, Err: svc.Set(key, value)}
	}
}

func (v *View) unset() tea.Cmd {
	if len(v.keys) == 0 || v.settingsService == nil {
		return nil
	}
	key := v.keys[v.selected]
	svc := v.settingsService
	return func() tea.Msg {
		return messages.SettingsSaved{Key: key, Err: svc.Unset(key)}
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n")
	if v.settingsService != nil {
		b.WriteString(v.styles.Muted.Render(v.settingsService.Path()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, key := range v.keys {
		line := padRight(key, 30) + v.displayValue(key)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if v.editor != nil {
		b.WriteString("\n")
		b.WriteString(v.editor.View())
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	} else if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editor != nil {
		b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Edit  [u] Reset to default  [Esc] Back"))
	}
	return b.String()
}

func (v *View) displayValue(key string) string {
	value := services.SettingValue(v.settings, key)
	switch {
	case value == "":
		return v.styles.Muted.Render("(not set)")
	case services.IsSecretKey(key):
		return "********"
	default:
		return value
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editor != nil
}

// Selected returns the highlighted key.
func (v *View) Selected() string {
	if len(v.keys) == 0 {
		return ""
	}
	return v.keys[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
