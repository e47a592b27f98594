// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docproof/internal/core/domain"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool // If true, selecting this item quits the app
	// NeedsAccount marks items that are pointless without a connected account.
	NeedsAccount bool
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	account  domain.Account
	network  string
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Upload document", View: messages.ViewUpload, NeedsAccount: true},
			{Label: "Verify document", View: messages.ViewVerify},
			{Label: "History", View: messages.ViewHistory, NeedsAccount: true},
			{Label: "Wallet", View: messages.ViewWallet},
			{Label: "Settings", View: messages.ViewSettings},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		selected: 0,
		width:    80,
		height:   24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			return v, v.activate(v.items[v.selected])

		case "q":
			return v, tea.Quit

		default:
			// Digits jump straight to an item.
			if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(v.items) {
				v.selected = int(key[0] - '1')
				return v, v.activate(v.items[v.selected])
			}
		}
	}

	return v, nil
}

func (v *View) activate(item Item) tea.Cmd {
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("docproof"))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Muted.Render("Document fingerprints on the ledger"))
	b.WriteString("\n\n")

	if v.account.IsZero() {
		b.WriteString(v.styles.Warning.Render("No account connected. Open Wallet to connect."))
	} else {
		line := "Connected as " + v.styles.Hash.Render(v.account.Short())
		if v.network != "" {
			line += " on " + v.network
		}
		b.WriteString(v.styles.Normal.Render(line))
	}
	b.WriteString("\n\n")

	for i, item := range v.items {
		cursor := "  "
		style := v.styles.Normal
		if item.NeedsAccount && v.account.IsZero() {
			style = v.styles.Muted
		}
		if i == v.selected {
			cursor = "> "
			style = v.styles.Title
		}

		b.WriteString(fmt.Sprintf("%s%d %s\n", cursor, i+1, style.Render(item.Label)))
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [1-7] Jump  [Enter] Select  [q] Quit"))

	return b.String()
}

// SetAccount updates the connected account shown in the header.
func (v *View) SetAccount(account domain.Account, network string) {
	v.account = account
	v.network = network
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
