// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
)

// Row is one entry of a RowList.
type Row struct {
	// Title is the main line, e.g. a content ID or file name.
	Title string
	// Meta is shown right of the title, e.g. a block number.
	Meta string
	// Detail is the muted second line, e.g. a transaction hash.
	Detail string
}

// RowList displays rows in a navigable list.
type RowList struct {
	title    string
	rows     []Row
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRowList creates a new row list with a heading.
func NewRowList(s *styles.Styles, title string) *RowList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RowList{
		title:  title,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the row list.
func (r *RowList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RowList) Update(msg tea.Msg) (*RowList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the row list.
func (r *RowList) View() string {
	if len(r.rows) == 0 {
		return r.styles.Muted.Render("No entries")
	}

	lines := make([]string, 0, len(r.rows)*2+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", r.title, len(r.rows))), "")

	// Each row takes two lines.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.rows) {
		end = len(r.rows)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, &r.rows[i]))
	}

	return strings.Join(lines, "\n")
}

// renderRow formats a single row.
func (r *RowList) renderRow(index int, row *Row) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxTitleLen := r.width - len(row.Meta) - 6
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := truncate(row.Title, maxTitleLen)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, row.Meta))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			r.styles.Muted.Render(row.Meta)
	}

	if row.Detail == "" {
		return titleLine
	}
	return titleLine + "\n" + r.styles.Muted.Render("    "+truncate(row.Detail, r.width-6))
}

func truncate(s string, n int) string {
	if n < 4 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// SetRows replaces the rows and resets the selection.
func (r *RowList) SetRows(rows []Row) {
	r.rows = rows
	r.selected = 0
}

// SetTitle replaces the heading.
func (r *RowList) SetTitle(title string) {
	r.title = title
}

// Rows returns the current rows.
func (r *RowList) Rows() []Row {
	return r.rows
}

// Selected returns the index of the selected row.
func (r *RowList) Selected() int {
	return r.selected
}

// SelectedRow returns the currently selected row, or nil if none.
func (r *RowList) SelectedRow() *Row {
	if len(r.rows) == 0 || r.selected < 0 || r.selected >= len(r.rows) {
		return nil
	}
	return &r.rows[r.selected]
}

// MoveUp moves selection up.
func (r *RowList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RowList) MoveDown() {
	if r.selected < len(r.rows)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RowList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of rows.
func (r *RowList) Count() int {
	return len(r.rows)
}

// IsEmpty returns whether the list is empty.
func (r *RowList) IsEmpty() bool {
	return len(r.rows) == 0
}
