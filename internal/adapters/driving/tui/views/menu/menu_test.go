package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/styles"
)

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Len(t, view.items, 7)
	assert.Equal(t, 0, view.selected)
	assert.Equal(t, 80, view.width)
	assert.Equal(t, 24, view.height)
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_Init(t *testing.T) {
	assert.Nil(t, NewView(nil).Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
	assert.Equal(t, 50, view.height)
}

func TestView_Update_KeyMsg_Navigate(t *testing.T) {
	view := NewView(nil)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.selected)

	j := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	for i := 0; i < 10; i++ {
		view.Update(j)
	}
	// Can't go past the last item
	assert.Equal(t, 6, view.selected)

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 5, view.selected)

	k := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	for i := 0; i < 10; i++ {
		view.Update(k)
	}
	assert.Equal(t, 0, view.selected)
}

func TestView_Update_KeyMsg_Enter_ViewChange(t *testing.T) {
	tests := []struct {
		index int
		view  messages.ViewType
	}{
		{0, messages.ViewUpload},
		{1, messages.ViewVerify},
		{2, messages.ViewHistory},
		{3, messages.ViewWallet},
		{4, messages.ViewSettings},
		{5, messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			view := NewView(nil)
			view.selected = tt.index

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

			require.NotNil(t, cmd)
			changed, ok := cmd().(messages.ViewChanged)
			require.True(t, ok)
			assert.Equal(t, tt.view, changed.View)
		})
	}
}

func TestView_Update_DigitJumps(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})

	assert.Equal(t, 2, view.selected)
	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewHistory, changed.View)
}

func TestView_Update_DigitOutOfRange(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}})

	assert.Nil(t, cmd)
	assert.Equal(t, 0, view.selected)
}

func TestView_Update_KeyMsg_Enter_Quit(t *testing.T) {
	view := NewView(nil)
	view.selected = 6 // Quit

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestView_Update_KeyMsg_Q(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(nil)

	assert.Contains(t, view.View(), "Initialising")
}

func TestView_View_Disconnected(t *testing.T) {
	view := NewView(nil)
	view.SetDimensions(80, 24)

	output := view.View()

	assert.Contains(t, output, "docproof")
	assert.Contains(t, output, "No account connected")
	assert.Contains(t, output, "Upload document")
	assert.Contains(t, output, "Verify document")
	assert.Contains(t, output, "Quit")
	assert.Contains(t, output, ">") // Selection indicator
}

func TestView_View_Connected(t *testing.T) {
	view := NewView(nil)
	view.SetDimensions(80, 24)
	view.SetAccount("0x1111111111111111111111111111111111111111", "Ganache Test Network")

	output := view.View()

	assert.Contains(t, output, "Connected as")
	assert.Contains(t, output, "0x11111...11111111")
	assert.Contains(t, output, "Ganache Test Network")
	assert.NotContains(t, output, "No account connected")
}

func TestView_Selected(t *testing.T) {
	view := NewView(nil)
	view.selected = 2

	assert.Equal(t, 2, view.Selected())
}
