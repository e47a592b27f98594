package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTUICmd_Use(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
}

func TestTUICmd_Short(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_RequiresServices(t *testing.T) {
	setupTestServices(t, Services{})

	_, err := execute(t, "tui")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create TUI")
}
