package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingOrchestrator,
		ErrMissingVerificationService,
		ErrInvalidPorts,
		ErrNoProgram,
	}

	// Ensure all errors are unique
	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingOrchestrator_Message(t *testing.T) {
	assert.Contains(t, ErrMissingOrchestrator.Error(), "orchestrator")
}

func TestErrMissingVerificationService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingVerificationService.Error(), "verification service")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
