// Package tui provides an interactive terminal user interface for docproof.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Orchestrator hashes documents and drives ledger writes.
	Orchestrator driving.Orchestrator

	// Verification looks documents up and builds verification links.
	Verification driving.VerificationService

	// Session manages the connected account.
	Session driving.SessionService

	// History lists ledger records and local attempts.
	History driving.HistoryService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(orchestrator driving.Orchestrator, verification driving.VerificationService) *Ports {
	return &Ports{
		Orchestrator: orchestrator,
		Verification: verification,
	}
}

// Validate ensures all required ports are set.
// Session, History and Settings are optional; their views report
// the missing service instead.
func (p *Ports) Validate() error {
	if p.Orchestrator == nil {
		return ErrMissingOrchestrator
	}
	if p.Verification == nil {
		return ErrMissingVerificationService
	}
	return nil
}
