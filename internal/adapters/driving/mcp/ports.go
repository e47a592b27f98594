package mcp

import (
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Verification looks documents up on the ledger.
	Verification driving.VerificationService

	// History lists records of the connected account.
	History driving.HistoryService

	// Exporter reads the exporter directory and contract counters.
	Exporter driving.ExporterService

	// Session reports the connected account.
	Session driving.SessionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Verification == nil {
		return ErrMissingVerificationService
	}
	// History, Exporter and Session are optional; their tools report
	// themselves unavailable.
	return nil
}
