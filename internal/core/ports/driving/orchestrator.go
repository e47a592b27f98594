package driving

import (
	"context"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// Orchestrator sequences fingerprinting, upload, ledger submission and
// lifecycle tracking. At most one submission runs at a time.
type Orchestrator interface {
	// SelectFile fingerprints a document and holds it for submission.
	SelectFile(ctx context.Context, name string, data []byte) (*domain.FileSelection, error)

	// Upload pins the selected document and records its fingerprint.
	// Transitions are passed to notify in order; notify may be nil.
	Upload(ctx context.Context, notify domain.Observer) (*domain.UploadSession, error)

	// Delete removes the selected document's fingerprint from the ledger.
	Delete(ctx context.Context, notify domain.Observer) (*domain.UploadSession, error)

	// Submit runs an arbitrary contract write through the same lifecycle.
	Submit(ctx context.Context, call domain.ContractCall, notify domain.Observer) (*domain.UploadSession, error)

	// State returns a snapshot for rendering.
	State() domain.OrchestratorState

	// Selection returns the held document, or nil.
	Selection() *domain.FileSelection
}
