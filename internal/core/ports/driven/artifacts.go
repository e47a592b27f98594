package driven

import "github.com/custodia-labs/docproof/internal/core/domain"

// QRRenderer encodes text into a scannable PNG image.
type QRRenderer interface {
	// PNG renders content at the given edge size in pixels using the
	// highest error correction level.
	PNG(content string, size int) ([]byte, error)
}

// LifecycleRecorder observes orchestrator activity for metrics.
// Implementations must be safe for concurrent use.
type LifecycleRecorder interface {
	// RecordTransition counts one phase change.
	RecordTransition(t domain.Transition)

	// RecordUpload counts one pinning attempt by provider and outcome.
	RecordUpload(provider string, err error)
}
