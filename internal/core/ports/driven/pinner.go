package driven

import (
	"context"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// Pinner uploads document bytes to content-addressed storage.
type Pinner interface {
	// Pin uploads data under the given file name and returns its content
	// identifier. Failures wrap exactly one of domain.ErrUploadNetwork,
	// domain.ErrUploadAuth or domain.ErrUploadRejected.
	Pin(ctx context.Context, name string, data []byte) (domain.ContentID, error)

	// Name identifies the provider in logs and status output.
	Name() string
}
