package driving

import (
	"context"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// ExporterService administers the exporter directory.
type ExporterService interface {
	// Add registers an exporter. Address and info are required.
	Add(ctx context.Context, addr, info string, notify domain.Observer) (*domain.UploadSession, error)

	// Alter replaces an exporter's info. Address and info are required.
	Alter(ctx context.Context, addr, info string, notify domain.Observer) (*domain.UploadSession, error)

	// Delete removes an exporter. Address is required.
	Delete(ctx context.Context, addr string, notify domain.Observer) (*domain.UploadSession, error)

	// ChangeOwner transfers contract ownership. Address is required.
	ChangeOwner(ctx context.Context, addr string, notify domain.Observer) (*domain.UploadSession, error)

	// Info returns the directory entry for addr, or for the connected
	// account when addr is empty.
	Info(ctx context.Context, addr string) (*domain.Exporter, error)

	// Counters returns the number of exporters and recorded hashes.
	Counters(ctx context.Context) (*domain.Counters, error)

	// Owner returns the contract owner.
	Owner(ctx context.Context) (domain.Account, error)
}
