package driving

import (
	"context"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// HistoryService reconstructs what the connected account has recorded.
type HistoryService interface {
	// Records queries HashAdded events for the connected account.
	// Provider failures are reported in the page, not returned, unless
	// nothing could be queried at all.
	Records(ctx context.Context, r domain.BlockRange) (*domain.HistoryPage, error)

	// Uploads lists local submission attempts, newest first.
	Uploads(ctx context.Context, limit int) ([]domain.UploadSession, error)
}
