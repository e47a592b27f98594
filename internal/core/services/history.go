package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
	"github.com/custodia-labs/docproof/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reconstructs the connected account's records from the
// ledger's HashAdded events and the local upload log.
type HistoryService struct {
	state   *SessionState
	ledger  driven.Ledger
	uploads driven.UploadStore
}

// NewHistoryService creates a history service. The upload store may be nil.
func NewHistoryService(state *SessionState, ledger driven.Ledger, uploads driven.UploadStore) *HistoryService {
	return &HistoryService{
		state:   state,
		ledger:  ledger,
		uploads: uploads,
	}
}

// Records queries HashAdded events emitted for the connected account,
// newest first. A provider failure part way through keeps what was
// received and marks the page partial.
func (h *HistoryService) Records(ctx context.Context, r domain.BlockRange) (*domain.HistoryPage, error) {
	account := h.state.Account()
	if account.IsZero() {
		return nil, domain.Precondition(domain.ErrNotConnected)
	}
	if r.To != nil && *r.To < r.From {
		return nil, fmt.Errorf("%w: block range %d..%d is reversed", domain.ErrInvalidInput, r.From, *r.To)
	}

	page := &domain.HistoryPage{Account: account}
	records, errs := h.ledger.HashAdded(ctx, account, r)

	for records != nil || errs != nil {
		select {
		case <-ctx.Done():
			page.Partial = true
			page.Err = ctx.Err()
			return page, nil
		case rec, ok := <-records:
			if !ok {
				records = nil
				continue
			}
			page.Records = append(page.Records, rec)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				page.Partial = true
				page.Err = err
			}
		}
	}

	sort.SliceStable(page.Records, func(i, j int) bool {
		a, b := page.Records[i], page.Records[j]
		if a.BlockNumber != b.BlockNumber {
			return a.BlockNumber > b.BlockNumber
		}
		return a.LogIndex > b.LogIndex
	})

	if page.Err != nil {
		if errors.Is(page.Err, domain.ErrRangeLimited) {
			logger.Warn("History truncated: %v", page.Err)
		} else {
			logger.Warn("History query failed after %d records: %v", len(page.Records), page.Err)
		}
	}
	logger.Debug("History for %s: %d records", account.Short(), len(page.Records))

	return page, nil
}

// Uploads lists local submission attempts, newest first.
func (h *HistoryService) Uploads(ctx context.Context, limit int) ([]domain.UploadSession, error) {
	if h.uploads == nil {
		return nil, nil
	}
	sessions, err := h.uploads.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return sessions, nil
}
