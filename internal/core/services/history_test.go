package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docproof/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docproof/internal/core/domain"
)

func TestHistoryService_Records(t *testing.T) {
	ledger := newFakeLedger()
	ledger.records = []domain.LedgerRecord{
		{Exporter: testAccount, ContentID: "QmOld", BlockNumber: 10, LogIndex: 0},
		{Exporter: otherAccount, ContentID: "QmOther", BlockNumber: 11},
		{Exporter: testAccount, ContentID: "QmNew", BlockNumber: 20, LogIndex: 1},
		{Exporter: testAccount, ContentID: "QmSameBlock", BlockNumber: 20, LogIndex: 3},
	}
	state := NewSessionState()
	state.setAccount(testAccount)
	svc := NewHistoryService(state, ledger, nil)

	page, err := svc.Records(context.Background(), domain.BlockRange{})

	require.NoError(t, err)
	assert.Equal(t, testAccount, page.Account)
	assert.False(t, page.Partial)
	assert.NoError(t, page.Err)
	require.Len(t, page.Records, 3)
	assert.Equal(t, domain.ContentID("QmSameBlock"), page.Records[0].ContentID)
	assert.Equal(t, domain.ContentID("QmNew"), page.Records[1].ContentID)
	assert.Equal(t, domain.ContentID("QmOld"), page.Records[2].ContentID)
}

func TestHistoryService_Records_RangeLimited(t *testing.T) {
	ledger := newFakeLedger()
	ledger.records = []domain.LedgerRecord{
		{Exporter: testAccount, ContentID: "QmA", BlockNumber: 5},
	}
	ledger.histErr = fmt.Errorf("%w: query returned more than 10000 results", domain.ErrRangeLimited)
	state := NewSessionState()
	state.setAccount(testAccount)
	svc := NewHistoryService(state, ledger, nil)

	page, err := svc.Records(context.Background(), domain.BlockRange{})

	require.NoError(t, err)
	assert.True(t, page.Partial)
	assert.ErrorIs(t, page.Err, domain.ErrRangeLimited)
	assert.Len(t, page.Records, 1)
}

func TestHistoryService_Records_NotConnected(t *testing.T) {
	svc := NewHistoryService(NewSessionState(), newFakeLedger(), nil)

	_, err := svc.Records(context.Background(), domain.BlockRange{})

	assert.ErrorIs(t, err, domain.ErrNotConnected)
	assert.True(t, domain.IsPrecondition(err))
}

func TestHistoryService_Records_ReversedRange(t *testing.T) {
	state := NewSessionState()
	state.setAccount(testAccount)
	svc := NewHistoryService(state, newFakeLedger(), nil)
	to := uint64(5)

	_, err := svc.Records(context.Background(), domain.BlockRange{From: 10, To: &to})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_Uploads(t *testing.T) {
	ctx := context.Background()
	uploads := memory.NewUploadStore()
	now := time.Now()
	require.NoError(t, uploads.Save(ctx, &domain.UploadSession{ID: "a", StartedAt: now.Add(-time.Hour)}))
	require.NoError(t, uploads.Save(ctx, &domain.UploadSession{ID: "b", StartedAt: now}))
	svc := NewHistoryService(NewSessionState(), newFakeLedger(), uploads)

	list, err := svc.Uploads(ctx, 1)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	none, err := NewHistoryService(NewSessionState(), newFakeLedger(), nil).Uploads(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
