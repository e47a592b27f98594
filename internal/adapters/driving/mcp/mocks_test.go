package mcp

import (
	"context"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// mockVerificationService is a mock implementation of driving.VerificationService.
type mockVerificationService struct {
	records map[domain.Fingerprint]*domain.DocumentRecord
	err     error
}

func (m *mockVerificationService) URL(fp domain.Fingerprint) string {
	return "http://localhost:8080/verify.html?hash=" + fp.Hex()
}

func (m *mockVerificationService) QRCode(_ domain.Fingerprint) ([]byte, error) {
	return []byte("png"), m.err
}

func (m *mockVerificationService) Lookup(_ context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if rec, ok := m.records[fp]; ok {
		return rec, nil
	}
	return &domain.DocumentRecord{Fingerprint: fp}, nil
}

func (m *mockVerificationService) TxURL(txHash string) string {
	return "https://explorer.example/tx/" + txHash
}

func (m *mockVerificationService) AddressURL(addr domain.Account) string {
	return "https://explorer.example/address/" + addr.String()
}

func (m *mockVerificationService) GatewayURL(cid domain.ContentID) string {
	return "https://gateway.example/ipfs/" + cid.String()
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	page      *domain.HistoryPage
	sessions  []domain.UploadSession
	lastRange domain.BlockRange
	lastLimit int
	err       error
}

func (m *mockHistoryService) Records(_ context.Context, r domain.BlockRange) (*domain.HistoryPage, error) {
	m.lastRange = r
	return m.page, m.err
}

func (m *mockHistoryService) Uploads(_ context.Context, limit int) ([]domain.UploadSession, error) {
	m.lastLimit = limit
	return m.sessions, m.err
}

// mockExporterService is a mock implementation of driving.ExporterService.
type mockExporterService struct {
	exporter *domain.Exporter
	counters *domain.Counters
	owner    domain.Account
	lastAddr string
	err      error
	ownerErr error
}

func (m *mockExporterService) Add(_ context.Context, _, _ string, _ domain.Observer) (*domain.UploadSession, error) {
	return nil, m.err
}

func (m *mockExporterService) Alter(_ context.Context, _, _ string, _ domain.Observer) (*domain.UploadSession, error) {
	return nil, m.err
}

func (m *mockExporterService) Delete(_ context.Context, _ string, _ domain.Observer) (*domain.UploadSession, error) {
	return nil, m.err
}

func (m *mockExporterService) ChangeOwner(_ context.Context, _ string, _ domain.Observer) (*domain.UploadSession, error) {
	return nil, m.err
}

func (m *mockExporterService) Info(_ context.Context, addr string) (*domain.Exporter, error) {
	m.lastAddr = addr
	return m.exporter, m.err
}

func (m *mockExporterService) Counters(_ context.Context) (*domain.Counters, error) {
	return m.counters, m.err
}

func (m *mockExporterService) Owner(_ context.Context) (domain.Account, error) {
	return m.owner, m.ownerErr
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	status *driving.SessionStatus
	err    error
}

func (m *mockSessionService) Restore(_ context.Context) (domain.Account, error) {
	return m.Account(), m.err
}

func (m *mockSessionService) Connect(_ context.Context, _ domain.Account) (domain.Account, error) {
	return m.Account(), m.err
}

func (m *mockSessionService) Disconnect(_ context.Context) error {
	return m.err
}

func (m *mockSessionService) Account() domain.Account {
	if m.status == nil {
		return ""
	}
	return m.status.Account
}

func (m *mockSessionService) Status(_ context.Context) (*driving.SessionStatus, error) {
	return m.status, m.err
}

func (m *mockSessionService) Watch(ctx context.Context, _ func(domain.Account)) error {
	<-ctx.Done()
	return nil
}
