package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

const testAccount domain.Account = "0x1111111111111111111111111111111111111111"

// MockOrchestrator implements driving.Orchestrator for testing.
type MockOrchestrator struct {
	SelectFileFunc func(ctx context.Context, name string, data []byte) (*domain.FileSelection, error)
	UploadFunc     func(ctx context.Context, notify domain.Observer) (*domain.UploadSession, error)
	StateValue     domain.OrchestratorState
	SelectionValue *domain.FileSelection
}

func (m *MockOrchestrator) SelectFile(ctx context.Context, name string, data []byte) (*domain.FileSelection, error) {
	if m.SelectFileFunc != nil {
		return m.SelectFileFunc(ctx, name, data)
	}
	return &domain.FileSelection{Name: name, Size: len(data)}, nil
}

func (m *MockOrchestrator) Upload(ctx context.Context, notify domain.Observer) (*domain.UploadSession, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, notify)
	}
	return nil, nil
}

func (m *MockOrchestrator) Delete(ctx context.Context, notify domain.Observer) (*domain.UploadSession, error) {
	return nil, nil
}

func (m *MockOrchestrator) Submit(
	ctx context.Context, call domain.ContractCall, notify domain.Observer,
) (*domain.UploadSession, error) {
	return nil, nil
}

func (m *MockOrchestrator) State() domain.OrchestratorState {
	return m.StateValue
}

func (m *MockOrchestrator) Selection() *domain.FileSelection {
	return m.SelectionValue
}

// MockVerificationService implements driving.VerificationService for testing.
type MockVerificationService struct {
	LookupFunc func(ctx context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error)
}

func (m *MockVerificationService) URL(fp domain.Fingerprint) string {
	return "http://localhost:8080/verify.html?hash=" + fp.Hex()
}

func (m *MockVerificationService) QRCode(fp domain.Fingerprint) ([]byte, error) {
	return nil, nil
}

func (m *MockVerificationService) Lookup(ctx context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, fp)
	}
	return &domain.DocumentRecord{Fingerprint: fp}, nil
}

func (m *MockVerificationService) TxURL(txHash string) string {
	return "https://explorer.example/tx/" + txHash
}

func (m *MockVerificationService) AddressURL(addr domain.Account) string {
	return "https://explorer.example/address/" + addr.String()
}

func (m *MockVerificationService) GatewayURL(cid domain.ContentID) string {
	return "https://gateway.example/ipfs/" + cid.String()
}

// MockSessionService implements driving.SessionService for testing.
type MockSessionService struct {
	AccountValue domain.Account
	StatusFunc   func(ctx context.Context) (*driving.SessionStatus, error)
}

func (m *MockSessionService) Restore(ctx context.Context) (domain.Account, error) {
	return m.AccountValue, nil
}

func (m *MockSessionService) Connect(ctx context.Context, preferred domain.Account) (domain.Account, error) {
	m.AccountValue = testAccount
	return m.AccountValue, nil
}

func (m *MockSessionService) Disconnect(ctx context.Context) error {
	m.AccountValue = ""
	return nil
}

func (m *MockSessionService) Account() domain.Account {
	return m.AccountValue
}

func (m *MockSessionService) Status(ctx context.Context) (*driving.SessionStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return &driving.SessionStatus{Account: m.AccountValue, ChainID: 1337, ChainLabel: "Ganache Test Network"}, nil
}

func (m *MockSessionService) Watch(ctx context.Context, onChange func(domain.Account)) error {
	return nil
}

func TestNewPorts(t *testing.T) {
	orch := &MockOrchestrator{}
	verification := &MockVerificationService{}

	ports := NewPorts(orch, verification)

	require.NotNil(t, ports)
	assert.Equal(t, orch, ports.Orchestrator)
	assert.Equal(t, verification, ports.Verification)
	assert.Nil(t, ports.Session)
	assert.Nil(t, ports.History)
	assert.Nil(t, ports.Settings)
}

func TestPorts_Validate_Success(t *testing.T) {
	ports := NewPorts(&MockOrchestrator{}, &MockVerificationService{})

	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingOrchestrator(t *testing.T) {
	ports := &Ports{Verification: &MockVerificationService{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingOrchestrator)
}

func TestPorts_Validate_MissingVerification(t *testing.T) {
	ports := &Ports{Orchestrator: &MockOrchestrator{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingVerificationService)
}

func TestPorts_Validate_Empty(t *testing.T) {
	ports := &Ports{}

	assert.ErrorIs(t, ports.Validate(), ErrMissingOrchestrator)
}
