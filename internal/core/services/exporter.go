package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// Ensure ExporterService implements the interface.
var _ driving.ExporterService = (*ExporterService)(nil)

// ExporterService administers the exporter directory.
// Writes go through the orchestrator and share its single-flight guard.
type ExporterService struct {
	state  *SessionState
	orch   driving.Orchestrator
	ledger driven.Ledger
}

// NewExporterService creates an exporter service.
func NewExporterService(state *SessionState, orch driving.Orchestrator, ledger driven.Ledger) *ExporterService {
	return &ExporterService{
		state:  state,
		orch:   orch,
		ledger: ledger,
	}
}

// Add registers an exporter.
func (e *ExporterService) Add(
	ctx context.Context,
	addr, info string,
	notify domain.Observer,
) (*domain.UploadSession, error) {
	account, info, err := parseExporterForm(domain.MethodAddExporter, addr, info, "add")
	if err != nil {
		return nil, err
	}
	return e.orch.Submit(ctx, domain.ContractCall{
		Method:  domain.MethodAddExporter,
		Address: account,
		Info:    info,
	}, notify)
}

// Alter replaces an exporter's info.
func (e *ExporterService) Alter(
	ctx context.Context,
	addr, info string,
	notify domain.Observer,
) (*domain.UploadSession, error) {
	account, info, err := parseExporterForm(domain.MethodAlterExporter, addr, info, "update")
	if err != nil {
		return nil, err
	}
	return e.orch.Submit(ctx, domain.ContractCall{
		Method:  domain.MethodAlterExporter,
		Address: account,
		Info:    info,
	}, notify)
}

// Delete removes an exporter.
func (e *ExporterService) Delete(ctx context.Context, addr string, notify domain.Observer) (*domain.UploadSession, error) {
	account, err := parseAddressField(domain.MethodDeleteExporter, addr, "you need to provide address to delete")
	if err != nil {
		return nil, err
	}
	return e.orch.Submit(ctx, domain.ContractCall{
		Method:  domain.MethodDeleteExporter,
		Address: account,
	}, notify)
}

// ChangeOwner transfers contract ownership.
func (e *ExporterService) ChangeOwner(
	ctx context.Context,
	addr string,
	notify domain.Observer,
) (*domain.UploadSession, error) {
	account, err := parseAddressField(domain.MethodChangeOwner, addr, "you need to provide the new owner address")
	if err != nil {
		return nil, err
	}
	return e.orch.Submit(ctx, domain.ContractCall{
		Method:  domain.MethodChangeOwner,
		Address: account,
	}, notify)
}

// Info returns the directory entry for addr, or for the connected account
// when addr is empty.
func (e *ExporterService) Info(ctx context.Context, addr string) (*domain.Exporter, error) {
	var account domain.Account
	if strings.TrimSpace(addr) == "" {
		account = e.state.Account()
		if account.IsZero() {
			return nil, domain.Precondition(domain.ErrNotConnected)
		}
	} else {
		parsed, err := domain.ParseAccount(addr)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an address", domain.ErrInvalidInput, addr)
		}
		account = parsed
	}

	info, err := e.ledger.ExporterInfo(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("get exporter info: %w", err)
	}
	return &domain.Exporter{Address: account, Info: info}, nil
}

// Counters returns the number of exporters and recorded hashes.
func (e *ExporterService) Counters(ctx context.Context) (*domain.Counters, error) {
	exporters, err := e.ledger.CountExporters(ctx)
	if err != nil {
		return nil, fmt.Errorf("count exporters: %w", err)
	}
	hashes, err := e.ledger.CountHashes(ctx)
	if err != nil {
		return nil, fmt.Errorf("count hashes: %w", err)
	}
	return &domain.Counters{Exporters: exporters, Hashes: hashes}, nil
}

// Owner returns the contract owner.
func (e *ExporterService) Owner(ctx context.Context) (domain.Account, error) {
	owner, err := e.ledger.Owner(ctx)
	if err != nil {
		return "", fmt.Errorf("get owner: %w", err)
	}
	return owner, nil
}

func parseExporterForm(op domain.ContractMethod, addr, info, verb string) (domain.Account, string, error) {
	addr = strings.TrimSpace(addr)
	info = strings.TrimSpace(info)
	if addr == "" || info == "" {
		return "", "", domain.NewValidationError(op, "you need to provide address & information to %s", verb)
	}
	account, err := domain.ParseAccount(addr)
	if err != nil {
		return "", "", domain.NewValidationError(op, "%q is not a valid address", addr)
	}
	return account, info, nil
}

func parseAddressField(op domain.ContractMethod, addr, missing string) (domain.Account, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", domain.NewValidationError(op, "%s", missing)
	}
	account, err := domain.ParseAccount(addr)
	if err != nil {
		return "", domain.NewValidationError(op, "%q is not a valid address", addr)
	}
	return account, nil
}
