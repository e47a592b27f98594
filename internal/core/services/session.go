package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
	"github.com/custodia-labs/docproof/internal/logger"
)

// SessionState is the single mutable state of a client session: the
// connected account, the selected document and its fingerprint, and the
// content identifier of the last upload. It is shared by pointer between
// the session service, the orchestrator and renderers.
type SessionState struct {
	mu            sync.RWMutex
	account       domain.Account
	chainID       uint64
	walletMissing bool
	selection     *domain.FileSelection
	document      []byte
	contentID     domain.ContentID
}

// NewSessionState creates an empty, disconnected session.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Account returns the connected account.
func (s *SessionState) Account() domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// WalletMissing reports whether wallet detection failed this session.
func (s *SessionState) WalletMissing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.walletMissing
}

// Selection returns a copy of the selected document's fingerprint data.
func (s *SessionState) Selection() *domain.FileSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection == nil {
		return nil
	}
	sel := *s.selection
	return &sel
}

// ContentID returns the identifier of the last successful upload.
func (s *SessionState) ContentID() domain.ContentID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contentID
}

// SessionSnapshot is a consistent copy of SessionState for renderers.
type SessionSnapshot struct {
	Account       domain.Account
	ChainID       uint64
	WalletMissing bool
	Selection     *domain.FileSelection
	ContentID     domain.ContentID
}

// Snapshot copies the whole state under one lock.
func (s *SessionState) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := SessionSnapshot{
		Account:       s.account,
		ChainID:       s.chainID,
		WalletMissing: s.walletMissing,
		ContentID:     s.contentID,
	}
	if s.selection != nil {
		sel := *s.selection
		snap.Selection = &sel
	}
	return snap
}

func (s *SessionState) setChainID(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chainID = id
}

func (s *SessionState) setAccount(a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = a
}

func (s *SessionState) setWalletMissing(missing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.walletMissing = missing
}

func (s *SessionState) setDocument(sel *domain.FileSelection, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel
	s.document = data
	s.contentID = ""
}

func (s *SessionState) setContentID(cid domain.ContentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contentID = cid
}

// selected returns the held document and its selection.
func (s *SessionState) selected() (*domain.FileSelection, []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection == nil {
		return nil, nil
	}
	sel := *s.selection
	return &sel, s.document
}

func (s *SessionState) clearDocument() {
	s.setDocument(nil, nil)
}

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService connects and disconnects wallet accounts.
type SessionService struct {
	state  *SessionState
	wallet driven.Wallet
	store  driven.SessionStore
	ledger driven.Ledger
}

// NewSessionService creates a session service.
// The ledger is optional and only used to show exporter info in Status.
func NewSessionService(
	state *SessionState,
	wallet driven.Wallet,
	store driven.SessionStore,
	ledger driven.Ledger,
) *SessionService {
	return &SessionService{
		state:  state,
		wallet: wallet,
		store:  store,
		ledger: ledger,
	}
}

// Account returns the connected account.
func (s *SessionService) Account() domain.Account {
	return s.state.Account()
}

// Restore loads the persisted account.
// An account the wallet no longer holds is forgotten.
func (s *SessionService) Restore(ctx context.Context) (domain.Account, error) {
	value, err := s.store.Get(ctx, driven.SessionKeyAccount)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	account, err := domain.ParseAccount(value)
	if err != nil {
		logger.Warn("Discarding malformed persisted account %q", value)
		return "", s.store.Delete(ctx, driven.SessionKeyAccount)
	}

	if s.wallet == nil || !s.wallet.Available() {
		s.state.setWalletMissing(true)
		return "", domain.ErrNoWallet
	}

	accounts, err := s.wallet.RequestAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("request accounts: %w", err)
	}
	if !containsAccount(accounts, account) {
		logger.Info("Persisted account %s no longer in wallet", account.Short())
		return "", s.store.Delete(ctx, driven.SessionKeyAccount)
	}

	s.state.setAccount(account)
	logger.Debug("Restored session for %s", account)
	return account, nil
}

// Connect selects an account and persists it.
func (s *SessionService) Connect(ctx context.Context, preferred domain.Account) (domain.Account, error) {
	if s.wallet == nil || !s.wallet.Available() {
		s.state.setWalletMissing(true)
		return "", domain.ErrNoWallet
	}
	s.state.setWalletMissing(false)

	accounts, err := s.wallet.RequestAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		return "", domain.ErrNoWallet
	}

	selected := accounts[0]
	if !preferred.IsZero() {
		if !containsAccount(accounts, preferred) {
			return "", fmt.Errorf("account %s: %w", preferred, domain.ErrNotFound)
		}
		selected = matchAccount(accounts, preferred)
	}

	if err := s.store.Set(ctx, driven.SessionKeyAccount, selected.String()); err != nil {
		return "", fmt.Errorf("persist account: %w", err)
	}
	s.state.setAccount(selected)

	logger.Info("Connected account %s", selected)
	return selected, nil
}

// Disconnect clears the account, the selected document and the persisted key.
func (s *SessionService) Disconnect(ctx context.Context) error {
	s.state.setAccount("")
	s.state.clearDocument()
	if err := s.store.Delete(ctx, driven.SessionKeyAccount); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	logger.Info("Disconnected")
	return nil
}

// Status reports the network and balance of the connected account.
// Balance and exporter lookups degrade to "n/a" and empty rather than fail.
func (s *SessionService) Status(ctx context.Context) (*driving.SessionStatus, error) {
	status := &driving.SessionStatus{
		Account:       s.state.Account(),
		WalletMissing: s.wallet == nil || !s.wallet.Available(),
	}
	if status.WalletMissing {
		s.state.setWalletMissing(true)
		return status, nil
	}

	chainID, err := s.wallet.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	s.state.setChainID(chainID)
	status.ChainID = chainID
	status.ChainLabel = domain.ChainLabel(chainID)

	if status.Account.IsZero() {
		return status, nil
	}

	status.Balance = "n/a"
	if balance, err := s.wallet.Balance(ctx, status.Account); err == nil {
		status.Balance = FormatBalance(balance)
	} else {
		logger.Warn("get balance: %v", err)
	}

	if s.ledger != nil {
		if info, err := s.ledger.ExporterInfo(ctx, status.Account); err == nil {
			status.ExporterInfo = info
		} else {
			logger.Debug("get exporter info: %v", err)
		}
	}

	return status, nil
}

// Watch re-selects the account whenever the wallet's accounts change.
// The current account is kept if still present, otherwise the first one
// is connected, and an empty wallet disconnects.
func (s *SessionService) Watch(ctx context.Context, onChange func(domain.Account)) error {
	if s.wallet == nil || !s.wallet.Available() {
		s.state.setWalletMissing(true)
		return domain.ErrNoWallet
	}

	for accounts := range s.wallet.AccountsChanged(ctx) {
		current := s.state.Account()
		if !current.IsZero() && containsAccount(accounts, current) {
			continue
		}

		var next domain.Account
		if len(accounts) == 0 {
			if err := s.Disconnect(ctx); err != nil {
				logger.Warn("accounts changed: %v", err)
			}
		} else {
			connected, err := s.Connect(ctx, accounts[0])
			if err != nil {
				logger.Warn("accounts changed: %v", err)
				continue
			}
			next = connected
		}

		if onChange != nil {
			onChange(next)
		}
	}

	return ctx.Err()
}

func containsAccount(accounts []domain.Account, target domain.Account) bool {
	for _, a := range accounts {
		if a.Equal(target) {
			return true
		}
	}
	return false
}

// matchAccount returns the wallet's spelling of target.
func matchAccount(accounts []domain.Account, target domain.Account) domain.Account {
	for _, a := range accounts {
		if a.Equal(target) {
			return a
		}
	}
	return target
}

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatEther renders a wei amount in ether without trailing zeros.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)
	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	out := whole.String()
	if frac.Sign() != 0 {
		digits := frac.String()
		digits = strings.Repeat("0", 18-len(digits)) + digits
		out += "." + strings.TrimRight(digits, "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatBalance renders a wei balance in ether cut to six characters.
func FormatBalance(wei *big.Int) string {
	s := FormatEther(wei)
	if len(s) > 6 {
		return s[:6]
	}
	return s
}
