package driving

import (
	"context"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// SessionService manages the connected account.
type SessionService interface {
	// Restore loads the persisted account, if the wallet still holds it.
	Restore(ctx context.Context) (domain.Account, error)

	// Connect selects an account from the wallet and persists it.
	// An empty preferred account selects the first one.
	// Returns domain.ErrNoWallet when no wallet is present.
	Connect(ctx context.Context, preferred domain.Account) (domain.Account, error)

	// Disconnect clears the account and the selected document.
	Disconnect(ctx context.Context) error

	// Account returns the connected account, or the zero Account.
	Account() domain.Account

	// Status reports chain identity and the account balance.
	Status(ctx context.Context) (*SessionStatus, error)

	// Watch follows wallet account changes until ctx is done.
	// Each change re-runs account selection and is passed to onChange.
	Watch(ctx context.Context, onChange func(domain.Account)) error
}

// SessionStatus describes the connected session for display.
type SessionStatus struct {
	Account       domain.Account
	WalletMissing bool
	ChainID       uint64
	ChainLabel    string
	// Balance is in ether, truncated to six characters.
	Balance      string
	ExporterInfo string
}
