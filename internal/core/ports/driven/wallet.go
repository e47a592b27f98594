package driven

import (
	"context"
	"math/big"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// Wallet provides account selection and network identity.
// Signing is the ledger adapter's concern.
type Wallet interface {
	// Available reports whether a wallet was detected at all.
	// When false every write operation is refused for the session.
	Available() bool

	// RequestAccounts returns the accounts the user may connect.
	// Returns domain.ErrNoWallet if none exist.
	RequestAccounts(ctx context.Context) ([]domain.Account, error)

	// AccountsChanged streams the full account list each time it changes.
	// The channel closes when ctx is cancelled.
	AccountsChanged(ctx context.Context) <-chan []domain.Account

	// ChainID returns the chain the wallet is connected to.
	ChainID(ctx context.Context) (uint64, error)

	// Balance returns the account balance in wei.
	Balance(ctx context.Context, account domain.Account) (*big.Int, error)
}
