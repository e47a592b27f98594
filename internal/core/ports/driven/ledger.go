package driven

import (
	"context"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// Ledger is the document registry contract at a fixed address.
type Ledger interface {
	// Submit sends a contract write from the given account and returns its
	// lifecycle as an ordered event stream: TxEventHash first, then
	// TxEventReceipt and TxEventConfirmation, or a single TxEventError at
	// any point. The channel is closed after the last event.
	Submit(ctx context.Context, from domain.Account, call domain.ContractCall) <-chan domain.TxEvent

	// FindDocHash looks up the record for a fingerprint.
	// A fingerprint with no record returns a record whose Exists is false.
	FindDocHash(ctx context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error)

	// ExporterInfo returns the directory text for an address.
	ExporterInfo(ctx context.Context, addr domain.Account) (string, error)

	// CountExporters returns the number of registered exporters.
	CountExporters(ctx context.Context) (uint16, error)

	// CountHashes returns the number of recorded fingerprints.
	CountHashes(ctx context.Context) (uint16, error)

	// Owner returns the contract owner.
	Owner(ctx context.Context) (domain.Account, error)

	// HashAdded streams HashAdded events whose indexed exporter equals the
	// given account. Both channels close when the query ends. At most one
	// error is sent; records delivered before it remain valid.
	HashAdded(ctx context.Context, exporter domain.Account, r domain.BlockRange) (<-chan domain.LedgerRecord, <-chan error)

	// LatestBlock returns the current block number.
	LatestBlock(ctx context.Context) (uint64, error)
}
