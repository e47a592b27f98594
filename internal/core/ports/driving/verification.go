package driving

import (
	"context"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// VerificationService builds verification artifacts and links.
type VerificationService interface {
	// URL returns the verification page address for a fingerprint.
	URL(fp domain.Fingerprint) string

	// QRCode renders URL(fp) as a PNG.
	QRCode(fp domain.Fingerprint) ([]byte, error)

	// Lookup asks the ledger for the fingerprint's record.
	Lookup(ctx context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error)

	// TxURL links a transaction on the block explorer.
	TxURL(txHash string) string

	// AddressURL links an address on the block explorer.
	AddressURL(addr domain.Account) string

	// GatewayURL links pinned content on the IPFS gateway.
	GatewayURL(cid domain.ContentID) string
}
