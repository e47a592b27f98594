package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// Ensure VerificationService implements the interface.
var _ driving.VerificationService = (*VerificationService)(nil)

// QRSize is the edge length of rendered verification codes in pixels.
const QRSize = 256

// VerificationService builds links and QR codes for recorded documents.
type VerificationService struct {
	ledger   driven.Ledger
	qr       driven.QRRenderer
	host     string
	explorer string
	gateway  string
}

// NewVerificationService creates a verification service.
// The QR renderer may be nil.
func NewVerificationService(
	ledger driven.Ledger,
	qr driven.QRRenderer,
	settings *domain.AppSettings,
) *VerificationService {
	return &VerificationService{
		ledger:   ledger,
		qr:       qr,
		host:     strings.TrimRight(settings.Verify.Host, "/"),
		explorer: strings.TrimRight(settings.Network.ExplorerURL, "/"),
		gateway:  strings.TrimRight(settings.Pinning.GatewayURL, "/"),
	}
}

// URL returns the verification page address for a fingerprint.
func (v *VerificationService) URL(fp domain.Fingerprint) string {
	return v.host + "/verify.html?hash=" + fp.Hex()
}

// QRCode renders the verification URL as a PNG.
func (v *VerificationService) QRCode(fp domain.Fingerprint) ([]byte, error) {
	if v.qr == nil {
		return nil, errors.New("QR renderer not configured")
	}
	png, err := v.qr.PNG(v.URL(fp), QRSize)
	if err != nil {
		return nil, fmt.Errorf("render QR code: %w", err)
	}
	return png, nil
}

// Lookup asks the ledger for the fingerprint's record.
func (v *VerificationService) Lookup(ctx context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error) {
	if fp.IsZero() {
		return nil, domain.ErrNoFingerprint
	}
	rec, err := v.ledger.FindDocHash(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return rec, nil
}

// TxURL links a transaction on the block explorer.
func (v *VerificationService) TxURL(txHash string) string {
	return v.explorer + "/tx/" + txHash
}

// AddressURL links an address on the block explorer.
func (v *VerificationService) AddressURL(addr domain.Account) string {
	return v.explorer + "/address/" + addr.String()
}

// GatewayURL links pinned content on the IPFS gateway.
func (v *VerificationService) GatewayURL(cid domain.ContentID) string {
	return v.gateway + "/ipfs/" + cid.String()
}
