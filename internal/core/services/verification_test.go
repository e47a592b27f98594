package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

func newVerificationService(ledger *fakeLedger) *VerificationService {
	settings := domain.DefaultAppSettings()
	settings.Verify.Host = "https://verify.example.com/"
	settings.Network.ExplorerURL = "https://polygonscan.com/"
	settings.Pinning.GatewayURL = "https://gateway.pinata.cloud"
	return NewVerificationService(ledger, fakeQR{}, &settings)
}

func TestVerificationService_Links(t *testing.T) {
	svc := newVerificationService(newFakeLedger())
	fp, err := domain.ParseFingerprint(helloHash)
	require.NoError(t, err)

	assert.Equal(t, "https://verify.example.com/verify.html?hash="+helloHash, svc.URL(fp))
	assert.Equal(t, "https://polygonscan.com/tx/0xabc", svc.TxURL("0xabc"))
	assert.Equal(t, "https://polygonscan.com/address/"+testAccount.String(), svc.AddressURL(testAccount))
	assert.Equal(t, "https://gateway.pinata.cloud/ipfs/QmX", svc.GatewayURL("QmX"))
}

func TestVerificationService_QRCode(t *testing.T) {
	svc := newVerificationService(newFakeLedger())
	fp, err := domain.ParseFingerprint(helloHash)
	require.NoError(t, err)

	png, err := svc.QRCode(fp)
	require.NoError(t, err)
	assert.Equal(t, "png:"+svc.URL(fp), string(png))

	settings := domain.DefaultAppSettings()
	_, err = NewVerificationService(newFakeLedger(), nil, &settings).QRCode(fp)
	assert.Error(t, err)
}

func TestVerificationService_Lookup(t *testing.T) {
	ledger := newFakeLedger()
	svc := newVerificationService(ledger)
	fp, err := domain.ParseFingerprint(helloHash)
	require.NoError(t, err)

	rec, err := svc.Lookup(context.Background(), fp)
	require.NoError(t, err)
	assert.False(t, rec.Exists())

	ledger.record = &domain.DocumentRecord{Fingerprint: fp, BlockNumber: 9, Timestamp: 1700000000, ContentID: "QmX"}
	rec, err = svc.Lookup(context.Background(), fp)
	require.NoError(t, err)
	assert.True(t, rec.Exists())
	assert.Equal(t, uint64(9), rec.BlockNumber)

	_, err = svc.Lookup(context.Background(), domain.Fingerprint{})
	assert.ErrorIs(t, err, domain.ErrNoFingerprint)

	ledger.readErr = errors.New("rpc down")
	_, err = svc.Lookup(context.Background(), fp)
	assert.ErrorContains(t, err, "rpc down")
}
