package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPinningProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider PinningProvider
		expected bool
	}{
		{"pinata is valid", PinningPinata, true},
		{"kubo is valid", PinningKubo, true},
		{"empty is invalid", PinningProvider(""), false},
		{"unknown is invalid", PinningProvider("filebin"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestPinningProvider_Description(t *testing.T) {
	assert.Equal(t, "Pinata (bearer JWT)", PinningPinata.Description())
	assert.Equal(t, "IPFS HTTP API (Kubo/Infura)", PinningKubo.Description())
	assert.Equal(t, "Unknown", PinningProvider("x").Description())
}

func TestPinningSettings_HasCredential(t *testing.T) {
	assert.False(t, PinningSettings{Provider: PinningPinata}.HasCredential())
	assert.True(t, PinningSettings{Provider: PinningPinata, JWT: "token"}.HasCredential())
	assert.True(t, PinningSettings{Provider: PinningKubo}.HasCredential())
	assert.False(t, PinningSettings{Provider: "other"}.HasCredential())
}

func TestFingerprintMode_IsValid(t *testing.T) {
	assert.True(t, FingerprintText.IsValid())
	assert.True(t, FingerprintRaw.IsValid())
	assert.False(t, FingerprintMode("utf16").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "http://127.0.0.1:8545", s.Network.RPCURL)
	assert.Equal(t, "0x9DD2E2cFDFf249317Ef0F3c770E679FDCEee6FA0", s.Network.ContractAddress)
	assert.Equal(t, uint64(1000000), s.Network.GasLimit)
	assert.Equal(t, PinningPinata, s.Pinning.Provider)
	assert.Empty(t, s.Pinning.JWT, "no credential may ship in defaults")
	assert.Equal(t, 60*time.Second, s.Pinning.Timeout)
	assert.Equal(t, FingerprintText, s.Fingerprint)
	assert.Equal(t, DefaultVerifyHost, s.Verify.Host)
}
