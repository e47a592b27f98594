package domain

import "time"

const unknownDescription = "Unknown"

// PinningProvider selects the content upload backend.
type PinningProvider string

// Available pinning providers.
const (
	// PinningPinata uploads through the Pinata pinning API.
	PinningPinata PinningProvider = "pinata"

	// PinningKubo uploads through an IPFS HTTP API (Kubo or Infura).
	PinningKubo PinningProvider = "kubo"
)

// IsValid returns true if the provider is recognised.
func (p PinningProvider) IsValid() bool {
	return p == PinningPinata || p == PinningKubo
}

// String returns the string representation.
func (p PinningProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p PinningProvider) Description() string {
	switch p {
	case PinningPinata:
		return "Pinata (bearer JWT)"
	case PinningKubo:
		return "IPFS HTTP API (Kubo/Infura)"
	default:
		return unknownDescription
	}
}

// FingerprintMode selects how document bytes are read before hashing.
type FingerprintMode string

// Available fingerprint modes.
const (
	// FingerprintText decodes the document as UTF-8 text first.
	// Binary documents are hashed lossily, matching records made by the
	// browser client.
	FingerprintText FingerprintMode = "text"

	// FingerprintRaw hashes the exact bytes.
	FingerprintRaw FingerprintMode = "raw"
)

// IsValid returns true if the mode is recognised.
func (m FingerprintMode) IsValid() bool {
	return m == FingerprintText || m == FingerprintRaw
}

// NetworkSettings configures the ledger endpoint.
type NetworkSettings struct {
	RPCURL          string
	ContractAddress string
	ExplorerURL     string
	GasLimit        uint64
}

// PinningSettings configures the content upload client.
type PinningSettings struct {
	Provider          PinningProvider
	Endpoint          string
	JWT               string
	ProjectID         string
	ProjectSecret     string
	GatewayURL        string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// HasCredential reports whether a credential is configured for the provider.
func (p PinningSettings) HasCredential() bool {
	switch p.Provider {
	case PinningPinata:
		return p.JWT != ""
	case PinningKubo:
		// Local Kubo nodes accept unauthenticated uploads.
		return true
	default:
		return false
	}
}

// VerifySettings configures verification artifacts.
type VerifySettings struct {
	Host     string
	CacheTTL time.Duration
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Network     NetworkSettings
	Pinning     PinningSettings
	Verify      VerifySettings
	Fingerprint FingerprintMode
	KeystoreDir string
}

// Default endpoints and identifiers.
const (
	DefaultRPCURL          = "http://127.0.0.1:8545"
	DefaultContractAddress = "0x9DD2E2cFDFf249317Ef0F3c770E679FDCEee6FA0"
	DefaultExplorerURL     = "https://polygonscan.com"
	DefaultPinataEndpoint  = "https://api.pinata.cloud"
	DefaultKuboEndpoint    = "http://127.0.0.1:5001"
	DefaultGatewayURL      = "https://gateway.pinata.cloud"
	DefaultVerifyHost      = "http://localhost:8080"
)

// DefaultAppSettings returns settings for a local development chain.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Network: NetworkSettings{
			RPCURL:          DefaultRPCURL,
			ContractAddress: DefaultContractAddress,
			ExplorerURL:     DefaultExplorerURL,
			GasLimit:        DefaultDocHashGas,
		},
		Pinning: PinningSettings{
			Provider:          PinningPinata,
			Endpoint:          DefaultPinataEndpoint,
			GatewayURL:        DefaultGatewayURL,
			Timeout:           60 * time.Second,
			RequestsPerSecond: 2,
		},
		Verify: VerifySettings{
			Host:     DefaultVerifyHost,
			CacheTTL: 30 * time.Second,
		},
		Fingerprint: FingerprintText,
	}
}
