package services

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyRPCURL          = "network.rpc_url"
	keyContractAddress = "network.contract_address"
	keyExplorerURL     = "network.explorer_url"
	keyGasLimit        = "network.gas_limit"
	keyPinProvider     = "pinning.provider"
	keyPinEndpoint     = "pinning.endpoint"
	keyPinJWT          = "pinning.jwt"
	keyPinProjectID    = "pinning.project_id"
	keyPinSecret       = "pinning.project_secret"
	keyPinGateway      = "pinning.gateway_url"
	keyPinTimeout      = "pinning.timeout_seconds"
	keyPinRate         = "pinning.requests_per_second"
	keyVerifyHost      = "verify.host"
	keyFingerprintMode = "fingerprint.mode"
	keyKeystoreDir     = "wallet.keystore_dir"
	keyCacheTTL        = "web.cache_ttl_seconds"
)

// Environment variables that override stored secrets.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvPinningJWT    = "DOCPROOF_PINNING_JWT"
	EnvPinningSecret = "DOCPROOF_PINNING_SECRET"
)

var settingKeys = []string{
	keyRPCURL,
	keyContractAddress,
	keyExplorerURL,
	keyGasLimit,
	keyPinProvider,
	keyPinEndpoint,
	keyPinJWT,
	keyPinProjectID,
	keyPinSecret,
	keyPinGateway,
	keyPinTimeout,
	keyPinRate,
	keyVerifyHost,
	keyFingerprintMode,
	keyKeystoreDir,
	keyCacheTTL,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Pinning.Provider)
	endpoint := s.configStore.GetString(keyPinEndpoint)
	if endpoint == "" {
		endpoint = domain.DefaultPinataEndpoint
		if provider == domain.PinningKubo {
			endpoint = domain.DefaultKuboEndpoint
		}
	}

	settings := &domain.AppSettings{
		Network: domain.NetworkSettings{
			RPCURL:          s.getString(keyRPCURL, defaults.Network.RPCURL),
			ContractAddress: s.getString(keyContractAddress, defaults.Network.ContractAddress),
			ExplorerURL:     s.getString(keyExplorerURL, defaults.Network.ExplorerURL),
			GasLimit:        uint64(s.getInt(keyGasLimit, int(defaults.Network.GasLimit))),
		},
		Pinning: domain.PinningSettings{
			Provider:          provider,
			Endpoint:          endpoint,
			JWT:               s.getSecret(keyPinJWT, EnvPinningJWT),
			ProjectID:         s.configStore.GetString(keyPinProjectID),
			ProjectSecret:     s.getSecret(keyPinSecret, EnvPinningSecret),
			GatewayURL:        s.getString(keyPinGateway, defaults.Pinning.GatewayURL),
			Timeout:           s.getSeconds(keyPinTimeout, defaults.Pinning.Timeout),
			RequestsPerSecond: s.getFloat(keyPinRate, defaults.Pinning.RequestsPerSecond),
		},
		Verify: domain.VerifySettings{
			Host:     s.getString(keyVerifyHost, defaults.Verify.Host),
			CacheTTL: s.getSeconds(keyCacheTTL, defaults.Verify.CacheTTL),
		},
		Fingerprint: s.getFingerprintMode(defaults.Fingerprint),
		KeystoreDir: s.configStore.GetString(keyKeystoreDir),
	}

	return settings, nil
}

// Set validates and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case keyRPCURL, keyExplorerURL, keyPinEndpoint, keyPinGateway, keyVerifyHost:
		if err := validateURL(value); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		stored = strings.TrimRight(value, "/")
	case keyContractAddress:
		addr, err := domain.ParseAccount(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %q is not an address", key, value)
		}
		stored = addr.String()
	case keyGasLimit, keyPinTimeout, keyCacheTTL:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s: must be a positive integer", key)
		}
		stored = n
	case keyPinRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid %s: must be a positive number", key)
		}
		stored = f
	case keyPinProvider:
		if !domain.PinningProvider(value).IsValid() {
			return fmt.Errorf("invalid pinning provider: %s", value)
		}
		stored = value
	case keyFingerprintMode:
		if !domain.FingerprintMode(value).IsValid() {
			return fmt.Errorf("invalid fingerprint mode: %s", value)
		}
		stored = value
	case keyPinJWT, keyPinProjectID, keyPinSecret, keyKeystoreDir:
		stored = value
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes a stored setting so its default applies.
func (s *SettingsService) Unset(key string) error {
	if !isSettingKey(key) {
		return fmt.Errorf("unknown setting: %s", key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Keys lists every settable key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// Path returns the configuration file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// SettingValue renders the effective value of key from settings.
// Unknown keys render empty.
func SettingValue(settings *domain.AppSettings, key string) string {
	if settings == nil {
		return ""
	}
	switch key {
	case keyRPCURL:
		return settings.Network.RPCURL
	case keyContractAddress:
		return settings.Network.ContractAddress
	case keyExplorerURL:
		return settings.Network.ExplorerURL
	case keyGasLimit:
		return strconv.FormatUint(settings.Network.GasLimit, 10)
	case keyPinProvider:
		return settings.Pinning.Provider.String()
	case keyPinEndpoint:
		return settings.Pinning.Endpoint
	case keyPinJWT:
		return settings.Pinning.JWT
	case keyPinProjectID:
		return settings.Pinning.ProjectID
	case keyPinSecret:
		return settings.Pinning.ProjectSecret
	case keyPinGateway:
		return settings.Pinning.GatewayURL
	case keyPinTimeout:
		return strconv.Itoa(int(settings.Pinning.Timeout / time.Second))
	case keyPinRate:
		return strconv.FormatFloat(settings.Pinning.RequestsPerSecond, 'g', -1, 64)
	case keyVerifyHost:
		return settings.Verify.Host
	case keyFingerprintMode:
		return string(settings.Fingerprint)
	case keyKeystoreDir:
		return settings.KeystoreDir
	case keyCacheTTL:
		return strconv.Itoa(int(settings.Verify.CacheTTL / time.Second))
	default:
		return ""
	}
}

// IsSecretKey reports whether a key holds a credential that should be masked.
func IsSecretKey(key string) bool {
	return key == keyPinJWT || key == keyPinSecret
}

func isSettingKey(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must start with http:// or https://", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getSecret prefers the environment over the config file.
func (s *SettingsService) getSecret(key, env string) string {
	if val := s.getenv(env); val != "" {
		return val
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getProvider(defaultVal domain.PinningProvider) domain.PinningProvider {
	provider := domain.PinningProvider(s.configStore.GetString(keyPinProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getFingerprintMode(defaultVal domain.FingerprintMode) domain.FingerprintMode {
	mode := domain.FingerprintMode(s.configStore.GetString(keyFingerprintMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
