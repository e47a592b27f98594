package driving

import "github.com/custodia-labs/docproof/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults applied
	// and environment overrides for secrets.
	Get() (*domain.AppSettings, error)

	// Set updates a single setting by dotted key after validating it.
	Set(key, value string) error

	// Unset removes a stored setting so its default applies again.
	Unset(key string) error

	// Keys lists every settable key in display order.
	Keys() []string

	// Path returns the configuration file location.
	Path() string
}
