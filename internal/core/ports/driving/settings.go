package driving

import "github.com/custodia-labs/yuque-export/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults filled in.
	Get() (*domain.Settings, error)

	// SetCookie stores the raw session Cookie header.
	SetCookie(cookie string) error

	// Set stores a single configuration key after validating its value.
	Set(key, value string) error

	// Keys returns every supported configuration key.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
