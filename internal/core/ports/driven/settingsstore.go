package driven

import "github.com/custodia-labs/courseqa/internal/core/domain"

// SettingsStore persists application settings.
// Implementations handle the file format (TOML) and fill defaults for
// missing fields.
type SettingsStore interface {
	// Load reads settings from storage. A missing file yields the
	// defaults, not an error.
	Load() (domain.AppSettings, error)

	// Save persists the settings to storage.
	Save(settings domain.AppSettings) error

	// Path returns the settings file path.
	Path() string
}
