package driven

import "github.com/custodia-labs/ansera-cli/internal/core/domain"

// ConfigStore persists application settings.
type ConfigStore interface {
	// Load reads the persisted settings, or returns the defaults when
	// no config file exists yet.
	Load() (domain.Settings, error)

	// Save writes the settings.
	Save(settings domain.Settings) error

	// Path returns the location of the backing file, for display.
	Path() string
}
