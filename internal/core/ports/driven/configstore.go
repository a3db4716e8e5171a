package driven

import "github.com/custodia-labs/filings-cli/internal/core/domain"

// ConfigStore loads and persists the tool configuration.
type ConfigStore interface {
	// Load returns the stored configuration merged over defaults.
	Load() (domain.Config, error)

	// Save persists the configuration.
	Save(cfg domain.Config) error

	// Path returns the backing file path, for display.
	Path() string
}
