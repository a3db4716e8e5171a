package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileConfig is the TOML shape of the configuration file. Every field
// is optional; zero values fall back to the defaults on load.
type fileConfig struct {
	APIKey      string `toml:"api_key,omitempty"`
	DataDir     string `toml:"data_dir,omitempty"`
	DownloadDir string `toml:"download_dir,omitempty"`
	UserAgent   string `toml:"user_agent,omitempty"`

	HTTPTimeoutSeconds   int `toml:"http_timeout_seconds,omitempty"`
	APIDelaySeconds      int `toml:"api_delay_seconds,omitempty"`
	DownloadDelaySeconds int `toml:"download_delay_seconds,omitempty"`

	MaxConcurrentDownloads int `toml:"max_concurrent_downloads,omitempty"`
	CacheMaxEntries        int `toml:"cache_max_entries,omitempty"`
	CacheTTLMinutes        int `toml:"cache_ttl_minutes,omitempty"`
	PreviewLength          int `toml:"preview_length,omitempty"`
	MaxSections            int `toml:"max_sections,omitempty"`
}

// ConfigStore is a file-based implementation of driven.ConfigStore
// using TOML. Configuration lives in a single file within the filings
// config directory.
type ConfigStore struct {
	filePath string
}

// NewConfigStore creates a TOML-based config store.
// If configDir is empty, defaults to ~/.filings/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".filings")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads the configuration file and merges it over the defaults.
// A missing file yields the defaults unchanged; the API key may still
// arrive through the EDINET_API_KEY environment variable, which takes
// precedence over the file.
func (s *ConfigStore) Load() (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// No config file yet, start from defaults.
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", s.filePath, err)
	default:
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", s.filePath, err)
		}
		applyFile(&cfg, fc)
	}

	if key := os.Getenv("EDINET_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	return cfg, nil
}

// Save persists the configuration with restricted permissions; the
// file holds the API key.
func (s *ConfigStore) Save(cfg domain.Config) error {
	fc := fileConfig{
		APIKey:                 cfg.APIKey,
		DataDir:                cfg.DataDir,
		DownloadDir:            cfg.DownloadDir,
		UserAgent:              cfg.UserAgent,
		HTTPTimeoutSeconds:     int(cfg.HTTPTimeout / time.Second),
		APIDelaySeconds:        int(cfg.APIDelay / time.Second),
		DownloadDelaySeconds:   int(cfg.DownloadDelay / time.Second),
		MaxConcurrentDownloads: cfg.MaxConcurrentDownloads,
		CacheMaxEntries:        cfg.CacheMaxEntries,
		CacheTTLMinutes:        int(cfg.CacheTTL / time.Minute),
		PreviewLength:          cfg.PreviewLength,
		MaxSections:            cfg.MaxSections,
	}

	data, err := toml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// applyFile copies the non-zero file values over the defaults.
func applyFile(cfg *domain.Config, fc fileConfig) {
	if fc.APIKey != "" {
		cfg.APIKey = fc.APIKey
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.DownloadDir != "" {
		cfg.DownloadDir = fc.DownloadDir
	}
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if fc.HTTPTimeoutSeconds > 0 {
		cfg.HTTPTimeout = time.Duration(fc.HTTPTimeoutSeconds) * time.Second
	}
	if fc.APIDelaySeconds > 0 {
		cfg.APIDelay = time.Duration(fc.APIDelaySeconds) * time.Second
	}
	if fc.DownloadDelaySeconds > 0 {
		cfg.DownloadDelay = time.Duration(fc.DownloadDelaySeconds) * time.Second
	}
	if fc.MaxConcurrentDownloads > 0 {
		cfg.MaxConcurrentDownloads = fc.MaxConcurrentDownloads
	}
	if fc.CacheMaxEntries > 0 {
		cfg.CacheMaxEntries = fc.CacheMaxEntries
	}
	if fc.CacheTTLMinutes > 0 {
		cfg.CacheTTL = time.Duration(fc.CacheTTLMinutes) * time.Minute
	}
	if fc.PreviewLength > 0 {
		cfg.PreviewLength = fc.PreviewLength
	}
	if fc.MaxSections > 0 {
		cfg.MaxSections = fc.MaxSections
	}
}
