package domain

import "time"

// Config is the value object consumed by the core. It is produced by
// the config adapter (or assembled by the CLI layer) and injected into
// services; the core never reads the environment itself.
type Config struct {
	// APIKey is the EDINET subscription key. Required for any
	// network operation.
	APIKey string

	// DataDir is where the SQLite index lives.
	DataDir string

	// DownloadDir is the root for downloaded filing archives.
	DownloadDir string

	// HTTPTimeout bounds each individual API call.
	HTTPTimeout time.Duration

	// APIDelay is the minimum interval between listing calls.
	APIDelay time.Duration

	// DownloadDelay is the minimum interval between archive downloads.
	DownloadDelay time.Duration

	// UserAgent identifies this client to the remote API.
	UserAgent string

	// MaxConcurrentDownloads bounds simultaneous in-flight downloads.
	MaxConcurrentDownloads int

	// CacheMaxEntries bounds the content cache; oldest-loaded entries
	// are evicted first beyond this.
	CacheMaxEntries int

	// CacheTTL is the maximum age of a cache entry regardless of
	// file-modification checks.
	CacheTTL time.Duration

	// PreviewLength is the maximum byte length of a section preview.
	PreviewLength int

	// MaxSections caps the number of sections extracted per archive.
	MaxSections int
}

// DefaultConfig returns the configuration defaults. The API key has no
// default; it must come from the config file or the CLI layer.
func DefaultConfig() Config {
	return Config{
		DataDir:                "",
		DownloadDir:            "downloads",
		HTTPTimeout:            30 * time.Second,
		APIDelay:               time.Second,
		DownloadDelay:          2 * time.Second,
		UserAgent:              "filings-cli/1.0",
		MaxConcurrentDownloads: 3,
		CacheMaxEntries:        50,
		CacheTTL:               time.Hour,
		PreviewLength:          2000,
		MaxSections:            30,
	}
}
