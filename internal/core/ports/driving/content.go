package driving

import (
	"context"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

// CacheStats summarises the content cache.
type CacheStats struct {
	Entries       int
	ValidEntries  int
	StaleEntries  int
	TotalSections int
}

// ContentService loads extracted section previews for downloaded
// documents, serving them from a bounded, validity-checked cache.
type ContentService interface {
	// Load returns the document's sections, reading the archive when
	// the cache has no valid entry. Fails with domain.ErrNotDownloaded
	// when no archive exists locally.
	Load(ctx context.Context, doc *domain.Document) ([]domain.ContentSection, error)

	// Cached returns the cached sections when present and valid.
	Cached(doc *domain.Document) ([]domain.ContentSection, bool)

	// IsAvailable reports whether a matching archive exists on disk.
	// Pure filesystem check, independent of cache state.
	IsAvailable(doc *domain.Document) bool

	// Sweep evicts stale and excess entries, including entries whose
	// backing file changed on disk.
	Sweep()

	// ClearCache drops every cached entry.
	ClearCache()

	// CacheStats returns cache counters.
	CacheStats() CacheStats

	// Close releases the filesystem watcher.
	Close() error
}
