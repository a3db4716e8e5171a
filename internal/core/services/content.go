package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driving"
	"github.com/custodia-labs/filings-cli/internal/logger"
)

// Ensure Content implements the interface.
var _ driving.ContentService = (*Content)(nil)

// Content loads section previews for downloaded documents through a
// bounded, validity-checked cache.
//
// The cache has a single logical owner: all methods must be called
// from one goroutine (the interactive front end's event loop), so no
// internal locking is used. Watcher events are drained inside Sweep on
// that same goroutine.
type Content struct {
	reader driven.ArchiveReader
	store  driven.DocumentStore // optional, for preview backfill
	cfg    domain.Config

	cache   map[string]*cacheEntry
	watcher *fsnotify.Watcher
	watched map[string]bool
}

// cacheEntry holds extracted sections for one document.
type cacheEntry struct {
	documentKey string
	sections    []domain.ContentSection
	loadedAt    time.Time
	sourcePath  string
}

// valid reports whether the entry may be served: the backing file must
// still exist, must not have been modified after load, and the entry
// must be younger than the TTL.
func (e *cacheEntry) valid(ttl time.Duration) bool {
	info, err := os.Stat(e.sourcePath)
	if err != nil {
		return false
	}
	if info.ModTime().After(e.loadedAt) {
		return false
	}
	return time.Since(e.loadedAt) < ttl
}

// NewContent creates a content service. The store is optional; when
// present, successful reads backfill the document's content preview
// column. The fsnotify watcher is best-effort: when it cannot be
// created, eviction falls back to the lazy mtime and TTL checks alone.
func NewContent(reader driven.ArchiveReader, store driven.DocumentStore, cfg domain.Config) *Content {
	c := &Content{
		reader:  reader,
		store:   store,
		cfg:     cfg,
		cache:   make(map[string]*cacheEntry),
		watched: make(map[string]bool),
	}
	if w, err := fsnotify.NewWatcher(); err == nil {
		c.watcher = w
	} else {
		logger.Warn("Content watcher unavailable: %v", err)
	}
	return c
}

// Load returns the document's sections, reading the archive when the
// cache has no valid entry.
func (c *Content) Load(ctx context.Context, doc *domain.Document) ([]domain.ContentSection, error) {
	key := doc.Key()

	if entry, ok := c.cache[key]; ok {
		if entry.valid(c.cfg.CacheTTL) {
			return entry.sections, nil
		}
		c.evict(key)
	}

	path := findArchive(c.cfg.DownloadDir, doc)
	if path == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotDownloaded, key)
	}

	sections, err := c.reader.ReadSections(path, c.cfg.MaxSections, c.cfg.PreviewLength)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}

	if len(sections) > 0 {
		c.insert(key, sections, path)
		c.backfillPreview(ctx, doc, sections)
	}
	return sections, nil
}

// Cached returns the cached sections when present and valid.
func (c *Content) Cached(doc *domain.Document) ([]domain.ContentSection, bool) {
	entry, ok := c.cache[doc.Key()]
	if !ok || !entry.valid(c.cfg.CacheTTL) {
		return nil, false
	}
	return entry.sections, true
}

// IsAvailable reports whether a matching archive exists on disk.
func (c *Content) IsAvailable(doc *domain.Document) bool {
	return findArchive(c.cfg.DownloadDir, doc) != ""
}

// Sweep evicts stale and excess entries. Watcher events accumulated
// since the last sweep evict the affected entries immediately; the
// remaining entries are re-validated, and the oldest-loaded entries
// are dropped when the cache exceeds its size bound.
func (c *Content) Sweep() {
	c.drainWatcher()

	for key, entry := range c.cache {
		if !entry.valid(c.cfg.CacheTTL) {
			c.evict(key)
		}
	}

	if max := c.cfg.CacheMaxEntries; max > 0 && len(c.cache) > max {
		keys := make([]string, 0, len(c.cache))
		for key := range c.cache {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			return c.cache[keys[i]].loadedAt.Before(c.cache[keys[j]].loadedAt)
		})
		for _, key := range keys[:len(c.cache)-max] {
			c.evict(key)
		}
	}
}

// ClearCache drops every cached entry.
func (c *Content) ClearCache() {
	for key := range c.cache {
		c.evict(key)
	}
}

// CacheStats returns cache counters.
func (c *Content) CacheStats() driving.CacheStats {
	var stats driving.CacheStats
	for _, entry := range c.cache {
		stats.Entries++
		stats.TotalSections += len(entry.sections)
		if entry.valid(c.cfg.CacheTTL) {
			stats.ValidEntries++
		} else {
			stats.StaleEntries++
		}
	}
	return stats
}

// Close releases the filesystem watcher.
func (c *Content) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Close()
}

// insert caches sections and registers the backing directory with the
// watcher. Size-bound enforcement happens inline so a burst of loads
// cannot grow the cache unbounded between sweeps.
func (c *Content) insert(key string, sections []domain.ContentSection, path string) {
	c.cache[key] = &cacheEntry{
		documentKey: key,
		sections:    sections,
		loadedAt:    time.Now(),
		sourcePath:  path,
	}

	if c.watcher != nil {
		dir := filepath.Dir(path)
		if !c.watched[dir] {
			if err := c.watcher.Add(dir); err == nil {
				c.watched[dir] = true
			}
		}
	}

	if max := c.cfg.CacheMaxEntries; max > 0 && len(c.cache) > max {
		c.evictOldest()
	}
}

func (c *Content) evict(key string) {
	delete(c.cache, key)
}

// evictOldest drops the entry with the earliest load time.
func (c *Content) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.cache {
		if oldestKey == "" || entry.loadedAt.Before(oldest) {
			oldestKey = key
			oldest = entry.loadedAt
		}
	}
	if oldestKey != "" {
		c.evict(oldestKey)
	}
}

// drainWatcher evicts entries whose backing file changed on disk.
func (c *Content) drainWatcher() {
	if c.watcher == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			for key, entry := range c.cache {
				if entry.sourcePath == event.Name {
					c.evict(key)
				}
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			logger.Debug("Content watcher: %v", err)
		default:
			return
		}
	}
}

// backfillPreview writes the leading section text into the store's
// preview column so substring search improves as documents are opened.
func (c *Content) backfillPreview(ctx context.Context, doc *domain.Document, sections []domain.ContentSection) {
	if c.store == nil {
		return
	}

	var b strings.Builder
	for _, section := range sections {
		if b.Len() >= c.cfg.PreviewLength {
			break
		}
		if section.Content == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(section.Content)
	}
	if b.Len() == 0 {
		return
	}

	preview := truncateRunes(b.String(), c.cfg.PreviewLength)
	if err := c.store.SetContentPreview(ctx, doc.ID, preview); err != nil {
		logger.Debug("Preview backfill for %s: %v", doc.ID, err)
	}
}

// truncateRunes cuts s to at most max bytes without splitting a rune.
func truncateRunes(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
