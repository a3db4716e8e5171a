package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driving"
	"github.com/custodia-labs/filings-cli/internal/logger"
)

// Ensure Downloads implements the interface.
var _ driving.DownloadService = (*Downloads)(nil)

// Downloads runs bounded concurrent archive downloads. Each download
// is an independently cancellable unit of work; completion is observed
// through the tracked progress rather than by blocking the caller.
type Downloads struct {
	client driven.DisclosureClient
	store  driven.DocumentStore
	cfg    domain.Config

	mu      sync.Mutex
	entries map[string]*downloadEntry
}

// downloadEntry is the tracking record for one download.
type downloadEntry struct {
	progress  driving.DownloadProgress
	cancel    context.CancelFunc
	cancelled bool
	done      chan struct{}
}

// NewDownloads creates a download manager. The store resolves batch
// requests against the local index.
func NewDownloads(client driven.DisclosureClient, store driven.DocumentStore, cfg domain.Config) *Downloads {
	if cfg.MaxConcurrentDownloads <= 0 {
		cfg.MaxConcurrentDownloads = domain.DefaultConfig().MaxConcurrentDownloads
	}
	return &Downloads{
		client:  client,
		store:   store,
		cfg:     cfg,
		entries: make(map[string]*downloadEntry),
	}
}

// Start begins downloading the document's archive and returns its
// tracking key. A request beyond the concurrency limit is rejected
// immediately rather than queued indefinitely.
func (d *Downloads) Start(ctx context.Context, doc *domain.Document) (string, error) {
	if d.cfg.APIKey == "" {
		return "", domain.ErrMissingAPIKey
	}

	key := doc.Key()

	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, ok := d.entries[key]; ok && entry.progress.State.Active() {
		// Already running; hand back the same key.
		return key, nil
	}

	active := 0
	for _, entry := range d.entries {
		if entry.progress.State.Active() {
			active++
		}
	}
	if active >= d.cfg.MaxConcurrentDownloads {
		return "", domain.ErrTooManyDownloads
	}

	dctx, cancel := context.WithCancel(ctx)
	entry := &downloadEntry{
		progress: driving.DownloadProgress{
			DocumentKey: key,
			Ticker:      doc.Ticker,
			State:       driving.DownloadQueued,
			Message:     "queued for download",
			StartedAt:   time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	d.entries[key] = entry

	dest := archivePath(d.cfg.DownloadDir, doc)
	go d.run(dctx, entry, key, doc.Format, dest)

	return key, nil
}

// StartBatch resolves the request against the local index and starts a
// download per matching document that is not already on disk. When the
// concurrent limit is hit it waits for the running transfers before
// starting the rest, so a large batch drains through the bounded pool.
func (d *Downloads) StartBatch(ctx context.Context, req domain.DownloadRequest) ([]string, error) {
	if req.Ticker == "" {
		return nil, fmt.Errorf("%w: batch download needs a ticker", domain.ErrInvalidInput)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	query := domain.SearchQuery{
		Ticker:     &req.Ticker,
		FilingType: req.FilingType,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
	}
	if req.Source != (domain.Source{}) {
		src := req.Source
		query.Source = &src
	}

	docs, err := d.store.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("resolving batch: %w", err)
	}

	var keys []string
	for i := range docs {
		doc := &docs[i]
		// The request's rendition decides what is fetched, not the
		// rendition the listing advertised for the document.
		doc.Format = req.Format
		if d.IsDownloaded(doc) {
			logger.Debug("Skipping %s: already downloaded", doc.Key())
			continue
		}

		for {
			key, err := d.Start(ctx, doc)
			if errors.Is(err, domain.ErrTooManyDownloads) {
				if waitErr := d.Wait(ctx); waitErr != nil {
					return keys, waitErr
				}
				continue
			}
			if err != nil {
				return keys, err
			}
			keys = append(keys, key)
			break
		}
	}
	return keys, nil
}

// run performs one download and records its terminal state.
func (d *Downloads) run(ctx context.Context, entry *downloadEntry, docID string, format domain.DocumentFormat, dest string) {
	defer close(entry.done)

	d.mu.Lock()
	entry.progress.State = driving.DownloadInProgress
	entry.progress.Message = "downloading " + docID
	d.mu.Unlock()

	err := d.client.DownloadArchive(ctx, docID, format, dest)

	d.mu.Lock()
	defer d.mu.Unlock()

	entry.progress.CompletedAt = time.Now()
	switch {
	case entry.cancelled:
		// The partial file was already discarded by the client's
		// atomic write; the next request re-downloads from scratch.
		entry.progress.State = driving.DownloadCancelled
		entry.progress.Message = "cancelled"
		logger.Info("Download cancelled: %s", docID)
	case err != nil:
		entry.progress.State = driving.DownloadFailed
		entry.progress.Message = err.Error()
		logger.Warn("Download failed for %s: %v", docID, err)
	default:
		entry.progress.State = driving.DownloadCompleted
		entry.progress.Message = "downloaded"
		entry.progress.Path = dest
		logger.Info("Downloaded %s to %s", docID, dest)
	}
}

// Cancel aborts an active download.
func (d *Downloads) Cancel(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[key]
	if !ok || !entry.progress.State.Active() {
		return domain.ErrDownloadNotActive
	}
	entry.cancelled = true
	entry.cancel()
	return nil
}

// CancelAll aborts every active download.
func (d *Downloads) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, entry := range d.entries {
		if entry.progress.State.Active() {
			entry.cancelled = true
			entry.cancel()
		}
	}
}

// Progress returns the tracked state for a key.
func (d *Downloads) Progress(key string) (driving.DownloadProgress, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[key]
	if !ok {
		return driving.DownloadProgress{}, false
	}
	return entry.progress, true
}

// Active returns progress for all non-terminal downloads.
func (d *Downloads) Active() []driving.DownloadProgress {
	d.mu.Lock()
	defer d.mu.Unlock()

	var active []driving.DownloadProgress
	for _, entry := range d.entries {
		if entry.progress.State.Active() {
			active = append(active, entry.progress)
		}
	}
	return active
}

// All returns progress for every tracked download.
func (d *Downloads) All() []driving.DownloadProgress {
	d.mu.Lock()
	defer d.mu.Unlock()

	all := make([]driving.DownloadProgress, 0, len(d.entries))
	for _, entry := range d.entries {
		all = append(all, entry.progress)
	}
	return all
}

// Stats returns per-state counts.
func (d *Downloads) Stats() driving.DownloadStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	var stats driving.DownloadStats
	for _, entry := range d.entries {
		switch entry.progress.State {
		case driving.DownloadQueued:
			stats.Queued++
		case driving.DownloadInProgress:
			stats.InProgress++
		case driving.DownloadCompleted:
			stats.Completed++
		case driving.DownloadFailed:
			stats.Failed++
		case driving.DownloadCancelled:
			stats.Cancelled++
		}
		stats.Total++
	}
	return stats
}

// ClearCompleted drops terminal entries from tracking.
func (d *Downloads) ClearCompleted() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, entry := range d.entries {
		if !entry.progress.State.Active() {
			delete(d.entries, key)
		}
	}
}

// IsDownloaded reports whether a matching archive already exists on
// disk, independent of tracking state.
func (d *Downloads) IsDownloaded(doc *domain.Document) bool {
	return findArchive(d.cfg.DownloadDir, doc) != ""
}

// Wait blocks until every download active at the time of the call
// reaches a terminal state or the context is cancelled.
func (d *Downloads) Wait(ctx context.Context) error {
	d.mu.Lock()
	var pending []chan struct{}
	for _, entry := range d.entries {
		if entry.progress.State.Active() {
			pending = append(pending, entry.done)
		}
	}
	d.mu.Unlock()

	for _, done := range pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
		}
	}
	return nil
}
