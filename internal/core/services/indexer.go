package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driving"
	"github.com/custodia-labs/filings-cli/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexerService = (*Indexer)(nil)

// Indexer builds the local document index by crawling the remote
// listing endpoint one calendar day at a time. The crawl is
// sequential-per-date on purpose: the client spaces calls by the
// configured delay, and one outstanding request at a time keeps the
// tool inside the remote usage limits.
type Indexer struct {
	client     driven.DisclosureClient
	store      driven.DocumentStore
	normaliser driven.Normaliser
	cfg        domain.Config
}

// NewIndexer creates an indexer.
func NewIndexer(
	client driven.DisclosureClient,
	store driven.DocumentStore,
	normaliser driven.Normaliser,
	cfg domain.Config,
) *Indexer {
	return &Indexer{
		client:     client,
		store:      store,
		normaliser: normaliser,
		cfg:        cfg,
	}
}

// BuildIndexByDate crawls every weekday in [from, to] and indexes the
// filings found. Failures scoped to one date or one document are
// logged and skipped; only precondition failures abort the run.
func (ix *Indexer) BuildIndexByDate(ctx context.Context, from, to time.Time) (int, error) {
	if ix.cfg.APIKey == "" {
		return 0, domain.ErrMissingAPIKey
	}
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return 0, fmt.Errorf("%w: %s to %s", domain.ErrInvalidDateRange,
			from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	}

	dates := weekdaysBetween(from, to)
	logger.Section("Index Build")
	logger.Info("Indexing %s to %s: %d weekdays to process",
		from.Format(domain.DateLayout), to.Format(domain.DateLayout), len(dates))

	start := time.Now()
	totalIndexed := 0
	totalSkipped := 0

	for i, date := range dates {
		select {
		case <-ctx.Done():
			return totalIndexed, ctx.Err()
		default:
		}

		records, err := ix.client.ListFilings(ctx, date)
		if err != nil {
			// One date's failure never aborts the range.
			logger.Warn("Fetching filings for %s: %v", date.Format(domain.DateLayout), err)
			continue
		}
		if len(records) == 0 {
			logger.Debug("No filings for %s", date.Format(domain.DateLayout))
			continue
		}

		indexed, skipped := ix.indexRecords(ctx, records, date)
		totalIndexed += indexed
		totalSkipped += skipped
		logger.Info("%s: indexed %d, skipped %d (%d/%d days)",
			date.Format(domain.DateLayout), indexed, skipped, i+1, len(dates))
	}

	logger.Info("Index build complete: %d documents in %s (%d records skipped)",
		totalIndexed, time.Since(start).Round(time.Second), totalSkipped)
	return totalIndexed, nil
}

// UpdateIndex re-runs the build for the last daysBack days.
func (ix *Indexer) UpdateIndex(ctx context.Context, daysBack int) (int, error) {
	if daysBack < 0 {
		return 0, fmt.Errorf("%w: %d days back", domain.ErrInvalidDateRange, daysBack)
	}
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -daysBack)
	return ix.BuildIndexByDate(ctx, from, to)
}

// Stats returns index statistics for a source.
func (ix *Indexer) Stats(ctx context.Context, source domain.Source) (*domain.SourceStats, error) {
	stats := &domain.SourceStats{Source: source}

	count, err := ix.store.CountBySource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	stats.Total = count
	if count == 0 {
		return stats, nil
	}

	minDate, maxDate, err := ix.store.DateRange(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("getting date range: %w", err)
	}
	stats.DateMin = minDate
	stats.DateMax = maxDate

	companies, err := ix.store.TopCompanies(ctx, source, 10)
	if err != nil {
		return nil, fmt.Errorf("getting top companies: %w", err)
	}
	stats.TopCompanies = companies
	return stats, nil
}

// indexRecords normalises and upserts one date's records. Rejected
// records and per-document persistence failures are counted, logged,
// and skipped.
func (ix *Indexer) indexRecords(ctx context.Context, records []domain.RawFiling, observed time.Time) (indexed, skipped int) {
	for _, raw := range records {
		doc, err := ix.normaliser.Normalise(raw, observed)
		if err != nil {
			skipped++
			logger.Debug("Skipping record seq %d: %v", raw.SeqNumber, err)
			continue
		}

		if err := ix.store.Upsert(ctx, doc); err != nil {
			skipped++
			logger.Warn("Persisting document %s: %v", doc.ID, err)
			continue
		}
		indexed++
	}
	return indexed, skipped
}

// weekdaysBetween lists the calendar days in [from, to] excluding
// Saturdays and Sundays. Filings are negligible on weekends; skipping
// them avoids wasted rate-limited calls.
func weekdaysBetween(from, to time.Time) []time.Time {
	var dates []time.Time
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	for !day.After(end) {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}
