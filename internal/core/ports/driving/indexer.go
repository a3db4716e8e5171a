package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

// IndexerService builds and maintains the local document index.
type IndexerService interface {
	// BuildIndexByDate crawls every weekday in [from, to] and indexes
	// the filings found. A single date's failure is logged and skipped;
	// only precondition failures (missing API key, inverted range)
	// abort the whole run. Returns the number of documents indexed.
	BuildIndexByDate(ctx context.Context, from, to time.Time) (int, error)

	// UpdateIndex re-runs the build for the last daysBack days.
	UpdateIndex(ctx context.Context, daysBack int) (int, error)

	// Stats returns index statistics for a source. Read-only, outside
	// the indexing hot path.
	Stats(ctx context.Context, source domain.Source) (*domain.SourceStats, error)
}
