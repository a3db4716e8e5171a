package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

// DocumentStore persists documents and answers filtered queries.
// Backed by SQLite.
type DocumentStore interface {
	// Upsert stores a document, replacing any prior row with the same
	// ID. Idempotent by construction; re-indexing the same record is
	// last-write-wins.
	Upsert(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID. Returns domain.ErrNotFound when
	// no row exists.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Search returns documents matching every filter present in the
	// query, ordered by date descending, capped at limit.
	Search(ctx context.Context, query domain.SearchQuery, limit int) ([]domain.Document, error)

	// SetContentPreview updates the denormalised preview column used
	// for substring text search.
	SetContentPreview(ctx context.Context, id, preview string) error

	// CountBySource returns the number of documents for a source.
	CountBySource(ctx context.Context, source domain.Source) (int64, error)

	// DateRange returns the min and max filing dates for a source.
	// Returns domain.ErrNotFound when the source has no documents.
	DateRange(ctx context.Context, source domain.Source) (min, max time.Time, err error)

	// TopCompanies returns the most frequent filers for a source,
	// ordered by document count descending.
	TopCompanies(ctx context.Context, source domain.Source, limit int) ([]domain.CompanyCount, error)
}
