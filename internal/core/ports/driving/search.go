package driving

import (
	"context"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

// SearchService answers filtered queries against the local index.
type SearchService interface {
	// Search returns documents matching the query, ordered by date
	// descending, capped at limit. An empty query matches everything.
	Search(ctx context.Context, query domain.SearchQuery, limit int) ([]domain.Document, error)
}
