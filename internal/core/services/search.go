package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driving"
	"github.com/custodia-labs/filings-cli/internal/logger"
)

// Ensure Search implements the interface.
var _ driving.SearchService = (*Search)(nil)

// defaultSearchLimit caps result sets when the caller passes no limit.
const defaultSearchLimit = 20

// Search answers filtered queries against the document store.
type Search struct {
	store driven.DocumentStore
}

// NewSearch creates a search service.
func NewSearch(store driven.DocumentStore) *Search {
	return &Search{store: store}
}

// Search returns documents matching the query, ordered by date
// descending. An empty query matches everything up to limit.
func (s *Search) Search(ctx context.Context, query domain.SearchQuery, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if query.DateFrom != nil && query.DateTo != nil && query.DateTo.Before(*query.DateFrom) {
		return nil, fmt.Errorf("%w: date_to before date_from", domain.ErrInvalidDateRange)
	}

	logger.Debug("Searching documents (limit %d, empty=%t)", limit, query.IsEmpty())
	docs, err := s.store.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return docs, nil
}
