package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

// DisclosureClient talks to a remote disclosure API. Implementations
// own their rate limiting; callers issue requests back to back and the
// client spaces them.
type DisclosureClient interface {
	// ListFilings fetches the raw records filed on the given date.
	ListFilings(ctx context.Context, date time.Time) ([]domain.RawFiling, error)

	// DownloadArchive fetches the document archive in the requested
	// rendition and writes it to destPath. The write is atomic: a
	// cancelled or failed transfer leaves no file at destPath.
	DownloadArchive(ctx context.Context, docID string, format domain.DocumentFormat, destPath string) error
}

// Normaliser maps a raw provider record into the canonical Document.
// Pure: no I/O, fully unit-testable.
type Normaliser interface {
	// Normalise validates and converts one raw record. Records missing
	// required identity fields fail with domain.ErrRecordRejected.
	// observed is the crawl date used when the record has no parseable
	// submission date.
	Normalise(raw domain.RawFiling, observed time.Time) (*domain.Document, error)
}
