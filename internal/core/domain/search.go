package domain

import "time"

// SearchQuery holds optional filters for document search. Nil fields
// impose no constraint; the zero value matches everything.
type SearchQuery struct {
	// Ticker filters by exact ticker symbol.
	Ticker *string

	// CompanyName filters by company-name substring.
	CompanyName *string

	// FilingType filters by exact filing type.
	FilingType *FilingType

	// Source filters by exact source.
	Source *Source

	// DateFrom and DateTo bound the filing date (inclusive).
	DateFrom *time.Time
	DateTo   *time.Time

	// TextQuery is a substring match over the company name and the
	// cached content preview.
	TextQuery *string
}

// IsEmpty reports whether no filters are set.
func (q *SearchQuery) IsEmpty() bool {
	return q.Ticker == nil && q.CompanyName == nil && q.FilingType == nil &&
		q.Source == nil && q.DateFrom == nil && q.DateTo == nil && q.TextQuery == nil
}

// DownloadRequest describes a batch of filings to download.
type DownloadRequest struct {
	// Source selects the remote system.
	Source Source

	// Ticker is the issuer to download filings for.
	Ticker string

	// FilingType restricts the batch to one filing type when set.
	FilingType *FilingType

	// DateFrom and DateTo bound the filing dates (inclusive).
	DateFrom *time.Time
	DateTo   *time.Time

	// Limit caps the number of filings downloaded.
	Limit int

	// Format selects the rendition requested from the remote API.
	// The zero value requests the complete archive.
	Format DocumentFormat
}
