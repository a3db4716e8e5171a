package domain

import "time"

// CompanyCount pairs a company name with its document count.
type CompanyCount struct {
	CompanyName string
	Count       int64
}

// SourceStats summarises the index for one source. Read-only
// observability data, computed outside the indexing hot path.
type SourceStats struct {
	// Source the statistics were computed for.
	Source Source

	// Total is the number of indexed documents.
	Total int64

	// DateMin and DateMax bound the indexed filing dates.
	// Zero when the index is empty.
	DateMin time.Time
	DateMax time.Time

	// TopCompanies lists the most frequent filers, ordered by count
	// descending.
	TopCompanies []CompanyCount
}
