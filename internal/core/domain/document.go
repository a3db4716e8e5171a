package domain

import "time"

// Document represents one indexed regulatory filing.
// It is the canonical representation after normalisation.
type Document struct {
	// ID is the unique identifier for the document. For EDINET this is
	// the remote docID; a UUID is generated when the remote record
	// carries none.
	ID string

	// Ticker is the short issuer symbol derived from the securities
	// code. Falls back to the issuer's EDINET code when no securities
	// code is present.
	Ticker string

	// CompanyName is the free-text filer name.
	CompanyName string

	// FilingType classifies the filing (annual report, quarterly
	// report, and so on).
	FilingType FilingType

	// Source identifies the remote system that produced the record.
	Source Source

	// Date is the filing/submission date. Only the calendar day is
	// meaningful; the time component is always midnight UTC.
	Date time.Time

	// ContentPath is the location of the downloaded archive.
	// Empty until the document has been downloaded.
	ContentPath string

	// Metadata carries source-specific fields that are not promoted to
	// first-class columns (form code, period bounds, flags).
	Metadata map[string]string

	// Format describes which renditions the remote source offers.
	Format DocumentFormat
}

// Key returns the identifier used for download tracking and content
// caching. The remote docID stored in metadata wins over ID so that
// re-normalised documents keep stable keys.
func (d *Document) Key() string {
	if id, ok := d.Metadata["doc_id"]; ok && id != "" {
		return id
	}
	if id, ok := d.Metadata["document_id"]; ok && id != "" {
		return id
	}
	return d.ID
}

// DateString formats the filing date as YYYY-MM-DD, the canonical
// representation used in storage and file names.
func (d *Document) DateString() string {
	return d.Date.Format(DateLayout)
}

// DateLayout is the canonical calendar-date layout used throughout.
const DateLayout = "2006-01-02"
