package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingAPIKey indicates the EDINET subscription key is not
	// configured. Indexing and downloading abort before any network
	// call is made.
	ErrMissingAPIKey = errors.New("EDINET API key not configured")

	// ErrInvalidDateRange indicates a malformed or inverted date range.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrRecordRejected indicates a raw record failed validation and
	// was skipped during normalisation. Counted, never fatal.
	ErrRecordRejected = errors.New("record rejected")

	// ErrNotDownloaded indicates content was requested for a document
	// whose archive does not exist locally. User-actionable.
	ErrNotDownloaded = errors.New("document not downloaded")

	// ErrTooManyDownloads indicates the concurrent download limit was
	// reached. The request is rejected, not queued. User-actionable.
	ErrTooManyDownloads = errors.New("too many concurrent downloads")

	// ErrDownloadNotActive indicates a cancel was requested for a
	// download that is not queued or in progress.
	ErrDownloadNotActive = errors.New("download not active")
)
