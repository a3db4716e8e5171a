package driven

import "github.com/custodia-labs/filings-cli/internal/core/domain"

// ArchiveReader opens a downloaded filing archive and extracts
// prioritised section previews.
type ArchiveReader interface {
	// ReadSections enumerates the archive at path, classifies entries,
	// and returns up to maxSections sections in priority order. Each
	// preview is truncated to previewLen bytes at a rune boundary.
	// Entries that cannot be decoded as text are skipped.
	ReadSections(path string, maxSections, previewLen int) ([]domain.ContentSection, error)
}
