package domain

// ContentSection is one classified unit of text extracted from a
// downloaded filing archive. Sections are recomputed per read or served
// from the content cache; they are never persisted.
type ContentSection struct {
	// SectionType is the human label derived from the entry name
	// ("Business Overview", "Risk Factors", ...).
	SectionType string

	// Filename is the entry name within the archive.
	Filename string

	// Content is the extracted text, possibly truncated to the
	// configured preview length at a rune boundary.
	Content string

	// FullLength is the byte length of the text before truncation.
	FullLength int
}
