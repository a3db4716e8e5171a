// Package archive extracts prioritised section previews from
// downloaded EDINET filing archives. Entry names inside the ZIP encode
// section identity through fixed substrings: a header file, numbered
// honbun (body) files per statutory section, fuzoku (attachment)
// entries, and an .xbrl instance file.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
	"github.com/custodia-labs/filings-cli/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.ArchiveReader = (*Reader)(nil)

// Reader reads filing archives.
type Reader struct{}

// NewReader creates an archive reader.
func NewReader() *Reader {
	return &Reader{}
}

// sectionLabels maps honbun file codes to section names, in statutory
// document order.
var sectionLabels = []struct {
	marker string
	label  string
}{
	{"0000000_header", "Document Header"},
	{"0101010_honbun", "Business Overview"},
	{"0102010_honbun", "Risk Factors"},
	{"0103010_honbun", "Management Analysis"},
	{"0104010_honbun", "Financial Statements"},
	{"0105000_honbun", "Corporate Governance"},
	{"0105010_honbun", "Board of Directors"},
	{"0105020_honbun", "Executive Compensation"},
	{"0105025_honbun", "Stock Options"},
	{"0105040_honbun", "Accounting Auditor"},
	{"0105050_honbun", "Internal Control"},
	{"0105100_honbun", "Management Policy"},
	{"0105110_honbun", "Capital Structure"},
	{"0105120_honbun", "Dividend Policy"},
	{"0105310_honbun", "Related Party Transactions"},
	{"0105320_honbun", "Consolidated Subsidiaries"},
	{"0105330_honbun", "Business Segments"},
	{"0106010_honbun", "Research & Development"},
}

// SectionType derives the human section label from an entry name.
func SectionType(filename string) string {
	base := path.Base(filename)

	for _, s := range sectionLabels {
		if strings.Contains(base, s.marker) {
			return s.label
		}
	}
	switch {
	case strings.Contains(base, "honbun"):
		return "Content Section"
	case strings.Contains(base, "fuzoku"):
		return "Attachment"
	case strings.HasSuffix(base, ".xbrl"):
		return "XBRL Data"
	default:
		return "Other"
	}
}

// priority ranks entries for extraction order: the header first, then
// the leading statutory sections, then any other body file, then
// structured data last. Lower ranks first.
func priority(filename string) int {
	switch {
	case strings.Contains(filename, "0000000_header"):
		return 0
	case strings.Contains(filename, "0101010_honbun"):
		return 1
	case strings.Contains(filename, "0102010_honbun"):
		return 2
	case strings.Contains(filename, "0103010_honbun"):
		return 3
	case strings.Contains(filename, "0104010_honbun"):
		return 4
	case strings.Contains(filename, "0105100_honbun"):
		return 5
	case strings.Contains(filename, "honbun"):
		return 10
	case strings.HasSuffix(filename, ".xbrl"):
		return 20
	default:
		return 99
	}
}

// isContent reports whether an entry holds extractable filing text.
// Attachments and anything outside the recognised naming scheme are
// excluded entirely.
func isContent(filename string) bool {
	if strings.Contains(filename, "fuzoku/") {
		return false
	}
	return strings.Contains(filename, "honbun") ||
		strings.Contains(filename, "header") ||
		strings.HasSuffix(filename, ".xbrl")
}

// ReadSections enumerates the archive, classifies entries, and returns
// up to maxSections sections in priority order. Previews are truncated
// to previewLen bytes at a rune boundary. Entries that cannot be
// decoded as text are skipped, not treated as errors.
func (r *Reader) ReadSections(zipPath string, maxSections, previewLen int) ([]domain.ContentSection, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", zipPath, err)
	}
	defer zr.Close()

	// Stable order: priority rank, then name. Bounds worst-case work
	// on archives with hundreds of entries.
	files := make([]*zip.File, len(zr.File))
	copy(files, zr.File)
	sort.SliceStable(files, func(i, j int) bool {
		pi, pj := priority(files[i].Name), priority(files[j].Name)
		if pi != pj {
			return pi < pj
		}
		return files[i].Name < files[j].Name
	})

	var sections []domain.ContentSection
	for _, f := range files {
		if len(sections) >= maxSections {
			break
		}
		if !isContent(f.Name) {
			continue
		}

		raw, err := readEntry(f)
		if err != nil {
			logger.Debug("Skipping unreadable entry %s: %v", f.Name, err)
			continue
		}
		if !utf8.Valid(raw) {
			// Binary payload under a content-like name.
			continue
		}
		contents := string(raw)

		var text string
		var fullLength int
		if strings.HasSuffix(f.Name, ".htm") || strings.HasSuffix(f.Name, ".html") {
			extracted := extractHTMLText(contents)
			fullLength = len(extracted)
			text = Truncate(extracted, previewLen)
		} else {
			// XBRL and anything else: raw text preview.
			fullLength = len(contents)
			text = Truncate(contents, previewLen)
		}

		sections = append(sections, domain.ContentSection{
			SectionType: SectionType(f.Name),
			Filename:    f.Name,
			Content:     text,
			FullLength:  fullLength,
		})
	}

	return sections, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Truncate cuts s to at most max bytes without splitting a rune,
// appending an ellipsis marker when anything was cut.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
