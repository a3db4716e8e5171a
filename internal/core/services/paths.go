package services

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

// archiveDir returns the per-ticker directory holding a document's
// downloaded archives: <download_dir>/edinet/<ticker>.
func archiveDir(downloadDir string, doc *domain.Document) string {
	return filepath.Join(downloadDir, "edinet", doc.Ticker)
}

// archivePath returns the canonical path a fresh download is written
// to: <docKey>-<date>.zip under the ticker directory.
func archivePath(downloadDir string, doc *domain.Document) string {
	name := doc.Key() + "-" + doc.DateString() + ".zip"
	return filepath.Join(archiveDir(downloadDir, doc), name)
}

// findArchive scans the ticker directory for a zip whose name contains
// the document key. Returns "" when none exists. Matching by substring
// tolerates archives downloaded under older naming schemes.
func findArchive(downloadDir string, doc *domain.Document) string {
	dir := archiveDir(downloadDir, doc)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	key := doc.Key()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".zip") {
			continue
		}
		if strings.Contains(name, key) {
			return filepath.Join(dir, name)
		}
	}
	return ""
}
