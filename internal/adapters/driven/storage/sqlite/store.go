// Package sqlite implements the document store on a local SQLite
// database. All writes go through an insert-or-replace upsert keyed by
// document ID, which makes repeated indexing runs idempotent without
// external locking.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/filings-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is the SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store at the specified data directory.
// If dataDir is empty, defaults to ~/.filings/data/filings.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".filings", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "filings.db")

	// WAL mode for better concurrency between crawl and search
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert stores a document, replacing any prior row with the same ID.
func (s *Store) Upsert(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	// The preview column is denormalised out of metadata so text search
	// never has to parse JSON.
	preview := doc.Metadata["content_preview"]

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, ticker, company_name, filing_type, source, date,
			content_path, metadata, content_preview, format)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ticker = excluded.ticker,
			company_name = excluded.company_name,
			filing_type = excluded.filing_type,
			source = excluded.source,
			date = excluded.date,
			content_path = excluded.content_path,
			metadata = excluded.metadata,
			content_preview = excluded.content_preview,
			format = excluded.format
	`, doc.ID, doc.Ticker, doc.CompanyName, doc.FilingType.String(), doc.Source.String(),
		doc.Date.Format(domain.DateLayout), doc.ContentPath, string(metadataJSON),
		preview, doc.Format.String())

	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ticker, company_name, filing_type, source, date,
			content_path, metadata, format
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Search returns documents matching every filter present in the query,
// ordered by date descending, capped at limit. Absent filters impose no
// constraint. Every predicate is parameterised.
func (s *Store) Search(ctx context.Context, query domain.SearchQuery, limit int) ([]domain.Document, error) {
	var conditions []string
	var args []any

	if query.Ticker != nil {
		conditions = append(conditions, "ticker = ?")
		args = append(args, *query.Ticker)
	}
	if query.CompanyName != nil {
		conditions = append(conditions, "company_name LIKE ?")
		args = append(args, "%"+*query.CompanyName+"%")
	}
	if query.FilingType != nil {
		conditions = append(conditions, "filing_type = ?")
		args = append(args, query.FilingType.String())
	}
	if query.Source != nil {
		conditions = append(conditions, "source = ?")
		args = append(args, query.Source.String())
	}
	if query.DateFrom != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, query.DateFrom.Format(domain.DateLayout))
	}
	if query.DateTo != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, query.DateTo.Format(domain.DateLayout))
	}
	if query.TextQuery != nil {
		conditions = append(conditions, "(company_name LIKE ? OR content_preview LIKE ?)")
		like := "%" + *query.TextQuery + "%"
		args = append(args, like, like)
	}

	sqlQuery := `SELECT id, ticker, company_name, filing_type, source, date,
		content_path, metadata, format FROM documents`
	if len(conditions) > 0 {
		sqlQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	sqlQuery += " ORDER BY date DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// SetContentPreview updates the denormalised preview column.
func (s *Store) SetContentPreview(ctx context.Context, id, preview string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET content_preview = ? WHERE id = ?", preview, id)
	if err != nil {
		return fmt.Errorf("updating content preview: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating content preview: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountBySource returns the number of documents for a source.
func (s *Store) CountBySource(ctx context.Context, source domain.Source) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE source = ?", source.String())
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// DateRange returns the min and max filing dates for a source.
func (s *Store) DateRange(ctx context.Context, source domain.Source) (time.Time, time.Time, error) {
	var minStr, maxStr sql.NullString
	row := s.db.QueryRowContext(ctx,
		"SELECT MIN(date), MAX(date) FROM documents WHERE source = ?", source.String())
	if err := row.Scan(&minStr, &maxStr); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("getting date range: %w", err)
	}
	if !minStr.Valid || !maxStr.Valid {
		return time.Time{}, time.Time{}, domain.ErrNotFound
	}

	minDate, err := time.Parse(domain.DateLayout, minStr.String)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing min date %q: %w", minStr.String, err)
	}
	maxDate, err := time.Parse(domain.DateLayout, maxStr.String)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing max date %q: %w", maxStr.String, err)
	}
	return minDate, maxDate, nil
}

// TopCompanies returns the most frequent filers for a source.
func (s *Store) TopCompanies(ctx context.Context, source domain.Source, limit int) ([]domain.CompanyCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT company_name, COUNT(*) AS doc_count
		FROM documents WHERE source = ?
		GROUP BY company_name
		ORDER BY doc_count DESC
		LIMIT ?
	`, source.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("getting top companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.CompanyCount
	for rows.Next() {
		var c domain.CompanyCount
		if err := rows.Scan(&c.CompanyName, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning company count: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}
	return companies, nil
}

// scanner abstracts over *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument reads one documents row into a Document.
func scanDocument(sc scanner) (*domain.Document, error) {
	var doc domain.Document
	var filingType, source, dateStr, metadataJSON, format string

	if err := sc.Scan(&doc.ID, &doc.Ticker, &doc.CompanyName, &filingType,
		&source, &dateStr, &doc.ContentPath, &metadataJSON, &format); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	date, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}

	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}

	doc.FilingType = domain.ParseFilingType(filingType)
	doc.Source = domain.ParseSource(source)
	doc.Date = date
	doc.Format = domain.ParseDocumentFormat(format)
	return &doc, nil
}
