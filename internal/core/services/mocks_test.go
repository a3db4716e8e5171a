package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
)

var (
	_ driven.DisclosureClient = (*fakeClient)(nil)
	_ driven.DocumentStore    = (*fakeStore)(nil)
	_ driven.Normaliser       = fakeNormaliser{}
	_ driven.ArchiveReader    = (*fakeReader)(nil)
)

// fakeClient is an in-memory DisclosureClient. Listing responses are
// keyed by date string; downloads write a stub archive unless an error
// is configured. Downloads can be gated on a release channel to test
// concurrency limits and cancellation.
type fakeClient struct {
	mu sync.Mutex

	records  map[string][]domain.RawFiling
	listErr  map[string]error
	listed   []string
	download struct {
		err     error
		release chan struct{}
		started chan string
	}
	downloaded []string
	formats    map[string]domain.DocumentFormat
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		records: make(map[string][]domain.RawFiling),
		listErr: make(map[string]error),
		formats: make(map[string]domain.DocumentFormat),
	}
}

func (c *fakeClient) ListFilings(_ context.Context, date time.Time) ([]domain.RawFiling, error) {
	day := date.Format(domain.DateLayout)

	c.mu.Lock()
	c.listed = append(c.listed, day)
	err := c.listErr[day]
	records := c.records[day]
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *fakeClient) DownloadArchive(ctx context.Context, docID string, format domain.DocumentFormat, destPath string) error {
	c.mu.Lock()
	c.formats[docID] = format
	started := c.download.started
	release := c.download.release
	err := c.download.err
	c.mu.Unlock()

	if started != nil {
		started <- docID
	}
	if release != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-release:
		}
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if mkErr := os.MkdirAll(filepath.Dir(destPath), 0700); mkErr != nil {
		return mkErr
	}
	if wrErr := os.WriteFile(destPath, []byte("archive"), 0600); wrErr != nil {
		return wrErr
	}

	c.mu.Lock()
	c.downloaded = append(c.downloaded, docID)
	c.mu.Unlock()
	return nil
}

func (c *fakeClient) requestedFormat(docID string) domain.DocumentFormat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formats[docID]
}

func (c *fakeClient) listedDates() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.listed...)
}

// fakeStore is an in-memory DocumentStore.
type fakeStore struct {
	mu        sync.Mutex
	docs      map[string]*domain.Document
	previews  map[string]string
	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:     make(map[string]*domain.Document),
		previews: make(map[string]string),
	}
}

func (s *fakeStore) Upsert(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	copied := *doc
	s.docs[doc.ID] = &copied
	return nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (s *fakeStore) Search(_ context.Context, _ domain.SearchQuery, limit int) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []domain.Document
	for _, doc := range s.docs {
		if len(docs) >= limit {
			break
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (s *fakeStore) SetContentPreview(_ context.Context, id, preview string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return domain.ErrNotFound
	}
	s.previews[id] = preview
	return nil
}

func (s *fakeStore) CountBySource(_ context.Context, source domain.Source) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, doc := range s.docs {
		if doc.Source == source {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) DateRange(_ context.Context, source domain.Source) (time.Time, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var minDate, maxDate time.Time
	for _, doc := range s.docs {
		if doc.Source != source {
			continue
		}
		if minDate.IsZero() || doc.Date.Before(minDate) {
			minDate = doc.Date
		}
		if maxDate.IsZero() || doc.Date.After(maxDate) {
			maxDate = doc.Date
		}
	}
	if minDate.IsZero() {
		return time.Time{}, time.Time{}, domain.ErrNotFound
	}
	return minDate, maxDate, nil
}

func (s *fakeStore) TopCompanies(_ context.Context, source domain.Source, limit int) ([]domain.CompanyCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int64)
	for _, doc := range s.docs {
		if doc.Source == source {
			counts[doc.CompanyName]++
		}
	}
	var companies []domain.CompanyCount
	for name, count := range counts {
		if len(companies) >= limit {
			break
		}
		companies = append(companies, domain.CompanyCount{CompanyName: name, Count: count})
	}
	return companies, nil
}

func (s *fakeStore) preview(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previews[id]
}

// fakeNormaliser promotes records by docID and rejects records with an
// empty filer name.
type fakeNormaliser struct{}

func (fakeNormaliser) Normalise(raw domain.RawFiling, observed time.Time) (*domain.Document, error) {
	if raw.FilerName == "" {
		return nil, errors.Join(domain.ErrRecordRejected, errors.New("missing filer name"))
	}
	return &domain.Document{
		ID:          raw.DocID,
		Ticker:      raw.SecCode,
		CompanyName: raw.FilerName,
		FilingType:  domain.FilingAnnualReport,
		Source:      domain.SourceEdinet,
		Date:        observed,
		Metadata:    map[string]string{"doc_id": raw.DocID},
		Format:      domain.FormatComplete,
	}, nil
}

// fakeReader returns preset sections and counts reads.
type fakeReader struct {
	mu       sync.Mutex
	sections []domain.ContentSection
	err      error
	reads    int
}

func (r *fakeReader) ReadSections(_ string, _ int, _ int) ([]domain.ContentSection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.err != nil {
		return nil, r.err
	}
	return r.sections, nil
}

func (r *fakeReader) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}
