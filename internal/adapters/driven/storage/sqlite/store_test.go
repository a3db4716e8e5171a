package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testDocument(id, ticker, company string, date time.Time) *domain.Document {
	return &domain.Document{
		ID:          id,
		Ticker:      ticker,
		CompanyName: company,
		FilingType:  domain.FilingAnnualReport,
		Source:      domain.SourceEdinet,
		Date:        date,
		Metadata:    map[string]string{"doc_id": id},
		Format:      domain.FormatComplete,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := setupStore(t)
	assert.FileExists(t, store.Path())
}

func TestStore_UpsertAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	doc := testDocument("S100TEST", "7203", "Toyota Motor", time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.Upsert(ctx, doc))

	got, err := store.Get(ctx, "S100TEST")
	require.NoError(t, err)
	assert.Equal(t, "7203", got.Ticker)
	assert.Equal(t, "Toyota Motor", got.CompanyName)
	assert.Equal(t, domain.FilingAnnualReport, got.FilingType)
	assert.Equal(t, domain.SourceEdinet, got.Source)
	assert.Equal(t, "2024-06-25", got.DateString())
	assert.Equal(t, "S100TEST", got.Metadata["doc_id"])
}

func TestStore_UpsertRejectsEmptyID(t *testing.T) {
	store := setupStore(t)

	err := store.Upsert(context.Background(), &domain.Document{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	date := time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, testDocument("S100TEST", "7203", "Toyota Motor", date)))
	require.NoError(t, store.Upsert(ctx, testDocument("S100TEST", "7203", "Toyota Motor Corp", date)))

	count, err := store.CountBySource(ctx, domain.SourceEdinet)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := store.Get(ctx, "S100TEST")
	require.NoError(t, err)
	assert.Equal(t, "Toyota Motor Corp", got.CompanyName, "re-upsert replaces prior values")
}

func TestStore_GetNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SearchFiltersCombine(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	docs := []*domain.Document{
		testDocument("D1", "7203", "Toyota Motor", time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)),
		testDocument("D2", "6758", "Sony Group", time.Date(2024, 6, 26, 0, 0, 0, 0, time.UTC)),
		testDocument("D3", "7203", "Toyota Motor", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	}
	for _, doc := range docs {
		require.NoError(t, store.Upsert(ctx, doc))
	}

	ticker := "7203"
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	results, err := store.Search(ctx, domain.SearchQuery{Ticker: &ticker, DateFrom: &from}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "D1", results[0].ID)
}

func TestStore_SearchCompanySubstring(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testDocument("D1", "7203", "Toyota Motor", time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.Upsert(ctx, testDocument("D2", "6758", "Sony Group", time.Date(2024, 6, 26, 0, 0, 0, 0, time.UTC))))

	company := "oyota"
	results, err := store.Search(ctx, domain.SearchQuery{CompanyName: &company}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "D1", results[0].ID)
}

func TestStore_SearchEmptyQueryOrdersByDateDesc(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testDocument("OLD", "7203", "Toyota Motor", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.Upsert(ctx, testDocument("NEW", "7203", "Toyota Motor", time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.Upsert(ctx, testDocument("MID", "7203", "Toyota Motor", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))))

	results, err := store.Search(ctx, domain.SearchQuery{}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2, "limit caps the result set")
	assert.Equal(t, "NEW", results[0].ID)
	assert.Equal(t, "MID", results[1].ID)
}

func TestStore_SearchTextQueryMatchesPreview(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	doc := testDocument("D1", "7203", "Toyota Motor", time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.Upsert(ctx, doc))
	require.NoError(t, store.SetContentPreview(ctx, "D1", "automotive segment revenue grew"))

	text := "automotive segment"
	results, err := store.Search(ctx, domain.SearchQuery{TextQuery: &text}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "D1", results[0].ID)
}

func TestStore_SetContentPreviewNotFound(t *testing.T) {
	store := setupStore(t)

	err := store.SetContentPreview(context.Background(), "missing", "text")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DateRange(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, _, err := store.DateRange(ctx, domain.SourceEdinet)
	assert.ErrorIs(t, err, domain.ErrNotFound, "empty index has no range")

	require.NoError(t, store.Upsert(ctx, testDocument("D1", "7203", "Toyota Motor", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.Upsert(ctx, testDocument("D2", "7203", "Toyota Motor", time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))))

	minDate, maxDate, err := store.DateRange(ctx, domain.SourceEdinet)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", minDate.Format(domain.DateLayout))
	assert.Equal(t, "2024-06-25", maxDate.Format(domain.DateLayout))
}

func TestStore_TopCompanies(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testDocument("D1", "7203", "Toyota Motor", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.Upsert(ctx, testDocument("D2", "7203", "Toyota Motor", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.Upsert(ctx, testDocument("D3", "6758", "Sony Group", time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))))

	companies, err := store.TopCompanies(ctx, domain.SourceEdinet, 5)
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "Toyota Motor", companies[0].CompanyName)
	assert.Equal(t, int64(2), companies[0].Count)
}

func TestStore_MigrationsRecorded(t *testing.T) {
	store := setupStore(t)

	var version int
	row := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations")
	require.NoError(t, row.Scan(&version))
	assert.Equal(t, 1, version)
}
