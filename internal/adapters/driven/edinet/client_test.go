package edinet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := domain.DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.APIDelay = 0
	cfg.DownloadDelay = 0

	c := NewClient(cfg)
	c.SetBaseURL(srv.URL)
	return c
}

func TestListFilings_RequestShape(t *testing.T) {
	var gotPath, gotDate, gotType, gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDate = r.URL.Query().Get("date")
		gotType = r.URL.Query().Get("type")
		gotAuth = r.Header.Get("Ocp-Apim-Subscription-Key")
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	_, err := c.ListFilings(context.Background(), time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/documents.json", gotPath)
	assert.Equal(t, "2024-06-25", gotDate)
	assert.Equal(t, "2", gotType, "listing requests corporate reports")
	assert.Equal(t, "test-key", gotAuth)
}

func TestListFilings_DecodesRecords(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"metadata": {"resultset": {"count": 1}},
			"results": [{
				"seqNumber": 1,
				"docID": "S100TEST",
				"edinetCode": "E02144",
				"secCode": "72030",
				"filerName": "Toyota Motor Corporation",
				"formCode": "030000",
				"submitDateTime": "2024-06-25 09:30",
				"xbrlFlag": "1",
				"pdfFlag": "1"
			}]
		}`))
	})

	records, err := c.ListFilings(context.Background(), time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "S100TEST", records[0].DocID)
	assert.Equal(t, "Toyota Motor Corporation", records[0].FilerName)
	assert.Equal(t, "1", records[0].XBRLFlag)
}

func TestListFilings_MissingAPIKey(t *testing.T) {
	c := NewClient(domain.DefaultConfig())

	_, err := c.ListFilings(context.Background(), time.Now())
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestListFilings_ErrorEnvelope(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"statusCode": 401, "message": "Access denied due to invalid subscription key."}`))
	})

	_, err := c.ListFilings(context.Background(), time.Now())
	require.Error(t, err)

	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "invalid subscription key")
}

func TestListFilings_NonEnvelopeError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such resource"))
	})

	_, err := c.ListFilings(context.Background(), time.Now())
	require.Error(t, err)

	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "no such resource")
}

func TestDownloadArchive_WritesFile(t *testing.T) {
	var gotPath, gotType string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.URL.Query().Get("type")
		_, _ = w.Write([]byte("zip-bytes"))
	})

	dest := filepath.Join(t.TempDir(), "7203", "S100TEST-2024-06-25.zip")
	require.NoError(t, c.DownloadArchive(context.Background(), "S100TEST", domain.FormatComplete, dest))

	assert.Equal(t, "/api/v2/documents/S100TEST", gotPath)
	assert.Equal(t, "1", gotType, "download requests the complete archive")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "zip-bytes", string(data))
}

func TestDownloadArchive_RenditionSelectsTypeParameter(t *testing.T) {
	var gotType string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("type")
		_, _ = w.Write([]byte("csv-bytes"))
	})

	dest := filepath.Join(t.TempDir(), "S100TEST.zip")
	require.NoError(t, c.DownloadArchive(context.Background(), "S100TEST", domain.FormatText, dest))

	assert.Equal(t, "5", gotType, "plain rendition requests the CSV artifact")
}

func TestDownloadArchive_ErrorLeavesNoFile(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"statusCode": 404, "message": "document not found"}`))
	})

	dir := t.TempDir()
	dest := filepath.Join(dir, "S100TEST.zip")
	err := c.DownloadArchive(context.Background(), "S100TEST", domain.FormatComplete, dest)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.NoFileExists(t, dest)
}

func TestDownloadArchive_CancelledContextLeavesNoPartialFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		cancel()
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte("late body"))
	})

	dir := t.TempDir()
	dest := filepath.Join(dir, "S100TEST.zip")
	err := c.DownloadArchive(ctx, "S100TEST", domain.FormatComplete, dest)

	require.Error(t, err)
	assert.NoFileExists(t, dest)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "the temp file is cleaned up on failure")
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{StatusCode: 500, Message: "boom", URL: "http://example"}
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}
