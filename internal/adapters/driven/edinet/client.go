// Package edinet implements the disclosure client against the EDINET
// v2 API. The client owns its rate limiting: listing and download
// calls each pass through a token bucket sized from the configured
// delays, so the first call goes out immediately and subsequent calls
// are spaced by the interval.
package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
	"github.com/custodia-labs/filings-cli/internal/logger"
)

const (
	// DefaultBaseURL is the production EDINET API host.
	DefaultBaseURL = "https://api.edinet-fsa.go.jp"

	// documentsPath is the document listing endpoint.
	documentsPath = "/api/v2/documents.json"

	// downloadPath is the per-document download endpoint.
	downloadPath = "/api/v2/documents"

	// authHeader carries the subscription key.
	authHeader = "Ocp-Apim-Subscription-Key"

	// listType selects corporate reports in listing calls.
	listType = "2"

	// Download endpoint type values.
	archiveTypeComplete = "1" // submitted document with XBRL
	archiveTypeCSV      = "5" // tabular CSV rendition
)

// archiveTypeFor maps the requested rendition onto the download
// endpoint's type parameter. The submitted-document archive carries
// the HTML and XBRL renditions together; only the plain tabular
// rendition is a separate artifact.
func archiveTypeFor(format domain.DocumentFormat) string {
	if format == domain.FormatText {
		return archiveTypeCSV
	}
	return archiveTypeComplete
}

// Ensure Client implements the interface.
var _ driven.DisclosureClient = (*Client)(nil)

// Client talks to the EDINET API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	userAgent   string
	listLimiter *rate.Limiter
	dlLimiter   *rate.Limiter
}

// NewClient creates a client from the tool configuration.
func NewClient(cfg domain.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:    DefaultBaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		// Burst 1: first call immediate, later calls spaced by the delay.
		listLimiter: rate.NewLimiter(intervalLimit(cfg.APIDelay), 1),
		dlLimiter:   rate.NewLimiter(intervalLimit(cfg.DownloadDelay), 1),
	}
}

// SetBaseURL overrides the API host. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// intervalLimit converts a minimum interval into a rate limit.
func intervalLimit(d time.Duration) rate.Limit {
	if d <= 0 {
		return rate.Inf
	}
	return rate.Every(d)
}

// ListFilings fetches the raw records filed on the given date.
func (c *Client) ListFilings(ctx context.Context, date time.Time) ([]domain.RawFiling, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	if err := c.listLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("date", date.Format(domain.DateLayout))
	q.Set("type", listType)
	reqURL := c.baseURL + documentsPath + "?" + q.Encode()

	logger.Debug("Fetching filings for %s", date.Format(domain.DateLayout))

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var envelope indexResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding listing for %s: %w", date.Format(domain.DateLayout), err)
	}

	if envelope.Metadata != nil && envelope.Metadata.ResultSet != nil {
		logger.Debug("Listing reports %d results", envelope.Metadata.ResultSet.Count)
	}
	return envelope.Results, nil
}

// DownloadArchive fetches the document archive in the requested
// rendition and writes it to destPath. The body is streamed to a temp
// file and renamed into place so a cancelled transfer never leaves a
// partial file at destPath.
func (c *Client) DownloadArchive(ctx context.Context, docID string, format domain.DocumentFormat, destPath string) error {
	if c.apiKey == "" {
		return domain.ErrMissingAPIKey
	}

	if err := c.dlLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("type", archiveTypeFor(format))
	reqURL := c.baseURL + downloadPath + "/" + url.PathEscape(docID) + "?" + q.Encode()

	logger.Debug("Downloading archive for %s", docID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", docID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp, reqURL)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing archive: %w", err)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("placing archive: %w", err)
	}
	return nil
}

// get issues an authenticated GET and returns the body on 2xx.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFromBody(resp.StatusCode, body, reqURL)
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set(authHeader, c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
}

// apiError drains the response body and builds an *APIError.
func (c *Client) apiError(resp *http.Response, reqURL string) error {
	body, _ := io.ReadAll(resp.Body)
	return apiErrorFromBody(resp.StatusCode, body, reqURL)
}

// apiErrorFromBody prefers the EDINET error envelope when the body
// parses as one.
func apiErrorFromBody(status int, body []byte, reqURL string) error {
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		if envelope.StatusCode != 0 {
			status = envelope.StatusCode
		}
		return &APIError{StatusCode: status, Message: envelope.Message, URL: reqURL}
	}
	return &APIError{StatusCode: status, Message: string(body), URL: reqURL}
}
