package edinet

import "github.com/custodia-labs/filings-cli/internal/core/domain"

// indexResponse is the envelope returned by the document listing endpoint.
type indexResponse struct {
	Metadata *indexMetadata     `json:"metadata"`
	Results  []domain.RawFiling `json:"results"`
}

// indexMetadata describes the request echo and result set.
type indexMetadata struct {
	Title     string          `json:"title"`
	Parameter *indexParameter `json:"parameter"`
	ResultSet *indexResultSet `json:"resultset"`
}

type indexParameter struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

type indexResultSet struct {
	Count int `json:"count"`
}

// errorResponse is the EDINET API error envelope.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
