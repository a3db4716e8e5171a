package edinet

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

var observed = time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)

func annualRaw() domain.RawFiling {
	return domain.RawFiling{
		DocID:          "S100TEST",
		EdinetCode:     "E02144",
		SecCode:        "72030",
		FilerName:      "Toyota Motor Corporation",
		FormCode:       "030000",
		DocDescription: "Annual Securities Report",
		SubmitDateTime: "2024-06-25 09:30",
		XBRLFlag:       "1",
		PDFFlag:        "1",
	}
}

func TestNormalise_AnnualReport(t *testing.T) {
	n := New()

	doc, err := n.Normalise(annualRaw(), observed)
	require.NoError(t, err)

	assert.Equal(t, "S100TEST", doc.ID)
	assert.Equal(t, "7203", doc.Ticker, "ticker is the first four characters of the securities code")
	assert.Equal(t, "Toyota Motor Corporation", doc.CompanyName)
	assert.Equal(t, domain.FilingAnnualReport, doc.FilingType)
	assert.Equal(t, domain.SourceEdinet, doc.Source)
	assert.Equal(t, domain.FormatComplete, doc.Format)
	assert.Equal(t, "2024-06-25", doc.DateString())
}

func TestNormalise_RejectsMissingFilerName(t *testing.T) {
	n := New()
	raw := annualRaw()
	raw.FilerName = "  "

	_, err := n.Normalise(raw, observed)
	assert.ErrorIs(t, err, domain.ErrRecordRejected)
}

func TestNormalise_RejectsUnidentifiableIssuer(t *testing.T) {
	n := New()
	raw := annualRaw()
	raw.SecCode = ""
	raw.EdinetCode = ""

	_, err := n.Normalise(raw, observed)
	assert.ErrorIs(t, err, domain.ErrRecordRejected)
}

func TestNormalise_EdinetCodeFallback(t *testing.T) {
	n := New()
	raw := annualRaw()
	raw.SecCode = ""

	doc, err := n.Normalise(raw, observed)
	require.NoError(t, err)
	assert.Equal(t, "E02144", doc.Ticker)
}

func TestNormalise_GeneratesIDWhenMissing(t *testing.T) {
	n := New()
	raw := annualRaw()
	raw.DocID = ""

	doc, err := n.Normalise(raw, observed)
	require.NoError(t, err)
	_, parseErr := uuid.Parse(doc.ID)
	assert.NoError(t, parseErr, "generated ID is a UUID")
}

func TestNormalise_FormCodes(t *testing.T) {
	tests := []struct {
		name     string
		formCode string
		want     domain.FilingType
	}{
		{"annual", "030000", domain.FilingAnnualReport},
		{"annual amendment", "030001", domain.FilingAnnualReport},
		{"quarterly", "043000", domain.FilingQuarterlyReport},
		{"extraordinary", "120000", domain.FilingCurrentReport},
		{"semi-annual stays other", "050000", domain.OtherFilingType("EDINET form 050000")},
		{"unknown", "999999", domain.OtherFilingType("EDINET form 999999")},
		{"empty", "", domain.OtherFilingType("unknown form")},
	}

	n := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := annualRaw()
			raw.FormCode = tt.formCode

			doc, err := n.Normalise(raw, observed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.FilingType)
		})
	}
}

func TestNormalise_FormatFlags(t *testing.T) {
	tests := []struct {
		name string
		xbrl string
		pdf  string
		want domain.DocumentFormat
	}{
		{"both", "1", "1", domain.FormatComplete},
		{"xbrl only", "1", "0", domain.FormatXBRL},
		{"pdf only", "0", "1", domain.FormatHTML},
		{"neither", "0", "0", domain.FormatText},
	}

	n := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := annualRaw()
			raw.XBRLFlag = tt.xbrl
			raw.PDFFlag = tt.pdf

			doc, err := n.Normalise(raw, observed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Format)
		})
	}
}

func TestNormalise_SubmissionDateFallback(t *testing.T) {
	n := New()
	raw := annualRaw()
	raw.SubmitDateTime = "not a timestamp"

	doc, err := n.Normalise(raw, observed)
	require.NoError(t, err)
	assert.Equal(t, observed, doc.Date, "unparseable timestamps fall back to the crawl date")
}

func TestNormalise_MetadataOmitsEmptyFields(t *testing.T) {
	n := New()

	doc, err := n.Normalise(annualRaw(), observed)
	require.NoError(t, err)

	assert.Equal(t, "S100TEST", doc.Metadata["doc_id"])
	assert.Equal(t, "030000", doc.Metadata["form_code"])
	assert.Equal(t, "Annual Securities Report", doc.Metadata["doc_description"])
	_, hasFund := doc.Metadata["fund_code"]
	assert.False(t, hasFund, "empty provider fields are omitted")
}

func TestNormalise_KeyPrefersRemoteDocID(t *testing.T) {
	n := New()

	doc, err := n.Normalise(annualRaw(), observed)
	require.NoError(t, err)
	assert.Equal(t, "S100TEST", doc.Key())
}
