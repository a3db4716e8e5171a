// Package edinet normalises raw EDINET listing records into canonical
// documents. Normalisation is pure: no I/O, no partial state, so every
// mapping rule is unit-testable in isolation.
package edinet

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser maps raw EDINET records to documents.
type Normaliser struct{}

// New creates an EDINET normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise validates and converts one raw record.
//
// Identity rules: the filer name is required; the ticker comes from the
// first four characters of the securities code, falling back to the
// filer's EDINET code. A record with neither is unidentifiable and is
// rejected. A record without a docID but otherwise identifiable gets a
// generated UUID, so late-disclosed filings still index.
func (n *Normaliser) Normalise(raw domain.RawFiling, observed time.Time) (*domain.Document, error) {
	if strings.TrimSpace(raw.FilerName) == "" {
		return nil, fmt.Errorf("%w: missing filer name", domain.ErrRecordRejected)
	}

	ticker := extractTicker(raw.SecCode)
	if ticker == "" {
		ticker = raw.EdinetCode
	}
	if ticker == "" {
		return nil, fmt.Errorf("%w: no securities code or EDINET code", domain.ErrRecordRejected)
	}

	id := raw.DocID
	if id == "" {
		id = uuid.New().String()
	}

	doc := &domain.Document{
		ID:          id,
		Ticker:      ticker,
		CompanyName: raw.FilerName,
		FilingType:  mapFormCode(raw.FormCode),
		Source:      domain.SourceEdinet,
		Date:        submissionDate(raw.SubmitDateTime, observed),
		Metadata:    flattenMetadata(raw),
		Format:      mapFormat(raw),
	}
	return doc, nil
}

// extractTicker takes the first four characters of the securities code.
func extractTicker(secCode string) string {
	if secCode == "" {
		return ""
	}
	runes := []rune(secCode)
	if len(runes) > 4 {
		runes = runes[:4]
	}
	return string(runes)
}

// mapFormCode maps an EDINET form code to a filing type by 3-digit
// prefix. Unrecognised codes survive through the Other case; dropping
// them would lose real filings.
//
// 030 = annual securities report, 043 = quarterly securities report,
// 120 = extraordinary report. Semi-annual reports (050) intentionally
// fall through to Other.
func mapFormCode(formCode string) domain.FilingType {
	switch {
	case formCode == "":
		return domain.OtherFilingType("unknown form")
	case strings.HasPrefix(formCode, "030"):
		return domain.FilingAnnualReport
	case strings.HasPrefix(formCode, "043"):
		return domain.FilingQuarterlyReport
	case strings.HasPrefix(formCode, "120"):
		return domain.FilingCurrentReport
	default:
		return domain.OtherFilingType("EDINET form " + formCode)
	}
}

// mapFormat derives the document format from the independent
// availability flags. Both renditions present means the complete
// archive is worth fetching; the PDF rendition on EDINET is HTML-based.
func mapFormat(raw domain.RawFiling) domain.DocumentFormat {
	hasXBRL := raw.XBRLFlag == "1"
	hasPDF := raw.PDFFlag == "1"

	switch {
	case hasXBRL && hasPDF:
		return domain.FormatComplete
	case hasXBRL:
		return domain.FormatXBRL
	case hasPDF:
		return domain.FormatHTML
	default:
		return domain.FormatText
	}
}

// submissionDate parses the date part of "YYYY-MM-DD HH:MM" timestamps,
// falling back to the observed crawl date.
func submissionDate(submitDateTime string, observed time.Time) time.Time {
	if submitDateTime == "" {
		return midnight(observed)
	}
	datePart := submitDateTime
	if idx := strings.IndexByte(submitDateTime, ' '); idx > 0 {
		datePart = submitDateTime[:idx]
	}
	parsed, err := time.Parse(domain.DateLayout, datePart)
	if err != nil {
		return midnight(observed)
	}
	return parsed
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// flattenMetadata carries every provider field not promoted to a
// first-class column, verbatim under a stable snake_case key. Empty
// fields are omitted.
func flattenMetadata(raw domain.RawFiling) map[string]string {
	fields := map[string]string{
		"doc_id":                 raw.DocID,
		"edinet_code":            raw.EdinetCode,
		"sec_code":               raw.SecCode,
		"jcn":                    raw.JCN,
		"fund_code":              raw.FundCode,
		"ordinance_code":         raw.OrdinanceCode,
		"form_code":              raw.FormCode,
		"doc_type_code":          raw.DocTypeCode,
		"period_start":           raw.PeriodStart,
		"period_end":             raw.PeriodEnd,
		"doc_description":        raw.DocDescription,
		"issuer_edinet_code":     raw.IssuerEdinetCode,
		"subject_edinet_code":    raw.SubjectEdinetCode,
		"subsidiary_edinet_code": raw.SubsidiaryEdinetCode,
		"current_report_reason":  raw.CurrentReportReason,
		"parent_doc_id":          raw.ParentDocID,
		"ope_date_time":          raw.OpeDateTime,
		"withdrawal_status":      raw.WithdrawalStatus,
		"doc_info_edit_status":   raw.DocInfoEditStatus,
		"disclosure_status":      raw.DisclosureStatus,
		"xbrl_flag":              raw.XBRLFlag,
		"pdf_flag":               raw.PDFFlag,
		"attach_doc_flag":        raw.AttachDocFlag,
		"english_flag":           raw.EnglishFlag,
		"csv_flag":               raw.CSVFlag,
		"legal_status":           raw.LegalStatus,
	}

	metadata := make(map[string]string)
	for k, v := range fields {
		if v != "" {
			metadata[k] = v
		}
	}
	return metadata
}
