package domain

// RawFiling represents one record exactly as the EDINET document
// listing endpoint returns it. Every field except the sequence number
// is nullable on the wire; absent fields decode to the empty string.
// It is the normaliser's input before promotion to Document.
type RawFiling struct {
	// SeqNumber is the ordinal position within the day's response.
	SeqNumber int `json:"seqNumber"`

	// DocID is the remote document identifier, required for download.
	DocID string `json:"docID"`

	// EdinetCode identifies the filer within EDINET.
	EdinetCode string `json:"edinetCode"`

	// SecCode is the securities code; its first four characters are
	// the ticker symbol.
	SecCode string `json:"secCode"`

	// JCN is the Japanese Corporate Number.
	JCN string `json:"JCN"`

	// FilerName is the company name.
	FilerName string `json:"filerName"`

	// FundCode is set for fund filings.
	FundCode string `json:"fundCode"`

	// OrdinanceCode and FormCode together identify the filing form.
	OrdinanceCode string `json:"ordinanceCode"`
	FormCode      string `json:"formCode"`

	// DocTypeCode is the coarse document type classification.
	DocTypeCode string `json:"docTypeCode"`

	// PeriodStart and PeriodEnd bound the reporting period.
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`

	// SubmitDateTime is the submission timestamp, "YYYY-MM-DD HH:MM".
	SubmitDateTime string `json:"submitDateTime"`

	// DocDescription is the human-readable filing description.
	DocDescription string `json:"docDescription"`

	// Issuer/subject/subsidiary codes for filings about other parties.
	IssuerEdinetCode     string `json:"issuerEdinetCode"`
	SubjectEdinetCode    string `json:"subjectEdinetCode"`
	SubsidiaryEdinetCode string `json:"subsidiaryEdinetCode"`

	// CurrentReportReason is set on extraordinary reports.
	CurrentReportReason string `json:"currentReportReason"`

	// ParentDocID links amendments to the original filing.
	ParentDocID string `json:"parentDocID"`

	// OpeDateTime is the operation timestamp for withdrawn or
	// amended filings.
	OpeDateTime string `json:"opeDateTime"`

	// Status flags.
	WithdrawalStatus  string `json:"withdrawalStatus"`
	DocInfoEditStatus string `json:"docInfoEditStatus"`
	DisclosureStatus  string `json:"disclosureStatus"`

	// Availability flags, "1" when the rendition exists.
	XBRLFlag      string `json:"xbrlFlag"`
	PDFFlag       string `json:"pdfFlag"`
	AttachDocFlag string `json:"attachDocFlag"`
	EnglishFlag   string `json:"englishDocFlag"`
	CSVFlag       string `json:"csvFlag"`

	// LegalStatus indicates whether the statutory filing period is open.
	LegalStatus string `json:"legalStatus"`
}
