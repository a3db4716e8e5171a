package domain

import "encoding/json"

type filingKind uint8

const (
	filingAnnual filingKind = iota
	filingQuarterly
	filingCurrent
	filingTranscript
	filingPressRelease
	filingOther
)

// FilingType is the closed set of filing classifications. Unrecognised
// provider codes are preserved through the Other case rather than being
// collapsed into a catch-all string, so the raw label survives a
// store round-trip.
type FilingType struct {
	kind  filingKind
	label string // raw label, set only for the Other case
}

// Known filing types.
var (
	FilingAnnualReport    = FilingType{kind: filingAnnual}
	FilingQuarterlyReport = FilingType{kind: filingQuarterly}
	FilingCurrentReport   = FilingType{kind: filingCurrent}
	FilingTranscript      = FilingType{kind: filingTranscript}
	FilingPressRelease    = FilingType{kind: filingPressRelease}
)

// OtherFilingType returns the escape case carrying the raw provider label.
func OtherFilingType(label string) FilingType {
	return FilingType{kind: filingOther, label: label}
}

// IsOther reports whether this is the escape case.
func (t FilingType) IsOther() bool {
	return t.kind == filingOther
}

// String returns the display name, which is also the stored value.
func (t FilingType) String() string {
	switch t.kind {
	case filingAnnual:
		return "Annual Report"
	case filingQuarterly:
		return "Quarterly Report"
	case filingCurrent:
		return "Current Report"
	case filingTranscript:
		return "Transcript"
	case filingPressRelease:
		return "Press Release"
	default:
		return t.label
	}
}

// MarshalJSON emits the stored string form.
func (t FilingType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON restores a value produced by MarshalJSON.
func (t *FilingType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseFilingType(s)
	return nil
}

// ParseFilingType maps a stored value back to a FilingType.
// Unknown values round-trip through the Other case.
func ParseFilingType(s string) FilingType {
	switch s {
	case "Annual Report":
		return FilingAnnualReport
	case "Quarterly Report":
		return FilingQuarterlyReport
	case "Current Report":
		return FilingCurrentReport
	case "Transcript":
		return FilingTranscript
	case "Press Release":
		return FilingPressRelease
	default:
		return OtherFilingType(s)
	}
}
