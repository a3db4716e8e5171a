package domain

import "encoding/json"

type formatKind uint8

// formatComplete is first so the zero value of DocumentFormat is the
// complete archive.
const (
	formatComplete formatKind = iota
	formatText
	formatHTML
	formatXBRL
	formatIXBRL
	formatOther
)

// DocumentFormat describes which renditions a filing offers: plain
// text, rendered HTML, structured XBRL data, inline XBRL, or the
// complete archive carrying several of them.
type DocumentFormat struct {
	kind  formatKind
	label string // raw label, set only for the Other case
}

// Known formats.
var (
	FormatText     = DocumentFormat{kind: formatText}
	FormatHTML     = DocumentFormat{kind: formatHTML}
	FormatXBRL     = DocumentFormat{kind: formatXBRL}
	FormatIXBRL    = DocumentFormat{kind: formatIXBRL}
	FormatComplete = DocumentFormat{kind: formatComplete}
)

// OtherFormat returns the escape case carrying the raw label.
func OtherFormat(label string) DocumentFormat {
	return DocumentFormat{kind: formatOther, label: label}
}

// String returns the stored value.
func (f DocumentFormat) String() string {
	switch f.kind {
	case formatText:
		return "txt"
	case formatHTML:
		return "html"
	case formatXBRL:
		return "xbrl"
	case formatIXBRL:
		return "ixbrl"
	case formatComplete:
		return "complete"
	default:
		return f.label
	}
}

// FileExtension returns the extension used for downloaded artifacts.
func (f DocumentFormat) FileExtension() string {
	switch f.kind {
	case formatText:
		return "txt"
	case formatHTML, formatIXBRL:
		return "htm"
	case formatXBRL:
		return "xml"
	default:
		// Mixed and unknown formats are delivered as archives.
		return "zip"
	}
}

// MarshalJSON emits the stored string form.
func (f DocumentFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON restores a value produced by MarshalJSON.
func (f *DocumentFormat) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = ParseDocumentFormat(v)
	return nil
}

// ParseDocumentFormat maps a stored value back to a DocumentFormat.
func ParseDocumentFormat(v string) DocumentFormat {
	switch v {
	case "txt":
		return FormatText
	case "html":
		return FormatHTML
	case "xbrl":
		return FormatXBRL
	case "ixbrl":
		return FormatIXBRL
	case "complete", "":
		return FormatComplete
	default:
		return OtherFormat(v)
	}
}
