package domain

import "encoding/json"

type sourceKind uint8

const (
	sourceEdgar sourceKind = iota
	sourceEdinet
	sourceTdnet
	sourceOther
)

// Source identifies the remote disclosure system that produced a record.
type Source struct {
	kind  sourceKind
	label string // raw label, set only for the Other case
}

// Known sources.
var (
	SourceEdgar  = Source{kind: sourceEdgar}
	SourceEdinet = Source{kind: sourceEdinet}
	SourceTdnet  = Source{kind: sourceTdnet}
)

// OtherSource returns the escape case carrying the raw label.
func OtherSource(label string) Source {
	return Source{kind: sourceOther, label: label}
}

// String returns the display name, which is also the stored value.
func (s Source) String() string {
	switch s.kind {
	case sourceEdgar:
		return "EDGAR"
	case sourceEdinet:
		return "EDINET"
	case sourceTdnet:
		return "TDnet"
	default:
		return s.label
	}
}

// MarshalJSON emits the stored string form.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON restores a value produced by MarshalJSON.
func (s *Source) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ParseSource(v)
	return nil
}

// ParseSource maps a stored value back to a Source.
func ParseSource(v string) Source {
	switch v {
	case "EDGAR":
		return SourceEdgar
	case "EDINET":
		return SourceEdinet
	case "TDnet":
		return SourceTdnet
	default:
		return OtherSource(v)
	}
}
