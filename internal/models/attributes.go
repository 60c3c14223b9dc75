package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AttributeKind discriminates an attribute's value type.
type AttributeKind string

const (
	KindText        AttributeKind = "text"
	KindNumber      AttributeKind = "number"
	KindSelect      AttributeKind = "select"
	KindMultiSelect AttributeKind = "multiselect"
	KindRange       AttributeKind = "range"
	KindBoolean     AttributeKind = "boolean"
)

// ValidKind reports whether k is one of the recognized attribute kinds.
func ValidKind(k AttributeKind) bool {
	switch k {
	case KindText, KindNumber, KindSelect, KindMultiSelect, KindRange, KindBoolean:
		return true
	}
	return false
}

// Attribute is one entry of a listing's schemaless spec sheet. Exactly one of
// the value fields is meaningful, selected by Kind: Text for text/select,
// Number for number/range, Options for multiselect, Flag for boolean.
type Attribute struct {
	Label         string
	Kind          AttributeKind
	Unit          string
	FilterEnabled bool

	Text    string
	Number  float64
	Options []string
	Flag    bool
}

// Value returns the attribute's value as an untyped interface, for callers
// that do not branch on Kind.
func (a Attribute) Value() interface{} {
	switch a.Kind {
	case KindText, KindSelect:
		return a.Text
	case KindNumber, KindRange:
		return a.Number
	case KindMultiSelect:
		return a.Options
	case KindBoolean:
		return a.Flag
	}
	return nil
}

type attributeWire struct {
	Label         string          `json:"label"`
	Value         json.RawMessage `json:"value"`
	Kind          AttributeKind   `json:"kind"`
	Unit          string          `json:"unit,omitempty"`
	FilterEnabled bool            `json:"filterEnabled"`
}

// MarshalJSON encodes the attribute in the wire shape
// {label, value, kind, unit?, filterEnabled}.
func (a Attribute) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(a.Value())
	if err != nil {
		return nil, err
	}
	return json.Marshal(attributeWire{
		Label:         a.Label,
		Value:         raw,
		Kind:          a.Kind,
		Unit:          a.Unit,
		FilterEnabled: a.FilterEnabled,
	})
}

// UnmarshalJSON decodes the wire shape, validating the kind and coercing the
// value field accordingly. A multiselect value may arrive as either a single
// string or an array of strings.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var w attributeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !ValidKind(w.Kind) {
		return fmt.Errorf("unknown attribute kind: %q", w.Kind)
	}

	out := Attribute{
		Label:         w.Label,
		Kind:          w.Kind,
		Unit:          w.Unit,
		FilterEnabled: w.FilterEnabled,
	}

	if len(w.Value) == 0 || string(w.Value) == "null" {
		return fmt.Errorf("attribute %q: missing value", w.Label)
	}

	switch w.Kind {
	case KindText, KindSelect:
		if err := json.Unmarshal(w.Value, &out.Text); err != nil {
			return fmt.Errorf("attribute %q: expected string value: %w", w.Label, err)
		}
	case KindNumber, KindRange:
		if err := json.Unmarshal(w.Value, &out.Number); err != nil {
			return fmt.Errorf("attribute %q: expected numeric value: %w", w.Label, err)
		}
	case KindMultiSelect:
		if err := json.Unmarshal(w.Value, &out.Options); err != nil {
			var single string
			if err2 := json.Unmarshal(w.Value, &single); err2 != nil {
				return fmt.Errorf("attribute %q: expected string array value: %w", w.Label, err)
			}
			out.Options = []string{single}
		}
	case KindBoolean:
		if err := json.Unmarshal(w.Value, &out.Flag); err != nil {
			return fmt.Errorf("attribute %q: expected boolean value: %w", w.Label, err)
		}
	}

	*a = out
	return nil
}

// AttributeMap is a listing's attribute key -> Attribute mapping, persisted
// as a JSONB column.
type AttributeMap map[string]Attribute

// Value implements driver.Valuer for JSONB storage.
func (m AttributeMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage.
func (m *AttributeMap) Scan(src interface{}) error {
	if src == nil {
		*m = AttributeMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AttributeMap", src)
	}
	return json.Unmarshal(data, m)
}
