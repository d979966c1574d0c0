package codec

import "encoding/json"

// --------------------------------------------------------------------------
// Value Kind
// --------------------------------------------------------------------------

// Kind identifies the shape of a decoded Value
type Kind uint8

const (
	// KindText is plain text, returned verbatim as stored
	KindText Kind = iota
	// KindList is a decoded JSON array
	KindList
	// KindMap is a decoded JSON object
	KindMap
)

// String returns a human-readable name of the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Value
// --------------------------------------------------------------------------

// Value is the tagged result of decoding a wire string. Exactly one of the
// payload fields is meaningful, selected by Kind. The zero value is empty
// text.
type Value struct {
	Kind    Kind           // Shape of the decoded value
	Text    string         // Set when Kind == KindText
	List    []any          // Set when Kind == KindList
	Mapping map[string]any // Set when Kind == KindMap
}

// TextValue wraps a plain string into a Value
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// ListValue wraps a decoded list into a Value
func ListValue(items []any) Value {
	return Value{Kind: KindList, List: items}
}

// MapValue wraps a decoded mapping into a Value
func MapValue(m map[string]any) Value {
	return Value{Kind: KindMap, Mapping: m}
}

// IsStructured reports whether the value decoded into a list or mapping
func (v Value) IsStructured() bool {
	return v.Kind == KindList || v.Kind == KindMap
}

// IsEmpty reports whether the value carries no data: empty text, empty list
// or empty mapping
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindList:
		return len(v.List) == 0
	case KindMap:
		return len(v.Mapping) == 0
	default:
		return v.Text == ""
	}
}

// AsMap coerces the value into a mapping. Non-mapping values (including
// lists and plain text) yield an empty, non-nil mapping so that callers can
// index the result without further checks.
func (v Value) AsMap() map[string]any {
	if v.Kind == KindMap && v.Mapping != nil {
		return v.Mapping
	}
	return map[string]any{}
}

// AsList returns the decoded list, or nil if the value is not a list
func (v Value) AsList() []any {
	if v.Kind == KindList {
		return v.List
	}
	return nil
}

// Interface returns the decoded value as a plain interface: string for text,
// []any for lists and map[string]any for mappings
func (v Value) Interface() any {
	switch v.Kind {
	case KindList:
		return v.List
	case KindMap:
		return v.Mapping
	default:
		return v.Text
	}
}

// String renders the value for logging: text verbatim, structured values
// re-encoded as JSON
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	default:
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return ""
		}
		return string(b)
	}
}
