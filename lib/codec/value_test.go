package codec

import (
	"reflect"
	"testing"
)

// TestValueAsMap tests the mapping coercion used by force-mapping reads
func TestValueAsMap(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want map[string]any
	}{
		{"mapping returns payload", MapValue(map[string]any{"a": 1}), map[string]any{"a": 1}},
		{"text coerces to empty mapping", TextValue("not a map"), map[string]any{}},
		{"list coerces to empty mapping", ListValue([]any{1, 2}), map[string]any{}},
		{"zero value coerces to empty mapping", Value{}, map[string]any{}},
		{"nil mapping coerces to empty mapping", Value{Kind: KindMap}, map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.AsMap()
			if got == nil {
				t.Fatalf("AsMap() returned nil, want non-nil mapping")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AsMap() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// TestValueAsList tests list access
func TestValueAsList(t *testing.T) {
	if got := ListValue([]any{"a"}).AsList(); !reflect.DeepEqual(got, []any{"a"}) {
		t.Errorf("AsList() = %#v, want [a]", got)
	}
	if got := TextValue("x").AsList(); got != nil {
		t.Errorf("AsList() on text = %#v, want nil", got)
	}
}

// TestValueIsEmpty tests the empty check across kinds
func TestValueIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"zero value", Value{}, true},
		{"empty text", TextValue(""), true},
		{"text", TextValue("x"), false},
		{"empty list", ListValue(nil), true},
		{"list", ListValue([]any{1}), false},
		{"empty mapping", MapValue(map[string]any{}), true},
		{"mapping", MapValue(map[string]any{"a": 1}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestValueString tests log rendering of values
func TestValueString(t *testing.T) {
	if got := TextValue("plain").String(); got != "plain" {
		t.Errorf("String() = %q, want %q", got, "plain")
	}
	if got := MapValue(map[string]any{"a": 1}).String(); got != `{"a":1}` {
		t.Errorf("String() = %q, want %q", got, `{"a":1}`)
	}
}

// TestKindString tests the kind names
func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindText, "text"},
		{KindList, "list"},
		{KindMap, "map"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
