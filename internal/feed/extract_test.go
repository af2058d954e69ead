package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	item := Item{
		"Name":        map[string]any{"#text": "  Air Max 90  "},
		"Brand":       "Nike ",
		"Price":       599.9,
		"Stock":       12,
		"Ean":         []any{map[string]any{"#text": "0123"}, map[string]any{"#text": "0456"}},
		"Empty":       []any{},
		"Null":        nil,
		"NoText":      map[string]any{},
		"NullText":    map[string]any{"#text": nil},
		"Underscore":  map[string]any{"_text": " legacy "},
		"Attributes":  map[string]any{"@_lang": "no"},
		"NestedList":  []any{[]any{"x"}},
		"Flag":        true,
		"Unsupported": struct{}{},
	}

	tests := []struct {
		field    string
		expected string
	}{
		{"Name", "Air Max 90"},
		{"Brand", "Nike"},
		{"Price", "599.9"},
		{"Stock", "12"},
		{"Ean", "0123"},
		{"Empty", ""},
		{"Null", ""},
		{"Missing", ""},
		{"NoText", ""},
		{"NullText", ""},
		{"Underscore", "legacy"},
		{"Attributes", ""},
		{"NestedList", ""},
		{"Flag", "true"},
		{"Unsupported", ""},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.expected, Get(item, tt.field))
		})
	}
}

func TestGetNilItem(t *testing.T) {
	assert.Equal(t, "", Get(nil, "Name"))
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "42", Text(int64(42)))
	assert.Equal(t, "0", Text(0.0))
	assert.Equal(t, "1.5", Text(float32(1.5)))
	assert.Equal(t, "", Text(map[string]any{"#text": map[string]any{"#text": "x"}}))
}
