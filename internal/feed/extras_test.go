package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func text(s string) map[string]any {
	return map[string]any{"#text": s}
}

func TestNewExtras(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		field    string
		expected string
	}{
		{
			name: "parallel lists",
			item: Item{"Extras": map[string]any{
				"Name":  []any{text("color"), text("size")},
				"Value": []any{text("Black"), text("42")},
			}},
			field:    "size",
			expected: "42",
		},
		{
			name: "case insensitive name",
			item: Item{"Extras": map[string]any{
				"Name":  []any{text("Color")},
				"Value": []any{text("Red")},
			}},
			field:    "COLOR",
			expected: "Red",
		},
		{
			name: "single bare pair",
			item: Item{"Extras": map[string]any{
				"Name":  text("gender"),
				"Value": text("female"),
			}},
			field:    "gender",
			expected: "female",
		},
		{
			name: "first occurrence wins",
			item: Item{"Extras": map[string]any{
				"Name":  []any{text("size"), text("SIZE")},
				"Value": []any{text("M"), text("L")},
			}},
			field:    "size",
			expected: "M",
		},
		{
			name: "names longer than values",
			item: Item{"Extras": map[string]any{
				"Name":  []any{text("color"), text("size"), text("condition")},
				"Value": []any{text("Blue")},
			}},
			field:    "size",
			expected: "",
		},
		{
			name: "values longer than names",
			item: Item{"Extras": map[string]any{
				"Name":  []any{text("color")},
				"Value": []any{text("Blue"), text("XL"), text("new")},
			}},
			field:    "color",
			expected: "Blue",
		},
		{
			name: "empty value element keeps alignment",
			item: Item{"Extras": map[string]any{
				"Name":  []any{text("color"), text("size")},
				"Value": []any{map[string]any{}, text("44")},
			}},
			field:    "size",
			expected: "44",
		},
		{
			name:     "no extras",
			item:     Item{"Name": text("Shoe")},
			field:    "color",
			expected: "",
		},
		{
			name:     "malformed extras",
			item:     Item{"Extras": "color=red"},
			field:    "color",
			expected: "",
		},
		{
			name:     "missing values list",
			item:     Item{"Extras": map[string]any{"Name": text("color")}},
			field:    "color",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.expected, NewExtras(tt.item).Get(tt.field))
				assert.Equal(t, tt.expected, ExtractExtra(tt.item, tt.field))
			})
		})
	}
}

func TestNewExtrasNilItem(t *testing.T) {
	assert.Empty(t, NewExtras(nil))
}
