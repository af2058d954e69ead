package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGroupSchema(t *testing.T) {
	tests := []struct {
		group string
		defs  []string
	}{
		{"catalog", []string{"ProductVariantRecord", "Outcome", "Result"}},
		{"trigger", []string{"Request", "Response"}},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			var group SchemaGroup
			for _, g := range groups {
				if g.Name == tt.group {
					group = g
				}
			}
			require.NotEmpty(t, group.Name)

			schema := generateGroupSchema(group)
			defs, ok := schema["$defs"].(map[string]any)
			require.True(t, ok)
			for _, name := range tt.defs {
				assert.Contains(t, defs, name)
			}
		})
	}
}

func TestWriteSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, writeSchema(generateGroupSchema(groups[0]), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Catalog Types", decoded["title"])
}
