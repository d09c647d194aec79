// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) ExportConfig {
	t.Helper()
	return ExportConfig{
		Notion:     NotionConfig{APIKey: "secret"},
		ContentDir: t.TempDir(),
		StaticDir:  t.TempDir(),
		StaticURL:  "/images",
	}
}

func TestValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	missing := filepath.Join(t.TempDir(), "missing")

	tests := []struct {
		name    string
		mutate  func(c *ExportConfig)
		wantErr string
	}{
		{"valid", func(c *ExportConfig) {}, ""},
		{"yaml format", func(c *ExportConfig) { c.Format = FrontmatterYAML }, ""},
		{"missing key", func(c *ExportConfig) { c.Notion.APIKey = "" }, "API key is required"},
		{"missing url", func(c *ExportConfig) { c.StaticURL = "" }, "static URL is required"},
		{"empty content dir", func(c *ExportConfig) { c.ContentDir = "" }, "--content directory is required"},
		{"missing static dir", func(c *ExportConfig) { c.StaticDir = missing }, "the directory '" + missing + "' does not exist"},
		{"content is a file", func(c *ExportConfig) { c.ContentDir = file }, "is not a directory"},
		{"bad format", func(c *ExportConfig) { c.Format = "toml" }, `unsupported frontmatter format "toml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCountBlocks(t *testing.T) {
	blocks := []Block{
		{ID: "a", Children: []Block{{ID: "b"}, {ID: "c", Children: []Block{{ID: "d"}}}}},
		{ID: "e"},
	}
	assert.Equal(t, 5, CountBlocks(blocks))
	assert.Equal(t, 0, CountBlocks(nil))
}

func TestPlainText(t *testing.T) {
	spans := []RichText{{PlainText: "Hello, "}, {PlainText: "world", Annotations: Annotations{Bold: true}}}
	assert.Equal(t, "Hello, world", PlainText(spans))
}

func TestAnnotationsHighlighted(t *testing.T) {
	assert.True(t, Annotations{Color: "yellow_background"}.Highlighted())
	assert.False(t, Annotations{Color: "yellow"}.Highlighted())
	assert.False(t, Annotations{}.Highlighted())
}
