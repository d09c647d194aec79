// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"os"
	"time"
)

// HTTPConfig holds shared HTTP settings used by every remote call.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "notion-export/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// RateLimit is the maximum number of API requests per second shared by
	// all workers. The remote API documents an average of 3.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
}

// NotionConfig identifies the remote source and authenticates against it.
type NotionConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the integration token sent as a Bearer credential.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Version is the Notion-Version header value (default "2022-06-28").
	Version string `json:"version" yaml:"version"`

	// DatabaseID is the database whose pages are exported.
	DatabaseID string `json:"database_id" yaml:"database_id"`
}

// Capabilities selects optional rendering behavior. It replaces the
// separate "blog" and "plain" exporter variants with one engine.
type Capabilities struct {
	// Frontmatter emits page metadata and restricts export to published pages.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter"`

	// Media enables video and embed block handling. When disabled those
	// blocks take the generic rich-text path.
	Media bool `json:"media" yaml:"media"`

	// Summary includes the summary property in the frontmatter.
	Summary bool `json:"summary" yaml:"summary"`
}

// FrontmatterFormat selects how page metadata is encoded.
type FrontmatterFormat string

const (
	FrontmatterJSON FrontmatterFormat = "json"
	FrontmatterYAML FrontmatterFormat = "yaml"
)

// DefaultWorkers bounds the page worker pool. It follows the remote rate
// limit, not the number of CPUs.
const DefaultWorkers = 3

// ExportConfig holds everything one export run needs. It is built once in
// the CLI and passed down explicitly.
type ExportConfig struct {
	Notion NotionConfig `json:"notion" yaml:"notion"`

	// ContentDir receives one markup file per page.
	ContentDir string `json:"content_dir" yaml:"content_dir"`

	// StaticDir receives downloaded assets.
	StaticDir string `json:"static_dir" yaml:"static_dir"`

	// StaticURL is the public prefix under which StaticDir is served.
	StaticURL string `json:"static_url" yaml:"static_url"`

	// Extension is the output file extension without the dot (default "md").
	Extension string `json:"extension" yaml:"extension"`

	// Format selects the frontmatter encoding.
	Format FrontmatterFormat `json:"frontmatter_format" yaml:"frontmatter_format"`

	Capabilities `yaml:",inline"`

	// Workers is the number of pages processed in parallel.
	Workers int `json:"workers" yaml:"workers"`
}

// Validate checks required settings and that the output directories exist.
// It runs before any remote call so a bad setup fails at startup.
func (c ExportConfig) Validate() error {
	if c.Notion.APIKey == "" {
		return fmt.Errorf("notion API key is required (--key, NOTION_EXPORT_NOTION_API_KEY, or .secrets/notion-api-key)")
	}
	if c.StaticURL == "" {
		return fmt.Errorf("static URL is required (--url)")
	}
	for _, dir := range []struct{ flag, path string }{
		{"--content", c.ContentDir},
		{"--static", c.StaticDir},
	} {
		if dir.path == "" {
			return fmt.Errorf("%s directory is required", dir.flag)
		}
		info, err := os.Stat(dir.path)
		if err != nil {
			return fmt.Errorf("the directory '%s' does not exist", dir.path)
		}
		if !info.IsDir() {
			return fmt.Errorf("'%s' is not a directory", dir.path)
		}
	}
	switch c.Format {
	case "", FrontmatterJSON, FrontmatterYAML:
	default:
		return fmt.Errorf("unsupported frontmatter format %q: use json or yaml", c.Format)
	}
	return nil
}
