// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/notion-export/internal/httputil"
	"github.com/pdiddy/notion-export/internal/manifest"
	"github.com/pdiddy/notion-export/internal/notion"
	"github.com/pdiddy/notion-export/internal/secrets"
	"github.com/pdiddy/notion-export/pkg/types"
)

const defaultTimeout = 60 * time.Second

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag.Name, err))
	}
}

// notionConfig resolves API settings from flags, config file, environment,
// and .secrets/, in that order of precedence.
func notionConfig() types.NotionConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return types.NotionConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "notion-export/" + version,
			RateLimit: viper.GetFloat64("http.rate_limit"),
		},
		APIKey:     loadedSecrets.Resolve(secrets.NotionAPIKey, viper.GetString("notion.api_key")),
		Version:    viper.GetString("notion.version"),
		DatabaseID: viper.GetString("notion.database_id"),
	}
}

func exportConfig() types.ExportConfig {
	return types.ExportConfig{
		Notion:     notionConfig(),
		ContentDir: viper.GetString("export.content_dir"),
		StaticDir:  viper.GetString("export.static_dir"),
		StaticURL:  viper.GetString("export.static_url"),
		Extension:  viper.GetString("export.extension"),
		Format:     types.FrontmatterFormat(viper.GetString("export.frontmatter_format")),
		Capabilities: types.Capabilities{
			Frontmatter: viper.GetBool("export.frontmatter"),
			Media:       viper.GetBool("export.media"),
			Summary:     viper.GetBool("export.summary"),
		},
		Workers: viper.GetInt("export.workers"),
	}
}

// newNotionClient builds an API client whose requests share one limiter.
func newNotionClient(cfg types.NotionConfig) *notion.Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return notion.NewClient(httpClient, cfg, httputil.NewLimiter(cfg.RateLimit))
}

// openManifest opens the configured manifest, or returns nil when the
// manifest is disabled.
func openManifest() (*manifest.Store, error) {
	path := viper.GetString("manifest")
	if path == "" {
		return nil, nil
	}
	return manifest.Open(path)
}
