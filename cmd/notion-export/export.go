// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notion-export/internal/asset"
	"github.com/pdiddy/notion-export/internal/export"
	"github.com/pdiddy/notion-export/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export database pages to Markdown files",
	Long: `Export queries the database, then fetches, renders, and writes every page
in parallel on a small worker pool. Pages are written to
{content}/{page_id}.md; images are downloaded on every run, videos only when
missing from {static}. A failing page is reported and the remaining pages
continue; the command exits non-zero if any page failed.

Use --page to export specific pages without querying the database.`,
	RunE: runExport,
}

func init() {
	flags := exportCmd.Flags()
	flags.String("static", "", "static directory for downloaded assets")
	flags.String("url", "", "public URL prefix of the static directory")
	flags.String("content", "", "content directory for Markdown output")
	flags.String("extension", "md", "output file extension")
	flags.Bool("hugo", false, "emit frontmatter and export published pages only")
	flags.String("frontmatter-format", "json", "frontmatter encoding: json or yaml")
	flags.Bool("media", true, "render video and embed blocks")
	flags.Bool("summary", true, "include the Summary property in frontmatter")
	flags.Int("workers", types.DefaultWorkers, "pages exported in parallel")
	flags.StringSlice("page", nil, "export only these page IDs")

	mustBind("export.static_dir", flags.Lookup("static"))
	mustBind("export.static_url", flags.Lookup("url"))
	mustBind("export.content_dir", flags.Lookup("content"))
	mustBind("export.extension", flags.Lookup("extension"))
	mustBind("export.frontmatter", flags.Lookup("hugo"))
	mustBind("export.frontmatter_format", flags.Lookup("frontmatter-format"))
	mustBind("export.media", flags.Lookup("media"))
	mustBind("export.summary", flags.Lookup("summary"))
	mustBind("export.workers", flags.Lookup("workers"))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := exportConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	pageIDs, _ := cmd.Flags().GetStringSlice("page")
	if cfg.Notion.DatabaseID == "" && len(pageIDs) == 0 {
		return fmt.Errorf("provide a database ID (--db) or one or more --page IDs")
	}

	ctx := cmd.Context()
	out := export.SyncWriter(os.Stdout)
	client := newNotionClient(cfg.Notion)

	var pages []types.Page
	if len(pageIDs) > 0 {
		for _, id := range pageIDs {
			pages = append(pages, types.Page{ID: id})
		}
	} else {
		var err error
		pages, err = client.QueryDatabase(ctx, cfg.Notion.DatabaseID, cfg.Capabilities)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "found %d page(s)\n", len(pages))

	store, err := openManifest()
	if err != nil {
		return err
	}
	var recorder export.Recorder
	if store != nil {
		defer store.Close()
		recorder = store
	}

	// Asset downloads are not API calls: no rate limit, no overall timeout.
	mat := asset.New(&http.Client{}, cfg.StaticDir, cfg.StaticURL, out)

	result := export.New(client, mat, recorder, cfg, out).ExportAll(ctx, pages)
	if result.HasFailures() {
		return fmt.Errorf("%d page(s) failed export", result.Failed)
	}
	return nil
}
