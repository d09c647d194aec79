// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notion-export/pkg/types"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List the pages of the database without exporting",
	RunE:  runPages,
}

func init() {
	pagesCmd.Flags().Bool("published", false, "list published pages only, with their frontmatter")
	pagesCmd.Flags().Bool("json", false, "output pages as JSON")

	rootCmd.AddCommand(pagesCmd)
}

func runPages(cmd *cobra.Command, args []string) error {
	cfg := notionConfig()
	if cfg.APIKey == "" {
		return fmt.Errorf("notion API key is required (--key, NOTION_EXPORT_NOTION_API_KEY, or .secrets/notion-api-key)")
	}
	if cfg.DatabaseID == "" {
		return fmt.Errorf("database ID is required (--db)")
	}

	published, _ := cmd.Flags().GetBool("published")
	caps := types.Capabilities{Frontmatter: published, Summary: viper.GetBool("export.summary")}

	pages, err := newNotionClient(cfg).QueryDatabase(cmd.Context(), cfg.DatabaseID, caps)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPages(os.Stdout, pages, jsonOutput)
}

func formatPages(w io.Writer, pages []types.Page, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pages)
	}

	if len(pages) == 0 {
		fmt.Fprintln(w, "No pages found.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-9s  %s\n", "ID", "Published", "Title")
	for _, p := range pages {
		published := "no"
		if p.Published {
			published = "yes"
		}
		fmt.Fprintf(w, "%-36s  %-9s  %s\n", p.ID, published, p.Title)
	}
	fmt.Fprintf(w, "\n%d pages\n", len(pages))
	return nil
}
