// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notion-export/internal/manifest"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the outcome of previous exports",
	Long: `Status reads the export manifest and lists the last recorded outcome of
every page: output path, block and asset counts, and the error of failed
pages. Use --json or --yaml to dump the full manifest including assets.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("failed", false, "list failed pages only")
	statusCmd.Flags().Bool("json", false, "dump the manifest as JSON")
	statusCmd.Flags().Bool("yaml", false, "dump the manifest as YAML")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := openManifest()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("manifest is disabled: set --manifest")
	}
	defer store.Close()

	ctx := cmd.Context()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return store.ExportJSON(ctx, os.Stdout)
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return store.ExportYAML(ctx, os.Stdout)
	}

	var status manifest.Status
	if failed, _ := cmd.Flags().GetBool("failed"); failed {
		status = manifest.StatusFailed
	}
	records, err := store.Pages(ctx, status)
	if err != nil {
		return err
	}
	formatStatus(os.Stdout, records)
	return nil
}

func formatStatus(w io.Writer, records []manifest.PageRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No exports recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-8s  %6s  %6s  %-20s  %s\n",
		"Page", "Status", "Blocks", "Assets", "Exported", "Detail")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	failed := 0
	for _, r := range records {
		detail := r.Path
		if r.Status == manifest.StatusFailed {
			failed++
			detail = r.Error
			if len(detail) > 60 {
				detail = detail[:57] + "..."
			}
		}
		fmt.Fprintf(w, "%-36s  %-8s  %6d  %6d  %-20s  %s\n",
			r.ID, r.Status, r.Blocks, r.Assets, r.ExportedAt.Local().Format("2006-01-02 15:04:05"), detail)
	}

	fmt.Fprintf(w, "\n%d pages, %d failed\n", len(records), failed)
}
