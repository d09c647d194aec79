// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export runs the fetch, render, and write cycle for database pages.
// Each page is an independent unit of work: one page's failure is reported
// and recorded without affecting the others, and output files are replaced
// atomically so a failed page never leaves a partial file behind.
package export

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/notion-export/internal/asset"
	"github.com/pdiddy/notion-export/internal/frontmatter"
	"github.com/pdiddy/notion-export/internal/fsutil"
	"github.com/pdiddy/notion-export/internal/manifest"
	"github.com/pdiddy/notion-export/internal/render"
	"github.com/pdiddy/notion-export/pkg/types"
)

const defaultExtension = "md"

// Source fetches the block tree below a page. *notion.Client implements it.
type Source interface {
	FetchChildren(ctx context.Context, blockID string) ([]types.Block, error)
}

// Recorder persists export outcomes. *manifest.Store implements it.
type Recorder interface {
	RecordPage(ctx context.Context, rec manifest.PageRecord) error
	RecordAsset(ctx context.Context, pageID string, a asset.Asset) error
}

// PageResult is the outcome of one successful page export.
type PageResult struct {
	PageID string
	Path   string
	Blocks int
	Assets []asset.Asset
}

// BatchResult holds the outcome of exporting a set of pages.
type BatchResult struct {
	Exported int
	Failed   int
	Pages    []PageResult
	Errors   map[string]error
}

// Total returns the number of pages processed.
func (r BatchResult) Total() int {
	return r.Exported + r.Failed
}

// HasFailures reports whether any page failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Exporter writes pages below cfg.ContentDir.
type Exporter struct {
	source   Source
	assets   render.Assets
	recorder Recorder
	cfg      types.ExportConfig
	out      io.Writer
}

// New returns an Exporter. recorder may be nil. w receives one status line
// per page and must be safe for concurrent use when cfg.Workers > 1 (see
// SyncWriter).
func New(source Source, assets render.Assets, recorder Recorder, cfg types.ExportConfig, w io.Writer) *Exporter {
	if cfg.Extension == "" {
		cfg.Extension = defaultExtension
	}
	if cfg.Workers <= 0 {
		cfg.Workers = types.DefaultWorkers
	}
	return &Exporter{
		source:   source,
		assets:   assets,
		recorder: recorder,
		cfg:      cfg,
		out:      w,
	}
}

// OutputPath returns the file a page is written to.
func (e *Exporter) OutputPath(pageID string) string {
	return filepath.Join(e.cfg.ContentDir, pageID+"."+strings.TrimPrefix(e.cfg.Extension, "."))
}

// ExportPage fetches, renders, and writes one page. The file holds the
// encoded frontmatter followed directly by the rendered body.
func (e *Exporter) ExportPage(ctx context.Context, page types.Page) (PageResult, error) {
	blocks, err := e.source.FetchChildren(ctx, page.ID)
	if err != nil {
		return PageResult{}, fmt.Errorf("fetching blocks: %w", err)
	}

	tracked := &trackingAssets{next: e.assets}
	body, err := render.New(tracked, e.cfg.Capabilities).RenderBlocks(ctx, blocks, 0)
	if err != nil {
		return PageResult{}, err
	}

	head, err := frontmatter.Encode(page.Frontmatter, e.cfg.Format)
	if err != nil {
		return PageResult{}, err
	}

	path := e.OutputPath(page.ID)
	if err := fsutil.WriteAtomic(path, strings.NewReader(head+body)); err != nil {
		return PageResult{}, fmt.Errorf("writing %s: %w", path, err)
	}

	return PageResult{
		PageID: page.ID,
		Path:   path,
		Blocks: types.CountBlocks(blocks),
		Assets: tracked.list(),
	}, nil
}

// ExportAll exports pages on at most cfg.Workers goroutines. It waits for
// every page and never stops early on a page failure.
func (e *Exporter) ExportAll(ctx context.Context, pages []types.Page) BatchResult {
	var (
		mu     sync.Mutex
		result = BatchResult{Errors: make(map[string]error)}
	)

	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for _, page := range pages {
		page := page
		g.Go(func() error {
			res, err := e.ExportPage(ctx, page)
			e.record(ctx, page, res, err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(e.out, "failed:  %s (%v)\n", page.ID, err)
				result.Failed++
				result.Errors[page.ID] = err
				return nil
			}
			fmt.Fprintf(e.out, "exported: %s (%d blocks, %d assets)\n", page.ID, res.Blocks, len(res.Assets))
			result.Exported++
			result.Pages = append(result.Pages, res)
			return nil
		})
	}
	g.Wait()

	fmt.Fprintf(e.out, "\nBatch summary: %d exported, %d failed (total: %d)\n",
		result.Exported, result.Failed, result.Total())
	return result
}

// record stores the page outcome; recorder errors are reported, not fatal.
func (e *Exporter) record(ctx context.Context, page types.Page, res PageResult, exportErr error) {
	if e.recorder == nil {
		return
	}
	rec := manifest.PageRecord{
		ID:     page.ID,
		Path:   e.OutputPath(page.ID),
		Title:  page.Title,
		Status: manifest.StatusExported,
	}
	if exportErr != nil {
		rec.Status = manifest.StatusFailed
		rec.Error = exportErr.Error()
	} else {
		rec.Blocks = res.Blocks
		rec.Assets = len(res.Assets)
		for _, a := range res.Assets {
			if err := e.recorder.RecordAsset(ctx, page.ID, a); err != nil {
				fmt.Fprintf(e.out, "warning: %v\n", err)
			}
		}
	}
	if err := e.recorder.RecordPage(ctx, rec); err != nil {
		fmt.Fprintf(e.out, "warning: %v\n", err)
	}
}

// trackingAssets collects the assets materialized while rendering one page.
type trackingAssets struct {
	next   render.Assets
	mu     sync.Mutex
	assets []asset.Asset
}

func (t *trackingAssets) Materialize(ctx context.Context, blockID, fileURL string, kind asset.Kind, policy asset.Policy) (asset.Asset, error) {
	a, err := t.next.Materialize(ctx, blockID, fileURL, kind, policy)
	if err != nil {
		return a, err
	}
	t.mu.Lock()
	t.assets = append(t.assets, a)
	t.mu.Unlock()
	return a, nil
}

func (t *trackingAssets) list() []asset.Asset {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]asset.Asset(nil), t.assets...)
}
