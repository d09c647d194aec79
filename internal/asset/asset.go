// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package asset downloads remote media referenced by blocks into the static
// directory and returns the public path under which the site serves it.
package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/notion-export/internal/fsutil"
	"github.com/pdiddy/notion-export/internal/httputil"
)

// Kind names the media type of an asset.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Policy decides whether an existing local copy is reused.
type Policy int

const (
	// AlwaysFetch downloads on every call and overwrites the local file.
	AlwaysFetch Policy = iota

	// FetchOnce skips the download when the local file already exists.
	FetchOnce
)

// Asset describes one materialized file.
type Asset struct {
	BlockID    string `json:"block_id" yaml:"block_id"`
	Kind       Kind   `json:"kind" yaml:"kind"`
	SourceURL  string `json:"source_url" yaml:"source_url"`
	LocalPath  string `json:"local_path" yaml:"local_path"`
	PublicPath string `json:"public_path" yaml:"public_path"`

	// Skipped is set when FetchOnce found an existing local copy.
	Skipped bool `json:"skipped" yaml:"skipped"`
}

// Materializer writes assets under StaticDir. File names depend only on
// the block ID, so concurrent page workers never write the same file.
type Materializer struct {
	StaticDir string
	PublicURL string

	client *http.Client
	out    io.Writer
}

// New returns a Materializer that downloads with client and reports
// progress to w.
func New(client *http.Client, staticDir, publicURL string, w io.Writer) *Materializer {
	return &Materializer{
		StaticDir: staticDir,
		PublicURL: publicURL,
		client:    client,
		out:       w,
	}
}

// FileName derives the local file name "{blockID}.{ext}", where ext is the
// last dot-separated part of the URL's final path segment. Query strings
// and fragments are ignored.
func FileName(blockID, fileURL string) string {
	p := fileURL
	if u, err := url.Parse(fileURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(p)
	ext := base[strings.LastIndex(base, ".")+1:]
	return blockID + "." + ext
}

// PublicPath joins the public URL prefix and a file name.
func PublicPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}

// Materialize downloads fileURL to StaticDir according to policy and
// returns the resulting Asset.
func (m *Materializer) Materialize(ctx context.Context, blockID, fileURL string, kind Kind, policy Policy) (Asset, error) {
	if fileURL == "" {
		return Asset{}, fmt.Errorf("%s block %s has no file URL", kind, blockID)
	}

	name := FileName(blockID, fileURL)
	a := Asset{
		BlockID:    blockID,
		Kind:       kind,
		SourceURL:  fileURL,
		LocalPath:  filepath.Join(m.StaticDir, name),
		PublicPath: PublicPath(m.PublicURL, name),
	}

	if policy == FetchOnce && fsutil.Exists(a.LocalPath) {
		a.Skipped = true
		fmt.Fprintf(m.out, "skipped %s: %s (already exists)\n", kind, name)
		return a, nil
	}

	if kind == KindVideo {
		fmt.Fprintf(m.out, "downloading %s: %s\n", kind, name)
	}
	if err := m.download(ctx, fileURL, a.LocalPath); err != nil {
		return Asset{}, fmt.Errorf("downloading %s: %w", name, err)
	}
	return a, nil
}

func (m *Materializer) download(ctx context.Context, fileURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, m.client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, redact(fileURL))
	}
	return fsutil.WriteAtomic(destPath, resp.Body)
}

// redact drops the query string, which carries signed credentials for
// hosted uploads.
func redact(fileURL string) string {
	if i := strings.IndexByte(fileURL, '?'); i >= 0 {
		return fileURL[:i]
	}
	return fileURL
}
