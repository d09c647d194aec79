// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest records export runs in a SQLite database: one row per
// page with its outcome and one row per materialized asset.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/notion-export/internal/asset"
)

// Status is the outcome of a page export.
type Status string

const (
	StatusExported Status = "exported"
	StatusFailed   Status = "failed"
)

// PageRecord is the last recorded export of one page.
type PageRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Path       string    `json:"path" yaml:"path"`
	Title      string    `json:"title,omitempty" yaml:"title,omitempty"`
	Blocks     int       `json:"blocks" yaml:"blocks"`
	Assets     int       `json:"assets" yaml:"assets"`
	Status     Status    `json:"status" yaml:"status"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
}

// AssetRecord is the last recorded materialization of one block's asset.
type AssetRecord struct {
	asset.Asset `yaml:",inline"`
	PageID      string    `json:"page_id" yaml:"page_id"`
	RecordedAt  time.Time `json:"recorded_at" yaml:"recorded_at"`
}

// Store manages the manifest database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the manifest at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	// Page workers record concurrently; one connection serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			id TEXT PRIMARY KEY,
			path TEXT,
			title TEXT,
			blocks INTEGER,
			assets INTEGER,
			status TEXT NOT NULL,
			error TEXT,
			exported_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS assets (
			block_id TEXT PRIMARY KEY,
			page_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			source_url TEXT,
			local_path TEXT,
			public_path TEXT,
			skipped INTEGER NOT NULL DEFAULT 0,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_page_id ON assets(page_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_status ON pages(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordPage inserts or replaces the record for rec.ID. A zero ExportedAt
// is set to the current time.
func (s *Store) RecordPage(ctx context.Context, rec PageRecord) error {
	if rec.ExportedAt.IsZero() {
		rec.ExportedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (id, path, title, blocks, assets, status, error, exported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			path=excluded.path, title=excluded.title, blocks=excluded.blocks,
			assets=excluded.assets, status=excluded.status, error=excluded.error,
			exported_at=excluded.exported_at`,
		rec.ID, rec.Path, rec.Title, rec.Blocks, rec.Assets,
		string(rec.Status), rec.Error, rec.ExportedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording page %s: %w", rec.ID, err)
	}
	return nil
}

// RecordAsset inserts or replaces the record for a.BlockID.
func (s *Store) RecordAsset(ctx context.Context, pageID string, a asset.Asset) error {
	skipped := 0
	if a.Skipped {
		skipped = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (block_id, page_id, kind, source_url, local_path, public_path, skipped, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(block_id) DO UPDATE SET
			page_id=excluded.page_id, kind=excluded.kind, source_url=excluded.source_url,
			local_path=excluded.local_path, public_path=excluded.public_path,
			skipped=excluded.skipped, recorded_at=excluded.recorded_at`,
		a.BlockID, pageID, string(a.Kind), redactURL(a.SourceURL), a.LocalPath, a.PublicPath,
		skipped, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording asset %s: %w", a.BlockID, err)
	}
	return nil
}

// Pages returns page records ordered by ID. A non-empty status filters
// to pages with that outcome.
func (s *Store) Pages(ctx context.Context, status Status) ([]PageRecord, error) {
	query := `SELECT id, path, title, blocks, assets, status, error, exported_at FROM pages`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	records := []PageRecord{}
	for rows.Next() {
		var (
			rec                   PageRecord
			path, title, errMsg   sql.NullString
			statusStr, exportedAt string
		)
		if err := rows.Scan(&rec.ID, &path, &title, &rec.Blocks, &rec.Assets, &statusStr, &errMsg, &exportedAt); err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		rec.Path = path.String
		rec.Title = title.String
		rec.Error = errMsg.String
		rec.Status = Status(statusStr)
		rec.ExportedAt, _ = time.Parse(time.RFC3339Nano, exportedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Assets returns asset records ordered by page then block. A non-empty
// pageID restricts the result to that page.
func (s *Store) Assets(ctx context.Context, pageID string) ([]AssetRecord, error) {
	query := `SELECT block_id, page_id, kind, source_url, local_path, public_path, skipped, recorded_at FROM assets`
	var args []any
	if pageID != "" {
		query += ` WHERE page_id = ?`
		args = append(args, pageID)
	}
	query += ` ORDER BY page_id, block_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	records := []AssetRecord{}
	for rows.Next() {
		var (
			rec              AssetRecord
			kind, recordedAt string
			skipped          int
		)
		if err := rows.Scan(&rec.BlockID, &rec.PageID, &kind, &rec.SourceURL, &rec.LocalPath,
			&rec.PublicPath, &skipped, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning asset row: %w", err)
		}
		rec.Kind = asset.Kind(kind)
		rec.Skipped = skipped != 0
		rec.RecordedAt, _ = time.Parse(time.RFC3339Nano, recordedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// redactURL drops the signed query string of hosted uploads.
func redactURL(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
