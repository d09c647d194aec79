// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Snapshot is the full manifest content.
type Snapshot struct {
	Pages  []PageRecord  `json:"pages" yaml:"pages"`
	Assets []AssetRecord `json:"assets" yaml:"assets"`
}

// Snapshot reads every page and asset record.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	pages, err := s.Pages(ctx, "")
	if err != nil {
		return Snapshot{}, err
	}
	assets, err := s.Assets(ctx, "")
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Pages: pages, Assets: assets}, nil
}

// ExportYAML writes the manifest as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the manifest as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
