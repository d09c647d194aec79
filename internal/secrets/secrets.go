// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept out of the config file. A secrets
// directory holds one plain-text file per credential; the file name is the
// key and the trimmed contents are the value.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// NotionAPIKey names the file holding the integration token.
const NotionAPIKey = "notion-api-key"

// notionAPIKeyAliases are file names accepted in place of NotionAPIKey.
var notionAPIKeyAliases = []string{"notion-token", "notion-key"}

// Secrets maps credential names to values.
type Secrets map[string]string

// Load reads the secrets directory at dir. A missing directory yields an
// empty set.
func Load(dir string, w io.Writer) (Secrets, error) {
	s, err := LoadFS(os.DirFS(dir), w)
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}
	return s, nil
}

// LoadFS reads every regular, non-hidden file at the root of fsys. Files
// that cannot be read are reported on w and skipped; empty files are
// ignored.
func LoadFS(fsys fs.FS, w io.Writer) (Secrets, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return Secrets{}, nil
	}
	if err != nil {
		return nil, err
	}

	s := Secrets{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			s[name] = v
		}
	}
	return s, nil
}

// Lookup returns the value stored under key, trying the known aliases of
// key when it is absent.
func (s Secrets) Lookup(key string) (string, bool) {
	if v, ok := s[key]; ok {
		return v, true
	}
	if key != NotionAPIKey {
		return "", false
	}
	for _, alias := range notionAPIKeyAliases {
		if v, ok := s[alias]; ok {
			return v, true
		}
	}
	return "", false
}

// Resolve prefers an explicitly configured value over the stored one.
func (s Secrets) Resolve(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	v, _ := s.Lookup(key)
	return v
}
