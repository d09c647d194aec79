// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package asset

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name    string
		blockID string
		url     string
		want    string
	}{
		{"png", "b1", "https://files.example/x/photo.png", "b1.png"},
		{"query ignored", "b2", "https://files.example/x/clip.mp4?X-Amz-Signature=abc.def", "b2.mp4"},
		{"fragment ignored", "b3", "https://files.example/a.jpeg#frag", "b3.jpeg"},
		{"multiple dots", "b4", "https://files.example/archive.tar.gz", "b4.gz"},
		{"no dot uses segment", "b5", "https://files.example/download", "b5.download"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.blockID, tt.url))
		})
	}
}

func TestPublicPath(t *testing.T) {
	assert.Equal(t, "/images/a.png", PublicPath("/images", "a.png"))
	assert.Equal(t, "/images/a.png", PublicPath("/images/", "a.png"))
	assert.Equal(t, "https://cdn.example/static/a.png", PublicPath("https://cdn.example/static", "a.png"))
	assert.Equal(t, "a.png", PublicPath("", "a.png"))
}

// fileServer counts requests and serves a body that changes per request.
func fileServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		fmt.Fprintf(w, "payload-%d", n)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestMaterialize_FetchOnceSkipsExisting(t *testing.T) {
	ts, calls := fileServer(t)
	dir := t.TempDir()
	var out bytes.Buffer
	m := New(ts.Client(), dir, "/media", &out)

	first, err := m.Materialize(context.Background(), "vid", ts.URL+"/movie.mp4?sig=1", KindVideo, FetchOnce)
	require.NoError(t, err)
	second, err := m.Materialize(context.Background(), "vid", ts.URL+"/movie.mp4?sig=2", KindVideo, FetchOnce)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.False(t, first.Skipped)
	assert.True(t, second.Skipped)
	assert.Equal(t, "/media/vid.mp4", second.PublicPath)
	assert.Equal(t, filepath.Join(dir, "vid.mp4"), second.LocalPath)

	data, err := os.ReadFile(first.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "payload-1", string(data))
	assert.Contains(t, out.String(), "downloading video: vid.mp4")
	assert.Contains(t, out.String(), "skipped video: vid.mp4 (already exists)")
}

func TestMaterialize_AlwaysFetchOverwrites(t *testing.T) {
	ts, calls := fileServer(t)
	dir := t.TempDir()
	m := New(ts.Client(), dir, "/images", &bytes.Buffer{})

	_, err := m.Materialize(context.Background(), "img", ts.URL+"/pic.png", KindImage, AlwaysFetch)
	require.NoError(t, err)
	a, err := m.Materialize(context.Background(), "img", ts.URL+"/pic.png", KindImage, AlwaysFetch)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.False(t, a.Skipped)

	data, err := os.ReadFile(filepath.Join(dir, "img.png"))
	require.NoError(t, err)
	assert.Equal(t, "payload-2", string(data))
}

func TestMaterialize_MissingURL(t *testing.T) {
	m := New(http.DefaultClient, t.TempDir(), "/images", &bytes.Buffer{})
	_, err := m.Materialize(context.Background(), "img", "", KindImage, AlwaysFetch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image block img has no file URL")
}

func TestMaterialize_HTTPErrorLeavesNoFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	dir := t.TempDir()
	m := New(ts.Client(), dir, "/images", &bytes.Buffer{})
	_, err := m.Materialize(context.Background(), "img", ts.URL+"/pic.png?X-Amz-Credential=secret", KindImage, AlwaysFetch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
	assert.NotContains(t, err.Error(), "secret")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
