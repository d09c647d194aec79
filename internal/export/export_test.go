// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/notion-export/internal/asset"
	"github.com/pdiddy/notion-export/internal/manifest"
	"github.com/pdiddy/notion-export/internal/notion"
	"github.com/pdiddy/notion-export/pkg/types"
)

// testEnv is an httptest server acting as both the block API and the file
// host, plus content/static directories.
type testEnv struct {
	server     *httptest.Server
	contentDir string
	staticDir  string
	fileCalls  int32
	children   map[string]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		contentDir: t.TempDir(),
		staticDir:  t.TempDir(),
		children:   map[string]string{},
	}
	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/files/") {
			atomic.AddInt32(&env.fileCalls, 1)
			fmt.Fprint(w, "binary:"+r.URL.Path)
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/blocks/"), "/children")
		body, ok := env.children[id]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"object":"error","status":500,"code":"internal_server_error","message":"unavailable"}`)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(env.server.Close)
	return env
}

func (env *testEnv) cfg() types.ExportConfig {
	return types.ExportConfig{
		ContentDir:   env.contentDir,
		StaticDir:    env.staticDir,
		StaticURL:    "/images",
		Capabilities: types.Capabilities{Frontmatter: true, Media: true, Summary: true},
		Workers:      2,
	}
}

func (env *testEnv) exporter(t *testing.T, cfg types.ExportConfig, rec Recorder, out *bytes.Buffer) *Exporter {
	t.Helper()
	client := notion.NewClient(env.server.Client(), types.NotionConfig{APIKey: "k"}, nil)
	client.BaseURL = env.server.URL
	w := SyncWriter(out)
	mat := asset.New(env.server.Client(), cfg.StaticDir, cfg.StaticURL, w)
	return New(client, mat, rec, cfg, w)
}

func richBlock(id, typ, text string, hasChildren bool) string {
	return fmt.Sprintf(`{"id":%q,"type":%q,"has_children":%t,%q:{"rich_text":[{"plain_text":%q,"annotations":{}}]}}`,
		id, typ, hasChildren, typ, text)
}

func list(items ...string) string {
	return `{"results":[` + strings.Join(items, ",") + `],"has_more":false}`
}

func TestExportPage_WritesFrontmatterAndBody(t *testing.T) {
	env := newTestEnv(t)
	env.children["page1"] = list(
		richBlock("h", "heading_2", "Intro", false),
		richBlock("n1", "numbered_list_item", "first", true),
		richBlock("n2", "numbered_list_item", "second", false),
		fmt.Sprintf(`{"id":"img","type":"image","has_children":false,"image":{"file":{"url":"%s/files/pic.png?sig=1"}}}`, env.server.URL),
	)
	env.children["n1"] = list(richBlock("t", "to_do", "nested", false))

	summary := "About"
	page := types.Page{ID: "page1", Frontmatter: &types.Frontmatter{
		Categories: []string{"go"}, Date: "2024-01-01", Tags: []string{}, Title: "T", URL: "t", Summary: &summary,
	}}

	var out bytes.Buffer
	e := env.exporter(t, env.cfg(), nil, &out)
	res, err := e.ExportPage(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.contentDir, "page1.md"), res.Path)
	assert.Equal(t, 5, res.Blocks)
	require.Len(t, res.Assets, 1)
	assert.Equal(t, "/images/img.png", res.Assets[0].PublicPath)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	want := `{"categories":["go"],"date":"2024-01-01","tags":[],"title":"T","url":"t","summary":"About"}` +
		"\n\n## Intro" +
		"\n\n1. first" +
		"\n\n\t- [ ] nested" +
		"\n\n2. second" +
		"\n\n![](/images/img.png#center)"
	assert.Equal(t, want, string(data))

	img, err := os.ReadFile(filepath.Join(env.staticDir, "img.png"))
	require.NoError(t, err)
	assert.Equal(t, "binary:/files/pic.png", string(img))
}

func TestExportPage_YAMLFrontmatterAndExtension(t *testing.T) {
	env := newTestEnv(t)
	env.children["p"] = list(richBlock("a", "paragraph", "body", false))

	cfg := env.cfg()
	cfg.Format = types.FrontmatterYAML
	cfg.Extension = "markdown"

	e := env.exporter(t, cfg, nil, &bytes.Buffer{})
	res, err := e.ExportPage(context.Background(), types.Page{ID: "p", Frontmatter: &types.Frontmatter{Title: "Yaml Title"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.contentDir, "p.markdown"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))
	assert.Contains(t, string(data), "title: Yaml Title\n")
	assert.True(t, strings.HasSuffix(string(data), "---\n\nbody"))
}

func TestExportPage_NoFrontmatter(t *testing.T) {
	env := newTestEnv(t)
	env.children["p"] = list(richBlock("a", "paragraph", "only body", false))

	e := env.exporter(t, env.cfg(), nil, &bytes.Buffer{})
	res, err := e.ExportPage(context.Background(), types.Page{ID: "p"})
	require.NoError(t, err)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "\n\nonly body", string(data))
}

func TestExportPage_FailureLeavesPreviousFile(t *testing.T) {
	env := newTestEnv(t)
	env.children["p"] = list(`{"id":"img","type":"image","has_children":false,"image":{}}`)

	path := filepath.Join(env.contentDir, "p.md")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	e := env.exporter(t, env.cfg(), nil, &bytes.Buffer{})
	_, err := e.ExportPage(context.Background(), types.Page{ID: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering block img")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestExportAll_IsolatesFailuresAndRecords(t *testing.T) {
	env := newTestEnv(t)
	env.children["good1"] = list(richBlock("a", "paragraph", "one", false))
	env.children["good2"] = list(
		richBlock("b", "paragraph", "two", false),
		fmt.Sprintf(`{"id":"vid","type":"video","has_children":false,"video":{"file":{"url":"%s/files/clip.mp4"}}}`, env.server.URL),
	)
	// "broken" has no canned response and fails with HTTP 500.

	store, err := manifest.Open(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	defer store.Close()

	var out bytes.Buffer
	e := env.exporter(t, env.cfg(), store, &out)
	pages := []types.Page{{ID: "good1", Title: "One"}, {ID: "broken"}, {ID: "good2"}}

	result := e.ExportAll(context.Background(), pages)
	assert.Equal(t, 2, result.Exported)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	require.Contains(t, result.Errors, "broken")
	assert.Contains(t, result.Errors["broken"].Error(), "internal_server_error")

	assert.FileExists(t, filepath.Join(env.contentDir, "good1.md"))
	assert.FileExists(t, filepath.Join(env.contentDir, "good2.md"))
	assert.NoFileExists(t, filepath.Join(env.contentDir, "broken.md"))

	log := out.String()
	assert.Contains(t, log, "exported: good1 (1 blocks, 0 assets)")
	assert.Contains(t, log, "exported: good2 (2 blocks, 1 assets)")
	assert.Contains(t, log, "failed:  broken (fetching blocks:")
	assert.Contains(t, log, "downloading video: vid.mp4")
	assert.Contains(t, log, "Batch summary: 2 exported, 1 failed (total: 3)")

	recs, err := store.Pages(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	byID := map[string]manifest.PageRecord{}
	for _, r := range recs {
		byID[r.ID] = r
	}
	assert.Equal(t, manifest.StatusFailed, byID["broken"].Status)
	assert.Equal(t, "One", byID["good1"].Title)
	assert.Equal(t, 1, byID["good2"].Assets)

	assets, err := store.Assets(context.Background(), "good2")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, asset.KindVideo, assets[0].Kind)
}

func TestExportAll_VideoDownloadedOnceAcrossRuns(t *testing.T) {
	env := newTestEnv(t)
	env.children["p"] = list(
		fmt.Sprintf(`{"id":"vid","type":"video","has_children":false,"video":{"file":{"url":"%s/files/clip.mp4"}}}`, env.server.URL),
		fmt.Sprintf(`{"id":"img","type":"image","has_children":false,"image":{"file":{"url":"%s/files/pic.jpg"}}}`, env.server.URL),
	)

	e := env.exporter(t, env.cfg(), nil, &bytes.Buffer{})
	for i := 0; i < 2; i++ {
		result := e.ExportAll(context.Background(), []types.Page{{ID: "p"}})
		require.False(t, result.HasFailures())
	}

	// One video fetch plus two image fetches.
	assert.Equal(t, int32(3), atomic.LoadInt32(&env.fileCalls))
}

func TestNew_Defaults(t *testing.T) {
	e := New(nil, nil, nil, types.ExportConfig{ContentDir: "out"}, &bytes.Buffer{})
	assert.Equal(t, types.DefaultWorkers, e.cfg.Workers)
	assert.Equal(t, filepath.Join("out", "abc.md"), e.OutputPath("abc"))
}
