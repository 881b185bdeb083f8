package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eterea/eterea/internal/config"
	"github.com/eterea/eterea/internal/domain"
	"github.com/eterea/eterea/internal/httpserver"
	"github.com/eterea/eterea/internal/httpserver/deps"
	"github.com/eterea/eterea/internal/ingest"
	"github.com/eterea/eterea/internal/logger"
	"github.com/eterea/eterea/internal/preview"
	"github.com/eterea/eterea/internal/store/sqlite"
)

const exportCSV = `Tweet Date,Posted By,Profile Pic,Profile URL,Twitter Handle,Tweet URL,Content,Tags,Comments,Media
"02:51 PM, May 01, 2024",Jane Doe,,,janedoe,https://x.com/jane/status/1,learning sqlite fts5,"sqlite, search",,
"03:10 PM, May 01, 2024",Bob,,,bob,https://x.com/bob/status/2,sourdough starter tips,baking,,
not a date,Bob,,,bob,https://x.com/bob/status/3,broken row,,,
`

// newTestServer wires the whole stack (config, store, importer, router)
// against an in-memory database and returns a running HTTP server.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.OpenMemory(logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{
		ListenAddr:      "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		LocalOnly:       true,
	}
	log := logger.NewNop()

	d := deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		TimeNow:         time.Now,
		Store:           store,
		Importer:        ingest.NewImporter(store, log, 100),
		Preview:         preview.New(log, time.Second, time.Minute, 3),
		DefaultPageSize: 50,
		MaxPageSize:     200,
		MaxSearchLimit:  100,
	}

	srv := httptest.NewServer(httpserver.New(cfg, log, d).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) int {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestImportThenQueryOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(exportCSV), 0o644))

	// import: 2 good rows, 1 bad date
	var report ingest.Report
	code := postJSON(t, srv.URL+"/api/import",
		map[string]interface{}{"path": path}, &report)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 2, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 3, report.Errors[0].Row)

	// re-import is a no-op
	code = postJSON(t, srv.URL+"/api/import",
		map[string]interface{}{"path": path}, &report)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 2, report.SkippedDuplicates)

	// list
	var page domain.Page
	code = getJSON(t, srv.URL+"/api/bookmarks", &page)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, page.Total)

	// full-text search hits the sqlite post only
	var items []*domain.Bookmark
	code = getJSON(t, srv.URL+"/api/bookmarks/search?q=sqlite", &items)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, items, 1)
	assert.Equal(t, "janedoe", items[0].AuthorHandle)
	assert.Equal(t, []string{"sqlite", "search"}, items[0].Tags)

	// filter by author
	code = getJSON(t, srv.URL+"/api/bookmarks/filter?author=bob", &items)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, items, 1)

	// favorite round-trip
	id := items[0].ID
	var fav struct {
		IsFavorite bool `json:"is_favorite"`
	}
	code = postJSON(t, srv.URL+"/api/bookmarks/"+id+"/favorite", struct{}{}, &fav)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, fav.IsFavorite)

	code = getJSON(t, srv.URL+"/api/bookmarks/favorites", &items)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)

	// stats
	var stats domain.Stats
	code = getJSON(t, srv.URL+"/api/stats", &stats)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, stats.TotalBookmarks)
	assert.EqualValues(t, 1, stats.FavoriteBookmarks)
	assert.EqualValues(t, 2, stats.UniqueAuthors)

	// delete, then the search index forgets it
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/bookmarks/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	code = getJSON(t, srv.URL+"/api/bookmarks/search?q=sourdough", &items)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, items)
}

func TestDryRunOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(exportCSV), 0o644))

	var report ingest.Report
	code := postJSON(t, srv.URL+"/api/import",
		map[string]interface{}{"path": path, "dry_run": true}, &report)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Imported)

	var page domain.Page
	code = getJSON(t, srv.URL+"/api/bookmarks", &page)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, page.Total)
}

func TestHealthOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", nil))
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/readyz", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/unknown", nil))
}
