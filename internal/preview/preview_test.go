package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eterea/eterea/internal/logger"
)

const pageWithMeta = `<!DOCTYPE html><html><head>
<title>Fallback Title</title>
<meta property="og:title" content="OG Title">
<meta property="og:description" content="OG description">
<meta property="og:image" content="https://cdn.example/og.png">
<meta property="og:site_name" content="Example">
</head><body></body></html>`

const pageTitleOnly = `<!DOCTYPE html><html><head>
<title>  Just a Title  </title>
<meta name="description" content="plain meta description">
</head><body></body></html>`

func newTestFetcher() *Fetcher {
	return New(logger.NewNop(), 2*time.Second, time.Minute, 3)
}

func TestFetchExtractsOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageWithMeta))
	}))
	defer srv.Close()

	p, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "OG Title", p.Title)
	assert.Equal(t, "OG description", p.Description)
	assert.Equal(t, "https://cdn.example/og.png", p.ImageURL)
	assert.Equal(t, "Example", p.SiteName)
	assert.Equal(t, srv.URL, p.URL)
}

func TestFetchFallsBackToTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageTitleOnly))
	}))
	defer srv.Close()

	p, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Just a Title", p.Title)
	assert.Equal(t, "plain meta description", p.Description)
	assert.Empty(t, p.ImageURL)
}

func TestFetchCachesResults(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(pageWithMeta))
	}))
	defer srv.Close()

	f := newTestFetcher()
	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestFetchCachesFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher()
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	_, err = f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestFetchFollowsRedirectsWithinLimit(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageWithMeta))
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer srv.Close()

	p, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, p.URL)
	assert.Equal(t, target.URL, p.FinalURL)
	assert.Equal(t, "OG Title", p.Title)
}

func TestFetchRedirectLoopFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.String(), http.StatusFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
