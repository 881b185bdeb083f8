package query

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eterea/eterea/internal/domain"
)

func TestFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rust", `"rust"*`},
		{"rust async", `"rust"* "async"*`},
		{`say "hi"`, `"say"* """hi"""*`},
		{"  spaced   out ", `"spaced"* "out"*`},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FTSQuery(tt.in))
	}
}

func TestBuildTextOnly(t *testing.T) {
	c := Build(domain.SearchFilters{Query: "rust", Limit: 100})

	assert.Len(t, c.Joins, 2)
	assert.Equal(t, []string{"bookmarks_fts MATCH ?"}, c.Where)
	assert.Equal(t, []interface{}{`"rust"*`}, c.Args)
	assert.True(t, strings.HasPrefix(c.OrderBy, "bm25(bookmarks_fts)"))
	assert.Equal(t, 100, c.Limit)
}

func TestBuildNoTextUsesListOrdering(t *testing.T) {
	c := Build(domain.SearchFilters{Tag: "rust", Limit: 10})

	assert.Empty(t, c.Joins)
	assert.Equal(t, "b.tweeted_at DESC, b.id ASC", c.OrderBy)
}

func TestBuildConjunction(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	hasMedia := true

	c := Build(domain.SearchFilters{
		Query:         "wasm",
		Tag:           "Rust", // normalized before binding
		Author:        "gopher",
		DateFrom:      &from,
		DateTo:        &to,
		FavoritesOnly: true,
		HasMedia:      &hasMedia,
		Limit:         50,
	})

	// every filter contributes exactly one AND'd predicate
	assert.Len(t, c.Where, 7)
	assert.Contains(t, c.Args, "rust")
	assert.Contains(t, c.Args, "gopher")
	assert.Contains(t, c.Args, from.Unix())
	assert.Contains(t, c.Args, to.Unix())
}

func TestBuildHasMediaFalse(t *testing.T) {
	hasMedia := false
	c := Build(domain.SearchFilters{HasMedia: &hasMedia, Limit: 10})

	assert.Len(t, c.Where, 1)
	assert.Contains(t, c.Where[0], "NOT EXISTS")
}
