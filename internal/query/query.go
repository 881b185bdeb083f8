// Package query compiles a filter specification into a single SQL
// statement against the bookmark schema. All provided filters combine as a
// conjunction; free text adds full-text relevance ranking ahead of the
// standard ordering.
package query

import (
	"strings"

	"github.com/eterea/eterea/internal/domain"
)

// Compiled is the SQL shape of one search: the storage engine prepends its
// column list and executes it. Predicates use bound parameters only.
type Compiled struct {
	Joins   []string
	Where   []string
	Args    []interface{}
	OrderBy string
	Limit   int
}

// Build compiles filters into a Compiled statement. Limit must already be
// validated/capped by the caller.
func Build(f domain.SearchFilters) Compiled {
	var c Compiled

	ranked := false
	if q := strings.TrimSpace(f.Query); q != "" {
		c.Joins = append(c.Joins,
			"JOIN bookmarks_fts_content fc ON fc.bookmark_id = b.id",
			"JOIN bookmarks_fts fts ON fts.rowid = fc.rowid",
		)
		c.Where = append(c.Where, "bookmarks_fts MATCH ?")
		c.Args = append(c.Args, FTSQuery(q))
		ranked = true
	}

	if f.Tag != "" {
		c.Where = append(c.Where,
			"EXISTS (SELECT 1 FROM bookmark_tags bt JOIN tags t ON t.id = bt.tag_id WHERE bt.bookmark_id = b.id AND t.name = ?)")
		c.Args = append(c.Args, domain.NormalizeTag(f.Tag))
	}

	if f.Author != "" {
		c.Where = append(c.Where, "b.author_handle = ?")
		c.Args = append(c.Args, f.Author)
	}

	if f.DateFrom != nil {
		c.Where = append(c.Where, "b.tweeted_at >= ?")
		c.Args = append(c.Args, f.DateFrom.UTC().Unix())
	}
	if f.DateTo != nil {
		c.Where = append(c.Where, "b.tweeted_at <= ?")
		c.Args = append(c.Args, f.DateTo.UTC().Unix())
	}

	if f.FavoritesOnly {
		c.Where = append(c.Where, "b.is_favorite = 1")
	}

	if f.HasMedia != nil {
		if *f.HasMedia {
			c.Where = append(c.Where, "EXISTS (SELECT 1 FROM media m WHERE m.bookmark_id = b.id)")
		} else {
			c.Where = append(c.Where, "NOT EXISTS (SELECT 1 FROM media m WHERE m.bookmark_id = b.id)")
		}
	}

	// Relevance first when ranked; the tweeted_at/id pair keeps ordering
	// deterministic in both modes.
	if ranked {
		c.OrderBy = "bm25(bookmarks_fts), b.tweeted_at DESC, b.id ASC"
	} else {
		c.OrderBy = "b.tweeted_at DESC, b.id ASC"
	}

	c.Limit = f.Limit
	return c
}

// FTSQuery shapes raw user input into an FTS5 match expression: each term
// is quoted (embedded quotes doubled) and given a prefix wildcard, so
// partial words match while FTS5 operators in the input stay inert.
func FTSQuery(raw string) string {
	terms := strings.Fields(raw)
	shaped := make([]string, 0, len(terms))
	for _, term := range terms {
		escaped := strings.ReplaceAll(term, `"`, `""`)
		shaped = append(shaped, `"`+escaped+`"*`)
	}
	return strings.Join(shaped, " ")
}
