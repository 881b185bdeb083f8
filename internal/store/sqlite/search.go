package sqlite

import (
	"context"
	"strings"

	"github.com/eterea/eterea/internal/domain"
	"github.com/eterea/eterea/internal/query"
)

// Search executes a compiled filter conjunction and returns the matching
// bookmarks fully hydrated. Ordering comes from the compiled statement:
// relevance-ranked when free text is present, newest-first otherwise.
func (s *Store) Search(ctx context.Context, f domain.SearchFilters) ([]*domain.Bookmark, error) {
	c := query.Build(f)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(bookmarkColumns)
	sb.WriteString(" FROM bookmarks b")
	for _, j := range c.Joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	if len(c.Where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(c.Where, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(c.OrderBy)
	sb.WriteString(" LIMIT ?")
	args := append(c.Args, c.Limit)

	var rows []bookmarkRow
	if err := s.db.SelectContext(ctx, &rows, sb.String(), args...); err != nil {
		return nil, classifyReadErr(err)
	}

	items := make([]*domain.Bookmark, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	if err := s.hydrate(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListTags returns every tag with its usage count, most used first.
func (s *Store) ListTags(ctx context.Context) ([]domain.TagCount, error) {
	var tags []domain.TagCount
	err := s.db.SelectContext(ctx, &tags, `
		SELECT t.name AS name, COUNT(bt.bookmark_id) AS count
		FROM tags t
		JOIN bookmark_tags bt ON bt.tag_id = t.id
		GROUP BY t.id
		ORDER BY count DESC, t.name ASC`)
	if err != nil {
		return nil, classifyReadErr(err)
	}
	return tags, nil
}

// ListAuthors returns the distinct author handles, alphabetically.
func (s *Store) ListAuthors(ctx context.Context) ([]string, error) {
	var authors []string
	err := s.db.SelectContext(ctx, &authors,
		`SELECT DISTINCT author_handle FROM bookmarks ORDER BY author_handle ASC`)
	if err != nil {
		return nil, classifyReadErr(err)
	}
	return authors, nil
}
