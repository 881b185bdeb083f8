package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/eterea/eterea/internal/domain"
)

const topTagsLimit = 20

// Stats computes collection statistics on demand. Everything is derived
// from the primary tables, so the numbers cannot drift from reality.
func (s *Store) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{}

	err := s.db.GetContext(ctx, &stats.TotalBookmarks, `SELECT COUNT(*) FROM bookmarks`)
	if err != nil {
		return nil, classifyReadErr(err)
	}
	err = s.db.GetContext(ctx, &stats.FavoriteBookmarks,
		`SELECT COUNT(*) FROM bookmarks WHERE is_favorite = 1`)
	if err != nil {
		return nil, classifyReadErr(err)
	}
	err = s.db.GetContext(ctx, &stats.UniqueAuthors,
		`SELECT COUNT(DISTINCT author_handle) FROM bookmarks`)
	if err != nil {
		return nil, classifyReadErr(err)
	}
	err = s.db.GetContext(ctx, &stats.UniqueTags,
		`SELECT COUNT(DISTINCT tag_id) FROM bookmark_tags`)
	if err != nil {
		return nil, classifyReadErr(err)
	}

	var earliest, latest sql.NullInt64
	row := s.db.QueryRowContext(ctx,
		`SELECT MIN(tweeted_at), MAX(tweeted_at) FROM bookmarks`)
	if err := row.Scan(&earliest, &latest); err != nil {
		return nil, classifyReadErr(err)
	}
	if earliest.Valid {
		t := time.Unix(earliest.Int64, 0).UTC()
		stats.EarliestDate = &t
	}
	if latest.Valid {
		t := time.Unix(latest.Int64, 0).UTC()
		stats.LatestDate = &t
	}

	err = s.db.SelectContext(ctx, &stats.TopTags, `
		SELECT t.name AS name, COUNT(bt.bookmark_id) AS count
		FROM tags t
		JOIN bookmark_tags bt ON bt.tag_id = t.id
		GROUP BY t.id
		ORDER BY count DESC, t.name ASC
		LIMIT ?`, topTagsLimit)
	if err != nil {
		return nil, classifyReadErr(err)
	}
	if stats.TopTags == nil {
		stats.TopTags = []domain.TagCount{}
	}

	return stats, nil
}
