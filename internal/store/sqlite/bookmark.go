package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eterea/eterea/internal/domain"
	"github.com/eterea/eterea/internal/logger"
)

const bookmarkColumns = `b.id, b.tweet_url, b.content, b.note_text, b.tweeted_at,
	b.imported_at, b.author_handle, b.author_name, b.author_profile_url,
	b.author_profile_image, b.comments, b.is_favorite`

type bookmarkRow struct {
	ID                 string         `db:"id"`
	TweetURL           string         `db:"tweet_url"`
	Content            string         `db:"content"`
	NoteText           sql.NullString `db:"note_text"`
	TweetedAt          int64          `db:"tweeted_at"`
	ImportedAt         int64          `db:"imported_at"`
	AuthorHandle       string         `db:"author_handle"`
	AuthorName         string         `db:"author_name"`
	AuthorProfileURL   sql.NullString `db:"author_profile_url"`
	AuthorProfileImage sql.NullString `db:"author_profile_image"`
	Comments           sql.NullString `db:"comments"`
	IsFavorite         bool           `db:"is_favorite"`
}

func (r bookmarkRow) toDomain() *domain.Bookmark {
	return &domain.Bookmark{
		ID:                 r.ID,
		TweetURL:           r.TweetURL,
		Content:            r.Content,
		NoteText:           nullToPtr(r.NoteText),
		TweetedAt:          time.Unix(r.TweetedAt, 0).UTC(),
		ImportedAt:         time.Unix(r.ImportedAt, 0).UTC(),
		AuthorHandle:       r.AuthorHandle,
		AuthorName:         r.AuthorName,
		AuthorProfileURL:   nullToPtr(r.AuthorProfileURL),
		AuthorProfileImage: nullToPtr(r.AuthorProfileImage),
		Comments:           nullToPtr(r.Comments),
		IsFavorite:         r.IsFavorite,
	}
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func ptrToNull(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// InsertBatch persists one batch atomically. Records whose normalized URL
// already exists (in the database or earlier in the batch) are skipped, not
// errors; the check and the insert share the transaction, so a re-run of the
// same file is a no-op.
func (s *Store) InsertBatch(ctx context.Context, batch []*domain.Bookmark) (inserted, skipped int, err error) {
	err = s.withWriteTx(ctx, func(tx *sqlx.Tx) error {
		inserted, skipped = 0, 0
		for _, b := range batch {
			ok, err := insertOne(tx, b)
			if err != nil {
				return err
			}
			if ok {
				inserted++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	s.log.Debug("batch committed",
		logger.Int("inserted", inserted),
		logger.Int("skipped", skipped))
	return inserted, skipped, nil
}

func insertOne(tx *sqlx.Tx, b *domain.Bookmark) (bool, error) {
	res, err := tx.Exec(`
		INSERT INTO bookmarks (id, tweet_url, url_key, content, note_text, tweeted_at,
			imported_at, author_handle, author_name, author_profile_url,
			author_profile_image, comments, is_favorite)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url_key) DO NOTHING`,
		b.ID, b.TweetURL, domain.URLKey(b.TweetURL), b.Content, ptrToNull(b.NoteText),
		b.TweetedAt.UTC().Unix(), b.ImportedAt.UTC().Unix(), b.AuthorHandle, b.AuthorName,
		ptrToNull(b.AuthorProfileURL), ptrToNull(b.AuthorProfileImage),
		ptrToNull(b.Comments), b.IsFavorite)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	for _, tag := range b.Tags {
		if err := attachTag(tx, b.ID, tag); err != nil {
			return false, err
		}
	}

	for _, m := range b.Media {
		if _, err := tx.Exec(
			`INSERT INTO media (bookmark_id, url, media_type) VALUES (?, ?, ?)`,
			b.ID, m.URL, string(m.Type)); err != nil {
			return false, err
		}
	}

	// Shadow row; the trigger propagates it into the FTS index.
	if _, err := tx.Exec(`
		INSERT INTO bookmarks_fts_content (bookmark_id, content, note_text, author_handle, author_name, tags_text)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Content, ptrToNull(b.NoteText), b.AuthorHandle, b.AuthorName, b.TagsText()); err != nil {
		return false, err
	}

	return true, nil
}

func attachTag(tx *sqlx.Tx, bookmarkID, tag string) error {
	if _, err := tx.Exec(`INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, tag); err != nil {
		return err
	}
	var tagID int64
	if err := tx.Get(&tagID, `SELECT id FROM tags WHERE name = ?`, tag); err != nil {
		return err
	}
	_, err := tx.Exec(
		`INSERT INTO bookmark_tags (bookmark_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		bookmarkID, tagID)
	return err
}

// ExistingURLKeys reports which of the given normalized URLs are already
// stored. Read-only; this is the dry-run half of the dedup check.
func (s *Store) ExistingURLKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(keys))
	if len(keys) == 0 {
		return existing, nil
	}

	q, args, err := sqlx.In(`SELECT url_key FROM bookmarks WHERE url_key IN (?)`, keys)
	if err != nil {
		return nil, classifyReadErr(err)
	}
	var found []string
	if err := s.db.SelectContext(ctx, &found, q, args...); err != nil {
		return nil, classifyReadErr(err)
	}
	for _, k := range found {
		existing[k] = true
	}
	return existing, nil
}

// GetByID loads one bookmark with tags and media.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	var row bookmarkRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+bookmarkColumns+` FROM bookmarks b WHERE b.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: bookmark %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, classifyReadErr(err)
	}

	b := row.toDomain()
	if err := s.hydrate(ctx, []*domain.Bookmark{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns one page ordered by tweet date descending, id ascending as
// the tiebreaker, plus the total row count for pagination metadata.
func (s *Store) List(ctx context.Context, offset, limit int) ([]*domain.Bookmark, int64, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookmarks`); err != nil {
		return nil, 0, classifyReadErr(err)
	}

	var rows []bookmarkRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+bookmarkColumns+` FROM bookmarks b
		 ORDER BY b.tweeted_at DESC, b.id ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, classifyReadErr(err)
	}

	items := make([]*domain.Bookmark, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	if err := s.hydrate(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Delete removes the bookmark and everything hanging off it, including the
// full-text entry, in one transaction.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.withWriteTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`DELETE FROM bookmarks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: bookmark %s", domain.ErrNotFound, id)
		}

		if _, err := tx.Exec(`DELETE FROM bookmark_tags WHERE bookmark_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM media WHERE bookmark_id = ?`, id); err != nil {
			return err
		}
		// Explicit so the delete trigger fires and the FTS entry goes away.
		if _, err := tx.Exec(`DELETE FROM bookmarks_fts_content WHERE bookmark_id = ?`, id); err != nil {
			return err
		}
		// Orphaned tags are dropped eagerly; tag listings stay accurate.
		_, err = tx.Exec(`DELETE FROM tags WHERE id NOT IN (SELECT DISTINCT tag_id FROM bookmark_tags)`)
		return err
	})
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var state bool
	err := s.withWriteTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`UPDATE bookmarks SET is_favorite = NOT is_favorite WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: bookmark %s", domain.ErrNotFound, id)
		}
		return tx.Get(&state, `SELECT is_favorite FROM bookmarks WHERE id = ?`, id)
	})
	return state, err
}

// SetFavorite pins the favorite flag to an explicit state. Setting the flag
// to its current value is a successful no-op.
func (s *Store) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return s.withWriteTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`UPDATE bookmarks SET is_favorite = ? WHERE id = ?`, favorite, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: bookmark %s", domain.ErrNotFound, id)
		}
		return nil
	})
}

// hydrate loads tags and media for the given bookmarks in two batched
// queries, preserving insertion order within each bookmark.
func (s *Store) hydrate(ctx context.Context, items []*domain.Bookmark) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Bookmark, len(items))
	ids := make([]string, 0, len(items))
	for _, b := range items {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	q, args, err := sqlx.In(`
		SELECT bt.bookmark_id, t.name FROM bookmark_tags bt
		JOIN tags t ON t.id = bt.tag_id
		WHERE bt.bookmark_id IN (?)
		ORDER BY bt.rowid`, ids)
	if err != nil {
		return classifyReadErr(err)
	}
	tagRows, err := s.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return classifyReadErr(err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var bookmarkID, name string
		if err := tagRows.Scan(&bookmarkID, &name); err != nil {
			return classifyReadErr(err)
		}
		if b := byID[bookmarkID]; b != nil {
			b.Tags = append(b.Tags, name)
		}
	}
	if err := tagRows.Err(); err != nil {
		return classifyReadErr(err)
	}

	q, args, err = sqlx.In(`
		SELECT bookmark_id, url, media_type FROM media
		WHERE bookmark_id IN (?)
		ORDER BY id`, ids)
	if err != nil {
		return classifyReadErr(err)
	}
	mediaRows, err := s.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return classifyReadErr(err)
	}
	defer mediaRows.Close()
	for mediaRows.Next() {
		var bookmarkID, mediaURL, mediaType string
		if err := mediaRows.Scan(&bookmarkID, &mediaURL, &mediaType); err != nil {
			return classifyReadErr(err)
		}
		if b := byID[bookmarkID]; b != nil {
			b.Media = append(b.Media, domain.Media{URL: mediaURL, Type: domain.ParseMediaType(mediaType)})
		}
	}
	return classifyReadErr(mediaRows.Err())
}
