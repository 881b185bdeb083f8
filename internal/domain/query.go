package domain

import "time"

// SearchFilters is the filter specification composed by the query engine.
// All provided filters combine as a conjunction (AND), never a union.
type SearchFilters struct {
	// Query is the optional free-text search. When present, results are
	// ranked by full-text relevance before the standard ordering.
	Query string

	// Tag is an exact (normalized) tag match.
	Tag string

	// Author is an exact handle match.
	Author string

	// DateFrom/DateTo bound TweetedAt inclusively.
	DateFrom *time.Time
	DateTo   *time.Time

	FavoritesOnly bool

	// HasMedia filters on attachment presence; nil means no filter.
	HasMedia *bool

	// Limit caps the result set. Search results are returned in one call,
	// not paginated.
	Limit int
}

// IsZero reports whether no filter is set at all.
func (f SearchFilters) IsZero() bool {
	return f.Query == "" && f.Tag == "" && f.Author == "" &&
		f.DateFrom == nil && f.DateTo == nil && !f.FavoritesOnly && f.HasMedia == nil
}

// Page is one ordered slice of the bookmark list.
type Page struct {
	Items   []*Bookmark `json:"items"`
	Total   int64       `json:"total"`
	Offset  int         `json:"offset"`
	Limit   int         `json:"limit"`
	HasMore bool        `json:"has_more"`
}

// NewPage wraps items with pagination metadata.
func NewPage(items []*Bookmark, total int64, offset, limit int) *Page {
	return &Page{
		Items:   items,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: int64(offset+len(items)) < total,
	}
}

// TagCount is one entry of the top-tags ranking.
type TagCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Stats are derived on demand from aggregate queries over primary storage;
// there is no separately maintained counter that could drift.
type Stats struct {
	TotalBookmarks    int64      `json:"total_bookmarks"`
	FavoriteBookmarks int64      `json:"favorite_bookmarks"`
	UniqueAuthors     int64      `json:"unique_authors"`
	UniqueTags        int64      `json:"unique_tags"`
	EarliestDate      *time.Time `json:"earliest_date"`
	LatestDate        *time.Time `json:"latest_date"`
	TopTags           []TagCount `json:"top_tags"`
}
