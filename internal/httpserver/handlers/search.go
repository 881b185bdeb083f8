package handlers

import (
	"net/http"
	"strings"

	"github.com/eterea/eterea/internal/domain"
	"github.com/eterea/eterea/internal/httpserver/deps"
)

// SearchBookmarks serves free-text search with an optional tag restriction.
func SearchBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := domain.SearchFilters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
			Tag:   strings.TrimSpace(r.URL.Query().Get("tag")),
			Limit: parseLimit(r, d.MaxSearchLimit, d.MaxSearchLimit),
		}
		runSearch(w, r, d, f)
	}
}

// FilterBookmarks serves the full filter conjunction: text, tag, author,
// date range, favorites and media presence, all ANDed together.
func FilterBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		from, err := parseDate(q.Get("from"))
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		to, err := parseDate(q.Get("to"))
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		hasMedia, err := parseBoolParam(r, "media")
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		favorites := false
		if fav, err := parseBoolParam(r, "favorites"); err != nil {
			badRequest(w, err.Error())
			return
		} else if fav != nil {
			favorites = *fav
		}

		f := domain.SearchFilters{
			Query:         strings.TrimSpace(q.Get("q")),
			Tag:           strings.TrimSpace(q.Get("tag")),
			Author:        strings.TrimSpace(q.Get("author")),
			DateFrom:      from,
			DateTo:        to,
			FavoritesOnly: favorites,
			HasMedia:      hasMedia,
			Limit:         parseLimit(r, d.MaxSearchLimit, d.MaxSearchLimit),
		}
		runSearch(w, r, d, f)
	}
}

// FavoriteBookmarks serves the favorites, newest first.
func FavoriteBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := domain.SearchFilters{
			FavoritesOnly: true,
			Limit:         parseLimit(r, d.MaxSearchLimit, d.MaxSearchLimit),
		}
		runSearch(w, r, d, f)
	}
}

func runSearch(w http.ResponseWriter, r *http.Request, d deps.Deps, f domain.SearchFilters) {
	items, err := d.Store.Search(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []*domain.Bookmark{}
	}
	writeJSON(w, http.StatusOK, items)
}
