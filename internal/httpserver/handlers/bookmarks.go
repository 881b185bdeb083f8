package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eterea/eterea/internal/domain"
	"github.com/eterea/eterea/internal/httpserver/deps"
	"github.com/eterea/eterea/internal/logger"
)

// ListBookmarks serves one page of the collection, newest first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := parseOffset(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		limit := parseLimit(r, d.DefaultPageSize, d.MaxPageSize)

		items, total, err := d.Store.List(r.Context(), offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.NewPage(items, total, offset, limit))
	}
}

// GetBookmark serves a single bookmark by id.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Store.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// DeleteBookmark removes a bookmark permanently. Its id is never reused.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		d.Logger.Info("bookmark deleted", logger.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

type favoriteResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

// ToggleFavorite flips the favorite flag and reports the new state.
// Unknown ids are 404, never a silent no-op.
func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := d.Store.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, favoriteResponse{IsFavorite: state})
	}
}
