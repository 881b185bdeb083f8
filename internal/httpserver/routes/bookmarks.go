package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/eterea/eterea/internal/httpserver/deps"
	"github.com/eterea/eterea/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Get("/api/bookmarks", handlers.ListBookmarks(d))
	r.Get("/api/bookmarks/search", handlers.SearchBookmarks(d))
	r.Get("/api/bookmarks/filter", handlers.FilterBookmarks(d))
	r.Get("/api/bookmarks/favorites", handlers.FavoriteBookmarks(d))
	r.Get("/api/bookmarks/{id}", handlers.GetBookmark(d))
	r.Delete("/api/bookmarks/{id}", handlers.DeleteBookmark(d))
	r.Post("/api/bookmarks/{id}/favorite", handlers.ToggleFavorite(d))
}
