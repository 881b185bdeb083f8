package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/eterea/eterea/internal/httpserver/deps"
	"github.com/eterea/eterea/internal/httpserver/handlers"
)

func init() { Register(registerStats) }

func registerStats(r chi.Router, d deps.Deps) {
	r.Get("/api/stats", handlers.Stats(d))
	r.Get("/api/tags", handlers.Tags(d))
	r.Get("/api/authors", handlers.Authors(d))
}
