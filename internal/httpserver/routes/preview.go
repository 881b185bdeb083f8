package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/eterea/eterea/internal/httpserver/deps"
	"github.com/eterea/eterea/internal/httpserver/handlers"
)

func init() { Register(registerPreview) }

func registerPreview(r chi.Router, d deps.Deps) {
	r.Get("/api/preview", handlers.Preview(d))
	r.Post("/api/open", handlers.Open(d))
}
