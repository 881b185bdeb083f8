package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/eterea/eterea/internal/httpserver/deps"
	"github.com/eterea/eterea/internal/httpserver/handlers"
)

func init() { Register(registerImports) }

func registerImports(r chi.Router, d deps.Deps) {
	r.Post("/api/import", handlers.Import(d))
}
