package handlers

import (
	"net/http"

	"github.com/eterea/eterea/internal/httpserver/deps"
)

// Stats serves collection statistics, computed fresh per request.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := d.Store.Stats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// Tags serves every tag with its usage count, most used first.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := d.Store.ListTags(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tags)
	}
}

// Authors serves the distinct author handles, alphabetically.
func Authors(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authors, err := d.Store.ListAuthors(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, authors)
	}
}
