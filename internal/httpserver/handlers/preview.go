package handlers

import (
	"net/http"
	"net/url"

	"github.com/eterea/eterea/internal/httpserver/deps"
)

// Preview serves link preview metadata for an external URL. Best effort:
// an unreachable or unparsable page is a 502, never a stored failure.
func Preview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("url")
		if !isFetchableURL(raw) {
			badRequest(w, "url must be absolute http(s)")
			return
		}

		p, err := d.Preview.Fetch(r.Context(), raw)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func isFetchableURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
