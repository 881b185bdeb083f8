package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eterea/eterea/internal/httpserver/deps"
	"github.com/eterea/eterea/internal/logger"
)

type importRequest struct {
	Path   string `json:"path"`
	DryRun bool   `json:"dry_run"`
}

// Import ingests a local export file into the store. The file lives on the
// same machine as the server, so the request carries a path, not a body.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
		if req.Path == "" {
			badRequest(w, "path is required")
			return
		}

		report, err := d.Importer.ImportFile(r.Context(), req.Path, req.DryRun)
		if err != nil {
			d.Logger.Error("import failed",
				logger.String("path", req.Path),
				logger.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
