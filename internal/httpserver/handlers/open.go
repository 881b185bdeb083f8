package handlers

import (
	"encoding/json"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/eterea/eterea/internal/httpserver/deps"
	"github.com/eterea/eterea/internal/logger"
)

type openRequest struct {
	URL string `json:"url"`
}

// Open hands a URL to the host's default browser. Only absolute http(s)
// URLs are accepted; anything else would be an arbitrary command argument.
func Open(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
		if !isFetchableURL(req.URL) {
			badRequest(w, "url must be absolute http(s)")
			return
		}

		if err := openInBrowser(req.URL); err != nil {
			d.Logger.Error("failed to open url",
				logger.String("url", req.URL),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func openInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	// Fire and forget; the browser outlives the request.
	return cmd.Start()
}
