package mw

import (
	"net/http"

	"github.com/eterea/eterea/internal/logger"
	"github.com/eterea/eterea/internal/utils"
)

// LocalOnly rejects any peer that is not a loopback address. The store is a
// personal database; nothing outside the machine should ever reach it.
// Disabled (passthrough) when enabled is false.
func LocalOnly(enabled bool, log logger.Logger) func(http.Handler) http.Handler {
	if !enabled {
		log.Debug("LocalOnly: disabled, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r)
			if !utils.IsLoopback(ip) {
				log.Warnf("LocalOnly: rejected non-loopback peer %s", ip)
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
