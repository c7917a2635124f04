package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// HealthHandler serves /health-check/{action}. "ping" is liveness; "ready"
// also requires the application shell to be on disk.
type HealthHandler struct {
	staticDir string
}

func NewHealthHandler(staticDir string) *HealthHandler {
	return &HealthHandler{staticDir: staticDir}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "ready":
		if fi, err := os.Stat(filepath.Join(h.staticDir, shellFile)); err != nil || fi.IsDir() {
			writeError(w, http.StatusServiceUnavailable, "application shell missing")
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "ready"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
