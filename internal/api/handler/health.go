// internal/api/handler/health.go
package handler

import (
	"net/http"
	"time"

	"github.com/stockmcp/stockmcp/internal/api/response"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	version string
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, started: time.Now()}
}

// Get reports service liveness.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
