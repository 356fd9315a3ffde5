package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler reports service liveness and dataset readiness.
type HealthHandler struct {
	service AnalyticsServiceInterface
	started time.Time
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(service AnalyticsServiceInterface) *HealthHandler {
	return &HealthHandler{service: service, started: time.Now()}
}

// ServeHTTP handles GET /healthz.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info := h.service.Info(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status":     "healthy",
		"uptime":     time.Since(h.started).String(),
		"dataset_id": info.ID,
		"records":    info.Rows,
	})
}
