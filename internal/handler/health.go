package handler

import (
	"context"
	"net/http"
	"time"
)

// StorePinger reports whether the document store is reachable
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	store StorePinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store StorePinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health - liveness plus store reachability
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]string{"status": "ok", "store": "ok"}
	if err := h.store.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["store"] = "unreachable"
	}

	WriteJSON(w, status, body)
}
