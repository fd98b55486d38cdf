package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"ecomlens/internal/store"
)

// HealthHandler reports process liveness and ledger state.
type HealthHandler struct {
	store   *store.Store
	version string
	started time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(s *store.Store, version string) *HealthHandler {
	return &HealthHandler{store: s, version: version, started: time.Now()}
}

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	UptimeSec int64     `json:"uptime_sec"`
	Orders    int       `json:"orders"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
}

// Healthz reports ok once the ledger is loaded, degraded before that.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Version:   h.version,
		UptimeSec: int64(time.Since(h.started).Seconds()),
	}

	if ds, err := h.store.Snapshot(); err != nil {
		resp.Status = "degraded"
	} else {
		resp.Orders = ds.Len()
		resp.LoadedAt = h.store.LoadedAt()
	}

	if resp.Status != "ok" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}
