package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bilbometro/api/config"
)

// HealthHandler serves the service health endpoint
type HealthHandler struct {
	cfg  *config.Config
	repo VisitorRepository
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config, repo VisitorRepository) *HealthHandler {
	return &HealthHandler{cfg: cfg, repo: repo}
}

// HealthResponse is the JSON response for GET /api/health
type HealthResponse struct {
	Status              string    `json:"status"`
	Database            string    `json:"database"`
	NightMode           bool      `json:"nightMode"`
	APIBaseURL          string    `json:"apiBaseUrl"`
	AutoRefreshInterval int       `json:"autoRefreshInterval"`
	Timestamp           time.Time `json:"timestamp"`
	Error               string    `json:"error,omitempty"`
}

// GetHealth handles GET /api/health with a visitor-store connectivity
// check
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:              "ok",
		Database:            "connected",
		NightMode:           h.cfg.IsNight(time.Now()),
		APIBaseURL:          h.cfg.APIBaseURL,
		AutoRefreshInterval: h.cfg.AutoRefreshSeconds,
		Timestamp:           time.Now().UTC(),
	}

	status := http.StatusOK
	if err := h.repo.Ping(ctx); err != nil {
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
