package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bilbometro/api/models"
)

// VisitorRepository defines the interface for visitor tracking operations
type VisitorRepository interface {
	Ping(ctx context.Context) error
	RecordVisit(ctx context.Context, day, visitorHash string) (bool, error)
	CountDay(ctx context.Context, day string) (int, error)
	CountByDay(ctx context.Context) ([]models.VisitorDay, error)
}

// VisitorHandler tracks unique daily visitors and serves their counts
type VisitorHandler struct {
	repo   VisitorRepository
	logger *logrus.Logger
}

// NewVisitorHandler creates a new handler with the given repository
func NewVisitorHandler(repo VisitorRepository, logger *logrus.Logger) *VisitorHandler {
	return &VisitorHandler{repo: repo, logger: logger}
}

// Middleware records the requesting client as a visitor for today.
// Tracking is best effort: a store failure is logged, never surfaced.
func (h *VisitorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		day := time.Now().UTC().Format("2006-01-02")
		hash := models.HashVisitor(clientIP(r), day)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		if _, err := h.repo.RecordVisit(ctx, day, hash); err != nil {
			h.logger.WithField("error", err).Warn("failed to record visit")
		}
		cancel()

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address, honoring X-Forwarded-For when the
// service runs behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetVisitors handles GET /api/visitors
func (h *VisitorHandler) GetVisitors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := time.Now().UTC().Format("2006-01-02")

	uniqueToday, err := h.repo.CountDay(ctx, today)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Failed to retrieve visitor stats",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}

	days, err := h.repo.CountByDay(ctx)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Failed to retrieve visitor stats",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.VisitorStats{
		Today:       today,
		UniqueToday: uniqueToday,
		Days:        days,
	})
}
