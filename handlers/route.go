package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/bilbometro/api/models"
)

// RoutePlanner defines the interface for route planning operations
type RoutePlanner interface {
	GetRoute(ctx context.Context, origin, destination string) (*models.RouteData, error)
}

// RouteHandler handles HTTP requests for route information
type RouteHandler struct {
	planner RoutePlanner
	logger  *logrus.Logger
}

// NewRouteHandler creates a new handler with the given planner
func NewRouteHandler(planner RoutePlanner, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{planner: planner, logger: logger}
}

// ErrorResponse is the JSON error response structure
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RouteRequest is the JSON body for POST /api/route
type RouteRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// FormattedRouteResponse is the JSON response for the formatted endpoint
type FormattedRouteResponse struct {
	Formatted string            `json:"formatted"`
	Data      *models.RouteData `json:"data"`
}

// normalizeCode trims and upper-cases a station code before it reaches
// the planner.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetRoute handles GET /api/route/{origin}/{destination}
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	origin := normalizeCode(chi.URLParam(r, "origin"))
	destination := normalizeCode(chi.URLParam(r, "destination"))
	h.serveRoute(w, r, origin, destination, false)
}

// GetRouteFormatted handles GET /api/route/{origin}/{destination}/formatted
func (h *RouteHandler) GetRouteFormatted(w http.ResponseWriter, r *http.Request) {
	origin := normalizeCode(chi.URLParam(r, "origin"))
	destination := normalizeCode(chi.URLParam(r, "destination"))
	h.serveRoute(w, r, origin, destination, true)
}

// PostRoute handles POST /api/route
func (h *RouteHandler) PostRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}
	h.serveRoute(w, r, normalizeCode(req.Origin), normalizeCode(req.Destination), false)
}

func (h *RouteHandler) serveRoute(w http.ResponseWriter, r *http.Request, origin, destination string, formatted bool) {
	if origin == "" || destination == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error: "origin and destination are required",
		})
		return
	}

	data, err := h.planner.GetRoute(r.Context(), origin, destination)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"origin":      origin,
			"destination": destination,
			"error":       err,
		}).Error("route request failed")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error: "Failed to retrieve route",
			Details: map[string]interface{}{
				"origin":      origin,
				"destination": destination,
			},
		})
		return
	}

	// Real-time data; let clients cache briefly to smooth refresh bursts
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=10, stale-while-revalidate=5")
	w.WriteHeader(http.StatusOK)

	if formatted {
		json.NewEncoder(w).Encode(FormattedRouteResponse{
			Formatted: data.Formatted,
			Data:      data,
		})
		return
	}
	json.NewEncoder(w).Encode(data)
}
