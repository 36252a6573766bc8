package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bilbometro/api/planner"
)

// StationsHandler serves the static station table
type StationsHandler struct {
	network *planner.Network
}

// NewStationsHandler creates a new handler for the given network
func NewStationsHandler(network *planner.Network) *StationsHandler {
	return &StationsHandler{network: network}
}

// StationsResponse is the JSON response for GET /api/stations
type StationsResponse struct {
	Stations map[string]string `json:"stations"`
	Lines    []string          `json:"lines"`
}

// GetStations handles GET /api/stations
func (h *StationsHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	// Static data; cache aggressively
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(StationsResponse{
		Stations: h.network.Stations(),
		Lines:    h.network.LineCodes(),
	})
}
