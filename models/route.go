package models

import "errors"

// UnknownStation is the sentinel used when a transfer station cannot be
// resolved from either the upstream hint or the network topology.
const UnknownStation = "Unknown"

// StationRef identifies a station in an upstream trip descriptor.
// The code is the canonical key; the name is presentational and may be empty.
type StationRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Trip is the trip descriptor from the Metro Bilbao real-time API.
type Trip struct {
	FromStation StationRef `json:"fromStation"`
	ToStation   StationRef `json:"toStation"`

	// Duration is the total trip time in minutes, combined across legs.
	Duration int    `json:"duration"`
	Line     string `json:"line"`

	// Transfer reports whether the trip requires a line change.
	Transfer bool `json:"transfer"`

	// TransferStation is an optional hint naming the interchange.
	// Empty or "Unknown" means the upstream did not resolve one.
	TransferStation string `json:"transferStation,omitempty"`

	// SecondLine is the line serving the post-transfer leg, when known.
	SecondLine string `json:"secondLine,omitempty"`
}

// Validate checks that a trip descriptor carries the fields the route
// planner depends on. Called at the boundary where the raw payload is
// first accepted.
func (t *Trip) Validate() error {
	if t.FromStation.Code == "" {
		return errors.New("trip fromStation.code is required")
	}
	if t.ToStation.Code == "" {
		return errors.New("trip toStation.code is required")
	}
	if t.Line == "" {
		return errors.New("trip line is required")
	}
	if t.Duration < 0 {
		return errors.New("trip duration cannot be negative")
	}
	return nil
}

// TransferHint returns the upstream transfer station hint, or "" when the
// hint is absent or the "Unknown" sentinel.
func (t *Trip) TransferHint() string {
	if t.TransferStation == "" || t.TransferStation == UnknownStation {
		return ""
	}
	return t.TransferStation
}

// Train is one upcoming departure. Upstream orders the list soonest-first.
type Train struct {
	Direction string `json:"direction"`

	// Estimated is minutes until departure.
	Estimated   int    `json:"estimated"`
	TimeRounded string `json:"timeRounded,omitempty"`
	Wagons      int    `json:"wagons"`
}

// Exit is a station exit. Available is computed server-side from the
// night window and is not part of the upstream payload.
type Exit struct {
	Name      string `json:"name"`
	Elevator  bool   `json:"elevator"`
	Nocturnal bool   `json:"nocturnal"`
	Available bool   `json:"available"`
}

// Exits groups exits by end of the trip. Upstream calls the destination
// side "destiny"; the field name is preserved for API compatibility.
type Exits struct {
	Origin  []Exit `json:"origin"`
	Destiny []Exit `json:"destiny"`
}

// CO2Info compares the trip's emissions against driving.
type CO2Info struct {
	CO2Metro       float64 `json:"co2metro"`
	CO2Car         float64 `json:"co2Car"`
	Diff           float64 `json:"diff"`
	MetroDistance  float64 `json:"metroDistance"`
	GoogleDistance float64 `json:"googleDistance"`
}

// RouteData is the full route payload: the upstream response plus the
// fields this service derives (transfer options, formatted text, exit
// availability).
type RouteData struct {
	Trip     Trip     `json:"trip"`
	Trains   []Train  `json:"trains"`
	Exits    Exits    `json:"exits"`
	CO2Metro CO2Info  `json:"co2Metro"`
	Messages []string `json:"messages,omitempty"`

	// Derived fields, absent in the raw upstream response.
	TransferOptions []TransferItinerary `json:"transferOptions,omitempty"`
	Formatted       string              `json:"formatted,omitempty"`
}

// Validate checks the invariants the planner assumes about a raw
// upstream response.
func (r *RouteData) Validate() error {
	return r.Trip.Validate()
}
