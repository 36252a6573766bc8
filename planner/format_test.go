package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/bilbometro/api/models"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, "0 min"},
		{1, "1 min"},
		{2, "2 min"},
		{75, "75 min"},
	}
	for _, tc := range tests {
		if got := FormatMinutes(tc.minutes); got != tc.expected {
			t.Errorf("FormatMinutes(%d) = %q, expected %q", tc.minutes, got, tc.expected)
		}
	}
}

func TestClockTime(t *testing.T) {
	now := time.Date(2025, 6, 14, 23, 50, 0, 0, time.UTC)

	if got := ClockTime(now, 0); got != "23:50" {
		t.Errorf("ClockTime(+0) = %q", got)
	}
	// Offsets roll over midnight.
	if got := ClockTime(now, 15); got != "00:05" {
		t.Errorf("ClockTime(+15) = %q, expected 00:05", got)
	}
}

func sampleItinerary() models.TransferItinerary {
	return models.TransferItinerary{
		Description: "Transfer at Santimami/San Mames",
		FirstLeg: models.Leg{
			From: "PLE", To: "SMM",
			FromName: "Plentzia", ToName: "Santimami/San Mames",
			Line:               "L1",
			DepartureInMinutes: 3, ArrivalInMinutes: 13, Duration: 10,
			DepartureTime: "12:03", ArrivalTime: "12:13",
		},
		TransferWait:     2,
		TransferWaitText: "2 min",
		SecondLeg: models.Leg{
			From: "SMM", To: "KAB",
			FromName: "Santimami/San Mames", ToName: "Kabiezes",
			Line:               "L2",
			DepartureInMinutes: 15, ArrivalInMinutes: 26, Duration: 11,
			DepartureTime: "12:15", ArrivalTime: "12:26",
		},
		TotalDuration:     23,
		TotalDurationText: "23 min",
		ExpectedArrival:   "12:23",
		SecondLegSource:   models.LegSourceLive,
	}
}

// Rendering is a pure function of the data: the same itinerary formats
// to the same string every time.
func TestFormattingIsIdempotent(t *testing.T) {
	options := []models.TransferItinerary{sampleItinerary()}

	first := FormatTransferOptions(options)
	second := FormatTransferOptions(options)
	if first != second {
		t.Error("FormatTransferOptions produced different output on repeat rendering")
	}

	data := &models.RouteData{
		Trip: models.Trip{
			FromStation: models.StationRef{Code: "PLE", Name: "Plentzia"},
			ToStation:   models.StationRef{Code: "KAB", Name: "Kabiezes"},
			Duration:    20,
			Line:        "L1",
			Transfer:    true,
		},
		Trains:          []models.Train{{Direction: "Etxebarri", Estimated: 3, Wagons: 4}},
		TransferOptions: options,
	}
	if FormatRouteData(data, false) != FormatRouteData(data, false) {
		t.Error("FormatRouteData produced different output on repeat rendering")
	}
}

func TestFormatTransferOptionsContent(t *testing.T) {
	out := FormatTransferOptions([]models.TransferItinerary{sampleItinerary()})

	for _, want := range []string{
		"Transfer Options:",
		"Option 1:",
		"Plentzia -> Santimami/San Mames",
		"Line: L1",
		"Transfer wait: ~2 min",
		"Santimami/San Mames -> Kabiezes",
		"Line: L2",
		"Total time: 23 min, arriving around 12:23",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted transfer options missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTransferOptionsEmpty(t *testing.T) {
	if out := FormatTransferOptions(nil); out != "" {
		t.Errorf("expected empty string for no options, got %q", out)
	}
}

func TestFormatTrains(t *testing.T) {
	if got := FormatTrains(nil); got != "No trains available" {
		t.Errorf("FormatTrains(nil) = %q", got)
	}

	out := FormatTrains([]models.Train{
		{Direction: "Plentzia", Estimated: 4, TimeRounded: "12:04", Wagons: 5},
	})
	for _, want := range []string{"Train 1: Plentzia", "Estimated: 4 minutes (12:04)", "Wagons: 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted trains missing %q:\n%s", want, out)
		}
	}
}

func TestFormatExitsModes(t *testing.T) {
	exits := models.Exits{
		Origin:  []models.Exit{{Name: "Main", Available: true}},
		Destiny: []models.Exit{{Name: "Harbour", Elevator: true, Nocturnal: true, Available: true}},
	}

	day := FormatExits(exits, false)
	if !strings.Contains(day, "(Day Mode)") {
		t.Error("day rendering missing mode marker")
	}
	night := FormatExits(exits, true)
	if !strings.Contains(night, "(Night Mode)") {
		t.Error("night rendering missing mode marker")
	}
	for _, want := range []string{"OPEN - Main", "Elevator | 24h", "Stairs | Day only"} {
		if !strings.Contains(day, want) {
			t.Errorf("formatted exits missing %q:\n%s", want, day)
		}
	}
}

func TestFormatRouteDataSections(t *testing.T) {
	data := &models.RouteData{
		Trip: models.Trip{
			FromStation: models.StationRef{Code: "PLE", Name: "Plentzia"},
			ToStation:   models.StationRef{Code: "ETX", Name: "Etxebarri"},
			Duration:    42,
			Line:        "L1",
		},
		CO2Metro: models.CO2Info{CO2Metro: 0.5, CO2Car: 3.2, Diff: 2.7, MetroDistance: 20, GoogleDistance: 24},
		Messages: []string{"Elevator works at Abando"},
	}

	out := FormatRouteData(data, false)
	for _, want := range []string{
		"METRO BILBAO - ROUTE INFORMATION",
		"From: Plentzia (PLE)",
		"Transfer Required: No",
		"No trains available",
		"Savings: 2.70 kg",
		"Important Messages:",
		"- Elevator works at Abando",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted route missing %q", want)
		}
	}
	if strings.Contains(out, "Transfer Options:") {
		t.Error("non-transfer route should not render a transfer block")
	}
}
