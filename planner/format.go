package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/bilbometro/api/models"
)

const rule = "============================================================"

// FormatMinutes renders a minute count for display.
func FormatMinutes(minutes int) string {
	if minutes == 1 {
		return "1 min"
	}
	return fmt.Sprintf("%d min", minutes)
}

// ClockTime renders "now + offset minutes" as a wall-clock HH:MM string.
func ClockTime(now time.Time, offsetMinutes int) string {
	return now.Add(time.Duration(offsetMinutes) * time.Minute).Format("15:04")
}

// FormatTripInfo renders the trip descriptor as plain text.
func FormatTripInfo(trip models.Trip) string {
	transfer := "No"
	if trip.Transfer {
		transfer = "Yes"
	}
	lines := []string{
		"",
		"Trip Information:",
		rule,
		fmt.Sprintf("From: %s (%s)", trip.FromStation.Name, trip.FromStation.Code),
		fmt.Sprintf("To: %s (%s)", trip.ToStation.Name, trip.ToStation.Code),
		fmt.Sprintf("Duration: %d minutes", trip.Duration),
		fmt.Sprintf("Line: %s", trip.Line),
		fmt.Sprintf("Transfer Required: %s", transfer),
	}
	return strings.Join(lines, "\n")
}

// FormatTrains renders the upcoming departures.
func FormatTrains(trains []models.Train) string {
	if len(trains) == 0 {
		return "No trains available"
	}
	lines := []string{"Upcoming Trains:", rule}
	for i, train := range trains {
		lines = append(lines, fmt.Sprintf("Train %d: %s", i+1, train.Direction))
		estimated := fmt.Sprintf("  Estimated: %d minutes", train.Estimated)
		if train.TimeRounded != "" {
			estimated += fmt.Sprintf(" (%s)", train.TimeRounded)
		}
		lines = append(lines, estimated)
		lines = append(lines, fmt.Sprintf("  Wagons: %d", train.Wagons))
	}
	return strings.Join(lines, "\n")
}

// FormatExits renders exit availability for both ends of the trip.
func FormatExits(exits models.Exits, night bool) string {
	mode := "(Day Mode)"
	if night {
		mode = "(Night Mode)"
	}
	lines := []string{"", fmt.Sprintf("Station Exits %s:", mode), rule}

	lines = append(lines, "", "Origin Station Exits:")
	lines = append(lines, formatExitList(exits.Origin)...)
	lines = append(lines, "", "Destination Station Exits:")
	lines = append(lines, formatExitList(exits.Destiny)...)

	return strings.Join(lines, "\n")
}

func formatExitList(exits []models.Exit) []string {
	if len(exits) == 0 {
		return []string{"  (none listed)"}
	}
	out := make([]string, 0, len(exits)*2)
	for _, exit := range exits {
		status := "OPEN"
		if !exit.Available {
			status = "CLOSED"
		}
		access := "Stairs"
		if exit.Elevator {
			access = "Elevator"
		}
		hours := "Day only"
		if exit.Nocturnal {
			hours = "24h"
		}
		out = append(out, fmt.Sprintf("  %s - %s", status, exit.Name))
		out = append(out, fmt.Sprintf("    %s | %s", access, hours))
	}
	return out
}

// FormatCO2Info renders the emissions comparison.
func FormatCO2Info(co2 models.CO2Info) string {
	lines := []string{
		"",
		"Environmental Impact:",
		rule,
		fmt.Sprintf("Metro CO2: %.2f kg", co2.CO2Metro),
		fmt.Sprintf("Car CO2: %.2f kg", co2.CO2Car),
		fmt.Sprintf("Savings: %.2f kg", co2.Diff),
		fmt.Sprintf("Metro Distance: %.2f km", co2.MetroDistance),
		fmt.Sprintf("Car Distance: %.2f km", co2.GoogleDistance),
	}
	return strings.Join(lines, "\n")
}

// FormatTransferOptions renders the transfer itineraries block. Returns
// "" when the route has no transfer options.
func FormatTransferOptions(options []models.TransferItinerary) string {
	if len(options) == 0 {
		return ""
	}
	lines := []string{"", "Transfer Options:", rule}
	for i, opt := range options {
		lines = append(lines, fmt.Sprintf("\nOption %d:", i+1))
		lines = append(lines, fmt.Sprintf("  1) %s -> %s", opt.FirstLeg.FromName, opt.FirstLeg.ToName))
		lines = append(lines, fmt.Sprintf("     Line: %s, Departure: %s, Duration: %s",
			opt.FirstLeg.Line, opt.FirstLeg.DepartureTime, FormatMinutes(opt.FirstLeg.Duration)))
		lines = append(lines, fmt.Sprintf("  Transfer wait: ~%s", opt.TransferWaitText))
		lines = append(lines, fmt.Sprintf("  2) %s -> %s", opt.SecondLeg.FromName, opt.SecondLeg.ToName))
		lines = append(lines, fmt.Sprintf("     Line: %s, Departure: %s, Duration: %s",
			opt.SecondLeg.Line, opt.SecondLeg.DepartureTime, FormatMinutes(opt.SecondLeg.Duration)))
		lines = append(lines, fmt.Sprintf("  Total time: %s, arriving around %s",
			opt.TotalDurationText, opt.ExpectedArrival))
	}
	return strings.Join(lines, "\n")
}

// FormatMessages renders upstream service messages, or "" when none.
func FormatMessages(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	lines := []string{"", "Important Messages:", rule}
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("  - %s", msg))
	}
	return strings.Join(lines, "\n")
}

// FormatRouteData renders the complete plain-text report. Pure function
// of its inputs; rendering the same data twice yields identical output.
func FormatRouteData(data *models.RouteData, night bool) string {
	sections := []string{
		rule,
		"METRO BILBAO - ROUTE INFORMATION",
		rule,
		FormatTripInfo(data.Trip),
		FormatTrains(data.Trains),
		FormatExits(data.Exits, night),
		FormatCO2Info(data.CO2Metro),
	}
	if block := FormatTransferOptions(data.TransferOptions); block != "" {
		sections = append(sections, block)
	}
	if block := FormatMessages(data.Messages); block != "" {
		sections = append(sections, block)
	}
	return strings.Join(sections, "\n")
}
