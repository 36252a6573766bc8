package models

// LegSource records how a leg's timing was obtained. The second leg of a
// transfer itinerary is re-queried live when possible and estimated from
// the primary response otherwise; the distinction is a normal outcome,
// not an error.
type LegSource string

const (
	LegSourceLive      LegSource = "live"
	LegSourceEstimated LegSource = "estimated"
)

// Leg is one single-line segment of a transfer itinerary. Offsets are
// minutes from the moment the itinerary was computed; the *Time fields
// are the same instants rendered as wall-clock "HH:MM" strings.
type Leg struct {
	From     string `json:"from"`
	To       string `json:"to"`
	FromName string `json:"fromName"`
	ToName   string `json:"toName"`
	Line     string `json:"line"`

	DepartureInMinutes int `json:"departureInMinutes"`
	ArrivalInMinutes   int `json:"arrivalInMinutes"`
	Duration           int `json:"duration"`

	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}

// TransferItinerary is a fully time-resolved two-leg route option.
// Values are fixed at construction; the struct is never updated in place.
//
// Invariant: TotalDuration == FirstLeg.Duration + TransferWait +
// SecondLeg.Duration, exactly, on every construction path.
type TransferItinerary struct {
	Description string `json:"description"`

	FirstLeg Leg `json:"firstLeg"`

	// TransferWait is idle time at the interchange, in minutes. Never
	// below the enforced walking-time floor.
	TransferWait     int    `json:"transferWait"`
	TransferWaitText string `json:"transferWaitText"`

	SecondLeg Leg `json:"secondLeg"`

	TotalDuration     int    `json:"totalDuration"`
	TotalDurationText string `json:"totalDurationText"`

	// ExpectedArrival is the wall-clock time TotalDuration from the
	// moment of computation.
	ExpectedArrival string `json:"expectedArrival"`

	// SecondLegSource reports whether second-leg timing came from a live
	// re-query or from the halved-duration estimate.
	SecondLegSource LegSource `json:"secondLegSource"`
}
