package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bilbometro/api/config"
	"github.com/bilbometro/api/models"
)

// MinTransferWait is the floor on the transfer wait, in minutes. Walking
// between platforms at the interchange is never free, so computed waits
// below this are raised to it.
const MinTransferWait = 2

// TripFetcher fetches real-time route data between two stations from the
// upstream Metro Bilbao API.
type TripFetcher interface {
	GetRouteInfo(ctx context.Context, origin, destination string) (*models.RouteData, error)
}

// Planner builds enriched route responses: transfer itineraries, exit
// availability and formatted text on top of the raw upstream payload.
// Safe for concurrent use; all shared state is the immutable topology.
type Planner struct {
	fetcher TripFetcher
	network *Network
	cfg     *config.Config
	logger  *logrus.Logger
	now     func() time.Time
}

// New creates a Planner.
func New(fetcher TripFetcher, network *Network, cfg *config.Config, logger *logrus.Logger) *Planner {
	return &Planner{
		fetcher: fetcher,
		network: network,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// GetRoute fetches route data for a station pair and enriches it. Station
// codes must already be normalized (upper case, trimmed) by the caller.
func (p *Planner) GetRoute(ctx context.Context, origin, destination string) (*models.RouteData, error) {
	data, err := p.fetcher.GetRouteInfo(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("fetching route %s-%s: %w", origin, destination, err)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("upstream route %s-%s: %w", origin, destination, err)
	}

	now := p.now()

	if data.Trip.Transfer {
		itinerary, err := p.BuildTransferItinerary(ctx, origin, destination, data)
		if err != nil {
			return nil, err
		}
		data.TransferOptions = []models.TransferItinerary{itinerary}
	}

	night := p.cfg.IsNight(now)
	data.Exits.Origin = filterAvailableExits(data.Exits.Origin, night)
	data.Exits.Destiny = filterAvailableExits(data.Exits.Destiny, night)

	data.Formatted = FormatRouteData(data, night)

	return data, nil
}

// BuildTransferItinerary produces a fully time-resolved two-leg itinerary
// for a trip the upstream has flagged as requiring a transfer. The
// second-leg re-query is best effort: when it fails the itinerary falls
// back to estimated timing instead of surfacing the error.
//
// The caller must have validated the raw response; passing a trip without
// the transfer flag is a contract violation and fails loudly.
func (p *Planner) BuildTransferItinerary(ctx context.Context, origin, destination string, raw *models.RouteData) (models.TransferItinerary, error) {
	if !raw.Trip.Transfer {
		return models.TransferItinerary{}, fmt.Errorf("trip %s-%s does not require a transfer", origin, destination)
	}

	transferStation := raw.Trip.TransferHint()
	if transferStation == "" {
		station, outcome := p.network.ResolveTransferStation(origin, destination)
		if outcome == TransferAt {
			transferStation = station
		} else {
			// Degraded but still producible: the itinerary carries the
			// sentinel instead of failing the request.
			p.logger.WithFields(logrus.Fields{
				"origin":      origin,
				"destination": destination,
			}).Warn("transfer station could not be resolved")
			transferStation = models.UnknownStation
		}
	}

	// The upstream reports only the combined duration. Split it evenly as
	// a first approximation; a successful live re-query replaces the
	// second half below. The midpoint split is a known coarse estimate
	// kept for compatibility with existing consumers.
	firstLegDuration := raw.Trip.Duration / 2
	secondLegDuration := raw.Trip.Duration - firstLegDuration

	firstDeparture := 0
	if len(raw.Trains) > 0 {
		firstDeparture = raw.Trains[0].Estimated
	}
	arrivalAtTransfer := firstDeparture + firstLegDuration

	transferWait := MinTransferWait
	secondLine := raw.Trip.SecondLine
	source := models.LegSourceEstimated

	if transferStation != models.UnknownStation {
		second, err := p.fetcher.GetRouteInfo(ctx, transferStation, destination)
		switch {
		case err != nil:
			p.logger.WithFields(logrus.Fields{
				"transferStation": transferStation,
				"destination":     destination,
				"error":           err,
			}).Warn("second-leg query failed, using estimated timing")
		case second.Trip.Validate() != nil:
			p.logger.WithFields(logrus.Fields{
				"transferStation": transferStation,
				"destination":     destination,
			}).Warn("second-leg response malformed, using estimated timing")
		default:
			transferWait = pickTransferWait(second.Trains, arrivalAtTransfer)
			secondLegDuration = second.Trip.Duration
			if secondLine == "" {
				secondLine = second.Trip.Line
			}
			source = models.LegSourceLive
		}
	}
	if secondLine == "" {
		secondLine = raw.Trip.Line
	}

	totalDuration := firstLegDuration + transferWait + secondLegDuration
	now := p.now()

	originName := displayName(raw.Trip.FromStation, p.network, origin)
	destName := displayName(raw.Trip.ToStation, p.network, destination)
	transferName := models.UnknownStation
	if transferStation != models.UnknownStation {
		transferName = p.network.StationName(transferStation)
	}

	secondDeparture := arrivalAtTransfer + transferWait

	return models.TransferItinerary{
		Description: fmt.Sprintf("Transfer at %s", transferName),
		FirstLeg: models.Leg{
			From:               origin,
			To:                 transferStation,
			FromName:           originName,
			ToName:             transferName,
			Line:               raw.Trip.Line,
			DepartureInMinutes: firstDeparture,
			ArrivalInMinutes:   arrivalAtTransfer,
			Duration:           firstLegDuration,
			DepartureTime:      ClockTime(now, firstDeparture),
			ArrivalTime:        ClockTime(now, arrivalAtTransfer),
		},
		TransferWait:     transferWait,
		TransferWaitText: FormatMinutes(transferWait),
		SecondLeg: models.Leg{
			From:               transferStation,
			To:                 destination,
			FromName:           transferName,
			ToName:             destName,
			Line:               secondLine,
			DepartureInMinutes: secondDeparture,
			ArrivalInMinutes:   secondDeparture + secondLegDuration,
			Duration:           secondLegDuration,
			DepartureTime:      ClockTime(now, secondDeparture),
			ArrivalTime:        ClockTime(now, secondDeparture+secondLegDuration),
		},
		TotalDuration:     totalDuration,
		TotalDurationText: FormatMinutes(totalDuration),
		ExpectedArrival:   ClockTime(now, totalDuration),
		SecondLegSource:   source,
	}, nil
}

// pickTransferWait selects the wait at the interchange from the live
// second-leg schedule: the first train departing at or after our arrival,
// floored at the minimum walking time. When every listed train leaves
// before we arrive, the soonest train's own departure offset is used as
// the wait (the schedule will have rolled over by then).
func pickTransferWait(trains []models.Train, arrivalAtTransfer int) int {
	for _, train := range trains {
		if train.Estimated >= arrivalAtTransfer {
			return maxInt(MinTransferWait, train.Estimated-arrivalAtTransfer)
		}
	}
	if len(trains) > 0 {
		return maxInt(MinTransferWait, trains[0].Estimated)
	}
	return MinTransferWait
}

// displayName resolves a station's display name: upstream descriptor
// first, static table second, raw code last.
func displayName(ref models.StationRef, network *Network, code string) string {
	if ref.Name != "" {
		return ref.Name
	}
	return network.StationName(code)
}

// filterAvailableExits marks each exit's availability for the current
// time of day. Exits are open when it is not night, or around the clock
// when flagged nocturnal.
func filterAvailableExits(exits []models.Exit, night bool) []models.Exit {
	for i := range exits {
		exits[i].Available = !night || exits[i].Nocturnal
	}
	return exits
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
