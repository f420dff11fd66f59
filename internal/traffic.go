package internal

import (
	"context"
	"fmt"
	"time"
)

// AirportTraffic is one refresh worth of arrivals and departures for an airport.
type AirportTraffic struct {
	Airport    Airport
	Arrivals   []ArrivalView
	Departures []DepartureView
	Fetched    time.Time
}

// ConflictCount returns the number of arrivals in conflict with their predecessor.
func (t *AirportTraffic) ConflictCount() int {
	count := 0
	for _, arrival := range t.Arrivals {
		if arrival.SeparationStatus == SeparationConflict {
			count++
		}
	}

	return count
}

// FetchTraffic pulls one snapshot and derives the arrival sequence and departures from it.
func FetchTraffic(ctx context.Context, feed FeedSource, airport Airport, now time.Time) (*AirportTraffic, error) {
	snapshot, err := feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchTraffic: %w", err)
	}

	arrivals, err := CorrelateArrivals(snapshot, airport)
	if err != nil {
		return nil, fmt.Errorf("fetchTraffic: %w", err)
	}

	departures, err := DetectGroundDepartures(snapshot, airport)
	if err != nil {
		return nil, fmt.Errorf("fetchTraffic: %w", err)
	}

	ApplySeparation(arrivals)

	return &AirportTraffic{
		Airport:    airport,
		Arrivals:   arrivals,
		Departures: departures,
		Fetched:    now,
	}, nil
}
