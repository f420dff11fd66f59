package internal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFetchTraffic(t *testing.T) {
	airport := testAirport()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	feed := &staticFeed{snapshot: &Snapshot{
		Pilots: []PilotRecord{
			pilotNorthOf(airport, "LEAD", 10, 3000, 180, inboundTo(airport.Code)),
			pilotNorthOf(airport, "TAIL", 12, 3500, 180, inboundTo(airport.Code)),
			pilotNorthOf(airport, "GATE", 0.1, 0, 0, outboundFrom(airport.Code)),
		},
	}}

	traffic, err := FetchTraffic(context.Background(), feed, airport, now)
	if err != nil {
		t.Fatalf("FetchTraffic() error = %v", err)
	}

	if len(traffic.Arrivals) != 2 || len(traffic.Departures) != 1 || !traffic.Fetched.Equal(now) {
		t.Fatalf("unexpected traffic %+v", traffic)
	}

	if traffic.Arrivals[1].SeparationStatus != SeparationConflict || traffic.ConflictCount() != 1 {
		t.Errorf("expected TAIL in conflict, got %+v", traffic.Arrivals[1])
	}
}

func TestFetchTrafficUpstreamFailure(t *testing.T) {
	feed := &staticFeed{err: ErrUpstreamUnavailable}

	_, err := FetchTraffic(context.Background(), feed, testAirport(), time.Now())
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
