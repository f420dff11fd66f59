package internal

import (
	"context"
	"math"
)

// nmPerDegreeLat is the length of one degree along a meridian.
var nmPerDegreeLat = GreatCircleDistance(0, 0, 1, 0) //nolint:gochecknoglobals // test fixture

// pilotNorthOf places a pilot distanceNm due north of airport.
func pilotNorthOf(airport Airport, callsign string, distanceNm float64, altitude, groundspeed int, fp *FlightPlan) PilotRecord {
	return PilotRecord{
		Callsign:    callsign,
		Latitude:    airport.Position.Lat + distanceNm/nmPerDegreeLat,
		Longitude:   airport.Position.Long,
		Altitude:    altitude,
		Groundspeed: groundspeed,
		FlightPlan:  fp,
	}
}

func inboundTo(code string) *FlightPlan {
	return &FlightPlan{Departure: "EPWA", Arrival: code, AircraftShort: "B738"}
}

func outboundFrom(code string) *FlightPlan {
	return &FlightPlan{Departure: code, Arrival: "LOWW", AircraftShort: "A320", Route: "DCT", Altitude: "FL350"}
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// staticFeed serves a fixed snapshot or error.
type staticFeed struct {
	snapshot *Snapshot
	err      error
	calls    int
}

func (f *staticFeed) Fetch(_ context.Context) (*Snapshot, error) {
	f.calls++
	return f.snapshot, f.err
}
