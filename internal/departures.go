package internal

import (
	"fmt"
	"sort"
)

const (
	// An aircraft counts as on the ground at or below these values.
	groundMaxAltitudeFt = 500
	groundMaxSpeedKt    = 50
	// groundMaxDistanceNm is how close to the airport a grounded aircraft must be, unrounded.
	groundMaxDistanceNm = 5.0
)

// DepartureSource tags where a departure entry came from.
type DepartureSource int

const (
	SourceManual  DepartureSource = iota // filed by an operator or pilot through this service
	SourcePrefile                        // flight plan pre-filed on the network
	SourceGround                         // connected aircraft sitting on the ground at the airport
)

func (s DepartureSource) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourcePrefile:
		return "prefile"
	case SourceGround:
		return "ground"
	}

	return fmt.Sprintf("DepartureSource(%d)", int(s))
}

// MarshalText encodes the source as its name.
func (s DepartureSource) MarshalText() ([]byte, error) {
	switch s {
	case SourceManual, SourcePrefile, SourceGround:
		return []byte(s.String()), nil
	}

	return nil, fmt.Errorf("marshalText: unknown departure source %d", int(s))
}

// DepartureView is a feed-derived departure.
type DepartureView struct {
	Callsign     string          `json:"callsign"`
	AircraftType string          `json:"aircraft_type"`
	Departure    string          `json:"departure"`
	Arrival      string          `json:"arrival"`
	Route        string          `json:"route"`
	Altitude     string          `json:"altitude"` // filed cruise altitude
	Remarks      string          `json:"remarks"`
	Source       DepartureSource `json:"source"`
	DistanceNm   *float64        `json:"distance_nm,omitempty"` // ground entries only
}

// ByCallsign implements the comparator interface and allows sorting departures by callsign.
type ByCallsign []DepartureView

func (a ByCallsign) Len() int           { return len(a) }
func (a ByCallsign) Less(i, j int) bool { return a[i].Callsign < a[j].Callsign }
func (a ByCallsign) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// DetectGroundDepartures returns the pre-filed flights out of airport together with the
// aircraft still on the ground there, ordered by callsign.
func DetectGroundDepartures(snapshot *Snapshot, airport Airport) ([]DepartureView, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("detectGroundDepartures: %w", ErrUpstreamUnavailable)
	}

	return mergeDepartures(
		prefiledDepartures(snapshot, airport),
		groundDepartures(snapshot, airport),
	), nil
}

func prefiledDepartures(snapshot *Snapshot, airport Airport) []DepartureView {
	var departures []DepartureView

	for i := range snapshot.Prefiles {
		prefile := &snapshot.Prefiles[i]
		if prefile.FlightPlan.DepartureCode() != airport.Code {
			continue
		}

		departures = append(departures, newDepartureView(prefile.Callsign, prefile.FlightPlan, SourcePrefile))
	}

	return departures
}

func groundDepartures(snapshot *Snapshot, airport Airport) []DepartureView {
	var departures []DepartureView

	for i := range snapshot.Pilots {
		pilot := &snapshot.Pilots[i]
		if pilot.FlightPlan.DepartureCode() != airport.Code || !isOnGround(pilot) {
			continue
		}

		distance := distanceNM(pilot.Position(), airport.Position)
		if distance > groundMaxDistanceNm {
			continue
		}

		rounded := roundTenth(distance)
		view := newDepartureView(pilot.Callsign, pilot.FlightPlan, SourceGround)
		view.DistanceNm = &rounded
		departures = append(departures, view)
	}

	return departures
}

func isOnGround(pilot *PilotRecord) bool {
	return pilot.Altitude <= groundMaxAltitudeFt && pilot.Groundspeed <= groundMaxSpeedKt
}

func newDepartureView(callsign string, fp *FlightPlan, source DepartureSource) DepartureView {
	view := DepartureView{
		Callsign:     callsign,
		AircraftType: fp.AircraftType(),
		Departure:    fp.DepartureCode(),
		Arrival:      fp.ArrivalCode(),
		Source:       source,
	}

	if fp != nil {
		view.Route = fp.Route
		view.Altitude = fp.Altitude
		view.Remarks = fp.Remarks
	}

	return view
}

// mergeDepartures concatenates the per-source lists and orders them by callsign. A callsign
// present in several sources is kept once per source.
func mergeDepartures(sources ...[]DepartureView) []DepartureView {
	merged := make([]DepartureView, 0)
	for _, source := range sources {
		merged = append(merged, source...)
	}

	sort.Stable(ByCallsign(merged))

	return merged
}
