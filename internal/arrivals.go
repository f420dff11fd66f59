package internal

import (
	"fmt"
	"sort"
)

const (
	// arrivalRangeNm is the feed-range cutoff; aircraft farther out are not considered approaching.
	// It applies to the unrounded distance.
	arrivalRangeNm = 200.0
	// ETAUnknownMinutes is assigned to aircraft without groundspeed.
	ETAUnknownMinutes = 999.0
	minutesPerHour    = 60.0
)

// ArrivalView is an inbound aircraft annotated with distance, ETA and separation to its
// predecessor in the arrival sequence.
type ArrivalView struct {
	Callsign             string           `json:"callsign"`
	AircraftType         string           `json:"aircraft_type"`
	Departure            string           `json:"departure_code"`
	Altitude             int              `json:"altitude"`               // in [feet]
	Groundspeed          int              `json:"groundspeed"`            // in [knots]
	DistanceNm           float64          `json:"distance_nm"`            // to the airport, 1 decimal
	ETAMinutes           float64          `json:"eta_minutes"`            // 1 decimal, 999 if unknown
	DistanceSeparationNm *float64         `json:"distance_separation_nm"` // nil for the first arrival
	SeparationStatus     SeparationStatus `json:"separation_status"`
}

// ByETA implements the comparator interface and allows sorting arrivals by ETA.
// Use it with sort.Stable so that equal ETAs keep their feed order.
type ByETA []ArrivalView

func (a ByETA) Len() int           { return len(a) }
func (a ByETA) Less(i, j int) bool { return a[i].ETAMinutes < a[j].ETAMinutes }
func (a ByETA) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// CorrelateArrivals narrows a snapshot to the aircraft inbound to airport within range and
// returns them sorted by ETA. Separation fields are left unset; see ApplySeparation.
func CorrelateArrivals(snapshot *Snapshot, airport Airport) ([]ArrivalView, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("correlateArrivals: %w", ErrUpstreamUnavailable)
	}

	arrivals := make([]ArrivalView, 0)

	for i := range snapshot.Pilots {
		pilot := &snapshot.Pilots[i]
		if pilot.FlightPlan.ArrivalCode() != airport.Code {
			continue
		}

		distance := distanceNM(pilot.Position(), airport.Position)
		if distance > arrivalRangeNm {
			continue
		}

		arrivals = append(arrivals, ArrivalView{
			Callsign:             pilot.Callsign,
			AircraftType:         pilot.FlightPlan.AircraftType(),
			Departure:            pilot.FlightPlan.DepartureCode(),
			Altitude:             pilot.Altitude,
			Groundspeed:          pilot.Groundspeed,
			DistanceNm:           roundTenth(distance),
			ETAMinutes:           estimateETA(distance, pilot.Groundspeed),
			DistanceSeparationNm: nil,
			SeparationStatus:     SeparationOK,
		})
	}

	sort.Stable(ByETA(arrivals))

	return arrivals, nil
}

// ETAKnown reports whether ETAMinutes is an estimate rather than the unknown sentinel.
func (a *ArrivalView) ETAKnown() bool {
	return a.Groundspeed > 0
}

// estimateETA returns minutes to cover distance at groundspeed, or the 999 sentinel.
func estimateETA(distanceNm float64, groundspeed int) float64 {
	if groundspeed <= 0 {
		return ETAUnknownMinutes
	}

	return roundTenth(distanceNm / float64(groundspeed) * minutesPerHour)
}
