package internal

import (
	"fmt"
	"time"
)

// DepartureLister yields the manual departures with countdowns relative to now.
type DepartureLister interface {
	List(now time.Time) []ManualDepartureView
}

// DepartureReport combines manual and feed-derived departures for one airport. The two
// halves are never cross-matched, even when callsigns coincide.
type DepartureReport struct {
	AirportCode string                `json:"airport_code"`
	AirportName string                `json:"airport_name"`
	Manual      []ManualDepartureView `json:"manual_departures"`
	Vatsim      []DepartureView       `json:"vatsim_departures"`
	ManualCount int                   `json:"manual_count"`
	VatsimCount int                   `json:"vatsim_count"`
	TotalCount  int                   `json:"total_count"`
}

// AggregateDepartures merges the manual store with the ground departures detected in snapshot.
func AggregateDepartures(
	store DepartureLister,
	snapshot *Snapshot,
	airport Airport,
	now time.Time,
) (DepartureReport, error) {
	vatsim, err := DetectGroundDepartures(snapshot, airport)
	if err != nil {
		return DepartureReport{}, fmt.Errorf("aggregateDepartures: %w", err)
	}

	manual := store.List(now)

	return DepartureReport{
		AirportCode: airport.Code,
		AirportName: airport.Name,
		Manual:      manual,
		Vatsim:      vatsim,
		ManualCount: len(manual),
		VatsimCount: len(vatsim),
		TotalCount:  len(manual) + len(vatsim),
	}, nil
}
