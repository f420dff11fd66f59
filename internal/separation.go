package internal

import "math"

const (
	// conflictThresholdNm and monitorThresholdNm are exclusive upper bounds.
	conflictThresholdNm = 3.0
	monitorThresholdNm  = 5.0
)

// SeparationStatus is a coarse proximity-risk classification between successive arrivals.
type SeparationStatus string

const (
	SeparationOK       SeparationStatus = "ok"
	SeparationMonitor  SeparationStatus = "monitor"
	SeparationConflict SeparationStatus = "conflict"
)

// ClassifySeparation maps a separation in nautical miles to a status. A value exactly on a
// threshold falls into the less severe band.
func ClassifySeparation(separationNm float64) SeparationStatus {
	switch {
	case separationNm < conflictThresholdNm:
		return SeparationConflict
	case separationNm < monitorThresholdNm:
		return SeparationMonitor
	default:
		return SeparationOK
	}
}

// ApplySeparation annotates an ETA-sorted arrival sequence in place. The separation of an
// arrival is the difference between its distance to the airport and that of its predecessor,
// not the distance between the two aircraft.
func ApplySeparation(arrivals []ArrivalView) {
	for i := range arrivals {
		if i == 0 {
			arrivals[i].DistanceSeparationNm = nil
			arrivals[i].SeparationStatus = SeparationOK
			continue
		}

		separation := roundTenth(math.Abs(arrivals[i].DistanceNm - arrivals[i-1].DistanceNm))
		arrivals[i].DistanceSeparationNm = &separation
		arrivals[i].SeparationStatus = ClassifySeparation(separation)
	}
}
