package tickerapp

import (
	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

// conflictPair names two successive arrivals closer than the conflict threshold.
type conflictPair struct {
	leader     string
	follower   string
	separation float64
}

func (p conflictPair) key() string {
	return p.leader + "/" + p.follower
}

// conflictTracker remembers which pairs were already reported so each conflict is announced
// once. Pairs that stop conflicting are forgotten and will be announced again if they recur.
type conflictTracker struct {
	active map[string]struct{}
}

func newConflictTracker() *conflictTracker {
	return &conflictTracker{active: make(map[string]struct{})}
}

// update takes an ETA-sorted, separation-annotated sequence and returns the pairs that were
// not in conflict on the previous call.
func (ct *conflictTracker) update(arrivals []internal.ArrivalView) []conflictPair {
	current := make(map[string]struct{})

	var fresh []conflictPair

	for i := 1; i < len(arrivals); i++ {
		follower := &arrivals[i]
		if follower.SeparationStatus != internal.SeparationConflict || follower.DistanceSeparationNm == nil {
			continue
		}

		pair := conflictPair{
			leader:     arrivals[i-1].Callsign,
			follower:   follower.Callsign,
			separation: *follower.DistanceSeparationNm,
		}
		current[pair.key()] = struct{}{}

		if _, seen := ct.active[pair.key()]; !seen {
			fresh = append(fresh, pair)
		}
	}

	ct.active = current

	return fresh
}
