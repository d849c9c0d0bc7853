// README: Nearest-driver selection over the eligible candidate set.
package dispatch

import (
	"lifeline/internal/modules/driver"
	"lifeline/internal/modules/location"
	"lifeline/internal/types"
)

// SelectNearest returns the id of the candidate closest to pickup by
// great-circle distance, and false when candidates is empty. Ties resolve to
// the earliest candidate in the input ordering, which the pool fixes to
// insertion order, so the outcome is deterministic for a given pool history.
// Pure function: candidates are only read.
func SelectNearest(pickup types.Point, candidates []driver.Driver) (types.ID, bool) {
	var (
		bestID   types.ID
		bestDist float64
		found    bool
	)
	for _, c := range candidates {
		if c.Location == nil {
			continue
		}
		d := location.DistanceKm(pickup, *c.Location)
		if !found || d < bestDist {
			bestID = c.ID
			bestDist = d
			found = true
		}
	}
	return bestID, found
}
