package relay

import (
	"time"

	"airmax/models"
)

// SplitDirections decides which of the two resolved legs is the depart
// leg and which is the return. The decision is based purely on the
// resolved flight schedules, so it is stable under out-of-order webhook
// delivery: the leg whose earliest flight departs first is the depart
// leg. When neither leg carries a usable departure time, or both depart
// at the same instant, the stored (first-arrived) leg is treated as
// depart.
func SplitDirections(stored, incoming []models.FlightRef) (depart, ret []models.FlightRef) {
	storedAt, storedOK := earliestDeparture(stored)
	incomingAt, incomingOK := earliestDeparture(incoming)

	if storedOK && incomingOK && incomingAt.Before(storedAt) {
		return incoming, stored
	}
	if !storedOK && incomingOK {
		return incoming, stored
	}
	return stored, incoming
}

func earliestDeparture(refs []models.FlightRef) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, r := range refs {
		if r.DepartureAt.IsZero() {
			continue
		}
		if !found || r.DepartureAt.Before(earliest) {
			earliest = r.DepartureAt
			found = true
		}
	}
	return earliest, found
}
