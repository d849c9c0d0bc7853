// README: Ride record and status definitions.
package ride

import (
	"time"

	"lifeline/internal/modules/driver"
	"lifeline/internal/types"
)

type Status string

const (
	// StatusRequested exists only between a booking request and the match
	// decision; it is never stored in the table.
	StatusRequested Status = "requested"

	StatusEnRouteToPickup      Status = "en_route_to_pickup"
	StatusEnRouteToDestination Status = "en_route_to_destination"
	StatusFinished             Status = "finished"
	StatusCancelled            Status = "cancelled"
)

// Ride is one active assignment of a driver to a patient. The driver's
// profile and last relayed position are carried on the record so the driver
// can be returned to the pool when the ride ends.
type Ride struct {
	PatientID      types.ID       `json:"patient_id"`
	DriverID       types.ID       `json:"driver_id"`
	DriverProfile  driver.Profile `json:"driver_profile"`
	DriverLocation *types.Point   `json:"driver_location,omitempty"`
	Route          []types.Point  `json:"route"`
	Status         Status         `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}

// AllowedTransitions represents the ride state flow (diagram) as code.
// Finished and cancelled are terminal; the record is removed on reaching
// either, so they never appear as map keys.
var AllowedTransitions = map[Status][]Status{
	StatusEnRouteToPickup:      {StatusEnRouteToDestination, StatusCancelled},
	StatusEnRouteToDestination: {StatusFinished, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
