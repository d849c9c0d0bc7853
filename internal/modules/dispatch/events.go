// README: Tagged union of inbound events and the outbound event names.
package dispatch

import (
	"lifeline/internal/modules/driver"
	"lifeline/internal/types"
)

// Event is one inbound occurrence attributed to the session that produced
// it. The engine consumes the whole union through a single Handle call, so
// every message type flows through the same transition code path.
type Event interface {
	isEvent()
}

// DriverOnline announces (or re-announces) a driver as available.
type DriverOnline struct {
	Profile  driver.Profile
	Location *types.Point
}

// RequestBooking asks for the nearest available driver. Pickup is nil when
// the client omitted or mangled the coordinate pair; the engine drops such
// requests without replying.
type RequestBooking struct {
	Pickup *types.Point
	Route  []types.Point
}

// PickupComplete reports that the assigned driver has the patient on board.
// PatientID is an optional cross-check; when set and mismatched the event is
// treated as stale.
type PickupComplete struct {
	PatientID types.ID
}

// LocationUpdate carries a driver position report.
type LocationUpdate struct {
	Location types.Point
}

// RideFinished reports arrival at the destination. Location is the driver's
// final position, used when returning the driver to the pool; nil leaves the
// driver pooled but ineligible until the next report.
type RideFinished struct {
	Location *types.Point
}

// CancelBooking is the patient abandoning their active ride.
type CancelBooking struct{}

// Disconnect is synthesized by the transport when a session ends.
type Disconnect struct{}

func (DriverOnline) isEvent()   {}
func (RequestBooking) isEvent() {}
func (PickupComplete) isEvent() {}
func (LocationUpdate) isEvent() {}
func (RideFinished) isEvent()   {}
func (CancelBooking) isEvent()  {}
func (Disconnect) isEvent()     {}

// Outbound event names on the wire.
const (
	EventBookingAccepted   = "booking-accepted"
	EventStartRide         = "start-ride"
	EventNoDrivers         = "no-drivers-available"
	EventEnRouteToDropoff  = "en-route-to-destination"
	EventAmbulanceLocation = "ambulance-location-update"
	EventRideFinished      = "ride-finished"
	EventBookingCancelled  = "booking-cancelled"
	EventRideCancelled     = "ride-cancelled"
)
