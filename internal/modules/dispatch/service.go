// README: Dispatch engine; owns the driver pool and ride table and implements state transitions.
package dispatch

import (
	"log/slog"
	"sync"
	"time"

	"lifeline/internal/modules/driver"
	"lifeline/internal/modules/ride"
	"lifeline/internal/types"
)

// Notifier delivers one outbound event to the addressed session. Sends are
// fire-and-forget; delivery is the transport's responsibility and the engine
// never waits on it.
type Notifier interface {
	Send(sessionID types.ID, event string, payload any)
}

// Telemetry observes pool membership changes. Implementations must not
// block; the Redis GEO mirror queues internally. Optional.
type Telemetry interface {
	DriverAvailable(id types.ID, pos types.Point)
	DriverUnavailable(id types.ID)
}

// Engine serializes every inbound event against the shared pool and table
// under one mutex, so no handler ever observes a torn intermediate state and
// a driver id can never be pooled and assigned at the same time.
type Engine struct {
	mu        sync.Mutex
	pool      *driver.Pool
	rides     *ride.Table
	notifier  Notifier
	telemetry Telemetry
	logger    *slog.Logger
}

func NewEngine(notifier Notifier, telemetry Telemetry, logger *slog.Logger) *Engine {
	return &Engine{
		pool:      driver.NewPool(),
		rides:     ride.NewTable(),
		notifier:  notifier,
		telemetry: telemetry,
		logger:    logger,
	}
}

// BookingAccepted is the payload sent to the patient on a successful match.
type BookingAccepted struct {
	Driver   driver.Profile `json:"driver"`
	Location *types.Point   `json:"location,omitempty"`
}

// Stats is a read-only snapshot for the stats endpoint.
type Stats struct {
	DriversPooled   int `json:"drivers_pooled"`
	DriversEligible int `json:"drivers_eligible"`
	ActiveRides     int `json:"active_rides"`
}

// Handle applies one inbound event attributed to sessionID. Malformed and
// stale events degrade to logged no-ops; nothing here is fatal.
func (e *Engine) Handle(sessionID types.ID, ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev := ev.(type) {
	case DriverOnline:
		e.handleDriverOnline(sessionID, ev)
	case RequestBooking:
		e.handleRequestBooking(sessionID, ev)
	case PickupComplete:
		e.handlePickupComplete(sessionID, ev)
	case LocationUpdate:
		e.handleLocationUpdate(sessionID, ev)
	case RideFinished:
		e.handleRideFinished(sessionID, ev)
	case CancelBooking:
		e.handleCancelBooking(sessionID)
	case Disconnect:
		e.handleDisconnect(sessionID)
	default:
		e.logger.Warn("unhandled event type", "session", sessionID)
	}
}

func (e *Engine) handleDriverOnline(driverID types.ID, ev DriverOnline) {
	// A driver with an active ride is never pooled; a late or duplicated
	// announcement must not break that.
	if e.rides.HasDriver(driverID) {
		e.logger.Debug("driver-online ignored, driver is on a ride", "driver", driverID)
		return
	}
	e.pool.MarkAvailable(driverID, ev.Profile, ev.Location)
	if d, ok := e.pool.Get(driverID); ok && d.Location != nil {
		e.notifyAvailable(driverID, *d.Location)
	}
	e.logger.Info("driver online", "driver", driverID, "name", ev.Profile.Name)
}

func (e *Engine) handleRequestBooking(patientID types.ID, ev RequestBooking) {
	if ev.Pickup == nil {
		// Upstream behaviour: drop without answering the requester.
		e.logger.Warn("booking request with invalid pickup dropped", "patient", patientID)
		return
	}
	if _, ok := e.rides.GetByPatient(patientID); ok {
		e.logger.Debug("booking ignored, patient already has a ride", "patient", patientID)
		return
	}

	driverID, ok := SelectNearest(*ev.Pickup, e.pool.Eligible())
	if !ok {
		e.logger.Info("no drivers available", "patient", patientID)
		e.notifier.Send(patientID, EventNoDrivers, nil)
		return
	}

	d, _ := e.pool.Get(driverID)
	e.pool.RemoveDriver(driverID)
	e.notifyUnavailable(driverID)

	route := ev.Route
	if len(route) == 0 {
		route = []types.Point{*ev.Pickup}
	}
	r := &ride.Ride{
		PatientID:      patientID,
		DriverID:       driverID,
		DriverProfile:  d.Profile,
		DriverLocation: d.Location,
		Route:          route,
		Status:         ride.StatusEnRouteToPickup,
		CreatedAt:      time.Now(),
	}
	if err := e.rides.Insert(r); err != nil {
		// Unreachable given the guards above; restore the pool rather than
		// strand the driver.
		e.logger.Error("ride insert failed", "patient", patientID, "error", err)
		e.pool.MarkAvailable(driverID, d.Profile, d.Location)
		if d.Location != nil {
			e.notifyAvailable(driverID, *d.Location)
		}
		return
	}

	e.logger.Info("ride assigned", "patient", patientID, "driver", driverID)
	e.notifier.Send(patientID, EventBookingAccepted, BookingAccepted{Driver: d.Profile, Location: d.Location})
	e.notifier.Send(driverID, EventStartRide, *r)
}

func (e *Engine) handlePickupComplete(driverID types.ID, ev PickupComplete) {
	r, ok := e.rides.GetByDriver(driverID)
	if !ok {
		e.logger.Debug("pickup-complete for unknown ride ignored", "driver", driverID)
		return
	}
	if ev.PatientID != "" && ev.PatientID != r.PatientID {
		e.logger.Debug("pickup-complete patient mismatch ignored", "driver", driverID)
		return
	}
	if !ride.CanTransition(r.Status, ride.StatusEnRouteToDestination) {
		e.logger.Debug("pickup-complete in wrong state ignored", "driver", driverID, "status", r.Status)
		return
	}
	r.Status = ride.StatusEnRouteToDestination
	e.notifier.Send(r.PatientID, EventEnRouteToDropoff, nil)
}

func (e *Engine) handleLocationUpdate(driverID types.ID, ev LocationUpdate) {
	if r, ok := e.rides.GetByDriver(driverID); ok {
		loc := ev.Location
		r.DriverLocation = &loc
		e.notifier.Send(r.PatientID, EventAmbulanceLocation, ev.Location)
		return
	}
	// Idle drivers refresh their pooled position; anyone else is a no-op.
	if d, ok := e.pool.Get(driverID); ok {
		loc := ev.Location
		e.pool.MarkAvailable(driverID, d.Profile, &loc)
		e.notifyAvailable(driverID, loc)
	}
}

func (e *Engine) handleRideFinished(driverID types.ID, ev RideFinished) {
	r, ok := e.rides.GetByDriver(driverID)
	if !ok {
		e.logger.Debug("ride-finished for unknown ride ignored", "driver", driverID)
		return
	}
	if !ride.CanTransition(r.Status, ride.StatusFinished) {
		e.logger.Debug("ride-finished in wrong state ignored", "driver", driverID, "status", r.Status)
		return
	}
	e.rides.Remove(r.PatientID)
	e.notifier.Send(r.PatientID, EventRideFinished, nil)

	// The driver rejoins the pool at their reported final position.
	e.pool.MarkAvailable(driverID, r.DriverProfile, ev.Location)
	if ev.Location != nil {
		e.notifyAvailable(driverID, *ev.Location)
	}
	e.logger.Info("ride finished", "patient", r.PatientID, "driver", driverID)
}

func (e *Engine) handleCancelBooking(patientID types.ID) {
	r, ok := e.rides.Remove(patientID)
	if !ok {
		e.logger.Debug("cancel without active ride ignored", "patient", patientID)
		return
	}
	e.notifier.Send(r.DriverID, EventBookingCancelled, nil)
	e.repoolDriver(r)
	e.logger.Info("ride cancelled by patient", "patient", patientID, "driver", r.DriverID)
}

func (e *Engine) handleDisconnect(sessionID types.ID) {
	// Idle driver leaving.
	if e.pool.Contains(sessionID) {
		e.pool.RemoveDriver(sessionID)
		e.notifyUnavailable(sessionID)
		e.logger.Info("driver offline", "driver", sessionID)
	}

	// Patient vanished mid-ride: the driver keeps serving capacity.
	if r, ok := e.rides.Remove(sessionID); ok {
		e.notifier.Send(r.DriverID, EventBookingCancelled, nil)
		e.repoolDriver(r)
		e.logger.Info("ride cancelled, patient disconnected", "patient", sessionID, "driver", r.DriverID)
		return
	}

	// Driver vanished mid-ride: tell the patient, and do not re-pool a
	// session that no longer exists.
	if r, ok := e.rides.GetByDriver(sessionID); ok {
		e.rides.Remove(r.PatientID)
		e.notifier.Send(r.PatientID, EventRideCancelled, nil)
		e.logger.Info("ride cancelled, driver disconnected", "patient", r.PatientID, "driver", sessionID)
	}
}

// repoolDriver returns a ride's driver to the pool with the last position
// carried on the record.
func (e *Engine) repoolDriver(r *ride.Ride) {
	e.pool.MarkAvailable(r.DriverID, r.DriverProfile, r.DriverLocation)
	if r.DriverLocation != nil {
		e.notifyAvailable(r.DriverID, *r.DriverLocation)
	}
}

func (e *Engine) notifyAvailable(id types.ID, pos types.Point) {
	if e.telemetry != nil {
		e.telemetry.DriverAvailable(id, pos)
	}
}

func (e *Engine) notifyUnavailable(id types.ID) {
	if e.telemetry != nil {
		e.telemetry.DriverUnavailable(id)
	}
}

// Stats snapshots pool and table sizes.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		DriversPooled:   e.pool.Len(),
		DriversEligible: len(e.pool.Eligible()),
		ActiveRides:     e.rides.Len(),
	}
}

// Reset empties all dispatch state. Intended for tests.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool.Reset()
	e.rides.Reset()
}
