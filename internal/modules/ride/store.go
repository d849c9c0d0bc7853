// README: In-memory ride table keyed by patient, with a driver secondary index.
package ride

import (
	"errors"

	"lifeline/internal/types"
)

var ErrActiveRide = errors.New("party already has an active ride")

// Table holds the active rides. The driver index is maintained atomically
// alongside the primary map so reverse lookup never scans. Like the driver
// pool, the table is not safe for concurrent use; the dispatch engine owns
// it behind its own lock.
type Table struct {
	byPatient map[types.ID]*Ride
	byDriver  map[types.ID]types.ID
}

func NewTable() *Table {
	return &Table{
		byPatient: make(map[types.ID]*Ride),
		byDriver:  make(map[types.ID]types.ID),
	}
}

// Insert adds a ride. It refuses a second active ride for either party,
// which keeps the one-ride-per-patient and one-ride-per-driver invariants
// checkable in O(1).
func (t *Table) Insert(r *Ride) error {
	if _, ok := t.byPatient[r.PatientID]; ok {
		return ErrActiveRide
	}
	if _, ok := t.byDriver[r.DriverID]; ok {
		return ErrActiveRide
	}
	t.byPatient[r.PatientID] = r
	t.byDriver[r.DriverID] = r.PatientID
	return nil
}

func (t *Table) GetByPatient(patientID types.ID) (*Ride, bool) {
	r, ok := t.byPatient[patientID]
	return r, ok
}

func (t *Table) GetByDriver(driverID types.ID) (*Ride, bool) {
	patientID, ok := t.byDriver[driverID]
	if !ok {
		return nil, false
	}
	return t.byPatient[patientID], true
}

// HasDriver reports whether driverID is assigned to any active ride.
func (t *Table) HasDriver(driverID types.ID) bool {
	_, ok := t.byDriver[driverID]
	return ok
}

// Remove deletes the ride for patientID and its index entry, returning the
// removed record.
func (t *Table) Remove(patientID types.ID) (*Ride, bool) {
	r, ok := t.byPatient[patientID]
	if !ok {
		return nil, false
	}
	delete(t.byPatient, patientID)
	delete(t.byDriver, r.DriverID)
	return r, true
}

func (t *Table) Len() int {
	return len(t.byPatient)
}

// Reset empties the table and index.
func (t *Table) Reset() {
	t.byPatient = make(map[types.ID]*Ride)
	t.byDriver = make(map[types.ID]types.ID)
}
