package ride

import (
	"testing"

	"lifeline/internal/modules/driver"
	"lifeline/internal/types"
)

func newRide(patient, drv types.ID) *Ride {
	return &Ride{
		PatientID:     patient,
		DriverID:      drv,
		DriverProfile: driver.Profile{Name: "Ana", Vehicle: "AMB-1"},
		Route:         []types.Point{{Lat: 1, Lng: 1}},
		Status:        StatusEnRouteToPickup,
	}
}

func TestInsertAndReverseLookup(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Insert(newRide("p1", "d1")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	byP, ok := tbl.GetByPatient("p1")
	if !ok || byP.DriverID != "d1" {
		t.Fatalf("lookup by patient failed: %v %v", byP, ok)
	}
	byD, ok := tbl.GetByDriver("d1")
	if !ok || byD.PatientID != "p1" {
		t.Fatalf("lookup by driver failed: %v %v", byD, ok)
	}
	if !tbl.HasDriver("d1") || tbl.HasDriver("d2") {
		t.Error("driver index inconsistent")
	}
}

func TestInsert_RejectsSecondActiveRide(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Insert(newRide("p1", "d1")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tbl.Insert(newRide("p1", "d2")); err != ErrActiveRide {
		t.Errorf("second ride for patient: got %v, want ErrActiveRide", err)
	}
	if err := tbl.Insert(newRide("p2", "d1")); err != ErrActiveRide {
		t.Errorf("second ride for driver: got %v, want ErrActiveRide", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("rejected inserts mutated table, len=%d", tbl.Len())
	}
}

func TestRemove_ClearsDriverIndex(t *testing.T) {
	tbl := NewTable()
	_ = tbl.Insert(newRide("p1", "d1"))

	removed, ok := tbl.Remove("p1")
	if !ok || removed.DriverID != "d1" {
		t.Fatalf("remove: %v %v", removed, ok)
	}
	if tbl.HasDriver("d1") {
		t.Error("driver index not cleared on remove")
	}
	if _, ok := tbl.Remove("p1"); ok {
		t.Error("second remove should report absence")
	}
	// Both parties are free for a new ride.
	if err := tbl.Insert(newRide("p1", "d1")); err != nil {
		t.Errorf("re-insert after remove: %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusEnRouteToPickup, StatusEnRouteToDestination, true},
		{StatusEnRouteToPickup, StatusCancelled, true},
		{StatusEnRouteToPickup, StatusFinished, false},
		{StatusEnRouteToDestination, StatusFinished, true},
		{StatusEnRouteToDestination, StatusCancelled, true},
		{StatusEnRouteToDestination, StatusEnRouteToPickup, false},
		{StatusFinished, StatusCancelled, false},
		{StatusCancelled, StatusEnRouteToPickup, false},
		{StatusRequested, StatusFinished, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
