// README: Concurrency tests for the dispatch engine (run with -race).
package dispatch

import (
	"fmt"
	"sync"
	"testing"

	"lifeline/internal/types"
)

func TestConcurrentBookingsOverOneDriver(t *testing.T) {
	e, notifier := newTestEngine()
	driverOnline(e, "d1", 0, 0)

	const patients = 16
	var wg sync.WaitGroup
	for i := 0; i < patients; i++ {
		patientID := types.ID(fmt.Sprintf("p%d", i))
		wg.Add(1)
		go func(id types.ID) {
			defer wg.Done()
			book(e, id, 0, 0)
		}(patientID)
	}
	wg.Wait()

	if n := notifier.countOf(EventBookingAccepted); n != 1 {
		t.Fatalf("expected exactly one acceptance, got %d", n)
	}
	if n := notifier.countOf(EventNoDrivers); n != patients-1 {
		t.Fatalf("expected %d rejections, got %d", patients-1, n)
	}
	s := e.Stats()
	if s.ActiveRides != 1 || s.DriversPooled != 0 {
		t.Fatalf("inconsistent state after storm: %+v", s)
	}
}

func TestConcurrentLifecycleEvents(t *testing.T) {
	e, _ := newTestEngine()
	driverOnline(e, "d1", 0, 0)
	book(e, "p1", 0, 0)

	// Fire overlapping updates, a pickup, a cancel and a disconnect; every
	// interleaving must leave the engine in a consistent terminal state.
	var wg sync.WaitGroup
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	for i := 0; i < 8; i++ {
		lat := float64(i)
		run(func() { e.Handle("d1", LocationUpdate{Location: types.Point{Lat: lat, Lng: lat}}) })
	}
	run(func() { e.Handle("d1", PickupComplete{}) })
	run(func() { e.Handle("d1", RideFinished{Location: &types.Point{Lat: 9, Lng: 9}}) })
	run(func() { e.Handle("p1", CancelBooking{}) })
	run(func() { e.Handle("p1", Disconnect{}) })
	wg.Wait()

	s := e.Stats()
	if s.ActiveRides != 0 {
		t.Fatalf("ride survived a terminal storm: %+v", s)
	}
	if e.pool.Contains("d1") && e.rides.HasDriver("d1") {
		t.Fatal("driver simultaneously pooled and assigned")
	}
}

func TestConcurrentDriverChurn(t *testing.T) {
	e, _ := newTestEngine()

	const drivers = 32
	var wg sync.WaitGroup
	for i := 0; i < drivers; i++ {
		id := types.ID(fmt.Sprintf("d%d", i))
		lat := float64(i)
		wg.Add(1)
		go func(id types.ID, lat float64) {
			defer wg.Done()
			driverOnline(e, id, lat, lat)
			e.Handle(id, LocationUpdate{Location: types.Point{Lat: lat + 1, Lng: lat}})
			if int(lat)%2 == 0 {
				e.Handle(id, Disconnect{})
			}
		}(id, lat)
	}
	wg.Wait()

	s := e.Stats()
	if s.DriversPooled != drivers/2 {
		t.Fatalf("expected %d drivers pooled, got %d", drivers/2, s.DriversPooled)
	}
}
