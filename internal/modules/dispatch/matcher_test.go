package dispatch

import (
	"testing"

	"lifeline/internal/modules/driver"
	"lifeline/internal/types"
)

func candidate(id types.ID, lat, lng float64) driver.Driver {
	return driver.Driver{ID: id, Location: &types.Point{Lat: lat, Lng: lng}}
}

func TestSelectNearest_EmptyCandidates(t *testing.T) {
	if _, ok := SelectNearest(types.Point{Lat: 1, Lng: 1}, nil); ok {
		t.Fatal("expected not found for nil candidates")
	}
	if _, ok := SelectNearest(types.Point{Lat: 1, Lng: 1}, []driver.Driver{}); ok {
		t.Fatal("expected not found for empty candidates")
	}
}

func TestSelectNearest_PicksMinimumDistance(t *testing.T) {
	// Driver at (0,0) and driver at (10,10); pickup at (0.1,0.1) is far
	// closer to the first.
	candidates := []driver.Driver{
		candidate("far", 10, 10),
		candidate("near", 0, 0),
	}
	id, ok := SelectNearest(types.Point{Lat: 0.1, Lng: 0.1}, candidates)
	if !ok {
		t.Fatal("expected a match")
	}
	if id != "near" {
		t.Errorf("selected %s, want near", id)
	}
}

func TestSelectNearest_TieBreaksOnInputOrder(t *testing.T) {
	// Two drivers symmetric about the pickup longitude are equidistant;
	// the first in the ordering must win.
	candidates := []driver.Driver{
		candidate("first", 0, 1),
		candidate("second", 0, -1),
	}
	id, ok := SelectNearest(types.Point{Lat: 0, Lng: 0}, candidates)
	if !ok || id != "first" {
		t.Errorf("tie resolved to %s, want first", id)
	}

	// Swapping the ordering swaps the winner.
	candidates[0], candidates[1] = candidates[1], candidates[0]
	id, _ = SelectNearest(types.Point{Lat: 0, Lng: 0}, candidates)
	if id != "second" {
		t.Errorf("tie resolved to %s, want second", id)
	}
}

func TestSelectNearest_SkipsCandidatesWithoutLocation(t *testing.T) {
	candidates := []driver.Driver{
		{ID: "blind"},
		candidate("sighted", 5, 5),
	}
	id, ok := SelectNearest(types.Point{Lat: 0, Lng: 0}, candidates)
	if !ok || id != "sighted" {
		t.Errorf("selected %v %v, want sighted", id, ok)
	}

	if _, ok := SelectNearest(types.Point{}, []driver.Driver{{ID: "blind"}}); ok {
		t.Error("expected not found when no candidate has a location")
	}
}

func TestSelectNearest_DoesNotMutateCandidates(t *testing.T) {
	candidates := []driver.Driver{
		candidate("a", 1, 1),
		candidate("b", 2, 2),
	}
	SelectNearest(types.Point{Lat: 0, Lng: 0}, candidates)
	if candidates[0].ID != "a" || candidates[1].ID != "b" {
		t.Errorf("candidate slice mutated: %v", candidates)
	}
}
