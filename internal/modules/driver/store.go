// README: In-memory availability pool, insertion-ordered for deterministic matching.
package driver

import "lifeline/internal/types"

// Pool is the set of drivers currently available for assignment. It preserves
// first-insertion order so that matching ties resolve the same way on every
// run. The pool is not safe for concurrent use; the dispatch engine owns it
// behind its own lock.
type Pool struct {
	order []types.ID
	byID  map[types.ID]*Driver
}

func NewPool() *Pool {
	return &Pool{byID: make(map[types.ID]*Driver)}
}

// MarkAvailable inserts a driver or refreshes an existing entry. Repeated
// announcements from the same driver never create duplicates and keep the
// driver's original position in the ordering. A nil location leaves any
// previously known location in place, so a bare heartbeat cannot erase a
// position report.
func (p *Pool) MarkAvailable(id types.ID, profile Profile, location *types.Point) {
	if d, ok := p.byID[id]; ok {
		d.Profile = profile
		if location != nil {
			d.Location = location
		}
		return
	}
	p.byID[id] = &Driver{ID: id, Profile: profile, Location: location}
	p.order = append(p.order, id)
}

// RemoveDriver deletes the entry if present. Removing an unknown or already
// assigned driver is a normal occurrence and a no-op.
func (p *Pool) RemoveDriver(id types.ID) {
	if _, ok := p.byID[id]; !ok {
		return
	}
	delete(p.byID, id)
	for i, other := range p.order {
		if other == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Get returns a copy of the entry for id.
func (p *Pool) Get(id types.ID) (Driver, bool) {
	d, ok := p.byID[id]
	if !ok {
		return Driver{}, false
	}
	return *d, true
}

func (p *Pool) Contains(id types.ID) bool {
	_, ok := p.byID[id]
	return ok
}

// Eligible returns copies of the pool members that have a known location, in
// insertion order. These are the only candidates the matcher may consider.
func (p *Pool) Eligible() []Driver {
	out := make([]Driver, 0, len(p.order))
	for _, id := range p.order {
		d := p.byID[id]
		if d.Location != nil {
			out = append(out, *d)
		}
	}
	return out
}

// Len reports total pool size, eligible or not.
func (p *Pool) Len() int {
	return len(p.byID)
}

// Reset empties the pool.
func (p *Pool) Reset() {
	p.order = nil
	p.byID = make(map[types.ID]*Driver)
}
