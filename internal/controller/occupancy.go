// Package controller implements the Controller process: entrance and
// exit authorisation workers, gate-closer workers, and the terminal
// status display (spec §4.3).
package controller

import "sync"

// Occupancy is the per-level car-count vector, spec §3's "one unsigned
// count per level; total must equal the number of live billing entries
// at all times", guarded by a single mutex with a companion condition
// that every change broadcasts. No method waits on that condition.
type Occupancy struct {
	mu     sync.Mutex
	cond   *sync.Cond
	counts []int
}

// NewOccupancy creates an Occupancy vector sized for levels levels, all
// starting at zero.
func NewOccupancy(levels int) *Occupancy {
	o := &Occupancy{counts: make([]int, levels)}
	o.cond = sync.NewCond(&o.mu)
	return o
}

// Total returns the sum of every level's count.
func (o *Occupancy) Total() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	total := 0
	for _, c := range o.counts {
		total += c
	}
	return total
}

// At returns the count for level i.
func (o *Occupancy) At(i int) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[i]
}

// Snapshot returns a copy of every level's count, for the status
// display.
func (o *Occupancy) Snapshot() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]int, len(o.counts))
	copy(out, o.counts)
	return out
}

// Decrement subtracts one from level i's count, flooring at zero (spec
// §7's "bounded-state anomalies... clamped"), and broadcasts.
func (o *Occupancy) Decrement(i int) {
	o.mu.Lock()
	if o.counts[i] > 0 {
		o.counts[i]--
	}
	o.mu.Unlock()
	o.cond.Broadcast()
}

// Admit reserves one spot for an incoming car, scanning from start
// around the ring of levels (spec §4.3 step 4's "starting from
// (entrance_id + k) mod LEVELS") and incrementing the first level found
// under capacity, all under a single critical section. Folding the
// full-park check, the ring scan, and the increment into one lock
// acquisition is what makes the reservation atomic: two callers racing
// for the same last-free slot cannot both observe it free, since the
// second caller's scan only runs after the first's increment has been
// applied (spec §5's "hold {whitelist, billing, occupancy, sign, gate}
// together across the decision", of which this is the occupancy part).
// It reports ok=false if every level is at capacity.
func (o *Occupancy) Admit(start, capacity int) (level int, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := len(o.counts)
	for k := 0; k < n; k++ {
		i := (start + k) % n
		if o.counts[i] < capacity {
			o.counts[i]++
			o.cond.Broadcast()
			return i, true
		}
	}
	return 0, false
}
