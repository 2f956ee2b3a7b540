// Package carfifo provides the simulator-private car-descriptor FIFOs:
// one per entrance (single producer: the arrival generator) and one per
// exit (multiple producers: every parked car's per-car task). These are
// never shared across the process boundary, so a native sync.Cond pairs
// with the lock-free internal/fifo ring to give blocking semantics —
// unlike internal/shm, no process-shared primitive is needed here.
package carfifo

import (
	"sync"

	"github.com/jjawny/parkingsim/internal/fifo"
)

// Descriptor is a car descriptor: a plate pending an LPR read, and, once
// assigned, the level it was routed to. Spec §3 describes this as
// allocated by the Simulator at FIFO entry and freed on refusal or after
// the car's per-vehicle task completes at an exit; in Go it is an
// ordinary value type, collected once the last reference drops.
type Descriptor struct {
	Plate string
	Level int
}

// EntranceQueue is the FIFO feeding one entrance: the arrival generator
// pushes, the entrance worker pops, and only one goroutine does each.
type EntranceQueue struct {
	mu   sync.Mutex
	cond *sync.Cond
	ring *fifo.SPSC[Descriptor]
}

// NewEntranceQueue creates an entrance FIFO with room for capacity
// pending arrivals (rounded up to a power of 2 by the underlying ring).
func NewEntranceQueue(capacity int) *EntranceQueue {
	q := &EntranceQueue{ring: fifo.BuildSPSC[Descriptor](fifo.New(capacity).SingleProducer())}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues a car descriptor, blocking while the ring is full
// (backpressure from an entrance worker that has fallen behind) and
// waking the worker afterward. shutdown is re-checked on every wakeup so
// a stalled producer does not block shutdown forever.
func (q *EntranceQueue) Push(d Descriptor, shutdown func() bool) (pushed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if shutdown() {
			return false
		}
		if q.ring.Enqueue(&d) == nil {
			q.cond.Broadcast()
			return true
		}
		q.cond.Wait()
	}
}

// Pop blocks until a car descriptor is available or shutdown becomes
// true, in which case it returns (zero-value, false).
func (q *EntranceQueue) Pop(shutdown func() bool) (Descriptor, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if d, err := q.ring.Dequeue(); err == nil {
			q.cond.Broadcast() // room freed; wakes a blocked Push
			return d, true
		}
		if shutdown() {
			return Descriptor{}, false
		}
		q.cond.Wait()
	}
}

// Broadcast wakes every goroutine blocked on this queue without changing
// its contents. Shutdown calls this on every entrance queue so blocked
// Pop/Push calls re-check their shutdown predicate; a call blocked in
// sync.Cond.Wait does not wake on its own.
func (q *EntranceQueue) Broadcast() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cond.Broadcast()
}

// ExitQueue is the FIFO feeding one exit: every parked car's detached
// per-car task pushes (many producers), the exit worker pops (one
// consumer).
type ExitQueue struct {
	mu   sync.Mutex
	cond *sync.Cond
	ring *fifo.MPSC[Descriptor]
}

// NewExitQueue creates an exit FIFO with room for capacity pending
// departures.
func NewExitQueue(capacity int) *ExitQueue {
	q := &ExitQueue{ring: fifo.BuildMPSC[Descriptor](fifo.New(capacity))}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues a car descriptor from any per-car task goroutine.
func (q *ExitQueue) Push(d Descriptor, shutdown func() bool) (pushed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if shutdown() {
			return false
		}
		if q.ring.Enqueue(&d) == nil {
			q.cond.Broadcast()
			return true
		}
		q.cond.Wait()
	}
}

// Pop blocks until a car descriptor is available or shutdown becomes
// true.
func (q *ExitQueue) Pop(shutdown func() bool) (Descriptor, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if d, err := q.ring.Dequeue(); err == nil {
			q.cond.Broadcast()
			return d, true
		}
		if shutdown() {
			return Descriptor{}, false
		}
		q.cond.Wait()
	}
}

// Drain marks the underlying ring as draining (fifo.Drainer), signalling
// that no further Push calls are expected, and wakes blocked callers. The
// ring's Enqueue and Dequeue do not consult the flag, so Pop and Push
// behave the same before and after Drain. Shutdown calls this once all
// workers and per-car tasks have stopped.
func (q *ExitQueue) Drain() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ring.Drain()
	q.cond.Broadcast()
}

// Broadcast wakes every goroutine blocked on this queue.
func (q *ExitQueue) Broadcast() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cond.Broadcast()
}
