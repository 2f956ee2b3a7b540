// Package fifo provides the bounded, lock-free queues backing the
// simulator's entrance and exit car-descriptor FIFOs.
//
// Two variants are exposed, matched to the access pattern described in the
// simulation's concurrency model:
//
//   - SPSC: one arrival generator feeds one entrance FIFO, and one entrance
//     worker drains it. Lamport's ring buffer needs no compare-and-swap on
//     either side.
//   - MPSC: every parked car's detached per-car task enqueues into the exit
//     FIFO it was routed to, while a single exit worker drains it. Producers
//     race via fetch-and-add (SCQ-style); the consumer does not.
//
// # Basic usage
//
//	entranceQ := fifo.BuildSPSC[CarDescriptor](fifo.New(64).SingleProducer())
//
//	// Arrival generator (producer)
//	desc := CarDescriptor{Plate: "123ABC"}
//	for entranceQ.Enqueue(&desc) != nil {
//	    // full: generator is outrunning the entrance worker, back off
//	}
//
//	// Entrance worker (consumer)
//	desc, err := entranceQ.Dequeue()
//	if err == nil {
//	    // handle arrival
//	}
//
// Neither queue blocks on its own: callers needing to sleep until an item
// (or shutdown) is available pair one of these with a sync.Cond, as
// internal/carfifo does. That split — lock-free data plane, condition
// variable signalling plane — mirrors the shared-memory triplets used for
// cross-process coordination in internal/shm, but these FIFOs are
// simulator-private, so a native sync.Cond is sufficient; no process-shared
// primitive is required.
//
// # Error handling
//
// Both queues return [ErrWouldBlock] when an operation cannot proceed
// (full on Enqueue, empty on Dequeue). This is a control-flow signal, not a
// failure — retry after a backoff or a condition-variable wake.
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !fifo.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// # Capacity
//
// Capacity rounds up to the next power of 2; MPSC uses 2n physical slots
// for capacity n (SCQ requires this for ABA-safe slot reuse), SPSC uses
// exactly n.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic fields with
// explicit memory ordering, [code.hybscloud.com/spin] for the producer-side
// contention loop in MPSC, and [code.hybscloud.com/iox] for ErrWouldBlock
// and the backoff helper used by callers.
package fifo
