package shm

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Mutex is a spinlock usable from multiple OS processes mapping the same
// shared-memory region.
//
// Go's sync.Mutex only coordinates goroutines within a single process; a
// pthread_mutex_t with the PTHREAD_PROCESS_SHARED attribute is the natural
// C analogue, but the Go standard library exposes no equivalent. Mutex
// substitutes a plain CAS spinlock living directly in the mapped bytes:
// since atomic CPU instructions operate on physical memory regardless of
// which process issued them, a compare-and-swap on a shared page is exactly
// as valid across processes as within one. The contention loop mirrors the
// teacher's own fifo.MPSC.Enqueue retry loop.
//
// Mutex must be embedded by value inside a record that lives in mapped
// memory; it is never copied after the region is mapped.
type Mutex struct {
	state atomix.Int32 // 0 = unlocked, 1 = locked
}

// Lock acquires the mutex, spinning until it succeeds.
func (m *Mutex) Lock() {
	sw := spin.Wait{}
	for !m.state.CompareAndSwapAcqRel(0, 1) {
		sw.Once()
	}
}

// TryLock attempts to acquire the mutex without blocking.
func (m *Mutex) TryLock() bool {
	return m.state.CompareAndSwapAcqRel(0, 1)
}

// Unlock releases the mutex. The caller must hold it.
func (m *Mutex) Unlock() {
	m.state.StoreRelease(0)
}

// Cond is a process-shared condition variable paired with a Mutex.
//
// There is no cross-process futex available from pure Go, so Cond
// reimplements condvar semantics — unlock, wait for a predicate, relock —
// over polling: Broadcast bumps a generation counter and Wait backs off
// with [iox.Backoff] between predicate re-checks, exactly the retry shape
// the teacher documents for queue backpressure (see fifo's doc.go). Every
// wakeup is therefore inherently "spurious" from the waiter's point of
// view, which matches spec's requirement that every blocking wait be
// paired with a re-checked predicate.
type Cond struct {
	gen atomix.Uint64
}

// Broadcast wakes every waiter blocked on this condition. The caller
// should hold the paired Mutex when calling Broadcast, matching the
// ordering rule in the concurrency model (write under lock, broadcast
// after unlock is also acceptable — Broadcast itself needs no lock held).
func (c *Cond) Broadcast() {
	c.gen.AddAcqRel(1)
}

// Wait blocks until predicate returns true, re-checking it after every
// backoff interval and tolerating spurious wakeups. The caller must hold
// mu; Wait unlocks it while waiting and relocks it before returning. A
// Broadcast observed between re-checks resets the backoff to its minimum
// interval, so a waiter woken by a real change re-polls promptly instead
// of sitting out whatever interval it had already backed off to.
func (c *Cond) Wait(mu *Mutex, predicate func() bool) {
	b := iox.Backoff{}
	seen := c.gen.LoadAcquire()
	for !predicate() {
		mu.Unlock()
		b.Wait()
		mu.Lock()
		if cur := c.gen.LoadAcquire(); cur != seen {
			seen = cur
			b.Reset()
		}
	}
}

// WaitOrShutdown is Wait with an additional escape predicate: it returns
// false as soon as shutdown is observed true, or true as soon as
// predicate is (shutdown is checked first), with mu held either way. Every blocking wait in the
// Simulator and Controller is expressed this way so end_simulation always
// unblocks every waiter, per the clean-shutdown protocol.
func (c *Cond) WaitOrShutdown(mu *Mutex, predicate func() bool, shutdown func() bool) (ready bool) {
	b := iox.Backoff{}
	seen := c.gen.LoadAcquire()
	for {
		if shutdown() {
			return false
		}
		if predicate() {
			return true
		}
		mu.Unlock()
		b.Wait()
		mu.Lock()
		if cur := c.gen.LoadAcquire(); cur != seen {
			seen = cur
			b.Reset()
		}
	}
}
