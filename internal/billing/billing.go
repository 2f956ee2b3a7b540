// Package billing is the Controller's billing map and revenue ledger
// (spec §3, §4.3): keyed by plate, it records the level a parked car
// was assigned and its monotonic entry time, and computes the 5-cent-
// per-millisecond charge on departure, appending one line per billing
// event to an append-only log file.
package billing

import (
	"fmt"
	"os"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// centsPerMillisecond is spec §4.3's billing rate: "bill = elapsed_ms
// × 5 cents".
const centsPerMillisecond = 5

// entry is the billing map's value: spec §3's "{ assigned level,
// monotonic entry timestamp }".
type entry struct {
	Level     int
	EntryTime time.Time
}

// Ledger bundles the billing map with the revenue and car-count
// accumulators and the billing log writer. One Ledger is shared by
// every Controller entrance and exit worker.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]entry

	revenueCents atomix.Int64
	totalCars    atomix.Int64

	logMu sync.Mutex
	log   *os.File
}

// Open creates a Ledger backed by path, an append-only billing log
// (spec §7: "never read by the system", so O_APPEND suffices — no
// seeking or rewriting is ever needed).
func Open(path string) (*Ledger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("billing: open %s: %w", path, err)
	}
	return &Ledger{entries: make(map[string]entry), log: f}, nil
}

// Close flushes and closes the billing log.
func (l *Ledger) Close() error {
	l.logMu.Lock()
	defer l.logMu.Unlock()
	return l.log.Close()
}

// Enter records a new billing entry for plate at level, with now as the
// entry instant. It is the entrance worker's step 4 insertion and also
// increments the total-cars-entered counter (spec §4.3 step 4).
func (l *Ledger) Enter(plate string, level int, now time.Time) {
	l.mu.Lock()
	l.entries[plate] = entry{Level: level, EntryTime: now}
	l.mu.Unlock()
	l.totalCars.AddAcqRel(1)
}

// Rollback removes a billing entry without billing it, used when the
// alarm raises mid-authorisation and the entrance worker must undo its
// tentative assignment (spec §4.3 step 6).
func (l *Ledger) Rollback(plate string) {
	l.mu.Lock()
	delete(l.entries, plate)
	l.mu.Unlock()
}

// Duplicate reports whether plate already holds an open billing entry,
// i.e. is currently parked (spec §4.3 step 3's "detect an in-park
// duplicate").
func (l *Ledger) Duplicate(plate string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[plate]
	return ok
}

// Exit closes out plate's billing entry at now, computing the bill,
// appending a billing-log line, and adding to the revenue accumulator.
// It reports the level the car was parked on and the bill in cents, or
// ok=false if no entry existed for plate (spec §4.3 exit worker step 2's
// "if absent, just raise the gate and loop").
func (l *Ledger) Exit(plate string, now time.Time) (level int, cents int64, ok bool) {
	l.mu.Lock()
	e, found := l.entries[plate]
	if found {
		delete(l.entries, plate)
	}
	l.mu.Unlock()
	if !found {
		return 0, 0, false
	}

	elapsedMs := now.Sub(e.EntryTime).Milliseconds()
	cents = elapsedMs * centsPerMillisecond
	l.revenueCents.AddAcqRel(cents)

	l.appendLog(plate, cents)
	return e.Level, cents, true
}

// appendLog writes one FormatLine to the billing log under its own
// mutex, since multiple exit workers share the same *os.File.
func (l *Ledger) appendLog(plate string, cents int64) {
	l.logMu.Lock()
	defer l.logMu.Unlock()
	_, _ = l.log.WriteString(FormatLine(plate, cents))
}

// FormatLine renders one billing-log line per spec §7: "PLATE $D.CC\n".
func FormatLine(plate string, cents int64) string {
	dollars := cents / 100
	remainder := cents % 100
	if remainder < 0 {
		remainder = -remainder
	}
	return fmt.Sprintf("%s $%d.%02d\n", plate, dollars, remainder)
}

// RevenueCents reports the accumulated revenue in cents.
func (l *Ledger) RevenueCents() int64 {
	return l.revenueCents.LoadAcquire()
}

// TotalCars reports the number of cars that have ever been authorised
// in.
func (l *Ledger) TotalCars() int64 {
	return l.totalCars.LoadAcquire()
}

// Len reports the number of currently open (parked) billing entries —
// invariant (I1) ties this to the sum of the occupancy vector.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
