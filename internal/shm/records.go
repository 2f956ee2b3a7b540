package shm

import "code.hybscloud.com/atomix"

// plateLen is the fixed LPR payload size: 6 plate characters plus a NUL
// terminator, per spec §3.
const plateLen = 7

// LPR is the license-plate-recognition triplet: mutex, condition, and the
// plate payload. The plate field's first byte is NUL exactly when no
// unread arrival is pending (invariant I4).
type LPR struct {
	Mu    Mutex
	_     [4]byte // align Cond to 8 bytes
	Cond  Cond
	Plate [plateLen]byte
	_     [1]byte // pad record (4+4+8+7=23 bytes) to 24
}

// Gate is the boom-barrier triplet: mutex, condition, and a status byte
// drawn from {'C', 'R', 'O', 'L'} (closed, raising, open, lowering).
type Gate struct {
	Mu     Mutex
	_      [4]byte
	Cond   Cond
	Status byte
	_      [7]byte // pad record to 24 bytes total
}

// Sign is the entrance-only display triplet: mutex, condition, and a
// display byte: 0 (blank), 'X' (refused), 'F' (full), '0'..'4' (assigned
// level), or a letter of EVACUATE.
type Sign struct {
	Mu   Mutex
	_    [4]byte
	Cond Cond
	Char byte
	_    [7]byte
}

// ReadPlate returns the LPR's current plate as a string, or "" if the
// field is empty (invariant I4). Caller must hold Mu.
func (l *LPR) ReadPlate() string {
	n := 0
	for n < plateLen-1 && l.Plate[n] != 0 {
		n++
	}
	return string(l.Plate[:n])
}

// WritePlate sets the LPR's plate field to plate, which must be at most
// plateLen-1 bytes. Caller must hold Mu.
func (l *LPR) WritePlate(plate string) {
	l.Plate = [plateLen]byte{}
	copy(l.Plate[:], plate)
}

// Clear empties the LPR's plate field (invariant I4's "no unread
// arrival pending" state). Caller must hold Mu.
func (l *LPR) Clear() {
	l.Plate = [plateLen]byte{}
}

// EntranceRecord is one entrance: LPR, gate, and sign triplets in that
// order, matching the handshake sequence in spec §5.
type EntranceRecord struct {
	LPR  LPR
	Gate Gate
	Sign Sign
}

// ExitRecord is one exit: LPR and gate triplets. No sign ever displays on
// an exit (spec §4.2).
type ExitRecord struct {
	LPR  LPR
	Gate Gate
}

// LevelRecord is one level: an LPR triplet identifying the currently
// parked car (if any), plus lock-free atomic temperature and alarm
// fields — no mutex guards these two, matching the "atomic, no mutex"
// shared-resource policy in spec §5.
type LevelRecord struct {
	LPR LPR
	// Temperature holds a signed value in degrees, logically int16 per
	// spec §3; stored as atomix.Int32 because the teacher's atomix
	// package does not expose a 16-bit atomic type. The Simulator's
	// temperature worker keeps values within [MinTemp, MaxTemp]; no
	// separate int16 range check is applied.
	Temperature atomix.Int32
	// Alarm holds '0' or '1' (ASCII), not a bool, to mirror spec's
	// single-byte alarm flag exactly; stored widened to int32 for the
	// same reason as Temperature.
	Alarm atomix.Int32
}

// sizeof helpers used by tests and Layout to assert record sizes stay
// stable and 8-byte aligned, per spec §4.1.
const (
	lprSize     = 24
	gateSize    = 24
	signSize    = 24
	entranceSize = lprSize + gateSize + signSize // 72
	exitSize     = lprSize + gateSize            // 48
	levelSize    = lprSize + 4 + 4                // 32
)
