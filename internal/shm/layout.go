package shm

import (
	"fmt"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Counts describes the fixed dimensions of one simulation run. All three
// must be in 1..=5 per spec §6; config.Load clamps the configured values
// into that range before Counts is constructed from them, and NewLayout
// rejects counts outside it.
type Counts struct {
	Entrances int
	Exits     int
	Levels    int
}

// header is the small global-state prefix in front of the three
// positional zones. Spec §4.1 describes the Entrances/Exits/Levels zones
// as header-less and purely positional; end_simulation has no natural
// home in any of the three record types (it is not per-entrance,
// per-exit, or per-level), so it lives in this fixed-size prefix instead
// — the smallest addition that lets all three processes observe shutdown
// without a fourth IPC channel.
type header struct {
	Shutdown atomix.Int32
	_        [4]byte
}

const headerSize = 8

// Size returns the total byte length of the shared region for these
// counts: header + N entrances + N exits + N levels, no padding between
// zones since every record size is already a multiple of 8.
func (c Counts) Size() int64 {
	return int64(headerSize) +
		int64(c.Entrances)*entranceSize +
		int64(c.Exits)*exitSize +
		int64(c.Levels)*levelSize
}

func (c Counts) entranceOffset(i int) int64 {
	return int64(headerSize) + int64(i)*entranceSize
}

func (c Counts) exitOffset(i int) int64 {
	return int64(headerSize) + int64(c.Entrances)*entranceSize + int64(i)*exitSize
}

func (c Counts) levelOffset(i int) int64 {
	return int64(headerSize) + int64(c.Entrances)*entranceSize + int64(c.Exits)*exitSize + int64(i)*levelSize
}

// Layout is a typed view over a mapped shared-memory buffer. It never
// retains the buffer's address across process boundaries — only this
// process's own mapping — and every accessor recomputes the pointer from
// the buffer and a byte offset, per spec §9's "no pointer persisted
// across the process boundary" guidance.
type Layout struct {
	counts Counts
	buf    []byte
}

// NewLayout validates counts and wraps buf, which must be exactly
// counts.Size() bytes (the caller's mmap'd region).
func NewLayout(counts Counts, buf []byte) (*Layout, error) {
	if counts.Entrances < 1 || counts.Entrances > 5 ||
		counts.Exits < 1 || counts.Exits > 5 ||
		counts.Levels < 1 || counts.Levels > 5 {
		return nil, fmt.Errorf("shm: counts out of range 1..5: %+v", counts)
	}
	want := counts.Size()
	if int64(len(buf)) != want {
		return nil, fmt.Errorf("shm: buffer is %d bytes, want %d for %+v", len(buf), want, counts)
	}
	return &Layout{counts: counts, buf: buf}, nil
}

// Counts returns the dimensions this layout was built with.
func (l *Layout) Counts() Counts { return l.counts }

func recordAt[T any](buf []byte, offset int64) *T {
	return (*T)(unsafe.Pointer(&buf[offset]))
}

// Entrance returns the i'th entrance record, 0-indexed.
func (l *Layout) Entrance(i int) *EntranceRecord {
	return recordAt[EntranceRecord](l.buf, l.counts.entranceOffset(i))
}

// Exit returns the i'th exit record, 0-indexed.
func (l *Layout) Exit(i int) *ExitRecord {
	return recordAt[ExitRecord](l.buf, l.counts.exitOffset(i))
}

// Level returns the i'th level record, 0-indexed.
func (l *Layout) Level(i int) *LevelRecord {
	return recordAt[LevelRecord](l.buf, l.counts.levelOffset(i))
}

func (l *Layout) header() *header {
	return recordAt[header](l.buf, 0)
}

// ShutdownRequested reports whether end_simulation has been set.
func (l *Layout) ShutdownRequested() bool {
	return l.header().Shutdown.LoadAcquire() != 0
}

// RequestShutdown sets end_simulation. Only the Simulator's main timer
// goroutine calls this in normal operation (spec §5), though any process
// handling SIGINT/SIGTERM may also trigger it (SPEC_FULL §3.6).
func (l *Layout) RequestShutdown() {
	l.header().Shutdown.StoreRelease(1)
}

// AnyAlarmActive reports whether any level's alarm byte is '1'. The
// Controller's entrance worker consults this to decide whether to skip
// authorisation entirely (spec §4.3 step 2); since the Safety Monitor
// raises every level's alarm together (spec §4.4), any one level being
// lit means the whole park is in evacuation.
func (l *Layout) AnyAlarmActive() bool {
	for i := 0; i < l.counts.Levels; i++ {
		if l.Level(i).Alarm.LoadAcquire() == int32(AlarmOn) {
			return true
		}
	}
	return false
}
