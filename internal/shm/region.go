// Package shm implements the fixed-layout shared-memory region that the
// Simulator, Controller, and Safety Monitor processes map to coordinate:
// the entrance, exit, and level triplets described in spec §3/§4.1, a
// process-shared Mutex/Cond pair (sync.go) standing in for POSIX
// pthread_mutex_t/pthread_cond_t with the PTHREAD_PROCESS_SHARED
// attribute, and the positional Entrance/Exit/Level accessors (layout.go).
package shm

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Region is an open, mapped view of the shared-memory file backing one
// simulation run, plus the typed Layout over it.
type Region struct {
	*Layout
	path string
	data []byte
}

// DefaultName is the region's file name absent an override, echoing the
// POSIX name "PARKING" from spec §6.
const DefaultName = "PARKING"

func shmPath(name string) string {
	if name == "" {
		name = DefaultName
	}
	return filepath.Join(os.TempDir(), name+".shm")
}

// Create creates (or truncates) and maps the region. Only the Simulator
// calls Create; every mutex/condition in the region must be left in its
// initial unlocked, generation-zero state before any peer maps it, which
// is automatically true here since Ftruncate zero-fills new file content.
func Create(name string, counts Counts) (*Region, error) {
	path := shmPath(name)
	size := counts.Size()

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shm: create %s: %w", path, err)
	}
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, size); err != nil {
		return nil, fmt.Errorf("shm: truncate %s to %d: %w", path, size, err)
	}

	region, err := mapRegion(fd, path, counts, size)
	if err != nil {
		return nil, err
	}
	region.initialize()
	return region, nil
}

// initialize sets every gate, sign, and alarm field to its documented
// resting state. Ftruncate zero-fills the new file, which already
// leaves every Mutex/Cond at generation zero, every plate field empty
// (invariant I4) and every sign blank; the gate status and alarm fields
// need an explicit non-zero value ('C' and '0'), and the sign is set to
// blank explicitly for clarity.
func (r *Region) initialize() {
	counts := r.Counts()
	for i := 0; i < counts.Entrances; i++ {
		e := r.Entrance(i)
		e.Gate.Status = GateClosed
		e.Sign.Char = SignBlank
	}
	for i := 0; i < counts.Exits; i++ {
		r.Exit(i).Gate.Status = GateClosed
	}
	for i := 0; i < counts.Levels; i++ {
		r.Level(i).Alarm.StoreRelease(AlarmOff)
	}
}

// Open maps an existing region created by the Simulator. It fails fast
// if the file is missing, is the wrong size for counts, or has not yet
// been initialised by Create (the first entrance gate still holds the
// zero byte rather than a gate status). cmd/controller and
// cmd/safetymonitor retry Open until it succeeds or their retry budget
// runs out.
func Open(name string, counts Counts) (*Region, error) {
	path := shmPath(name)
	size := counts.Size()

	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("shm: open %s: %w", path, err)
	}
	defer unix.Close(fd)

	st, err := unix.Fstat(fd)
	if err != nil {
		return nil, fmt.Errorf("shm: stat %s: %w", path, err)
	}
	if st.Size != size {
		return nil, fmt.Errorf("shm: %s is %d bytes, want %d for %+v (simulator not started?)", path, st.Size, size, counts)
	}

	region, err := mapRegion(fd, path, counts, size)
	if err != nil {
		return nil, err
	}
	if region.Entrance(0).Gate.Status == 0 {
		_ = region.Close()
		return nil, fmt.Errorf("shm: %s is not initialised (simulator not started?)", path)
	}
	return region, nil
}

func mapRegion(fd int, path string, counts Counts, size int64) (*Region, error) {
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shm: mmap %s (%d bytes): %w", path, size, err)
	}

	layout, err := NewLayout(counts, data)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}

	return &Region{Layout: layout, path: path, data: data}, nil
}

// Close unmaps the region. It does not remove the backing file; only
// Unlink (called by the Simulator alone, at its own exit, per spec §3
// "Simulator unlinks the name at its own exit") does that.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	return err
}

// Unlink removes the backing file. Only the Simulator calls this, after
// every worker (including peers observed via the region, best-effort) has
// had a chance to finish reading end_simulation.
func (r *Region) Unlink() error {
	return os.Remove(r.path)
}
