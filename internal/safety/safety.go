package safety

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"github.com/rs/zerolog"

	"github.com/jjawny/parkingsim/internal/config"
	"github.com/jjawny/parkingsim/internal/shm"
)

// Monitor bundles the shared region, one Detector per level, and the
// sticky alarm flag (spec §4.4's "ON remains until shutdown").
type Monitor struct {
	region *shm.Region
	cfg    config.Config
	log    zerolog.Logger

	// alarmActive is 0 (off) or 1 (on), using atomix.Int32's
	// CompareAndSwapAcqRel the same way shm.Mutex does, since the
	// dependency does not expose a dedicated Bool type with a Swap
	// operation.
	alarmActive atomix.Int32
}

// New builds a Monitor over an already-mapped region.
func New(region *shm.Region, cfg config.Config, log zerolog.Logger) *Monitor {
	return &Monitor{region: region, cfg: cfg, log: log}
}

// Run starts one detector per level plus the gate and sign workers,
// blocking until every level's detector, the gate worker, and the sign
// worker return.
func (m *Monitor) Run() {
	counts := m.region.Counts()
	var wg sync.WaitGroup

	for i := 0; i < counts.Levels; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.runDetector(i)
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		m.runGateWorker()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		m.runSignWorker()
	}()

	wg.Wait()
}

// runDetector implements spec §4.4's per-level detector: sample every
// 2ms, and on either trigger, raise the alarm once (spec's sticky
// semantics mean only the first trigger across all levels matters, but
// every level still contributes raw samples for its own record).
func (m *Monitor) runDetector(level int) {
	det := NewDetector()
	rec := m.region.Level(level)

	for !m.region.ShutdownRequested() {
		time.Sleep(2 * time.Millisecond)
		if m.region.ShutdownRequested() {
			return
		}

		raw := rec.Temperature.LoadAcquire()
		trigger, fired := det.Observe(raw)
		if fired && m.alarmActive.CompareAndSwapAcqRel(0, 1) {
			m.log.Warn().Int("level", level).Str("trigger", trigger).Msg("fire detected, raising alarm")
			m.raiseAllAlarms()
			// spec §4.4: avoid rapid re-triggers; still return promptly on shutdown
			for end := time.Now().Add(6 * time.Second); time.Now().Before(end) && !m.region.ShutdownRequested(); {
				time.Sleep(2 * time.Millisecond)
			}
		}
	}
}

// raiseAllAlarms sets every level's alarm byte to '1' (spec §4.4: "set
// every level's alarm byte to '1'; broadcast the alarm condition").
func (m *Monitor) raiseAllAlarms() {
	counts := m.region.Counts()
	for i := 0; i < counts.Levels; i++ {
		rec := m.region.Level(i)
		rec.Alarm.StoreRelease(shm.AlarmOn)
		rec.LPR.Cond.Broadcast()
	}
}

// runGateWorker implements spec §4.4's gate worker: while the alarm is
// active, force every closed gate to Raising, then re-check every 5s in
// case a gate was erroneously re-closed.
func (m *Monitor) runGateWorker() {
	for !m.region.ShutdownRequested() {
		if m.alarmActive.LoadAcquire() == 0 {
			time.Sleep(50 * time.Millisecond)
			continue
		}
		m.raiseAllGates()
		for end := time.Now().Add(5 * time.Second); time.Now().Before(end) && !m.region.ShutdownRequested(); {
			time.Sleep(2 * time.Millisecond)
		}
	}
}

func (m *Monitor) raiseAllGates() {
	counts := m.region.Counts()
	for i := 0; i < counts.Entrances; i++ {
		m.forceRaise(&m.region.Entrance(i).Gate)
	}
	for i := 0; i < counts.Exits; i++ {
		m.forceRaise(&m.region.Exit(i).Gate)
	}
}

func (m *Monitor) forceRaise(gate *shm.Gate) {
	gate.Mu.Lock()
	if gate.Status == shm.GateClosed {
		gate.Status = shm.GateRaising
	}
	gate.Mu.Unlock()
	gate.Cond.Broadcast()
}

// runSignWorker implements spec §4.4's sign worker: cycle the letters
// of EVACUATE across every entrance sign, 20ms apart, until shutdown.
func (m *Monitor) runSignWorker() {
	letters := shm.EvacuateLetters
	idx := 0
	for !m.region.ShutdownRequested() {
		if m.alarmActive.LoadAcquire() == 0 {
			time.Sleep(50 * time.Millisecond)
			continue
		}
		m.writeAllSigns(letters[idx])
		idx = (idx + 1) % len(letters)
		time.Sleep(20 * time.Millisecond)
	}
}

func (m *Monitor) writeAllSigns(ch byte) {
	counts := m.region.Counts()
	for i := 0; i < counts.Entrances; i++ {
		sign := &m.region.Entrance(i).Sign
		sign.Mu.Lock()
		sign.Char = ch
		sign.Mu.Unlock()
		sign.Cond.Broadcast()
	}
}
