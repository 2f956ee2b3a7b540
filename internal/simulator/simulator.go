// Package simulator implements the Simulator process: the arrival
// generator, entrance and exit workers, per-car tasks, and temperature
// workers (spec §4.2). It owns the shared region's creation and the
// private car-descriptor FIFOs and plate pool that never cross the
// process boundary (spec §3).
package simulator

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jjawny/parkingsim/internal/carfifo"
	"github.com/jjawny/parkingsim/internal/config"
	"github.com/jjawny/parkingsim/internal/plates"
	"github.com/jjawny/parkingsim/internal/randpool"
	"github.com/jjawny/parkingsim/internal/shm"
)

// Simulator bundles the shared region and every simulator-private
// piece of state: the entrance/exit FIFOs, the plate pool, and the
// shared random source (spec §5's "rand ... single mutex").
type Simulator struct {
	region *shm.Region
	cfg    config.Config
	pool   *plates.Pool
	rng    *randpool.Pool
	log    zerolog.Logger

	entranceQueues []*carfifo.EntranceQueue
	exitQueues     []*carfifo.ExitQueue

	carTasks sync.WaitGroup
}

// New builds a Simulator over an already-created region.
func New(region *shm.Region, cfg config.Config, pool *plates.Pool, log zerolog.Logger) *Simulator {
	s := &Simulator{
		region: region,
		cfg:    cfg,
		pool:   pool,
		rng:    randpool.NewTimeSeeded(),
		log:    log,
	}
	counts := region.Counts()
	s.entranceQueues = make([]*carfifo.EntranceQueue, counts.Entrances)
	for i := range s.entranceQueues {
		s.entranceQueues[i] = carfifo.NewEntranceQueue(64)
	}
	s.exitQueues = make([]*carfifo.ExitQueue, counts.Exits)
	for i := range s.exitQueues {
		s.exitQueues[i] = carfifo.NewExitQueue(64)
	}
	return s
}

// Run starts every worker and blocks until shutdown: all entrance/exit
// workers and temperature workers return, and every detached per-car
// task has drained (spec §9's "task must not outlive the Simulator").
func (s *Simulator) Run() {
	counts := s.region.Counts()
	var wg sync.WaitGroup

	stopWatcher := make(chan struct{})
	go s.runShutdownWatcher(stopWatcher)
	defer close(stopWatcher)

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runArrivalGenerator()
	}()

	for i := 0; i < counts.Entrances; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.runEntranceWorker(i)
		}(i)
	}
	for i := 0; i < counts.Exits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.runExitWorker(i)
		}(i)
	}
	for i := 0; i < counts.Levels; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.runTemperatureWorker(i)
		}(i)
	}

	wg.Wait()
	s.carTasks.Wait()

	for _, q := range s.exitQueues {
		q.Drain()
	}
}

func (s *Simulator) shutdownRequested() bool {
	return s.region.ShutdownRequested()
}

// runShutdownWatcher repeatedly broadcasts every entrance/exit FIFO
// once shutdown is observed. The FIFOs use a native sync.Cond, which —
// unlike the shared region's poll-based shm.Cond — only re-checks its
// predicate when woken by a Broadcast; without this watcher, a worker
// parked in carfifo's Pop/Push with no traffic would never notice
// end_simulation.
func (s *Simulator) runShutdownWatcher(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.shutdownRequested() {
				continue
			}
			for _, q := range s.entranceQueues {
				q.Broadcast()
			}
			for _, q := range s.exitQueues {
				q.Broadcast()
			}
		}
	}
}
