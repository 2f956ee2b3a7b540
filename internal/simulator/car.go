package simulator

import (
	"time"

	"github.com/jjawny/parkingsim/internal/carfifo"
)

// runCarTask implements spec §4.2's per-car task: drive to the spot,
// sit parked for the draw duration, drive to an exit, and hand off to
// the chosen exit FIFO. It must not outlive the Simulator (spec §9);
// Simulator.Run waits on carTasks before returning.
func (s *Simulator) runCarTask(car carfifo.Descriptor) {
	parkDuration := s.cfg.Scale(s.rng.DurationBetween(100*time.Millisecond, 10000*time.Millisecond))
	exitIdx := s.rng.Intn(len(s.exitQueues))

	rec := s.region.Level(car.Level)

	time.Sleep(s.cfg.Scale(10 * time.Millisecond)) // drive to spot

	rec.LPR.Mu.Lock()
	rec.LPR.WritePlate(car.Plate)
	rec.LPR.Mu.Unlock()
	rec.LPR.Cond.Broadcast()

	time.Sleep(parkDuration)

	rec.LPR.Mu.Lock()
	rec.LPR.WritePlate(car.Plate)
	rec.LPR.Mu.Unlock()
	rec.LPR.Cond.Broadcast()

	time.Sleep(s.cfg.Scale(10 * time.Millisecond)) // drive to exit

	out := carfifo.Descriptor{Plate: car.Plate, Level: car.Level}
	if s.exitQueues[exitIdx].Push(out, s.shutdownRequested) {
		s.exitQueues[exitIdx].Broadcast()
	}
}
