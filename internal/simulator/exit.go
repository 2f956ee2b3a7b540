package simulator

import (
	"time"

	"github.com/jjawny/parkingsim/internal/shm"
)

// runExitWorker implements spec §4.2's exit worker for exit index i:
// symmetric to the entrance worker but with no sign.
func (s *Simulator) runExitWorker(i int) {
	rec := s.region.Exit(i)
	queue := s.exitQueues[i]
	for {
		car, ok := queue.Pop(s.shutdownRequested)
		if !ok {
			return
		}

		rec.LPR.Mu.Lock()
		rec.LPR.WritePlate(car.Plate)
		rec.LPR.Mu.Unlock()
		rec.LPR.Cond.Broadcast()

		rec.Gate.Mu.Lock()
		ready := rec.Gate.Cond.WaitOrShutdown(&rec.Gate.Mu,
			func() bool { return rec.Gate.Status != shm.GateClosed },
			s.shutdownRequested)
		if ready && rec.Gate.Status == shm.GateRaising {
			time.Sleep(s.cfg.Scale(10 * time.Millisecond))
			rec.Gate.Status = shm.GateOpen
		}
		rec.Gate.Mu.Unlock()
		rec.Gate.Cond.Broadcast()
	}
}
