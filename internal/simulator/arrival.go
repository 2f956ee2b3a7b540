package simulator

import (
	"time"

	"github.com/jjawny/parkingsim/internal/carfifo"
)

// runArrivalGenerator implements spec §4.2's arrival generator: sleep a
// uniform 1–100ms, pick a plate (biased toward the whitelist with
// probability CHANCE), enqueue into a uniformly chosen entrance FIFO,
// and broadcast.
func (s *Simulator) runArrivalGenerator() {
	for !s.shutdownRequested() {
		time.Sleep(s.cfg.Scale(s.rng.DurationBetween(time.Millisecond, 100*time.Millisecond)))
		if s.shutdownRequested() {
			return
		}

		plate := s.pickPlate()
		entrance := s.rng.Intn(len(s.entranceQueues))

		d := carfifo.Descriptor{Plate: plate}
		if s.entranceQueues[entrance].Push(d, s.shutdownRequested) {
			s.entranceQueues[entrance].Broadcast()
		}
	}
}

// pickPlate draws from the whitelist pool with probability CHANCE,
// otherwise synthesises a uniformly random NNNLLL plate (spec §4.2).
func (s *Simulator) pickPlate() string {
	if s.pool != nil && s.pool.Len() > 0 && s.rng.Float64() < s.cfg.Chance {
		return s.pool.Pick()
	}
	return s.rng.Plate()
}
