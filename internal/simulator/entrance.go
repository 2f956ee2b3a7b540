package simulator

import (
	"time"

	"github.com/jjawny/parkingsim/internal/carfifo"
	"github.com/jjawny/parkingsim/internal/shm"
)

// runEntranceWorker implements spec §4.2's entrance worker steady-state
// loop for entrance index i.
func (s *Simulator) runEntranceWorker(i int) {
	rec := s.region.Entrance(i)
	queue := s.entranceQueues[i]
	for {
		car, ok := queue.Pop(s.shutdownRequested)
		if !ok {
			return
		}

		s.animateGateOnArrival(&rec.Gate)

		time.Sleep(s.cfg.Scale(2 * time.Millisecond))
		rec.LPR.Mu.Lock()
		rec.LPR.WritePlate(car.Plate)
		rec.LPR.Mu.Unlock()
		time.Sleep(8 * time.Millisecond) // display-sampling window, unscaled
		rec.LPR.Cond.Broadcast()

		rec.Sign.Mu.Lock()
		ready := rec.Sign.Cond.WaitOrShutdown(&rec.Sign.Mu,
			func() bool { return rec.Sign.Char != shm.SignBlank },
			s.shutdownRequested)
		sign := rec.Sign.Char
		rec.Sign.Mu.Unlock()
		if !ready {
			return
		}

		s.interpretSign(i, &rec.Gate, &rec.Sign, car.Plate, sign)
	}
}

// animateGateOnArrival handles spec §4.2 step 2: if the gate is
// Lowering, finish closing it; if Raising (left that way by the Safety
// Monitor), finish opening it. Either way the 10ms animation delay is
// held under the gate's own mutex, per spec §4.2's "gate animation
// detail".
func (s *Simulator) animateGateOnArrival(gate *shm.Gate) {
	gate.Mu.Lock()
	switch gate.Status {
	case shm.GateLowering:
		time.Sleep(s.cfg.Scale(10 * time.Millisecond))
		gate.Status = shm.GateClosed
	case shm.GateRaising:
		time.Sleep(s.cfg.Scale(10 * time.Millisecond))
		gate.Status = shm.GateOpen
	}
	gate.Mu.Unlock()
	gate.Cond.Broadcast()
}

// interpretSign implements spec §4.2 step 5: a refusal discards the
// car; an assigned-level digit finishes raising the gate and spawns
// the detached per-car task.
func (s *Simulator) interpretSign(entranceID int, gate *shm.Gate, sign *shm.Sign, plate string, ch byte) {
	defer func() {
		sign.Mu.Lock()
		sign.Char = shm.SignBlank
		sign.Mu.Unlock()
		sign.Cond.Broadcast()
	}()

	if ch == shm.SignRefused || ch == shm.SignFull || isEvacuateLetter(ch) {
		return
	}

	level, ok := shm.LevelForSign(ch)
	if !ok {
		return
	}

	gate.Mu.Lock()
	ready := gate.Cond.WaitOrShutdown(&gate.Mu,
		func() bool { return gate.Status != shm.GateClosed },
		s.shutdownRequested)
	if ready && gate.Status == shm.GateRaising {
		time.Sleep(s.cfg.Scale(10 * time.Millisecond))
		gate.Status = shm.GateOpen
	}
	gate.Mu.Unlock()
	gate.Cond.Broadcast()
	if !ready {
		return
	}

	s.carTasks.Add(1)
	go func() {
		defer s.carTasks.Done()
		s.runCarTask(carfifo.Descriptor{Plate: plate, Level: level})
	}()
}

func isEvacuateLetter(c byte) bool {
	for i := 0; i < len(shm.EvacuateLetters); i++ {
		if shm.EvacuateLetters[i] == c {
			return true
		}
	}
	return false
}
