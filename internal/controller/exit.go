package controller

import (
	"time"

	"github.com/jjawny/parkingsim/internal/shm"
)

// runExitWorker implements spec §4.3's exit worker for exit index i.
func (c *Controller) runExitWorker(i int) {
	rec := c.region.Exit(i)
	for {
		rec.LPR.Mu.Lock()
		ready := rec.LPR.Cond.WaitOrShutdown(&rec.LPR.Mu,
			func() bool { return rec.LPR.ReadPlate() != "" },
			c.region.ShutdownRequested)
		if !ready {
			rec.LPR.Mu.Unlock()
			return
		}
		plate := rec.LPR.ReadPlate()
		rec.LPR.Mu.Unlock()

		level, cents, ok := c.ledger.Exit(plate, time.Now())
		if ok {
			c.occupancy.Decrement(level)
			c.log.Info().Str("plate", plate).Int("level", level).Int64("cents", cents).Msg("car billed")
		} else {
			c.log.Warn().Str("plate", plate).Msg("exit LPR read with no billing entry")
		}

		c.setGate(&rec.Gate, shm.GateClosed, shm.GateRaising)

		rec.LPR.Mu.Lock()
		rec.LPR.Clear()
		rec.LPR.Mu.Unlock()
		rec.LPR.Cond.Broadcast()
	}
}
