package controller

import (
	"time"

	"github.com/jjawny/parkingsim/internal/shm"
)

// runEntranceWorker implements spec §4.3's entrance worker for entrance
// index i, looping until shutdown.
func (c *Controller) runEntranceWorker(i int) {
	rec := c.region.Entrance(i)
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

		if c.region.AnyAlarmActive() {
			// Safety Monitor owns the sign during an alarm; this worker
			// only needs to free the LPR so the entrance can accept the
			// next arrival (the alarm, once raised, stays on).
			c.clearLPR(rec)
			continue
		}

		c.authorise(i, rec, plate)
	}
}

// authorise runs spec §4.3 steps 3–6 for one arrival.
func (c *Controller) authorise(entranceID int, rec *shm.EntranceRecord, plate string) {
	authorised := c.whitelist.Authorised(plate)
	duplicate := c.ledger.Duplicate(plate)

	var sign byte
	var assignedLevel int
	leveled := false

	switch {
	case !authorised || duplicate:
		sign = shm.SignRefused
	default:
		if level, ok := c.occupancy.Admit(entranceID%c.cfg.Levels, c.cfg.Capacity); ok {
			c.ledger.Enter(plate, level, time.Now())
			sign = shm.SignForLevel(level)
			assignedLevel = level
			leveled = true
			c.setGate(&rec.Gate, shm.GateClosed, shm.GateRaising)
		} else {
			sign = shm.SignFull
		}
	}

	time.Sleep(8 * time.Millisecond) // display-sampling window, unscaled per spec §4.2/§4.3

	if leveled && c.region.AnyAlarmActive() {
		c.occupancy.Decrement(assignedLevel)
		c.ledger.Rollback(plate)
	}

	c.clearLPR(rec)
	c.writeSign(&rec.Sign, sign)

	c.log.Debug().Str("plate", plate).Int("entrance", entranceID).Str("sign", string(sign)).Msg("authorisation decided")
}

func (c *Controller) clearLPR(rec *shm.EntranceRecord) {
	rec.LPR.Mu.Lock()
	rec.LPR.Clear()
	rec.LPR.Mu.Unlock()
	rec.LPR.Cond.Broadcast()
}

func (c *Controller) writeSign(sign *shm.Sign, ch byte) {
	sign.Mu.Lock()
	sign.Char = ch
	sign.Mu.Unlock()
	sign.Cond.Broadcast()
}

// setGate transitions a gate from from to to if it is currently at
// from, broadcasting regardless (a no-op transition still wakes
// waiters re-checking an unrelated predicate).
func (c *Controller) setGate(gate *shm.Gate, from, to byte) {
	gate.Mu.Lock()
	if gate.Status == from {
		gate.Status = to
	}
	gate.Mu.Unlock()
	gate.Cond.Broadcast()
}
