package controller

import (
	"github.com/jjawny/parkingsim/internal/shm"
)

// runGateCloser implements spec §4.3's gate-closer worker for one gate:
// wait for Open, hold it for 20ms (scaled), then Lower. Skipped
// entirely while any level's alarm is active.
func (c *Controller) runGateCloser(gate *shm.Gate) {
	for {
		gate.Mu.Lock()
		ready := gate.Cond.WaitOrShutdown(&gate.Mu,
			func() bool { return gate.Status == shm.GateOpen && !c.region.AnyAlarmActive() },
			c.region.ShutdownRequested)
		if !ready {
			gate.Mu.Unlock()
			return
		}
		gate.Mu.Unlock()

		c.sleepScaled(gate, 20)

		gate.Mu.Lock()
		if gate.Status == shm.GateOpen && !c.region.AnyAlarmActive() {
			gate.Status = shm.GateLowering
		}
		gate.Mu.Unlock()
		gate.Cond.Broadcast()
	}
}

// sleepScaled holds the gate's mutex released while sleeping the given
// number of milliseconds (scaled by slow-motion), matching the "must
// elapse while the gate mutex is held" rule only for the Simulator side
// of the animation (spec §4.2); the Controller's 20ms open-hold has no
// such requirement since no other writer touches Status while Open.
func (c *Controller) sleepScaled(_ *shm.Gate, ms int) {
	sleepMillis(c.cfg.Scale, ms)
}
