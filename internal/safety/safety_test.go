package safety_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jjawny/parkingsim/internal/config"
	"github.com/jjawny/parkingsim/internal/safety"
	"github.com/jjawny/parkingsim/internal/shm"
)

func TestMonitorRaisesAlarmAndGatesOnSustainedHeat(t *testing.T) {
	counts := shm.Counts{Entrances: 1, Exits: 1, Levels: 1}
	region, err := shm.Create(t.Name(), counts)
	require.NoError(t, err)
	defer region.Close()
	defer region.Unlink()

	region.Level(0).Temperature.StoreRelease(60)

	cfg := config.Defaults()
	cfg.Levels, cfg.Entrances, cfg.Exits = 1, 1, 1
	mon := safety.New(region, cfg, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		mon.Run()
		close(done)
	}()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if region.Level(0).Alarm.LoadAcquire() == shm.AlarmOn {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, shm.AlarmOn, region.Level(0).Alarm.LoadAcquire(), "alarm never raised under sustained 60 degree heat")

	gate := &region.Entrance(0).Gate
	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		gate.Mu.Lock()
		status := gate.Status
		gate.Mu.Unlock()
		if status != shm.GateClosed {
			region.RequestShutdown()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				require.Fail(t, "Run did not return after shutdown")
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	region.RequestShutdown()
	require.Fail(t, "entrance gate never left Closed during alarm")
}
