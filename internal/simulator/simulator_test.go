package simulator_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jjawny/parkingsim/internal/config"
	"github.com/jjawny/parkingsim/internal/shm"
	"github.com/jjawny/parkingsim/internal/simulator"
)

func TestRunCompletesOnShutdown(t *testing.T) {
	counts := shm.Counts{Entrances: 1, Exits: 1, Levels: 1}
	region, err := shm.Create(t.Name(), counts)
	require.NoError(t, err)
	defer region.Close()
	defer region.Unlink()

	cfg := config.Defaults()
	cfg.Entrances, cfg.Exits, cfg.Levels = 1, 1, 1
	cfg.Chance = 0 // no whitelist pool needed for this test

	sim := simulator.New(region, cfg, nil, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		sim.Run()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	region.RequestShutdown()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.Fail(t, "Run did not return after shutdown")
	}
}
