package controller_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jjawny/parkingsim/internal/billing"
	"github.com/jjawny/parkingsim/internal/config"
	"github.com/jjawny/parkingsim/internal/controller"
	"github.com/jjawny/parkingsim/internal/plates"
	"github.com/jjawny/parkingsim/internal/shm"
)

func newHarness(t *testing.T, counts shm.Counts, cfg config.Config, whitelist string) (*shm.Region, *controller.Controller) {
	t.Helper()
	name := t.Name()
	region, err := shm.Create(name, counts)
	require.NoError(t, err)
	t.Cleanup(func() {
		region.Close()
		region.Unlink()
	})

	platesPath := filepath.Join(t.TempDir(), "plates.txt")
	require.NoError(t, os.WriteFile(platesPath, []byte(whitelist), 0o600))
	wl, err := plates.LoadWhitelist(platesPath)
	require.NoError(t, err)

	ledger, err := billing.Open(filepath.Join(t.TempDir(), "billing.txt"))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	c := controller.New(region, cfg, wl, ledger, discardLogger())
	return region, c
}

func discardLogger() zerolog.Logger { return zerolog.Nop() }

func TestEntranceAuthorisesWhitelistedPlate(t *testing.T) {
	counts := shm.Counts{Entrances: 1, Exits: 1, Levels: 1}
	cfg := config.Defaults()
	cfg.Entrances, cfg.Exits, cfg.Levels, cfg.Capacity = 1, 1, 1, 1

	region, c := newHarness(t, counts, cfg, "206WHS\n")
	go c.Run()

	rec := region.Entrance(0)
	rec.LPR.Mu.Lock()
	rec.LPR.WritePlate("206WHS")
	rec.LPR.Mu.Unlock()
	rec.LPR.Cond.Broadcast()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec.Sign.Mu.Lock()
		ch := rec.Sign.Char
		rec.Sign.Mu.Unlock()
		if ch == shm.SignForLevel(0) {
			region.RequestShutdown()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	region.RequestShutdown()
	require.Fail(t, "sign never became '0'")
}

func TestEntranceRefusesUnknownPlate(t *testing.T) {
	counts := shm.Counts{Entrances: 1, Exits: 1, Levels: 1}
	cfg := config.Defaults()
	cfg.Entrances, cfg.Exits, cfg.Levels, cfg.Capacity = 1, 1, 1, 1

	region, c := newHarness(t, counts, cfg, "206WHS\n")
	go c.Run()
	defer region.RequestShutdown()

	rec := region.Entrance(0)
	rec.LPR.Mu.Lock()
	rec.LPR.WritePlate("ABC123")
	rec.LPR.Mu.Unlock()
	rec.LPR.Cond.Broadcast()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec.Sign.Mu.Lock()
		ch := rec.Sign.Char
		rec.Sign.Mu.Unlock()
		if ch == shm.SignRefused {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Fail(t, "sign never became 'X'")
}
