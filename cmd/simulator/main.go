// Command simulator runs the Simulator process of the car-park
// simulation: it creates the shared-memory region, generates arrivals,
// and drives entrance/exit hardware and per-level temperatures (spec
// §2, §4.2).
package main

import (
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jjawny/parkingsim/internal/config"
	"github.com/jjawny/parkingsim/internal/plates"
	"github.com/jjawny/parkingsim/internal/shm"
	"github.com/jjawny/parkingsim/internal/simulator"
	"github.com/jjawny/parkingsim/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "parkingsim.toml", "path to the TOML configuration file")
	shmName := flag.String("shm-name", shm.DefaultName, "shared-memory region file name")
	flag.Parse()

	log := telemetry.New(telemetry.ProcessSimulator)

	cfg, err := config.Load(*configPath, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}

	counts := shm.Counts{Entrances: cfg.Entrances, Exits: cfg.Exits, Levels: cfg.Levels}
	region, err := shm.Create(*shmName, counts)
	if err != nil {
		log.Error().Err(err).Msg("failed to create shared region")
		os.Exit(1)
	}
	defer region.Close()
	defer region.Unlink()

	var pool *plates.Pool
	if cfg.Chance > 0 {
		pool, err = plates.LoadPool(cfg.PlatesFile, rand.New(rand.NewSource(time.Now().UnixNano())))
		if err != nil {
			log.Error().Err(err).Str("path", cfg.PlatesFile).Msg("failed to load plate pool")
			os.Exit(1)
		}
	}

	sim := simulator.New(region, cfg, pool, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn().Msg("signal received, requesting shutdown")
		region.RequestShutdown()
	}()

	go func() {
		time.Sleep(time.Duration(cfg.Duration) * time.Second)
		region.RequestShutdown()
	}()

	log.Info().Interface("config", cfg).Msg("simulator starting")
	sim.Run()
	log.Info().Msg("simulator shut down cleanly")
}
