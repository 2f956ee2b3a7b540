// Command safetymonitor runs the Safety Monitor process: watches
// per-level temperatures, and on fire, forces gates open and flashes
// EVACUATE on every entrance sign (spec §2, §4.4).
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jjawny/parkingsim/internal/config"
	"github.com/jjawny/parkingsim/internal/safety"
	"github.com/jjawny/parkingsim/internal/shm"
	"github.com/jjawny/parkingsim/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "parkingsim.toml", "path to the TOML configuration file")
	shmName := flag.String("shm-name", shm.DefaultName, "shared-memory region file name")
	flag.Parse()

	log := telemetry.New(telemetry.ProcessSafetyMonitor)

	cfg, err := config.Load(*configPath, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}

	counts := shm.Counts{Entrances: cfg.Entrances, Exits: cfg.Exits, Levels: cfg.Levels}

	var region *shm.Region
	for attempt := 0; ; attempt++ {
		region, err = shm.Open(*shmName, counts)
		if err == nil {
			break
		}
		if attempt >= 50 {
			log.Error().Err(err).Msg("shared region never became available")
			os.Exit(1)
		}
		time.Sleep(100 * time.Millisecond)
	}
	defer region.Close()

	mon := safety.New(region, cfg, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn().Msg("signal received, requesting shutdown")
		region.RequestShutdown()
	}()

	log.Info().Msg("safety monitor starting")
	mon.Run()
	log.Info().Msg("safety monitor shut down cleanly")
}
