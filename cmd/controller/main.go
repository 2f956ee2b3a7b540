// Command controller runs the Controller process: authorises cars,
// bills departures, closes gates, and displays live status (spec §2,
// §4.3).
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jjawny/parkingsim/internal/billing"
	"github.com/jjawny/parkingsim/internal/config"
	"github.com/jjawny/parkingsim/internal/controller"
	"github.com/jjawny/parkingsim/internal/plates"
	"github.com/jjawny/parkingsim/internal/shm"
	"github.com/jjawny/parkingsim/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "parkingsim.toml", "path to the TOML configuration file")
	shmName := flag.String("shm-name", shm.DefaultName, "shared-memory region file name")
	flag.Parse()

	log := telemetry.New(telemetry.ProcessController)

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

	whitelist, err := plates.LoadWhitelist(cfg.PlatesFile)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.PlatesFile).Msg("failed to load plate whitelist")
		os.Exit(1)
	}

	ledger, err := billing.Open(cfg.BillingFile)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.BillingFile).Msg("failed to open billing log")
		os.Exit(1)
	}
	defer ledger.Close()

	ctl := controller.New(region, cfg, whitelist, ledger, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn().Msg("signal received, requesting shutdown")
		region.RequestShutdown()
	}()

	log.Info().Msg("controller starting")
	ctl.Run()
	log.Info().Msg("controller shut down cleanly")
}
