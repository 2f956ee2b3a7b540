package controller

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/jjawny/parkingsim/internal/billing"
	"github.com/jjawny/parkingsim/internal/config"
	"github.com/jjawny/parkingsim/internal/plates"
	"github.com/jjawny/parkingsim/internal/shm"
)

// Controller bundles everything the Controller process needs: the
// mapped shared region, its private whitelist/billing/occupancy state,
// and the logger. One value per process, created by cmd/controller.
type Controller struct {
	region    *shm.Region
	cfg       config.Config
	whitelist *plates.Whitelist
	ledger    *billing.Ledger
	occupancy *Occupancy
	log       zerolog.Logger
}

// New builds a Controller. whitelist and ledger are opened by the
// caller (cmd/controller) so their lifetimes are explicit.
func New(region *shm.Region, cfg config.Config, whitelist *plates.Whitelist, ledger *billing.Ledger, log zerolog.Logger) *Controller {
	return &Controller{
		region:    region,
		cfg:       cfg,
		whitelist: whitelist,
		ledger:    ledger,
		occupancy: NewOccupancy(cfg.Levels),
		log:       log,
	}
}

// Occupancy exposes the occupancy vector, e.g. for tests asserting
// invariant (P1).
func (c *Controller) Occupancy() *Occupancy { return c.occupancy }

// Run starts every worker and blocks until end_simulation is observed
// and all workers return.
func (c *Controller) Run() {
	counts := c.region.Counts()
	var wg sync.WaitGroup

	for i := 0; i < counts.Entrances; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.runEntranceWorker(i)
		}(i)

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.runGateCloser(&c.region.Entrance(i).Gate)
		}(i)
	}

	for i := 0; i < counts.Exits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.runExitWorker(i)
		}(i)

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.runGateCloser(&c.region.Exit(i).Gate)
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.runStatusDisplay()
	}()

	wg.Wait()
}
