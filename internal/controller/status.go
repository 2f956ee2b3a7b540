package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/jjawny/parkingsim/internal/shm"
)

// runStatusDisplay implements spec §4.3's status display: every 50ms,
// clear the terminal and print a tabular view of every entrance, exit,
// and level. It is the system's sole UI (spec §6).
func (c *Controller) runStatusDisplay() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	summaryEvery := time.Duration(c.cfg.Duration) * time.Second / 10
	if summaryEvery < 5*time.Second {
		summaryEvery = 5 * time.Second
	}
	summaryTicker := time.NewTicker(summaryEvery)
	defer summaryTicker.Stop()

	for {
		select {
		case <-ticker.C:
			if c.region.ShutdownRequested() {
				return
			}
			c.render()
		case <-summaryTicker.C:
			// The terminal table is for a human watching live; this
			// line is for a run whose terminal output was not captured
			// (CI, a piped invocation).
			c.logSummary()
		}
	}
}

func (c *Controller) logSummary() {
	c.log.Info().
		Int("occupied", c.occupancy.Total()).
		Int64("total_cars", c.ledger.TotalCars()).
		Int64("revenue_cents", c.ledger.RevenueCents()).
		Msg("status summary")
}

// render draws one frame. Reads of plate/gate/sign are mutex-protected
// field-by-field (never holding more than one triplet's lock at once);
// temperature and alarm are read unsynchronised per spec §4.3's "atomic,
// no mutex" note.
func (c *Controller) render() {
	var b strings.Builder
	b.WriteString("\033[H\033[2J") // clear terminal

	counts := c.region.Counts()
	occ := c.occupancy.Snapshot()

	b.WriteString("ENTRANCES\n")
	for i := 0; i < counts.Entrances; i++ {
		rec := c.region.Entrance(i)
		plate, gate := readLPRGate(&rec.LPR, &rec.Gate)
		sign := readSign(&rec.Sign)
		fmt.Fprintf(&b, "  %d: plate=%-6q gate=%c sign=%c\n", i, plate, gate, signGlyph(sign))
	}

	b.WriteString("EXITS\n")
	for i := 0; i < counts.Exits; i++ {
		rec := c.region.Exit(i)
		plate, gate := readLPRGate(&rec.LPR, &rec.Gate)
		fmt.Fprintf(&b, "  %d: plate=%-6q gate=%c\n", i, plate, gate)
	}

	b.WriteString("LEVELS\n")
	for i := 0; i < counts.Levels; i++ {
		lvl := c.region.Level(i)
		temp := lvl.Temperature.LoadAcquire()
		alarm := lvl.Alarm.LoadAcquire() == shm.AlarmOn
		fmt.Fprintf(&b, "  %d: occupancy=%d/%d temp=%d alarm=%v\n", i, occ[i], c.cfg.Capacity, temp, alarm)
	}

	fmt.Fprintf(&b, "TOTAL CARS: %d   REVENUE: $%d.%02d\n",
		c.ledger.TotalCars(), c.ledger.RevenueCents()/100, c.ledger.RevenueCents()%100)

	fmt.Print(b.String())
}

func readLPRGate(lpr *shm.LPR, gate *shm.Gate) (plate string, status byte) {
	lpr.Mu.Lock()
	plate = lpr.ReadPlate()
	lpr.Mu.Unlock()

	gate.Mu.Lock()
	status = gate.Status
	gate.Mu.Unlock()
	return
}

func readSign(sign *shm.Sign) byte {
	sign.Mu.Lock()
	defer sign.Mu.Unlock()
	return sign.Char
}

// signGlyph maps a blank sign byte (0) to a printable placeholder.
func signGlyph(c byte) byte {
	if c == shm.SignBlank {
		return '.'
	}
	return c
}
