package simulator

import (
	"time"
)

// runTemperatureWorker feeds one level's temperature. Config.TestMode
// selects the Safety Monitor's stress-testing temperature feed (spec
// §4.2's "test mode produces a pure uniform draw from the window")
// instead of the default random walk. The mode is the test_mode field of
// the TOML configuration rather than a build tag, since a single binary
// serving both modes is simpler to operate than two builds.
func (s *Simulator) runTemperatureWorker(level int) {
	rec := s.region.Level(level)
	current := int32((s.cfg.MinTemp + s.cfg.MaxTemp) / 2)
	rec.Temperature.StoreRelease(current)

	for !s.shutdownRequested() {
		time.Sleep(s.cfg.Scale(s.rng.DurationBetween(time.Millisecond, 5*time.Millisecond)))
		if s.shutdownRequested() {
			return
		}

		if s.cfg.TestMode {
			current = int32(s.rng.IntBetween(s.cfg.MinTemp, s.cfg.MaxTemp))
		} else {
			step := s.rng.IntBetween(-1, 1)
			current = clamp32(current+int32(step), int32(s.cfg.MinTemp), int32(s.cfg.MaxTemp))
		}
		rec.Temperature.StoreRelease(current)
	}
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
