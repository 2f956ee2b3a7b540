// Package config loads and validates the simulation's external
// configuration: spec §6 describes ENTRANCES, EXITS, LEVELS, CAPACITY,
// DURATION, CHANCE, MIN_TEMP, MAX_TEMP, and SLOW_MOTION as "compile-time
// or flag-equivalent" inputs. This reimplementation reads them from a
// TOML file (github.com/BurntSushi/toml, the config-file library carried
// by the example pack) so the three processes — which start as separate
// binaries — agree on the same values without recompilation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Defaults match spec §6 exactly.
const (
	DefaultEntrances  = 5
	DefaultExits      = 5
	DefaultLevels     = 5
	DefaultCapacity   = 20
	DefaultDuration   = 60
	DefaultChance     = 0.5
	DefaultMinTemp    = 26
	DefaultMaxTemp    = 33
	DefaultSlowMotion = 1

	DefaultPlatesFile  = "plates.txt"
	DefaultBillingFile = "billing.txt"
)

// Config holds every externally tunable parameter of a simulation run.
type Config struct {
	Entrances  int     `toml:"entrances"`
	Exits      int     `toml:"exits"`
	Levels     int     `toml:"levels"`
	Capacity   int     `toml:"capacity"`
	Duration   int     `toml:"duration_seconds"`
	Chance     float64 `toml:"chance"`
	MinTemp    int     `toml:"min_temp"`
	MaxTemp    int     `toml:"max_temp"`
	SlowMotion int     `toml:"slow_motion"`

	PlatesFile  string `toml:"plates_file"`
	BillingFile string `toml:"billing_file"`

	// TestMode selects the Safety Monitor stress-testing temperature feed
	// (spec §4.2: "selection between modes is a build/spec flag") over the
	// default random walk.
	TestMode bool `toml:"test_mode"`
}

// Defaults returns the compiled-in default configuration.
func Defaults() Config {
	return Config{
		Entrances:   DefaultEntrances,
		Exits:       DefaultExits,
		Levels:      DefaultLevels,
		Capacity:    DefaultCapacity,
		Duration:    DefaultDuration,
		Chance:      DefaultChance,
		MinTemp:     DefaultMinTemp,
		MaxTemp:     DefaultMaxTemp,
		SlowMotion:  DefaultSlowMotion,
		PlatesFile:  DefaultPlatesFile,
		BillingFile: DefaultBillingFile,
	}
}

// Load reads path (a TOML file) over the defaults and clamps every field,
// logging a Warn for each substitution. A missing file is not an error —
// it simply yields the defaults, since spec treats out-of-bounds
// configuration as fall-back-and-warn rather than fatal; a malformed
// (present but unparsable) file is still treated as a setup error, since
// that is a sign the operator's file is broken rather than merely absent.
func Load(path string, log zerolog.Logger) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	cfg.clamp(log)
	return cfg, nil
}

// clamp enforces spec §6's bounds, substituting the documented default
// and logging a warning for every field found out of range.
func (c *Config) clamp(log zerolog.Logger) {
	warn := func(field string, got, want any) {
		log.Warn().Str("field", field).Any("value", got).Any("default", want).
			Msg("configuration value out of bounds; using default")
	}

	if c.Entrances < 1 || c.Entrances > 5 {
		warn("entrances", c.Entrances, DefaultEntrances)
		c.Entrances = DefaultEntrances
	}
	if c.Exits < 1 || c.Exits > 5 {
		warn("exits", c.Exits, DefaultExits)
		c.Exits = DefaultExits
	}
	if c.Levels < 1 || c.Levels > 5 {
		warn("levels", c.Levels, DefaultLevels)
		c.Levels = DefaultLevels
	}
	if c.Capacity < 1 {
		warn("capacity", c.Capacity, DefaultCapacity)
		c.Capacity = DefaultCapacity
	}
	if c.Duration < 1 {
		warn("duration_seconds", c.Duration, DefaultDuration)
		c.Duration = DefaultDuration
	}
	if c.Chance < 0.0 || c.Chance > 1.0 {
		warn("chance", c.Chance, DefaultChance)
		c.Chance = DefaultChance
	}
	if c.MinTemp > c.MaxTemp {
		log.Warn().Int("min_temp", c.MinTemp).Int("max_temp", c.MaxTemp).
			Msg("min_temp > max_temp; swapping bounds")
		c.MinTemp, c.MaxTemp = c.MaxTemp, c.MinTemp
	}
	if c.SlowMotion < 1 {
		warn("slow_motion", c.SlowMotion, DefaultSlowMotion)
		c.SlowMotion = DefaultSlowMotion
	}
	if c.PlatesFile == "" {
		c.PlatesFile = DefaultPlatesFile
	}
	if c.BillingFile == "" {
		c.BillingFile = DefaultBillingFile
	}
}

// Scale multiplies d by SlowMotion, spec §6's "SLOW_MOTION ≥ 1"
// multiplier applied to every simulated-time sleep except the 8 ms
// display-sampling windows, which spec §4.2/§4.3 call out as
// "independent of slow-motion scaling".
func (c Config) Scale(d time.Duration) time.Duration {
	return d * time.Duration(c.SlowMotion)
}
