package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jjawny/parkingsim/internal/config"
)

func discardLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"), discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := config.Defaults()
	if cfg != want {
		t.Fatalf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadClampsOutOfBoundsFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parkingsim.toml")
	body := `
entrances = 9
capacity = 20
chance = 1.5
min_temp = 50
max_temp = 10
slow_motion = 0
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := config.Load(path, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Entrances != config.DefaultEntrances {
		t.Errorf("Entrances = %d, want default %d", cfg.Entrances, config.DefaultEntrances)
	}
	if cfg.Chance != config.DefaultChance {
		t.Errorf("Chance = %v, want default %v", cfg.Chance, config.DefaultChance)
	}
	if cfg.MinTemp != 10 || cfg.MaxTemp != 50 {
		t.Errorf("MinTemp/MaxTemp = %d/%d, want swapped 10/50", cfg.MinTemp, cfg.MaxTemp)
	}
	if cfg.SlowMotion != config.DefaultSlowMotion {
		t.Errorf("SlowMotion = %d, want default %d", cfg.SlowMotion, config.DefaultSlowMotion)
	}
	if cfg.Capacity != 20 {
		t.Errorf("Capacity = %d, want 20 (in-range value preserved)", cfg.Capacity)
	}
}

func TestLoadMalformedFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parkingsim.toml")
	if err := os.WriteFile(path, []byte("not = [valid toml"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := config.Load(path, discardLogger()); err == nil {
		t.Fatal("want error for malformed TOML")
	}
}
