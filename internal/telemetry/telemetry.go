// Package telemetry builds the zerolog.Logger shared by all three
// process binaries (SPEC_FULL.md §1.1), matching the console/JSON
// dual-mode setup the example pack's logiface-zerolog adapter wires
// around github.com/rs/zerolog.
package telemetry

import (
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Process names a binary for the "process" log field.
type Process string

const (
	ProcessSimulator     Process = "simulator"
	ProcessController    Process = "controller"
	ProcessSafetyMonitor Process = "safetymonitor"
)

// New builds a logger tagged with process name, pid, and start time.
// When stderr is a terminal, output goes through zerolog.ConsoleWriter
// (wrapped in mattn/go-colorable so ANSI colour survives on all
// platforms); otherwise it falls back to plain JSON lines, which is the
// shape a log aggregator or CI capture expects.
func New(proc Process) zerolog.Logger {
	var w zerolog.LevelWriter
	stderrFd := os.Stderr.Fd()
	if isatty.IsTerminal(stderrFd) || isatty.IsCygwinTerminal(stderrFd) {
		cw := zerolog.ConsoleWriter{Out: colorable.NewColorable(os.Stderr), TimeFormat: time.RFC3339}
		w = zerolog.MultiLevelWriter(cw)
	} else {
		w = zerolog.MultiLevelWriter(os.Stderr)
	}

	return zerolog.New(w).
		With().
		Timestamp().
		Str("process", string(proc)).
		Int("pid", os.Getpid()).
		Time("run_started_at", time.Now()).
		Logger()
}
