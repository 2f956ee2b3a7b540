//go:build !race

package fifo

// RaceEnabled is false when the race detector is not active.
const RaceEnabled = false
