//go:build race

package fifo

// RaceEnabled is true when the race detector is active. No test in this
// module currently consults it.
const RaceEnabled = true
