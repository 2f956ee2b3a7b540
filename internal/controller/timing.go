package controller

import "time"

// sleepMillis sleeps ms milliseconds through scale (typically
// Config.Scale), the slow-motion multiplier applied to every simulated
// hardware delay (spec §6).
func sleepMillis(scale func(time.Duration) time.Duration, ms int) {
	time.Sleep(scale(time.Duration(ms) * time.Millisecond))
}
