// Package timex converts between clock rates, tick counts and wall time.
package timex

// PeriodFromHz is the clock period in nanoseconds. A stopped clock (0 Hz)
// is treated as 1 Hz.
func PeriodFromHz(freqHz uint32) uint64 {
	return 1_000_000_000 / uint64(max(freqHz, 1))
}

// TicksForMs returns the number of clock ticks at freqHz in ms milliseconds,
// rounded to nearest.
func TicksForMs(freqHz, ms uint32) uint64 {
	return (uint64(freqHz)*uint64(ms) + 500) / 1000
}

// TicksForUs returns the number of clock ticks at freqHz in us microseconds,
// rounded to nearest.
func TicksForUs(freqHz, us uint32) uint64 {
	return (uint64(freqHz)*uint64(us) + 500_000) / 1_000_000
}

// MsFromTicks converts a tick count at freqHz back to whole milliseconds.
func MsFromTicks(freqHz uint32, ticks uint64) uint64 {
	if freqHz == 0 {
		return 0
	}
	return ticks * 1000 / uint64(freqHz)
}
