// Package ramp steps a level towards a target over time, for fades on PWM
// outputs.
package ramp

import (
	"time"

	"fr2x5x-go/x/mathx"
)

// Step applies a new level.
type Step func(level uint16)

// Tick waits for d and reports whether the ramp may go on.
type Tick func(d time.Duration) bool

// Sleeper is a blocking millisecond delay, such as clock.Delay.
type Sleeper interface{ DelayMs(ms uint32) }

// DelayTick makes a Tick that waits on s and never cancels.
func DelayTick(s Sleeper) Tick {
	return func(d time.Duration) bool {
		s.DelayMs(uint32(d / time.Millisecond))
		return true
	}
}

// StartLinear moves a level from cur to `to` (capped at top) in equal
// steps over durationMs, on the caller's goroutine. The level after step i
// is cur + (to-cur)*i/steps, truncated; set only sees changes. A cancelled
// tick leaves the last level applied. Zero steps or duration jumps
// straight to the target.
func StartLinear(cur, to, top uint16, durationMs uint32, steps uint16, tick Tick, set Step) {
	to = mathx.Min(to, top)
	if steps == 0 || durationMs == 0 {
		set(to)
		return
	}
	wait := time.Duration(mathx.Max(durationMs/uint32(steps), 1)) * time.Millisecond
	span := int64(to) - int64(cur)
	last := int64(cur)
	for i := int64(1); i < int64(steps); i++ {
		if !tick(wait) {
			return
		}
		if lvl := int64(cur) + span*i/int64(steps); lvl != last {
			last = lvl
			set(uint16(lvl))
		}
	}
	set(to)
}
