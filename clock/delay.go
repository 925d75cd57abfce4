package clock

import "fr2x5x-go/cpu"

// loopCycles is the MCLK cost of one busy-wait iteration: the NOP plus the
// loop decrement and branch.
const loopCycles = 5

// Delay busy-waits on MCLK. It is a value; copies are independent and it
// holds no state beyond the precomputed rate.
type Delay struct {
	perMsQ16 uint64 // iterations per millisecond, Q16.16
	core     cpu.Core
}

// NewDelay calibrates a busy-wait to the frozen MCLK. Fixed point keeps the
// count exact for clocks far below 1 MHz; for sub-megahertz MCLK the
// ACLK timer delay in package timer gives better resolution.
func NewDelay(c *Clocks) Delay {
	return Delay{
		perMsQ16: (uint64(c.MainHz()) << 16) / (1000 * loopCycles),
		core:     c.core,
	}
}

// LoopsPerMs is the whole number of iterations in one millisecond.
func (d Delay) LoopsPerMs() uint32 { return uint32(d.perMsQ16 >> 16) }

// DelayMs waits for ms milliseconds.
func (d Delay) DelayMs(ms uint32) { d.spin((uint64(ms) * d.perMsQ16) >> 16) }

// DelayUs waits for us microseconds.
func (d Delay) DelayUs(us uint32) { d.spin((uint64(us) * d.perMsQ16 / 1000) >> 16) }

func (d Delay) spin(n uint64) {
	if d.core == nil {
		return
	}
	for ; n > 0; n-- {
		d.core.Nop()
	}
}
