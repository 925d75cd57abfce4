package clock

import (
	"fr2x5x-go/cpu"
	"fr2x5x-go/x/timex"
)

// Clocks is the committed clock tree. Only Freeze makes one, and nothing
// changes it afterwards. Drivers read it while they are being constructed.
type Clocks struct {
	plan     Plan
	fallback bool
	core     cpu.Core
}

func (c *Clocks) MainHz() uint32      { return c.plan.Hz[Main] }
func (c *Clocks) SubsystemHz() uint32 { return c.plan.Hz[Subsystem] }
func (c *Clocks) AuxiliaryHz() uint32 { return c.plan.Hz[Auxiliary] }

// BusHz returns the frequency of b, 0 if the bus is off.
func (c *Clocks) BusHz(b Bus) uint32 {
	if b >= numBuses {
		return 0
	}
	return c.plan.Hz[b]
}

// Enabled reports whether b is running.
func (c *Clocks) Enabled(b Bus) bool { return b < numBuses && c.plan.Enabled[b] }

// Source returns the oscillator that ended up feeding b. After a fallback
// this is REFO, not the requested crystal.
func (c *Clocks) Source(b Bus) Source {
	if b >= numBuses {
		return Source{}
	}
	return c.plan.Sources[b]
}

// Divider returns the divider applied on b.
func (c *Clocks) Divider(b Bus) Divider {
	if b >= numBuses {
		return 0
	}
	return c.plan.Dividers[b]
}

// WaitStates is the FRAM wait-state count left configured.
func (c *Clocks) WaitStates() uint8 { return c.plan.WaitStates }

// FallbackOccurred reports that XT1 failed to start and REFO replaced it.
func (c *Clocks) FallbackOccurred() bool { return c.fallback }

// Period returns the period of b in nanoseconds.
func (c *Clocks) Period(b Bus) uint64 { return timex.PeriodFromHz(c.BusHz(b)) }

// Core is the CPU the tree was committed from, for drivers that pace
// themselves with NOPs.
func (c *Clocks) Core() cpu.Core { return c.core }
