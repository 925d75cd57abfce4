// Package clock configures the FR2x5x clock system.
//
// A Config accumulates source and divider choices for MCLK, SMCLK and ACLK.
// Plan validates them as often as needed without touching hardware; Freeze
// validates once more, commits the registers and returns the immutable
// Clocks every peripheral driver is built from, plus a Delay calibrated to
// MCLK.
//
//	clk, delay, err := clock.New(p.CS, cpu.Native).
//		Main(clock.DCO(clock.DCO8MHz), clock.Div1).
//		Subsystem(clock.FromMain(), clock.Div2).
//		Auxiliary(clock.REFO(), clock.Div1).
//		Freeze(fr)
package clock

import (
	"fr2x5x-go/cpu"
	"fr2x5x-go/errcode"
	"fr2x5x-go/pac"
)

// hardware is shared by every Config derived from one New call, so that
// only one of them can ever be frozen.
type hardware struct {
	cs       *pac.CS
	core     cpu.Core
	claimErr error
	frozen   bool
}

// Config is the clock builder. Methods return an updated copy.
type Config struct {
	hw  *hardware
	sel Selection
}

// New starts a builder over the clock system block. The block is claimed
// here; a claim failure is reported by Freeze.
//
// The initial selection is the reset state: MCLK from the DCO at 1 MHz,
// SMCLK from MCLK, ACLK from REFO, all undivided.
func New(cs *pac.CS, core cpu.Core) Config {
	hw := &hardware{cs: cs, core: core}
	if cs == nil || core == nil {
		hw.claimErr = errcode.New(errcode.InvalidParams, "clock.New", "nil clock block or core")
	} else {
		hw.claimErr = cs.Claim("clock")
	}
	return Config{hw: hw, sel: Selection{
		Main:      {Source: DCO(DCO1MHz), Divider: Div1},
		Subsystem: {Source: FromMain(), Divider: Div1},
		Auxiliary: {Source: REFO(), Divider: Div1},
	}}
}

// Main selects the MCLK source and divider.
func (c Config) Main(src Source, div Divider) Config {
	c.sel[Main] = BusSelection{Source: src, Divider: div}
	return c
}

// Subsystem selects the SMCLK source and divider. On this family SMCLK can
// only be derived from MCLK, so src must be FromMain.
func (c Config) Subsystem(src Source, div Divider) Config {
	c.sel[Subsystem] = BusSelection{Source: src, Divider: div}
	return c
}

// SubsystemOff disables SMCLK.
func (c Config) SubsystemOff() Config {
	c.sel[Subsystem] = BusSelection{Off: true, Divider: Div1}
	return c
}

// Auxiliary selects the ACLK source: REFO, VLO or XT1.
func (c Config) Auxiliary(src Source, div Divider) Config {
	c.sel[Auxiliary] = BusSelection{Source: src, Divider: div}
	return c
}

// Selection returns the accumulated choices.
func (c Config) Selection() Selection { return c.sel }

// Plan validates the selection against what the FR2355 can route and rate.
func (c Config) Plan() (Plan, error) {
	const op = "clock.Plan"
	switch c.sel[Main].Source.kind {
	case KindREFO, KindVLO, KindXT1, KindDCO:
	default:
		return Plan{}, errcode.New(errcode.InvalidSource, op, "MCLK needs REFO, VLO, XT1 or DCO")
	}
	if s := c.sel[Subsystem]; !s.Off && s.Source.kind != KindMain {
		return Plan{}, errcode.New(errcode.InvalidSource, op, "SMCLK can only be derived from MCLK")
	}
	switch c.sel[Auxiliary].Source.kind {
	case KindREFO, KindVLO, KindXT1:
	default:
		return Plan{}, errcode.New(errcode.InvalidSource, op, "ACLK needs REFO, VLO or XT1")
	}
	if c.sel[Auxiliary].Off {
		return Plan{}, errcode.New(errcode.InvalidSource, op, "ACLK cannot be turned off")
	}
	return ComputePlan(c.sel, FR2355)
}
