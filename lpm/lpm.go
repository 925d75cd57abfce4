// Package lpm enters the low-power modes.
//
// LPM0 stops the CPU and MCLK. LPM3 also stops the FLL and every clock but
// ACLK, and LPM4 stops ACLK too. The hardware falls back to a shallower
// mode while a peripheral still requests a stopped clock: LPM3 becomes LPM0
// while anything uses SMCLK, and LPM4 becomes LPM3 while anything uses
// ACLK. Hence Request rather than Enter for the two deeper modes.
//
// LPM3.5 and LPM4.5 switch the core regulator off. RAM and register state
// are lost, pins keep their levels, and wake-up is a reset. On the chip
// those entries do not return.
package lpm

import (
	"fr2x5x-go/cpu"
	"fr2x5x-go/pac"
	"fr2x5x-go/pmm"
	"fr2x5x-go/x/logx"
)

const (
	lpm0  = cpu.CPUOFF
	lpm3  = cpu.SCG1 | cpu.SCG0 | cpu.CPUOFF
	lpm4  = cpu.SCG1 | cpu.SCG0 | cpu.OSCOFF | cpu.CPUOFF
	lpmx5 = lpm4
)

// EnterLPM0 stops the CPU until an interrupt handler clears CPUOFF on exit.
func EnterLPM0(c cpu.Core) { c.SetSR(lpm0) }

// RequestLPM3 enters LPM3, or LPM0 while SMCLK is in use.
func RequestLPM3(c cpu.Core) { c.SetSR(lpm3) }

// RequestLPM4 enters LPM4, or a shallower mode while SMCLK or ACLK is in
// use.
func RequestLPM4(c cpu.Core) { c.SetSR(lpm4) }

// Holder stops the watchdog counter; both watchdog modes provide it.
type Holder interface{ Hold() }

// SVS selects whether the high-side supply supervisor stays on in LPMx.5.
type SVS bool

const (
	SVSOff SVS = false
	SVSOn  SVS = true
)

// xtPins are XIN and XOUT on P2.6 and P2.7.
const xtPins uint8 = 1<<6 | 1<<7

// EnterLPM35 enters LPM3.5. XT1 keeps its pins when it is running so the
// crystal can clock a wake-up source; every other pin goes back to GPIO.
func EnterLPM35(p *pac.Peripherals, c cpu.Core, pm *pmm.PMM, wdt Holder, svs SVS) {
	keep := uint8(0)
	if p.P2.SEL1().Get()&xtPins == xtPins && p.P2.SEL0().Get()&xtPins == 0 {
		keep = xtPins
	}
	p.P2.SEL0().Set(p.P2.SEL0().Get() & keep)
	p.P2.SEL1().Set(p.P2.SEL1().Get() & keep)
	enter(p, c, pm, wdt, svs, "LPM3.5")
}

// EnterLPM45 enters LPM4.5, releasing the XT1 pins as well. Only a pin
// interrupt, the reset pin or a power cycle wakes the chip.
func EnterLPM45(p *pac.Peripherals, c cpu.Core, pm *pmm.PMM, wdt Holder, svs SVS) {
	p.P2.SEL0().Set(0)
	p.P2.SEL1().Set(0)
	enter(p, c, pm, wdt, svs, "LPM4.5")
}

func enter(p *pac.Peripherals, c cpu.Core, pm *pmm.PMM, wdt Holder, svs SVS, mode string) {
	logx.L().Debug("lpm: entering", "mode", mode, "svs", bool(svs))
	wdt.Hold()
	for _, port := range []*pac.Port{p.P1, p.P3, p.P4, p.P5, p.P6} {
		port.SEL0().Set(0)
		port.SEL1().Set(0)
	}
	c.ClearSR(cpu.GIE)
	pm.RegulatorOff(bool(svs))
	c.SetSR(lpmx5 | cpu.GIE)
}
