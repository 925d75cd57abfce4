package clock

import (
	"fr2x5x-go/cpu"
	"fr2x5x-go/errcode"
	"fr2x5x-go/fram"
	"fr2x5x-go/pac"
	"fr2x5x-go/regs"
	"fr2x5x-go/x/conv"
	"fr2x5x-go/x/logx"
	"fr2x5x-go/x/mathx"
)

const (
	// ErratumNops is the number of NOPs issued straight after the clock
	// select and divider registers are written. Touching registers sooner
	// after a clock switch can hang the device.
	ErratumNops = 8

	// XT1StartupPolls bounds the fault-flag polls for a crystal that has a
	// fallback. Each poll is a few MCLK cycles, so this covers well over the
	// worst-case LF crystal start time at reset MCLK.
	XT1StartupPolls = 20_000

	fllSettleNops = 3
)

// Freeze validates the configuration and commits it. On a validation error
// nothing is written. A builder lineage freezes once; later calls return
// errcode.AlreadyFrozen without touching hardware.
//
// Write order: FRAM wait-states up if MCLK needs more, DCO and FLL, XT1
// start-up, CSCTL4 and CSCTL5, ErratumNops NOPs, then wait-states down if
// MCLK needs fewer. While the FLL settles MCLK still runs at the DCO over
// the divider already in CSCTL5, so the raise covers that rate too.
func (c Config) Freeze(fr *fram.Controller) (*Clocks, Delay, error) {
	const op = "clock.Freeze"
	hw := c.hw
	if hw == nil {
		return nil, Delay{}, errcode.New(errcode.InvalidParams, op, "builder not made by New")
	}
	if hw.claimErr != nil {
		return nil, Delay{}, hw.claimErr
	}
	if hw.frozen {
		return nil, Delay{}, errcode.New(errcode.AlreadyFrozen, op, "clock system already committed")
	}
	if fr == nil {
		return nil, Delay{}, errcode.New(errcode.InvalidParams, op, "nil FRAM controller")
	}
	plan, err := c.Plan()
	if err != nil {
		return nil, Delay{}, err
	}
	hw.frozen = true

	cs := hw.cs
	peak := plan.WaitStates
	if plan.Sources[Main].kind == KindDCO {
		peak = max(peak, WaitStatesFor(settleHz(cs, plan.Sources[Main])))
	}
	if peak > fr.WaitStates() {
		_ = fr.SetWaitStates(peak)
	}

	if plan.Sources[Main].kind == KindDCO {
		startFLL(cs, hw.core, plan.Sources[Main])
	}

	fallback := false
	if xt, ok := xt1In(plan); ok {
		if !startXT1(cs, xt) {
			fallback = true
			plan = fallBack(plan)
		}
	}

	cs.CTL(4).Set(selMS(plan.Sources[Main]) | selA(plan.Sources[Auxiliary]))
	cs.CTL(5).Set(ctl5(plan))
	cpu.Nops(hw.core, ErratumNops)

	if plan.WaitStates < fr.WaitStates() {
		_ = fr.SetWaitStates(plan.WaitStates)
	}

	l := logx.L()
	if fallback {
		l.Warn("clock: XT1 failed to start, using REFO")
	}
	l.Debug("clock: frozen",
		"mclk", conv.Hz(plan.Hz[Main]),
		"smclk", conv.Hz(plan.Hz[Subsystem]),
		"aclk", conv.Hz(plan.Hz[Auxiliary]),
		"src", plan.Sources[Main].String(),
		"nwaits", plan.WaitStates)

	clk := &Clocks{plan: plan, fallback: fallback, core: hw.core}
	return clk, NewDelay(clk), nil
}

// startFLL runs the user's guide FLL sequence with REFO as reference.
func startFLL(cs *pac.CS, core cpu.Core, dco Source) {
	core.SetSR(cpu.SCG0)
	cs.CTL(3).Set(pac.SELREF_REFO)
	cs.CTL(0).Set(0)
	cs.CTL(1).Set(uint16(dco.dcorsel) << pac.DCORSEL_SHIFT)
	cs.CTL(2).Set(1<<pac.FLLD_SHIFT | (dco.mult-1)&pac.FLLN_MASK)
	cpu.Nops(core, fllSettleNops)
	core.ClearSR(cpu.SCG0)
	for cs.CTL(7).Get()&pac.FLLUNLOCK != 0 {
	}
}

// settleHz is MCLK between starting the FLL and the CSCTL5 commit.
func settleHz(cs *pac.CS, dco Source) uint32 {
	return dco.Hz() >> (cs.CTL(5).Get() & pac.DIVM_MASK)
}

func xt1In(p Plan) (Source, bool) {
	for b := Main; b < numBuses; b++ {
		if p.Enabled[b] && p.Sources[b].kind == KindXT1 {
			return p.Sources[b], true
		}
	}
	return Source{}, false
}

// startXT1 forces XT1 on and clears the fault flags until they stay clear.
// With a fallback the wait is bounded and false means the crystal did not
// start. Without one, Plan has already limited XT1 to a single bus and the
// wait is unbounded.
func startXT1(cs *pac.CS, xt Source) bool {
	ctl6 := cs.CTL(6)
	ctl6.Set(xt.drive() << pac.XT1DRIVE_SHIFT)
	ifg := cs.SFR.IFG()
	ok := pollXT1(cs.CTL(7), ifg, xt.fallback)
	ctl6.SetBits(pac.XT1AUTOOFF)
	return ok
}

func pollXT1(ctl7, ifg regs.Reg16, bounded bool) bool {
	for i := 0; !bounded || i < XT1StartupPolls; i++ {
		ctl7.ClearBits(pac.XT1OFFG | pac.DCOFFG)
		ifg.ClearBits(pac.OFIFG)
		if ifg.Get()&pac.OFIFG == 0 {
			return true
		}
	}
	return false
}

// fallBack moves every XT1 bus onto REFO and recomputes the rates.
func fallBack(p Plan) Plan {
	for b := Main; b < numBuses; b++ {
		if p.Enabled[b] && p.Sources[b].kind == KindXT1 {
			p.Sources[b] = REFO()
		}
	}
	p.Hz[Main] = p.Sources[Main].Hz() / uint32(p.Dividers[Main])
	if p.Enabled[Subsystem] {
		p.Hz[Subsystem] = p.Hz[Main] / uint32(p.Dividers[Subsystem])
	}
	p.Hz[Auxiliary] = p.Sources[Auxiliary].Hz() / uint32(p.Dividers[Auxiliary])
	p.WaitStates = WaitStatesFor(p.Hz[Main])
	return p
}

func selMS(s Source) uint16 {
	switch s.kind {
	case KindREFO:
		return pac.SELMS_REFO
	case KindVLO:
		return pac.SELMS_VLO
	case KindXT1:
		return pac.SELMS_XT1
	}
	return pac.SELMS_DCO
}

func selA(s Source) uint16 {
	switch s.kind {
	case KindVLO:
		return pac.SELA_VLO
	case KindXT1:
		return pac.SELA_XT1
	}
	return pac.SELA_REFO
}

func ctl5(p Plan) uint16 {
	v := pac.VLOAUTOOFF | uint16(mathx.Log2(uint8(p.Dividers[Main])))&pac.DIVM_MASK
	if p.Enabled[Subsystem] {
		v |= uint16(mathx.Log2(uint8(p.Dividers[Subsystem]))) << pac.DIVS_SHIFT
	} else {
		v |= pac.SMCLKOFF
	}
	return v
}
