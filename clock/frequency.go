package clock

import (
	"fr2x5x-go/errcode"
	"fr2x5x-go/x/conv"
	"fr2x5x-go/x/mathx"
)

// Bus is one clock distribution line.
type Bus uint8

const (
	Main      Bus = iota // MCLK
	Subsystem            // SMCLK
	Auxiliary            // ACLK
	numBuses
)

func (b Bus) String() string {
	switch b {
	case Main:
		return "MCLK"
	case Subsystem:
		return "SMCLK"
	case Auxiliary:
		return "ACLK"
	}
	return "?"
}

// Divider is a bus clock divider. Valid values are powers of two within
// the bus's range.
type Divider uint8

const (
	Div1   Divider = 1
	Div2   Divider = 2
	Div4   Divider = 4
	Div8   Divider = 8
	Div16  Divider = 16
	Div32  Divider = 32
	Div64  Divider = 64
	Div128 Divider = 128
)

// BusLimits bounds one bus.
type BusLimits struct {
	MaxHz  uint32
	MaxDiv Divider
}

// Limits is indexed by Bus.
type Limits [numBuses]BusLimits

// FR2355 is the rated limits table: MCLK and SMCLK up to 24 MHz, ACLK up to
// 40 kHz and undivided.
var FR2355 = Limits{
	Main:      {MaxHz: 24_000_000, MaxDiv: Div128},
	Subsystem: {MaxHz: 24_000_000, MaxDiv: Div8},
	Auxiliary: {MaxHz: 40_000, MaxDiv: Div1},
}

// BusSelection is the choice for one bus. A Source of KindMain inherits
// Main.
type BusSelection struct {
	Source  Source
	Off     bool
	Divider Divider
}

// Selection is indexed by Bus.
type Selection [numBuses]BusSelection

// Plan is the result of the frequency model. It is what Freeze commits.
type Plan struct {
	Hz         [numBuses]uint32
	Sources    [numBuses]Source // KindMain resolved to Main's source
	Dividers   [numBuses]Divider
	Enabled    [numBuses]bool
	FromMain   [numBuses]bool
	WaitStates uint8
}

// WaitStatesFor is the FRAM wait-state count needed at an MCLK of hz.
func WaitStatesFor(hz uint32) uint8 {
	switch {
	case hz > 16_000_000:
		return 2
	case hz > 8_000_000:
		return 1
	}
	return 0
}

// Compute plans all three buses from src, each inheriting Main, against the
// FR2355 limits.
func Compute(src Source, mainDiv, subDiv, auxDiv Divider) (Plan, error) {
	return ComputePlan(Selection{
		Main:      {Source: src, Divider: mainDiv},
		Subsystem: {Source: FromMain(), Divider: subDiv},
		Auxiliary: {Source: FromMain(), Divider: auxDiv},
	}, FR2355)
}

// ComputePlan resolves, divides and checks every bus. Main and inheriting
// buses are fed by Main's source; a Subsystem inheriting Main divides the
// Main bus output, as SMCLK does in hardware. It has no side effects.
func ComputePlan(sel Selection, lim Limits) (Plan, error) {
	const op = "clock.Compute"
	var p Plan
	if sel[Main].Off || sel[Main].Source.kind == KindMain {
		return p, errcode.New(errcode.InvalidSource, op, "MCLK needs an oscillator")
	}
	for b := Main; b < numBuses; b++ {
		s := sel[b]
		if s.Off {
			continue
		}
		if err := s.Source.Validate(); err != nil {
			return p, err
		}
		if !validDivider(s.Divider, lim[b].MaxDiv) {
			return p, errcode.New(errcode.InvalidDivider, op,
				b.String()+" divider "+string(conv.AppendUint(nil, uint64(s.Divider))))
		}

		in := s.Source.Hz()
		p.Sources[b] = s.Source
		if s.Source.kind == KindMain {
			p.FromMain[b] = true
			p.Sources[b] = p.Sources[Main]
			in = p.Sources[Main].Hz()
			if b == Subsystem {
				in = p.Hz[Main]
			}
		}
		hz := in / uint32(s.Divider)
		if hz > lim[b].MaxHz {
			return p, &FrequencyTooHighError{Bus: b, Computed: hz, Max: lim[b].MaxHz}
		}
		p.Hz[b], p.Dividers[b], p.Enabled[b] = hz, s.Divider, true
	}
	if err := checkXT1(p); err != nil {
		return p, err
	}
	p.WaitStates = WaitStatesFor(p.Hz[Main])
	return p, nil
}

func validDivider(d, max Divider) bool {
	return d >= 1 && d <= max && mathx.IsPow2(uint8(d))
}

// checkXT1 enforces the single-crystal rules: every bus on XT1 names the
// same crystal with the same fallback, and at most one bus may use it
// without a fallback.
func checkXT1(p Plan) error {
	const op = "clock.Compute"
	var first *Source
	strict := 0
	for b := Main; b < numBuses; b++ {
		// inherited selections are counted once, on Main
		if !p.Enabled[b] || p.FromMain[b] || p.Sources[b].kind != KindXT1 {
			continue
		}
		s := p.Sources[b]
		if first == nil {
			first = &p.Sources[b]
		} else if s.hz != first.hz || s.loadPF != first.loadPF || s.fallback != first.fallback {
			return errcode.New(errcode.ConflictingSource, op, "buses disagree on XT1 settings")
		}
		if !s.fallback {
			strict++
		}
	}
	if strict > 1 {
		return errcode.New(errcode.ConflictingSource, op, "XT1 without fallback on more than one bus")
	}
	return nil
}
