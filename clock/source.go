package clock

import (
	"fr2x5x-go/errcode"
	"fr2x5x-go/x/conv"
)

// Nominal frequencies of the internal references.
const (
	REFOHz = 32768
	VLOHz  = 10000
)

// Kind identifies a clock source.
type Kind uint8

const (
	KindREFO Kind = iota
	KindVLO
	KindXT1
	KindDCO
	// KindMain is not an oscillator: the bus inherits Main.
	KindMain
)

func (k Kind) String() string {
	switch k {
	case KindREFO:
		return "REFO"
	case KindVLO:
		return "VLO"
	case KindXT1:
		return "XT1"
	case KindDCO:
		return "DCO"
	case KindMain:
		return "MCLK"
	}
	return "?"
}

// Source is a clock source choice. The zero value is REFO.
type Source struct {
	kind     Kind
	hz       uint32
	loadPF   uint8
	fallback bool
	dcorsel  uint8
	mult     uint16
}

// DCOFreq names the FLL presets.
type DCOFreq uint8

const (
	DCO1MHz DCOFreq = iota
	DCO2MHz
	DCO4MHz
	DCO8MHz
	DCO12MHz
	DCO16MHz
	DCO20MHz
	DCO24MHz
)

// FLL multipliers for the presets, DCOCLKDIV = mult * 32768 Hz.
var dcoMult = [...]uint16{32, 61, 122, 245, 366, 490, 610, 732}

// XT1 low-frequency mode limits.
const (
	xt1MinHz  = 10_000
	xt1MaxHz  = 50_000
	maxLoadPF = 20
	maxFLLN   = 1024
)

func REFO() Source { return Source{kind: KindREFO} }
func VLO() Source  { return Source{kind: KindVLO} }

// FromMain makes a bus inherit the Main clock.
func FromMain() Source { return Source{kind: KindMain} }

// XT1 is an external low-frequency crystal of hz with loadPF of effective
// load capacitance, which sets the oscillator drive.
func XT1(hz uint32, loadPF uint8) Source {
	return Source{kind: KindXT1, hz: hz, loadPF: loadPF}
}

// DCO runs the DCO under the FLL at a preset frequency.
func DCO(f DCOFreq) Source {
	if int(f) >= len(dcoMult) {
		return Source{kind: KindDCO, dcorsel: uint8(f)}
	}
	return Source{kind: KindDCO, dcorsel: uint8(f), mult: dcoMult[f]}
}

// DCOCustom runs the DCO in range rsel (DCORSEL 0..7) with FLL multiplier
// mult, giving mult * 32768 Hz.
func DCOCustom(rsel uint8, mult uint16) Source {
	return Source{kind: KindDCO, dcorsel: rsel, mult: mult}
}

// WithFallback lets Freeze fall back to REFO if the crystal does not start.
// Only XT1 uses it.
func (s Source) WithFallback() Source {
	s.fallback = true
	return s
}

func (s Source) Kind() Kind     { return s.kind }
func (s Source) Fallback() bool { return s.fallback }
func (s Source) LoadPF() uint8  { return s.loadPF }

// Hz is the nominal source frequency. KindMain reports 0.
func (s Source) Hz() uint32 {
	switch s.kind {
	case KindREFO:
		return REFOHz
	case KindVLO:
		return VLOHz
	case KindXT1:
		return s.hz
	case KindDCO:
		return uint32(s.mult) * REFOHz
	}
	return 0
}

// Validate checks the source on its own, without regard to bus limits.
func (s Source) Validate() error {
	const op = "clock.Source"
	switch s.kind {
	case KindREFO, KindVLO, KindMain:
		return nil
	case KindXT1:
		if s.loadPF == 0 || s.loadPF > maxLoadPF {
			return errcode.New(errcode.InvalidSource, op, "XT1 load capacitance unknown or above 20pF")
		}
		if s.hz < xt1MinHz || s.hz > xt1MaxHz {
			return errcode.New(errcode.InvalidSource, op, "XT1 "+conv.Hz(s.hz)+" outside low-frequency mode")
		}
		return nil
	case KindDCO:
		if s.dcorsel > 7 {
			return errcode.New(errcode.InvalidSource, op, "DCO range above 7")
		}
		if s.mult == 0 || s.mult > maxFLLN {
			return errcode.New(errcode.InvalidSource, op, "FLL multiplier outside 1..1024")
		}
		return nil
	}
	return errcode.New(errcode.InvalidSource, op, "unknown source")
}

// drive maps load capacitance onto XT1DRIVE.
func (s Source) drive() uint16 {
	switch {
	case s.loadPF <= 6:
		return 0
	case s.loadPF <= 9:
		return 1
	case s.loadPF <= 12:
		return 2
	}
	return 3
}

// String renders the kind and, for DCO and XT1, the frequency.
func (s Source) String() string {
	switch s.kind {
	case KindDCO, KindXT1:
		return s.kind.String() + "(" + conv.Hz(s.Hz()) + ")"
	}
	return s.kind.String()
}
