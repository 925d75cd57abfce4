package pac

import "fr2x5x-go/regs"

// ADCCTL0
const (
	ADCSC        uint16 = 1 << 0
	ADCENC       uint16 = 1 << 1
	ADCON        uint16 = 1 << 4
	ADCSHT_SHIFT        = 8
	ADCSHT_MASK  uint16 = 0xF << ADCSHT_SHIFT
)

// ADCCTL1
const (
	ADCBUSY       uint16 = 1 << 0
	ADCSSEL_SHIFT        = 3
	ADCSSEL_MASK  uint16 = 0x3 << ADCSSEL_SHIFT
	ADCDIV_SHIFT         = 5
	ADCDIV_MASK   uint16 = 0x7 << ADCDIV_SHIFT
	ADCSHP        uint16 = 1 << 9
)

// ADCCTL2
const (
	ADCSR         uint16 = 1 << 2
	ADCRES_SHIFT         = 4
	ADCRES_MASK   uint16 = 0x3 << ADCRES_SHIFT
	ADCPDIV_SHIFT        = 8
	ADCPDIV_MASK  uint16 = 0x3 << ADCPDIV_SHIFT
)

// ADCMCTL0
const (
	ADCINCH_MASK  uint16 = 0xF
	ADCSREF_SHIFT        = 4
	ADCSREF_MASK  uint16 = 0x7 << ADCSREF_SHIFT
)

// ADCIFG
const ADCIFG0 uint16 = 1 << 0

type ADC struct{ Block }

func (a *ADC) CTL0() regs.Reg16  { return a.R16(0x00) }
func (a *ADC) CTL1() regs.Reg16  { return a.R16(0x02) }
func (a *ADC) CTL2() regs.Reg16  { return a.R16(0x04) }
func (a *ADC) MCTL0() regs.Reg16 { return a.R16(0x0A) }
func (a *ADC) MEM0() regs.Reg16  { return a.R16(0x12) }
func (a *ADC) IE() regs.Reg16    { return a.R16(0x1A) }
func (a *ADC) IFG() regs.Reg16   { return a.R16(0x1C) }
