package pac

import "fr2x5x-go/regs"

// Port register offsets, relative to the port's own base. Odd ports sit one
// byte above their even partner.
const (
	PxIN   uintptr = 0x00
	PxOUT  uintptr = 0x02
	PxDIR  uintptr = 0x04
	PxREN  uintptr = 0x06
	PxSEL0 uintptr = 0x0A
	PxSEL1 uintptr = 0x0C
	PxSELC uintptr = 0x16
	PxIES  uintptr = 0x18
	PxIE   uintptr = 0x1A
	PxIFG  uintptr = 0x1C
)

// Port is one 8-bit GPIO port.
type Port struct {
	Block
	num  uint8
	iv   uintptr
	pins uint8
}

func newPort(bus regs.Bus, n uint8) *Port {
	var pair uintptr
	switch (n + 1) / 2 {
	case 1:
		pair = BasePA
	case 2:
		pair = BasePB
	default:
		pair = BasePC
	}
	base, iv := pair, pair+0x0E
	if n%2 == 0 {
		base, iv = pair+1, pair+0x1E
	}
	pins := uint8(8)
	switch n {
	case 5:
		pins = 5
	case 6:
		pins = 7
	}
	return &Port{
		Block: newBlock(bus, "P"+string(rune('0'+n)), base),
		num:   n,
		iv:    iv,
		pins:  pins,
	}
}

// Num is the port number, 1 to 6.
func (p *Port) Num() uint8 { return p.num }

// Pins is the number of bonded pins (P5 has 5, P6 has 7).
func (p *Port) Pins() uint8 { return p.pins }

// HasInterrupts reports whether the port has edge interrupt registers.
func (p *Port) HasInterrupts() bool { return p.num <= 4 }

func (p *Port) IN() regs.Reg8   { return p.R8(PxIN) }
func (p *Port) OUT() regs.Reg8  { return p.R8(PxOUT) }
func (p *Port) DIR() regs.Reg8  { return p.R8(PxDIR) }
func (p *Port) REN() regs.Reg8  { return p.R8(PxREN) }
func (p *Port) SEL0() regs.Reg8 { return p.R8(PxSEL0) }
func (p *Port) SEL1() regs.Reg8 { return p.R8(PxSEL1) }
func (p *Port) SELC() regs.Reg8 { return p.R8(PxSELC) }
func (p *Port) IES() regs.Reg8  { return p.R8(PxIES) }
func (p *Port) IE() regs.Reg8   { return p.R8(PxIE) }
func (p *Port) IFG() regs.Reg8  { return p.R8(PxIFG) }

// IV is the port interrupt vector register. Reading it clears the highest
// pending flag.
func (p *Port) IV() regs.Reg16 { return regs.At16(p.bus, p.iv) }
