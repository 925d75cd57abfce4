// Package pac is the peripheral access layer for the MSP430FR2355 register
// map: block base addresses, register offsets and bit fields, and the
// ownership rules for register blocks.
//
// Each peripheral's registers are one Block. Take hands out the blocks once
// per register bus; drivers then Claim the block they configure so that two
// drivers can never drive the same peripheral.
package pac

import (
	"sync"

	"fr2x5x-go/errcode"
	"fr2x5x-go/regs"
)

// Block is one peripheral's register group.
type Block struct {
	name  string
	base  uintptr
	bus   regs.Bus
	owner string
}

func newBlock(bus regs.Bus, name string, base uintptr) Block {
	return Block{name: name, base: base, bus: bus}
}

func (b *Block) Name() string  { return b.name }
func (b *Block) Base() uintptr { return b.base }
func (b *Block) Bus() regs.Bus { return b.bus }
func (b *Block) Owner() string { return b.owner }
func (b *Block) Claimed() bool { return b.owner != "" }

// R8 and R16 address a register by offset from the block base.
func (b *Block) R8(off uintptr) regs.Reg8   { return regs.At8(b.bus, b.base+off) }
func (b *Block) R16(off uintptr) regs.Reg16 { return regs.At16(b.bus, b.base+off) }

// Claim records owner as the sole user of the block.
func (b *Block) Claim(owner string) error {
	if owner == "" {
		owner = "anonymous"
	}
	if b.owner != "" {
		return errcode.New(errcode.PeripheralInUse, "pac.Claim", b.name+" owned by "+b.owner)
	}
	b.owner = owner
	return nil
}

// Peripherals is the full set of register blocks of one chip.
type Peripherals struct {
	SFR   *SFR
	PMM   *PMM
	CS    *CS
	FRCTL *FRCTL
	CRC   *CRC
	WDT   *WDT

	P1, P2, P3, P4, P5, P6 *Port

	TB0, TB1, TB2, TB3 *TimerB

	UCA0, UCA1, UCB0, UCB1 *EUSCI

	ADC *ADC
}

var (
	takeMu sync.Mutex
	taken  = map[regs.Bus]bool{}
)

// Take returns the register blocks behind bus. It succeeds once per bus.
func Take(bus regs.Bus) (*Peripherals, error) {
	takeMu.Lock()
	defer takeMu.Unlock()
	if taken[bus] {
		return nil, errcode.New(errcode.PeripheralInUse, "pac.Take", "peripherals already taken")
	}
	taken[bus] = true
	return build(bus), nil
}

func build(bus regs.Bus) *Peripherals {
	sfr := &SFR{Block: newBlock(bus, "SFR", BaseSFR)}
	return &Peripherals{
		SFR:   sfr,
		PMM:   &PMM{Block: newBlock(bus, "PMM", BasePMM)},
		CS:    &CS{Block: newBlock(bus, "CS", BaseCS), SFR: sfr},
		FRCTL: &FRCTL{Block: newBlock(bus, "FRCTL", BaseFRCTL)},
		CRC:   &CRC{Block: newBlock(bus, "CRC", BaseCRC)},
		WDT:   &WDT{Block: newBlock(bus, "WDT", BaseWDT), SFR: sfr},

		P1: newPort(bus, 1),
		P2: newPort(bus, 2),
		P3: newPort(bus, 3),
		P4: newPort(bus, 4),
		P5: newPort(bus, 5),
		P6: newPort(bus, 6),

		TB0: newTimerB(bus, 0),
		TB1: newTimerB(bus, 1),
		TB2: newTimerB(bus, 2),
		TB3: newTimerB(bus, 3),

		UCA0: newEUSCI(bus, UCA0),
		UCA1: newEUSCI(bus, UCA1),
		UCB0: newEUSCI(bus, UCB0),
		UCB1: newEUSCI(bus, UCB1),

		ADC: &ADC{Block: newBlock(bus, "ADC", BaseADC)},
	}
}
