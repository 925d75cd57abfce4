package pac

import "fr2x5x-go/regs"

// Clock system register offsets.
const (
	CSCTL0 uintptr = 0x00
	CSCTL1 uintptr = 0x02
	CSCTL2 uintptr = 0x04
	CSCTL3 uintptr = 0x06
	CSCTL4 uintptr = 0x08
	CSCTL5 uintptr = 0x0A
	CSCTL6 uintptr = 0x0C
	CSCTL7 uintptr = 0x0E
	CSCTL8 uintptr = 0x10
)

// CSCTL1
const (
	DCORSEL_SHIFT        = 1
	DCORSEL_MASK  uint16 = 0x7 << DCORSEL_SHIFT
)

// CSCTL2
const (
	FLLN_MASK  uint16 = 0x3FF
	FLLD_SHIFT        = 12
	FLLD_MASK  uint16 = 0x7 << FLLD_SHIFT
)

// CSCTL3
const (
	SELREF_SHIFT        = 4
	SELREF_MASK  uint16 = 0x3 << SELREF_SHIFT
	SELREF_XT1   uint16 = 0 << SELREF_SHIFT
	SELREF_REFO  uint16 = 1 << SELREF_SHIFT
)

// CSCTL4
const (
	SELMS_MASK uint16 = 0x7
	SELMS_DCO  uint16 = 0
	SELMS_REFO uint16 = 1
	SELMS_XT1  uint16 = 2
	SELMS_VLO  uint16 = 3

	SELA_SHIFT        = 8
	SELA_MASK  uint16 = 0x3 << SELA_SHIFT
	SELA_XT1   uint16 = 0 << SELA_SHIFT
	SELA_REFO  uint16 = 1 << SELA_SHIFT
	SELA_VLO   uint16 = 2 << SELA_SHIFT
)

// CSCTL5
const (
	DIVM_MASK  uint16 = 0x7
	DIVS_SHIFT        = 4
	DIVS_MASK  uint16 = 0x3 << DIVS_SHIFT
	SMCLKOFF   uint16 = 1 << 8
	VLOAUTOOFF uint16 = 1 << 12
)

// CSCTL6
const (
	XT1AUTOOFF     uint16 = 1 << 0
	XT1BYPASS      uint16 = 1 << 4
	XTS            uint16 = 1 << 5
	XT1DRIVE_SHIFT        = 6
	XT1DRIVE_MASK  uint16 = 0x3 << XT1DRIVE_SHIFT
)

// CSCTL7
const (
	DCOFFG    uint16 = 1 << 0
	XT1OFFG   uint16 = 1 << 1
	FLLUNLOCK uint16 = 0x3 << 8
)

// CS is the clock system block. It keeps the SFR for the oscillator fault
// summary flag.
type CS struct {
	Block
	SFR *SFR
}

// CTL returns CSCTLn.
func (c *CS) CTL(n int) regs.Reg16 { return c.R16(uintptr(2 * n)) }
