package pac

import "fr2x5x-go/regs"

// Instance names one eUSCI module.
type Instance uint8

const (
	UCA0 Instance = iota
	UCA1
	UCB0
	UCB1
)

func (i Instance) String() string {
	switch i {
	case UCA0:
		return "eUSCI_A0"
	case UCA1:
		return "eUSCI_A1"
	case UCB0:
		return "eUSCI_B0"
	case UCB1:
		return "eUSCI_B1"
	}
	return "eUSCI_?"
}

// IsB reports whether the instance is a B module (SPI or I2C); A modules
// do UART or SPI.
func (i Instance) IsB() bool { return i >= UCB0 }

func (i Instance) base() uintptr {
	return [...]uintptr{BaseUCA0, BaseUCA1, BaseUCB0, BaseUCB1}[i]
}

// UCxCTLW0 bits shared by SPI and I2C.
const (
	UCSWRST      uint16 = 1 << 0
	UCSTEM       uint16 = 1 << 1
	UCSSEL_SHIFT        = 6
	UCSSEL_MASK  uint16 = 0x3 << UCSSEL_SHIFT
	UCSSEL_UCLK  uint16 = 0 << UCSSEL_SHIFT
	UCSSEL_ACLK  uint16 = 1 << UCSSEL_SHIFT
	UCSSEL_SMCLK uint16 = 2 << UCSSEL_SHIFT
	UCSYNC       uint16 = 1 << 8
	UCMODE_SHIFT        = 9
	UCMODE_MASK  uint16 = 0x3 << UCMODE_SHIFT
	UCMST        uint16 = 1 << 11
	UCMSB        uint16 = 1 << 13
	UCCKPL       uint16 = 1 << 14
	UCCKPH       uint16 = 1 << 15
)

// UCMODE values.
const (
	ModeSPI3  uint16 = 0 << UCMODE_SHIFT
	ModeSPI4H uint16 = 1 << UCMODE_SHIFT // STE active high
	ModeSPI4L uint16 = 2 << UCMODE_SHIFT // STE active low
	ModeI2C   uint16 = 3 << UCMODE_SHIFT
)

// UCBxCTLW0 I2C-only bits.
const (
	UCTXSTT  uint16 = 1 << 1
	UCTXSTP  uint16 = 1 << 2
	UCTXNACK uint16 = 1 << 3
	UCTR     uint16 = 1 << 4
	UCA10    uint16 = 1 << 15
	UCSLA10  uint16 = 1 << 14
	UCMM     uint16 = 1 << 13
)

// UCBxCTLW1
const (
	UCGLIT_MASK  uint16 = 0x3
	UCASTP_SHIFT        = 2
	UCASTP_MASK  uint16 = 0x3 << UCASTP_SHIFT
)

// UCAxCTLW0 UART-only bits. UCMODE 0 with UCSYNC clear is plain UART.
const (
	UCBRKIE uint16 = 1 << 4
	UCRXEIE uint16 = 1 << 5
	UCSPB   uint16 = 1 << 11
	UC7BIT  uint16 = 1 << 12
	UCPAR   uint16 = 1 << 14
	UCPEN   uint16 = 1 << 15
)

// UCAxMCTLW
const (
	UCOS16      uint16 = 1 << 0
	UCBRF_SHIFT        = 4
	UCBRF_MASK  uint16 = 0xF << UCBRF_SHIFT
	UCBRS_SHIFT        = 8
	UCBRS_MASK  uint16 = 0xFF << UCBRS_SHIFT
)

// UCAxSTATW UART error flags. UCOE, UCFE and UCLISTEN are shared below.
const (
	UCRXERR uint16 = 1 << 2
	UCPE    uint16 = 1 << 4
)

// UCxSTATW
const (
	UCBUSY   uint16 = 1 << 0
	UCBBUSY  uint16 = 1 << 4 // I2C bus busy
	UCOE     uint16 = 1 << 5
	UCFE     uint16 = 1 << 6
	UCLISTEN uint16 = 1 << 7
)

// UCxIFG / UCxIE
const (
	UCRXIFG   uint16 = 1 << 0
	UCTXIFG   uint16 = 1 << 1
	UCSTTIFG  uint16 = 1 << 2
	UCSTPIFG  uint16 = 1 << 3
	UCALIFG   uint16 = 1 << 4
	UCNACKIFG uint16 = 1 << 5
	UCBCNTIFG uint16 = 1 << 6

	UCTXCPTIFG uint16 = 1 << 3 // UART, same bit as UCSTPIFG
)

// EUSCI is one eUSCI block. A and B modules place their status and
// interrupt registers differently; the accessors hide the difference.
type EUSCI struct {
	Block
	inst Instance
}

func newEUSCI(bus regs.Bus, i Instance) *EUSCI {
	return &EUSCI{Block: newBlock(bus, i.String(), i.base()), inst: i}
}

func (u *EUSCI) Instance() Instance { return u.inst }

func (u *EUSCI) CTLW0() regs.Reg16 { return u.R16(0x00) }
func (u *EUSCI) CTLW1() regs.Reg16 { return u.R16(0x02) }
func (u *EUSCI) BRW() regs.Reg16   { return u.R16(0x06) }
func (u *EUSCI) RXBUF() regs.Reg16 { return u.R16(0x0C) }
func (u *EUSCI) TXBUF() regs.Reg16 { return u.R16(0x0E) }

func (u *EUSCI) STATW() regs.Reg16 {
	if u.inst.IsB() {
		return u.R16(0x08)
	}
	return u.R16(0x0A)
}

// MCTLW is the UART modulation register of an A module. On a B module the
// same offset is STATW.
func (u *EUSCI) MCTLW() regs.Reg16 { return u.R16(0x08) }

func (u *EUSCI) TBCNT() regs.Reg16  { return u.R16(0x0A) }
func (u *EUSCI) I2COA0() regs.Reg16 { return u.R16(0x14) }
func (u *EUSCI) I2CSA() regs.Reg16  { return u.R16(0x20) }

func (u *EUSCI) IE() regs.Reg16 {
	if u.inst.IsB() {
		return u.R16(0x2A)
	}
	return u.R16(0x1A)
}

func (u *EUSCI) IFG() regs.Reg16 {
	if u.inst.IsB() {
		return u.R16(0x2C)
	}
	return u.R16(0x1C)
}

func (u *EUSCI) IV() regs.Reg16 {
	if u.inst.IsB() {
		return u.R16(0x2E)
	}
	return u.R16(0x1E)
}
