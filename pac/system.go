package pac

import "fr2x5x-go/regs"

// Block base addresses.
const (
	BaseSFR   uintptr = 0x0100
	BasePMM   uintptr = 0x0120
	BaseCS    uintptr = 0x0180
	BaseFRCTL uintptr = 0x01A0
	BaseCRC   uintptr = 0x01C0
	BaseWDT   uintptr = 0x01CC
	BasePA    uintptr = 0x0200 // P1/P2
	BasePB    uintptr = 0x0220 // P3/P4
	BasePC    uintptr = 0x0240 // P5/P6
	BaseTB0   uintptr = 0x0380
	BaseTB1   uintptr = 0x03C0
	BaseTB2   uintptr = 0x0400
	BaseTB3   uintptr = 0x0440
	BaseUCA0  uintptr = 0x0500
	BaseUCA1  uintptr = 0x0520
	BaseUCB0  uintptr = 0x0540
	BaseUCB1  uintptr = 0x0580
	BaseADC   uintptr = 0x0700
)

// ---- SFR ----

const (
	SFRIE1  uintptr = 0x00
	SFRIFG1 uintptr = 0x02

	WDTIE  uint16 = 1 << 0 // SFRIE1
	WDTIFG uint16 = 1 << 0
	OFIFG  uint16 = 1 << 1
)

// SFR holds the shared interrupt enable and flag registers. Bits in it are
// only ever changed by read-modify-write, so it is never claimed.
type SFR struct{ Block }

func (s *SFR) IE() regs.Reg16  { return s.R16(SFRIE1) }
func (s *SFR) IFG() regs.Reg16 { return s.R16(SFRIFG1) }

// ---- PMM ----

const (
	PMMCTL0 uintptr = 0x00
	PMMCTL2 uintptr = 0x04
	PMMIFG  uintptr = 0x0A
	PM5CTL0 uintptr = 0x10

	PMMPW     uint16 = 0xA5 << 8
	PMMSWBOR  uint16 = 1 << 2
	PMMSWPOR  uint16 = 1 << 3
	PMMREGOFF uint16 = 1 << 4
	SVSHE     uint16 = 1 << 6

	// PMMCTL2
	INTREFEN      uint16 = 1 << 0
	TSENSOREN     uint16 = 1 << 3
	REFVSEL_SHIFT        = 4 // 0: 1.5 V, 1: 2.0 V, 2: 2.5 V
	REFGENRDY     uint16 = 1 << 12
	REFBGRDY      uint16 = 1 << 13

	LOCKLPM5 uint16 = 1 << 0 // PM5CTL0
)

type PMM struct{ Block }

func (p *PMM) CTL0() regs.Reg16 { return p.R16(PMMCTL0) }
func (p *PMM) CTL2() regs.Reg16 { return p.R16(PMMCTL2) }
func (p *PMM) PM5() regs.Reg16  { return p.R16(PM5CTL0) }

// ---- FRAM controller ----

const (
	FRCTL0 uintptr = 0x00
	GCCTL0 uintptr = 0x04
	GCCTL1 uintptr = 0x06

	FRCTLPW      uint16 = 0xA5 << 8
	NWAITS_SHIFT        = 4
	NWAITS_MASK  uint16 = 0x7 << NWAITS_SHIFT
)

type FRCTL struct{ Block }

func (f *FRCTL) CTL0() regs.Reg16 { return f.R16(FRCTL0) }

// ---- CRC ----

const (
	CRCDI     uintptr = 0x00
	CRCDIRB   uintptr = 0x02
	CRCINIRES uintptr = 0x04
	CRCRESR   uintptr = 0x06
)

type CRC struct{ Block }

func (c *CRC) DI() regs.Reg16     { return c.R16(CRCDI) }
func (c *CRC) DIRB() regs.Reg16   { return c.R16(CRCDIRB) }
func (c *CRC) INIRES() regs.Reg16 { return c.R16(CRCINIRES) }
func (c *CRC) RESR() regs.Reg16   { return c.R16(CRCRESR) }

// ---- Watchdog ----

const (
	WDTCTL uintptr = 0x00

	WDTPW         uint16 = 0x5A << 8
	WDTIS_MASK    uint16 = 0x7
	WDTCTL_LOW    uint16 = 0x00FF // bits kept across a password write
	WDTCNTCL      uint16 = 1 << 3
	WDTTMSEL      uint16 = 1 << 4
	WDTSSEL_SHIFT        = 5
	WDTSSEL_MASK  uint16 = 0x3 << WDTSSEL_SHIFT
	WDTHOLD       uint16 = 1 << 7
)

// WDT is the watchdog block. Its control register reads back with 0x69 in
// the password byte; writes need WDTPW.
type WDT struct {
	Block
	SFR *SFR
}

func (w *WDT) CTL() regs.Reg16 { return w.R16(WDTCTL) }
