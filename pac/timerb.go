package pac

import "fr2x5x-go/regs"

// TBxCTL
const (
	TBIFG        uint16 = 1 << 0
	TBIE         uint16 = 1 << 1
	TBCLR        uint16 = 1 << 2
	MC_SHIFT            = 4
	MC_MASK      uint16 = 0x3 << MC_SHIFT
	MC_STOP      uint16 = 0 << MC_SHIFT
	MC_UP        uint16 = 1 << MC_SHIFT
	MC_CONT      uint16 = 2 << MC_SHIFT
	MC_UPDOWN    uint16 = 3 << MC_SHIFT
	ID_SHIFT            = 6
	ID_MASK      uint16 = 0x3 << ID_SHIFT
	TBSSEL_SHIFT        = 8
	TBSSEL_MASK  uint16 = 0x3 << TBSSEL_SHIFT
	TBSSEL_TBCLK uint16 = 0 << TBSSEL_SHIFT
	TBSSEL_ACLK  uint16 = 1 << TBSSEL_SHIFT
	TBSSEL_SMCLK uint16 = 2 << TBSSEL_SHIFT
)

// TBxCCTLn
const (
	CCIFG            uint16 = 1 << 0
	COV              uint16 = 1 << 1
	CCIE             uint16 = 1 << 4
	OUTMOD_SHIFT            = 5
	OUTMOD_MASK      uint16 = 0x7 << OUTMOD_SHIFT
	OUTMOD_RESET_SET uint16 = 7 << OUTMOD_SHIFT
	CAP              uint16 = 1 << 8
)

// TBxEX0
const TBIDEX_MASK uint16 = 0x7

// TimerB is one Timer_B block. TB0 to TB2 have three capture/compare
// registers, TB3 has seven.
type TimerB struct {
	Block
	num  uint8
	ccrs uint8
}

func newTimerB(bus regs.Bus, n uint8) *TimerB {
	base := [...]uintptr{BaseTB0, BaseTB1, BaseTB2, BaseTB3}[n]
	ccrs := uint8(3)
	if n == 3 {
		ccrs = 7
	}
	return &TimerB{Block: newBlock(bus, "TB"+string(rune('0'+n)), base), num: n, ccrs: ccrs}
}

func (t *TimerB) Num() uint8 { return t.num }

// CCRs is the number of capture/compare registers.
func (t *TimerB) CCRs() uint8 { return t.ccrs }

func (t *TimerB) CTL() regs.Reg16         { return t.R16(0x00) }
func (t *TimerB) CCTL(n uint8) regs.Reg16 { return t.R16(0x02 + 2*uintptr(n)) }
func (t *TimerB) R() regs.Reg16           { return t.R16(0x10) }
func (t *TimerB) CCR(n uint8) regs.Reg16  { return t.R16(0x12 + 2*uintptr(n)) }
func (t *TimerB) EX0() regs.Reg16         { return t.R16(0x20) }
func (t *TimerB) IV() regs.Reg16          { return t.R16(0x2E) }
