// Package serial drives an eUSCI_A block as a UART.
//
// WriteByte and ReadByte are non-blocking and return errcode.WouldBlock
// while the buffers are not ready. Write, Read and Flush poll the same
// flags until they are, so a Serial also serves as tinygo's drivers.UART.
//
// The bit clock is derived from the frozen bus rate with the eUSCI
// modulation registers; AchievedBaud reports the rate that results.
package serial

import (
	"io"
	"math/bits"

	"fr2x5x-go/clock"
	"fr2x5x-go/errcode"
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
	"fr2x5x-go/x/conv"
	"fr2x5x-go/x/logx"
	"fr2x5x-go/x/nb"

	"tinygo.org/x/drivers"
)

var (
	_ drivers.UART    = (*Serial[A0])(nil)
	_ io.ByteReader   = (*Serial[A0])(nil)
	_ io.ByteWriter   = (*Serial[A1])(nil)
	_ io.StringWriter = (*Serial[A1])(nil)
)

// Source is the bit clock, in UCSSEL order.
type Source uint8

const (
	SourceUCLK Source = iota
	SourceACLK
	SourceSMCLK
)

func (s Source) String() string {
	switch s {
	case SourceUCLK:
		return "UCLK"
	case SourceACLK:
		return "ACLK"
	}
	return "SMCLK"
}

type Parity uint8

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

type Config struct {
	Baud   uint32
	Source Source
	// UCLKHz is the rate of the external clock on the UCLK pin.
	UCLKHz uint32

	Parity      Parity
	MSBFirst    bool
	SevenBits   bool
	TwoStopBits bool
	// Loopback feeds the transmitter straight into the receiver.
	Loopback bool
}

// DefaultConfig is 9600 8N1 from SMCLK.
func DefaultConfig() Config {
	return Config{Baud: 9600, Source: SourceSMCLK}
}

func (c Config) Validate() error {
	const op = "serial.Config"
	switch {
	case c.Baud == 0:
		return errcode.New(errcode.InvalidParams, op, "zero baud rate")
	case c.Source > SourceSMCLK:
		return errcode.New(errcode.InvalidSource, op, "source out of range")
	case c.Parity > ParityEven:
		return errcode.New(errcode.InvalidParams, op, "parity out of range")
	case c.Source == SourceUCLK && c.UCLKHz == 0:
		return errcode.New(errcode.InvalidParams, op, "UCLK rate not given")
	}
	return nil
}

func (c Config) ctl() uint16 {
	v := uint16(c.Source) << pac.UCSSEL_SHIFT
	switch c.Parity {
	case ParityOdd:
		v |= pac.UCPEN
	case ParityEven:
		v |= pac.UCPEN | pac.UCPAR
	}
	if c.MSBFirst {
		v |= pac.UCMSB
	}
	if c.SevenBits {
		v |= pac.UC7BIT
	}
	if c.TwoStopBits {
		v |= pac.UCSPB
	}
	// bytes with errors still set RXIFG so ReadByte sees them
	return v | pac.UCRXEIE
}

// Modulation is the UCAxBRW and UCAxMCTLW setting for one baud rate.
type Modulation struct {
	BR   uint16
	BRF  uint8
	BRS  uint8
	OS16 bool
}

// ComputeModulation picks the prescaler, first-stage and second-stage
// modulation for baud from clkHz. Oversampling is used whenever the
// clock is at least sixteen times the baud rate.
func ComputeModulation(clkHz, baud uint32) (Modulation, error) {
	const op = "serial.ComputeModulation"
	if baud == 0 {
		return Modulation{}, errcode.New(errcode.InvalidParams, op, "zero baud rate")
	}
	n := clkHz / baud
	switch {
	case n == 0:
		return Modulation{}, errcode.New(errcode.FrequencyTooHigh, op, "baud rate above the clock rate")
	case n > 0xFFFF:
		return Modulation{}, errcode.New(errcode.InvalidParams, op, "baud rate too low for the clock")
	}
	m := Modulation{BRS: brs(clkHz%baud, baud)}
	if n >= 16 {
		div := baud * 16
		m.OS16 = true
		m.BR = uint16(clkHz / div)
		m.BRF = uint8(clkHz % div / baud)
	} else {
		m.BR = uint16(n)
	}
	return m, nil
}

// fracs maps the fractional part of clk/baud to UCBRSx. Each entry applies
// while rem/baud is below num/den.
var fracs = [...]struct {
	num, den uint32
	brs      uint8
}{
	{1, 19, 0x00}, {1, 14, 0x01}, {1, 12, 0x02}, {1, 10, 0x04},
	{1, 8, 0x08}, {1, 7, 0x10}, {1, 6, 0x20}, {1, 5, 0x11},
	{1, 4, 0x22}, {1, 3, 0x44}, {4, 11, 0x49}, {2, 5, 0x4A},
	{3, 7, 0x92}, {1, 2, 0x53}, {4, 7, 0xAA}, {8, 13, 0x6B},
	{2, 3, 0xAD}, {8, 11, 0xD6}, {3, 4, 0xBB}, {4, 5, 0xDD},
	{8, 9, 0xEF},
}

func brs(rem, baud uint32) uint8 {
	for _, f := range fracs {
		if uint64(rem)*uint64(f.den) < uint64(baud)*uint64(f.num) {
			return f.brs
		}
	}
	return 0xFD
}

// BitClocks is the average bit time in eighths of a source clock.
func (m Modulation) BitClocks() uint32 {
	n := uint32(m.BR)
	if m.OS16 {
		n = 16*n + uint32(m.BRF)
	}
	return 8*n + uint32(bits.OnesCount8(m.BRS))
}

// Baud is the rate the setting gives from clkHz.
func (m Modulation) Baud(clkHz uint32) uint32 {
	d := m.BitClocks()
	if d == 0 {
		return 0
	}
	return uint32(uint64(clkHz) * 8 / uint64(d))
}

func (m Modulation) mctlw() uint16 {
	v := uint16(m.BRS)<<pac.UCBRS_SHIFT | uint16(m.BRF)<<pac.UCBRF_SHIFT&pac.UCBRF_MASK
	if m.OS16 {
		v |= pac.UCOS16
	}
	return v
}

// Vector is the source of a pending UART interrupt.
type Vector uint8

const (
	VectorNone       Vector = 0
	VectorRxFull     Vector = 2
	VectorTxEmpty    Vector = 4
	VectorStartBit   Vector = 6
	VectorTxComplete Vector = 8
)

// Serial is a UART on unit U.
type Serial[U Unit] struct {
	u        *pac.EUSCI
	pins     []gpio.Owned
	tx, rx   bool
	mod      Modulation
	achieved uint32
}

// NewSerial configures u as a UART. The modulation comes from the rate
// of cfg.Source; SMCLK and ACLK are read from clk.
func NewSerial[U Unit](u *pac.EUSCI, pins Pins[U], clk *clock.Clocks, cfg Config) (*Serial[U], error) {
	const op = "serial.NewSerial"
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var srcHz uint32
	switch cfg.Source {
	case SourceUCLK:
		if !pins.UCLK.pin.Valid() {
			return nil, errcode.New(errcode.InvalidParams, op, "UCLK pin not converted")
		}
		srcHz = cfg.UCLKHz
	default:
		if clk == nil {
			return nil, errcode.New(errcode.InvalidParams, op, "nil clocks")
		}
		bus := clock.Subsystem
		if cfg.Source == SourceACLK {
			bus = clock.Auxiliary
		}
		if srcHz = clk.BusHz(bus); srcHz == 0 {
			return nil, errcode.New(errcode.InvalidSource, op, bus.String()+" is off")
		}
	}
	mod, err := ComputeModulation(srcHz, cfg.Baud)
	if err != nil {
		return nil, err
	}
	var unit U
	if u == nil || u.Instance() != unit.instance() {
		return nil, errcode.New(errcode.InvalidParams, op, "register block does not match pin unit")
	}
	s := &Serial[U]{u: u, tx: pins.TX.pin.Valid(), rx: pins.RX.pin.Valid(), mod: mod}
	if !s.tx && !s.rx {
		return nil, errcode.New(errcode.InvalidParams, op, "neither TX nor RX converted")
	}
	if err := u.Claim("serial"); err != nil {
		return nil, err
	}
	s.pins = pins.owned()
	s.achieved = mod.Baud(srcHz)

	var listen uint16
	if cfg.Loopback {
		listen = pac.UCLISTEN
	}
	u.CTLW0().SetBits(pac.UCSWRST)
	u.CTLW0().Set(cfg.ctl() | pac.UCSWRST)
	u.BRW().Set(mod.BR)
	u.MCTLW().Set(mod.mctlw())
	u.STATW().Modify(pac.UCLISTEN, listen)
	u.CTLW0().ClearBits(pac.UCSWRST)
	u.IE().ClearBits(pac.UCRXIFG | pac.UCTXIFG | pac.UCSTTIFG | pac.UCTXCPTIFG)

	logx.L().Debug("serial: ready",
		"unit", u.Name(),
		"source", cfg.Source.String(),
		"requested", cfg.Baud,
		"achieved", s.achieved,
		"clock", conv.Hz(srcHz))
	return s, nil
}

// AchievedBaud is the bit rate the modulation gives.
func (s *Serial[U]) AchievedBaud() uint32 { return s.achieved }

func (s *Serial[U]) Modulation() Modulation { return s.mod }

// WriteByte loads b for transmission, or returns errcode.WouldBlock while
// the transmit buffer is full.
func (s *Serial[U]) WriteByte(b byte) error {
	if !s.tx {
		return errcode.New(errcode.Unsupported, "serial.WriteByte", "no TX pin")
	}
	if s.u.IFG().Get()&pac.UCTXIFG == 0 {
		return errcode.WouldBlock
	}
	s.u.TXBUF().Set(uint16(b))
	return nil
}

// ReadByte takes a received byte, or returns errcode.WouldBlock. A byte
// that arrived with a framing or parity error is dropped and the error
// returned. An overrun is reported together with the byte that overwrote
// the lost one.
func (s *Serial[U]) ReadByte() (byte, error) {
	const op = "serial.ReadByte"
	if !s.rx {
		return 0, errcode.New(errcode.Unsupported, op, "no RX pin")
	}
	if s.u.IFG().Get()&pac.UCRXIFG == 0 {
		return 0, errcode.WouldBlock
	}
	stat := s.u.STATW().Get()
	b := byte(s.u.RXBUF().Get())
	switch {
	case stat&pac.UCFE != 0:
		return 0, errcode.New(errcode.Framing, op, "stop bit missing")
	case stat&pac.UCPE != 0:
		return 0, errcode.New(errcode.Parity, op, "parity mismatch")
	case stat&pac.UCOE != 0:
		return b, errcode.New(errcode.Overrun, op, "receive buffer overwritten before it was read")
	}
	return b, nil
}

// Write sends p, waiting for room before each byte.
func (s *Serial[U]) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := nb.Do(func() error { return s.WriteByte(b) }); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

func (s *Serial[U]) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Read waits for one byte, then takes whatever else has already arrived
// without waiting again.
func (s *Serial[U]) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b, err := nb.Block(s.ReadByte)
	if err != nil {
		return 0, err
	}
	p[0] = b
	n := 1
	for n < len(p) {
		b, err := s.ReadByte()
		if errcode.IsWouldBlock(err) {
			break
		}
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}

// Buffered is the number of received bytes waiting, at most one.
func (s *Serial[U]) Buffered() int {
	if s.rx && s.u.IFG().Get()&pac.UCRXIFG != 0 {
		return 1
	}
	return 0
}

// Flush blocks until the transmit buffer has drained and the last frame
// has left the shift register. UCTXCPTIFG is not used: it is also raised
// between buffered bytes.
func (s *Serial[U]) Flush() error {
	if !s.tx {
		return nil
	}
	for s.u.IFG().Get()&pac.UCTXIFG == 0 {
	}
	for s.u.STATW().Get()&pac.UCBUSY != 0 {
	}
	return nil
}

func (s *Serial[U]) EnableInterrupts(rx, tx bool) {
	var m uint16
	if rx {
		m |= pac.UCRXIFG
	}
	if tx {
		m |= pac.UCTXIFG
	}
	s.u.IE().Modify(pac.UCRXIFG|pac.UCTXIFG, m)
}

// Vector reads and acknowledges the highest-priority pending interrupt.
func (s *Serial[U]) Vector() Vector { return Vector(s.u.IV().Get()) }
