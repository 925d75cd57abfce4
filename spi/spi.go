// Package spi drives an eUSCI block in SPI mode, as master or slave.
//
// Both roles share one byte-level core: Send and Read are non-blocking and
// return errcode.WouldBlock while the buffers are not ready; Transfer, Tx
// and Flush poll the same flags until they are. The trait surface on top is
// chosen at build time: tinygo's drivers.SPI by default, the
// golang.org/x/exp/io/spi driver interfaces with -tags legacy.
package spi

import (
	"fr2x5x-go/clock"
	"fr2x5x-go/errcode"
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
	"fr2x5x-go/x/conv"
	"fr2x5x-go/x/logx"
	"fr2x5x-go/x/mathx"
	"fr2x5x-go/x/nb"
)

// Mode is the clock polarity and phase pair, numbered as usual
// (mode 1 is CPOL=0, CPHA=1).
type Mode uint8

const (
	Mode0 Mode = iota
	Mode1
	Mode2
	Mode3
)

// ctl returns the UCCKPL/UCCKPH bits. UCCKPH set means data is captured on
// the first edge, which is CPHA=0.
func (m Mode) ctl() uint16 {
	var v uint16
	if m&1 == 0 {
		v |= pac.UCCKPH
	}
	if m&2 != 0 {
		v |= pac.UCCKPL
	}
	return v
}

// STEMode sets how a slave uses its STE pin.
type STEMode uint8

const (
	STENone       STEMode = iota // only slave on the bus, three-pin mode
	STEActiveHigh                // enabled while STE is high
	STEActiveLow                 // enabled while STE is low
)

// DummyByte is shifted out when a transfer only reads.
const DummyByte = 0x00

type Config struct {
	Mode     Mode
	LSBFirst bool

	// Master only.
	Baud  uint32
	Clock clock.Bus // clock.Subsystem or clock.Auxiliary

	// Slave only.
	STE STEMode
}

func DefaultConfig() Config {
	return Config{Mode: Mode0, Baud: 1_000_000, Clock: clock.Subsystem}
}

func (c Config) Validate() error {
	const op = "spi.Config"
	if c.Mode > Mode3 || c.STE > STEActiveLow {
		return errcode.New(errcode.InvalidParams, op, "mode out of range")
	}
	return nil
}

func (c Config) validateMaster() error {
	const op = "spi.Config"
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Baud == 0 {
		return errcode.New(errcode.InvalidParams, op, "zero baud rate")
	}
	if c.Clock != clock.Subsystem && c.Clock != clock.Auxiliary {
		return errcode.New(errcode.InvalidSource, op, "SPI clock must be SMCLK or ACLK")
	}
	return nil
}

// Prescaler returns the UCxBRW value closest to baud from busHz, clamped
// to the register range.
func Prescaler(busHz, baud uint32) uint16 {
	if baud == 0 {
		return 0xFFFF
	}
	return uint16(mathx.Clamp(mathx.RoundDiv(busHz, baud), 1, 0xFFFF))
}

// Vector is the source of a pending eUSCI interrupt.
type Vector uint8

const (
	VectorNone    Vector = 0
	VectorRxFull  Vector = 2
	VectorTxEmpty Vector = 4
)

// ---- core ----

type core struct {
	u    *pac.EUSCI
	ctl  uint16
	pins []gpio.Owned
}

func open[U Unit](u *pac.EUSCI, pins Pins[U], owner string) (*core, error) {
	const op = "spi.New"
	var unit U
	if u == nil || u.Instance() != unit.instance() {
		return nil, errcode.New(errcode.InvalidParams, op, "register block does not match pin unit")
	}
	for _, p := range []gpio.Owned{pins.MISO.pin, pins.MOSI.pin, pins.SCLK.pin} {
		if !p.Valid() {
			return nil, errcode.New(errcode.InvalidParams, op, "pin not converted for SPI")
		}
	}
	if err := u.Claim(owner); err != nil {
		return nil, err
	}
	return &core{u: u, pins: pins.owned()}, nil
}

// configure runs the reset-hold sequence: hold, write control and bit
// rate, leave listen mode, release, then mask both interrupts.
func (c *core) configure(ctl, brw uint16) {
	u := c.u
	c.ctl = ctl | pac.UCSYNC
	u.CTLW0().SetBits(pac.UCSWRST)
	u.CTLW0().Set(c.ctl | pac.UCSWRST)
	u.BRW().Set(brw)
	u.STATW().ClearBits(pac.UCLISTEN)
	u.CTLW0().ClearBits(pac.UCSWRST)
	u.IE().ClearBits(pac.UCTXIFG | pac.UCRXIFG)
}

// setMode changes polarity and phase. The block passes through reset, which
// sets TXIFG and clears RXIFG and the error flags; interrupt enables are
// kept.
func (c *core) setMode(m Mode) {
	u := c.u
	ie := u.IE().Get()
	c.ctl = c.ctl&^(pac.UCCKPH|pac.UCCKPL) | m.ctl()
	u.CTLW0().SetBits(pac.UCSWRST)
	u.CTLW0().Set(c.ctl | pac.UCSWRST)
	u.IE().Set(ie)
	u.CTLW0().ClearBits(pac.UCSWRST)
}

func (c *core) setBitOrder(lsbFirst bool) {
	c.ctl &^= pac.UCMSB
	if !lsbFirst {
		c.ctl |= pac.UCMSB
	}
	u := c.u
	u.CTLW0().SetBits(pac.UCSWRST)
	u.CTLW0().Set(c.ctl | pac.UCSWRST)
	u.CTLW0().ClearBits(pac.UCSWRST)
}

func (c *core) send(b byte) error {
	if c.u.IFG().Get()&pac.UCTXIFG == 0 {
		return errcode.WouldBlock
	}
	c.u.TXBUF().Set(uint16(b))
	return nil
}

func (c *core) recv() (byte, error) {
	if c.u.IFG().Get()&pac.UCRXIFG == 0 {
		return 0, errcode.WouldBlock
	}
	overrun := c.u.STATW().Get()&pac.UCOE != 0
	b := byte(c.u.RXBUF().Get())
	if overrun {
		return b, errcode.New(errcode.Overrun, "spi.Read", "receive buffer overwritten before it was read")
	}
	return b, nil
}

func (c *core) transfer(w byte) (byte, error) {
	if err := nb.Do(func() error { return c.send(w) }); err != nil {
		return 0, err
	}
	return nb.Block(c.recv)
}

// tx pairs bytes of w and r, padding w with DummyByte and dropping the
// replies that do not fit in r.
func (c *core) tx(w, r []byte) error {
	n := mathx.Max(len(w), len(r))
	for i := 0; i < n; i++ {
		out := byte(DummyByte)
		if i < len(w) {
			out = w[i]
		}
		in, err := c.transfer(out)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

// flush waits for the transmit buffer to drain and then for the shift
// register to go idle. In slave mode the second wait follows the remote
// master's clock, so it lasts until the transfer really completes.
func (c *core) flush() {
	for c.u.IFG().Get()&pac.UCTXIFG == 0 {
	}
	for c.u.STATW().Get()&pac.UCBUSY != 0 {
	}
}

func (c *core) enableInterrupts(rx, tx bool) {
	var m uint16
	if rx {
		m |= pac.UCRXIFG
	}
	if tx {
		m |= pac.UCTXIFG
	}
	c.u.IE().Modify(pac.UCRXIFG|pac.UCTXIFG, m)
}

func (c *core) vector() Vector { return Vector(c.u.IV().Get()) }

// ---- Master ----

// Master is an SPI bus master on unit U.
type Master[U Unit] struct {
	core
	busHz    uint32
	achieved uint32
}

// NewMaster configures u as a three-pin master clocked from cfg.Clock. The
// prescaler is the nearest achievable divider; AchievedHz reports the rate
// it gives.
func NewMaster[U Unit](u *pac.EUSCI, pins Pins[U], clk *clock.Clocks, cfg Config) (*Master[U], error) {
	const op = "spi.NewMaster"
	if clk == nil {
		return nil, errcode.New(errcode.InvalidParams, op, "nil clocks")
	}
	if err := cfg.validateMaster(); err != nil {
		return nil, err
	}
	busHz := clk.BusHz(cfg.Clock)
	if busHz == 0 {
		return nil, errcode.New(errcode.InvalidSource, op, cfg.Clock.String()+" is off")
	}
	c, err := open(u, pins, "spi")
	if err != nil {
		return nil, err
	}
	ssel := pac.UCSSEL_SMCLK
	if cfg.Clock == clock.Auxiliary {
		ssel = pac.UCSSEL_ACLK
	}
	ctl := pac.UCMST | ssel | pac.ModeSPI3 | cfg.Mode.ctl()
	if !cfg.LSBFirst {
		ctl |= pac.UCMSB
	}
	brw := Prescaler(busHz, cfg.Baud)
	c.configure(ctl, brw)

	m := &Master[U]{core: *c, busHz: busHz, achieved: busHz / uint32(brw)}
	logx.L().Debug("spi: master ready",
		"unit", u.Name(),
		"requested", conv.Hz(cfg.Baud),
		"achieved", conv.Hz(m.achieved),
		"brw", brw)
	return m, nil
}

// AchievedHz is the SCLK rate the prescaler gives.
func (m *Master[U]) AchievedHz() uint32 { return m.achieved }

// Send loads one byte for transmission.
func (m *Master[U]) Send(b byte) error { return m.send(b) }

// Read takes the received byte. An overrun is reported together with the
// byte that overwrote the lost one.
func (m *Master[U]) Read() (byte, error) { return m.recv() }

// Transfer shifts one byte out and returns the byte shifted in.
func (m *Master[U]) Transfer(b byte) (byte, error) { return m.transfer(b) }

// Flush blocks until the last byte has left the shift register.
func (m *Master[U]) Flush() error {
	m.flush()
	return nil
}

// SetMode changes polarity and phase between transfers.
func (m *Master[U]) SetMode(md Mode) error {
	if md > Mode3 {
		return errcode.New(errcode.InvalidParams, "spi.SetMode", "mode out of range")
	}
	m.setMode(md)
	return nil
}

func (m *Master[U]) EnableInterrupts(rx, tx bool) { m.enableInterrupts(rx, tx) }
func (m *Master[U]) Vector() Vector               { return m.vector() }

// setMaxSpeed picks the smallest divider that keeps SCLK at or below hz.
func (m *Master[U]) setMaxSpeed(hz uint32) error {
	if hz == 0 {
		return errcode.New(errcode.InvalidParams, "spi.MaxSpeed", "zero speed")
	}
	brw := uint16(mathx.Clamp(mathx.CeilDiv(m.busHz, hz), 1, 0xFFFF))
	u := m.u
	u.CTLW0().SetBits(pac.UCSWRST)
	u.BRW().Set(brw)
	u.CTLW0().ClearBits(pac.UCSWRST)
	m.achieved = m.busHz / uint32(brw)
	return nil
}

// ---- Slave ----

// Slave is an SPI bus slave on unit U. SCLK comes from the remote master,
// so there is no rate to derive.
type Slave[U Unit] struct {
	core
}

// NewSlave configures u as a slave. With cfg.STE set the STE pin gates the
// block and pins.STE must be converted; otherwise three-pin mode is used.
func NewSlave[U Unit](u *pac.EUSCI, pins Pins[U], cfg Config) (*Slave[U], error) {
	const op = "spi.NewSlave"
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode := pac.ModeSPI3
	switch cfg.STE {
	case STEActiveHigh:
		mode = pac.ModeSPI4H
	case STEActiveLow:
		mode = pac.ModeSPI4L
	}
	if cfg.STE != STENone && !pins.STE.pin.Valid() {
		return nil, errcode.New(errcode.InvalidParams, op, "STE mode needs an STE pin")
	}
	c, err := open(u, pins, "spi")
	if err != nil {
		return nil, err
	}
	ctl := mode | cfg.Mode.ctl()
	if !cfg.LSBFirst {
		ctl |= pac.UCMSB
	}
	c.configure(ctl, 0)
	logx.L().Debug("spi: slave ready", "unit", u.Name(), "ste", uint8(cfg.STE))
	return &Slave[U]{core: *c}, nil
}

// Send loads the next byte the master will clock out of MISO.
func (s *Slave[U]) Send(b byte) error { return s.send(b) }

// Read takes a byte the master has clocked in.
func (s *Slave[U]) Read() (byte, error) { return s.recv() }

// Transfer loads b and waits for the master to exchange it.
func (s *Slave[U]) Transfer(b byte) (byte, error) { return s.transfer(b) }

// Flush blocks until the shift register is idle, which for a slave means
// the master has finished clocking the current frame.
func (s *Slave[U]) Flush() error {
	s.flush()
	return nil
}

func (s *Slave[U]) EnableInterrupts(rx, tx bool) { s.enableInterrupts(rx, tx) }
func (s *Slave[U]) Vector() Vector               { return s.vector() }
