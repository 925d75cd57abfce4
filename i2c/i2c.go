// Package i2c drives an eUSCI_B block as an I2C bus master.
//
// Write, Read, WriteRead and IsPresent block until the transaction ends or
// fails. Start, Send, Receive and Stop expose the same sequencing one step
// at a time and return errcode.WouldBlock while the block is busy.
//
// Addresses above 0x7F are sent in ten-bit form.
package i2c

import (
	"fr2x5x-go/clock"
	"fr2x5x-go/errcode"
	"fr2x5x-go/pac"
	"fr2x5x-go/x/conv"
	"fr2x5x-go/x/logx"
	"fr2x5x-go/x/mathx"
)

// Bus speeds in Hz.
const (
	Standard = 100_000
	Fast     = 400_000
	FastPlus = 1_000_000
)

// Deglitch is the shortest pulse the input filter lets through.
type Deglitch uint8

const (
	Deglitch50ns Deglitch = iota
	Deglitch25ns
	Deglitch12ns
	Deglitch6ns
)

type Config struct {
	Speed    uint32    // SCL rate in Hz, at most FastPlus
	Clock    clock.Bus // clock.Subsystem or clock.Auxiliary
	Deglitch Deglitch

	// MultiMaster shares the bus with other masters. A lost arbitration
	// drops the block to slave mode until ReturnToMaster.
	MultiMaster bool
}

func DefaultConfig() Config {
	return Config{Speed: Standard, Clock: clock.Subsystem}
}

func (c Config) Validate() error {
	const op = "i2c.Config"
	switch {
	case c.Speed == 0 || c.Speed > FastPlus:
		return errcode.New(errcode.InvalidParams, op, "speed must be 1 Hz to 1 MHz")
	case c.Deglitch > Deglitch6ns:
		return errcode.New(errcode.InvalidParams, op, "deglitch out of range")
	case c.Clock != clock.Subsystem && c.Clock != clock.Auxiliary:
		return errcode.New(errcode.InvalidSource, op, "I2C clock must be SMCLK or ACLK")
	}
	return nil
}

// Divisor returns the smallest UCBxBRW value that keeps SCL at or below
// speed.
func Divisor(busHz, speed uint32) uint16 {
	if speed == 0 {
		return 0xFFFF
	}
	return uint16(mathx.Clamp(mathx.CeilDiv(busHz, speed), 1, 0xFFFF))
}

// NackError reports a byte the addressed device did not acknowledge.
// Index counts from the first START of the transaction: 0 is the address
// byte, 1 the first data byte. After a repeated START the count carries on
// from the bytes already written.
type NackError struct {
	Addr  uint16
	Data  bool
	Index int
}

func (e *NackError) Error() string {
	var b []byte
	if e.Data {
		b = conv.AppendHex16(append(b, "i2c: device "...), e.Addr)
		b = conv.AppendUint(append(b, " NACKed byte "...), uint64(e.Index))
		return string(b)
	}
	b = conv.AppendHex16(append(b, "i2c: no device at "...), e.Addr)
	b = conv.AppendUint(append(b, " (NACK at byte "...), uint64(e.Index))
	return string(append(b, ')'))
}

func (e *NackError) Code() errcode.Code { return errcode.Nack }

func (e *NackError) Is(target error) bool { return target == errcode.Nack }

var errArbitration = errcode.New(errcode.ArbitrationLost, "i2c", "another master won the bus")

// Vector is the source of a pending eUSCI_B interrupt.
type Vector uint8

const (
	VectorNone            Vector = 0x00
	VectorArbitrationLost Vector = 0x02
	VectorNack            Vector = 0x04
	VectorStart           Vector = 0x06
	VectorStop            Vector = 0x08
	VectorRxFull          Vector = 0x16
	VectorTxEmpty         Vector = 0x18
	VectorByteCount       Vector = 0x1A
	VectorClockLow        Vector = 0x1C
)

// Event is a set of interrupt sources for EnableInterrupts.
type Event uint16

const (
	EventRx              = Event(pac.UCRXIFG)
	EventTx              = Event(pac.UCTXIFG)
	EventStart           = Event(pac.UCSTTIFG)
	EventStop            = Event(pac.UCSTPIFG)
	EventArbitrationLost = Event(pac.UCALIFG)
	EventNack            = Event(pac.UCNACKIFG)
)

type target struct {
	addr   uint16
	tenBit bool
}

func targetOf(addr uint16) (target, error) {
	if addr > 0x3FF {
		return target{}, errcode.New(errcode.InvalidParams, "i2c", "address wider than ten bits")
	}
	return target{addr: addr, tenBit: addr > 0x7F}, nil
}

// Master is an I2C bus master on unit U.
type Master[U Unit] struct {
	u        *pac.EUSCI
	pins     Pins[U]
	multi    bool
	achieved uint32

	// step-wise transaction state
	cur target
	n   int
}

// NewMaster configures u as a master clocked from cfg.Clock.
func NewMaster[U Unit](u *pac.EUSCI, pins Pins[U], clk *clock.Clocks, cfg Config) (*Master[U], error) {
	const op = "i2c.NewMaster"
	if clk == nil {
		return nil, errcode.New(errcode.InvalidParams, op, "nil clocks")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	busHz := clk.BusHz(cfg.Clock)
	if busHz == 0 {
		return nil, errcode.New(errcode.InvalidSource, op, cfg.Clock.String()+" is off")
	}
	var unit U
	if u == nil || u.Instance() != unit.instance() {
		return nil, errcode.New(errcode.InvalidParams, op, "register block does not match pin unit")
	}
	if !pins.SCL.pin.Valid() || !pins.SDA.pin.Valid() {
		return nil, errcode.New(errcode.InvalidParams, op, "pin not converted for I2C")
	}
	if err := u.Claim("i2c"); err != nil {
		return nil, err
	}

	ctl := pac.UCSYNC | pac.ModeI2C | pac.UCMST | pac.UCSSEL_SMCLK
	if cfg.Clock == clock.Auxiliary {
		ctl = ctl&^pac.UCSSEL_MASK | pac.UCSSEL_ACLK
	}
	if cfg.MultiMaster {
		ctl |= pac.UCMM
	}
	brw := Divisor(busHz, cfg.Speed)

	u.CTLW0().SetBits(pac.UCSWRST)
	u.CTLW0().Set(ctl | pac.UCSWRST)
	u.CTLW1().Set(uint16(cfg.Deglitch))
	u.I2COA0().Set(0)
	u.IE().Set(0)
	u.IFG().Set(0)
	u.BRW().Set(brw)
	u.TBCNT().Set(0)
	u.CTLW0().ClearBits(pac.UCSWRST)

	m := &Master[U]{u: u, pins: pins, multi: cfg.MultiMaster, achieved: busHz / uint32(brw)}
	logx.L().Debug("i2c: master ready",
		"unit", u.Name(),
		"requested", conv.Hz(cfg.Speed),
		"achieved", conv.Hz(m.achieved),
		"brw", brw,
		"multi", cfg.MultiMaster)
	return m, nil
}

// AchievedHz is the SCL rate the divisor gives.
func (m *Master[U]) AchievedHz() uint32 { return m.achieved }

// Write sends w to addr in one START..STOP transaction. An empty w sends
// only the address.
func (m *Master[U]) Write(addr uint16, w []byte) error {
	t, err := targetOf(addr)
	if err != nil {
		return err
	}
	return m.write(t, w, true)
}

// Read fills r from addr. An empty r does nothing; the hardware cannot
// read zero bytes.
func (m *Master[U]) Read(addr uint16, r []byte) error {
	t, err := targetOf(addr)
	if err != nil {
		return err
	}
	return m.read(t, r)
}

// WriteRead writes w and then reads r after a repeated START, without
// releasing the bus in between.
func (m *Master[U]) WriteRead(addr uint16, w, r []byte) error {
	t, err := targetOf(addr)
	if err != nil {
		return err
	}
	return m.writeRead(t, w, r)
}

// IsPresent addresses addr with an empty write and reports whether it
// acknowledged.
func (m *Master[U]) IsPresent(addr uint16) (bool, error) {
	err := m.Write(addr, nil)
	if _, ok := err.(*NackError); ok {
		return false, nil
	}
	return err == nil, err
}

// IsMaster reports whether the block still holds the master role. It only
// drops it after losing arbitration in multi-master mode.
func (m *Master[U]) IsMaster() bool { return m.u.CTLW0().HasBits(pac.UCMST) }

// ReturnToMaster takes the master role back after a lost arbitration.
func (m *Master[U]) ReturnToMaster() { m.u.CTLW0().SetBits(pac.UCMST) }

func (m *Master[U]) EnableInterrupts(e Event) { m.u.IE().Set(uint16(e)) }
func (m *Master[U]) Vector() Vector           { return Vector(m.u.IV().Get()) }

// ---- step-wise interface ----

// Start sends a START, or a repeated START inside a transaction, and the
// address byte. Follow it with Send or Receive.
func (m *Master[U]) Start(addr uint16, read bool) error {
	t, err := targetOf(addr)
	if err != nil {
		return err
	}
	if err := m.canProceed(); err != nil {
		return err
	}
	m.cur, m.n = t, 0
	m.u.IFG().ClearBits(pac.UCNACKIFG | pac.UCALIFG)
	m.address(t, !read)
	m.u.CTLW0().SetBits(pac.UCTXSTT)
	return nil
}

// Send loads the next byte of a write. It returns errcode.WouldBlock while
// the transmit buffer is full and a *NackError, with Index counted from
// the latest START, when the device refused a byte.
func (m *Master[U]) Send(b byte) error {
	ifg := m.u.IFG().Get()
	if err := m.check(m.cur, ifg, m.n); err != nil {
		return err
	}
	if ifg&pac.UCTXIFG == 0 {
		return errcode.WouldBlock
	}
	m.u.TXBUF().Set(uint16(b))
	m.n++
	return nil
}

// Receive takes the next byte of a read, or errcode.WouldBlock if none has
// arrived. Call Stop before receiving the last byte.
func (m *Master[U]) Receive() (byte, error) {
	ifg := m.u.IFG().Get()
	if err := m.check(m.cur, ifg, m.n); err != nil {
		return 0, err
	}
	if ifg&pac.UCRXIFG == 0 {
		return 0, errcode.WouldBlock
	}
	m.n++
	return byte(m.u.RXBUF().Get()), nil
}

// Stop schedules a STOP after the byte in flight.
func (m *Master[U]) Stop() { m.u.CTLW0().SetBits(pac.UCTXSTP) }

// ---- sequencing ----

func (m *Master[U]) canProceed() error {
	if m.multi && !m.IsMaster() {
		return errArbitration
	}
	return nil
}

func (m *Master[U]) address(t target, transmit bool) {
	v := m.u.CTLW0().Get() &^ (pac.UCSLA10 | pac.UCTR)
	if t.tenBit {
		v |= pac.UCSLA10
	}
	if transmit {
		v |= pac.UCTR
	}
	m.u.CTLW0().Set(v)
	m.u.I2CSA().Set(t.addr)
}

func (m *Master[U]) waitStop() {
	for m.u.CTLW0().HasBits(pac.UCTXSTP) {
	}
}

// check turns the error flags into an error. A NACK ends the transaction
// with a STOP before returning.
func (m *Master[U]) check(t target, ifg uint16, idx int) error {
	if ifg&pac.UCNACKIFG != 0 {
		m.u.CTLW0().SetBits(pac.UCTXSTP)
		m.waitStop()
		return &NackError{Addr: t.addr, Data: idx > 0, Index: idx}
	}
	if ifg&pac.UCALIFG != 0 {
		return errArbitration
	}
	return nil
}

func (m *Master[U]) waitFor(t target, flag uint16, idx int) error {
	for {
		ifg := m.u.IFG().Get()
		if err := m.check(t, ifg, idx); err != nil {
			return err
		}
		if ifg&flag != 0 {
			return nil
		}
	}
}

func (m *Master[U]) write(t target, w []byte, stop bool) error {
	if err := m.canProceed(); err != nil {
		return err
	}
	err := m.writeBytes(t, w, stop)
	m.u.IFG().Set(0)
	return err
}

func (m *Master[U]) writeBytes(t target, w []byte, stop bool) error {
	u := m.u
	u.IFG().Set(0)
	m.address(t, true)
	if len(w) == 0 {
		return m.addressOnly(t)
	}
	u.CTLW0().SetBits(pac.UCTXSTT)
	for i, b := range w {
		if err := m.waitFor(t, pac.UCTXIFG, i); err != nil {
			return err
		}
		u.TXBUF().Set(uint16(b))
	}
	if err := m.waitFor(t, pac.UCTXIFG, len(w)); err != nil {
		return err
	}
	if stop {
		u.CTLW0().SetBits(pac.UCTXSTP)
		m.waitStop()
	}
	return nil
}

// addressOnly sends START, address and STOP. The bus stalls with an empty
// transmit buffer even when a STOP is queued, so a dummy byte is loaded.
func (m *Master[U]) addressOnly(t target) error {
	u := m.u
	u.CTLW0().SetBits(pac.UCTXSTT)
	u.CTLW0().SetBits(pac.UCTXSTP)
	u.TXBUF().Set(0)
	for u.CTLW0().Get()&(pac.UCTXSTT|pac.UCTXSTP) != 0 {
		if err := m.check(t, u.IFG().Get(), 0); err != nil {
			return err
		}
	}
	return m.check(t, u.IFG().Get(), 0)
}

func (m *Master[U]) read(t target, r []byte) error {
	if len(r) == 0 {
		return nil
	}
	if err := m.canProceed(); err != nil {
		return err
	}
	err := m.readBytes(t, r)
	m.u.IFG().Set(0)
	return err
}

func (m *Master[U]) readBytes(t target, r []byte) error {
	u := m.u
	u.IFG().Set(0)
	m.address(t, false)
	u.CTLW0().SetBits(pac.UCTXSTT)
	for u.CTLW0().HasBits(pac.UCTXSTT) {
	}
	for i := range r {
		if i == len(r)-1 {
			u.CTLW0().SetBits(pac.UCTXSTP)
		}
		if err := m.waitFor(t, pac.UCRXIFG, i); err != nil {
			return err
		}
		r[i] = byte(u.RXBUF().Get())
	}
	m.waitStop()
	return nil
}

func (m *Master[U]) writeRead(t target, w, r []byte) error {
	switch {
	case len(r) == 0:
		return m.write(t, w, true)
	case len(w) == 0:
		return m.read(t, r)
	}
	if err := m.write(t, w, false); err != nil {
		return err
	}
	err := m.read(t, r)
	if ne, ok := err.(*NackError); ok {
		ne.Index += len(w)
	}
	return err
}
