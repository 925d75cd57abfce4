// Package sim is a register-level model of an MSP430FR2355 for host tests.
//
// Chip implements regs.Bus and cpu.Core. Every access is recorded in an
// ordered trace so tests can assert write ordering, count instructions and
// prove that a failed operation touched nothing. Peripheral models (clock
// system, eUSCI SPI and I2C, ADC, Timer_B, watchdog, CRC) hang off read and
// write hooks and only react to the registers a driver uses.
package sim

import "fr2x5x-go/cpu"

const memSize = 0x1000

// Op is the kind of a traced event.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
	OpNop
	OpSetSR
	OpClearSR
)

func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpNop:
		return "nop"
	case OpSetSR:
		return "bis SR"
	case OpClearSR:
		return "bic SR"
	}
	return "?"
}

// Event is one traced bus access or instruction. For SR events Val holds
// the bits.
type Event struct {
	Op   Op
	Addr uintptr
	Val  uint16
	Wide bool
}

type delayed struct {
	addr  uintptr
	mask  uint16
	set   bool
	reads int
}

// Chip is the simulated microcontroller.
type Chip struct {
	mem [memSize]byte

	// SR is the modelled status register.
	SR uint8

	trace  []Event
	rhooks map[uintptr][]func()
	whooks map[uintptr][]func(v uint16, wide bool)
	after  []*delayed

	xt1Faults int
	xt1Dead   bool

	// PUCs counts password-violation resets (watchdog or FRAM controller).
	PUCs int

	crc crcModel
}

// New returns a chip with FR2355 reset values in the registers the HAL
// reads back.
func New() *Chip {
	c := &Chip{
		rhooks: map[uintptr][]func(){},
		whooks: map[uintptr][]func(v uint16, wide bool){},
	}
	c.reset()
	return c
}

// ---- regs.Bus ----

func (c *Chip) Read8(addr uintptr) uint8 {
	c.beforeRead(addr)
	v := c.mem[addr]
	c.trace = append(c.trace, Event{Op: OpRead, Addr: addr, Val: uint16(v)})
	return v
}

func (c *Chip) Read16(addr uintptr) uint16 {
	c.beforeRead(addr)
	v := c.Peek16(addr)
	c.trace = append(c.trace, Event{Op: OpRead, Addr: addr, Val: v, Wide: true})
	return v
}

func (c *Chip) Write8(addr uintptr, v uint8) {
	c.trace = append(c.trace, Event{Op: OpWrite, Addr: addr, Val: uint16(v)})
	c.mem[addr] = v
	c.afterWrite(addr, uint16(v), false)
}

func (c *Chip) Write16(addr uintptr, v uint16) {
	c.trace = append(c.trace, Event{Op: OpWrite, Addr: addr, Val: v, Wide: true})
	c.Poke16(addr, v)
	c.afterWrite(addr, v, true)
}

// ---- cpu.Core ----

func (c *Chip) Nop() { c.trace = append(c.trace, Event{Op: OpNop}) }

func (c *Chip) SetSR(bits uint8) {
	c.SR |= bits
	c.trace = append(c.trace, Event{Op: OpSetSR, Val: uint16(bits)})
}

func (c *Chip) ClearSR(bits uint8) {
	c.SR &^= bits
	c.trace = append(c.trace, Event{Op: OpClearSR, Val: uint16(bits)})
}

var _ cpu.Core = (*Chip)(nil)

// ---- untraced access for tests and models ----

func (c *Chip) Peek8(addr uintptr) uint8      { return c.mem[addr] }
func (c *Chip) Poke8(addr uintptr, v uint8)   { c.mem[addr] = v }
func (c *Chip) Peek16(addr uintptr) uint16    { return uint16(c.mem[addr]) | uint16(c.mem[addr+1])<<8 }
func (c *Chip) Poke16(addr uintptr, v uint16) { c.mem[addr], c.mem[addr+1] = byte(v), byte(v>>8) }

func (c *Chip) setBits(addr uintptr, m uint16)   { c.Poke16(addr, c.Peek16(addr)|m) }
func (c *Chip) clearBits(addr uintptr, m uint16) { c.Poke16(addr, c.Peek16(addr)&^m) }

// OnRead runs fn before every read of addr, ahead of the value being
// sampled.
func (c *Chip) OnRead(addr uintptr, fn func()) {
	c.rhooks[addr] = append(c.rhooks[addr], fn)
}

// OnWrite runs fn after every write to addr, with the written value and
// whether the access was word-wide.
func (c *Chip) OnWrite(addr uintptr, fn func(v uint16, wide bool)) {
	c.whooks[addr] = append(c.whooks[addr], fn)
}

// SetAfterReads sets mask in the word at addr once addr has been read
// reads times; the next read sees it.
func (c *Chip) SetAfterReads(addr uintptr, mask uint16, reads int) {
	c.after = append(c.after, &delayed{addr: addr, mask: mask, set: true, reads: reads})
}

// ClearAfterReads clears mask in the word at addr once addr has been read
// reads times.
func (c *Chip) ClearAfterReads(addr uintptr, mask uint16, reads int) {
	c.after = append(c.after, &delayed{addr: addr, mask: mask, reads: reads})
}

func (c *Chip) beforeRead(addr uintptr) {
	for _, fn := range c.rhooks[addr] {
		fn()
	}
	if len(c.after) == 0 {
		return
	}
	keep := c.after[:0]
	for _, d := range c.after {
		if d.addr != addr {
			keep = append(keep, d)
			continue
		}
		if d.reads > 0 {
			d.reads--
			keep = append(keep, d)
			continue
		}
		if d.set {
			c.setBits(addr, d.mask)
		} else {
			c.clearBits(addr, d.mask)
		}
	}
	c.after = keep
}

func (c *Chip) afterWrite(addr uintptr, v uint16, wide bool) {
	for _, fn := range c.whooks[addr] {
		fn(v, wide)
	}
}
