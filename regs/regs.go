// Package regs is the register access boundary of the HAL.
//
// Every peripheral driver reads and writes hardware through a Bus. On the
// MCU the bus is memory-mapped I/O (MMIO, tinygo builds); on the host it is
// the simulator in internal/sim, which records every access so tests can
// check write ordering and the absence of writes.
package regs

// Bus performs 8- and 16-bit accesses at absolute peripheral addresses.
type Bus interface {
	Read8(addr uintptr) uint8
	Write8(addr uintptr, v uint8)
	Read16(addr uintptr) uint16
	Write16(addr uintptr, v uint16)
}

// Reg8 is one byte-wide register.
type Reg8 struct {
	bus  Bus
	addr uintptr
}

// Reg16 is one word-wide register.
type Reg16 struct {
	bus  Bus
	addr uintptr
}

func At8(b Bus, addr uintptr) Reg8   { return Reg8{bus: b, addr: addr} }
func At16(b Bus, addr uintptr) Reg16 { return Reg16{bus: b, addr: addr} }

func (r Reg8) Addr() uintptr { return r.addr }
func (r Reg8) Get() uint8    { return r.bus.Read8(r.addr) }
func (r Reg8) Set(v uint8)   { r.bus.Write8(r.addr, v) }

// HasBits reports whether every bit of m is set.
func (r Reg8) HasBits(m uint8) bool { return r.Get()&m == m }

// SetBits ORs m into the register (read-modify-write).
func (r Reg8) SetBits(m uint8) { r.Set(r.Get() | m) }

// ClearBits clears m (read-modify-write).
func (r Reg8) ClearBits(m uint8) { r.Set(r.Get() &^ m) }

// Modify clears clr then sets set in one read and one write.
func (r Reg8) Modify(clr, set uint8) { r.Set(r.Get()&^clr | set) }

func (r Reg16) Addr() uintptr { return r.addr }
func (r Reg16) Get() uint16   { return r.bus.Read16(r.addr) }
func (r Reg16) Set(v uint16)  { r.bus.Write16(r.addr, v) }

func (r Reg16) HasBits(m uint16) bool  { return r.Get()&m == m }
func (r Reg16) SetBits(m uint16)       { r.Set(r.Get() | m) }
func (r Reg16) ClearBits(m uint16)     { r.Set(r.Get() &^ m) }
func (r Reg16) Modify(clr, set uint16) { r.Set(r.Get()&^clr | set) }

// Lo and Hi address the low and high bytes of a word register.
func (r Reg16) Lo() Reg8 { return Reg8{bus: r.bus, addr: r.addr} }
func (r Reg16) Hi() Reg8 { return Reg8{bus: r.bus, addr: r.addr + 1} }

// Field extracts width bits starting at shift.
func Field(v uint16, shift, width uint8) uint16 {
	return (v >> shift) & (1<<width - 1)
}

// Place positions val in a width-bit field at shift.
func Place(val uint16, shift, width uint8) uint16 {
	return (val & (1<<width - 1)) << shift
}

// Mask is the in-place mask of a width-bit field at shift.
func Mask(shift, width uint8) uint16 {
	return (1<<width - 1) << shift
}
