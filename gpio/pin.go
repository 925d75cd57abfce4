// Package gpio is the pin typestate registry.
//
// A Pin carries its identity and its current function as type parameters.
// Transitions consume a pin and return it with a new function type, and
// only identities whose multiplexer offers a function accept that
// transition, so an illegal pin/function pairing does not compile:
//
//	ports, _ := gpio.Split1(p.P1, unlocked)
//	led := gpio.IntoOutput(ports.P0)
//	sclk := gpio.IntoAlt1[gpio.Output](ports.P5) // eUSCI_A0 clock
//	gpio.High(led)
//
// Copies of a pin are possible in Go, so every pin also carries a
// generation. A transition bumps the generation of the physical line and a
// stale copy panics on its next use.
package gpio

import (
	"fr2x5x-go/pac"
	"fr2x5x-go/regs"
)

// PinID is implemented by the identity types P1_0 to P6_6 only.
type PinID interface {
	port() uint8
	bit() uint8
}

// Capability constraints.
type (
	Alt1Capable interface {
		PinID
		alt1()
	}
	Alt2Capable interface {
		PinID
		alt2()
	}
	Alt3Capable interface {
		PinID
		alt3()
	}
	AnalogCapable interface {
		PinID
		analog()
	}
	// InterruptCapable pins sit on ports 1 to 4.
	InterruptCapable interface {
		PinID
		irq()
	}
)

// ---- Function tags ----

type (
	// Unconfigured is the reset state: digital input, no pull, no
	// peripheral function.
	Unconfigured struct{}
	Input        struct{}
	Output       struct{}
	// Analog connects the pin to the ADC or comparator.
	Analog struct{}

	// Alt1, Alt2 and Alt3 are the secondary functions selected by
	// SEL1:SEL0 = 01, 10 and 11. D is the direction the peripheral needs.
	Alt1[D Direction] struct{}
	Alt2[D Direction] struct{}
	Alt3[D Direction] struct{}
)

// Direction is the direction parameter of an alternate function.
type Direction interface{ Input | Output }

// Digital functions are the ones a pin can leave without Release.
type Digital interface{ Unconfigured | Input | Output }

// sel reports SEL1:SEL0 for a function.
type selector interface{ sel() uint8 }

func (Unconfigured) sel() uint8 { return 0 }
func (Input) sel() uint8        { return 0 }
func (Output) sel() uint8       { return 0 }
func (Analog) sel() uint8       { return 3 }
func (Alt1[D]) sel() uint8      { return 1 }
func (Alt2[D]) sel() uint8      { return 2 }
func (Alt3[D]) sel() uint8      { return 3 }

// ---- Pins ----

// line is the physical pin shared by every copy of a Pin.
type line struct {
	port *pac.Port
	mask uint8
	name string
	gen  uint32
}

// Pin is a GPIO pin with identity ID in function F.
type Pin[ID PinID, F any] struct {
	l   *line
	gen uint32
}

func (p Pin[ID, F]) live() *line {
	if p.l == nil {
		panic("gpio: pin not obtained from Split")
	}
	if p.gen != p.l.gen {
		panic("gpio: " + p.l.name + " used after it was moved")
	}
	return p.l
}

func move[G any, ID PinID, F any](p Pin[ID, F]) Pin[ID, G] {
	l := p.live()
	l.gen++
	return Pin[ID, G]{l: l, gen: l.gen}
}

// Name is the datasheet name, "P1.6".
func (p Pin[ID, F]) Name() string { return p.live().name }

// Mask is the pin's bit in its port registers.
func (p Pin[ID, F]) Mask() uint8 { return p.live().mask }

// Get reads the input level. It is meaningful in every digital function.
func (p Pin[ID, F]) Get() bool {
	l := p.live()
	return l.port.IN().Get()&l.mask != 0
}

// ---- Transitions ----

func IntoInput[ID PinID, F Digital](p Pin[ID, F]) Pin[ID, Input] {
	q := move[Input](p)
	q.l.port.DIR().ClearBits(q.l.mask)
	return q
}

func IntoOutput[ID PinID, F Digital](p Pin[ID, F]) Pin[ID, Output] {
	q := move[Output](p)
	q.l.port.DIR().SetBits(q.l.mask)
	return q
}

// IntoAnalog disconnects the digital input and hands the pin to the
// analogue modules. Both select bits change in one PxSELC write.
func IntoAnalog[ID AnalogCapable, F Digital](p Pin[ID, F]) Pin[ID, Analog] {
	q := move[Analog](p)
	l := q.l
	l.port.REN().ClearBits(l.mask)
	l.port.DIR().ClearBits(l.mask)
	l.port.SELC().Set(l.mask)
	return q
}

// IntoAlt1 selects the first secondary function. The direction cannot be
// inferred, so it is the first type argument: IntoAlt1[gpio.Output](pin).
func IntoAlt1[D Direction, ID Alt1Capable, F Digital](p Pin[ID, F]) Pin[ID, Alt1[D]] {
	q := move[Alt1[D]](p)
	setDirection[D](q.l)
	q.l.port.SEL0().SetBits(q.l.mask)
	return q
}

func IntoAlt2[D Direction, ID Alt2Capable, F Digital](p Pin[ID, F]) Pin[ID, Alt2[D]] {
	q := move[Alt2[D]](p)
	setDirection[D](q.l)
	q.l.port.SEL1().SetBits(q.l.mask)
	return q
}

func IntoAlt3[D Direction, ID Alt3Capable, F Digital](p Pin[ID, F]) Pin[ID, Alt3[D]] {
	q := move[Alt3[D]](p)
	setDirection[D](q.l)
	q.l.port.SELC().Set(q.l.mask)
	return q
}

// Release returns a pin in any function to the reset state.
func Release[ID PinID, F any](p Pin[ID, F]) Pin[ID, Unconfigured] {
	q := move[Unconfigured](p)
	l := q.l
	var f F
	if s, ok := any(f).(selector); ok {
		switch s.sel() {
		case 1:
			l.port.SEL0().ClearBits(l.mask)
		case 2:
			l.port.SEL1().ClearBits(l.mask)
		case 3:
			l.port.SELC().Set(l.mask)
		}
	}
	l.port.DIR().ClearBits(l.mask)
	l.port.REN().ClearBits(l.mask)
	return q
}

func setDirection[D Direction](l *line) {
	var d D
	if _, out := any(d).(Output); out {
		l.port.DIR().SetBits(l.mask)
	} else {
		l.port.DIR().ClearBits(l.mask)
	}
}

// ---- Ownership transfer ----

// Owned is a pin that a driver has taken over. The Pin it came from is
// stale from then on.
type Owned struct {
	l    *line
	gen  uint32
	port uint8
	bit  uint8
	sel  uint8
}

// Consume moves p into a driver.
func Consume[ID PinID, F any](p Pin[ID, F]) Owned {
	q := move[F](p)
	var id ID
	o := Owned{l: q.l, gen: q.gen, port: id.port(), bit: id.bit()}
	var f F
	if s, ok := any(f).(selector); ok {
		o.sel = s.sel()
	}
	return o
}

func (o Owned) Name() string { return o.l.name }
func (o Owned) Port() uint8  { return o.port }
func (o Owned) Bit() uint8   { return o.bit }

// Valid reports whether o came from Consume.
func (o Owned) Valid() bool { return o.l != nil && o.gen == o.l.gen }

// Detach hands an Alt1 or Alt2 pin back to its output latch while the
// driver keeps it. Attach routes it to the peripheral again.
func (o Owned) Detach() { o.route(false) }
func (o Owned) Attach() { o.route(true) }

func (o Owned) route(on bool) {
	if !o.Valid() {
		return
	}
	var r regs.Reg8
	switch o.sel {
	case 1:
		r = o.l.port.SEL0()
	case 2:
		r = o.l.port.SEL1()
	default:
		return
	}
	if on {
		r.SetBits(o.l.mask)
	} else {
		r.ClearBits(o.l.mask)
	}
}

// AnalogChannel is the ADC input number of an analogue pin: P1.x is Ax and
// P5.0 to P5.3 are A8 to A11.
func AnalogChannel[ID AnalogCapable](p Pin[ID, Analog]) uint8 {
	p.live()
	var id ID
	if id.port() == 5 {
		return 8 + id.bit()
	}
	return id.bit()
}
