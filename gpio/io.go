package gpio

import "fr2x5x-go/errcode"

// ---- Outputs ----

func High[ID PinID](p Pin[ID, Output]) {
	l := p.live()
	l.port.OUT().SetBits(l.mask)
}

func Low[ID PinID](p Pin[ID, Output]) {
	l := p.live()
	l.port.OUT().ClearBits(l.mask)
}

// Set drives the pin high or low.
func Set[ID PinID](p Pin[ID, Output], high bool) {
	if high {
		High(p)
	} else {
		Low(p)
	}
}

// Toggle inverts the output latch.
func Toggle[ID PinID](p Pin[ID, Output]) {
	l := p.live()
	out := l.port.OUT()
	out.Set(out.Get() ^ l.mask)
}

// IsSetHigh reads back the output latch, not the pad.
func IsSetHigh[ID PinID](p Pin[ID, Output]) bool {
	l := p.live()
	return l.port.OUT().Get()&l.mask != 0
}

// ---- Inputs ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// SetPull enables the pull resistor. The output latch picks its direction
// while the pin is an input.
func SetPull[ID PinID](p Pin[ID, Input], pull Pull) {
	l := p.live()
	switch pull {
	case PullUp:
		l.port.OUT().SetBits(l.mask)
		l.port.REN().SetBits(l.mask)
	case PullDown:
		l.port.OUT().ClearBits(l.mask)
		l.port.REN().SetBits(l.mask)
	default:
		l.port.REN().ClearBits(l.mask)
	}
}

// ---- Edge interrupts (ports 1 to 4) ----

type Edge uint8

const (
	EdgeRising Edge = iota
	EdgeFalling
)

// SelectEdge picks the transition that sets the pin's flag. Changing the
// edge can itself set the flag, so callers clear it afterwards.
func SelectEdge[ID InterruptCapable](p Pin[ID, Input], e Edge) {
	l := p.live()
	if e == EdgeFalling {
		l.port.IES().SetBits(l.mask)
	} else {
		l.port.IES().ClearBits(l.mask)
	}
}

func EnableInterrupt[ID InterruptCapable](p Pin[ID, Input]) {
	l := p.live()
	l.port.IE().SetBits(l.mask)
}

func DisableInterrupt[ID InterruptCapable](p Pin[ID, Input]) {
	l := p.live()
	l.port.IE().ClearBits(l.mask)
}

func ClearInterrupt[ID InterruptCapable](p Pin[ID, Input]) {
	l := p.live()
	l.port.IFG().ClearBits(l.mask)
}

// RaiseInterrupt sets the flag from software.
func RaiseInterrupt[ID InterruptCapable](p Pin[ID, Input]) {
	l := p.live()
	l.port.IFG().SetBits(l.mask)
}

func Pending[ID InterruptCapable](p Pin[ID, Input]) bool {
	l := p.live()
	return l.port.IFG().Get()&l.mask != 0
}

// WaitForEdge returns errcode.WouldBlock until the selected edge has been
// seen, then clears the flag. WouldBlock is the only error.
func WaitForEdge[ID InterruptCapable](p Pin[ID, Input]) error {
	if !Pending(p) {
		return errcode.WouldBlock
	}
	ClearInterrupt(p)
	return nil
}
