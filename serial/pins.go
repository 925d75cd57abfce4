package serial

import (
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
)

// Unit names an eUSCI_A block at the type level. Only A modules do UART.
type Unit interface{ instance() pac.Instance }

type (
	A0 struct{}
	A1 struct{}
)

func (A0) instance() pac.Instance { return pac.UCA0 }
func (A1) instance() pac.Instance { return pac.UCA1 }

type (
	TX[U Unit]   struct{ pin gpio.Owned }
	RX[U Unit]   struct{ pin gpio.Owned }
	UCLK[U Unit] struct{ pin gpio.Owned }
)

// Pins is the pin set of one UART. Either of TX and RX may be left empty
// for a one-way link; UCLK is only needed with SourceUCLK.
type Pins[U Unit] struct {
	TX   TX[U]
	RX   RX[U]
	UCLK UCLK[U]
}

func (p Pins[U]) owned() []gpio.Owned {
	var out []gpio.Owned
	for _, o := range []gpio.Owned{p.TX.pin, p.RX.pin, p.UCLK.pin} {
		if o.Valid() {
			out = append(out, o)
		}
	}
	return out
}

// ---- eUSCI_A0: P1.5 to P1.7 ----

func UCLKA0[D gpio.Direction](p gpio.Pin[gpio.P1_5, gpio.Alt1[D]]) UCLK[A0] {
	return UCLK[A0]{gpio.Consume(p)}
}

func RXA0[D gpio.Direction](p gpio.Pin[gpio.P1_6, gpio.Alt1[D]]) RX[A0] {
	return RX[A0]{gpio.Consume(p)}
}

func TXA0[D gpio.Direction](p gpio.Pin[gpio.P1_7, gpio.Alt1[D]]) TX[A0] {
	return TX[A0]{gpio.Consume(p)}
}

// ---- eUSCI_A1: P4.1 to P4.3 ----

func UCLKA1[D gpio.Direction](p gpio.Pin[gpio.P4_1, gpio.Alt1[D]]) UCLK[A1] {
	return UCLK[A1]{gpio.Consume(p)}
}

func RXA1[D gpio.Direction](p gpio.Pin[gpio.P4_2, gpio.Alt1[D]]) RX[A1] {
	return RX[A1]{gpio.Consume(p)}
}

func TXA1[D gpio.Direction](p gpio.Pin[gpio.P4_3, gpio.Alt1[D]]) TX[A1] {
	return TX[A1]{gpio.Consume(p)}
}
