package spi

import (
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
)

// Unit names an eUSCI block at the type level.
type Unit interface{ instance() pac.Instance }

type (
	A0 struct{}
	A1 struct{}
	B0 struct{}
	B1 struct{}
)

func (A0) instance() pac.Instance { return pac.UCA0 }
func (A1) instance() pac.Instance { return pac.UCA1 }
func (B0) instance() pac.Instance { return pac.UCB0 }
func (B1) instance() pac.Instance { return pac.UCB1 }

// Role pins. Each holds a pin moved out of the gpio registry; only the
// conversion functions below make valid ones.
type (
	MISO[U Unit] struct{ pin gpio.Owned }
	MOSI[U Unit] struct{ pin gpio.Owned }
	SCLK[U Unit] struct{ pin gpio.Owned }
	STE[U Unit]  struct{ pin gpio.Owned }
)

// Pins is the pin set of one SPI block. STE is only needed by a slave on a
// shared bus.
type Pins[U Unit] struct {
	MISO MISO[U]
	MOSI MOSI[U]
	SCLK SCLK[U]
	STE  STE[U]
}

func (p Pins[U]) owned() []gpio.Owned {
	out := []gpio.Owned{p.MISO.pin, p.MOSI.pin, p.SCLK.pin}
	if p.STE.pin.Valid() {
		out = append(out, p.STE.pin)
	}
	return out
}

// ---- eUSCI_A0: P1.4 to P1.7 ----

func STEA0[D gpio.Direction](p gpio.Pin[gpio.P1_4, gpio.Alt1[D]]) STE[A0] {
	return STE[A0]{gpio.Consume(p)}
}

func SCLKA0[D gpio.Direction](p gpio.Pin[gpio.P1_5, gpio.Alt1[D]]) SCLK[A0] {
	return SCLK[A0]{gpio.Consume(p)}
}

func MISOA0[D gpio.Direction](p gpio.Pin[gpio.P1_6, gpio.Alt1[D]]) MISO[A0] {
	return MISO[A0]{gpio.Consume(p)}
}

func MOSIA0[D gpio.Direction](p gpio.Pin[gpio.P1_7, gpio.Alt1[D]]) MOSI[A0] {
	return MOSI[A0]{gpio.Consume(p)}
}

// ---- eUSCI_A1: P4.0 to P4.3 ----

func STEA1[D gpio.Direction](p gpio.Pin[gpio.P4_0, gpio.Alt1[D]]) STE[A1] {
	return STE[A1]{gpio.Consume(p)}
}

func SCLKA1[D gpio.Direction](p gpio.Pin[gpio.P4_1, gpio.Alt1[D]]) SCLK[A1] {
	return SCLK[A1]{gpio.Consume(p)}
}

func MISOA1[D gpio.Direction](p gpio.Pin[gpio.P4_2, gpio.Alt1[D]]) MISO[A1] {
	return MISO[A1]{gpio.Consume(p)}
}

func MOSIA1[D gpio.Direction](p gpio.Pin[gpio.P4_3, gpio.Alt1[D]]) MOSI[A1] {
	return MOSI[A1]{gpio.Consume(p)}
}

// ---- eUSCI_B0: P1.0 to P1.3 ----

func STEB0[D gpio.Direction](p gpio.Pin[gpio.P1_0, gpio.Alt1[D]]) STE[B0] {
	return STE[B0]{gpio.Consume(p)}
}

func SCLKB0[D gpio.Direction](p gpio.Pin[gpio.P1_1, gpio.Alt1[D]]) SCLK[B0] {
	return SCLK[B0]{gpio.Consume(p)}
}

func MOSIB0[D gpio.Direction](p gpio.Pin[gpio.P1_2, gpio.Alt1[D]]) MOSI[B0] {
	return MOSI[B0]{gpio.Consume(p)}
}

func MISOB0[D gpio.Direction](p gpio.Pin[gpio.P1_3, gpio.Alt1[D]]) MISO[B0] {
	return MISO[B0]{gpio.Consume(p)}
}

// ---- eUSCI_B1: P4.4 to P4.7 ----

func STEB1[D gpio.Direction](p gpio.Pin[gpio.P4_4, gpio.Alt1[D]]) STE[B1] {
	return STE[B1]{gpio.Consume(p)}
}

func SCLKB1[D gpio.Direction](p gpio.Pin[gpio.P4_5, gpio.Alt1[D]]) SCLK[B1] {
	return SCLK[B1]{gpio.Consume(p)}
}

func MOSIB1[D gpio.Direction](p gpio.Pin[gpio.P4_6, gpio.Alt1[D]]) MOSI[B1] {
	return MOSI[B1]{gpio.Consume(p)}
}

func MISOB1[D gpio.Direction](p gpio.Pin[gpio.P4_7, gpio.Alt1[D]]) MISO[B1] {
	return MISO[B1]{gpio.Consume(p)}
}
