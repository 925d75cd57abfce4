package i2c

import (
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
)

// Unit names an eUSCI_B block at the type level. Only B modules speak I2C.
type Unit interface{ instance() pac.Instance }

type (
	B0 struct{}
	B1 struct{}
)

func (B0) instance() pac.Instance { return pac.UCB0 }
func (B1) instance() pac.Instance { return pac.UCB1 }

type (
	SCL[U Unit] struct{ pin gpio.Owned }
	SDA[U Unit] struct{ pin gpio.Owned }
)

// Pins is the pin pair of one I2C block.
type Pins[U Unit] struct {
	SCL SCL[U]
	SDA SDA[U]
}

// ---- eUSCI_B0: P1.2, P1.3 ----

func SDAB0[D gpio.Direction](p gpio.Pin[gpio.P1_2, gpio.Alt1[D]]) SDA[B0] {
	return SDA[B0]{gpio.Consume(p)}
}

func SCLB0[D gpio.Direction](p gpio.Pin[gpio.P1_3, gpio.Alt1[D]]) SCL[B0] {
	return SCL[B0]{gpio.Consume(p)}
}

// ---- eUSCI_B1: P4.6, P4.7 ----

func SDAB1[D gpio.Direction](p gpio.Pin[gpio.P4_6, gpio.Alt1[D]]) SDA[B1] {
	return SDA[B1]{gpio.Consume(p)}
}

func SCLB1[D gpio.Direction](p gpio.Pin[gpio.P4_7, gpio.Alt1[D]]) SCL[B1] {
	return SCL[B1]{gpio.Consume(p)}
}
