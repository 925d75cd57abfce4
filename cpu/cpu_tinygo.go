//go:build tinygo

package cpu

import "device"

// Native is the running MSP430 core.
var Native Core = native{}

type native struct{}

func (native) Nop() { device.Asm("nop") }

func (native) SetSR(bits uint8) {
	device.AsmFull("bis.b {bits}, SR", map[string]interface{}{"bits": bits})
}

func (native) ClearSR(bits uint8) {
	device.AsmFull("bic.b {bits}, SR", map[string]interface{}{"bits": bits})
}
