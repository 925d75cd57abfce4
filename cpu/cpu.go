// Package cpu exposes the few core instructions the HAL issues directly:
// NOP for timing and erratum padding, and status-register bit set/clear for
// the FLL enable and low-power modes.
package cpu

// Status register bits.
const (
	GIE    uint8 = 1 << 3 // general interrupt enable
	CPUOFF uint8 = 1 << 4
	OSCOFF uint8 = 1 << 5
	SCG0   uint8 = 1 << 6 // FLL off
	SCG1   uint8 = 1 << 7
)

// Core issues instructions on the running CPU.
type Core interface {
	Nop()
	SetSR(bits uint8)   // bis.b #bits, SR
	ClearSR(bits uint8) // bic.b #bits, SR
}

// Nops issues n NOP instructions.
func Nops(c Core, n int) {
	for i := 0; i < n; i++ {
		c.Nop()
	}
}
