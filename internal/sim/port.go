package sim

import (
	"math/bits"

	"fr2x5x-go/pac"
)

// ports models the two port behaviours that are not plain storage: PxSELC
// toggles SEL0 and SEL1 together, and reading PxIV returns and clears the
// highest-priority pending flag.
func (c *Chip) ports() {
	for _, pair := range []uintptr{pac.BasePA, pac.BasePB, pac.BasePC} {
		for i, base := range []uintptr{pair, pair + 1} {
			base, iv := base, pair+0x0E+uintptr(i)*0x10
			c.OnWrite(base+pac.PxSELC, func(v uint16, _ bool) {
				m := uint8(v)
				c.mem[base+pac.PxSEL0] ^= m
				c.mem[base+pac.PxSEL1] ^= m
				c.mem[base+pac.PxSELC] = 0
			})
			c.OnRead(iv, func() {
				pending := c.mem[base+pac.PxIFG]
				if pending == 0 {
					c.Poke16(iv, 0)
					return
				}
				n := bits.TrailingZeros8(pending)
				c.Poke16(iv, uint16(n+1)*2)
				c.mem[base+pac.PxIFG] &^= 1 << n
			})
		}
	}
}

// Drive sets the input level of a pin as the port's IN register shows it.
// With edge detection enabled on the pin, a matching transition sets its
// interrupt flag.
func (c *Chip) Drive(p *pac.Port, pin uint8, high bool) {
	in := p.Base() + pac.PxIN
	m := uint8(1) << pin
	was := c.mem[in]&m != 0
	if high {
		c.mem[in] |= m
	} else {
		c.mem[in] &^= m
	}
	if was == high || !p.HasInterrupts() {
		return
	}
	falling := c.mem[p.Base()+pac.PxIES]&m != 0
	if falling != high {
		c.mem[p.Base()+pac.PxIFG] |= m
	}
}
