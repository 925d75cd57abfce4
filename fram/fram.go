// Package fram drives the FRAM controller. The only setting the HAL needs
// is the number of wait-states FRAM reads insert, which must be raised
// before MCLK goes above 8 MHz.
package fram

import (
	"fr2x5x-go/errcode"
	"fr2x5x-go/pac"
	"fr2x5x-go/regs"
)

// MaxWaitStates is the largest NWAITS value.
const MaxWaitStates = 7

// Controller owns FRCTL0.
type Controller struct {
	ctl regs.Reg16
}

// New claims the FRAM controller block.
func New(b *pac.FRCTL) (*Controller, error) {
	if err := b.Claim("fram"); err != nil {
		return nil, err
	}
	return &Controller{ctl: b.CTL0()}, nil
}

// WaitStates returns the current NWAITS setting.
func (c *Controller) WaitStates() uint8 {
	return uint8((c.ctl.Get() & pac.NWAITS_MASK) >> pac.NWAITS_SHIFT)
}

// SetWaitStates writes NWAITS with the controller password.
func (c *Controller) SetWaitStates(n uint8) error {
	if n > MaxWaitStates {
		return errcode.New(errcode.InvalidParams, "fram.SetWaitStates", "more than 7 wait-states")
	}
	low := c.ctl.Get() & 0x00FF &^ pac.NWAITS_MASK
	c.ctl.Set(pac.FRCTLPW | low | uint16(n)<<pac.NWAITS_SHIFT)
	return nil
}
