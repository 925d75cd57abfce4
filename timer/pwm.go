package timer

import (
	"fr2x5x-go/errcode"
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
	"fr2x5x-go/x/mathx"
	"fr2x5x-go/x/ramp"
)

// outmodToggle on CCR0 keeps the base output running at half the PWM rate.
const outmodToggle uint16 = 4 << pac.OUTMOD_SHIFT

// PWM runs timer U in up mode with CCR0 as the period. Every other compare
// register drives an output in reset/set mode, so the duty is the number
// of ticks the output stays high.
type PWM[U Unit] struct {
	tb    *pac.TimerB
	hz    uint32
	taken uint8
}

// NewPWM starts tb counting with the given period in ticks. The unit type
// argument ties the block to its output pins: timer.NewPWM[timer.TB1](...).
func NewPWM[U Unit](tb *pac.TimerB, cfg Config, period uint16) (*PWM[U], error) {
	var u U
	if tb != nil && tb.Num() != u.num() {
		return nil, errcode.New(errcode.InvalidParams, "timer.NewPWM", "register block does not match timer unit")
	}
	if err := open(tb, cfg, "pwm"); err != nil {
		return nil, err
	}
	tb.CCR(0).Set(period)
	tb.CCTL(0).Modify(pac.OUTMOD_MASK, outmodToggle)
	for n := uint8(1); n < tb.CCRs(); n++ {
		tb.CCTL(n).Modify(pac.OUTMOD_MASK, pac.OUTMOD_RESET_SET)
	}
	upMode(tb)
	return &PWM[U]{tb: tb, hz: cfg.Hz()}, nil
}

// Period is CCR0, the maximum duty.
func (p *PWM[U]) Period() uint16 { return p.tb.CCR(0).Get() }

// SetPeriod changes the period for all channels. Duties above the new
// period hold their outputs high.
func (p *PWM[U]) SetPeriod(period uint16) { p.tb.CCR(0).Set(period) }

// FrequencyHz is the output rate for the current period.
func (p *PWM[U]) FrequencyHz() uint32 { return p.hz / (uint32(p.Period()) + 1) }

// Channel takes over the compare register behind out. Each register can be
// taken once; the output starts routed to the pin with zero duty.
func (p *PWM[U]) Channel(out Output[U]) (*Channel, error) {
	const op = "timer.Channel"
	if !out.pin.Valid() || out.ccr == 0 || out.ccr >= p.tb.CCRs() {
		return nil, errcode.New(errcode.InvalidParams, op, "output not converted")
	}
	bit := uint8(1) << out.ccr
	if p.taken&bit != 0 {
		return nil, errcode.New(errcode.PinInUse, op, out.pin.Name())
	}
	p.taken |= bit
	c := &Channel{tb: p.tb, n: out.ccr, pin: out.pin}
	c.SetDuty(0)
	return c, nil
}

// Channel is one PWM output.
type Channel struct {
	tb  *pac.TimerB
	n   uint8
	pin gpio.Owned
}

// SetDuty sets the high time in ticks.
func (c *Channel) SetDuty(d uint16) { c.tb.CCR(c.n).Set(d) }
func (c *Channel) Duty() uint16     { return c.tb.CCR(c.n).Get() }
func (c *Channel) MaxDuty() uint16  { return c.tb.CCR(0).Get() }

// SetDutyPercent sets the duty as a share of the period.
func (c *Channel) SetDutyPercent(pct uint8) {
	pct = mathx.Min(pct, 100)
	c.SetDuty(uint16(uint32(c.MaxDuty()) * uint32(pct) / 100))
}

// Disable returns the pin to its output latch; Enable routes it back to
// the timer.
func (c *Channel) Disable() { c.pin.Detach() }
func (c *Channel) Enable()  { c.pin.Attach() }

// Ramp moves the duty linearly to `to` over durationMs in steps, calling
// tick between steps. A false from tick stops the ramp where it is.
func (c *Channel) Ramp(to uint16, durationMs uint32, steps uint16, tick ramp.Tick) {
	ramp.StartLinear(c.Duty(), to, c.MaxDuty(), durationMs, steps, tick, c.SetDuty)
}
