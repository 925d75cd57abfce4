package timer

import (
	"fr2x5x-go/clock"
	"fr2x5x-go/pac"
	"fr2x5x-go/x/mathx"
	"fr2x5x-go/x/nb"
	"fr2x5x-go/x/timex"
)

// Delay waits on CCR0 compare matches of a timer clocked from ACLK. It
// keeps its accuracy when MCLK is too slow or too uneven for the
// busy-wait in package clock.
type Delay struct {
	t *Timer
}

// NewDelay takes over tb for delays.
func NewDelay(c *clock.Clocks, tb *pac.TimerB) (*Delay, error) {
	if err := open(tb, ACLK(c), "delay"); err != nil {
		return nil, err
	}
	return &Delay{t: &Timer{tb: tb, hz: c.AuxiliaryHz()}}, nil
}

func (d *Delay) DelayMs(ms uint32) { d.wait(timex.TicksForMs(d.t.hz, ms)) }
func (d *Delay) DelayUs(us uint32) { d.wait(timex.TicksForUs(d.t.hz, us)) }

// wait runs the timer in periods of at most 65536 ticks until n ticks
// have passed.
func (d *Delay) wait(n uint64) {
	for n > 0 {
		chunk := mathx.Min(n, 0x10000)
		d.t.Start(uint16(chunk - 1))
		_ = nb.Do(d.t.Wait)
		n -= chunk
	}
	d.t.Cancel()
}
