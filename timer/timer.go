// Package timer drives the Timer_B blocks: count-down timers on CCR0,
// sub-timers on the other compare registers, PWM outputs and a delay.
//
// Wait on a timer or sub-timer returns errcode.WouldBlock until the count
// is reached; that is the only error it returns.
package timer

import (
	"fr2x5x-go/clock"
	"fr2x5x-go/errcode"
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
	"fr2x5x-go/x/conv"
	"fr2x5x-go/x/logx"
	"fr2x5x-go/x/mathx"
	"fr2x5x-go/x/timex"
)

// Source is the timer clock, in TBSSEL order.
type Source uint8

const (
	SourceTBCLK Source = iota
	SourceACLK
	SourceSMCLK
)

func (s Source) String() string {
	switch s {
	case SourceTBCLK:
		return "TBCLK"
	case SourceACLK:
		return "ACLK"
	}
	return "SMCLK"
}

// Config selects the timer clock and its dividers. Build one with ACLK,
// SMCLK or FromTBCLK.
type Config struct {
	src   Source
	hz    uint32
	unit  int8 // timer the TBCLK pin belongs to, -1 for internal clocks
	pin   gpio.Owned
	div   uint8
	exDiv uint8
}

// ACLK clocks the timer from the frozen ACLK.
func ACLK(c *clock.Clocks) Config { return internal(c, SourceACLK, clock.Auxiliary) }

// SMCLK clocks the timer from the frozen SMCLK.
func SMCLK(c *clock.Clocks) Config { return internal(c, SourceSMCLK, clock.Subsystem) }

func internal(c *clock.Clocks, s Source, b clock.Bus) Config {
	cfg := Config{src: s, unit: -1, div: 1, exDiv: 1}
	if c != nil {
		cfg.hz = c.BusHz(b)
	}
	return cfg
}

// FromTBCLK clocks timer U from its external clock pin running at hz.
func FromTBCLK[U Unit](p TBCLK[U], hz uint32) Config {
	var u U
	return Config{src: SourceTBCLK, hz: hz, unit: int8(u.num()), pin: p.pin, div: 1, exDiv: 1}
}

// Divide applies the input divider (1, 2, 4 or 8) and the expansion
// divider (1 to 8). The tick rate is the source over their product.
func (c Config) Divide(div, exDiv uint8) Config {
	c.div, c.exDiv = div, exDiv
	return c
}

func (c Config) Source() Source { return c.src }

// Hz is the tick rate after both dividers.
func (c Config) Hz() uint32 {
	if c.div == 0 || c.exDiv == 0 {
		return 0
	}
	return c.hz / (uint32(c.div) * uint32(c.exDiv))
}

func (c Config) Validate() error {
	const op = "timer.Config"
	switch {
	case c.div == 0 || c.div > 8 || !mathx.IsPow2(c.div):
		return errcode.New(errcode.InvalidDivider, op, "input divider must be 1, 2, 4 or 8")
	case c.exDiv == 0 || c.exDiv > 8:
		return errcode.New(errcode.InvalidDivider, op, "expansion divider must be 1 to 8")
	case c.hz == 0:
		return errcode.New(errcode.InvalidSource, op, c.src.String()+" is off")
	case c.src == SourceTBCLK && !c.pin.Valid():
		return errcode.New(errcode.InvalidParams, op, "TBCLK pin not converted")
	}
	return nil
}

// open checks cfg against tb, claims the block and writes the clock
// setup with the timer stopped and cleared.
func open(tb *pac.TimerB, cfg Config, owner string) error {
	const op = "timer.New"
	if tb == nil {
		return errcode.New(errcode.InvalidParams, op, "nil timer block")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.unit >= 0 && uint8(cfg.unit) != tb.Num() {
		return errcode.New(errcode.InvalidParams, op, "TBCLK pin belongs to another timer")
	}
	if err := tb.Claim(owner); err != nil {
		return err
	}
	tb.CTL().SetBits(pac.TBCLR)
	tb.EX0().Set(uint16(cfg.exDiv - 1))
	tb.CTL().Set(uint16(cfg.src)<<pac.TBSSEL_SHIFT | uint16(mathx.Log2(cfg.div))<<pac.ID_SHIFT)
	logx.L().Debug("timer: configured",
		"timer", tb.Name(),
		"source", cfg.src.String(),
		"tick", conv.Hz(cfg.Hz()),
		"owner", owner)
	return nil
}

func stop(tb *pac.TimerB) { tb.CTL().ClearBits(pac.MC_MASK) }

// upMode counts from zero to CCR0, clearing the count and the overflow
// flag.
func upMode(tb *pac.TimerB) {
	tb.CTL().Modify(pac.MC_MASK|pac.TBIFG, pac.MC_UP|pac.TBCLR)
}

// Vector is the source of a pending timer interrupt.
type Vector uint8

const (
	VectorNone     Vector = 0
	VectorCCR1     Vector = 2
	VectorCCR2     Vector = 4
	VectorCCR3     Vector = 6
	VectorCCR4     Vector = 8
	VectorCCR5     Vector = 10
	VectorCCR6     Vector = 12
	VectorOverflow Vector = 14
)

// CCR returns the compare register behind v, or 0 for the overflow and
// none.
func (v Vector) CCR() uint8 {
	if v == VectorNone || v >= VectorOverflow {
		return 0
	}
	return uint8(v) / 2
}

// Parts is a configured timer split into its main counter and the
// sub-timers on CCR1 upwards.
type Parts struct {
	Timer *Timer
	Sub   []*SubTimer
}

// Timer counts up to CCR0 and flags each time it gets there.
type Timer struct {
	tb *pac.TimerB
	hz uint32
}

// New configures tb as a count-down timer with sub-timers.
func New(tb *pac.TimerB, cfg Config) (*Parts, error) {
	if err := open(tb, cfg, "timer"); err != nil {
		return nil, err
	}
	p := &Parts{Timer: &Timer{tb: tb, hz: cfg.Hz()}}
	for n := uint8(1); n < tb.CCRs(); n++ {
		p.Sub = append(p.Sub, &SubTimer{tb: tb, n: n})
	}
	return p, nil
}

// TickHz is the counting rate.
func (t *Timer) TickHz() uint32 { return t.hz }

// Start restarts the count from zero; Wait succeeds once it reaches count.
func (t *Timer) Start(count uint16) {
	stop(t.tb)
	t.tb.CCR(0).Set(count)
	upMode(t.tb)
}

// StartMs starts a period of ms milliseconds at the tick rate.
func (t *Timer) StartMs(ms uint32) error {
	n := timex.TicksForMs(t.hz, ms)
	if n == 0 || n > 0x10000 {
		return errcode.New(errcode.InvalidParams, "timer.StartMs", "period out of range for the tick rate")
	}
	t.Start(uint16(n - 1))
	return nil
}

// Wait consumes one expiry, or returns errcode.WouldBlock.
func (t *Timer) Wait() error {
	if !t.tb.CTL().HasBits(pac.TBIFG) {
		return errcode.WouldBlock
	}
	t.tb.CTL().ClearBits(pac.TBIFG)
	return nil
}

// Cancel stops the count.
func (t *Timer) Cancel() { stop(t.tb) }

func (t *Timer) EnableInterrupts()  { t.tb.CTL().SetBits(pac.TBIE) }
func (t *Timer) DisableInterrupts() { t.tb.CTL().ClearBits(pac.TBIE) }

// Vector reads and acknowledges the highest-priority pending interrupt.
func (t *Timer) Vector() Vector { return Vector(t.tb.IV().Get()) }

// SubTimer flags when the main count passes its compare value.
type SubTimer struct {
	tb *pac.TimerB
	n  uint8
}

// CCR is the compare register number.
func (s *SubTimer) CCR() uint8 { return s.n }

// SetCount sets the compare value and clears a pending flag.
func (s *SubTimer) SetCount(count uint16) {
	s.tb.CCR(s.n).Set(count)
	s.tb.CCTL(s.n).ClearBits(pac.CCIFG)
}

// Wait consumes one match, or returns errcode.WouldBlock.
func (s *SubTimer) Wait() error {
	if !s.tb.CCTL(s.n).HasBits(pac.CCIFG) {
		return errcode.WouldBlock
	}
	s.tb.CCTL(s.n).ClearBits(pac.CCIFG)
	return nil
}

func (s *SubTimer) EnableInterrupts()  { s.tb.CCTL(s.n).SetBits(pac.CCIE) }
func (s *SubTimer) DisableInterrupts() { s.tb.CCTL(s.n).ClearBits(pac.CCIE) }
