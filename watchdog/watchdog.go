// Package watchdog drives the WDT_A block, either as a watchdog that resets
// the chip unless fed, or as an interval timer.
//
// The chip starts with the watchdog running from reset, so New holds it
// straight away. Every write to the control register carries the password;
// a write without it resets the chip.
package watchdog

import (
	"fr2x5x-go/clock"
	"fr2x5x-go/errcode"
	"fr2x5x-go/pac"
	"fr2x5x-go/x/conv"
	"fr2x5x-go/x/logx"
	"fr2x5x-go/x/timex"
)

// Source is the WDT clock, in WDTSSEL order.
type Source uint8

const (
	SourceSMCLK Source = iota
	SourceACLK
	SourceVLO
)

func (s Source) String() string {
	switch s {
	case SourceSMCLK:
		return "SMCLK"
	case SourceACLK:
		return "ACLK"
	}
	return "VLO"
}

// Period is the number of clock cycles before expiry, in WDTIS order.
type Period uint8

const (
	Period2G Period = iota // 2^31 cycles
	Period128M
	Period8192K
	Period512K
	Period32K
	Period8192
	Period512
	Period64
)

var periodLog2 = [...]uint8{31, 27, 23, 19, 15, 13, 9, 6}

// Cycles is the length of p in clock cycles.
func (p Period) Cycles() uint32 {
	if int(p) >= len(periodLog2) {
		return 0
	}
	return 1 << periodLog2[p]
}

// core is the register access shared by both modes.
type core struct {
	b   *pac.WDT
	tm  uint16 // WDTTMSEL or zero
	src Source
	hz  uint32
}

// write stores v with the password. Only the low byte of the control
// register is state; the high byte reads back as 0x69.
func (c *core) write(v uint16) { c.b.CTL().Set(pac.WDTPW | v&pac.WDTCTL_LOW) }

func (c *core) ctl() uint16 { return c.b.CTL().Get() & pac.WDTCTL_LOW }

func (c *core) pause() { c.write(c.ctl() | pac.WDTHOLD) }

// use halts and clears the counter, then selects the clock with the
// counter still held.
func (c *core) use(s Source, hz uint32) {
	c.write(c.tm | pac.WDTHOLD | pac.WDTCNTCL)
	c.write(c.tm | uint16(s)<<pac.WDTSSEL_SHIFT | pac.WDTHOLD)
	c.src, c.hz = s, hz
	logx.L().Debug("watchdog: clock", "source", s.String(), "hz", conv.Hz(hz))
}

// start clears the counter, releases the hold and sets the period in one
// write.
func (c *core) start(p Period) {
	v := c.ctl() &^ (pac.WDTHOLD | pac.WDTIS_MASK | pac.WDTTMSEL)
	c.write(v | c.tm | pac.WDTCNTCL | uint16(p)&pac.WDTIS_MASK)
}

func (c *core) clock(op string, k *clock.Clocks, s Source, b clock.Bus) error {
	if k == nil {
		return errcode.New(errcode.InvalidParams, op, "nil clocks")
	}
	hz := k.BusHz(b)
	if hz == 0 {
		return errcode.New(errcode.InvalidSource, op, s.String()+" is off")
	}
	c.use(s, hz)
	return nil
}

func (c *core) periodMs(p Period) uint32 {
	return uint32(timex.MsFromTicks(c.hz, uint64(p.Cycles())))
}

// Watchdog resets the chip when a started period runs out without a Feed.
type Watchdog struct {
	c *core
}

// New claims the WDT, holds it and clocks it from VLO.
func New(b *pac.WDT) (*Watchdog, error) {
	if b == nil {
		return nil, errcode.New(errcode.InvalidParams, "watchdog.New", "nil WDT block")
	}
	if err := b.Claim("watchdog"); err != nil {
		return nil, err
	}
	c := &core{b: b}
	c.write(pac.WDTHOLD | uint16(SourceVLO)<<pac.WDTSSEL_SHIFT)
	c.src, c.hz = SourceVLO, clock.VLOHz
	return &Watchdog{c: c}, nil
}

func (w *Watchdog) live() *core {
	if w.c == nil {
		panic("watchdog: used after mode change")
	}
	return w.c
}

// UseACLK and UseSMCLK clock the watchdog from a frozen bus; UseVLO from
// the 10 kHz oscillator. Each leaves the watchdog held.
func (w *Watchdog) UseACLK(k *clock.Clocks) error {
	return w.live().clock("watchdog.UseACLK", k, SourceACLK, clock.Auxiliary)
}

func (w *Watchdog) UseSMCLK(k *clock.Clocks) error {
	return w.live().clock("watchdog.UseSMCLK", k, SourceSMCLK, clock.Subsystem)
}

func (w *Watchdog) UseVLO() { w.live().use(SourceVLO, clock.VLOHz) }

func (w *Watchdog) Source() Source { return w.live().src }

// PeriodMs is how long p lasts on the current clock.
func (w *Watchdog) PeriodMs(p Period) uint32 { return w.live().periodMs(p) }

// Start arms the watchdog with period p.
func (w *Watchdog) Start(p Period) { w.live().start(p) }

// Feed restarts the current period.
func (w *Watchdog) Feed() {
	c := w.live()
	c.write(c.ctl() | pac.WDTCNTCL)
}

// Disable holds the counter. Hold does the same in either mode.
func (w *Watchdog) Disable() { w.live().pause() }
func (w *Watchdog) Hold()    { w.live().pause() }

// IntoInterval switches to interval mode with the counter held. w is
// unusable afterwards.
func (w *Watchdog) IntoInterval() *Interval {
	c := w.live()
	w.c = nil
	c.tm = pac.WDTTMSEL
	c.write(c.ctl() | c.tm | pac.WDTHOLD)
	return &Interval{c: c}
}

// Interval flags WDTIFG each time its period runs out.
type Interval struct {
	c *core
}

func (t *Interval) live() *core {
	if t.c == nil {
		panic("watchdog: used after mode change")
	}
	return t.c
}

func (t *Interval) UseACLK(k *clock.Clocks) error {
	return t.live().clock("watchdog.UseACLK", k, SourceACLK, clock.Auxiliary)
}

func (t *Interval) UseSMCLK(k *clock.Clocks) error {
	return t.live().clock("watchdog.UseSMCLK", k, SourceSMCLK, clock.Subsystem)
}

func (t *Interval) UseVLO()                  { t.live().use(SourceVLO, clock.VLOHz) }
func (t *Interval) Source() Source           { return t.live().src }
func (t *Interval) PeriodMs(p Period) uint32 { return t.live().periodMs(p) }

// Start runs the interval timer with period p.
func (t *Interval) Start(p Period) { t.live().start(p) }

// Wait consumes one expiry, or returns errcode.WouldBlock. It never
// succeeds while the timer is held.
func (t *Interval) Wait() error {
	ifg := t.live().b.SFR.IFG()
	if !ifg.HasBits(pac.WDTIFG) {
		return errcode.WouldBlock
	}
	ifg.ClearBits(pac.WDTIFG)
	return nil
}

// Cancel holds the counter.
func (t *Interval) Cancel() { t.live().pause() }
func (t *Interval) Hold()   { t.live().pause() }

func (t *Interval) EnableInterrupts()  { t.live().b.SFR.IE().SetBits(pac.WDTIE) }
func (t *Interval) DisableInterrupts() { t.live().b.SFR.IE().ClearBits(pac.WDTIE) }

// IntoWatchdog switches back to watchdog mode with the counter held and
// any stale interval flag cleared, so it cannot trigger a reset. t is
// unusable afterwards.
func (t *Interval) IntoWatchdog() *Watchdog {
	c := t.live()
	t.c = nil
	c.tm = 0
	c.write(c.ctl()&^pac.WDTTMSEL | pac.WDTHOLD)
	c.b.SFR.IFG().ClearBits(pac.WDTIFG)
	return &Watchdog{c: c}
}
