// Package adc drives the 12-bit SAR ADC in single-channel, single-conversion
// mode.
//
// ReadCount starts a conversion on its first call and returns
// errcode.WouldBlock until the result is ready; that is the only error it
// returns. Read wraps it in x/nb.Block.
package adc

import (
	"fr2x5x-go/clock"
	"fr2x5x-go/errcode"
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
	"fr2x5x-go/pmm"
	"fr2x5x-go/x/conv"
	"fr2x5x-go/x/logx"
	"fr2x5x-go/x/nb"
)

// MaxClockHz is the highest ADCCLK the converter is specified for.
const MaxClockHz = 5_000_000

// MODCLKHz is the typical rate of the ADC's own oscillator.
const MODCLKHz = 4_800_000

// Source is the ADCCLK source, in ADCSSEL order.
type Source uint8

const (
	SourceMODCLK Source = iota
	SourceACLK
	SourceSMCLK
)

// Resolution is the conversion width, in ADCRES order.
type Resolution uint8

const (
	Bits8 Resolution = iota
	Bits10
	Bits12
)

// FullScale is the count one past the top of the range.
func (r Resolution) FullScale() uint32 {
	switch r {
	case Bits8:
		return 256
	case Bits10:
		return 1024
	}
	return 4096
}

// SampleTime is the sample-and-hold period in ADCCLK cycles, in ADCSHT
// order.
type SampleTime uint8

const (
	Sample4 SampleTime = iota
	Sample8
	Sample16
	Sample32
	Sample64
	Sample96
	Sample128
	Sample192
	Sample256
	Sample384
	Sample512
	Sample768
	Sample1024
)

type Config struct {
	Source     Source
	Resolution Resolution
	SampleTime SampleTime
	// LowRate limits the reference buffer to 50 ksps for lower current.
	LowRate bool
}

func DefaultConfig() Config {
	return Config{Source: SourceMODCLK, Resolution: Bits10, SampleTime: Sample8}
}

func (c Config) Validate() error {
	const op = "adc.Config"
	switch {
	case c.Source > SourceSMCLK:
		return errcode.New(errcode.InvalidSource, op, "unknown clock source")
	case c.Resolution > Bits12:
		return errcode.New(errcode.InvalidParams, op, "resolution out of range")
	case c.SampleTime > Sample1024:
		return errcode.New(errcode.InvalidParams, op, "sample time out of range")
	}
	return nil
}

// Channel is an ADC input number.
type Channel uint8

// Internal inputs.
const (
	ChannelTemp Channel = 12
	ChannelVRef Channel = 13
	ChannelVSS  Channel = 14
	ChannelVCC  Channel = 15
)

// PinChannel is the input an analogue pin feeds.
func PinChannel[ID gpio.AnalogCapable](p gpio.Pin[ID, gpio.Analog]) Channel {
	return Channel(gpio.AnalogChannel(p))
}

// TempChannel is the input of the enabled temperature sensor.
func TempChannel(*pmm.TempSensor) Channel { return ChannelTemp }

// VRefChannel is the input of the enabled internal reference.
func VRefChannel(*pmm.VRef) Channel { return ChannelVRef }

var predividers = [...]uint32{1, 4, 64}

// Dividers picks the smallest predivider and divider pair that brings hz
// down to MaxClockHz or below. pre indexes ADCPDIV; div is 1 to 8.
func Dividers(hz uint32) (pre, div uint8, adcHz uint32) {
	for i, p := range predividers {
		for d := uint32(1); d <= 8; d++ {
			if hz <= MaxClockHz*p*d {
				return uint8(i), uint8(d), hz / (p * d)
			}
		}
	}
	return 2, 8, hz / 512
}

// ADC owns the converter.
type ADC struct {
	b       *pac.ADC
	res     Resolution
	clockHz uint32

	waiting bool
	ch      Channel
}

// New configures the converter. The ADCCLK dividers come from the source
// rate so that ADCCLK stays within MaxClockHz.
func New(b *pac.ADC, clk *clock.Clocks, cfg Config) (*ADC, error) {
	const op = "adc.New"
	if b == nil {
		return nil, errcode.New(errcode.InvalidParams, op, "nil ADC block")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var srcHz uint32
	switch cfg.Source {
	case SourceMODCLK:
		srcHz = MODCLKHz
	case SourceACLK, SourceSMCLK:
		if clk == nil {
			return nil, errcode.New(errcode.InvalidParams, op, "nil clocks")
		}
		bus := clock.Auxiliary
		if cfg.Source == SourceSMCLK {
			bus = clock.Subsystem
		}
		if srcHz = clk.BusHz(bus); srcHz == 0 {
			return nil, errcode.New(errcode.InvalidSource, op, bus.String()+" is off")
		}
	}
	if err := b.Claim("adc"); err != nil {
		return nil, err
	}
	pre, div, adcHz := Dividers(srcHz)

	b.CTL0().ClearBits(pac.ADCON | pac.ADCENC)
	b.CTL0().Set(uint16(cfg.SampleTime) << pac.ADCSHT_SHIFT)
	b.CTL1().Set(uint16(cfg.Source)<<pac.ADCSSEL_SHIFT | pac.ADCSHP | uint16(div-1)<<pac.ADCDIV_SHIFT)
	ctl2 := uint16(pre)<<pac.ADCPDIV_SHIFT | uint16(cfg.Resolution)<<pac.ADCRES_SHIFT
	if cfg.LowRate {
		ctl2 |= pac.ADCSR
	}
	b.CTL2().Set(ctl2)

	logx.L().Debug("adc: ready",
		"adcclk", conv.Hz(adcHz),
		"predivider", predividers[pre],
		"divider", div)
	return &ADC{b: b, res: cfg.Resolution, clockHz: adcHz}, nil
}

// ClockHz is the ADCCLK rate after division.
func (a *ADC) ClockHz() uint32 { return a.clockHz }

// Busy reports whether a conversion is running.
func (a *ADC) Busy() bool { return a.b.CTL1().HasBits(pac.ADCBUSY) }

func (a *ADC) Enable()  { a.b.CTL0().SetBits(pac.ADCON) }
func (a *ADC) Disable() { a.b.CTL0().ClearBits(pac.ADCON | pac.ADCENC) }

// ReadCount returns the raw result for ch. The first call starts the
// conversion. Asking for another channel while one is running waits for it
// to finish and then starts ch.
func (a *ADC) ReadCount(ch Channel) (uint16, error) {
	if a.waiting {
		if a.Busy() {
			return 0, errcode.WouldBlock
		}
		a.waiting = false
		if a.ch == ch {
			return a.b.MEM0().Get(), nil
		}
	}
	a.Disable()
	a.b.MCTL0().Modify(pac.ADCINCH_MASK, uint16(ch)&pac.ADCINCH_MASK)
	a.Enable()
	a.b.CTL0().SetBits(pac.ADCENC | pac.ADCSC)
	a.waiting, a.ch = true, ch
	return 0, errcode.WouldBlock
}

// Read blocks until a result for ch is ready.
func (a *ADC) Read(ch Channel) (uint16, error) {
	return nb.Block(func() (uint16, error) { return a.ReadCount(ch) })
}

// CountToMv scales a count to millivolts against a reference of refMv.
func (a *ADC) CountToMv(count, refMv uint16) uint16 {
	return uint16(uint32(count) * uint32(refMv) / a.res.FullScale())
}

// ReadVoltageMv is ReadCount scaled by CountToMv.
func (a *ADC) ReadVoltageMv(ch Channel, refMv uint16) (uint16, error) {
	n, err := a.ReadCount(ch)
	if err != nil {
		return 0, err
	}
	return a.CountToMv(n, refMv), nil
}
