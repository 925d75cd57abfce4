// Package pmm covers the power management module: releasing the GPIO lock
// held after reset, the internal voltage reference and the temperature
// sensor.
package pmm

import "fr2x5x-go/pac"

// Unlocked proves that LOCKLPM5 has been cleared, so port configuration
// reaches the pins. Only New returns a valid one.
type Unlocked struct{ ok bool }

// Valid reports whether u came from New.
func (u Unlocked) Valid() bool { return u.ok }

// ReferenceVoltage selects the internal reference level.
type ReferenceVoltage uint8

const (
	Ref1V5 ReferenceVoltage = iota
	Ref2V0
	Ref2V5
)

// Millivolts returns the nominal level.
func (v ReferenceVoltage) Millivolts() uint16 {
	switch v {
	case Ref2V0:
		return 2000
	case Ref2V5:
		return 2500
	}
	return 1500
}

// PMM owns the power management block.
type PMM struct {
	b *pac.PMM
}

// VRef is an enabled internal reference.
type VRef struct{ v ReferenceVoltage }

func (r *VRef) Voltage() ReferenceVoltage { return r.v }

// TempSensor is the enabled internal temperature sensor. It needs the
// reference to stay on while it exists.
type TempSensor struct{ ref *VRef }

// New claims the block and clears LOCKLPM5, unlocking the I/O ports.
func New(b *pac.PMM) (*PMM, Unlocked, error) {
	if err := b.Claim("pmm"); err != nil {
		return nil, Unlocked{}, err
	}
	b.PM5().ClearBits(pac.LOCKLPM5)
	return &PMM{b: b}, Unlocked{ok: true}, nil
}

// EnableReference turns on the internal reference at v.
func (p *PMM) EnableReference(v ReferenceVoltage) *VRef {
	const sel = 0x3 << pac.REFVSEL_SHIFT
	p.b.CTL2().Modify(sel, uint16(v)<<pac.REFVSEL_SHIFT|pac.INTREFEN)
	return &VRef{v: v}
}

// DisableReference turns the internal reference off.
func (p *PMM) DisableReference(_ *VRef) { p.b.CTL2().ClearBits(pac.INTREFEN) }

// EnableTempSensor turns on the temperature sensor.
func (p *PMM) EnableTempSensor(ref *VRef) *TempSensor {
	p.b.CTL2().SetBits(pac.TSENSOREN)
	return &TempSensor{ref: ref}
}

func (p *PMM) DisableTempSensor(_ *TempSensor) { p.b.CTL2().ClearBits(pac.TSENSOREN) }

// Reference returns the reference the sensor depends on.
func (t *TempSensor) Reference() *VRef { return t.ref }

// SoftwareBOR triggers a brownout reset.
func (p *PMM) SoftwareBOR() { p.b.CTL0().Set(pac.PMMPW | pac.PMMSWBOR) }

// SoftwarePOR triggers a power-on reset.
func (p *PMM) SoftwarePOR() { p.b.CTL0().Set(pac.PMMPW | pac.PMMSWPOR) }

// RegulatorOff sets PMMREGOFF so the next LPM3 or LPM4 entry becomes
// LPM3.5 or LPM4.5, then locks PMMCTL0 again by writing a wrong password to
// its high byte. svs keeps the high-side supply supervisor on.
func (p *PMM) RegulatorOff(svs bool) {
	v := pac.PMMPW | pac.PMMREGOFF
	if svs {
		v |= pac.SVSHE
	}
	p.b.CTL0().Set(v)
	p.b.R8(pac.PMMCTL0 + 1).Set(0)
}
