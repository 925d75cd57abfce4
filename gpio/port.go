package gpio

import (
	"fr2x5x-go/errcode"
	"fr2x5x-go/pac"
	"fr2x5x-go/pmm"
)

// Vector reads a port's interrupt vector register. Each read returns the
// highest-priority pending pin and clears its flag.
type Vector struct{ port *pac.Port }

// Next returns the lowest-numbered pending pin.
func (v Vector) Next() (pin uint8, ok bool) {
	iv := v.port.IV().Get()
	if iv == 0 {
		return 0, false
	}
	return uint8(iv/2 - 1), true
}

func claim(p *pac.Port, num uint8, u pmm.Unlocked) error {
	const op = "gpio.Split"
	if p == nil || p.Num() != num {
		return errcode.New(errcode.InvalidParams, op, "wrong port block")
	}
	if !u.Valid() {
		return errcode.New(errcode.InvalidParams, op, "ports still locked, call pmm.New first")
	}
	return p.Claim("gpio")
}

func newPin[ID PinID](p *pac.Port) Pin[ID, Unconfigured] {
	var id ID
	l := &line{
		port: p,
		mask: 1 << id.bit(),
		name: "P" + string(rune('0'+id.port())) + "." + string(rune('0'+id.bit())),
	}
	return Pin[ID, Unconfigured]{l: l}
}

// Port1 holds the pins of P1 in their reset state.
type Port1 struct {
	P0 Pin[P1_0, Unconfigured]
	P1 Pin[P1_1, Unconfigured]
	P2 Pin[P1_2, Unconfigured]
	P3 Pin[P1_3, Unconfigured]
	P4 Pin[P1_4, Unconfigured]
	P5 Pin[P1_5, Unconfigured]
	P6 Pin[P1_6, Unconfigured]
	P7 Pin[P1_7, Unconfigured]
	IV Vector
}

// Split1 claims P1 and hands out its pins.
func Split1(p *pac.Port, u pmm.Unlocked) (Port1, error) {
	if err := claim(p, 1, u); err != nil {
		return Port1{}, err
	}
	return Port1{
		P0: newPin[P1_0](p),
		P1: newPin[P1_1](p),
		P2: newPin[P1_2](p),
		P3: newPin[P1_3](p),
		P4: newPin[P1_4](p),
		P5: newPin[P1_5](p),
		P6: newPin[P1_6](p),
		P7: newPin[P1_7](p),
		IV: Vector{port: p},
	}, nil
}

// Port2 holds the pins of P2 in their reset state.
type Port2 struct {
	P0 Pin[P2_0, Unconfigured]
	P1 Pin[P2_1, Unconfigured]
	P2 Pin[P2_2, Unconfigured]
	P3 Pin[P2_3, Unconfigured]
	P4 Pin[P2_4, Unconfigured]
	P5 Pin[P2_5, Unconfigured]
	P6 Pin[P2_6, Unconfigured]
	P7 Pin[P2_7, Unconfigured]
	IV Vector
}

// Split2 claims P2 and hands out its pins.
func Split2(p *pac.Port, u pmm.Unlocked) (Port2, error) {
	if err := claim(p, 2, u); err != nil {
		return Port2{}, err
	}
	return Port2{
		P0: newPin[P2_0](p),
		P1: newPin[P2_1](p),
		P2: newPin[P2_2](p),
		P3: newPin[P2_3](p),
		P4: newPin[P2_4](p),
		P5: newPin[P2_5](p),
		P6: newPin[P2_6](p),
		P7: newPin[P2_7](p),
		IV: Vector{port: p},
	}, nil
}

// Port3 holds the pins of P3 in their reset state.
type Port3 struct {
	P0 Pin[P3_0, Unconfigured]
	P1 Pin[P3_1, Unconfigured]
	P2 Pin[P3_2, Unconfigured]
	P3 Pin[P3_3, Unconfigured]
	P4 Pin[P3_4, Unconfigured]
	P5 Pin[P3_5, Unconfigured]
	P6 Pin[P3_6, Unconfigured]
	P7 Pin[P3_7, Unconfigured]
	IV Vector
}

// Split3 claims P3 and hands out its pins.
func Split3(p *pac.Port, u pmm.Unlocked) (Port3, error) {
	if err := claim(p, 3, u); err != nil {
		return Port3{}, err
	}
	return Port3{
		P0: newPin[P3_0](p),
		P1: newPin[P3_1](p),
		P2: newPin[P3_2](p),
		P3: newPin[P3_3](p),
		P4: newPin[P3_4](p),
		P5: newPin[P3_5](p),
		P6: newPin[P3_6](p),
		P7: newPin[P3_7](p),
		IV: Vector{port: p},
	}, nil
}

// Port4 holds the pins of P4 in their reset state.
type Port4 struct {
	P0 Pin[P4_0, Unconfigured]
	P1 Pin[P4_1, Unconfigured]
	P2 Pin[P4_2, Unconfigured]
	P3 Pin[P4_3, Unconfigured]
	P4 Pin[P4_4, Unconfigured]
	P5 Pin[P4_5, Unconfigured]
	P6 Pin[P4_6, Unconfigured]
	P7 Pin[P4_7, Unconfigured]
	IV Vector
}

// Split4 claims P4 and hands out its pins.
func Split4(p *pac.Port, u pmm.Unlocked) (Port4, error) {
	if err := claim(p, 4, u); err != nil {
		return Port4{}, err
	}
	return Port4{
		P0: newPin[P4_0](p),
		P1: newPin[P4_1](p),
		P2: newPin[P4_2](p),
		P3: newPin[P4_3](p),
		P4: newPin[P4_4](p),
		P5: newPin[P4_5](p),
		P6: newPin[P4_6](p),
		P7: newPin[P4_7](p),
		IV: Vector{port: p},
	}, nil
}

// Port5 holds the pins of P5 in their reset state.
type Port5 struct {
	P0 Pin[P5_0, Unconfigured]
	P1 Pin[P5_1, Unconfigured]
	P2 Pin[P5_2, Unconfigured]
	P3 Pin[P5_3, Unconfigured]
	P4 Pin[P5_4, Unconfigured]
}

// Split5 claims P5 and hands out its pins.
func Split5(p *pac.Port, u pmm.Unlocked) (Port5, error) {
	if err := claim(p, 5, u); err != nil {
		return Port5{}, err
	}
	return Port5{
		P0: newPin[P5_0](p),
		P1: newPin[P5_1](p),
		P2: newPin[P5_2](p),
		P3: newPin[P5_3](p),
		P4: newPin[P5_4](p),
	}, nil
}

// Port6 holds the pins of P6 in their reset state.
type Port6 struct {
	P0 Pin[P6_0, Unconfigured]
	P1 Pin[P6_1, Unconfigured]
	P2 Pin[P6_2, Unconfigured]
	P3 Pin[P6_3, Unconfigured]
	P4 Pin[P6_4, Unconfigured]
	P5 Pin[P6_5, Unconfigured]
	P6 Pin[P6_6, Unconfigured]
}

// Split6 claims P6 and hands out its pins.
func Split6(p *pac.Port, u pmm.Unlocked) (Port6, error) {
	if err := claim(p, 6, u); err != nil {
		return Port6{}, err
	}
	return Port6{
		P0: newPin[P6_0](p),
		P1: newPin[P6_1](p),
		P2: newPin[P6_2](p),
		P3: newPin[P6_3](p),
		P4: newPin[P6_4](p),
		P5: newPin[P6_5](p),
		P6: newPin[P6_6](p),
	}, nil
}
