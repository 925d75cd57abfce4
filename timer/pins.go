package timer

import "fr2x5x-go/gpio"

// Unit names a Timer_B block at the type level.
type Unit interface{ num() uint8 }

type (
	TB0 struct{}
	TB1 struct{}
	TB2 struct{}
	TB3 struct{}
)

func (TB0) num() uint8 { return 0 }
func (TB1) num() uint8 { return 1 }
func (TB2) num() uint8 { return 2 }
func (TB3) num() uint8 { return 3 }

// TBCLK is a pin feeding an external clock into timer U.
type TBCLK[U Unit] struct{ pin gpio.Owned }

func TBCLK0(p gpio.Pin[gpio.P2_7, gpio.Alt1[gpio.Input]]) TBCLK[TB0] {
	return TBCLK[TB0]{gpio.Consume(p)}
}

func TBCLK1(p gpio.Pin[gpio.P2_2, gpio.Alt1[gpio.Input]]) TBCLK[TB1] {
	return TBCLK[TB1]{gpio.Consume(p)}
}

func TBCLK2(p gpio.Pin[gpio.P5_2, gpio.Alt1[gpio.Input]]) TBCLK[TB2] {
	return TBCLK[TB2]{gpio.Consume(p)}
}

func TBCLK3(p gpio.Pin[gpio.P6_6, gpio.Alt1[gpio.Input]]) TBCLK[TB3] {
	return TBCLK[TB3]{gpio.Consume(p)}
}

// Output is a pin driven by one compare register of timer U.
type Output[U Unit] struct {
	pin gpio.Owned
	ccr uint8
}

// CCR is the compare register driving the pin.
func (o Output[U]) CCR() uint8 { return o.ccr }

func out[U Unit](o gpio.Owned, ccr uint8) Output[U] { return Output[U]{pin: o, ccr: ccr} }

// ---- TB0: P1.6, P1.7 on the second function ----

func TB0Out1(p gpio.Pin[gpio.P1_6, gpio.Alt2[gpio.Output]]) Output[TB0] {
	return out[TB0](gpio.Consume(p), 1)
}

func TB0Out2(p gpio.Pin[gpio.P1_7, gpio.Alt2[gpio.Output]]) Output[TB0] {
	return out[TB0](gpio.Consume(p), 2)
}

// ---- TB1: P2.0, P2.1 ----

func TB1Out1(p gpio.Pin[gpio.P2_0, gpio.Alt1[gpio.Output]]) Output[TB1] {
	return out[TB1](gpio.Consume(p), 1)
}

func TB1Out2(p gpio.Pin[gpio.P2_1, gpio.Alt1[gpio.Output]]) Output[TB1] {
	return out[TB1](gpio.Consume(p), 2)
}

// ---- TB2: P5.0, P5.1 ----

func TB2Out1(p gpio.Pin[gpio.P5_0, gpio.Alt1[gpio.Output]]) Output[TB2] {
	return out[TB2](gpio.Consume(p), 1)
}

func TB2Out2(p gpio.Pin[gpio.P5_1, gpio.Alt1[gpio.Output]]) Output[TB2] {
	return out[TB2](gpio.Consume(p), 2)
}

// ---- TB3: P6.0 to P6.5 ----

func TB3Out1(p gpio.Pin[gpio.P6_0, gpio.Alt1[gpio.Output]]) Output[TB3] {
	return out[TB3](gpio.Consume(p), 1)
}

func TB3Out2(p gpio.Pin[gpio.P6_1, gpio.Alt1[gpio.Output]]) Output[TB3] {
	return out[TB3](gpio.Consume(p), 2)
}

func TB3Out3(p gpio.Pin[gpio.P6_2, gpio.Alt1[gpio.Output]]) Output[TB3] {
	return out[TB3](gpio.Consume(p), 3)
}

func TB3Out4(p gpio.Pin[gpio.P6_3, gpio.Alt1[gpio.Output]]) Output[TB3] {
	return out[TB3](gpio.Consume(p), 4)
}

func TB3Out5(p gpio.Pin[gpio.P6_4, gpio.Alt1[gpio.Output]]) Output[TB3] {
	return out[TB3](gpio.Consume(p), 5)
}

func TB3Out6(p gpio.Pin[gpio.P6_5, gpio.Alt1[gpio.Output]]) Output[TB3] {
	return out[TB3](gpio.Consume(p), 6)
}
