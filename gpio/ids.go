package gpio

// Pin identities are zero-size types. The embedded markers give the port,
// the bit and the functions the pin multiplexer offers, so an illegal
// transition fails to type-check.

type (
	onP1 struct{ irqPort }
	onP2 struct{ irqPort }
	onP3 struct{ irqPort }
	onP4 struct{ irqPort }
	onP5 struct{}
	onP6 struct{}
)

func (onP1) port() uint8 { return 1 }
func (onP2) port() uint8 { return 2 }
func (onP3) port() uint8 { return 3 }
func (onP4) port() uint8 { return 4 }
func (onP5) port() uint8 { return 5 }
func (onP6) port() uint8 { return 6 }

type (
	bit0 struct{}
	bit1 struct{}
	bit2 struct{}
	bit3 struct{}
	bit4 struct{}
	bit5 struct{}
	bit6 struct{}
	bit7 struct{}
)

func (bit0) bit() uint8 { return 0 }
func (bit1) bit() uint8 { return 1 }
func (bit2) bit() uint8 { return 2 }
func (bit3) bit() uint8 { return 3 }
func (bit4) bit() uint8 { return 4 }
func (bit5) bit() uint8 { return 5 }
func (bit6) bit() uint8 { return 6 }
func (bit7) bit() uint8 { return 7 }

type irqPort struct{}

func (irqPort) irq() {}

// Multiplexer capability sets.
type (
	muxFull   struct{}
	muxAnalog struct{}
	muxAlt12  struct{}
	muxAlt1   struct{}
	muxAlt3   struct{}
)

func (muxFull) alt1()     {}
func (muxFull) alt2()     {}
func (muxFull) alt3()     {}
func (muxFull) analog()   {}
func (muxAnalog) alt1()   {}
func (muxAnalog) alt3()   {}
func (muxAnalog) analog() {}
func (muxAlt12) alt1()    {}
func (muxAlt12) alt2()    {}
func (muxAlt1) alt1()     {}
func (muxAlt3) alt3()     {}

// Port 1.
type (
	P1_0 struct {
		onP1
		bit0
		muxFull
	}
	P1_1 struct {
		onP1
		bit1
		muxFull
	}
	P1_2 struct {
		onP1
		bit2
		muxFull
	}
	P1_3 struct {
		onP1
		bit3
		muxAnalog
	}
	P1_4 struct {
		onP1
		bit4
		muxAnalog
	}
	P1_5 struct {
		onP1
		bit5
		muxAnalog
	}
	P1_6 struct {
		onP1
		bit6
		muxFull
	}
	P1_7 struct {
		onP1
		bit7
		muxFull
	}
)

// Port 2.
type (
	P2_0 struct {
		onP2
		bit0
		muxAlt12
	}
	P2_1 struct {
		onP2
		bit1
		muxAlt12
	}
	P2_2 struct {
		onP2
		bit2
		muxAlt1
	}
	P2_3 struct {
		onP2
		bit3
		muxAlt1
	}
	P2_4 struct {
		onP2
		bit4
		muxAlt3
	}
	P2_5 struct {
		onP2
		bit5
		muxAlt3
	}
	P2_6 struct {
		onP2
		bit6
		muxAlt12
	}
	P2_7 struct {
		onP2
		bit7
		muxAlt12
	}
)

// Port 3.
type (
	P3_0 struct {
		onP3
		bit0
		muxAlt1
	}
	P3_1 struct {
		onP3
		bit1
		muxAlt3
	}
	P3_2 struct {
		onP3
		bit2
		muxAlt3
	}
	P3_3 struct {
		onP3
		bit3
		muxAlt3
	}
	P3_4 struct {
		onP3
		bit4
		muxAlt1
	}
	P3_5 struct {
		onP3
		bit5
		muxAlt3
	}
	P3_6 struct {
		onP3
		bit6
		muxAlt3
	}
	P3_7 struct {
		onP3
		bit7
		muxAlt3
	}
)

// Port 4.
type (
	P4_0 struct {
		onP4
		bit0
		muxAlt12
	}
	P4_1 struct {
		onP4
		bit1
		muxAlt1
	}
	P4_2 struct {
		onP4
		bit2
		muxAlt12
	}
	P4_3 struct {
		onP4
		bit3
		muxAlt12
	}
	P4_4 struct {
		onP4
		bit4
		muxAlt1
	}
	P4_5 struct {
		onP4
		bit5
		muxAlt1
	}
	P4_6 struct {
		onP4
		bit6
		muxAlt1
	}
	P4_7 struct {
		onP4
		bit7
		muxAlt1
	}
)

// Port 5.
type (
	P5_0 struct {
		onP5
		bit0
		muxFull
	}
	P5_1 struct {
		onP5
		bit1
		muxFull
	}
	P5_2 struct {
		onP5
		bit2
		muxAnalog
	}
	P5_3 struct {
		onP5
		bit3
		muxAnalog
	}
	P5_4 struct {
		onP5
		bit4
	}
)

// Port 6.
type (
	P6_0 struct {
		onP6
		bit0
		muxAlt1
	}
	P6_1 struct {
		onP6
		bit1
		muxAlt1
	}
	P6_2 struct {
		onP6
		bit2
		muxAlt1
	}
	P6_3 struct {
		onP6
		bit3
		muxAlt1
	}
	P6_4 struct {
		onP6
		bit4
		muxAlt1
	}
	P6_5 struct {
		onP6
		bit5
		muxAlt1
	}
	P6_6 struct {
		onP6
		bit6
		muxAlt1
	}
)
