package serial

import (
	"testing"

	"fr2x5x-go/clock"
	"fr2x5x-go/errcode"
	"fr2x5x-go/fram"
	"fr2x5x-go/gpio"
	"fr2x5x-go/internal/sim"
	"fr2x5x-go/pac"
	"fr2x5x-go/pmm"

	"tinygo.org/x/drivers"
)

type rig struct {
	chip *sim.Chip
	p    *pac.Peripherals
	clk  *clock.Clocks
	p1   gpio.Port1
	uart *sim.UART
}

func newRig(t *testing.T, cfg func(clock.Config) clock.Config) *rig {
	t.Helper()
	chip := sim.New()
	p, err := pac.Take(chip)
	if err != nil {
		t.Fatal(err)
	}
	fr, _ := fram.New(p.FRCTL)
	_, unlocked, _ := pmm.New(p.PMM)
	clk, _, err := cfg(clock.New(p.CS, chip)).Freeze(fr)
	if err != nil {
		t.Fatal(err)
	}
	p1, err := gpio.Split1(p.P1, unlocked)
	if err != nil {
		t.Fatal(err)
	}
	uart := chip.AttachUART(p.UCA0)
	chip.ResetTrace()
	return &rig{chip: chip, p: p, clk: clk, p1: p1, uart: uart}
}

func dco8(c clock.Config) clock.Config {
	return c.Main(clock.DCO(clock.DCO8MHz), clock.Div1).
		Subsystem(clock.FromMain(), clock.Div1).
		Auxiliary(clock.REFO(), clock.Div1)
}

func (r *rig) pinsA0() Pins[A0] {
	return Pins[A0]{
		TX: TXA0(gpio.IntoAlt1[gpio.Output](r.p1.P7)),
		RX: RXA0(gpio.IntoAlt1[gpio.Input](r.p1.P6)),
	}
}

func (r *rig) open(t *testing.T, cfg Config) *Serial[A0] {
	t.Helper()
	s, err := NewSerial(r.p.UCA0, r.pinsA0(), r.clk, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestComputeModulation(t *testing.T) {
	cases := []struct {
		clk, baud uint32
		want      Modulation
		achieved  uint32
	}{
		{32768, 9600, Modulation{BR: 3, BRS: 0x92}, 9709},
		{1_000_000, 9600, Modulation{BR: 6, BRF: 8, BRS: 0x11, OS16: true}, 9592},
		{8_000_000, 115200, Modulation{BR: 4, BRF: 5, BRS: 0x53, OS16: true}, 115107},
		{153_600, 9600, Modulation{BR: 1, OS16: true}, 9600},
		{9600, 9600, Modulation{BR: 1}, 9600},
	}
	for _, c := range cases {
		got, err := ComputeModulation(c.clk, c.baud)
		if err != nil {
			t.Fatalf("%d/%d: %v", c.clk, c.baud, err)
		}
		if got != c.want {
			t.Errorf("%d/%d: got %+v want %+v", c.clk, c.baud, got, c.want)
		}
		if b := got.Baud(c.clk); b != c.achieved {
			t.Errorf("%d/%d: achieved %d want %d", c.clk, c.baud, b, c.achieved)
		}
	}

	errs := map[string]struct {
		clk, baud uint32
		want      errcode.Code
	}{
		"zero baud":     {9600, 0, errcode.InvalidParams},
		"above clock":   {1000, 9600, errcode.FrequencyTooHigh},
		"divider range": {24_000_000, 300, errcode.InvalidParams},
	}
	for name, c := range errs {
		if _, err := ComputeModulation(c.clk, c.baud); errcode.Of(err) != c.want {
			t.Errorf("%s: got %v want %s", name, err, c.want)
		}
	}
}

func TestNewSerial(t *testing.T) {
	r := newRig(t, dco8)
	cfg := Config{Baud: 9600, Source: SourceACLK, Parity: ParityEven, TwoStopBits: true}
	s := r.open(t, cfg)
	if s.AchievedBaud() != 9709 {
		t.Fatalf("achieved %d", s.AchievedBaud())
	}
	u := r.p.UCA0
	want := pac.UCSSEL_ACLK | pac.UCPEN | pac.UCPAR | pac.UCSPB | pac.UCRXEIE
	if got := r.chip.Peek16(u.CTLW0().Addr()); got != want {
		t.Fatalf("CTLW0 %#x want %#x", got, want)
	}
	if got := r.chip.Peek16(u.BRW().Addr()); got != 3 {
		t.Fatalf("BRW %d", got)
	}
	if got := r.chip.Peek16(u.MCTLW().Addr()); got != 0x92<<pac.UCBRS_SHIFT {
		t.Fatalf("MCTLW %#x", got)
	}
	ctl := r.chip.WritesTo(u.CTLW0().Addr())
	if len(ctl) < 3 || ctl[0]&pac.UCSWRST == 0 || ctl[1]&pac.UCSWRST == 0 || ctl[len(ctl)-1]&pac.UCSWRST != 0 {
		t.Fatalf("reset not held around configuration: %#x", ctl)
	}
	if r.chip.LastWrite(u.MCTLW().Addr()) > r.chip.LastWrite(u.CTLW0().Addr()) {
		t.Fatal("modulation written after release from reset")
	}
	if _, err := NewSerial(u, Pins[A0]{}, r.clk, cfg); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("empty pin set: %v", err)
	}

	// SMCLK at 8 MHz oversamples
	r = newRig(t, dco8)
	u = r.p.UCA0
	s = r.open(t, Config{Baud: 115200, Source: SourceSMCLK, MSBFirst: true, SevenBits: true})
	mod, _ := ComputeModulation(r.clk.SubsystemHz(), 115200)
	if s.Modulation() != mod || !mod.OS16 {
		t.Fatalf("modulation %+v", s.Modulation())
	}
	if got := r.chip.Peek16(u.MCTLW().Addr()); got&pac.UCOS16 == 0 || got&pac.UCBRF_MASK>>pac.UCBRF_SHIFT != uint16(mod.BRF) {
		t.Fatalf("MCTLW %#x", got)
	}
	if got := r.chip.Peek16(u.CTLW0().Addr()); got&(pac.UCMSB|pac.UC7BIT) != pac.UCMSB|pac.UC7BIT || got&pac.UCPEN != 0 {
		t.Fatalf("CTLW0 %#x", got)
	}
}

func TestNewSerialRejects(t *testing.T) {
	r := newRig(t, func(c clock.Config) clock.Config { return c.SubsystemOff() })
	pins := r.pinsA0()
	r.chip.ResetTrace()

	cases := map[string]struct {
		u    *pac.EUSCI
		pins Pins[A0]
		cfg  Config
		want errcode.Code
	}{
		"zero baud":    {r.p.UCA0, pins, Config{Source: SourceACLK}, errcode.InvalidParams},
		"above ACLK":   {r.p.UCA0, pins, Config{Baud: 115200, Source: SourceACLK}, errcode.FrequencyTooHigh},
		"SMCLK off":    {r.p.UCA0, pins, DefaultConfig(), errcode.InvalidSource},
		"bad source":   {r.p.UCA0, pins, Config{Baud: 9600, Source: 3}, errcode.InvalidSource},
		"bad parity":   {r.p.UCA0, pins, Config{Baud: 9600, Source: SourceACLK, Parity: 3}, errcode.InvalidParams},
		"UCLK no rate": {r.p.UCA0, pins, Config{Baud: 9600}, errcode.InvalidParams},
		"UCLK no pin":  {r.p.UCA0, pins, Config{Baud: 9600, UCLKHz: 1_000_000}, errcode.InvalidParams},
		"wrong block":  {r.p.UCA1, pins, Config{Baud: 9600, Source: SourceACLK}, errcode.InvalidParams},
		"no pins":      {r.p.UCA0, Pins[A0]{}, Config{Baud: 9600, Source: SourceACLK}, errcode.InvalidParams},
	}
	for name, c := range cases {
		if _, err := NewSerial(c.u, c.pins, r.clk, c.cfg); errcode.Of(err) != c.want {
			t.Errorf("%s: got %v want %s", name, err, c.want)
		}
	}
	if len(r.chip.Writes()) != 0 {
		t.Fatal("rejected constructor wrote registers")
	}

	cfg := Config{Baud: 9600, Source: SourceACLK}
	if _, err := NewSerial(r.p.UCA0, pins, r.clk, cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSerial(r.p.UCA0, pins, r.clk, cfg); errcode.Of(err) != errcode.PeripheralInUse {
		t.Fatalf("second UART: %v", err)
	}
}

func TestUCLKSource(t *testing.T) {
	r := newRig(t, dco8)
	pins := Pins[A0]{
		TX:   TXA0(gpio.IntoAlt1[gpio.Output](r.p1.P7)),
		UCLK: UCLKA0(gpio.IntoAlt1[gpio.Input](r.p1.P5)),
	}
	s, err := NewSerial(r.p.UCA0, pins, nil, Config{Baud: 9600, UCLKHz: 1_000_000})
	if err != nil {
		t.Fatal(err)
	}
	if s.AchievedBaud() != 9592 {
		t.Fatalf("achieved %d", s.AchievedBaud())
	}
	u := r.p.UCA0
	if got := r.chip.Peek16(u.CTLW0().Addr()) & pac.UCSSEL_MASK; got != pac.UCSSEL_UCLK {
		t.Fatalf("UCSSEL %#x", got)
	}
	want := uint16(0x11)<<pac.UCBRS_SHIFT | 8<<pac.UCBRF_SHIFT | pac.UCOS16
	if got := r.chip.Peek16(u.MCTLW().Addr()); got != want {
		t.Fatalf("MCTLW %#x want %#x", got, want)
	}
	if _, err := s.ReadByte(); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("read on a TX-only link: %v", err)
	}
	if s.Buffered() != 0 {
		t.Fatal("TX-only link reports received bytes")
	}
}

func TestLoopback(t *testing.T) {
	r := newRig(t, dco8)
	s := r.open(t, Config{Baud: 115200, Source: SourceSMCLK, Loopback: true})
	if r.chip.Peek16(r.p.UCA0.STATW().Addr())&pac.UCLISTEN == 0 {
		t.Fatal("loopback not enabled")
	}
	for _, b := range []byte("HELLO") {
		if err := s.WriteByte(b); err != nil {
			t.Fatal(err)
		}
		got, err := s.ReadByte()
		if err != nil || got != b {
			t.Fatalf("echo of %q gave %q, %v", b, got, err)
		}
	}
	if string(r.uart.Sent) != "HELLO" {
		t.Fatalf("sent %q", r.uart.Sent)
	}

	if n, err := s.Write([]byte("HI")); n != 2 || err != nil {
		t.Fatalf("Write gave %d, %v", n, err)
	}
	b, err := s.ReadByte()
	if errcode.Of(err) != errcode.Overrun || b != 'I' {
		t.Fatalf("overrun read gave %q, %v", b, err)
	}
	if _, err := s.ReadByte(); !errcode.IsWouldBlock(err) {
		t.Fatalf("read after draining: %v", err)
	}
}

func TestWouldBlock(t *testing.T) {
	r := newRig(t, dco8)
	s := r.open(t, DefaultConfig())
	r.uart.TxHold = 2

	if _, err := s.ReadByte(); !errcode.IsWouldBlock(err) {
		t.Fatalf("read with nothing received: %v", err)
	}
	if err := s.WriteByte(1); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteByte(2); !errcode.IsWouldBlock(err) {
		t.Fatalf("write into a full buffer: %v", err)
	}
	if n, err := s.WriteString("\x03"); n != 1 || err != nil {
		t.Fatalf("blocking write gave %d, %v", n, err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if string(r.uart.Sent) != "\x01\x03" {
		t.Fatalf("sent %x", r.uart.Sent)
	}
}

func TestReceiveErrors(t *testing.T) {
	r := newRig(t, dco8)
	s := r.open(t, Config{Baud: 9600, Source: SourceACLK, Parity: ParityOdd})

	r.uart.Inject(0x55, pac.UCFE)
	if _, err := s.ReadByte(); errcode.Of(err) != errcode.Framing {
		t.Fatalf("framing: %v", err)
	}
	r.uart.Inject(0x66, pac.UCPE)
	if _, err := s.ReadByte(); errcode.Of(err) != errcode.Parity {
		t.Fatalf("parity: %v", err)
	}
	r.uart.Inject(1, 0)
	r.uart.Inject(2, 0)
	b, err := s.ReadByte()
	if errcode.Of(err) != errcode.Overrun || b != 2 {
		t.Fatalf("overrun gave %#x, %v", b, err)
	}
	r.uart.Inject(3, 0)
	if b, err := s.ReadByte(); err != nil || b != 3 {
		t.Fatalf("flags not cleared: %#x, %v", b, err)
	}
}

func TestReader(t *testing.T) {
	r := newRig(t, dco8)
	var port drivers.UART = r.open(t, DefaultConfig())

	if n, err := port.Read(nil); n != 0 || err != nil {
		t.Fatalf("empty read gave %d, %v", n, err)
	}
	r.uart.Inject('A', 0)
	if port.Buffered() != 1 {
		t.Fatal("received byte not buffered")
	}
	buf := make([]byte, 4)
	n, err := port.Read(buf)
	if err != nil || n != 1 || buf[0] != 'A' {
		t.Fatalf("Read gave %d %q, %v", n, buf[:n], err)
	}
	if port.Buffered() != 0 {
		t.Fatal("byte left after Read")
	}
}

func TestInterrupts(t *testing.T) {
	r := newRig(t, dco8)
	s := r.open(t, DefaultConfig())
	u := r.p.UCA0
	s.EnableInterrupts(true, false)
	if r.chip.Peek16(u.IE().Addr()) != pac.UCRXIFG {
		t.Fatal("RX interrupt not enabled alone")
	}
	s.EnableInterrupts(false, true)
	if r.chip.Peek16(u.IE().Addr()) != pac.UCTXIFG {
		t.Fatal("TX interrupt not enabled alone")
	}
	r.chip.Poke16(u.IV().Addr(), 2)
	if s.Vector() != VectorRxFull {
		t.Fatal("vector")
	}
}
