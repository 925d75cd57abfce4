//go:build legacy

package spi

import (
	"testing"

	"fr2x5x-go/errcode"
	"fr2x5x-go/pac"

	"golang.org/x/exp/io/spi/driver"
)

func TestConfigure(t *testing.T) {
	r := newRig(t, dco8)
	r.chip.AttachSPI(r.p.UCA0)
	m, err := NewMaster(r.p.UCA0, r.pinsA0(), r.clk, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	conn, err := m.Open()
	if err != nil {
		t.Fatal(err)
	}
	u := r.p.UCA0

	if err := conn.Configure(driver.MaxSpeed, 2_000_000); err != nil {
		t.Fatal(err)
	}
	if r.chip.Peek16(u.BRW().Addr()) != 5 || m.AchievedHz() != 8_028_160/5 {
		t.Fatalf("BRW %d, achieved %d", r.chip.Peek16(u.BRW().Addr()), m.AchievedHz())
	}
	if err := conn.Configure(driver.Order, 1); err != nil {
		t.Fatal(err)
	}
	if r.chip.Peek16(u.CTLW0().Addr())&pac.UCMSB != 0 {
		t.Fatal("still MSB first")
	}
	if err := conn.Configure(driver.Mode, 2); err != nil {
		t.Fatal(err)
	}
	if err := conn.Configure(driver.Bits, 16); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("16-bit words: %v", err)
	}
	if err := conn.Configure(driver.CSChange, 1); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("cs change: %v", err)
	}

	r.chip.ResetTrace()
	rx := make([]byte, 2)
	if err := conn.Tx([]byte{0xAA, 0x55}, rx); err != nil {
		t.Fatal(err)
	}
	if err := conn.Tx([]byte{1}, rx); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("mismatched lengths: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatal(err)
	}
	if r.chip.Peek16(u.CTLW0().Addr())&pac.UCSWRST == 0 {
		t.Fatal("block not held in reset after Close")
	}
}

func TestSlaveConn(t *testing.T) {
	r := newRig(t, dco8)
	bus := r.chip.AttachSPI(r.p.UCA0)
	bus.Respond = func(b byte) byte { return b + 1 }
	s, err := NewSlave(r.p.UCA0, r.pinsA0(), Config{Mode: Mode0})
	if err != nil {
		t.Fatal(err)
	}
	conn, err := s.Open()
	if err != nil {
		t.Fatal(err)
	}
	u := r.p.UCA0

	if err := conn.Configure(driver.MaxSpeed, 1_000_000); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("slave max speed: %v", err)
	}
	if r.chip.Peek16(u.BRW().Addr()) != 0 {
		t.Fatal("slave given a bit rate")
	}
	if err := conn.Configure(driver.Mode, 3); err != nil {
		t.Fatal(err)
	}
	if ctl := r.chip.Peek16(u.CTLW0().Addr()); ctl&pac.UCCKPL == 0 || ctl&pac.UCMST != 0 {
		t.Fatalf("CTLW0 %#x after mode 3", ctl)
	}
	if err := conn.Configure(driver.Bits, 9); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("9-bit words: %v", err)
	}

	rx := make([]byte, 3)
	if err := conn.Tx([]byte{0x10, 0x20, 0x30}, rx); err != nil {
		t.Fatal(err)
	}
	if string(rx) != "\x11\x21\x31" || string(bus.Sent) != "\x10\x20\x30" {
		t.Fatalf("rx %x sent %x", rx, bus.Sent)
	}
	if err := conn.Tx([]byte{1, 2}, rx); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("mismatched lengths: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatal(err)
	}
	if r.chip.Peek16(u.CTLW0().Addr())&pac.UCSWRST == 0 {
		t.Fatal("block not held in reset after Close")
	}
}
