//go:build tinygo

// Command echo prints HELLO on eUSCI_A1 (P4.3 TX, P4.2 RX) at 9600 8N1
// from ACLK, then sends back every byte it receives. Bytes that arrive
// damaged come back as '?' (framing), '!' (parity) or '}' (overrun).
package main

import (
	"fr2x5x-go/clock"
	"fr2x5x-go/cpu"
	"fr2x5x-go/errcode"
	"fr2x5x-go/fram"
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
	"fr2x5x-go/pmm"
	"fr2x5x-go/regs"
	"fr2x5x-go/serial"
	"fr2x5x-go/watchdog"
	"fr2x5x-go/x/nb"
)

func must(err error) {
	if err != nil {
		println("fatal:", err.Error())
		for {
		}
	}
}

func main() {
	p, err := pac.Take(regs.MMIO)
	must(err)
	wdt, err := watchdog.New(p.WDT)
	must(err)
	wdt.Hold()
	fr, err := fram.New(p.FRCTL)
	must(err)
	_, unlocked, err := pmm.New(p.PMM)
	must(err)

	clk, _, err := clock.New(p.CS, cpu.Native).
		Main(clock.DCO(clock.DCO1MHz), clock.Div1).
		Subsystem(clock.FromMain(), clock.Div2).
		Auxiliary(clock.REFO(), clock.Div1).
		Freeze(fr)
	must(err)

	p1, err := gpio.Split1(p.P1, unlocked)
	must(err)
	p4, err := gpio.Split4(p.P4, unlocked)
	must(err)
	led := gpio.IntoOutput(p1.P0)
	gpio.Low(led)

	cfg := serial.DefaultConfig()
	cfg.Source = serial.SourceACLK
	uart, err := serial.NewSerial(p.UCA1, serial.Pins[serial.A1]{
		TX: serial.TXA1(gpio.IntoAlt1[gpio.Output](p4.P3)),
		RX: serial.RXA1(gpio.IntoAlt1[gpio.Input](p4.P2)),
	}, clk, cfg)
	must(err)

	gpio.High(led)
	_, err = uart.WriteString("HELLO\n")
	must(err)

	for {
		b, err := nb.Block(uart.ReadByte)
		switch errcode.Of(err) {
		case errcode.OK:
		case errcode.Framing:
			b = '?'
		case errcode.Parity:
			b = '!'
		case errcode.Overrun:
			b = '}'
		default:
			must(err)
		}
		must(nb.Do(func() error { return uart.WriteByte(b) }))
	}
}
