//go:build tinygo

// Firmware for an MSP430FR2355 board: blinks the LED on P1.0 twice a second
// and feeds the watchdog on every toggle.
package main

import (
	"fr2x5x-go/clock"
	"fr2x5x-go/cpu"
	"fr2x5x-go/fram"
	"fr2x5x-go/gpio"
	"fr2x5x-go/pac"
	"fr2x5x-go/pmm"
	"fr2x5x-go/regs"
	"fr2x5x-go/watchdog"
)

const blinkMs = 250

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

	// Hold the watchdog before the clock setup can outlast its reset period.
	wdt, err := watchdog.New(p.WDT)
	must(err)

	fr, err := fram.New(p.FRCTL)
	must(err)
	_, unlocked, err := pmm.New(p.PMM)
	must(err)

	clk, delay, err := clock.New(p.CS, cpu.Native).
		Main(clock.DCO(clock.DCO8MHz), clock.Div1).
		Subsystem(clock.FromMain(), clock.Div2).
		Auxiliary(clock.REFO(), clock.Div1).
		Freeze(fr)
	must(err)

	// 32K ACLK cycles is one second on REFO.
	must(wdt.UseACLK(clk))
	wdt.Start(watchdog.Period32K)

	p1, err := gpio.Split1(p.P1, unlocked)
	must(err)
	led := gpio.IntoOutput(p1.P0)

	println("boot, MCLK", clk.MainHz(), "Hz")
	for {
		gpio.Toggle(led)
		delay.DelayMs(blinkMs)
		wdt.Feed()
	}
}
