//go:build tinygo && !legacy

// Command sensor-demo reads an AHT20 on eUSCI_B0 (P1.2 SDA, P1.3 SCL) once
// a second and prints tenths of a degree and of a percent.
package main

import (
	"fr2x5x-go/clock"
	"fr2x5x-go/cpu"
	"fr2x5x-go/drivers/aht20"
	"fr2x5x-go/errcode"
	"fr2x5x-go/fram"
	"fr2x5x-go/gpio"
	"fr2x5x-go/i2c"
	"fr2x5x-go/pac"
	"fr2x5x-go/pmm"
	"fr2x5x-go/regs"
	"fr2x5x-go/watchdog"
)

const periodMs = 1000

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
	fr, err := fram.New(p.FRCTL)
	must(err)
	_, unlocked, err := pmm.New(p.PMM)
	must(err)

	clk, delay, err := clock.New(p.CS, cpu.Native).
		Main(clock.DCO(clock.DCO8MHz), clock.Div1).
		Subsystem(clock.FromMain(), clock.Div1).
		Auxiliary(clock.REFO(), clock.Div1).
		Freeze(fr)
	must(err)

	p1, err := gpio.Split1(p.P1, unlocked)
	must(err)
	bus, err := i2c.NewMaster(p.UCB0, i2c.Pins[i2c.B0]{
		SDA: i2c.SDAB0(gpio.IntoAlt1[gpio.Output](p1.P2)),
		SCL: i2c.SCLB0(gpio.IntoAlt1[gpio.Output](p1.P3)),
	}, clk, i2c.DefaultConfig())
	must(err)

	dev := aht20.New(bus, delay)
	must(dev.Configure(aht20.DefaultConfig()))

	// 16 s on REFO.
	must(wdt.UseACLK(clk))
	wdt.Start(watchdog.Period512K)

	for {
		wdt.Feed()
		if err := dev.Read(); err != nil {
			println("aht20:", string(errcode.Of(err)))
		} else {
			s := dev.Sample()
			println("T", s.DeciCelsius(), "dC  RH", s.DeciRelHumidity(), "d%")
		}
		wdt.Feed()
		delay.DelayMs(periodMs)
	}
}
