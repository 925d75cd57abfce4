package clock

import (
	"testing"

	"fr2x5x-go/internal/sim"
)

func TestDelayAt1MHz(t *testing.T) {
	chip := sim.New()
	clk := &Clocks{plan: Plan{Hz: [numBuses]uint32{1_000_000, 1_000_000, REFOHz}}, core: chip}
	d := NewDelay(clk)
	if d.LoopsPerMs() != 200 {
		t.Fatalf("loops/ms %d", d.LoopsPerMs())
	}
	d.DelayMs(10)
	if n := chip.Nops(); n*loopCycles != 10_000 {
		t.Fatalf("10ms took %d cycles", n*loopCycles)
	}
	chip.ResetTrace()
	d.DelayUs(500)
	if n := chip.Nops(); n != 100 {
		t.Fatalf("500us took %d loops", n)
	}
	chip.ResetTrace()
	d.DelayMs(0)
	if chip.Nops() != 0 {
		t.Fatal("zero delay spun")
	}
}

func TestDelayFromFreeze(t *testing.T) {
	chip, p, fr := rig(t)
	_, d, err := New(p.CS, chip).Freeze(fr)
	if err != nil {
		t.Fatal(err)
	}
	// 32 * 32768 Hz / 5000
	if d.LoopsPerMs() != 209 {
		t.Fatalf("loops/ms %d", d.LoopsPerMs())
	}
	chip.ResetTrace()
	d.DelayMs(3)
	if n := chip.Nops(); n < 3*209 || n > 3*210 {
		t.Fatalf("3ms gave %d loops", n)
	}
}

func TestDelaySlowClockKeepsFraction(t *testing.T) {
	chip := sim.New()
	// VLO: 2 loops per ms exactly, 0.002 per us
	d := NewDelay(&Clocks{plan: Plan{Hz: [numBuses]uint32{VLOHz, VLOHz, VLOHz}}, core: chip})
	d.DelayMs(1000)
	if chip.Nops() != 2000 {
		t.Fatalf("1s at 10kHz gave %d loops", chip.Nops())
	}
	var zero Delay
	zero.DelayMs(5)
}
