package lpm

import (
	"testing"

	"fr2x5x-go/cpu"
	"fr2x5x-go/internal/sim"
	"fr2x5x-go/pac"
	"fr2x5x-go/pmm"
	"fr2x5x-go/watchdog"
)

func TestStatusRegisterBits(t *testing.T) {
	cases := []struct {
		name  string
		enter func(cpu.Core)
		want  uint8
	}{
		{"LPM0", EnterLPM0, cpu.CPUOFF},
		{"LPM3", RequestLPM3, cpu.SCG1 | cpu.SCG0 | cpu.CPUOFF},
		{"LPM4", RequestLPM4, cpu.SCG1 | cpu.SCG0 | cpu.OSCOFF | cpu.CPUOFF},
	}
	for _, c := range cases {
		chip := sim.New()
		c.enter(chip)
		if chip.SR != c.want {
			t.Errorf("%s: SR %#02x, want %#02x", c.name, chip.SR, c.want)
		}
	}
}

type rig struct {
	chip *sim.Chip
	p    *pac.Peripherals
	pm   *pmm.PMM
	wdt  *watchdog.Watchdog
}

func newRig(t *testing.T) *rig {
	t.Helper()
	chip := sim.New()
	p, err := pac.Take(chip)
	if err != nil {
		t.Fatal(err)
	}
	pm, _, err := pmm.New(p.PMM)
	if err != nil {
		t.Fatal(err)
	}
	w, err := watchdog.New(p.WDT)
	if err != nil {
		t.Fatal(err)
	}
	w.Start(watchdog.Period32K)
	for _, port := range []*pac.Port{p.P1, p.P2, p.P3, p.P4, p.P5, p.P6} {
		chip.Poke8(port.SEL0().Addr(), 0x0F)
		chip.Poke8(port.SEL1().Addr(), 0x30)
	}
	chip.SetSR(cpu.GIE)
	chip.ResetTrace()
	return &rig{chip: chip, p: p, pm: pm, wdt: w}
}

func (r *rig) checkEntered(t *testing.T) {
	t.Helper()
	if r.chip.SR != cpu.SCG1|cpu.SCG0|cpu.OSCOFF|cpu.CPUOFF|cpu.GIE {
		t.Fatalf("SR %#02x", r.chip.SR)
	}
	if r.chip.Peek16(r.p.WDT.CTL().Addr())&pac.WDTHOLD == 0 {
		t.Fatal("watchdog still counting")
	}
	if r.chip.Peek8(pac.BasePMM+pac.PMMCTL0)&uint8(pac.PMMREGOFF) == 0 {
		t.Fatal("regulator left on")
	}
	if r.chip.PUCs != 0 {
		t.Fatalf("%d password violations", r.chip.PUCs)
	}
	for _, port := range []*pac.Port{r.p.P1, r.p.P3, r.p.P4, r.p.P5, r.p.P6} {
		if r.chip.Peek8(port.SEL0().Addr()) != 0 || r.chip.Peek8(port.SEL1().Addr()) != 0 {
			t.Fatalf("P%d still on a peripheral", port.Num())
		}
	}

	// Interrupts stay off from before the regulator write until the final
	// status register update.
	tr := r.chip.Trace()
	off, reg, on := -1, r.chip.FirstWrite(pac.BasePMM+pac.PMMCTL0), -1
	for i, e := range tr {
		if e.Op == sim.OpClearSR && uint8(e.Val)&cpu.GIE != 0 {
			off = i
		}
		if e.Op == sim.OpSetSR {
			on = i
		}
	}
	if !(off >= 0 && off < reg && reg < on) {
		t.Fatalf("GIE off at %d, regulator at %d, LPM at %d", off, reg, on)
	}
}

func TestEnterLPM35KeepsCrystalPins(t *testing.T) {
	r := newRig(t)
	p2 := r.p.P2
	r.chip.Poke8(p2.SEL0().Addr(), 0x01)
	r.chip.Poke8(p2.SEL1().Addr(), 0xC1)
	EnterLPM35(r.p, r.chip, r.pm, r.wdt, SVSOff)
	r.checkEntered(t)
	if r.chip.Peek8(p2.SEL0().Addr()) != 0 || r.chip.Peek8(p2.SEL1().Addr()) != 0xC0 {
		t.Fatalf("P2SEL %#02x/%#02x", r.chip.Peek8(p2.SEL0().Addr()), r.chip.Peek8(p2.SEL1().Addr()))
	}
	if r.chip.Peek8(pac.BasePMM+pac.PMMCTL0)&uint8(pac.SVSHE) != 0 {
		t.Fatal("SVS left on")
	}
}

func TestEnterLPM35WithoutCrystal(t *testing.T) {
	r := newRig(t)
	EnterLPM35(r.p, r.chip, r.pm, r.wdt, SVSOn)
	r.checkEntered(t)
	if r.chip.Peek8(r.p.P2.SEL0().Addr()) != 0 || r.chip.Peek8(r.p.P2.SEL1().Addr()) != 0 {
		t.Fatal("P2 still on a peripheral")
	}
	if r.chip.Peek8(pac.BasePMM+pac.PMMCTL0)&uint8(pac.SVSHE) == 0 {
		t.Fatal("SVS not kept")
	}
}

func TestEnterLPM45ReleasesCrystal(t *testing.T) {
	r := newRig(t)
	r.chip.Poke8(r.p.P2.SEL1().Addr(), 0xC0)
	r.chip.Poke8(r.p.P2.SEL0().Addr(), 0x00)
	EnterLPM45(r.p, r.chip, r.pm, r.wdt.IntoInterval(), SVSOff)
	r.checkEntered(t)
	if r.chip.Peek8(r.p.P2.SEL1().Addr()) != 0 {
		t.Fatal("XT1 pins kept in LPM4.5")
	}
}
