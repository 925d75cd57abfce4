package clock

import (
	"testing"

	"fr2x5x-go/cpu"
	"fr2x5x-go/errcode"
	"fr2x5x-go/fram"
	"fr2x5x-go/internal/sim"
	"fr2x5x-go/pac"
)

const (
	csctl1 = pac.BaseCS + pac.CSCTL1
	csctl2 = pac.BaseCS + pac.CSCTL2
	csctl3 = pac.BaseCS + pac.CSCTL3
	csctl4 = pac.BaseCS + pac.CSCTL4
	csctl5 = pac.BaseCS + pac.CSCTL5
	csctl6 = pac.BaseCS + pac.CSCTL6
	frctl0 = pac.BaseFRCTL + pac.FRCTL0
)

func rig(t *testing.T) (*sim.Chip, *pac.Peripherals, *fram.Controller) {
	t.Helper()
	chip := sim.New()
	p, err := pac.Take(chip)
	if err != nil {
		t.Fatal(err)
	}
	fr, err := fram.New(p.FRCTL)
	if err != nil {
		t.Fatal(err)
	}
	chip.ResetTrace()
	return chip, p, fr
}

func TestFreezeRejectsBeforeAnyWrite(t *testing.T) {
	chip, p, fr := rig(t)
	_, _, err := New(p.CS, chip).Main(DCOCustom(7, 740), Div1).Freeze(fr)
	if errcode.Of(err) != errcode.FrequencyTooHigh {
		t.Fatalf("got %v", err)
	}
	if w := chip.Writes(); len(w) != 0 {
		t.Fatalf("%d writes before the error: %+v", len(w), w)
	}
	if chip.Nops() != 0 || chip.SR != 0 {
		t.Fatal("instructions issued before the error")
	}

	// the builder is not spent by a validation failure
	cfg := New(p.CS, chip)
	if _, _, err := cfg.Main(DCO(DCO8MHz), Div1).Freeze(fr); errcode.Of(err) != errcode.PeripheralInUse {
		t.Fatalf("second New on a claimed block: %v", err)
	}
}

func TestFreezeOnce(t *testing.T) {
	chip, p, fr := rig(t)
	base := New(p.CS, chip).Main(DCO(DCO8MHz), Div1)
	sibling := base.Auxiliary(VLO(), Div1)
	if _, _, err := base.Freeze(fr); err != nil {
		t.Fatal(err)
	}
	chip.ResetTrace()
	for _, c := range []Config{base, sibling, base.Main(REFO(), Div1)} {
		if _, _, err := c.Freeze(fr); errcode.Of(err) != errcode.AlreadyFrozen {
			t.Fatalf("got %v", err)
		}
	}
	if len(chip.Trace()) != 0 {
		t.Fatal("refused freeze touched hardware")
	}
}

func TestErratumNopsFollowCommit(t *testing.T) {
	configs := map[string]func(Config) Config{
		"refo":   func(c Config) Config { return c.Main(REFO(), Div1) },
		"vlo":    func(c Config) Config { return c.Main(VLO(), Div2).Auxiliary(VLO(), Div1) },
		"dco8":   func(c Config) Config { return c.Main(DCO(DCO8MHz), Div1).Subsystem(FromMain(), Div2) },
		"dco24":  func(c Config) Config { return c.Main(DCO(DCO24MHz), Div1).SubsystemOff() },
		"xt1":    func(c Config) Config { return c.Main(XT1(32768, 9), Div1) },
		"xt1fb":  func(c Config) Config { return c.Main(XT1(32768, 9).WithFallback(), Div1) },
		"divide": func(c Config) Config { return c.Main(DCO(DCO16MHz), Div128) },
	}
	for name, apply := range configs {
		chip, p, fr := rig(t)
		if name == "xt1fb" {
			chip.XT1Dead()
		}
		if _, _, err := apply(New(p.CS, chip)).Freeze(fr); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		i := chip.LastWrite(csctl5)
		if i < 0 || chip.LastWrite(csctl4) != i-1 {
			t.Fatalf("%s: CSCTL4 then CSCTL5 not committed back to back", name)
		}
		if n := chip.RunOfNops(i); n < ErratumNops {
			t.Fatalf("%s: %d NOPs after commit, want %d", name, n, ErratumNops)
		}
	}
}

func TestWaitStatesOrdering(t *testing.T) {
	chip, p, fr := rig(t)
	clk, _, err := New(p.CS, chip).Main(DCO(DCO24MHz), Div1).Freeze(fr)
	if err != nil {
		t.Fatal(err)
	}
	if clk.WaitStates() != 2 || fr.WaitStates() != 2 {
		t.Fatalf("wait-states %d/%d", clk.WaitStates(), fr.WaitStates())
	}
	if w, c := chip.FirstWrite(frctl0), chip.FirstWrite(csctl1); w < 0 || w > c {
		t.Fatal("wait-states not raised before the DCO was sped up")
	}

	chip, p, fr = rig(t)
	_ = fr.SetWaitStates(2)
	chip.ResetTrace()
	if _, _, err := New(p.CS, chip).Main(REFO(), Div1).Freeze(fr); err != nil {
		t.Fatal(err)
	}
	if chip.LastWrite(frctl0) < chip.LastWrite(csctl5) {
		t.Fatal("wait-states lowered before the slower clock was committed")
	}
	if fr.WaitStates() != 0 {
		t.Fatalf("wait-states left at %d", fr.WaitStates())
	}
}

func TestWaitStatesCoverFLLSettle(t *testing.T) {
	for _, div := range []Divider{Div1, Div4, Div128} {
		chip, p, fr := rig(t)
		nwaits := fr.WaitStates()
		var divm uint16
		checked := false
		if _, _, err := New(p.CS, chip).Main(DCO(DCO24MHz), div).Freeze(fr); err != nil {
			t.Fatal(err)
		}
		for _, e := range chip.Trace() {
			switch {
			case e.Op == sim.OpWrite && e.Addr == csctl5:
				divm = e.Val & pac.DIVM_MASK
			case e.Op == sim.OpWrite && e.Addr == frctl0:
				nwaits = uint8(e.Val & pac.NWAITS_MASK >> pac.NWAITS_SHIFT)
			case e.Op == sim.OpClearSR && uint8(e.Val) == cpu.SCG0:
				mclk := DCO(DCO24MHz).Hz() >> divm
				if need := WaitStatesFor(mclk); nwaits < need {
					t.Fatalf("div %d: FLL on at MCLK %d Hz with %d wait-states, need %d", div, mclk, nwaits, need)
				}
				checked = true
			}
		}
		if !checked {
			t.Fatalf("div %d: FLL never enabled", div)
		}
		if want := WaitStatesFor(DCO(DCO24MHz).Hz() / uint32(div)); fr.WaitStates() != want {
			t.Fatalf("div %d: wait-states left at %d, want %d", div, fr.WaitStates(), want)
		}
		if div != Div1 && chip.LastWrite(frctl0) < chip.LastWrite(csctl5) {
			t.Fatalf("div %d: wait-states lowered before the divider was committed", div)
		}
	}
}

func TestFLLSequence(t *testing.T) {
	chip, p, fr := rig(t)
	if _, _, err := New(p.CS, chip).Main(DCO(DCO8MHz), Div1).Freeze(fr); err != nil {
		t.Fatal(err)
	}
	if got := chip.WritesTo(csctl3); len(got) != 1 || got[0] != pac.SELREF_REFO {
		t.Fatalf("CSCTL3 %v", got)
	}
	if got := chip.WritesTo(csctl1); len(got) != 1 || got[0] != 3<<pac.DCORSEL_SHIFT {
		t.Fatalf("CSCTL1 %v", got)
	}
	if got := chip.WritesTo(csctl2); len(got) != 1 || got[0] != 1<<pac.FLLD_SHIFT|244 {
		t.Fatalf("CSCTL2 %v", got)
	}
	tr := chip.Trace()
	var off, on int = -1, -1
	for i, e := range tr {
		if e.Op == sim.OpSetSR && uint8(e.Val) == cpu.SCG0 && off < 0 {
			off = i
		}
		if e.Op == sim.OpClearSR && uint8(e.Val) == cpu.SCG0 {
			on = i
		}
	}
	c2 := chip.LastWrite(csctl2)
	if off < 0 || off > chip.FirstWrite(csctl3) || on < c2 || chip.RunOfNops(c2) != fllSettleNops {
		t.Fatalf("FLL disable/enable bracket wrong: off=%d on=%d ctl2=%d", off, on, c2)
	}
	if chip.SR&cpu.SCG0 != 0 {
		t.Fatal("FLL left disabled")
	}
}

func TestXT1Fallback(t *testing.T) {
	chip, p, fr := rig(t)
	chip.XT1Dead()
	xt := XT1(40_000, 12).WithFallback()
	clk, delay, err := New(p.CS, chip).
		Main(xt, Div1).
		Subsystem(FromMain(), Div1).
		Auxiliary(xt, Div1).
		Freeze(fr)
	if err != nil {
		t.Fatal(err)
	}
	if !clk.FallbackOccurred() {
		t.Fatal("fallback not reported")
	}
	if clk.MainHz() != REFOHz || clk.AuxiliaryHz() != REFOHz || clk.SubsystemHz() != REFOHz {
		t.Fatalf("rates after fallback %d/%d/%d", clk.MainHz(), clk.SubsystemHz(), clk.AuxiliaryHz())
	}
	if clk.Source(Main).Kind() != KindREFO {
		t.Fatalf("MCLK source %s", clk.Source(Main))
	}
	if got := chip.Peek16(csctl4); got != pac.SELMS_REFO|pac.SELA_REFO {
		t.Fatalf("CSCTL4 %#x", got)
	}
	if delay.LoopsPerMs() != NewDelay(clk).LoopsPerMs() {
		t.Fatal("delay not derived from the fallback rate")
	}
}

func TestXT1Starts(t *testing.T) {
	chip, p, fr := rig(t)
	chip.XT1Unstable(7)
	clk, _, err := New(p.CS, chip).Main(XT1(32768, 12), Div1).Freeze(fr)
	if err != nil {
		t.Fatal(err)
	}
	if clk.FallbackOccurred() || clk.MainHz() != 32768 || clk.Source(Main).Kind() != KindXT1 {
		t.Fatalf("unexpected result %+v", clk.plan)
	}
	if got := chip.Peek16(csctl4) & pac.SELMS_MASK; got != pac.SELMS_XT1 {
		t.Fatalf("SELMS %d", got)
	}
	if drive := chip.Peek16(csctl6) & pac.XT1DRIVE_MASK >> pac.XT1DRIVE_SHIFT; drive != 2 {
		t.Fatalf("XT1DRIVE %d for 12pF", drive)
	}
}

func TestDividersAndSMCLKOff(t *testing.T) {
	chip, p, fr := rig(t)
	clk, _, err := New(p.CS, chip).Main(DCO(DCO16MHz), Div4).Subsystem(FromMain(), Div8).Freeze(fr)
	if err != nil {
		t.Fatal(err)
	}
	ctl5 := chip.Peek16(csctl5)
	if ctl5&pac.DIVM_MASK != 2 || ctl5&pac.DIVS_MASK>>pac.DIVS_SHIFT != 3 || ctl5&pac.SMCLKOFF != 0 {
		t.Fatalf("CSCTL5 %#x", ctl5)
	}
	if clk.SubsystemHz() != 490*REFOHz/32 || clk.Divider(Subsystem) != Div8 {
		t.Fatalf("SMCLK %d", clk.SubsystemHz())
	}

	chip, p, fr = rig(t)
	clk, _, err = New(p.CS, chip).Main(REFO(), Div1).SubsystemOff().Freeze(fr)
	if err != nil {
		t.Fatal(err)
	}
	if chip.Peek16(csctl5)&pac.SMCLKOFF == 0 || clk.Enabled(Subsystem) || clk.SubsystemHz() != 0 {
		t.Fatal("SMCLK not off")
	}
}

func TestHardwareRouting(t *testing.T) {
	chip, p, _ := rig(t)
	cfg := New(p.CS, chip)
	cases := map[string]Config{
		"smclk from refo": cfg.Subsystem(REFO(), Div1),
		"aclk from dco":   cfg.Auxiliary(DCO(DCO1MHz), Div1),
		"aclk from main":  cfg.Auxiliary(FromMain(), Div1),
		"mclk from main":  cfg.Main(FromMain(), Div1),
	}
	for name, c := range cases {
		if _, err := c.Plan(); errcode.Of(err) != errcode.InvalidSource {
			t.Errorf("%s: got %v", name, err)
		}
	}
}
