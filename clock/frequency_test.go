package clock

import (
	"errors"
	"testing"

	"fr2x5x-go/errcode"
)

var allDividers = []Divider{Div1, Div2, Div4, Div8, Div16, Div32, Div64, Div128}

func TestComputeDividesExactly(t *testing.T) {
	sources := []Source{REFO(), VLO(), DCO(DCO1MHz), DCO(DCO8MHz), DCO(DCO24MHz), XT1(32768, 12)}
	for _, src := range sources {
		for _, md := range allDividers {
			for _, sd := range allDividers[:4] {
				p, err := ComputePlan(Selection{
					Main:      {Source: src, Divider: md},
					Subsystem: {Source: FromMain(), Divider: sd},
					Auxiliary: {Source: REFO(), Divider: Div1},
				}, FR2355)
				if err != nil {
					t.Fatalf("%s /%d /%d: %v", src, md, sd, err)
				}
				want := src.Hz() / uint32(md)
				if p.Hz[Main] != want {
					t.Fatalf("%s /%d: MCLK %d want %d", src, md, p.Hz[Main], want)
				}
				if p.Hz[Subsystem] != want/uint32(sd) {
					t.Fatalf("%s /%d /%d: SMCLK %d", src, md, sd, p.Hz[Subsystem])
				}
				if p.Hz[Auxiliary] != REFOHz {
					t.Fatalf("ACLK %d", p.Hz[Auxiliary])
				}
			}
		}
	}
}

func TestComputeInheritsMain(t *testing.T) {
	p, err := Compute(REFO(), Div4, Div2, Div1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Hz != [numBuses]uint32{8192, 4096, 32768} {
		t.Fatalf("got %v", p.Hz)
	}
	if !p.FromMain[Subsystem] || !p.FromMain[Auxiliary] || p.Sources[Auxiliary].Kind() != KindREFO {
		t.Fatal("inherited buses not resolved to the Main source")
	}
}

func TestInvalidDivider(t *testing.T) {
	cases := []struct {
		name          string
		main, sub, ax Divider
	}{
		{"zero", 0, 1, 1},
		{"three", 3, 1, 1},
		{"six", 6, 1, 1},
		{"above 128", 255, 1, 1},
		{"smclk 16", 1, 16, 1},
		{"smclk 5", 1, 5, 1},
		{"aclk 2", 1, 1, 2},
	}
	for _, c := range cases {
		_, err := Compute(VLO(), c.main, c.sub, c.ax)
		if errcode.Of(err) != errcode.InvalidDivider {
			t.Errorf("%s: got %v", c.name, err)
		}
	}
}

func TestFrequencyTooHigh(t *testing.T) {
	_, err := Compute(DCOCustom(7, 733), Div1, Div1, Div1)
	var fe *FrequencyTooHighError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v", err)
	}
	if fe.Bus != Main || fe.Computed != 733*REFOHz || fe.Max != 24_000_000 {
		t.Fatalf("detail %+v", *fe)
	}
	if !errors.Is(err, errcode.FrequencyTooHigh) || errcode.Of(err) != errcode.FrequencyTooHigh {
		t.Fatal("code not reported")
	}

	// ACLK inherits the undivided DCO when everything follows Main.
	_, err = Compute(DCO(DCO1MHz), Div1, Div1, Div1)
	if !errors.As(err, &fe) || fe.Bus != Auxiliary {
		t.Fatalf("ACLK ceiling: %v", err)
	}
}

func TestWaitStatesFor(t *testing.T) {
	cases := []struct {
		hz   uint32
		want uint8
	}{
		{32768, 0}, {8_000_000, 0}, {8_028_160, 1}, {16_000_000, 1},
		{16_056_320, 2}, {23_986_176, 2},
	}
	for _, c := range cases {
		if got := WaitStatesFor(c.hz); got != c.want {
			t.Errorf("WaitStatesFor(%d) = %d want %d", c.hz, got, c.want)
		}
	}
}

func TestXT1Rules(t *testing.T) {
	xt := XT1(32768, 12)
	sel := func(m, a Source) Selection {
		return Selection{
			Main:      {Source: m, Divider: Div1},
			Subsystem: {Source: FromMain(), Divider: Div1},
			Auxiliary: {Source: a, Divider: Div1},
		}
	}
	cases := []struct {
		name string
		s    Selection
		want errcode.Code
	}{
		{"single strict", sel(DCO(DCO8MHz), xt), errcode.OK},
		{"two strict", sel(xt, xt), errcode.ConflictingSource},
		{"fallback mismatch", sel(xt.WithFallback(), xt), errcode.ConflictingSource},
		{"both fallback", sel(xt.WithFallback(), xt.WithFallback()), errcode.OK},
		{"different crystals", sel(XT1(32000, 12).WithFallback(), xt.WithFallback()), errcode.ConflictingSource},
		{"no load", sel(XT1(32768, 0), REFO()), errcode.InvalidSource},
		{"hf crystal", sel(XT1(4_000_000, 12), REFO()), errcode.InvalidSource},
	}
	for _, c := range cases {
		_, err := ComputePlan(c.s, FR2355)
		if got := errcode.Of(err); got != c.want {
			t.Errorf("%s: got %v", c.name, err)
		}
	}
}

func TestDCOValidation(t *testing.T) {
	if err := DCOCustom(8, 100).Validate(); errcode.Of(err) != errcode.InvalidSource {
		t.Fatalf("range 8: %v", err)
	}
	if err := DCOCustom(3, 0).Validate(); errcode.Of(err) != errcode.InvalidSource {
		t.Fatalf("mult 0: %v", err)
	}
	if got := DCO(DCO16MHz).Hz(); got != 490*REFOHz {
		t.Fatalf("16 MHz preset %d", got)
	}
}
