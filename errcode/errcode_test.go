package errcode

import (
	"errors"
	"fmt"
	"testing"
)

type typed struct{}

func (typed) Error() string { return "typed" }
func (typed) Code() Code    { return FrequencyTooHigh }

func TestOf(t *testing.T) {
	cases := map[string]struct {
		err  error
		want Code
	}{
		"nil":     {nil, OK},
		"code":    {InvalidDivider, InvalidDivider},
		"wrapper": {New(PinInUse, "gpio", "P1.0"), PinInUse},
		"coder":   {typed{}, FrequencyTooHigh},
		"fmt":     {fmt.Errorf("ctx: %w", WouldBlock), WouldBlock},
		"plain":   {errors.New("boom"), Error},
	}
	for name, c := range cases {
		if got := Of(c.err); got != c.want {
			t.Fatalf("%s: got %q want %q", name, got, c.want)
		}
	}
}

func TestEMatchesCode(t *testing.T) {
	err := error(New(PeripheralInUse, "pac.Claim", "eUSCI_A0 owned by spi"))
	if !errors.Is(err, PeripheralInUse) {
		t.Fatal("errors.Is should match the wrapped code")
	}
	if errors.Is(err, PinInUse) {
		t.Fatal("errors.Is matched the wrong code")
	}
	if got := err.Error(); got != "pac.Claim: peripheral_in_use: eUSCI_A0 owned by spi" {
		t.Fatalf("Error(): got %q", got)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(Protocol, "bsl", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
	cause := errors.New("short read")
	err := Wrap(Protocol, "bsl.read", cause)
	if !errors.Is(err, cause) || Of(err) != Protocol {
		t.Fatalf("Wrap lost cause or code: %v", err)
	}
}

func TestIsWouldBlock(t *testing.T) {
	if !IsWouldBlock(WouldBlock) || IsWouldBlock(nil) || IsWouldBlock(Busy) {
		t.Fatal("IsWouldBlock mapping incorrect")
	}
}
