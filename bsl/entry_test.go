package bsl

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	"fr2x5x-go/errcode"
)

func TestEntryArgs(t *testing.T) {
	args, err := EntryArgs(`gpioset "gpio chip0" 17=1 # hold TEST`)
	if err != nil {
		t.Fatal(err)
	}
	if len(args) != 3 || args[0] != "gpioset" || args[1] != "gpio chip0" || args[2] != "17=1" {
		t.Fatalf("%q", args)
	}
	for _, in := range []string{"", "   ", "# only a comment", `"unterminated`} {
		if _, err := EntryArgs(in); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("%q: %v", in, err)
		}
	}
}

func TestRunEntry(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("no echo on PATH")
	}
	var out bytes.Buffer
	if err := RunEntry(context.Background(), "echo 'enter loader'", &out); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "enter loader" {
		t.Fatalf("%q", out.String())
	}
	if err := RunEntry(context.Background(), "fr2x5x-no-such-tool", &out); errcode.Of(err) != errcode.Error {
		t.Fatalf("missing tool: %v", err)
	}
}
