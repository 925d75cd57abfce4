package main

import (
	"os"
	"path/filepath"
	"testing"

	"fr2x5x-go/errcode"
)

func TestSpan(t *testing.T) {
	addr, n, err := span([]string{"0x8000", "256"})
	if err != nil || addr != 0x8000 || n != 256 {
		t.Fatalf("%#x %d %v", addr, n, err)
	}
	for _, args := range [][]string{
		{"0x8000", "0"},
		{"nope", "1"},
		{"0x100000", "1"},
		{"0xFFFFF", "2"},
	} {
		if _, _, err := span(args); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("%q: %v", args, err)
		}
	}
}

func TestProfileFlagsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	yaml := "port: /dev/ttyUSB0\nbaud: 19200\nentry_cmd: reset-into-bsl\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := rootCmd.ParseFlags([]string{"--profile", path, "--port", "/dev/ttyACM0"}); err != nil {
		t.Fatal(err)
	}
	p, err := profile(rootCmd)
	if err != nil {
		t.Fatal(err)
	}
	if p.Port != "/dev/ttyACM0" || p.Baud != 19200 || p.EntryCmd != "reset-into-bsl" {
		t.Fatalf("%+v", p)
	}
}
