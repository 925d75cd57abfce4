package bsl

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"fr2x5x-go/errcode"
)

func TestLoadProfile(t *testing.T) {
	src := `
port: /dev/ttyACM1
fast_baud: 115200
entry_cmd: "bsl-reset --entry 'board a'"
mass_erase: false
password: ` + strings.Repeat("a5", 32) + `
run: true
`
	p, err := LoadProfile(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if p.Port != "/dev/ttyACM1" || p.Baud != 9600 || p.FastBaud != 115200 {
		t.Fatalf("%+v", p)
	}
	if p.MassErase || !p.Verify || !p.Run || p.Fast {
		t.Fatalf("flags %+v", p)
	}
	pw, err := p.PasswordBytes()
	if err != nil || !bytes.Equal(pw, bytes.Repeat([]byte{0xA5}, 32)) {
		t.Fatalf("password % X, %v", pw, err)
	}
	if got := p.Serial(); got != (SerialConfig{Device: "/dev/ttyACM1", Baud: 9600, Timeout: time.Second}) {
		t.Fatalf("%+v", got)
	}
	args, err := EntryArgs(p.EntryCmd)
	if err != nil || len(args) != 3 || args[2] != "board a" {
		t.Fatalf("%q %v", args, err)
	}
}

func TestProfileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key": "port: /dev/ttyUSB0\nbaudrate: 9600\n",
		"baud":        "baud: 14400\n",
		"fast baud":   "fast_baud: 250000\n",
		"timeout":     "timeout_ms: 0\n",
		"short pw":    "password: a5a5\n",
		"not hex":     "password: " + strings.Repeat("zz", 32) + "\n",
		"wrong type":  "verify: sometimes\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadProfile(strings.NewReader(src)); errcode.Of(err) != errcode.InvalidParams {
				t.Fatalf("got %v", err)
			}
		})
	}

	p := DefaultProfile()
	if err := p.Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if pw, err := p.PasswordBytes(); pw != nil || err != nil {
		t.Fatalf("empty password: %v %v", pw, err)
	}
}
