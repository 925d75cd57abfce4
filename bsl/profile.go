package bsl

import (
	"encoding/hex"
	"io"
	"time"

	"fr2x5x-go/errcode"

	"gopkg.in/yaml.v2"
)

// Profile is one board's loader settings, read from YAML:
//
//	port: /dev/ttyUSB0
//	baud: 9600
//	fast_baud: 115200
//	entry_cmd: "bsl-reset --entry"
//	mass_erase: true
//	verify: true
//	run: true
type Profile struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	FastBaud  int    `yaml:"fast_baud"`
	TimeoutMs int    `yaml:"timeout_ms"`
	EntryCmd  string `yaml:"entry_cmd"`
	// Password is 64 hex digits. Empty means the erased password after a
	// mass erase, or the vector table of the image otherwise.
	Password  string `yaml:"password"`
	MassErase bool   `yaml:"mass_erase"`
	Fast      bool   `yaml:"fast"`
	Verify    bool   `yaml:"verify"`
	Run       bool   `yaml:"run"`
}

func DefaultProfile() Profile {
	return Profile{
		Baud:      9600,
		TimeoutMs: 1000,
		MassErase: true,
		Verify:    true,
	}
}

// LoadProfile reads YAML over the defaults. Unknown keys are errors.
func LoadProfile(r io.Reader) (Profile, error) {
	p := DefaultProfile()
	b, err := io.ReadAll(r)
	if err != nil {
		return p, err
	}
	if err := yaml.UnmarshalStrict(b, &p); err != nil {
		return p, errcode.Wrap(errcode.InvalidParams, "bsl.LoadProfile", err)
	}
	return p, p.Validate()
}

func (p Profile) Validate() error {
	const op = "bsl.Profile"
	if _, ok := baudCodes[p.Baud]; !ok {
		return errcode.New(errcode.InvalidParams, op, "baud must be 9600, 19200, 38400, 57600 or 115200")
	}
	if _, ok := baudCodes[p.FastBaud]; p.FastBaud != 0 && !ok {
		return errcode.New(errcode.InvalidParams, op, "unsupported fast_baud")
	}
	if p.TimeoutMs <= 0 {
		return errcode.New(errcode.InvalidParams, op, "timeout_ms must be positive")
	}
	if _, err := p.PasswordBytes(); err != nil {
		return err
	}
	return nil
}

// PasswordBytes decodes Password, returning nil when it is empty.
func (p Profile) PasswordBytes() ([]byte, error) {
	if p.Password == "" {
		return nil, nil
	}
	pw, err := hex.DecodeString(p.Password)
	if err != nil || len(pw) != PasswordLen {
		return nil, errcode.New(errcode.InvalidParams, "bsl.Profile", "password must be 64 hex digits")
	}
	return pw, nil
}

// Serial is the port setup for the initial rate.
func (p Profile) Serial() SerialConfig {
	return SerialConfig{Device: p.Port, Baud: p.Baud, Timeout: time.Duration(p.TimeoutMs) * time.Millisecond}
}
