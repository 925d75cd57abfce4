package bsl

import (
	"bytes"
	"errors"
	"testing"

	"fr2x5x-go/errcode"
)

func TestEncode(t *testing.T) {
	cases := map[string]struct {
		core []byte
		want []byte
	}{
		"version":    {[]byte{CmdTxVersion}, []byte{0x80, 0x01, 0x00, 0x19, 0xE8, 0x62}},
		"mass erase": {[]byte{CmdMassErase}, []byte{0x80, 0x01, 0x00, 0x15, 0x64, 0xA3}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Encode(tc.core); !bytes.Equal(got, tc.want) {
				t.Fatalf("% X, want % X", got, tc.want)
			}
		})
	}
	if got := Checksum([]byte("123456789")); got != 0x29B1 {
		t.Fatalf("check value %#04x", got)
	}
}

func TestCommandLayout(t *testing.T) {
	got := command(CmdRxDataBlock, 0x1C400, true, []byte{0xAA, 0xBB})
	want := []byte{CmdRxDataBlock, 0x00, 0xC4, 0x01, 0xAA, 0xBB}
	if !bytes.Equal(got, want) {
		t.Fatalf("% X", got)
	}
	if got := command(CmdMassErase, 0x1234, false, nil); !bytes.Equal(got, []byte{CmdMassErase}) {
		t.Fatalf("% X", got)
	}
}

func TestDecode(t *testing.T) {
	ok := Encode([]byte{RespData, 1, 2, 3})
	core, err := Decode(bytes.NewReader(ok))
	if err != nil || !bytes.Equal(core, []byte{RespData, 1, 2, 3}) {
		t.Fatalf("% X %v", core, err)
	}

	badCRC := append([]byte(nil), ok...)
	badCRC[len(badCRC)-2] ^= 0x01

	cases := map[string]struct {
		in   []byte
		want errcode.Code
	}{
		"header":    {[]byte{0x81, 0x01, 0x00, 0x3B, 0x00, 0x00}, errcode.Protocol},
		"zero len":  {[]byte{0x80, 0x00, 0x00}, errcode.Protocol},
		"too long":  {[]byte{0x80, 0x05, 0x01}, errcode.Protocol},
		"crc":       {badCRC, errcode.Checksum},
		"truncated": {ok[:4], errcode.Timeout},
		"silent":    {nil, errcode.Timeout},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(bytes.NewReader(tc.in)); errcode.Of(err) != tc.want {
				t.Fatalf("got %v, want %s", err, tc.want)
			}
		})
	}
}

func TestReadAck(t *testing.T) {
	if err := ReadAck(bytes.NewReader([]byte{AckOK})); err != nil {
		t.Fatal(err)
	}
	if err := ReadAck(bytes.NewReader(nil)); errcode.Of(err) != errcode.Timeout {
		t.Fatalf("no byte: %v", err)
	}

	err := ReadAck(bytes.NewReader([]byte{AckChecksum}))
	var nak *AckError
	if !errors.As(err, &nak) || nak.Ack != AckChecksum {
		t.Fatalf("checksum nak: %v", err)
	}
	if errcode.Of(err) != errcode.Checksum {
		t.Fatalf("code %s", errcode.Of(err))
	}
	if err := ReadAck(bytes.NewReader([]byte{AckUnknownBaud})); errcode.Of(err) != errcode.Protocol {
		t.Fatalf("baud nak: %v", err)
	}
	if err := ReadAck(bytes.NewReader([]byte{0x3A})); errcode.Of(err) != errcode.Protocol {
		t.Fatalf("stray byte: %v", err)
	}
}

func TestMessages(t *testing.T) {
	if err := message([]byte{RespMessage, MsgOK}); err != nil {
		t.Fatal(err)
	}
	if err := message([]byte{RespData, 0}); errcode.Of(err) != errcode.Protocol {
		t.Fatalf("data as message: %v", err)
	}

	codes := map[byte]errcode.Code{
		MsgLocked:         errcode.InvalidParams,
		MsgPassword:       errcode.InvalidParams,
		MsgUnknownCommand: errcode.Unsupported,
		MsgWriteCheck:     errcode.Error,
	}
	for status, want := range codes {
		err := message([]byte{RespMessage, status})
		var m *MessageError
		if !errors.As(err, &m) || m.Status != status {
			t.Fatalf("status %#x: %v", status, err)
		}
		if errcode.Of(err) != want {
			t.Fatalf("status %#x: code %s, want %s", status, errcode.Of(err), want)
		}
	}

	if _, err := data([]byte{RespMessage, MsgLocked}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("message in place of data: %v", err)
	}
	if _, err := data([]byte{RespMessage, MsgOK}); errcode.Of(err) != errcode.Protocol {
		t.Fatalf("ok message in place of data: %v", err)
	}
	if p, err := data([]byte{RespData, 7}); err != nil || !bytes.Equal(p, []byte{7}) {
		t.Fatalf("% X %v", p, err)
	}
}
