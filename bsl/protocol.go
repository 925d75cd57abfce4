// Package bsl talks to the MSP430FR2x5x UART bootstrap loader from a host.
//
// Every command is a frame: header 0x80, a little-endian length, the core
// command (command byte, optional 24-bit address, data) and a CRC-CCITT of
// the core, low byte first. The target answers each frame with one
// acknowledge byte and, for most commands, a response frame of its own.
package bsl

import (
	"encoding/binary"
	"io"
	"strconv"

	"fr2x5x-go/errcode"

	"github.com/sigurn/crc16"
)

const header = 0x80

// MaxCore is the largest core command the loader buffers.
const MaxCore = 260

// MaxBlock is the largest data payload of one RX or TX data block.
const MaxBlock = MaxCore - 4

// Core commands.
const (
	CmdRxDataBlock     byte = 0x10
	CmdRxPassword      byte = 0x11
	CmdMassErase       byte = 0x15
	CmdCRCCheck        byte = 0x16
	CmdLoadPC          byte = 0x17
	CmdTxDataBlock     byte = 0x18
	CmdTxVersion       byte = 0x19
	CmdRxDataBlockFast byte = 0x1B
	CmdChangeBaud      byte = 0x52
)

// Core responses.
const (
	RespData    byte = 0x3A
	RespMessage byte = 0x3B
)

// Acknowledge bytes.
const (
	AckOK           byte = 0x00
	AckHeader       byte = 0x51
	AckChecksum     byte = 0x52
	AckSizeZero     byte = 0x53
	AckSizeExceeded byte = 0x54
	AckUnknown      byte = 0x55
	AckUnknownBaud  byte = 0x56
	AckSizeError    byte = 0x57
)

// Message status bytes.
const (
	MsgOK             byte = 0x00
	MsgWriteCheck     byte = 0x01
	MsgFailBit        byte = 0x02
	MsgVoltageChange  byte = 0x03
	MsgLocked         byte = 0x04
	MsgPassword       byte = 0x05
	MsgByteWrite      byte = 0x06
	MsgUnknownCommand byte = 0x07
	MsgTooLong        byte = 0x08
)

var table = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// Checksum is the CRC-CCITT the loader uses for frames and CRC checks.
func Checksum(p []byte) uint16 { return crc16.Checksum(p, table) }

// AckError is a negative acknowledge of a frame.
type AckError struct{ Ack byte }

func (e *AckError) Error() string {
	var what string
	switch e.Ack {
	case AckHeader:
		what = "header incorrect"
	case AckChecksum:
		what = "checksum incorrect"
	case AckSizeZero:
		what = "packet size zero"
	case AckSizeExceeded:
		what = "packet size exceeds buffer"
	case AckUnknownBaud:
		what = "unknown baud rate"
	case AckSizeError:
		what = "packet size error"
	default:
		what = "unknown error"
	}
	return "bsl: nak 0x" + strconv.FormatUint(uint64(e.Ack), 16) + ": " + what
}

func (e *AckError) Code() errcode.Code {
	if e.Ack == AckChecksum {
		return errcode.Checksum
	}
	return errcode.Protocol
}

// MessageError is a non-zero status message from the loader.
type MessageError struct{ Status byte }

func (e *MessageError) Error() string {
	var what string
	switch e.Status {
	case MsgWriteCheck:
		what = "memory write check failed"
	case MsgFailBit:
		what = "fail bit set"
	case MsgVoltageChange:
		what = "voltage change during program"
	case MsgLocked:
		what = "locked"
	case MsgPassword:
		what = "password error"
	case MsgByteWrite:
		what = "byte write forbidden"
	case MsgUnknownCommand:
		what = "unknown command"
	case MsgTooLong:
		what = "packet length exceeds buffer"
	default:
		what = "status 0x" + strconv.FormatUint(uint64(e.Status), 16)
	}
	return "bsl: " + what
}

func (e *MessageError) Code() errcode.Code {
	switch e.Status {
	case MsgLocked, MsgPassword:
		return errcode.InvalidParams
	case MsgUnknownCommand:
		return errcode.Unsupported
	}
	return errcode.Error
}

// Encode frames a core command.
func Encode(core []byte) []byte {
	f := make([]byte, 0, len(core)+5)
	f = append(f, header, byte(len(core)), byte(len(core)>>8))
	f = append(f, core...)
	return binary.LittleEndian.AppendUint16(f, Checksum(core))
}

// command builds a core command with an optional address.
func command(cmd byte, addr uint32, withAddr bool, payload []byte) []byte {
	core := []byte{cmd}
	if withAddr {
		core = append(core, byte(addr), byte(addr>>8), byte(addr>>16))
	}
	return append(core, payload...)
}

// ReadAck reads the acknowledge byte.
func ReadAck(r io.Reader) error {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return errcode.Wrap(errcode.Timeout, "bsl.ack", err)
	}
	switch {
	case b[0] == AckOK:
		return nil
	case b[0] >= AckHeader && b[0] <= AckSizeError:
		return &AckError{Ack: b[0]}
	}
	return errcode.New(errcode.Protocol, "bsl.ack", "unexpected byte 0x"+strconv.FormatUint(uint64(b[0]), 16))
}

// Decode reads one response frame and returns its core.
func Decode(r io.Reader) ([]byte, error) {
	const op = "bsl.Decode"
	var h [3]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return nil, errcode.Wrap(errcode.Timeout, op, err)
	}
	if h[0] != header {
		return nil, errcode.New(errcode.Protocol, op, "bad header")
	}
	n := int(binary.LittleEndian.Uint16(h[1:]))
	if n == 0 || n > MaxCore {
		return nil, errcode.New(errcode.Protocol, op, "bad length "+strconv.Itoa(n))
	}
	body := make([]byte, n+2)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, errcode.Wrap(errcode.Timeout, op, err)
	}
	core := body[:n]
	if binary.LittleEndian.Uint16(body[n:]) != Checksum(core) {
		return nil, errcode.New(errcode.Checksum, op, "response CRC mismatch")
	}
	return core, nil
}

// message checks a RespMessage core.
func message(core []byte) error {
	if len(core) != 2 || core[0] != RespMessage {
		return errcode.New(errcode.Protocol, "bsl.message", "expected a status message")
	}
	if core[1] != MsgOK {
		return &MessageError{Status: core[1]}
	}
	return nil
}

// data checks a RespData core and returns its payload. A status message in
// its place is returned as the error it carries.
func data(core []byte) ([]byte, error) {
	if len(core) >= 1 && core[0] == RespMessage {
		if err := message(core); err != nil {
			return nil, err
		}
	}
	if len(core) < 1 || core[0] != RespData {
		return nil, errcode.New(errcode.Protocol, "bsl.data", "expected a data block")
	}
	return core[1:], nil
}
