package bsl

import (
	"bytes"
	"encoding/binary"
	"io"
)

// silent accepts frames and never answers.
type silent struct{}

func (silent) Read([]byte) (int, error)    { return 0, io.EOF }
func (silent) Write(p []byte) (int, error) { return len(p), nil }

// target is an in-memory loader on the far side of the serial link. Each
// Write must carry exactly one frame; the answer is queued for Read.
type target struct {
	mem      map[uint32]byte
	unlocked bool
	out      bytes.Buffer
	cmds     []byte
	pc       uint32
	baud     byte

	nak        byte // answer the next frame with this acknowledge
	corruptCRC bool // damage the CRC of the next response
	badWrite   bool // report a write check failure for data blocks
}

func newTarget() *target { return &target{mem: map[uint32]byte{}} }

func (t *target) Read(p []byte) (int, error) { return t.out.Read(p) }

func (t *target) byteAt(a uint32) byte {
	if b, ok := t.mem[a]; ok {
		return b
	}
	return 0xFF
}

func (t *target) password() []byte {
	pw := make([]byte, PasswordLen)
	for i := range pw {
		pw[i] = t.byteAt(vectorTable + uint32(i))
	}
	return pw
}

func (t *target) respond(core []byte) {
	if t.corruptCRC {
		t.corruptCRC = false
		f := Encode(core)
		f[len(f)-1] ^= 0xFF
		t.out.Write(f)
		return
	}
	t.out.Write(Encode(core))
}

func (t *target) msg(status byte) { t.respond([]byte{RespMessage, status}) }

func (t *target) Write(p []byte) (int, error) {
	if t.nak != 0 {
		t.out.WriteByte(t.nak)
		t.nak = 0
		return len(p), nil
	}
	if len(p) < 6 || p[0] != header {
		t.out.WriteByte(AckHeader)
		return len(p), nil
	}
	n := int(binary.LittleEndian.Uint16(p[1:]))
	if len(p) != n+5 {
		t.out.WriteByte(AckSizeError)
		return len(p), nil
	}
	core := p[3 : 3+n]
	if binary.LittleEndian.Uint16(p[3+n:]) != Checksum(core) {
		t.out.WriteByte(AckChecksum)
		return len(p), nil
	}
	t.out.WriteByte(AckOK)
	t.cmds = append(t.cmds, core[0])

	addr := func() uint32 { return uint32(core[1]) | uint32(core[2])<<8 | uint32(core[3])<<16 }
	locked := func() bool {
		if !t.unlocked {
			t.msg(MsgLocked)
		}
		return !t.unlocked
	}
	switch core[0] {
	case CmdRxPassword:
		if bytes.Equal(core[1:], t.password()) {
			t.unlocked = true
			t.msg(MsgOK)
			return len(p), nil
		}
		t.mem = map[uint32]byte{}
		t.msg(MsgPassword)
	case CmdMassErase:
		t.mem = map[uint32]byte{}
		t.unlocked = false
		t.msg(MsgOK)
	case CmdRxDataBlock, CmdRxDataBlockFast:
		if core[0] == CmdRxDataBlock && locked() {
			break
		}
		a := addr()
		for i, b := range core[4:] {
			t.mem[a+uint32(i)] = b
		}
		if core[0] == CmdRxDataBlock {
			if t.badWrite {
				t.msg(MsgWriteCheck)
			} else {
				t.msg(MsgOK)
			}
		}
	case CmdTxDataBlock:
		if locked() {
			break
		}
		a, n := addr(), int(binary.LittleEndian.Uint16(core[4:]))
		resp := []byte{RespData}
		for i := 0; i < n; i++ {
			resp = append(resp, t.byteAt(a+uint32(i)))
		}
		t.respond(resp)
	case CmdCRCCheck:
		if locked() {
			break
		}
		a, n := addr(), int(binary.LittleEndian.Uint16(core[4:]))
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = t.byteAt(a + uint32(i))
		}
		t.respond(binary.LittleEndian.AppendUint16([]byte{RespData}, Checksum(buf)))
	case CmdLoadPC:
		t.pc = addr()
	case CmdTxVersion:
		t.respond([]byte{RespData, 0x00, 0x04, 0x35, 0x91})
	case CmdChangeBaud:
		t.baud = core[1]
	default:
		t.msg(MsgUnknownCommand)
	}
	return len(p), nil
}
