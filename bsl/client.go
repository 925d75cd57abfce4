package bsl

import (
	"io"
	"strconv"

	"fr2x5x-go/errcode"
	"fr2x5x-go/x/logx"
)

// PasswordLen is the size of the loader password, the interrupt vector
// table at 0xFFE0.
const PasswordLen = 32

// Version is the loader's answer to CmdTxVersion.
type Version struct {
	Vendor      byte
	Interpreter byte
	API         byte
	Peripheral  byte
}

func (v Version) String() string {
	h := func(b byte) string { return strconv.FormatUint(uint64(b), 16) }
	return "vendor " + h(v.Vendor) + ", interpreter " + h(v.Interpreter) + ", API " + h(v.API) + ", PI " + h(v.Peripheral)
}

// Client issues loader commands over rw, one frame at a time.
type Client struct {
	rw io.ReadWriter
}

func NewClient(rw io.ReadWriter) *Client { return &Client{rw: rw} }

// exec sends core, checks the acknowledge and, when reply is set, reads
// the response frame.
func (c *Client) exec(core []byte, reply bool) ([]byte, error) {
	if len(core) > MaxCore {
		return nil, errcode.New(errcode.InvalidParams, "bsl.exec", "command longer than "+strconv.Itoa(MaxCore))
	}
	logx.L().Debug("bsl: send", "cmd", core[0], "len", len(core))
	if _, err := c.rw.Write(Encode(core)); err != nil {
		return nil, err
	}
	if err := ReadAck(c.rw); err != nil {
		return nil, err
	}
	if !reply {
		return nil, nil
	}
	return Decode(c.rw)
}

func (c *Client) status(core []byte) error {
	resp, err := c.exec(core, true)
	if err != nil {
		return err
	}
	return message(resp)
}

// Password unlocks the loader. A wrong password makes the loader erase the
// whole main memory.
func (c *Client) Password(pw []byte) error {
	if len(pw) != PasswordLen {
		return errcode.New(errcode.InvalidParams, "bsl.Password", "password must be 32 bytes")
	}
	return c.status(command(CmdRxPassword, 0, false, pw))
}

// MassErase erases main memory and resets the password to all 0xFF.
func (c *Client) MassErase() error { return c.status(command(CmdMassErase, 0, false, nil)) }

// WriteBlock writes p at addr and waits for the loader's status.
func (c *Client) WriteBlock(addr uint32, p []byte) error {
	if err := checkBlock("bsl.WriteBlock", addr, len(p)); err != nil {
		return err
	}
	return c.status(command(CmdRxDataBlock, addr, true, p))
}

// WriteBlockFast writes p at addr without waiting for a status message.
func (c *Client) WriteBlockFast(addr uint32, p []byte) error {
	if err := checkBlock("bsl.WriteBlockFast", addr, len(p)); err != nil {
		return err
	}
	_, err := c.exec(command(CmdRxDataBlockFast, addr, true, p), false)
	return err
}

// ReadBlock reads n bytes from addr.
func (c *Client) ReadBlock(addr uint32, n int) ([]byte, error) {
	if err := checkBlock("bsl.ReadBlock", addr, n); err != nil {
		return nil, err
	}
	resp, err := c.exec(command(CmdTxDataBlock, addr, true, []byte{byte(n), byte(n >> 8)}), true)
	if err != nil {
		return nil, err
	}
	out, err := data(resp)
	if err != nil {
		return nil, err
	}
	if len(out) != n {
		return nil, errcode.New(errcode.Protocol, "bsl.ReadBlock", "short data block")
	}
	return out, nil
}

// CRC asks the loader for the CRC-CCITT of n bytes at addr.
func (c *Client) CRC(addr uint32, n uint16) (uint16, error) {
	if addr > 0xFFFFF || n == 0 {
		return 0, errcode.New(errcode.InvalidParams, "bsl.CRC", "bad range")
	}
	resp, err := c.exec(command(CmdCRCCheck, addr, true, []byte{byte(n), byte(n >> 8)}), true)
	if err != nil {
		return 0, err
	}
	out, err := data(resp)
	if err != nil {
		return 0, err
	}
	if len(out) != 2 {
		return 0, errcode.New(errcode.Protocol, "bsl.CRC", "bad CRC reply")
	}
	return uint16(out[0]) | uint16(out[1])<<8, nil
}

// LoadPC starts the application at addr. The loader only acknowledges.
func (c *Client) LoadPC(addr uint32) error {
	if addr > 0xFFFFF {
		return errcode.New(errcode.InvalidParams, "bsl.LoadPC", "address beyond 20 bits")
	}
	_, err := c.exec(command(CmdLoadPC, addr, true, nil), false)
	return err
}

// Version reads the loader version.
func (c *Client) Version() (Version, error) {
	resp, err := c.exec(command(CmdTxVersion, 0, false, nil), true)
	if err != nil {
		return Version{}, err
	}
	out, err := data(resp)
	if err != nil {
		return Version{}, err
	}
	if len(out) != 4 {
		return Version{}, errcode.New(errcode.Protocol, "bsl.Version", "bad version reply")
	}
	return Version{Vendor: out[0], Interpreter: out[1], API: out[2], Peripheral: out[3]}, nil
}

var baudCodes = map[int]byte{
	9600:   0x02,
	19200:  0x03,
	38400:  0x04,
	57600:  0x05,
	115200: 0x06,
}

// ChangeBaud switches the loader to baud once acknowledged. The host port
// has to follow before the next command.
func (c *Client) ChangeBaud(baud int) error {
	code, ok := baudCodes[baud]
	if !ok {
		return errcode.New(errcode.InvalidParams, "bsl.ChangeBaud", "unsupported rate "+strconv.Itoa(baud))
	}
	_, err := c.exec([]byte{CmdChangeBaud, code}, false)
	return err
}

func checkBlock(op string, addr uint32, n int) error {
	switch {
	case n <= 0 || n > MaxBlock:
		return errcode.New(errcode.InvalidParams, op, "block size must be 1 to "+strconv.Itoa(MaxBlock))
	case addr+uint32(n)-1 > 0xFFFFF:
		return errcode.New(errcode.InvalidParams, op, "block runs past 20-bit address space")
	}
	return nil
}
