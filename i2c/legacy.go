//go:build legacy

package i2c

import (
	"fr2x5x-go/errcode"

	"golang.org/x/exp/io/i2c/driver"
)

var _ driver.Opener = (*Master[B0])(nil)

// Open returns a connection bound to one device address.
func (m *Master[U]) Open(addr int, tenbit bool) (driver.Conn, error) {
	limit := 0x7F
	if tenbit {
		limit = 0x3FF
	}
	if addr < 0 || addr > limit {
		return nil, errcode.New(errcode.InvalidParams, "i2c.Open", "address out of range")
	}
	return &conn[U]{m: m, t: target{addr: uint16(addr), tenBit: tenbit}}, nil
}

type conn[U Unit] struct {
	m *Master[U]
	t target
}

// Tx writes w and reads r in one transaction, with a repeated START
// between them.
func (c *conn[U]) Tx(w, r []byte) error {
	return c.m.writeRead(c.t, w, r)
}

func (c *conn[U]) Close() error { return nil }
