//go:build legacy

package spi

import (
	"fr2x5x-go/errcode"
	"fr2x5x-go/pac"

	"golang.org/x/exp/io/spi/driver"
)

var (
	_ driver.Opener = (*Master[A0])(nil)
	_ driver.Conn   = (*Master[A0])(nil)
	_ driver.Opener = (*Slave[B1])(nil)
	_ driver.Conn   = (*Slave[B1])(nil)
)

// Open hands out the master itself as the connection.
func (m *Master[U]) Open() (driver.Conn, error) { return m, nil }

// Configure applies one driver setting. Mode, MaxSpeed, Order and an
// eight-bit Bits are supported.
func (m *Master[U]) Configure(k, v int) error {
	return m.configureConn(k, v, m.setMaxSpeed)
}

// Tx writes w and reads into r. When both are given they must be the same
// length.
func (m *Master[U]) Tx(w, r []byte) error {
	if err := checkLens(w, r); err != nil {
		return err
	}
	return m.tx(w, r)
}

// Close waits for the last frame and holds the block in reset.
func (m *Master[U]) Close() error { return m.close() }

// Open hands out the slave itself as the connection.
func (s *Slave[U]) Open() (driver.Conn, error) { return s, nil }

// Configure accepts the same settings as the master's except MaxSpeed,
// since the remote master drives SCLK.
func (s *Slave[U]) Configure(k, v int) error {
	return s.configureConn(k, v, nil)
}

// Tx answers the master's frames with w and collects what it sent in r.
func (s *Slave[U]) Tx(w, r []byte) error {
	if err := checkLens(w, r); err != nil {
		return err
	}
	return s.tx(w, r)
}

// Close waits for the master to finish the current frame and holds the
// block in reset.
func (s *Slave[U]) Close() error { return s.close() }

func (c *core) configureConn(k, v int, speed func(uint32) error) error {
	const op = "spi.Configure"
	switch k {
	case driver.Mode:
		if v < 0 || v > int(Mode3) {
			return errcode.New(errcode.InvalidParams, op, "mode out of range")
		}
		c.setMode(Mode(v))
		return nil
	case driver.Bits:
		if v != 8 {
			return errcode.New(errcode.Unsupported, op, "only 8-bit words")
		}
		return nil
	case driver.MaxSpeed:
		if speed == nil {
			return errcode.New(errcode.Unsupported, op, "clock set by the remote master")
		}
		if v <= 0 {
			return errcode.New(errcode.InvalidParams, op, "speed must be positive")
		}
		return speed(uint32(v))
	case driver.Order:
		c.setBitOrder(v != 0)
		return nil
	}
	return errcode.New(errcode.Unsupported, op, "setting not available")
}

func (c *core) close() error {
	c.flush()
	c.u.CTLW0().SetBits(pac.UCSWRST)
	return nil
}

func checkLens(w, r []byte) error {
	if w != nil && r != nil && len(w) != len(r) {
		return errcode.New(errcode.InvalidParams, "spi.Tx", "buffers differ in length")
	}
	return nil
}
