//go:build !legacy

package spi

import (
	"fr2x5x-go/errcode"

	"tinygo.org/x/drivers"
)

var (
	_ drivers.SPI = (*Master[A0])(nil)
	_ drivers.SPI = (*Slave[B1])(nil)
)

// Tx exchanges w for r. Either may be nil; otherwise they must be the same
// length. A nil w clocks out DummyByte.
func (m *Master[U]) Tx(w, r []byte) error {
	if err := checkLens(w, r); err != nil {
		return err
	}
	return m.tx(w, r)
}

// Tx answers the master's frames with w and collects what it sent in r.
func (s *Slave[U]) Tx(w, r []byte) error {
	if err := checkLens(w, r); err != nil {
		return err
	}
	return s.tx(w, r)
}

func checkLens(w, r []byte) error {
	if w != nil && r != nil && len(w) != len(r) {
		return errcode.New(errcode.InvalidParams, "spi.Tx", "buffers differ in length")
	}
	return nil
}
