//go:build !legacy

package i2c

import "tinygo.org/x/drivers"

var _ drivers.I2C = (*Master[B0])(nil)

// Tx writes w to addr and then reads r after a repeated START. Either may
// be empty; both empty only checks that the address ACKs.
func (m *Master[U]) Tx(addr uint16, w, r []byte) error {
	t, err := targetOf(addr)
	if err != nil {
		return err
	}
	return m.writeRead(t, w, r)
}
