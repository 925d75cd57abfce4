package sim

import "fr2x5x-go/pac"

// SPI models an eUSCI block in SPI mode, either role. Every byte written
// to TXBUF is shifted out at once; Respond supplies the byte shifted in.
type SPI struct {
	c *Chip
	u *pac.EUSCI

	// Sent collects every transmitted byte.
	Sent []byte
	// Respond returns the byte received for b. Nil echoes 0xFF.
	Respond func(b byte) byte
	// BusyReads is how many STATW reads report UCBUSY after each byte.
	BusyReads int

	busy int
}

// AttachSPI starts modelling u as an SPI block.
func (c *Chip) AttachSPI(u *pac.EUSCI) *SPI {
	m := &SPI{c: c, u: u}
	ifg, stat := u.IFG().Addr(), u.STATW().Addr()
	c.OnWrite(u.CTLW0().Addr(), func(v uint16, _ bool) {
		if v&pac.UCSWRST != 0 {
			c.Poke16(ifg, 0)
			return
		}
		c.setBits(ifg, pac.UCTXIFG)
	})
	c.OnWrite(u.TXBUF().Addr(), func(v uint16, _ bool) {
		b := byte(v)
		m.Sent = append(m.Sent, b)
		rx := byte(0xFF)
		if m.Respond != nil {
			rx = m.Respond(b)
		}
		if c.Peek16(ifg)&pac.UCRXIFG != 0 {
			c.setBits(stat, pac.UCOE)
		}
		c.Poke16(u.RXBUF().Addr(), uint16(rx))
		c.setBits(ifg, pac.UCRXIFG|pac.UCTXIFG)
		if m.BusyReads > 0 {
			m.busy = m.BusyReads
			c.setBits(stat, pac.UCBUSY)
		}
	})
	c.OnRead(stat, func() {
		if m.busy > 0 {
			m.busy--
			return
		}
		c.clearBits(stat, pac.UCBUSY)
	})
	c.OnRead(u.RXBUF().Addr(), func() {
		c.clearBits(ifg, pac.UCRXIFG)
		c.clearBits(stat, pac.UCOE)
	})
	return m
}

// I2CTarget is a device on the simulated bus. tinygo's tester devices
// satisfy it.
type I2CTarget interface {
	Addr() uint8
	Tx(w, r []byte) error
}

// I2CTxn is one completed write as seen by a target.
type I2CTxn struct {
	Addr  uint8
	Write []byte
}

// I2C models an eUSCI_B block as an I2C master. Writes are buffered and
// delivered to the target at STOP or repeated START; a one-byte write sets
// the register pointer that the following read starts from.
type I2C struct {
	c *Chip
	u *pac.EUSCI

	targets map[uint8]I2CTarget

	// NackAfter makes targets NACK the data byte after this many bytes
	// (0 never NACKs).
	NackAfter int
	// LoseArbitration makes the next START lose arbitration.
	LoseArbitration bool

	Txns []I2CTxn

	active, tr, nacked, stopPending, needLoad bool

	addr uint8
	w    []byte
	ptr  byte
	rx   int
}

// AttachI2C starts modelling u as an I2C master.
func (c *Chip) AttachI2C(u *pac.EUSCI) *I2C {
	m := &I2C{c: c, u: u, targets: map[uint8]I2CTarget{}}
	c.OnWrite(u.CTLW0().Addr(), m.ctl)
	c.OnWrite(u.TXBUF().Addr(), m.tx)
	c.OnRead(u.RXBUF().Addr(), func() {
		c.clearBits(u.IFG().Addr(), pac.UCRXIFG)
		if m.stopPending {
			m.active, m.stopPending = false, false
			return
		}
		m.needLoad = true
	})
	c.OnRead(u.IFG().Addr(), func() {
		if m.needLoad && m.active {
			m.needLoad = false
			m.load()
		}
	})
	return m
}

// Add puts t on the bus.
func (m *I2C) Add(t I2CTarget) { m.targets[t.Addr()] = t }

func (m *I2C) ctl(v uint16, _ bool) {
	c, u := m.c, m.u
	ctl, ifg := u.CTLW0().Addr(), u.IFG().Addr()
	if v&pac.UCSWRST != 0 {
		c.Poke16(ifg, 0)
		m.active = false
		return
	}
	if v&pac.UCTXSTT != 0 {
		c.clearBits(ctl, pac.UCTXSTT)
		m.start(v&pac.UCTR != 0)
	}
	if v&pac.UCTXSTP != 0 {
		c.clearBits(ctl, pac.UCTXSTP)
		switch {
		case !m.active:
		case m.tr:
			if !m.nacked {
				m.commit()
			}
			m.active = false
		case m.nacked:
			m.active = false
		default:
			m.stopPending = true
		}
		c.setBits(ifg, pac.UCSTPIFG)
	}
}

func (m *I2C) start(transmit bool) {
	c, u := m.c, m.u
	ifg := u.IFG().Addr()
	if m.LoseArbitration {
		m.LoseArbitration = false
		m.active = false
		c.clearBits(u.CTLW0().Addr(), pac.UCMST)
		c.setBits(ifg, pac.UCALIFG)
		return
	}
	if m.active && m.tr && !m.nacked {
		m.commit()
	}
	m.addr = uint8(c.Peek16(u.I2CSA().Addr()) & 0x7F)
	m.active, m.tr, m.nacked, m.stopPending, m.needLoad = true, transmit, false, false, false
	m.w, m.rx = nil, 0
	if _, ok := m.targets[m.addr]; !ok {
		m.nacked = true
		c.setBits(ifg, pac.UCNACKIFG)
		return
	}
	if transmit {
		c.setBits(ifg, pac.UCTXIFG)
		return
	}
	m.load()
}

func (m *I2C) load() {
	r := []byte{0}
	if err := m.targets[m.addr].Tx([]byte{m.ptr + byte(m.rx)}, r); err != nil {
		m.c.setBits(m.u.IFG().Addr(), pac.UCNACKIFG)
		return
	}
	m.rx++
	m.c.Poke16(m.u.RXBUF().Addr(), uint16(r[0]))
	m.c.setBits(m.u.IFG().Addr(), pac.UCRXIFG)
}

func (m *I2C) tx(v uint16, _ bool) {
	if !m.active || !m.tr || m.nacked {
		return
	}
	m.w = append(m.w, byte(v))
	ifg := m.u.IFG().Addr()
	if m.NackAfter > 0 && len(m.w) > m.NackAfter {
		m.nacked = true
		m.c.clearBits(ifg, pac.UCTXIFG)
		m.c.setBits(ifg, pac.UCNACKIFG)
		return
	}
	m.c.setBits(ifg, pac.UCTXIFG)
}

func (m *I2C) commit() {
	switch len(m.w) {
	case 0:
		return
	case 1:
		m.ptr = m.w[0]
	default:
		if err := m.targets[m.addr].Tx(m.w, nil); err != nil {
			return
		}
	}
	m.Txns = append(m.Txns, I2CTxn{Addr: m.addr, Write: m.w})
}

// UART models an eUSCI_A block in UART mode. A transmitted byte leaves at
// once; with UCLISTEN set it is also received. Inject puts a byte from the
// far end into RXBUF.
type UART struct {
	c *Chip
	u *pac.EUSCI

	// Sent collects every transmitted byte.
	Sent []byte
	// TxHold is how many IFG reads keep UCTXIFG clear after each byte.
	TxHold int

	hold int
}

// AttachUART starts modelling u as a UART.
func (c *Chip) AttachUART(u *pac.EUSCI) *UART {
	m := &UART{c: c, u: u}
	ifg, stat := u.IFG().Addr(), u.STATW().Addr()
	c.OnWrite(u.CTLW0().Addr(), func(v uint16, _ bool) {
		if v&pac.UCSWRST != 0 {
			c.Poke16(ifg, 0)
			c.clearBits(stat, pac.UCOE|pac.UCFE|pac.UCPE|pac.UCRXERR)
			return
		}
		c.setBits(ifg, pac.UCTXIFG)
	})
	c.OnWrite(u.TXBUF().Addr(), func(v uint16, _ bool) {
		m.Sent = append(m.Sent, byte(v))
		if c.Peek16(stat)&pac.UCLISTEN != 0 {
			m.Inject(byte(v), 0)
		}
		if m.TxHold > 0 {
			m.hold = m.TxHold
			c.clearBits(ifg, pac.UCTXIFG)
		}
	})
	c.OnRead(ifg, func() {
		if m.hold == 0 {
			return
		}
		if m.hold--; m.hold == 0 {
			c.setBits(ifg, pac.UCTXIFG)
		}
	})
	c.OnRead(u.RXBUF().Addr(), func() {
		c.clearBits(ifg, pac.UCRXIFG)
		c.clearBits(stat, pac.UCOE|pac.UCFE|pac.UCPE|pac.UCRXERR)
	})
	return m
}

// Inject receives b with the given STATW error flags (UCFE, UCPE).
// Receiving over an unread byte sets UCOE.
func (m *UART) Inject(b byte, errs uint16) {
	c, u := m.c, m.u
	ifg, stat := u.IFG().Addr(), u.STATW().Addr()
	if c.Peek16(ifg)&pac.UCRXIFG != 0 {
		errs |= pac.UCOE
	}
	if errs&(pac.UCFE|pac.UCPE) != 0 {
		errs |= pac.UCRXERR
	}
	c.setBits(stat, errs)
	c.Poke16(u.RXBUF().Addr(), uint16(b))
	c.setBits(ifg, pac.UCRXIFG)
}
