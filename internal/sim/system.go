package sim

import (
	"math/bits"

	"fr2x5x-go/pac"

	"github.com/sigurn/crc16"
)

var ccitt = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

func (c *Chip) reset() {
	c.mem = [memSize]byte{}
	c.SR = 0
	c.trace = c.trace[:0]

	c.Poke16(pac.BaseWDT+pac.WDTCTL, 0x6904)
	c.Poke16(pac.BaseFRCTL+pac.FRCTL0, 0x9600)
	c.Poke16(pac.BasePMM+pac.PMMCTL0, 0x9640)
	c.Poke16(pac.BasePMM+pac.PM5CTL0, pac.LOCKLPM5)
	c.Poke16(pac.BaseCRC+pac.CRCINIRES, 0xFFFF)
	c.Poke16(pac.BaseCRC+pac.CRCRESR, 0xFFFF)
	c.crc.value = 0xFFFF
	for _, base := range []uintptr{pac.BaseUCA0, pac.BaseUCA1, pac.BaseUCB0, pac.BaseUCB1} {
		c.Poke16(base, pac.UCSWRST)
	}

	c.protected(pac.BaseWDT+pac.WDTCTL, 0x5A, 0x69, pac.WDTCNTCL)
	c.protected(pac.BaseFRCTL+pac.FRCTL0, 0xA5, 0x96, 0)
	c.protected(pac.BasePMM+pac.PMMCTL0, 0xA5, 0x96, 0)

	c.ports()

	c.OnRead(pac.BaseSFR+pac.SFRIFG1, c.xt1Poll)
	c.OnRead(pac.BaseCS+pac.CSCTL7, c.xt1Poll)

	crc := pac.BaseCRC
	c.OnWrite(crc+pac.CRCINIRES, func(v uint16, wide bool) {
		if wide {
			c.crc.value = v
			c.crc.publish(c)
		}
	})
	c.OnWrite(crc+pac.CRCDIRB, func(v uint16, wide bool) { c.crc.feed(c, v, wide, false) })
	c.OnWrite(crc+pac.CRCDI, func(v uint16, wide bool) { c.crc.feed(c, v, wide, true) })
}

// protected models a password-protected control register: writes without
// the password cause a PUC, and the upper byte always reads back as rd.
// selfClear bits read back as zero.
func (c *Chip) protected(addr uintptr, pw, rd uint8, selfClear uint16) {
	c.OnWrite(addr, func(v uint16, wide bool) {
		if !wide || uint8(v>>8) != pw {
			c.PUCs++
		}
		c.Poke16(addr, uint16(rd)<<8|v&0x00FF&^selfClear)
	})
}

// ---- XT1 ----

// XT1Unstable makes the oscillator fault flags read set for the next polls
// reads of SFRIFG1 or CSCTL7.
func (c *Chip) XT1Unstable(polls int) { c.xt1Faults = polls }

// XT1Dead makes XT1 never start.
func (c *Chip) XT1Dead() { c.xt1Dead = true }

func (c *Chip) xt1Poll() {
	if c.xt1Faults > 0 || c.xt1Dead {
		if c.xt1Faults > 0 {
			c.xt1Faults--
		}
		c.setBits(pac.BaseSFR+pac.SFRIFG1, pac.OFIFG)
		c.setBits(pac.BaseCS+pac.CSCTL7, pac.XT1OFFG)
	}
}

// ---- CRC ----

// crcModel is the CRC16 engine. It shifts in bit 0 first; CRCDIRB
// bit-reverses each byte written to it, so bytes written there go in MSB
// first, which is the plain CRC-CCITT order. Words go in low byte first
// through either register.
type crcModel struct{ value uint16 }

func (m *crcModel) feed(c *Chip, v uint16, wide, reflect bool) {
	in := []byte{byte(v)}
	if wide {
		in = append(in, byte(v>>8))
	}
	for _, b := range in {
		if reflect {
			b = bits.Reverse8(b)
		}
		m.value = crc16.Update(m.value, []byte{b}, ccitt)
	}
	m.publish(c)
}

func (m *crcModel) publish(c *Chip) {
	c.Poke16(pac.BaseCRC+pac.CRCINIRES, m.value)
	c.Poke16(pac.BaseCRC+pac.CRCRESR, bits.Reverse16(m.value))
}
