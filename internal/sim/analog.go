package sim

import "fr2x5x-go/pac"

// ADC models single-channel, single-conversion mode.
type ADC struct {
	// Values is the conversion result per input channel.
	Values [16]uint16
	// BusyReads is how many ADCCTL1 reads report ADCBUSY per conversion.
	BusyReads int
	// Conversions counts started conversions.
	Conversions int

	busy int
}

// AttachADC starts modelling a.
func (c *Chip) AttachADC(a *pac.ADC) *ADC {
	m := &ADC{}
	ctl0, ctl1 := a.CTL0().Addr(), a.CTL1().Addr()
	c.OnWrite(ctl0, func(v uint16, _ bool) {
		const start = pac.ADCON | pac.ADCENC | pac.ADCSC
		if v&start != start {
			return
		}
		m.Conversions++
		ch := c.Peek16(a.MCTL0().Addr()) & pac.ADCINCH_MASK
		c.Poke16(a.MEM0().Addr(), m.Values[ch])
		c.clearBits(ctl0, pac.ADCSC)
		c.setBits(a.IFG().Addr(), pac.ADCIFG0)
		if m.BusyReads > 0 {
			m.busy = m.BusyReads
			c.setBits(ctl1, pac.ADCBUSY)
		}
	})
	c.OnRead(ctl1, func() {
		if m.busy > 0 {
			m.busy--
			return
		}
		c.clearBits(ctl1, pac.ADCBUSY)
	})
	c.OnRead(a.MEM0().Addr(), func() { c.clearBits(a.IFG().Addr(), pac.ADCIFG0) })
	return m
}

// Timer models a Timer_B block that expires Latency flag reads after each
// start or flag clear.
type Timer struct {
	Latency int
	// Starts records CCR0 at every start in up mode.
	Starts []uint16

	running bool
	wait    map[uintptr]int
}

// AttachTimer starts modelling t.
func (c *Chip) AttachTimer(t *pac.TimerB) *Timer {
	m := &Timer{wait: map[uintptr]int{}}
	ctl := t.CTL().Addr()
	c.OnWrite(ctl, func(v uint16, _ bool) {
		was := m.running
		m.running = v&pac.MC_MASK != pac.MC_STOP
		if m.running && !was {
			m.Starts = append(m.Starts, c.Peek16(t.CCR(0).Addr()))
		}
		for a := range m.wait {
			m.wait[a] = m.Latency
		}
	})
	m.flagOnRead(c, ctl, pac.TBIFG)
	for n := uint8(0); n < t.CCRs(); n++ {
		cctl := t.CCTL(n).Addr()
		c.OnWrite(cctl, func(uint16, bool) { m.wait[cctl] = m.Latency })
		m.flagOnRead(c, cctl, pac.CCIFG)
	}
	return m
}

func (m *Timer) flagOnRead(c *Chip, addr uintptr, flag uint16) {
	m.wait[addr] = m.Latency
	c.OnRead(addr, func() {
		if !m.running || c.Peek16(addr)&flag != 0 {
			return
		}
		if m.wait[addr] > 0 {
			m.wait[addr]--
			return
		}
		c.setBits(addr, flag)
	})
}
