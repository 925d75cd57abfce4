package sim

// Trace returns every event since the last ResetTrace.
func (c *Chip) Trace() []Event { return c.trace }

// ResetTrace forgets recorded events. Register contents are kept.
func (c *Chip) ResetTrace() { c.trace = c.trace[:0] }

// Writes returns the write events in order.
func (c *Chip) Writes() []Event {
	var out []Event
	for _, e := range c.trace {
		if e.Op == OpWrite {
			out = append(out, e)
		}
	}
	return out
}

// WritesTo returns the values written to addr, in order.
func (c *Chip) WritesTo(addr uintptr) []uint16 {
	var out []uint16
	for _, e := range c.trace {
		if e.Op == OpWrite && e.Addr == addr {
			out = append(out, e.Val)
		}
	}
	return out
}

// Reads counts reads of addr.
func (c *Chip) Reads(addr uintptr) int {
	n := 0
	for _, e := range c.trace {
		if e.Op == OpRead && e.Addr == addr {
			n++
		}
	}
	return n
}

// Nops counts NOP instructions.
func (c *Chip) Nops() int {
	n := 0
	for _, e := range c.trace {
		if e.Op == OpNop {
			n++
		}
	}
	return n
}

// LastWrite returns the index in Trace of the last write to addr, or -1.
func (c *Chip) LastWrite(addr uintptr) int {
	for i := len(c.trace) - 1; i >= 0; i-- {
		if e := c.trace[i]; e.Op == OpWrite && e.Addr == addr {
			return i
		}
	}
	return -1
}

// FirstWrite returns the index in Trace of the first write to addr, or -1.
func (c *Chip) FirstWrite(addr uintptr) int {
	for i, e := range c.trace {
		if e.Op == OpWrite && e.Addr == addr {
			return i
		}
	}
	return -1
}

// RunOfNops returns how many NOPs directly follow trace index i.
func (c *Chip) RunOfNops(i int) int {
	n := 0
	for j := i + 1; j < len(c.trace) && c.trace[j].Op == OpNop; j++ {
		n++
	}
	return n
}
