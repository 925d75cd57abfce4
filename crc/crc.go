// Package crc drives the CRC16 block, which computes CRC-CCITT
// (x^16 + x^12 + x^5 + 1) signatures.
//
// CRC-CCITT treats bit 7 of each byte as the first bit. The LSB methods
// feed ordinary bytes and words so that Result is the standard CCITT
// value; the MSB methods feed data whose bits are already reversed.
package crc

import (
	"fr2x5x-go/cpu"
	"fr2x5x-go/errcode"
	"fr2x5x-go/pac"
)

// CRC is a claimed CRC16 block.
type CRC struct {
	b    *pac.CRC
	core cpu.Core
}

// New claims b and seeds the signature.
func New(b *pac.CRC, core cpu.Core, seed uint16) (*CRC, error) {
	if b == nil || core == nil {
		return nil, errcode.New(errcode.InvalidParams, "crc.New", "nil CRC block or core")
	}
	if err := b.Claim("crc"); err != nil {
		return nil, err
	}
	c := &CRC{b: b, core: core}
	c.Reset(seed)
	return c, nil
}

// Reset starts a new signature from seed.
func (c *CRC) Reset(seed uint16) { c.b.INIRES().Set(seed) }

// AddByteLSB feeds one byte through the low byte of CRCDIRB.
func (c *CRC) AddByteLSB(b byte) { c.b.R8(pac.CRCDIRB).Set(b) }

func (c *CRC) AddBytesLSB(p []byte) {
	for _, b := range p {
		c.AddByteLSB(b)
	}
}

// AddWordLSB feeds w low byte first. A word takes two cycles in the
// engine, so each word write waits one NOP behind the previous one.
func (c *CRC) AddWordLSB(w uint16) {
	c.core.Nop()
	c.b.DIRB().Set(w)
}

func (c *CRC) AddWordsLSB(ws []uint16) {
	for _, w := range ws {
		c.AddWordLSB(w)
	}
}

// AddByteMSB feeds a bit-reversed byte through the low byte of CRCDI.
func (c *CRC) AddByteMSB(b byte) { c.b.R8(pac.CRCDI).Set(b) }

func (c *CRC) AddBytesMSB(p []byte) {
	for _, b := range p {
		c.AddByteMSB(b)
	}
}

func (c *CRC) AddWordMSB(w uint16) {
	c.core.Nop()
	c.b.DI().Set(w)
}

func (c *CRC) AddWordsMSB(ws []uint16) {
	for _, w := range ws {
		c.AddWordMSB(w)
	}
}

// Write feeds p as AddBytesLSB does. It never fails.
func (c *CRC) Write(p []byte) (int, error) {
	c.AddBytesLSB(p)
	return len(p), nil
}

// Result is the CRC-CCITT signature of everything fed since the seed.
func (c *CRC) Result() uint16 {
	c.core.Nop()
	return c.b.INIRES().Get()
}

// ResultReversed is Result with its bits reversed.
func (c *CRC) ResultReversed() uint16 {
	c.core.Nop()
	return c.b.RESR().Get()
}
