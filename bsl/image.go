package bsl

import (
	"context"
	"io"
	"sort"

	"fr2x5x-go/errcode"
	"fr2x5x-go/x/logx"

	"github.com/marcinbor85/gohex"
)

const (
	vectorTable uint32 = 0xFFE0
	resetVector uint32 = 0xFFFE
)

// Segment is a contiguous run of image bytes.
type Segment struct {
	Addr uint32
	Data []byte
}

// Image is a firmware image split into address-ordered segments.
type Image struct {
	Segments []Segment
}

// LoadHex parses an Intel HEX file.
func LoadHex(r io.Reader) (*Image, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "bsl.LoadHex", err)
	}
	img := &Image{}
	for _, s := range mem.GetDataSegments() {
		if len(s.Data) == 0 {
			continue
		}
		if s.Address+uint32(len(s.Data))-1 > 0xFFFFF {
			return nil, errcode.New(errcode.InvalidParams, "bsl.LoadHex", "segment beyond 20-bit address space")
		}
		img.Segments = append(img.Segments, Segment{Addr: s.Address, Data: s.Data})
	}
	sort.Slice(img.Segments, func(i, j int) bool { return img.Segments[i].Addr < img.Segments[j].Addr })
	return img, nil
}

// Size is the number of image bytes.
func (img *Image) Size() int {
	n := 0
	for _, s := range img.Segments {
		n += len(s.Data)
	}
	return n
}

// byteAt returns the image byte at addr, or 0xFF (erased) outside it.
func (img *Image) byteAt(addr uint32) byte {
	for _, s := range img.Segments {
		if addr >= s.Addr && addr < s.Addr+uint32(len(s.Data)) {
			return s.Data[addr-s.Addr]
		}
	}
	return 0xFF
}

// Password is the vector table the image will leave on the chip, which is
// the password the loader asks for once it is programmed.
func (img *Image) Password() []byte {
	pw := make([]byte, PasswordLen)
	for i := range pw {
		pw[i] = img.byteAt(vectorTable + uint32(i))
	}
	return pw
}

// ResetVector returns the entry point the image stores at 0xFFFE.
func (img *Image) ResetVector() (uint32, bool) {
	lo, hi := img.byteAt(resetVector), img.byteAt(resetVector+1)
	v := uint32(lo) | uint32(hi)<<8
	return v, v != 0xFFFF
}

// ErasedPassword is the password of a mass-erased chip.
func ErasedPassword() []byte {
	pw := make([]byte, PasswordLen)
	for i := range pw {
		pw[i] = 0xFF
	}
	return pw
}

// ProgramOptions tune Program.
type ProgramOptions struct {
	// Fast writes blocks without waiting for status messages.
	Fast bool
	// Verify compares a loader CRC of every segment with the image.
	Verify bool
	// Progress, when set, is called after each block with the bytes
	// written so far.
	Progress func(done, total int)
}

// Program writes every segment of img in blocks of at most MaxBlock bytes,
// checking ctx between blocks.
func (c *Client) Program(ctx context.Context, img *Image, opts ProgramOptions) error {
	total, done := img.Size(), 0
	for _, s := range img.Segments {
		for off := 0; off < len(s.Data); off += MaxBlock {
			if err := ctx.Err(); err != nil {
				return err
			}
			end := off + MaxBlock
			if end > len(s.Data) {
				end = len(s.Data)
			}
			addr := s.Addr + uint32(off)
			var err error
			if opts.Fast {
				err = c.WriteBlockFast(addr, s.Data[off:end])
			} else {
				err = c.WriteBlock(addr, s.Data[off:end])
			}
			if err != nil {
				return errcode.Wrap(errcode.Of(err), "bsl.Program", err)
			}
			done += end - off
			if opts.Progress != nil {
				opts.Progress(done, total)
			}
		}
		logx.L().Info("bsl: segment written", "addr", s.Addr, "bytes", len(s.Data))
		if opts.Verify {
			if err := c.Verify(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Verify checks s against the loader's CRC of the same range, in runs of
// at most 0xFFFF bytes.
func (c *Client) Verify(s Segment) error {
	for off := 0; off < len(s.Data); off += 0xFFFF {
		end := off + 0xFFFF
		if end > len(s.Data) {
			end = len(s.Data)
		}
		addr := s.Addr + uint32(off)
		got, err := c.CRC(addr, uint16(end-off))
		if err != nil {
			return err
		}
		if want := Checksum(s.Data[off:end]); got != want {
			return errcode.New(errcode.Checksum, "bsl.Verify", "CRC mismatch at 0x"+hex20(addr))
		}
	}
	return nil
}

func hex20(addr uint32) string {
	const digits = "0123456789ABCDEF"
	var b [5]byte
	for i := 4; i >= 0; i-- {
		b[i] = digits[addr&0xF]
		addr >>= 4
	}
	return string(b[:])
}
