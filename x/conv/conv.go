// Package conv formats integers without fmt or strconv, for error text and
// register dumps on the MCU.
package conv

const hexd = "0123456789ABCDEF"

// Utoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
	} else {
		for n > 0 && i > 0 {
			i--
			buf[i] = byte('0' + (n % 10))
			n /= 10
		}
	}
	return buf[i:]
}

// Hex writes n as exactly digits uppercase hex digits (no 0x prefix).
// It returns an empty slice if buf is too short.
func Hex(buf []byte, n uint32, digits int) []byte {
	if digits <= 0 || digits > 8 || len(buf) < digits {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < digits; j++ {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
	}
	return buf[i:]
}

// AppendUint appends the decimal form of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	var b [20]byte
	return append(dst, Utoa(b[:], n)...)
}

// AppendHex16 appends "0x" and four hex digits.
func AppendHex16(dst []byte, n uint16) []byte {
	var b [4]byte
	return append(append(dst, '0', 'x'), Hex(b[:], uint32(n), 4)...)
}

// Hz renders a frequency compactly: "24MHz", "32768Hz", "40kHz".
func Hz(hz uint32) string {
	var out []byte
	switch {
	case hz >= 1_000_000 && hz%1_000_000 == 0:
		out = append(AppendUint(out, uint64(hz/1_000_000)), "MHz"...)
	case hz >= 1_000 && hz%1_000 == 0:
		out = append(AppendUint(out, uint64(hz/1_000)), "kHz"...)
	default:
		out = append(AppendUint(out, uint64(hz)), "Hz"...)
	}
	return string(out)
}
