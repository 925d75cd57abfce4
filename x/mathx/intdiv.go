package mathx

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// CeilDiv is a/b rounded up, used where a rate must not exceed its target.
// A zero b yields 0.
func CeilDiv[T unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// RoundDiv is a/b rounded to nearest, halves up. A zero b yields 0.
func RoundDiv[T unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
