// Package mathx holds the integer helpers used for divider, prescaler and
// duty-cycle arithmetic.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to the range between lo and hi, in either order.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Max(lo, Min(v, hi))
}

func Min[T constraints.Ordered](a, b T) T {
	if b < a {
		return b
	}
	return a
}

func Max[T constraints.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}
