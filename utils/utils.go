package utils

import "cmp"

// Limit returns a function that clamps x into [lo, hi].
func Limit[T cmp.Ordered](lo, hi T) func(x T) T {
	return func(x T) T {
		switch {
		case x > hi:
			return hi
		case x < lo:
			return lo
		}
		return x
	}
}
