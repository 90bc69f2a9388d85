// Package mathx holds the generic numeric helpers used for config limits.
package mathx

import "golang.org/x/exp/constraints"

// Clamp bounds v to lo..hi. lo must not exceed hi.
func Clamp[T constraints.Ordered](v, lo, hi T) T { return max(lo, min(v, hi)) }

// Between reports lo <= v <= hi.
func Between[T constraints.Ordered](v, lo, hi T) bool { return lo <= v && v <= hi }

// IsPow2 reports whether n is a positive power of two.
func IsPow2[T constraints.Integer](n T) bool { return n > 0 && n&(n-1) == 0 }
