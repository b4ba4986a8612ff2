// Package fixedpoint implements the signed fixed-point arithmetic used
// throughout the flight-controller core. The target hardware has no FPU, so
// every quantity that crosses a controller, mixer, or sensor-fusion boundary
// is represented as a scaled integer rather than a float.
//
// Q16_16 carries 16 fractional bits and is used for gains, attitude errors
// and tuning values (it mirrors the original firmware's I16F16). Q26_6
// carries only 6 fractional bits but a much wider integer range, and is
// reserved for the motor mixer's throttle curve, where the intermediate
// square root can exceed the Q16_16 range (mirrors the original's I26F6).
package fixedpoint

import "math"

// Q16_16 is a signed fixed-point number with 16 fractional bits, backed by
// an int64 so that products of two Q16_16 values never overflow before the
// final shift.
type Q16_16 int64

// Q26_6 is a signed fixed-point number with 6 fractional bits, used only by
// the motor mixer's throttle square root.
type Q26_6 int64

const (
	q16Frac = 16
	q6Frac  = 6
)

// FromInt builds a Q16_16 from a plain integer.
func FromInt(v int32) Q16_16 { return Q16_16(int64(v) << q16Frac) }

// FromFloat builds a Q16_16 from a float64, for use only in host-side code
// (CLI flags, test fixtures) - never on the device path.
func FromFloat(v float64) Q16_16 { return Q16_16(int64(math.Round(v * (1 << q16Frac)))) }

// Float returns the float64 approximation of q, for display purposes only.
func (q Q16_16) Float() float64 { return float64(q) / (1 << q16Frac) }

// ToInt32 returns the integer part of q, rounded towards negative infinity
// (floor): -0.5 becomes -1.
func (q Q16_16) ToInt32() int32 { return int32(int64(q) >> q16Frac) }

// Mul multiplies two Q16_16 values.
func (q Q16_16) Mul(o Q16_16) Q16_16 { return Q16_16((int64(q) * int64(o)) >> q16Frac) }

// Div divides q by o.
func (q Q16_16) Div(o Q16_16) Q16_16 {
	if o == 0 {
		return 0
	}
	return Q16_16((int64(q) << q16Frac) / int64(o))
}

// Add, Sub are provided for symmetry with Mul/Div even though they are plain
// integer operations on the underlying representation.
func (q Q16_16) Add(o Q16_16) Q16_16 { return q + o }
func (q Q16_16) Sub(o Q16_16) Q16_16 { return q - o }

// Clamp clips q between lo and hi.
func (q Q16_16) Clamp(lo, hi Q16_16) Q16_16 {
	if q < lo {
		return lo
	}
	if q > hi {
		return hi
	}
	return q
}

// FromIntQ26 builds a Q26_6 from a plain integer.
func FromIntQ26(v int32) Q26_6 { return Q26_6(int64(v) << q6Frac) }

// ToInt32 returns the integer part of q, rounded towards negative infinity
// (floor).
func (q Q26_6) ToInt32() int32 { return int32(int64(q) >> q6Frac) }

// Mul multiplies two Q26_6 values.
func (q Q26_6) Mul(o Q26_6) Q26_6 { return Q26_6((int64(q) * int64(o)) >> q6Frac) }

// Sqrt computes an integer square root of q using a binary search over the
// fixed-point representation. q must be non-negative.
func (q Q26_6) Sqrt() Q26_6 {
	if q <= 0 {
		return 0
	}
	return Q26_6(isqrt(int64(q) << q6Frac))
}

// Sqrt computes an integer square root of q, the same way Q26_6.Sqrt does,
// scaled for Q16_16's 16 fractional bits. q must be non-negative.
func (q Q16_16) Sqrt() Q16_16 {
	if q <= 0 {
		return 0
	}
	return Q16_16(isqrt(int64(q) << q16Frac))
}

// isqrt returns floor(sqrt(raw)) via binary search. raw must be non-negative
// and is expected to already carry a fixed-point type's fractional bits
// doubled up (see the Sqrt methods), so the result keeps one copy of them.
func isqrt(raw int64) int64 {
	lo, hi := int64(0), raw
	if hi > 3037000499 { // floor(sqrt(MaxInt64)): keeps mid*mid from overflowing
		hi = 3037000499
	}
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if mid*mid <= raw {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Int32Bits returns the raw Q16_16 representation truncated to 32 bits, the
// on-wire width used by the message schema (mirrors the original firmware's
// 32-bit I16F16).
func (q Q16_16) Int32Bits() int32 { return int32(q) }

// FromInt32Bits reconstructs a Q16_16 from its 32-bit wire representation.
func FromInt32Bits(bits int32) Q16_16 { return Q16_16(bits) }

// cordicIterations is how many CORDIC rotation steps Atan2 performs.
// Q16_16 has 16 fractional bits, and each step roughly doubles the
// precision of the accumulated angle, so iterations beyond this add
// negligible further accuracy.
const cordicIterations = 16

// cordicAtanTable holds atan(2^-i) for i in [0, cordicIterations), each
// scaled as Q16_16.
var cordicAtanTable = [cordicIterations]int64{
	51472, 30386, 16055, 8149, 4091, 2047, 1024, 512,
	256, 128, 64, 32, 16, 8, 4, 2,
}

// piQ16 is math.Pi scaled as Q16_16.
const piQ16 = int64(205887)

// Atan2 returns the fixed-point arctangent of y/x in radians, scaled as
// Q16_16. It runs the CORDIC vectoring algorithm entirely in integer
// arithmetic - rotating (x, y) towards the x-axis by a shrinking table of
// known angles and summing the rotations applied - the same technique the
// original firmware's cordic crate used to keep trig off the device's
// missing FPU.
func Atan2(y, x Q16_16) Q16_16 {
	if x == 0 && y == 0 {
		return 0
	}

	xi, yi := int64(x), int64(y)
	reflected := xi < 0
	if reflected {
		xi, yi = -xi, -yi
	}

	var angle int64
	for i := 0; i < cordicIterations; i++ {
		dx := xi >> uint(i)
		dy := yi >> uint(i)
		switch {
		case yi > 0:
			xi, yi = xi+dy, yi-dx
			angle += cordicAtanTable[i]
		case yi < 0:
			xi, yi = xi-dy, yi+dx
			angle -= cordicAtanTable[i]
		}
	}

	if reflected {
		if y >= 0 {
			angle += piQ16
		} else {
			angle -= piQ16
		}
	}
	return Q16_16(angle)
}
