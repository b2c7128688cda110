// Package fixed implements the Q-format fixed-point conversions the wire
// protocol needs. Each conversion saturates on overflow instead of
// wrapping — a command word with a garbled high bit must not turn into a
// wildly wrong screen coordinate on the accelerator.
//
// The shift-based conversions here generalize the hand-rolled per-format
// functions (fixed12_4ToFloat, fixed12_12ToFloat, ...) that a register-based
// 3D accelerator driver keeps one-off for each wire field; QFormat turns
// that pattern into a single reusable type parameterized by shift.
package fixed

import "math"

// QFormat describes a signed fixed-point format with Shift fractional
// bits, stored in a 32-bit word.
type QFormat struct {
	Shift uint
}

// Q makes a QFormat with the given fractional bit count.
func Q(shift uint) QFormat { return QFormat{Shift: shift} }

// ToFloat converts a raw signed fixed-point word to float32.
func (q QFormat) ToFloat(raw int32) float32 {
	return float32(raw) / float32(int64(1)<<q.Shift)
}

// FromFloat converts f to the raw fixed-point representation, saturating
// to the int32 range instead of wrapping on overflow.
func (q QFormat) FromFloat(f float32) int32 {
	scaled := float64(f) * float64(int64(1)<<q.Shift)
	return saturateInt32(scaled)
}

func saturateInt32(v float64) int32 {
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	if v <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// SaturateInt16 clamps v to the int16 range.
func SaturateInt16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// SaturateUint16 clamps v to the uint16 range (used for depth values, which
// are always non-negative in the wire format).
func SaturateUint16(v int32) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	if v < 0 {
		return 0
	}
	return uint16(v)
}

// Q16_16 is the format used for screen-space edge-function coefficients and
// attribute-plane values: 16 integer bits, 16 fractional bits, enough range
// for a framebuffer up to 32k pixels wide with sub-pixel precision.
var Q16_16 = Q(16)

// Q12_4 matches the vertex-coordinate format a 12.4 fixed-point register
// interface uses for screen-space vertex positions.
var Q12_4 = Q(4)

// Q12_12 matches a 12.12 color-channel format (0.0-1.0 range values use
// only the low bits, but the full word is preserved for headroom during
// lighting accumulation before it clamps to [0,1]).
var Q12_12 = Q(12)

// Q20_12 matches a 20.12 depth format.
var Q20_12 = Q(12)

// Q2_30 matches a 2.30 reciprocal-w format: w is always close to 1 after
// perspective divide of a point inside the frustum, so most of the range
// goes to fractional precision.
var Q2_30 = Q(30)

// ClampUnit clamps f to [0, 1] — the color/alpha accumulation range used
// throughout lighting and the rasterizer's attribute planes.
func ClampUnit(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// DepthToUint16 converts a normalized depth value (0.0-1.0) to the 16-bit
// fixed-point representation the depth-clear register expects.
func DepthToUint16(depth float32) uint16 {
	return SaturateUint16(int32(depth * 65535))
}
