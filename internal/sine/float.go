package sine

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Lerp interpolates t in floating point, without the truncated inverse slope.
// The result is unrounded and lies in [-Peak, Peak].
func Lerp[T constraints.Float](t *Table, phase uint16) T {
	q, r := Quarter(phase), phase&phaseBits
	if q == 1 || q == 3 {
		r = phaseBits - r
	}
	addr := Address(r)
	var ya T
	if addr > 0 {
		ya = T(t[addr-1])
	}
	yb := T(t[addr])
	frac := T(r&phaseBits-uint16(addr)*step) / step
	y := ya + frac*(yb-ya)
	if q >= 2 {
		return -y
	}
	return y
}

// Exact returns Peak*sin(2*pi*phase/65536).
func Exact[T constraints.Float](phase uint16) T {
	return T(Peak * math.Sin(2*math.Pi*float64(phase)/65536))
}

// Round rounds half away from zero into the synthesizer's output type.
func Round[T constraints.Float](v T) int16 {
	return int16(math.Round(float64(v)))
}
