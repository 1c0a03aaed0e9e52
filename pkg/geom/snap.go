package geom

import (
	"math"
	"strconv"
)

// Snap rounds each axis of p to the nearest multiple of spacing. A
// non-positive spacing returns p unchanged.
func Snap(p Point, spacing float64) Point {
	if spacing <= 0 {
		return p
	}
	return Point{
		X: math.Round(p.X/spacing) * spacing,
		Y: math.Round(p.Y/spacing) * spacing,
	}
}

// Round formats v with at most precision fraction digits. Trailing zeros
// and a trailing decimal point are dropped, so Round(2.50, 2) is "2.5" and
// Round(3, 2) is "3".
func Round(v float64, precision int) string {
	f := math.Pow(10, float64(precision))
	r := math.Round(v*f) / f
	if r == 0 {
		r = 0 // normalize -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
