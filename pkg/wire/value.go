package wire

import (
	"fmt"
	"math"
)

// FormatStepped encodes a numeric quantity constrained to multiples of
// step as a fixed-precision decimal string, the form the device expects
// for volume levels ("VOL" uses decimals=1, step=0.5).
//
// The value is first rounded to the nearest step multiple, halves away
// from zero. The integer part carries the sign; the fractional part is
// the magnitude scaled to decimals digits, without zero padding.
func FormatStepped(value float64, decimals int, step float64) string {
	steps := math.Round(value / step)
	stepped := steps * step

	negative := stepped < 0
	ipart, fpart := math.Modf(math.Abs(stepped))

	scale := math.Pow10(decimals)
	frac := int(math.Round(fpart * scale))
	if frac >= int(scale) {
		// Rounding the scaled fraction crossed into the next integer.
		ipart++
		frac = 0
	}

	s := fmt.Sprintf("%d.%d", int(ipart), frac)
	if negative && (ipart != 0 || frac != 0) {
		s = "-" + s
	}
	return s
}
