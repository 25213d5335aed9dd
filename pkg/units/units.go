// Package units converts physical measurements between pixels, inches,
// centimeters, and millimeters.
//
// Inches are the normalized internal unit. Every physical unit carries a
// fixed factor relative to inches; pixels are resolution dependent and
// require a DPI value for conversion. All functions are pure.
//
// Two different roundings are in play and must not be mixed:
//   - [ToPixels] rounds to the nearest whole pixel, because raster
//     libraries operate on integer pixel grids.
//   - [FromPixels] rounds to two decimal places for display. This rounding
//     is lossy and must never be fed back into further pixel math.
package units

import "math"

// Unit is a measurement unit for label and page dimensions.
type Unit string

// Supported units.
const (
	Pixel      Unit = "px"
	Inch       Unit = "in"
	Centimeter Unit = "cm"
	Millimeter Unit = "mm"
)

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case Pixel, Inch, Centimeter, Millimeter:
		return true
	}
	return false
}

// PerInch returns the number of u units per inch.
//
// Pixel's factor is defined as 1, meaning pixel values are treated as
// already-normalized raw numbers when DPI is not in play. This is only
// valid in contexts (like the grid calculator) where pixel units are never
// mixed with physical units; callers that mix them must resolve DPI first
// via ToPixels/FromPixels.
func (u Unit) PerInch() float64 {
	switch u {
	case Centimeter:
		return 2.54
	case Millimeter:
		return 25.4
	default: // Inch, Pixel
		return 1
	}
}

// ToPixels converts value from unit to pixels at the given resolution.
// If unit is already Pixel, value is returned unchanged and dpi is ignored.
// Other units are normalized to inches and multiplied by dpi, rounded to
// the nearest whole pixel.
//
// ToPixels never fails; a zero or negative dpi yields a degenerate
// (zero or negative) result, which the caller must guard against.
func ToPixels(value float64, unit Unit, dpi float64) float64 {
	if unit == Pixel {
		return value
	}
	return math.Round(value / unit.PerInch() * dpi)
}

// FromPixels converts a pixel count back to the target unit at the given
// resolution. If the target is Pixel, px is returned unchanged. Other
// units are derived by dividing by dpi and applying the unit factor, then
// rounding to two decimal places.
//
// The two-decimal rounding is for presentation only.
func FromPixels(px float64, unit Unit, dpi float64) float64 {
	if unit == Pixel {
		return px
	}
	return Round2(px / dpi * unit.PerInch())
}

// ToInches normalizes a (value, unit) pair to inches using the unit's
// fixed factor. See [Unit.PerInch] for the pixel caveat.
func ToInches(value float64, unit Unit) float64 {
	return value / unit.PerInch()
}

// FromInches converts a value in inches to the target unit.
func FromInches(value float64, unit Unit) float64 {
	return value * unit.PerInch()
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
