// Package geo holds coordinate handling shared by all converters: WGS84
// decimal quantization, inverse UTM reprojection, and GeoJSON decoding.
package geo

import (
	"github.com/shopspring/decimal"
)

// coordinatePlaces is the canonical coordinate precision. Seven fractional
// degrees resolve to roughly a centimeter, which exceeds every source's
// actual accuracy.
const coordinatePlaces = 7

// Quantize rounds a coordinate axis to the canonical 7 fractional digits
// using banker's rounding. The same input always yields the bit-identical
// decimal value.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(coordinatePlaces)
}

// QuantizeFloat converts a float64 axis value exactly and quantizes it.
func QuantizeFloat(f float64) decimal.Decimal {
	return Quantize(decimal.NewFromFloat(f))
}
