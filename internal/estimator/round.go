package estimator

import (
	"math"
	"strconv"
	"strings"
)

// DecimalPlaces returns how many digits follow the decimal point in the
// shortest representation of precision: 0.1 → 1, 0.25 → 2, 5 → 0.
func DecimalPlaces(precision float64) int {
	if !positive(precision) {
		precision = DefaultPrecision
	}
	s := strconv.FormatFloat(precision, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// RoundToPrecision rounds value to the nearest multiple of precision.
// The result is snapped to precision's decimal places so 0.37 at 0.1 is
// 0.4 and not 0.4000000000000001.
func RoundToPrecision(value, precision float64) float64 {
	if !positive(precision) {
		precision = DefaultPrecision
	}
	if !finite(value) {
		return 0
	}
	r := math.Round(value/precision) * precision
	scale := math.Pow10(DecimalPlaces(precision))
	r = math.Round(r*scale) / scale
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// FormatGrams renders value rounded to precision, e.g. "250.0 g".
func FormatGrams(value, precision float64) string {
	return strconv.FormatFloat(RoundToPrecision(value, precision), 'f', DecimalPlaces(precision), 64) + " g"
}
