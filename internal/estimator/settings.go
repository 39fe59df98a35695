// Package estimator converts normalized input samples into display-ready
// weight readings.
//
// The mapping functions are pure. Estimator wraps them with the state a
// live scale needs: the smoothed value, the last input, and the tare offset.
package estimator

import "math"

// Defaults substituted for out-of-domain settings.
const (
	DefaultMaxWeight   = 500.0
	DefaultSensitivity = 1.0
	DefaultPrecision   = 0.1
)

// Settings is the user-facing scale configuration.
type Settings struct {
	MaxWeight   float64 // grams, upper bound of measurable weight
	Sensitivity float64 // curve steepness
	Precision   float64 // rounding granularity in grams
	TareOffset  float64 // grams subtracted from every reading
}

// DefaultSettings returns the settings the scale starts with.
func DefaultSettings() Settings {
	return Settings{
		MaxWeight:   DefaultMaxWeight,
		Sensitivity: DefaultSensitivity,
		Precision:   DefaultPrecision,
	}
}

// Normalize returns s with every out-of-domain field replaced by its default.
func (s Settings) Normalize() Settings {
	if !positive(s.MaxWeight) {
		s.MaxWeight = DefaultMaxWeight
	}
	if !positive(s.Sensitivity) {
		s.Sensitivity = DefaultSensitivity
	}
	if !positive(s.Precision) {
		s.Precision = DefaultPrecision
	}
	if !finite(s.TareOffset) || s.TareOffset < 0 {
		s.TareOffset = 0
	}
	return s
}

// Tuning holds the constants that shape the curve, filter, noise and
// contact-area model.
type Tuning struct {
	ExponentFloor float64 // lower bound for sensitivity in the curve exponent
	AlphaBase     float64
	AlphaGain     float64
	AlphaCap      float64
	NoiseStd      float64 // grams at sensitivity 1
	AreaReference float64 // contact radius product that reads as factor 1
	AreaFactorMax float64
	Smoothing     bool // low-pass filter pressure readings too
}

// DefaultTuning returns the stock tuning constants.
func DefaultTuning() Tuning {
	return Tuning{
		ExponentFloor: 1e-4,
		AlphaBase:     0.2,
		AlphaGain:     0.1,
		AlphaCap:      0.9,
		NoiseStd:      0.5,
		AreaReference: 100,
		AreaFactorMax: 2,
	}
}

// Normalize returns t with every out-of-domain field replaced by its default.
func (t Tuning) Normalize() Tuning {
	d := DefaultTuning()
	if !positive(t.ExponentFloor) {
		t.ExponentFloor = d.ExponentFloor
	}
	if !positive(t.AlphaBase) || t.AlphaBase >= 1 {
		t.AlphaBase = d.AlphaBase
	}
	if !finite(t.AlphaGain) || t.AlphaGain < 0 {
		t.AlphaGain = d.AlphaGain
	}
	if !positive(t.AlphaCap) || t.AlphaCap >= 1 {
		t.AlphaCap = d.AlphaCap
	}
	if !finite(t.NoiseStd) || t.NoiseStd < 0 {
		t.NoiseStd = d.NoiseStd
	}
	if !positive(t.AreaReference) {
		t.AreaReference = d.AreaReference
	}
	if !finite(t.AreaFactorMax) || t.AreaFactorMax < 1 {
		t.AreaFactorMax = d.AreaFactorMax
	}
	return t
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}
