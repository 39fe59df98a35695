package estimator

import "math"

// clamp01 limits p to [0,1]. NaN reads as no input.
func clamp01(p float64) float64 {
	if math.IsNaN(p) || p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return p
}

// Shape applies the power-law response curve p^(1/max(floor, sensitivity)).
// Higher sensitivity lifts small inputs toward 1.
func Shape(p, sensitivity, floor float64) float64 {
	return math.Pow(clamp01(p), 1/math.Max(floor, sensitivity))
}

// AreaFactor models a larger contact patch registering as more weight.
// Missing geometry (non-positive or non-finite radii) yields 1.
func AreaFactor(radiusX, radiusY float64, t Tuning) float64 {
	if !positive(radiusX) || !positive(radiusY) {
		return 1
	}
	t = t.Normalize()
	f := math.Sqrt(radiusX * radiusY / t.AreaReference)
	return math.Min(t.AreaFactorMax, math.Max(1/t.AreaFactorMax, f))
}

// grossWeight is the curve output before tare.
func grossWeight(p, areaFactor float64, s Settings, t Tuning) float64 {
	if !positive(areaFactor) {
		areaFactor = 1
	}
	return Shape(p, s.Sensitivity, t.ExponentFloor) * s.MaxWeight * areaFactor
}

// MapPressureToWeight maps a normalized input intensity to grams:
//
//	max(0, p^(1/max(floor, sensitivity)) * maxWeight * areaFactor - tareOffset)
//
// p is clamped to [0,1]. The result is non-decreasing in p, exactly zero at
// p=0 with no tare, and exactly maxWeight at p=1 with areaFactor 1 and no tare.
func MapPressureToWeight(p, areaFactor float64, s Settings, t Tuning) float64 {
	s = s.Normalize()
	t = t.Normalize()
	return math.Max(0, grossWeight(p, areaFactor, s, t)-s.TareOffset)
}
