package estimator

import "math"

// ApplyLowPassFilter is one step of an exponential moving average:
//
//	alpha*raw + (1-alpha)*previous
//
// alpha outside (0,1] (or NaN) passes raw through unfiltered.
func ApplyLowPassFilter(raw, previous, alpha float64) float64 {
	if !positive(alpha) || alpha >= 1 {
		return raw
	}
	return alpha*raw + (1-alpha)*previous
}

// FilterAlpha derives the smoothing coefficient from sensitivity:
// min(cap, base + sensitivity*gain). The cap sits below 1, keeping the
// filter a stable first-order IIR.
func FilterAlpha(sensitivity float64, t Tuning) float64 {
	t = t.Normalize()
	if !positive(sensitivity) {
		sensitivity = DefaultSensitivity
	}
	return math.Min(t.AlphaCap, t.AlphaBase+sensitivity*t.AlphaGain)
}
