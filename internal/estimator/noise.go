package estimator

import (
	"math"
	"math/rand/v2"
)

// minNoiseSensitivity bounds the noise attenuation so a near-zero
// sensitivity cannot blow the noise up without limit.
const minNoiseSensitivity = 0.2

// Uniform is a source of uniform draws in [0,1). *rand.Rand satisfies it.
type Uniform interface {
	Float64() float64
}

type globalUniform struct{}

func (globalUniform) Float64() float64 { return rand.Float64() }

// Gaussian draws from N(mean, std²) with the Box–Muller transform.
// Zero uniform draws are rejected so the logarithm stays finite.
func Gaussian(mean, std float64, u Uniform) float64 {
	if u == nil {
		u = globalUniform{}
	}
	u1 := nonZero(u)
	u2 := nonZero(u)
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + std*z
}

func nonZero(u Uniform) float64 {
	for {
		if v := u.Float64(); v > 0 {
			return v
		}
	}
}

// NoiseStd returns the sensor noise standard deviation for a sensitivity.
// Noise falls as sensitivity rises, down to a floor of 0.2 in the divisor.
func NoiseStd(sensitivity float64, t Tuning) float64 {
	t = t.Normalize()
	if !positive(sensitivity) {
		sensitivity = DefaultSensitivity
	}
	return t.NoiseStd / math.Max(minNoiseSensitivity, sensitivity)
}

// SimulateTrueWeightReading models a real object resting on the platform.
// Off the platform the reading is exactly zero and no noise is drawn.
func SimulateTrueWeightReading(realWeight float64, onPlatform bool, s Settings, t Tuning, u Uniform) float64 {
	if !onPlatform {
		return 0
	}
	s = s.Normalize()
	if !finite(realWeight) || realWeight < 0 {
		realWeight = 0
	}
	noisy := realWeight + Gaussian(0, NoiseStd(s.Sensitivity, t), u)
	return math.Max(0, noisy-s.TareOffset)
}
