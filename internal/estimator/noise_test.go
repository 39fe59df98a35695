package estimator

import (
	"math"
	"math/rand/v2"
	"testing"
)

// zeroFirst returns zero draws before delegating, to exercise rejection.
type zeroFirst struct {
	zeros int
	next  Uniform
}

func (z *zeroFirst) Float64() float64 {
	if z.zeros > 0 {
		z.zeros--
		return 0
	}
	return z.next.Float64()
}

func TestGaussian_Mean(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	const n = 100000
	sum := 0.0
	sumSq := 0.0
	for i := 0; i < n; i++ {
		v := Gaussian(0, 1, r)
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	if math.Abs(mean) > 0.05 {
		t.Errorf("mean = %v, want within ±0.05 of 0", mean)
	}
	variance := sumSq/n - mean*mean
	if math.Abs(variance-1) > 0.05 {
		t.Errorf("variance = %v, want ≈1", variance)
	}
}

func TestGaussian_RejectsZeroDraws(t *testing.T) {
	u := &zeroFirst{zeros: 5, next: rand.New(rand.NewPCG(1, 1))}
	v := Gaussian(0, 1, u)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		t.Fatalf("got %v", v)
	}
	if u.zeros != 0 {
		t.Errorf("zero draws left unconsumed: %d", u.zeros)
	}
}

func TestNoiseStd_FallsWithSensitivity(t *testing.T) {
	tu := DefaultTuning()
	if got := NoiseStd(1, tu); got != 0.5 {
		t.Errorf("sensitivity 1: got %v", got)
	}
	if NoiseStd(4, tu) >= NoiseStd(1, tu) {
		t.Error("noise should fall as sensitivity rises")
	}
	if got := NoiseStd(1e-9, tu); got != 0.5/minNoiseSensitivity {
		t.Errorf("near-zero sensitivity: got %v", got)
	}
}

func TestNoiseStd_FloorIgnoresExponentFloor(t *testing.T) {
	tu := DefaultTuning()
	tu.ExponentFloor = 1e-4
	if got := NoiseStd(1e-3, tu); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("NoiseStd(1e-3) = %v, want 2.5", got)
	}
}

func TestSimulateTrueWeightReading_OffPlatform(t *testing.T) {
	u := &zeroFirst{next: rand.New(rand.NewPCG(3, 4))}
	for _, w := range []float64{0, 1, 250, 1e9} {
		if got := SimulateTrueWeightReading(w, false, DefaultSettings(), DefaultTuning(), u); got != 0 {
			t.Errorf("weight %v off platform: got %v, want 0", w, got)
		}
	}
}

func TestSimulateTrueWeightReading_OnPlatform(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	s := DefaultSettings()
	tu := DefaultTuning()

	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		v := SimulateTrueWeightReading(200, true, s, tu, r)
		if v < 0 {
			t.Fatalf("negative reading %v", v)
		}
		sum += v
	}
	if mean := sum / n; math.Abs(mean-200) > 0.05 {
		t.Errorf("mean = %v, want ≈200", mean)
	}

	s.TareOffset = 500
	if got := SimulateTrueWeightReading(200, true, s, tu, r); got != 0 {
		t.Errorf("tare above weight: got %v, want 0", got)
	}
}

func TestSimulateTrueWeightReading_Noiseless(t *testing.T) {
	tu := DefaultTuning()
	tu.NoiseStd = 0
	s := DefaultSettings()
	s.TareOffset = 50
	if got := SimulateTrueWeightReading(120, true, s, tu, rand.New(rand.NewPCG(1, 2))); got != 70 {
		t.Errorf("got %v, want 70", got)
	}
}
