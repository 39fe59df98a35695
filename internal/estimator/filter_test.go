package estimator

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestApplyLowPassFilter(t *testing.T) {
	if got := ApplyLowPassFilter(10, 0, 0.5); got != 5 {
		t.Errorf("got %v, want 5", got)
	}
	if got := ApplyLowPassFilter(10, 4, 1); got != 10 {
		t.Errorf("alpha 1: got %v, want 10", got)
	}
	for _, alpha := range []float64{0, -0.3, math.NaN(), 1.5} {
		if got := ApplyLowPassFilter(10, 4, alpha); got != 10 {
			t.Errorf("alpha %v: got %v, want pass-through 10", alpha, got)
		}
	}
}

func TestApplyLowPassFilter_Converges(t *testing.T) {
	const target = 321.5
	for _, alpha := range []float64{0.01, 0.1, 0.5, 0.9, 0.999} {
		v := 0.0
		converged := false
		for i := 0; i < 10000; i++ {
			v = ApplyLowPassFilter(target, v, alpha)
			if math.Abs(v-target) < 1e-6 {
				converged = true
				break
			}
		}
		if !converged {
			t.Errorf("alpha %v: did not converge, last %v", alpha, v)
		}
	}
}

func TestApplyLowPassFilter_BoundedForBoundedInput(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	v := 0.0
	for i := 0; i < 5000; i++ {
		v = ApplyLowPassFilter(r.Float64()*100, v, 0.3)
		if v < 0 || v > 100 {
			t.Fatalf("step %d: smoothed %v left [0,100]", i, v)
		}
	}
}

func TestFilterAlpha(t *testing.T) {
	tu := DefaultTuning()
	if got := FilterAlpha(1, tu); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("sensitivity 1: got %v, want 0.3", got)
	}
	if got := FilterAlpha(100, tu); got != tu.AlphaCap {
		t.Errorf("sensitivity 100: got %v, want cap %v", got, tu.AlphaCap)
	}
	tu.AlphaCap = 1.5
	if got := FilterAlpha(100, tu); got >= 1 {
		t.Errorf("cap above 1 must fall back, got %v", got)
	}
}
