package estimator

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestEstimator(s Settings, tu Tuning) *Estimator {
	return New(s, tu, WithUniform(rand.New(rand.NewPCG(11, 13))))
}

func TestEstimator_HalfPressure(t *testing.T) {
	e := newTestEstimator(Settings{MaxWeight: 500, Sensitivity: 1, Precision: 0.1}, DefaultTuning())

	r := e.Press(0.5, 1)
	if r.Gross != 250 {
		t.Errorf("Gross = %v, want 250", r.Gross)
	}
	if r.Display != "250.0 g" {
		t.Errorf("Display = %q, want %q", r.Display, "250.0 g")
	}
	if r.Intensity != 0.5 {
		t.Errorf("Intensity = %v, want 0.5", r.Intensity)
	}
	if r.Mode != Pressing {
		t.Errorf("Mode = %v, want pressing", r.Mode)
	}
}

func TestEstimator_TareThenSamePressure(t *testing.T) {
	e := newTestEstimator(Settings{MaxWeight: 500, Sensitivity: 1, Precision: 0.1}, DefaultTuning())

	e.Press(0.5, 1)
	r := e.Tare()
	if got := e.Settings().TareOffset; got != 250 {
		t.Errorf("TareOffset = %v, want 250", got)
	}
	if r.Display != "0.0 g" {
		t.Errorf("after tare Display = %q", r.Display)
	}

	r = e.Press(0.5, 1)
	if r.Display != "0.0 g" {
		t.Errorf("re-read Display = %q, want %q", r.Display, "0.0 g")
	}

	// Releasing keeps the tare but reads zero; pressing harder reads the excess.
	e.Release()
	r = e.Press(1, 1)
	if r.Display != "250.0 g" {
		t.Errorf("full press after tare = %q, want %q", r.Display, "250.0 g")
	}
}

func TestEstimator_TareRoundsToPrecision(t *testing.T) {
	// sensitivity 1, max 246.88 → p=0.5 gives 123.44 grams.
	e := newTestEstimator(Settings{MaxWeight: 246.88, Sensitivity: 1, Precision: 0.5}, DefaultTuning())
	e.Press(0.5, 1)
	r := e.Tare()
	if got := e.Settings().TareOffset; got != 123.5 {
		t.Errorf("TareOffset = %v, want 123.5", got)
	}
	// Rounded tare exceeds the physical reading; display clamps at zero.
	if r.Net != 0 || r.Display != "0.0 g" {
		t.Errorf("post-tare reading = %+v", r)
	}
}

func TestEstimator_TareIdleClearsOffset(t *testing.T) {
	e := newTestEstimator(Settings{MaxWeight: 500, Sensitivity: 1, Precision: 0.1, TareOffset: 40}, DefaultTuning())
	e.Tare()
	if got := e.Settings().TareOffset; got != 0 {
		t.Errorf("TareOffset = %v, want 0", got)
	}
}

func TestEstimator_ReleaseResets(t *testing.T) {
	tu := DefaultTuning()
	tu.Smoothing = true
	e := newTestEstimator(DefaultSettings(), tu)

	for i := 0; i < 50; i++ {
		e.Press(0.8, 1)
	}
	r := e.Release()
	if r.Gross != 0 || r.Display != "0.0 g" || r.Mode != Idle {
		t.Errorf("after release: %+v", r)
	}

	// A new press starts from a fresh filter: first sample is alpha*raw.
	r = e.Press(1, 1)
	want := FilterAlpha(1, tu) * 500
	if math.Abs(r.Gross-want) > 1e-9 {
		t.Errorf("first smoothed sample = %v, want %v", r.Gross, want)
	}
}

func TestEstimator_SmoothedPressConverges(t *testing.T) {
	tu := DefaultTuning()
	tu.Smoothing = true
	e := newTestEstimator(DefaultSettings(), tu)

	var r Reading
	for i := 0; i < 200; i++ {
		r = e.Press(0.5, 1)
	}
	if r.Display != "250.0 g" {
		t.Errorf("converged Display = %q", r.Display)
	}
}

func TestEstimator_PlaceConvergesToWeight(t *testing.T) {
	e := newTestEstimator(Settings{MaxWeight: 1000, Sensitivity: 1, Precision: 1}, DefaultTuning())

	e.Place(300)
	var r Reading
	for i := 0; i < 200; i++ {
		r = e.Tick()
	}
	if math.Abs(r.Gross-300) > 3 {
		t.Errorf("settled gross = %v, want ≈300", r.Gross)
	}
	if r.Mode != Placed {
		t.Errorf("Mode = %v", r.Mode)
	}

	r = e.Tare()
	if r.Display != "0 g" {
		t.Errorf("after tare Display = %q", r.Display)
	}
	if got := e.Settings().TareOffset; got != r.Gross {
		t.Errorf("TareOffset = %v, want un-rounded gross %v", got, r.Gross)
	}

	r = e.Remove()
	if r.Gross != 0 || r.Mode != Idle {
		t.Errorf("after remove: %+v", r)
	}
}

func TestEstimator_PlaceNegativeWeight(t *testing.T) {
	tu := DefaultTuning()
	tu.NoiseStd = 0
	e := newTestEstimator(DefaultSettings(), tu)
	if r := e.Place(-40); r.Gross != 0 {
		t.Errorf("negative weight: gross %v", r.Gross)
	}
}

func TestEstimator_RefreshAfterMaxWeightChange(t *testing.T) {
	e := newTestEstimator(DefaultSettings(), DefaultTuning())
	e.Press(0.5, 1)

	s := e.Settings()
	s.MaxWeight = 1000
	e.SetSettings(s)

	r := e.Refresh()
	if r.Display != "500.0 g" {
		t.Errorf("Display = %q, want %q", r.Display, "500.0 g")
	}
}

func TestEstimator_SetSettingsNormalizes(t *testing.T) {
	e := newTestEstimator(DefaultSettings(), DefaultTuning())
	e.SetSettings(Settings{MaxWeight: -5, Sensitivity: math.NaN(), Precision: 0, TareOffset: -3})

	got := e.Settings()
	if got != DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", got)
	}
}

func TestEstimator_IntensityCapped(t *testing.T) {
	e := newTestEstimator(DefaultSettings(), DefaultTuning())
	e.Press(1, 2)
	if got := e.Intensity(); got != 1 {
		t.Errorf("Intensity = %v, want 1", got)
	}
}

func TestModeString(t *testing.T) {
	if Idle.String() != "idle" || Pressing.String() != "pressing" || Placed.String() != "placed" {
		t.Error("unexpected mode names")
	}
	if Mode(42).String() != "unknown" {
		t.Error("unknown mode")
	}
}
