package estimator

import (
	"math"
	"sync"
)

// Mode is what the platform is currently sensing.
type Mode int

const (
	Idle     Mode = iota // nothing pressing, nothing placed
	Pressing             // pointer/touch pressure input
	Placed               // simulated object resting on the platform
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Pressing:
		return "pressing"
	case Placed:
		return "placed"
	default:
		return "unknown"
	}
}

// Reading is one display-ready output of the scale.
type Reading struct {
	Mode      Mode
	Gross     float64 // grams before tare
	Net       float64 // grams after tare, never negative
	Grams     float64 // Net rounded to precision
	Display   string  // Grams formatted, e.g. "250.0 g"
	Intensity float64 // Grams / MaxWeight in [0,1], for cosmetic feedback
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithUniform sets the random source used for simulated sensor noise.
func WithUniform(u Uniform) Option {
	return func(e *Estimator) { e.rng = u }
}

// Estimator owns the settings and per-sample state of one scale.
// All methods are safe for concurrent use; the filter update is a
// read-modify-write and is serialized by mu.
type Estimator struct {
	mu       sync.Mutex
	settings Settings
	tuning   Tuning
	rng      Uniform

	mode       Mode
	lastP      float64 // last normalized pressure
	lastArea   float64 // last area factor
	realWeight float64 // weight of the placed object
	smoothed   float64
	gross      float64
}

// New returns an idle estimator. Out-of-domain settings and tuning fall
// back to their defaults.
func New(s Settings, t Tuning, opts ...Option) *Estimator {
	e := &Estimator{
		settings: s.Normalize(),
		tuning:   t.Normalize(),
		rng:      globalUniform{},
		lastArea: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns a snapshot of the current settings.
func (e *Estimator) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// SetSettings replaces the settings; the change applies to the next sample.
func (e *Estimator) SetSettings(s Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings = s.Normalize()
}

// Tuning returns a snapshot of the tuning constants.
func (e *Estimator) Tuning() Tuning {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tuning
}

// SetTuning replaces the tuning constants.
func (e *Estimator) SetTuning(t Tuning) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tuning = t.Normalize()
}

// Press feeds one pressure sample. p is a normalized intensity and
// areaFactor the contact-geometry multiplier (1 when unknown).
// The first sample of a press starts from a fresh filter state.
func (e *Estimator) Press(p, areaFactor float64) Reading {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Pressing {
		e.mode = Pressing
		e.smoothed = 0
	}
	e.lastP = clamp01(p)
	e.lastArea = areaFactor
	e.gross = e.filter(grossWeight(e.lastP, areaFactor, e.settings, e.tuning), e.tuning.Smoothing)
	return e.reading()
}

// Release ends a press: the reading and the filter state drop to zero.
func (e *Estimator) Release() Reading {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
	return e.reading()
}

// Place puts an object of realWeight grams on the platform and takes the
// first noisy reading. Negative or non-finite weights read as zero.
func (e *Estimator) Place(realWeight float64) Reading {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Placed {
		e.mode = Placed
		e.smoothed = 0
	}
	if !finite(realWeight) || realWeight < 0 {
		realWeight = 0
	}
	e.realWeight = realWeight
	e.sampleTrueWeight()
	return e.reading()
}

// Remove takes the object off the platform.
func (e *Estimator) Remove() Reading {
	return e.Release()
}

// Tick re-reads the current physical state, as a periodic timer would.
// A placed object yields a fresh noisy sample; a held press is re-evaluated
// against the current settings.
func (e *Estimator) Tick() Reading {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.mode {
	case Placed:
		e.sampleTrueWeight()
	case Pressing:
		e.gross = e.filter(grossWeight(e.lastP, e.lastArea, e.settings, e.tuning), e.tuning.Smoothing)
	}
	return e.reading()
}

// Refresh recomputes the reading from the last input without drawing noise
// or advancing the filter. Used after a settings change.
func (e *Estimator) Refresh() Reading {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == Pressing && !e.tuning.Smoothing {
		e.gross = grossWeight(e.lastP, e.lastArea, e.settings, e.tuning)
	}
	return e.reading()
}

// Tare zeroes the scale at the current reading. Under pressure the offset
// is the current gross weight rounded to precision; with a placed object it
// is the current filtered weight itself. Taring an idle scale clears the
// offset.
func (e *Estimator) Tare() Reading {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.mode {
	case Pressing:
		e.settings.TareOffset = RoundToPrecision(e.gross, e.settings.Precision)
	case Placed:
		e.settings.TareOffset = e.gross
	default:
		e.settings.TareOffset = 0
	}
	return e.reading()
}

// Reading returns the current reading without sampling.
func (e *Estimator) Reading() Reading {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reading()
}

// Intensity is the current reading as a fraction of the maximum weight.
func (e *Estimator) Intensity() float64 {
	return e.Reading().Intensity
}

func (e *Estimator) reset() {
	e.mode = Idle
	e.lastP = 0
	e.lastArea = 1
	e.realWeight = 0
	e.smoothed = 0
	e.gross = 0
}

func (e *Estimator) sampleTrueWeight() {
	untared := e.settings
	untared.TareOffset = 0
	raw := SimulateTrueWeightReading(e.realWeight, true, untared, e.tuning, e.rng)
	e.gross = e.filter(raw, true)
}

func (e *Estimator) filter(raw float64, enabled bool) float64 {
	if !enabled {
		e.smoothed = raw
		return raw
	}
	e.smoothed = ApplyLowPassFilter(raw, e.smoothed, FilterAlpha(e.settings.Sensitivity, e.tuning))
	return e.smoothed
}

func (e *Estimator) reading() Reading {
	s := e.settings
	net := math.Max(0, e.gross-s.TareOffset)
	grams := RoundToPrecision(net, s.Precision)
	return Reading{
		Mode:      e.mode,
		Gross:     e.gross,
		Net:       net,
		Grams:     grams,
		Display:   FormatGrams(grams, s.Precision),
		Intensity: math.Min(1, grams/s.MaxWeight),
	}
}
