// Package session drives one scale from a stream of input events.
//
// A Session is the single owner of its estimator: events, periodic ticks
// and config reloads are all applied from one goroutine.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suykerbuyk/touch-scale/internal/config"
	"github.com/suykerbuyk/touch-scale/internal/estimator"
	"github.com/suykerbuyk/touch-scale/internal/sample"
	"github.com/suykerbuyk/touch-scale/internal/trace"
)

var (
	// ErrNegativeWeight rejects a placed object with a negative or
	// non-finite weight.
	ErrNegativeWeight = errors.New("placed weight must be a non-negative number")
	// ErrUnknownField rejects a set event naming no known setting.
	ErrUnknownField = errors.New("unknown setting")
	// ErrNoSample rejects a press or move that carries no input.
	ErrNoSample = errors.New("press without sample or pointer data")
)

// Sink receives every applied event with the reading it produced.
type Sink interface {
	Record(ctx context.Context, sessionID string, ev trace.Event, r estimator.Reading) error
}

// Recorder receives every applied event, for later replay.
type Recorder interface {
	Write(ev trace.Event) error
}

// Result is one applied event and the reading it produced.
type Result struct {
	Event   trace.Event
	Reading estimator.Reading
}

// Stats counts what a session has processed.
type Stats struct {
	Applied  int
	Rejected int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithSink records readings to sink.
func WithSink(sink Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithRecorder copies applied events to rec.
func WithRecorder(rec Recorder) Option {
	return func(s *Session) { s.rec = rec }
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) { s.ID = id }
}

// Session applies input events to one estimator.
type Session struct {
	ID string

	est    *estimator.Estimator
	logger *zap.Logger
	sink   Sink
	rec    Recorder
	stats  Stats
}

// New returns a session driving est.
func New(est *estimator.Estimator, opts ...Option) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		est:    est,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.ID))
	return s
}

// Estimator returns the estimator this session drives.
func (s *Session) Estimator() *estimator.Estimator { return s.est }

// Stats returns the counts so far.
func (s *Session) Stats() Stats { return s.stats }

// Apply applies one event and returns the resulting reading. A rejected
// event leaves the estimator untouched and returns the current reading
// alongside the error.
//
// A tick that leaves the reading unchanged without drawing noise (an idle
// scale, or a steady press) is not passed to the recorder or sink.
func (s *Session) Apply(ctx context.Context, ev trace.Event) (estimator.Reading, error) {
	before := s.est.Reading()
	r, err := s.apply(ev)
	if err != nil {
		s.stats.Rejected++
		s.logger.Warn("event rejected", zap.String("type", string(ev.Type)), zap.Error(err))
		return s.est.Reading(), err
	}
	s.stats.Applied++
	s.logger.Debug("event applied",
		zap.String("type", string(ev.Type)),
		zap.String("display", r.Display),
		zap.Float64("gross", r.Gross))

	if ev.Type == trace.Tick && r.Mode != estimator.Placed && r == before {
		return r, nil
	}
	if s.rec != nil {
		if err := s.rec.Write(ev); err != nil {
			s.logger.Warn("could not record event", zap.Error(err))
		}
	}
	if s.sink != nil {
		if err := s.sink.Record(ctx, s.ID, ev, r); err != nil {
			s.logger.Warn("could not log reading", zap.Error(err))
		}
	}
	return r, nil
}

func (s *Session) apply(ev trace.Event) (estimator.Reading, error) {
	switch ev.Type {
	case trace.Press, trace.Move:
		smp, err := resolveSample(ev)
		if err != nil {
			return estimator.Reading{}, err
		}
		if ev.Type == trace.Move && s.est.Reading().Mode == estimator.Idle {
			// Moves only count while something is held down.
			return s.est.Reading(), nil
		}
		return s.applySample(smp)
	case trace.Release:
		return s.est.Release(), nil
	case trace.Place:
		return s.place(ev.Weight)
	case trace.Remove:
		return s.est.Remove(), nil
	case trace.Tare:
		return s.est.Tare(), nil
	case trace.Set:
		if err := s.set(ev.Field, ev.Value); err != nil {
			return estimator.Reading{}, err
		}
		return s.est.Refresh(), nil
	case trace.Tick:
		return s.est.Tick(), nil
	default:
		return estimator.Reading{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
}

func resolveSample(ev trace.Event) (sample.Sample, error) {
	switch {
	case ev.Sample != nil:
		return *ev.Sample, nil
	case ev.Pointer != nil:
		return sample.FromPointer(*ev.Pointer), nil
	default:
		return sample.Sample{}, ErrNoSample
	}
}

// applySample dispatches on the sample kind: placed weights drive the
// simulated-object path, everything else the pressure curve.
func (s *Session) applySample(smp sample.Sample) (estimator.Reading, error) {
	if smp.Kind == sample.Weight {
		if !smp.OnPlatform {
			return s.est.Remove(), nil
		}
		return s.place(smp.Grams)
	}
	n, err := smp.Normalize(s.est.Tuning())
	if err != nil {
		return estimator.Reading{}, err
	}
	return s.est.Press(n.P, n.AreaFactor), nil
}

func (s *Session) place(grams float64) (estimator.Reading, error) {
	if math.IsNaN(grams) || math.IsInf(grams, 0) || grams < 0 {
		return estimator.Reading{}, fmt.Errorf("%w: %v", ErrNegativeWeight, grams)
	}
	return s.est.Place(grams), nil
}

// set changes one setting by its config name. Invalid values fall back to
// defaults inside the estimator rather than failing.
func (s *Session) set(field string, v float64) error {
	st := s.est.Settings()
	switch field {
	case "max_weight":
		st.MaxWeight = v
	case "sensitivity":
		st.Sensitivity = v
	case "precision":
		st.Precision = v
	case "tare_offset":
		st.TareOffset = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	s.est.SetSettings(st)
	return nil
}

// Configure applies a reloaded config. The current tare offset survives.
// Each changed scale setting is recorded as a set event so a replay of the
// trace reads the same; tuning is taken from the replaying config.
func (s *Session) Configure(cfg config.Config) estimator.Reading {
	prev := s.est.Settings()
	st := cfg.Settings()
	st.TareOffset = prev.TareOffset
	s.est.SetSettings(st)
	s.est.SetTuning(cfg.EstimatorTuning())
	s.recordChanges(prev, s.est.Settings())
	s.logger.Info("settings updated",
		zap.Float64("max_weight", st.MaxWeight),
		zap.Float64("sensitivity", st.Sensitivity),
		zap.Float64("precision", st.Precision))
	return s.est.Refresh()
}

func (s *Session) recordChanges(prev, cur estimator.Settings) {
	if s.rec == nil {
		return
	}
	changes := []struct {
		field     string
		old, next float64
	}{
		{"max_weight", prev.MaxWeight, cur.MaxWeight},
		{"sensitivity", prev.Sensitivity, cur.Sensitivity},
		{"precision", prev.Precision, cur.Precision},
	}
	for _, c := range changes {
		if c.old == c.next {
			continue
		}
		ev := trace.Event{Type: trace.Set, Field: c.field, Value: c.next}
		if err := s.rec.Write(ev); err != nil {
			s.logger.Warn("could not record event", zap.Error(err))
		}
	}
}
