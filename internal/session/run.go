package session

import (
	"context"
	"time"

	"github.com/suykerbuyk/touch-scale/internal/config"
	"github.com/suykerbuyk/touch-scale/internal/sample"
	"github.com/suykerbuyk/touch-scale/internal/ticker"
	"github.com/suykerbuyk/touch-scale/internal/trace"
)

// Inputs are the sources a live session multiplexes.
type Inputs struct {
	Events  <-chan trace.Event   // closed when input ends
	Configs <-chan config.Config // optional config reloads
	Tick    time.Duration        // periodic re-read interval, 0 for none
}

// Run applies events, config reloads and periodic ticks until the event
// channel closes (nil error) or ctx is done. Rejected events are logged and
// skipped.
func (s *Session) Run(ctx context.Context, in Inputs, emit func(Result)) error {
	var tickC <-chan time.Time
	if in.Tick > 0 {
		t := time.NewTicker(in.Tick)
		defer t.Stop()
		tickC = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-in.Events:
			if !ok {
				return nil
			}
			if r, err := s.Apply(ctx, ev); err == nil {
				emit(Result{Event: ev, Reading: r})
			}

		case cfg := <-in.Configs:
			r := s.Configure(cfg)
			emit(Result{Event: trace.Event{Type: trace.Set}, Reading: r})

		case <-tickC:
			ev := trace.Event{Type: trace.Tick}
			if r, err := s.Apply(ctx, ev); err == nil {
				emit(Result{Event: ev, Reading: r})
			}
		}
	}
}

// Replay applies recorded events in order. With pace set, each event waits
// until its AtMs offset from the start of the replay.
func (s *Session) Replay(ctx context.Context, events []trace.Event, pace bool, emit func(Result)) error {
	start := time.Now()
	for _, ev := range events {
		if pace {
			if err := sleepUntil(ctx, start.Add(time.Duration(ev.AtMs)*time.Millisecond)); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if r, err := s.Apply(ctx, ev); err == nil {
			emit(Result{Event: ev, Reading: r})
		}
	}
	return nil
}

func sleepUntil(ctx context.Context, at time.Time) error {
	d := time.Until(at)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Demo presses the platform along a ramp from 0 to 1 and back, one step per
// interval, then releases.
func (s *Session) Demo(ctx context.Context, interval time.Duration, step float64, emit func(Result)) error {
	ramp := ticker.NewRamp(step)
	first := true
	return ticker.Run(ctx, interval, func(time.Time) bool {
		p, ok := ramp.Next()
		ev := trace.Event{Type: trace.Release}
		if ok {
			ev = trace.Event{Type: trace.Move, Sample: &sample.Sample{Kind: sample.Pointer, Pressure: p}}
			if first {
				ev.Type = trace.Press
				first = false
			}
		}
		if r, err := s.Apply(ctx, ev); err == nil {
			emit(Result{Event: ev, Reading: r})
		}
		return ok
	})
}

// Simulate places an object of grams on the platform and re-reads it every
// interval, ticks times. The object stays on the platform afterwards.
func (s *Session) Simulate(ctx context.Context, grams float64, interval time.Duration, ticks int, emit func(Result)) error {
	place := trace.Event{Type: trace.Place, Weight: grams}
	r, err := s.Apply(ctx, place)
	if err != nil {
		return err
	}
	emit(Result{Event: place, Reading: r})

	n := 0
	return ticker.Run(ctx, interval, func(time.Time) bool {
		if n >= ticks {
			return false
		}
		n++
		ev := trace.Event{Type: trace.Tick}
		if r, err := s.Apply(ctx, ev); err == nil {
			emit(Result{Event: ev, Reading: r})
		}
		return n < ticks
	})
}
