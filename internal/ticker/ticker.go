// Package ticker runs repeating scale tasks: periodic re-reads and the demo
// press ramp.
package ticker

import (
	"context"
	"errors"
	"time"
)

// Run calls fn every interval until fn returns false or ctx is done.
// Calls never overlap. It returns ctx.Err() on cancellation and nil when fn
// stops the loop.
func Run(ctx context.Context, interval time.Duration, fn func(time.Time) bool) error {
	if interval <= 0 {
		return errors.New("ticker: interval must be positive")
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			if !fn(now) {
				return nil
			}
		}
	}
}

// Ramp produces the demo press: pressure rises by Step per call until it
// reaches 1, then falls back until it is no longer positive.
type Ramp struct {
	step float64
	t    float64
	dir  float64
	done bool
}

// DefaultRampStep is the per-tick pressure increment of the demo press.
const DefaultRampStep = 0.03

// NewRamp returns a ramp starting at zero. Non-positive steps use
// DefaultRampStep.
func NewRamp(step float64) *Ramp {
	if !(step > 0) || step > 1 {
		step = DefaultRampStep
	}
	return &Ramp{step: step, dir: 1}
}

// Next advances the ramp and returns the new pressure. ok is false once the
// ramp is back at zero; the caller should release the press then.
func (r *Ramp) Next() (p float64, ok bool) {
	if r.done {
		return 0, false
	}
	r.t += r.dir * r.step
	if r.t >= 1 {
		r.dir = -1
	}
	if r.t <= 0 {
		r.done = true
		return 0, false
	}
	return r.t, true
}
