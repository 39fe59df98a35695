package render

import "github.com/charmbracelet/harmonica"

// Animator eases the platform toward its target intensity with a damped
// spring, one step per rendered frame.
type Animator struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

// NewAnimator returns an animator stepping at fps frames per second.
// A damping ratio of 1 settles without overshoot.
func NewAnimator(fps int, frequency, damping float64) *Animator {
	if fps <= 0 {
		fps = 50
	}
	return &Animator{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// Step advances one frame toward target and returns the platform at the
// eased intensity.
func (a *Animator) Step(target float64) Platform {
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, clamp01(target))
	return PlatformFor(a.pos)
}

// Position is the current eased intensity.
func (a *Animator) Position() float64 { return a.pos }
