// Package render turns scale readings into terminal output and the cosmetic
// platform transform.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/suykerbuyk/touch-scale/internal/estimator"
)

// DefaultBarWidth is the width of the intensity bar in cells.
const DefaultBarWidth = 24

// Platform is how far the pressed platform sinks and how deep its inner
// shadow is, in pixels, at a given intensity.
type Platform struct {
	LiftPx         float64
	ShadowOffsetPx float64
	ShadowBlurPx   float64
}

// PlatformFor returns the platform transform at intensity t, clamped to
// [0,1].
func PlatformFor(t float64) Platform {
	t = clamp01(t)
	return Platform{
		LiftPx:         6 * t,
		ShadowOffsetPx: 8 * t,
		ShadowBlurPx:   20 * t,
	}
}

// Transform is the CSS transform for the platform.
func (p Platform) Transform() string {
	return fmt.Sprintf("translateY(-%spx)", trimFloat(p.LiftPx))
}

// BoxShadow is the CSS inset shadow for the platform.
func (p Platform) BoxShadow() string {
	return fmt.Sprintf("inset 0 -%spx %spx rgba(0,0,0,0.2)", trimFloat(p.ShadowOffsetPx), trimFloat(p.ShadowBlurPx))
}

// Bar draws intensity t as a bar of width cells.
func Bar(t float64, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	filled := int(math.Round(clamp01(t) * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// Line renders a reading as its display string followed by an intensity
// bar, e.g. "  250.0 g [############............]".
func Line(r estimator.Reading, width int) string {
	return fmt.Sprintf("%10s %s", r.Display, Bar(r.Intensity, width))
}

// Writer prints one line per reading.
type Writer struct {
	w     io.Writer
	width int
	anim  *Animator
}

// NewWriter returns a Writer printing bars of width cells. A nil anim
// prints no platform column.
func NewWriter(w io.Writer, width int, anim *Animator) *Writer {
	return &Writer{w: w, width: width, anim: anim}
}

// Write prints r, prefixed with label when it is not empty.
func (w *Writer) Write(label string, r estimator.Reading) error {
	line := Line(r, w.width)
	if label != "" {
		line = fmt.Sprintf("%-8s %s", label, line)
	}
	if w.anim != nil {
		line += "  " + w.anim.Step(r.Intensity).Transform()
	}
	_, err := fmt.Fprintln(w.w, line)
	return err
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// trimFloat formats v with at most two decimals and no trailing zeros.
func trimFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
