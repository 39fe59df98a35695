// Package sample defines the raw input sources a scale can be driven by and
// normalizes each of them to a pressure intensity plus contact-area factor.
package sample

import (
	"errors"
	"fmt"
	"math"

	"github.com/suykerbuyk/touch-scale/internal/estimator"
)

// Kind tags the input source a Sample came from.
type Kind string

const (
	Pointer  Kind = "pointer"  // pointer pressure in [0,1]
	Touch    Kind = "touch"    // touch force in [0,1], optional contact radii
	Area     Kind = "area"     // pressure plus contact radii
	Position Kind = "position" // vertical drag position as a pressure proxy
	Weight   Kind = "weight"   // simulated object of known weight
)

// Kinds lists every sample kind.
var Kinds = []Kind{Pointer, Touch, Area, Position, Weight}

// Fields lists the JSON fields a sample of kind k reads besides kind.
func (k Kind) Fields() []string {
	switch k {
	case Pointer:
		return []string{"pressure"}
	case Touch:
		return []string{"force", "radius_x", "radius_y"}
	case Area:
		return []string{"pressure", "radius_x", "radius_y"}
	case Position:
		return []string{"y", "height"}
	case Weight:
		return []string{"grams", "on_platform"}
	}
	return nil
}

// ErrNotPressure is returned when a weight sample is normalized as pressure.
var ErrNotPressure = errors.New("sample is a placed weight, not a pressure")

// Sample is one raw input reading. Only the fields of its Kind are used.
type Sample struct {
	Kind Kind `json:"kind"`

	Pressure float64 `json:"pressure,omitempty"`
	Force    float64 `json:"force,omitempty"`
	RadiusX  float64 `json:"radius_x,omitempty"`
	RadiusY  float64 `json:"radius_y,omitempty"`

	// Y is measured from the top of the platform; Height is its extent.
	Y      float64 `json:"y,omitempty"`
	Height float64 `json:"height,omitempty"`

	Grams      float64 `json:"grams,omitempty"`
	OnPlatform bool    `json:"on_platform,omitempty"`
}

// Normalized is a pressure sample reduced to what the weight curve consumes.
type Normalized struct {
	P          float64
	AreaFactor float64
}

// Normalize reduces s to (p, areaFactor). p is clamped to [0,1].
func (s Sample) Normalize(t estimator.Tuning) (Normalized, error) {
	switch s.Kind {
	case Pointer:
		return Normalized{P: clamp01(s.Pressure), AreaFactor: 1}, nil
	case Touch:
		return Normalized{P: clamp01(s.Force), AreaFactor: estimator.AreaFactor(s.RadiusX, s.RadiusY, t)}, nil
	case Area:
		return Normalized{P: clamp01(s.Pressure), AreaFactor: estimator.AreaFactor(s.RadiusX, s.RadiusY, t)}, nil
	case Position:
		return Normalized{P: PositionPressure(s.Y, s.Height), AreaFactor: 1}, nil
	case Weight:
		return Normalized{}, ErrNotPressure
	default:
		return Normalized{}, fmt.Errorf("unknown sample kind %q", s.Kind)
	}
}

// PositionPressure simulates pressure from a vertical position: the top of
// the platform reads 1, the bottom 0.
func PositionPressure(y, height float64) float64 {
	if !(height > 0) || math.IsInf(height, 0) {
		return 0
	}
	return clamp01(1 - y/height)
}

// PointerEvent is a raw pointer, touch or mouse event. Nil fields were not
// reported by the device.
type PointerEvent struct {
	Pressure *float64 `json:"pressure,omitempty"`
	Force    *float64 `json:"force,omitempty"`
	RadiusX  float64  `json:"radius_x,omitempty"`
	RadiusY  float64  `json:"radius_y,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Height   float64  `json:"height,omitempty"`
}

// FromPointer resolves a raw event through the fallback chain: a positive
// pointer pressure, then a non-negative touch force, then the vertical
// position. An event carrying none of these reads as zero pressure.
func FromPointer(ev PointerEvent) Sample {
	if ev.Pressure != nil && *ev.Pressure > 0 {
		if ev.RadiusX > 0 && ev.RadiusY > 0 {
			return Sample{Kind: Area, Pressure: *ev.Pressure, RadiusX: ev.RadiusX, RadiusY: ev.RadiusY}
		}
		return Sample{Kind: Pointer, Pressure: *ev.Pressure}
	}
	if ev.Force != nil && *ev.Force >= 0 {
		return Sample{Kind: Touch, Force: *ev.Force, RadiusX: ev.RadiusX, RadiusY: ev.RadiusY}
	}
	if ev.Y != nil {
		return Sample{Kind: Position, Y: *ev.Y, Height: ev.Height}
	}
	return Sample{Kind: Pointer}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}
