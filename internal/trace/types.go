package trace

import "github.com/suykerbuyk/touch-scale/internal/sample"

// Type is the kind of input event on a trace line.
type Type string

const (
	Press   Type = "press"   // pressure begins
	Move    Type = "move"    // pressure changes while held
	Release Type = "release" // pressure ends
	Place   Type = "place"   // object placed on the platform
	Remove  Type = "remove"  // object removed
	Tare    Type = "tare"    // zero the scale at the current reading
	Set     Type = "set"     // change one setting
	Tick    Type = "tick"    // periodic re-read
)

// Types lists every event type in the order a session usually sees them.
var Types = []Type{Press, Move, Release, Place, Remove, Tare, Set, Tick}

// Known reports whether t is an event type the scale understands.
func (t Type) Known() bool {
	for _, k := range Types {
		if t == k {
			return true
		}
	}
	return false
}

// Doc describes what an event of type t does to the scale.
func (t Type) Doc() string {
	switch t {
	case Press:
		return "pressure begins"
	case Move:
		return "pressure changes while held; ignored when nothing is held"
	case Release:
		return "pressure ends and the reading drops to zero"
	case Place:
		return "an object of known weight rests on the platform"
	case Remove:
		return "the object is taken off"
	case Tare:
		return "zero the scale at the current reading"
	case Set:
		return "change one scale setting"
	case Tick:
		return "re-read the platform, drawing fresh noise for a placed object"
	}
	return ""
}

// Fields lists the JSON fields an event of type t reads besides type and
// at_ms.
func (t Type) Fields() []string {
	switch t {
	case Press, Move:
		return []string{"sample", "pointer"}
	case Place:
		return []string{"weight"}
	case Set:
		return []string{"field", "value"}
	}
	return nil
}

// Event is one line of a trace.
type Event struct {
	// AtMs is the offset from the start of the trace, used for paced replay.
	AtMs int64 `json:"at_ms,omitempty"`
	Type Type  `json:"type"`

	// Press and move events carry either a normalized sample or a raw
	// pointer event resolved through the fallback chain.
	Sample  *sample.Sample       `json:"sample,omitempty"`
	Pointer *sample.PointerEvent `json:"pointer,omitempty"`

	// Place events.
	Weight float64 `json:"weight,omitempty"`

	// Set events.
	Field string  `json:"field,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// Trace is a parsed event stream.
type Trace struct {
	Events  []Event
	Skipped int // unparseable or unknown lines
}
