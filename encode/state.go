package encode

import "github.com/jsphweid/musicbraille/model"

// Ref locates an event in its part: the measure's position in Part.Measures
// and the event's index within that measure.
type Ref struct {
	Measure int
	Index   int
}

// State is the mutable context threaded through one segment's encoding. It
// is created per segment and never shared.
type State struct {
	// Reference is the last written pitch, for octave mark decisions.
	Reference *model.Pitch
	// OutgoingKey is the key signature in force, for cancellation.
	OutgoingKey *int
	// Clef is the clef in force; it decides chord spelling direction.
	Clef model.ClefKind
}

// NewState returns the state at the start of a segment.
func NewState(outgoingKey *int, clef model.ClefKind) *State {
	st := &State{Clef: clef}
	if outgoingKey != nil {
		k := *outgoingKey
		st.OutgoingKey = &k
	}
	return st
}
