package model

import "sort"

type Measure struct {
	Number int
	Events []Event
}

func (Measure) object() {}

// SortEvents orders the measure's events by offset, keeping insertion order
// for events that share one.
func (m *Measure) SortEvents() {
	sort.SliceStable(m.Events, func(i, j int) bool {
		return m.Events[i].Offset() < m.Events[j].Offset()
	})
}

// Length is the end offset of the last sounding event.
func (m Measure) Length() float64 {
	var end float64
	for _, e := range m.Events {
		if d, ok := EventDuration(e); ok {
			end = max(end, e.Offset()+d.QuarterLength())
		}
	}
	return end
}

// EventDuration returns the notated duration of notes, chords and rests.
func EventDuration(e Event) (Duration, bool) {
	switch ev := e.(type) {
	case Note:
		return ev.Duration, true
	case Chord:
		return ev.Duration, true
	case Rest:
		return ev.Duration, true
	}
	return Duration{}, false
}

type Staff int

const (
	NoStaff Staff = iota
	UpperStaff
	LowerStaff
)

func (s Staff) String() string {
	switch s {
	case UpperStaff:
		return "upper"
	case LowerStaff:
		return "lower"
	}
	return "none"
}

// Part is a single instrumental line. Measures holds the measure-organized
// timeline; Loose holds events, offset from the part start, that have not
// been organized into measures yet.
type Part struct {
	ID       string
	Name     string
	Staff    Staff
	Measures []Measure
	Loose    []Event
}

func (Part) object() {}

// HasMeasures reports whether the part is measure organized.
func (p Part) HasMeasures() bool {
	return len(p.Measures) > 0 || len(p.Loose) == 0
}

// Metadata holds work identifiers such as "title" or "movementName".
type Metadata struct {
	WorkIDs map[string]string
}

type Score struct {
	Metadata []Metadata
	Parts    []Part
}

func (Score) object() {}

// KeyboardParts returns the upper and lower staves when the score holds
// exactly two staff parts.
func (s Score) KeyboardParts() (KeyboardPair, bool) {
	return keyboardPair(s.Parts)
}

type Opus struct {
	Scores []Score
}

func (Opus) object() {}

// KeyboardPair is a two-staff keyboard instrument.
type KeyboardPair struct {
	Upper Part
	Lower Part
}

func (KeyboardPair) object() {}

// Stream is a generic container of parts with no further structure.
type Stream struct {
	Parts []Part
}

func (Stream) object() {}

func (s Stream) KeyboardParts() (KeyboardPair, bool) {
	return keyboardPair(s.Parts)
}

func keyboardPair(parts []Part) (KeyboardPair, bool) {
	var staves []Part
	for _, p := range parts {
		if p.Staff != NoStaff {
			staves = append(staves, p)
		}
	}
	if len(staves) != 2 {
		return KeyboardPair{}, false
	}
	if staves[0].Staff == LowerStaff && staves[1].Staff == UpperStaff {
		staves[0], staves[1] = staves[1], staves[0]
	}
	return KeyboardPair{Upper: staves[0], Lower: staves[1]}, true
}
