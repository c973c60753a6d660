package model

import "sort"

// Chord is a set of pitches sounding together. Members carry pitch, displayed
// accidental and fingering; the envelope fields apply to the whole chord.
type Chord struct {
	Position
	Notes     []Note
	Duration  Duration
	Fingering string
	Tie       Tie
	Slur      Slur
}

func (Chord) Kind() string { return "chord" }

// SortedNotes returns the members from lowest to highest.
func (c Chord) SortedNotes() []Note {
	notes := make([]Note, len(c.Notes))
	copy(notes, c.Notes)
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Pitch.Less(notes[j].Pitch)
	})
	return notes
}
