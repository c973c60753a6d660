package chord

import (
	"errors"

	"github.com/jsphweid/musicbraille/model"
)

var (
	ErrEmpty  = errors.New("chord has no notes")
	ErrUnison = errors.New("chord repeats a pitch position")
)

// Member is a non-reference chord note written as an interval.
type Member struct {
	Note model.Note
	// Interval is the simple interval number 2..8 from the reference.
	Interval int
	// Compound is set when the member lies more than an octave away.
	Compound bool
}

type Spelling struct {
	Reference model.Note
	Members   []Member
}

// Descending decides the spelling direction. A known clef wins over the
// configured preference: G and C clefs read downward, F clefs upward.
func Descending(clef model.ClefKind, configured bool) bool {
	switch clef {
	case model.TrebleClef, model.AltoClef, model.TenorClef:
		return true
	case model.BassClef:
		return false
	}
	return configured
}

// Spell picks the reference note and spells the remaining members as
// intervals from it, ordered away from the reference.
func Spell(c model.Chord, descending bool) (Spelling, error) {
	notes := c.SortedNotes()
	if len(notes) == 0 {
		return Spelling{}, ErrEmpty
	}
	if descending {
		for i, j := 0, len(notes)-1; i < j; i, j = i+1, j-1 {
			notes[i], notes[j] = notes[j], notes[i]
		}
	}

	ref := notes[0]
	spelling := Spelling{Reference: ref}
	for _, n := range notes[1:] {
		steps := n.Pitch.Diatonic() - ref.Pitch.Diatonic()
		if steps < 0 {
			steps = -steps
		}
		if steps == 0 {
			return Spelling{}, ErrUnison
		}
		interval := steps%7 + 1
		if steps%7 == 0 {
			interval = 8
		}
		spelling.Members = append(spelling.Members, Member{
			Note:     n,
			Interval: interval,
			Compound: steps > 7,
		})
	}
	return spelling, nil
}
