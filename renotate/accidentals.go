package renotate

import "github.com/jsphweid/musicbraille/model"

type position struct {
	step   model.Step
	octave int
}

// SpellAccidentals fills in the displayed accidental of notes that carry
// none, comparing each pitch with the key signature and with earlier
// accidentals in the same measure. Notes arriving on a tie show nothing.
// Explicit accidentals are kept.
func SpellAccidentals(measures []model.Measure) {
	key := model.KeySignature{}
	for mi := range measures {
		m := &measures[mi]
		altered := make(map[position]int)
		for ei, e := range m.Events {
			switch v := e.(type) {
			case model.KeySignature:
				key = v
			case model.Note:
				v.Accidental = spell(v, v.Tie.Arrives(), key, altered)
				m.Events[ei] = v
			case model.Chord:
				notes := make([]model.Note, len(v.Notes))
				for i, n := range v.Notes {
					n.Accidental = spell(n, v.Tie.Arrives() || n.Tie.Arrives(), key, altered)
					notes[i] = n
				}
				v.Notes = notes
				m.Events[ei] = v
			}
		}
	}
}

func spell(n model.Note, tied bool, key model.KeySignature, altered map[position]int) model.Accidental {
	pos := position{n.Pitch.Step, n.Pitch.Octave}
	expected, ok := altered[pos]
	if !ok {
		expected = key.AlterFor(n.Pitch.Step)
	}
	altered[pos] = n.Pitch.Alter

	if n.Accidental != model.NoAccidental {
		return n.Accidental
	}
	if tied || n.Pitch.Alter == expected {
		return model.NoAccidental
	}
	return model.AccidentalFor(n.Pitch.Alter)
}
