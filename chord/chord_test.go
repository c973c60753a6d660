package chord

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/musicbraille/model"
)

func makeChord(names ...string) model.Chord {
	var c model.Chord
	for _, n := range names {
		c.Notes = append(c.Notes, model.Note{Pitch: model.MustParsePitch(n)})
	}
	c.Duration = model.Duration{Type: model.Quarter}
	return c
}

func intervals(s Spelling) []int {
	var res []int
	for _, m := range s.Members {
		res = append(res, m.Interval)
	}
	return res
}

func TestSpellDescendingUsesHighestNote(t *testing.T) {
	s, err := Spell(makeChord("E4", "C4", "G4"), true)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("G4", s.Reference.Pitch.String())
	assert.Equal([]int{3, 5}, intervals(s))
	assert.Equal("E4", s.Members[0].Note.Pitch.String())
	assert.Equal("C4", s.Members[1].Note.Pitch.String())
}

func TestSpellAscendingUsesLowestNote(t *testing.T) {
	s, err := Spell(makeChord("E4", "C4", "G4"), false)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("C4", s.Reference.Pitch.String())
	assert.Equal([]int{3, 5}, intervals(s))
	assert.Equal("E4", s.Members[0].Note.Pitch.String())
	assert.Equal("G4", s.Members[1].Note.Pitch.String())
}

func TestSpellDirectionsAreMirrorImages(t *testing.T) {
	c := makeChord("C4", "F4", "A4", "D5")
	down, err := Spell(c, true)
	assert.NoError(t, err)
	up, err := Spell(c, false)
	assert.NoError(t, err)

	// each direction names the other's reference as its farthest member
	assert.Equal(t, up.Reference.Pitch, down.Members[len(down.Members)-1].Note.Pitch)
	assert.Equal(t, down.Reference.Pitch, up.Members[len(up.Members)-1].Note.Pitch)
	assert.Equal(t, []int{4, 6, 2}, intervals(down))
	assert.Equal(t, []int{4, 6, 2}, intervals(up))
	assert.True(t, down.Members[2].Compound)
	assert.True(t, up.Members[2].Compound)
}

func TestSpellOctavesAndCompoundIntervals(t *testing.T) {
	s, err := Spell(makeChord("C4", "C5", "E5"), false)
	assert.NoError(t, err)
	assert.Equal(t, []int{8, 3}, intervals(s))
	assert.False(t, s.Members[0].Compound)
	assert.True(t, s.Members[1].Compound)
}

func TestSpellRejectsMalformedChords(t *testing.T) {
	cases := []struct {
		chord model.Chord
		err   error
	}{
		{model.Chord{}, ErrEmpty},
		{makeChord("C4", "C#4"), ErrUnison},
	}
	for _, c := range cases {
		t.Run(fmt.Sprint(c.err), func(t *testing.T) {
			_, err := Spell(c.chord, true)
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestDescendingClefOverride(t *testing.T) {
	assert := assert.New(t)
	assert.True(Descending(model.TrebleClef, false))
	assert.False(Descending(model.BassClef, true))
	assert.True(Descending("", true))
	assert.False(Descending("", false))
}
