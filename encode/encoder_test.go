package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/musicbraille/brerrors"
	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/lookup"
	"github.com/jsphweid/musicbraille/model"
)

func note(name string, at float64, t model.DurationType) model.Note {
	return model.Note{
		Position: model.At(at),
		Pitch:    model.MustParsePitch(name),
		Duration: model.Duration{Type: t},
	}
}

func withOctaves() config.Options {
	opts := config.DefaultOptions()
	opts.SuppressOctaveMarks = false
	return opts
}

// encodeMeasure encodes every event of a one-measure part with one state and
// returns the braille per event.
func encodeMeasure(t *testing.T, opts config.Options, events ...model.Event) []string {
	t.Helper()
	part := model.Part{Measures: []model.Measure{{Number: 1, Events: events}}}
	enc := New(opts, Analyze(part, opts))
	st := NewState(nil, "")
	var res []string
	for i, e := range events {
		gl, err := enc.Encode(e, Ref{0, i}, 1, st)
		require.NoError(t, err)
		res = append(res, lookup.Join(gl))
	}
	return res
}

func TestEncodeDynamic(t *testing.T) {
	gl, err := New(config.DefaultOptions(), nil).Encode(model.Dynamic{Symbol: "fff"}, Ref{}, 0, NewState(nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, "⠜⠋⠋⠋", lookup.Join(gl))
}

func TestEncodeSingleNote(t *testing.T) {
	assert := assert.New(t)
	c3 := note("C3", 0, model.Quarter)

	gl, err := New(withOctaves(), nil).Encode(c3, Ref{}, 0, NewState(nil, ""))
	assert.NoError(err)
	assert.Equal("⠸⠹", lookup.Join(gl))
	assert.Equal("octave-3 C-quarter", lookup.Names(gl))

	gl, err = New(config.DefaultOptions(), nil).Encode(c3, Ref{}, 0, NewState(nil, ""))
	assert.NoError(err)
	assert.Equal("⠹", lookup.Join(gl))
}

func TestOctaveMarksFollowIntervals(t *testing.T) {
	cases := []struct {
		name   string
		from   string
		to     string
		marked bool
	}{
		{"third", "C4", "E4", false},
		{"second across octave", "B3", "C4", false},
		{"fifth in octave", "C4", "G4", false},
		{"fourth across octave", "A3", "D4", true},
		{"sixth", "C4", "A4", true},
		{"octave", "C4", "C5", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := encodeMeasure(t, withOctaves(),
				note(c.from, 0, model.Quarter),
				note(c.to, 1, model.Quarter),
			)
			mark, _ := lookup.OctaveMark(model.MustParsePitch(c.to).Octave)
			if c.marked {
				assert.Contains(t, got[1], mark.Cells)
				assert.Equal(t, 2, len([]rune(got[1])))
			} else {
				assert.Equal(t, 1, len([]rune(got[1])))
			}
		})
	}
}

func TestSuppressedOctaveMarksNeverAppear(t *testing.T) {
	events := []model.Event{
		note("C2", 0, model.Quarter),
		note("A5", 1, model.Quarter),
		model.Chord{Position: model.At(2), Duration: model.Duration{Type: model.Half}, Notes: []model.Note{
			{Pitch: model.MustParsePitch("C3")},
			{Pitch: model.MustParsePitch("E5")},
			{Pitch: model.MustParsePitch("G6")},
		}},
	}
	count := func(opts config.Options) int {
		part := model.Part{Measures: []model.Measure{{Number: 1, Events: events}}}
		enc := New(opts, Analyze(part, opts))
		st := NewState(nil, "")
		var marks int
		for i, e := range events {
			gl, err := enc.Encode(e, Ref{0, i}, 1, st)
			require.NoError(t, err)
			for _, g := range gl {
				if lookup.IsOctaveGlyph(g) {
					marks++
				}
			}
		}
		return marks
	}
	assert.Zero(t, count(config.DefaultOptions()))
	// every pitch leaps, and both chord members lie over an octave below G6
	assert.Equal(t, 5, count(withOctaves()))
}

func TestOctaveOutOfRange(t *testing.T) {
	n := model.Note{Pitch: model.Pitch{Step: model.StepC, Octave: 9}, Duration: model.Duration{Type: model.Quarter}}
	_, err := New(config.DefaultOptions(), nil).Encode(n, Ref{}, 3, NewState(nil, ""))
	assert.ErrorIs(t, err, brerrors.ErrEncoding)
}

func TestEncodeDottedNoteAndRest(t *testing.T) {
	got := encodeMeasure(t, config.DefaultOptions(),
		model.Note{Pitch: model.MustParsePitch("E5"), Duration: model.Duration{Type: model.Half, Dots: 1}},
		model.Rest{Position: model.At(3), Duration: model.Duration{Type: model.Quarter}},
	)
	assert.Equal(t, []string{"⠏⠄", "⠧"}, got)
}

func TestEncodeAccidentalBeforeOctave(t *testing.T) {
	n := note("G#4", 0, model.Eighth)
	n.Accidental = model.Sharp
	got := encodeMeasure(t, withOctaves(), n)
	assert.Equal(t, []string{"⠩⠐⠓"}, got)
}

func slurred(names ...string) []model.Event {
	var res []model.Event
	for i, name := range names {
		n := note(name, float64(i), model.Quarter)
		if i == 0 {
			n.Slur |= model.SlurStart
		}
		if i == len(names)-1 {
			n.Slur |= model.SlurStop
		}
		res = append(res, n)
	}
	return res
}

func TestLongPhraseUsesBrackets(t *testing.T) {
	got := encodeMeasure(t, config.DefaultOptions(), slurred("C4", "D4", "E4", "F4")...)
	assert.Equal(t, []string{"⠰⠃⠹", "⠱", "⠫", "⠻⠘⠆"}, got)
}

func TestLongPhraseUsesDoubleSlur(t *testing.T) {
	opts := config.DefaultOptions()
	opts.SlurLongPhraseWithBrackets = false
	got := encodeMeasure(t, opts, slurred("C4", "D4", "E4", "F4")...)
	assert.Equal(t, []string{"⠹⠉⠉", "⠱", "⠫⠉", "⠻"}, got)
}

func TestShortPhraseSlursEachNote(t *testing.T) {
	got := encodeMeasure(t, config.DefaultOptions(), slurred("C4", "D4", "E4")...)
	assert.Equal(t, []string{"⠹⠉", "⠱⠉", "⠫"}, got)
}

func TestTiedNotesLeaveThePhrase(t *testing.T) {
	events := slurred("C4", "C4", "D4", "E4")
	first := events[0].(model.Note)
	first.Tie = model.TieStart
	events[0] = first
	second := events[1].(model.Note)
	second.Tie = model.TieStop
	events[1] = second

	got := encodeMeasure(t, config.DefaultOptions(), events...)
	assert.Equal(t, []string{"⠹⠈⠉", "⠹⠉", "⠱⠉", "⠫"}, got)

	opts := config.DefaultOptions()
	opts.ShowLongSlursAndTiesTogether = true
	got = encodeMeasure(t, opts, events...)
	assert.Equal(t, []string{"⠰⠃⠹⠈⠉", "⠹", "⠱", "⠫⠘⠆"}, got)
}

func TestBeatGroupingWritesEighthForms(t *testing.T) {
	got := encodeMeasure(t, config.DefaultOptions(),
		note("C4", 0, model.Sixteenth),
		note("D4", 0.25, model.Sixteenth),
		note("E4", 0.5, model.Sixteenth),
		note("F4", 0.75, model.Sixteenth),
		note("G4", 1, model.Sixteenth),
		note("A4", 1.25, model.Eighth),
		note("B4", 1.75, model.Sixteenth),
	)
	assert.Equal(t, []string{"⠽", "⠑", "⠋", "⠛", "⠷", "⠊", "⠾"}, got)
}

func TestEncodeChord(t *testing.T) {
	c := model.Chord{
		Notes: []model.Note{
			{Pitch: model.MustParsePitch("C4")},
			{Pitch: model.MustParsePitch("E4")},
			{Pitch: model.MustParsePitch("G4")},
		},
		Duration: model.Duration{Type: model.Quarter},
	}
	assert := assert.New(t)

	gl, err := New(config.DefaultOptions(), nil).Encode(c, Ref{}, 0, NewState(nil, model.TrebleClef))
	assert.NoError(err)
	assert.Equal("⠳⠬⠔", lookup.Join(gl))

	gl, err = New(withOctaves(), nil).Encode(c, Ref{}, 0, NewState(nil, model.BassClef))
	assert.NoError(err)
	assert.Equal("⠐⠹⠬⠔", lookup.Join(gl))
}

func TestEncodeChordCompoundMember(t *testing.T) {
	c := model.Chord{
		Notes: []model.Note{
			{Pitch: model.MustParsePitch("C3")},
			{Pitch: model.MustParsePitch("E4")},
		},
		Duration: model.Duration{Type: model.Half},
	}
	gl, err := New(withOctaves(), nil).Encode(c, Ref{}, 0, NewState(nil, model.BassClef))
	assert.NoError(t, err)
	assert.Equal(t, "⠸⠝⠐⠬", lookup.Join(gl))
}

func TestKeySignatureCancellation(t *testing.T) {
	assert := assert.New(t)
	two := 2
	st := NewState(&two, "")

	gl, err := New(config.DefaultOptions(), nil).Encode(model.KeySignature{Fifths: -1}, Ref{}, 0, st)
	assert.NoError(err)
	assert.Equal("⠡⠡⠣", lookup.Join(gl))
	assert.Equal(-1, *st.OutgoingKey)

	opts := config.DefaultOptions()
	opts.CancelOutgoingKeySig = false
	gl, err = New(opts, nil).Encode(model.KeySignature{Fifths: 0}, Ref{}, 0, st)
	assert.NoError(err)
	assert.Empty(gl)
}

func TestClefSigns(t *testing.T) {
	assert := assert.New(t)
	st := NewState(nil, "")

	gl, err := New(config.DefaultOptions(), nil).Encode(model.Clef{Type: model.BassClef}, Ref{}, 0, st)
	assert.NoError(err)
	assert.Empty(gl)
	assert.Equal(model.BassClef, st.Clef)

	opts := config.DefaultOptions()
	opts.ShowClefSigns = true
	gl, err = New(opts, nil).Encode(model.Clef{Type: model.TrebleClef}, Ref{}, 0, st)
	assert.NoError(err)
	assert.Equal("⠜⠌⠇", lookup.Join(gl))
}

func TestFingeringChoiceOrder(t *testing.T) {
	n := note("C4", 0, model.Quarter)
	n.Fingering = "1|3"

	gl, err := New(config.DefaultOptions(), nil).Encode(n, Ref{}, 0, NewState(nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, "⠹⠁⠉⠇", lookup.Join(gl))

	opts := config.DefaultOptions()
	opts.UpperFirstInNoteFingering = false
	gl, err = New(opts, nil).Encode(n, Ref{}, 0, NewState(nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, "⠹⠇⠉⠁", lookup.Join(gl))

	n.Fingering = "6"
	_, err = New(opts, nil).Encode(n, Ref{}, 0, NewState(nil, ""))
	assert.ErrorIs(t, err, brerrors.ErrEncoding)
}

func TestMetronomeMark(t *testing.T) {
	gl, ok := MetronomeMark(model.Metronome{Referent: model.Duration{Type: model.Quarter}, PerMinute: 120})
	assert.True(t, ok)
	assert.Equal(t, "⠹⠶⠼⠁⠃⠚", lookup.Join(gl))

	_, ok = MetronomeMark(model.Metronome{Referent: model.Duration{Type: model.Quarter}})
	assert.False(t, ok)
}
