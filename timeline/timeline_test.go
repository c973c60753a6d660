package timeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/musicbraille/model"
)

const waltz = `{
  "metadata": {"title": "Waltz", "movementName": "I"},
  "parts": [{
    "name": "Cello",
    "measures": [
      {"number": 1, "events": [
        {"kind": "time", "numerator": 3, "denominator": 4},
        {"kind": "clef", "clef": "bass"},
        {"kind": "note", "pitch": "C3", "duration": "quarter", "slur": "start"},
        {"kind": "note", "at": 1, "pitch": "G#3", "duration": "16th", "accidental": "sharp", "tie": "start", "slur": "stop"},
        {"kind": "rest", "at": 2, "duration": "quarter"}
      ]},
      {"events": [
        {"kind": "chord", "pitches": ["C4", "E4"], "duration": "half", "dots": 1, "fingering": "1|3"},
        {"kind": "barline", "at": 3, "style": "final"}
      ]}
    ]
  }]
}`

func TestDecodeMeasures(t *testing.T) {
	score, err := Decode(strings.NewReader(waltz))
	require.NoError(t, err)

	assert := assert.New(t)
	require.Len(t, score.Metadata, 1)
	assert.Equal(map[string]string{"title": "Waltz", "movementName": "I"}, score.Metadata[0].WorkIDs)
	require.Len(t, score.Parts, 1)

	part := score.Parts[0]
	assert.Equal("P1", part.ID)
	assert.Equal("Cello", part.Name)
	require.Len(t, part.Measures, 2)
	assert.Equal(2, part.Measures[1].Number)

	first := part.Measures[0].Events
	assert.Equal(model.TimeSignature{Numerator: 3, Denominator: 4}, first[0])
	assert.Equal(model.Clef{Type: model.BassClef}, first[1])
	assert.Equal(model.SlurStart, first[2].(model.Note).Slur)

	gSharp := first[3].(model.Note)
	assert.Equal(1.0, gSharp.Offset())
	assert.Equal(model.Sharp, gSharp.Accidental)
	assert.Equal(model.TieStart, gSharp.Tie)
	assert.Equal(model.Duration{Type: model.Sixteenth}, gSharp.Duration)

	chord := part.Measures[1].Events[0].(model.Chord)
	assert.Len(chord.Notes, 2)
	assert.Equal("1|3", chord.Fingering)
	assert.Equal(model.Duration{Type: model.Half, Dots: 1}, chord.Duration)
	assert.Equal(model.Barline{Position: model.At(3), Style: model.BarFinal}, part.Measures[1].Events[1])
}

func TestDecodeLooseKeyboard(t *testing.T) {
	score, err := Decode(strings.NewReader(`{"parts": [
	  {"staff": "upper", "events": [{"kind": "note", "pitch": "E5", "duration": "whole"}]},
	  {"staff": "left", "events": [
	    {"kind": "tempo", "text": "Allegro", "perMinute": 96, "duration": "half"},
	    {"kind": "key", "fifths": -3},
	    {"kind": "dynamic", "symbol": "pp"},
	    {"kind": "rest", "at": 0, "duration": "whole", "dummy": true}
	  ]}
	]}`))
	require.NoError(t, err)

	assert := assert.New(t)
	pair, ok := score.KeyboardParts()
	require.True(t, ok)
	assert.Len(pair.Upper.Loose, 1)
	assert.False(pair.Upper.HasMeasures())

	tempo := pair.Lower.Loose[0].(model.TempoMark)
	assert.Equal("Allegro", tempo.Text)
	assert.Equal(&model.Metronome{Referent: model.Duration{Type: model.Half}, PerMinute: 96}, tempo.Metronome)
	assert.Equal(model.KeySignature{Fifths: -3}, pair.Lower.Loose[1])
	assert.True(pair.Lower.Loose[3].(model.Rest).Dummy)
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		json string
		want string
	}{
		{"unknown field", `{"parts": [], "composer": "x"}`, "unknown field"},
		{"unknown kind", `{"parts": [{"events": [{"kind": "glissando"}]}]}`, `unknown event kind "glissando"`},
		{"bad pitch", `{"parts": [{"events": [{"kind": "note", "pitch": "H4", "duration": "half"}]}]}`, "unknown step"},
		{"missing duration", `{"parts": [{"events": [{"kind": "rest"}]}]}`, "rest without duration"},
		{"bad tie", `{"parts": [{"events": [{"kind": "note", "pitch": "C4", "duration": "half", "tie": "loose"}]}]}`, `unknown tie "loose"`},
		{"bad clef", `{"parts": [{"events": [{"kind": "clef", "clef": "soprano"}]}]}`, `unknown clef "soprano"`},
		{"empty chord", `{"parts": [{"events": [{"kind": "chord", "duration": "half"}]}]}`, "chord without pitches"},
		{"bad staff", `{"parts": [{"staff": "middle"}]}`, `unknown staff "middle"`},
		{"both layouts", `{"parts": [{"measures": [{"events": []}], "events": [{"kind": "key"}]}]}`, "both measures and loose events"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(c.json))
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}

func TestReadScore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waltz.json")
	require.NoError(t, os.WriteFile(path, []byte(waltz), 0o644))

	score, err := ReadScore(path)
	require.NoError(t, err)
	assert.Len(t, score.Parts, 1)

	_, err = ReadScore(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
