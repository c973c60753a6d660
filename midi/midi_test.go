package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/musicbraille/model"
)

const resolution = 480

func conductor(name string) smf.Track {
	var tr smf.Track
	if name != "" {
		tr.Add(0, smf.MetaTrackSequenceName(name))
	}
	tr.Add(0, smf.MetaMeter(3, 4))
	tr.Add(0, smf.MetaTempo(100))
	// one flat, major
	tr.Add(0, []byte{0xFF, 0x59, 0x02, 0xFF, 0x00})
	tr.Close(0)
	return tr
}

func melody() smf.Track {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 90))
	tr.Add(resolution, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(0, 64, 90), midi.NoteOn(0, 67, 90))
	tr.Add(2*resolution, midi.NoteOff(0, 64), midi.NoteOff(0, 67))
	tr.Add(0, midi.NoteOn(0, 70, 90))
	// a zero velocity note on ends the note too
	tr.Add(2*resolution, midi.NoteOn(0, 70, 0))
	tr.Close(0)
	return tr
}

func writeSMF(t *testing.T, tracks ...smf.Track) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	for _, tr := range tracks {
		require.NoError(t, s.Add(tr))
	}
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestToScore(t *testing.T) {
	s, err := Decode(bytes.NewReader(writeSMF(t, conductor("Minuet"), melody())))
	require.NoError(t, err)
	score, err := ToScore(s, "fallback")
	require.NoError(t, err)

	assert := assert.New(t)
	require.Len(t, score.Metadata, 1)
	assert.Equal("Minuet", score.Metadata[0].WorkIDs["title"])
	require.Len(t, score.Parts, 1)

	part := score.Parts[0]
	assert.Equal("P1", part.ID)
	assert.False(part.HasMeasures())
	require.Len(t, part.Loose, 6)

	assert.Equal(model.TimeSignature{Numerator: 3, Denominator: 4}, part.Loose[0])
	tempo := part.Loose[1].(model.TempoMark)
	assert.Equal(100, tempo.Metronome.PerMinute)
	assert.Equal(model.KeySignature{Fifths: -1}, part.Loose[2])

	c4 := part.Loose[3].(model.Note)
	assert.Equal("C4", c4.Pitch.String())
	assert.Equal(model.Duration{Type: model.Quarter}, c4.Duration)

	chord := part.Loose[4].(model.Chord)
	assert.Equal(1.0, chord.Offset())
	assert.Equal(model.Duration{Type: model.Half}, chord.Duration)
	require.Len(t, chord.Notes, 2)
	assert.Equal("E4", chord.Notes[0].Pitch.String())
	assert.Equal("G4", chord.Notes[1].Pitch.String())

	bFlat := part.Loose[5].(model.Note)
	assert.Equal(3.0, bFlat.Offset())
	assert.Equal("B-4", bFlat.Pitch.String())
	assert.Equal(model.Duration{Type: model.Half}, bFlat.Duration)
}

func TestTempoOnlyInFirstPart(t *testing.T) {
	s, err := Decode(bytes.NewReader(writeSMF(t, conductor(""), melody(), melody())))
	require.NoError(t, err)
	score, err := ToScore(s, "")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Empty(score.Metadata)
	require.Len(t, score.Parts, 2)
	assert.Equal("P2", score.Parts[1].ID)
	assert.Len(score.Parts[0].Loose, 6)
	assert.Len(score.Parts[1].Loose, 5)
	for _, e := range score.Parts[1].Loose {
		assert.NotEqual("tempo", e.Kind())
	}
}

func TestUnexpressibleLengthsAreTied(t *testing.T) {
	var tr smf.Track
	// five quarters long
	tr.Add(0, midi.NoteOn(0, 62, 90))
	tr.Add(5*resolution, midi.NoteOff(0, 62))
	tr.Close(0)
	s, err := Decode(bytes.NewReader(writeSMF(t, tr)))
	require.NoError(t, err)
	score, err := ToScore(s, "")
	require.NoError(t, err)

	require.Len(t, score.Parts, 1)
	loose := score.Parts[0].Loose
	require.Len(t, loose, 2)
	first, second := loose[0].(model.Note), loose[1].(model.Note)
	assert.Equal(t, model.Duration{Type: model.Whole}, first.Duration)
	assert.Equal(t, model.TieStart, first.Tie)
	assert.Equal(t, 4.0, second.Offset())
	assert.Equal(t, model.TieStop, second.Tie)
}

func TestReadScoreUsesFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etude.mid")
	require.NoError(t, os.WriteFile(path, writeSMF(t, melody()), 0o644))

	score, err := ReadScore(path)
	require.NoError(t, err)
	assert.Equal(t, "etude", score.Metadata[0].WorkIDs["title"])
}

func TestReadMidiFileErrors(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)

	_, err = Decode(bytes.NewReader([]byte("not a midi file")))
	assert.Error(t, err)
}
