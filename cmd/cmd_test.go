package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/musicbraille/config"
	"github.com/jsphweid/musicbraille/model"
	"github.com/jsphweid/musicbraille/translate"
)

const wholeNote = `{
  "metadata": {"title": "Test"},
  "parts": [{"events": [{"kind": "note", "pitch": "C4", "duration": "whole"}]}]
}`

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestOptionFlagsOverrideOnlyWhatIsSet(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	flags := addOptionFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--max-line-length", "32", "--show-hand", "left", "--segment-break", "3,4:2"}))

	base := config.DefaultOptions()
	base.ShowClefSigns = true
	opts, err := flags.resolve(cmd, base)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(32, opts.MaxLineLength)
	assert.Equal(config.LeftHand, opts.ShowHand)
	assert.True(opts.ShowClefSigns)
	assert.Equal([]config.Break{{Measure: 3}, {Measure: 4, Offset: 2}}, opts.SegmentBreaks)
}

func TestOptionFlagsValidate(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	flags := addOptionFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--max-line-length", "3"}))
	_, err := flags.resolve(cmd, config.DefaultOptions())
	assert.Error(t, err)
}

func TestScoreFilter(t *testing.T) {
	part := func(id string) model.Part {
		return model.Part{ID: id, Measures: []model.Measure{
			{Number: 1, Events: []model.Event{model.Rest{Duration: model.Duration{Type: model.Whole}}}},
			{Number: 2, Events: []model.Event{model.Rest{Duration: model.Duration{Type: model.Whole}}}},
		}}
	}
	score := model.Score{Parts: []model.Part{part("a"), part("b"), part("c")}}

	res, err := scoreFilter{measures: "2", keyboard: true}.apply(score)
	require.NoError(t, err)

	assert := assert.New(t)
	require.Len(t, res.Parts, 2)
	assert.Equal(model.UpperStaff, res.Parts[0].Staff)
	assert.Equal(model.LowerStaff, res.Parts[1].Staff)
	assert.Len(res.Parts[0].Measures, 1)
	assert.Equal(model.NoStaff, score.Parts[0].Staff)

	_, err = scoreFilter{keyboard: true}.apply(model.Score{Parts: []model.Part{part("a")}})
	assert.Error(err)
	_, err = scoreFilter{measures: "x"}.apply(score)
	assert.Error(err)
}

func TestLoadScoreRejectsUnknownFormats(t *testing.T) {
	_, err := loadScore("score.xml")
	assert.ErrorContains(t, err, "unsupported input format")
}

func TestTranscribeCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "test.json", wholeNote)
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, config.CreateSample(cfgPath))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"transcribe", input, "--config", cfgPath, "--show-heading=false", "--suppress-octave-marks=false"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Title: Test\n⠼⠁⠀⠼⠙⠲⠀⠐⠽⠣⠅\n", out.String())
}

func TestRunBatch(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, in, "a.json", wholeNote)
	writeFile(t, in, "suite/b.json", wholeNote)
	writeFile(t, in, "broken.json", `{"parts": [{"events": [{"kind": "nope"}]}]}`)
	writeFile(t, in, "notes.txt", "ignored")

	results, err := runBatch(in, out, 0, translate.New(config.DefaultOptions(), nil), scoreFilter{}, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert := assert.New(t)
	var failed int
	for _, r := range results {
		if r.err != nil {
			failed++
			assert.Contains(r.job.Input, "broken.json")
			continue
		}
		assert.Positive(r.bytes)
		assert.FileExists(r.job.Output)
	}
	assert.Equal(1, failed)
	assert.FileExists(filepath.Join(out, "suite", "b.brl"))

	table := renderBatch(&bytes.Buffer{}, results)
	assert.Contains(table, "total")
	assert.Contains(table, "unknown event kind")
}

func TestInspectRows(t *testing.T) {
	score := model.Score{Parts: []model.Part{{
		ID:    "P1",
		Name:  "Piano",
		Staff: model.UpperStaff,
		Measures: []model.Measure{{Number: 1, Events: []model.Event{
			model.KeySignature{Fifths: -2},
			model.Chord{
				Position: model.At(1.5),
				Notes:    []model.Note{{Pitch: model.MustParsePitch("G4")}, {Pitch: model.MustParsePitch("C4")}},
				Duration: model.Duration{Type: model.Half},
				Tie:      model.TieStart,
			},
		}}},
	}}}
	assert.Equal(t, [][]string{
		{"P1 Piano (upper)", "1", "0", "key signature", "-2 fifths"},
		{"P1 Piano (upper)", "1", "1.5", "chord", "C4 G4 half tie start"},
	}, inspectRows(score))
}

func TestReportRows(t *testing.T) {
	score := model.Score{Parts: []model.Part{{ID: "P1", Loose: []model.Event{
		model.Note{Pitch: model.MustParsePitch("C4"), Duration: model.Duration{Type: model.Whole}},
	}}}}
	rows, err := reportRows(translate.New(config.DefaultOptions(), nil), score)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"P1", "1", "1", "4", rows[0][4], "4/4"}, rows[0])
}
