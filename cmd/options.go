package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jsphweid/musicbraille/config"
)

// optionFlags mirrors config.Options on the command line. Only flags the
// user sets override the configured values.
type optionFlags struct {
	opts   config.Options
	hand   string
	breaks []string
}

func addOptionFlags(cmd *cobra.Command) *optionFlags {
	f := &optionFlags{opts: config.DefaultOptions()}
	fs := cmd.Flags()
	fs.BoolVar(&f.opts.InPlace, "in-place", f.opts.InPlace, "transcribe the input as is, without renotation")
	fs.BoolVar(&f.opts.Debug, "debug", f.opts.Debug, "print the symbol trace instead of braille")
	fs.BoolVar(&f.opts.CancelOutgoingKeySig, "cancel-outgoing-key-sig", f.opts.CancelOutgoingKeySig, "cancel the previous key on key changes")
	fs.BoolVar(&f.opts.DescendingChords, "descending-chords", f.opts.DescendingChords, "spell chords from the highest note")
	fs.IntVar(&f.opts.DummyRestLength, "dummy-rest-length", f.opts.DummyRestLength, "placeholder rests at the start")
	fs.IntVar(&f.opts.MaxLineLength, "max-line-length", f.opts.MaxLineLength, "cells per braille line")
	fs.StringSliceVar(&f.breaks, "segment-break", nil, "force a segment break at measure[:offset]")
	fs.BoolVar(&f.opts.ShowClefSigns, "show-clef-signs", f.opts.ShowClefSigns, "write clef signs")
	fs.BoolVar(&f.opts.ShowFirstMeasureNumber, "show-first-measure-number", f.opts.ShowFirstMeasureNumber, "number the first measure of each segment")
	fs.StringVar(&f.hand, "show-hand", string(f.opts.ShowHand), "hand sign: right or left")
	fs.BoolVar(&f.opts.ShowHeading, "show-heading", f.opts.ShowHeading, "write the key, time and tempo heading")
	fs.BoolVar(&f.opts.RepeatHeading, "repeat-heading", f.opts.RepeatHeading, "write a heading for every segment")
	fs.BoolVar(&f.opts.ShowLongSlursAndTiesTogether, "show-long-slurs-and-ties-together", f.opts.ShowLongSlursAndTiesTogether, "keep ties inside long slurs")
	fs.BoolVar(&f.opts.ShowShortSlursAndTiesTogether, "show-short-slurs-and-ties-together", f.opts.ShowShortSlursAndTiesTogether, "keep ties inside short slurs")
	fs.BoolVar(&f.opts.SlurLongPhraseWithBrackets, "slur-long-phrase-with-brackets", f.opts.SlurLongPhraseWithBrackets, "bracket long slurs instead of doubling")
	fs.BoolVar(&f.opts.SuppressOctaveMarks, "suppress-octave-marks", f.opts.SuppressOctaveMarks, "omit octave marks")
	fs.BoolVar(&f.opts.UpperFirstInNoteFingering, "upper-first-in-note-fingering", f.opts.UpperFirstInNoteFingering, "write the upper of two fingerings first")
	fs.IntVar(&f.opts.Workers, "workers", f.opts.Workers, "parts transcribed at once")
	return f
}

// resolve merges the set flags into base.
func (f *optionFlags) resolve(cmd *cobra.Command, base config.Options) (config.Options, error) {
	res := base
	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("in-place", func() { res.InPlace = f.opts.InPlace })
	set("debug", func() { res.Debug = f.opts.Debug })
	set("cancel-outgoing-key-sig", func() { res.CancelOutgoingKeySig = f.opts.CancelOutgoingKeySig })
	set("descending-chords", func() { res.DescendingChords = f.opts.DescendingChords })
	set("dummy-rest-length", func() { res.DummyRestLength = f.opts.DummyRestLength })
	set("max-line-length", func() { res.MaxLineLength = f.opts.MaxLineLength })
	set("show-clef-signs", func() { res.ShowClefSigns = f.opts.ShowClefSigns })
	set("show-first-measure-number", func() { res.ShowFirstMeasureNumber = f.opts.ShowFirstMeasureNumber })
	set("show-hand", func() { res.ShowHand = config.Hand(f.hand) })
	set("show-heading", func() { res.ShowHeading = f.opts.ShowHeading })
	set("repeat-heading", func() { res.RepeatHeading = f.opts.RepeatHeading })
	set("show-long-slurs-and-ties-together", func() { res.ShowLongSlursAndTiesTogether = f.opts.ShowLongSlursAndTiesTogether })
	set("show-short-slurs-and-ties-together", func() { res.ShowShortSlursAndTiesTogether = f.opts.ShowShortSlursAndTiesTogether })
	set("slur-long-phrase-with-brackets", func() { res.SlurLongPhraseWithBrackets = f.opts.SlurLongPhraseWithBrackets })
	set("suppress-octave-marks", func() { res.SuppressOctaveMarks = f.opts.SuppressOctaveMarks })
	set("upper-first-in-note-fingering", func() { res.UpperFirstInNoteFingering = f.opts.UpperFirstInNoteFingering })
	set("workers", func() { res.Workers = f.opts.Workers })

	if fs.Changed("segment-break") {
		res.SegmentBreaks = nil
		for _, value := range f.breaks {
			b, err := config.ParseBreak(value)
			if err != nil {
				return config.Options{}, err
			}
			res.SegmentBreaks = append(res.SegmentBreaks, b)
		}
	}
	return res, res.Validate()
}
