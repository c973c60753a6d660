package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Hand selects the hand sign shown before the music.
type Hand string

const (
	NoHand    Hand = ""
	RightHand Hand = "right"
	LeftHand  Hand = "left"
)

// Break requests a segment boundary at a measure and offset.
type Break struct {
	Measure int     `toml:"measure"`
	Offset  float64 `toml:"offset"`
}

func (b Break) String() string {
	return fmt.Sprintf("%d:%g", b.Measure, b.Offset)
}

// ParseBreak reads "measure" or "measure:offset".
func ParseBreak(value string) (Break, error) {
	value = strings.TrimSpace(value)
	measurePart, offsetPart, hasOffset := strings.Cut(value, ":")
	measure, err := strconv.Atoi(measurePart)
	if err != nil {
		return Break{}, fmt.Errorf("segment break %q: %w", value, err)
	}
	b := Break{Measure: measure}
	if hasOffset {
		b.Offset, err = strconv.ParseFloat(offsetPart, 64)
		if err != nil {
			return Break{}, fmt.Errorf("segment break %q: %w", value, err)
		}
	}
	return b, nil
}

// Options enumerates every recognized transcription option.
type Options struct {
	// InPlace transcribes the input as is instead of a renotated copy.
	InPlace bool `toml:"in_place"`
	// Debug returns a readable symbol trace instead of braille.
	Debug bool `toml:"debug"`

	CancelOutgoingKeySig bool `toml:"cancel_outgoing_key_sig"`
	// DescendingChords spells chords from the highest note. A clef overrides it.
	DescendingChords bool `toml:"descending_chords"`
	// DummyRestLength inserts placeholder rests at the start of the first segment.
	DummyRestLength int     `toml:"dummy_rest_length"`
	MaxLineLength   int     `toml:"max_line_length"`
	SegmentBreaks   []Break `toml:"segment_breaks"`
	ShowClefSigns   bool    `toml:"show_clef_signs"`

	ShowFirstMeasureNumber bool `toml:"show_first_measure_number"`
	ShowHand               Hand `toml:"show_hand"`
	ShowHeading            bool `toml:"show_heading"`
	// RepeatHeading shows a heading on every segment, not just the first.
	RepeatHeading bool `toml:"repeat_heading"`

	ShowLongSlursAndTiesTogether  bool `toml:"show_long_slurs_and_ties_together"`
	ShowShortSlursAndTiesTogether bool `toml:"show_short_slurs_and_ties_together"`
	SlurLongPhraseWithBrackets    bool `toml:"slur_long_phrase_with_brackets"`
	SuppressOctaveMarks           bool `toml:"suppress_octave_marks"`
	UpperFirstInNoteFingering     bool `toml:"upper_first_in_note_fingering"`

	// Workers bounds how many parts are transcribed at once.
	Workers int `toml:"workers"`
}

// DefaultOptions returns the transcription defaults.
func DefaultOptions() Options {
	return Options{
		CancelOutgoingKeySig:       true,
		DescendingChords:           true,
		MaxLineLength:              defaultMaxLineLength,
		ShowFirstMeasureNumber:     true,
		ShowHeading:                true,
		SlurLongPhraseWithBrackets: true,
		SuppressOctaveMarks:        true,
		UpperFirstInNoteFingering:  true,
		Workers:                    defaultWorkers,
	}
}

// Validate ensures the options are usable.
func (o Options) Validate() error {
	if o.MaxLineLength < minLineLength {
		return fmt.Errorf("transcription.max_line_length must be at least %d", minLineLength)
	}
	if o.DummyRestLength < 0 {
		return fmt.Errorf("transcription.dummy_rest_length must not be negative")
	}
	if o.Workers < 1 {
		return fmt.Errorf("transcription.workers must be positive")
	}
	switch o.ShowHand {
	case NoHand, RightHand, LeftHand:
	default:
		return fmt.Errorf("transcription.show_hand must be \"right\", \"left\" or empty, got %q", o.ShowHand)
	}
	for i, b := range o.SegmentBreaks {
		if b.Offset < 0 {
			return fmt.Errorf("transcription.segment_breaks[%d]: offset must not be negative", i)
		}
		if i > 0 {
			prev := o.SegmentBreaks[i-1]
			if b.Measure < prev.Measure || (b.Measure == prev.Measure && b.Offset <= prev.Offset) {
				return fmt.Errorf("transcription.segment_breaks must be in ascending order (%v after %v)", b, prev)
			}
		}
	}
	return nil
}
