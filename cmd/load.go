package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/musicbraille/midi"
	"github.com/jsphweid/musicbraille/model"
	"github.com/jsphweid/musicbraille/sample"
	"github.com/jsphweid/musicbraille/timeline"
)

// loadScore reads a MIDI file or JSON timeline by extension.
func loadScore(path string) (model.Score, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return midi.ReadScore(path)
	case ".json":
		return timeline.ReadScore(path)
	}
	return model.Score{}, fmt.Errorf("%s: unsupported input format", path)
}

type scoreFilter struct {
	measures string
	keyboard bool
}

// apply cuts the score to the requested measures and, for keyboard input,
// marks its first two parts as the upper and lower staves.
func (f scoreFilter) apply(score model.Score) (model.Score, error) {
	if f.keyboard {
		if len(score.Parts) < 2 {
			return model.Score{}, fmt.Errorf("keyboard input needs two parts, got %d", len(score.Parts))
		}
		parts := append([]model.Part(nil), score.Parts[:2]...)
		parts[0].Staff, parts[1].Staff = model.UpperStaff, model.LowerStaff
		score.Parts = parts
	}
	if f.measures == "" {
		return score, nil
	}
	r, err := sample.ParseRange(f.measures)
	if err != nil {
		return model.Score{}, err
	}
	return sample.ExcerptScore(score, r)
}
