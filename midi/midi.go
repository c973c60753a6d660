// Package midi imports standard MIDI files as scores. Every track that
// sounds becomes a part of loose events; the renotator organizes them into
// measures later.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/musicbraille/model"
)

// Grid is the number of steps a quarter note is quantized to.
const Grid = 16

var ErrTimeFormat = errors.New("midi file does not use metric ticks")

func ReadMidiFile(path string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("parse midi file %s: %v", path, r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read midi file: %w", err)
	}
	return Decode(bytes.NewReader(dat))
}

// Decode parses a standard MIDI file from r.
func Decode(r io.Reader) (*smf.SMF, error) {
	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("parse midi file: %w", err)
	}
	return res, nil
}

// ReadScore reads the file at path and converts it with ToScore, using the
// file name as the title when the file carries none.
func ReadScore(path string) (model.Score, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return model.Score{}, err
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ToScore(s, title)
}

type sounding struct {
	start uint64
	key   uint8
}

type played struct {
	start, end uint64
	key        uint8
}

// ToScore converts s into a score with one part per sounding track. Meter,
// key and tempo changes from any track apply to every part; the tempo is
// written in the first part only.
func ToScore(s *smf.SMF, title string) (model.Score, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return model.Score{}, ErrTimeFormat
	}
	resolution := float64(ticks.Resolution())
	quarters := func(abs uint64) float64 {
		return math.Round(float64(abs)*Grid/resolution) / Grid
	}

	var global []model.Event
	var tracks [][]played
	var names []string
	for _, track := range s.Tracks {
		var abs uint64
		var name string
		var notes []played
		open := make(map[[2]uint8][]sounding)
		for _, ev := range track {
			abs += uint64(ev.Delta)
			msg := ev.Message
			var channel, key, velocity, num, denom uint8
			var bpm float64
			var text string
			switch {
			case msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				id := [2]uint8{channel, key}
				open[id] = append(open[id], sounding{abs, key})
			case msg.GetNoteOff(&channel, &key, &velocity),
				msg.GetNoteOn(&channel, &key, &velocity):
				id := [2]uint8{channel, key}
				if stack := open[id]; len(stack) > 0 {
					notes = append(notes, played{stack[0].start, abs, key})
					open[id] = stack[1:]
				}
			case msg.GetMetaMeter(&num, &denom):
				global = append(global, model.TimeSignature{
					Position:    model.At(quarters(abs)),
					Numerator:   int(num),
					Denominator: int(denom),
				})
			case msg.GetMetaTempo(&bpm):
				global = append(global, model.TempoMark{
					Position: model.At(quarters(abs)),
					Metronome: &model.Metronome{
						Referent:  model.Duration{Type: model.Quarter},
						PerMinute: int(math.Round(bpm)),
					},
				})
			case msg.GetMetaTrackName(&text):
				name = text
			default:
				if fifths, ok := keySignature(msg); ok {
					global = append(global, model.KeySignature{Position: model.At(quarters(abs)), Fifths: fifths})
				}
			}
		}
		if len(notes) == 0 {
			// a silent leading track names the piece
			if name != "" && len(tracks) == 0 {
				title = name
			}
			continue
		}
		tracks = append(tracks, notes)
		names = append(names, name)
	}

	score := model.Score{}
	if title != "" {
		score.Metadata = []model.Metadata{{WorkIDs: map[string]string{"title": title}}}
	}
	sort.SliceStable(global, func(i, j int) bool { return global[i].Offset() < global[j].Offset() })
	for i, notes := range tracks {
		part := model.Part{ID: fmt.Sprintf("P%d", i+1), Name: names[i]}
		for _, e := range global {
			if _, ok := e.(model.TempoMark); ok && i > 0 {
				continue
			}
			part.Loose = append(part.Loose, e)
		}
		part.Loose = append(part.Loose, voice(notes, global, quarters)...)
		score.Parts = append(score.Parts, part)
	}
	return score, nil
}

// keySignature reads a key signature meta message (FF 59 02 sf mi).
func keySignature(msg smf.Message) (int, bool) {
	b := []byte(msg)
	if len(b) < 5 || b[0] != 0xFF || b[1] != 0x59 {
		return 0, false
	}
	return int(int8(b[len(b)-2])), true
}

// voice turns the notes of one track into a single line: notes starting
// together form a chord lasting as long as its shortest member, and every
// onset cuts the previous one short. Lengths that no single value can
// express become tied notes.
func voice(notes []played, global []model.Event, quarters func(uint64) float64) []model.Event {
	byStart := make(map[float64][]played)
	for _, n := range notes {
		start := quarters(n.start)
		byStart[start] = append(byStart[start], n)
	}
	starts := make([]float64, 0, len(byStart))
	for s := range byStart {
		starts = append(starts, s)
	}
	sort.Float64s(starts)

	var res []model.Event
	for i, start := range starts {
		group := byStart[start]
		length := math.Inf(1)
		for _, n := range group {
			length = math.Min(length, quarters(n.end)-start)
		}
		if i+1 < len(starts) {
			length = math.Min(length, starts[i+1]-start)
		}
		durations := model.DurationsFor(length)
		if len(durations) == 0 {
			continue
		}

		flats := keyAt(global, start) < 0
		pitches := make([]model.Pitch, 0, len(group))
		seen := make(map[uint8]bool)
		for _, n := range group {
			if !seen[n.key] {
				seen[n.key] = true
				pitches = append(pitches, model.PitchFromMIDI(int(n.key), flats))
			}
		}
		sort.Slice(pitches, func(a, b int) bool { return pitches[a].Less(pitches[b]) })

		offset := start
		for di, d := range durations {
			tie := model.NoTie
			if len(durations) > 1 {
				switch di {
				case 0:
					tie = model.TieStart
				case len(durations) - 1:
					tie = model.TieStop
				default:
					tie = model.TieContinue
				}
			}
			res = append(res, event(pitches, offset, d, tie))
			offset += d.QuarterLength()
		}
	}
	return res
}

func event(pitches []model.Pitch, offset float64, d model.Duration, tie model.Tie) model.Event {
	if len(pitches) == 1 {
		return model.Note{Position: model.At(offset), Pitch: pitches[0], Duration: d, Tie: tie}
	}
	notes := make([]model.Note, len(pitches))
	for i, p := range pitches {
		notes[i] = model.Note{Pitch: p, Duration: d}
	}
	return model.Chord{Position: model.At(offset), Notes: notes, Duration: d, Tie: tie}
}

func keyAt(global []model.Event, offset float64) int {
	var fifths int
	for _, e := range global {
		if e.Offset() > offset {
			break
		}
		if k, ok := e.(model.KeySignature); ok {
			fifths = k.Fifths
		}
	}
	return fifths
}
