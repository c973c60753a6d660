package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Step int

const (
	StepC Step = iota
	StepD
	StepE
	StepF
	StepG
	StepA
	StepB
)

var stepNames = "CDEFGAB"

func (s Step) String() string {
	if s < StepC || s > StepB {
		return "?"
	}
	return string(stepNames[s])
}

// semitones above C for each step
var stepSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

type Pitch struct {
	Step   Step
	Alter  int
	Octave int
}

// Diatonic is the number of diatonic steps above C0.
func (p Pitch) Diatonic() int {
	return p.Octave*7 + int(p.Step)
}

func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alter
}

func (p Pitch) String() string {
	var alter string
	switch {
	case p.Alter > 0:
		alter = strings.Repeat("#", p.Alter)
	case p.Alter < 0:
		alter = strings.Repeat("-", -p.Alter)
	}
	return fmt.Sprintf("%v%s%d", p.Step, alter, p.Octave)
}

// Less orders pitches by diatonic position, then alteration.
func (p Pitch) Less(o Pitch) bool {
	if p.Diatonic() != o.Diatonic() {
		return p.Diatonic() < o.Diatonic()
	}
	return p.Alter < o.Alter
}

// ParsePitch reads names like "C4", "G#4", "B-3", "Eb5" or "F##2".
func ParsePitch(name string) (Pitch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Pitch{}, fmt.Errorf("parse pitch: empty name")
	}
	idx := strings.IndexByte(stepNames, strings.ToUpper(name[:1])[0])
	if idx < 0 {
		return Pitch{}, fmt.Errorf("parse pitch %q: unknown step", name)
	}
	p := Pitch{Step: Step(idx)}
	rest := name[1:]
	for len(rest) > 0 && strings.IndexByte("#-b", rest[0]) >= 0 {
		if rest[0] == '#' {
			p.Alter++
		} else {
			p.Alter--
		}
		rest = rest[1:]
	}
	if rest == "" {
		return Pitch{}, fmt.Errorf("parse pitch %q: missing octave", name)
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Pitch{}, fmt.Errorf("parse pitch %q: %w", name, err)
	}
	p.Octave = octave
	return p, nil
}

func MustParsePitch(name string) Pitch {
	p, err := ParsePitch(name)
	if err != nil {
		panic(err)
	}
	return p
}

// PitchFromMIDI spells a MIDI key number, preferring flats when flats is set.
func PitchFromMIDI(key int, flats bool) Pitch {
	octave := key/12 - 1
	pc := key % 12
	sharpSpelling := [12]Pitch{
		{StepC, 0, 0}, {StepC, 1, 0}, {StepD, 0, 0}, {StepD, 1, 0}, {StepE, 0, 0}, {StepF, 0, 0},
		{StepF, 1, 0}, {StepG, 0, 0}, {StepG, 1, 0}, {StepA, 0, 0}, {StepA, 1, 0}, {StepB, 0, 0},
	}
	flatSpelling := [12]Pitch{
		{StepC, 0, 0}, {StepD, -1, 0}, {StepD, 0, 0}, {StepE, -1, 0}, {StepE, 0, 0}, {StepF, 0, 0},
		{StepG, -1, 0}, {StepG, 0, 0}, {StepA, -1, 0}, {StepA, 0, 0}, {StepB, -1, 0}, {StepB, 0, 0},
	}
	p := sharpSpelling[pc]
	if flats {
		p = flatSpelling[pc]
	}
	p.Octave = octave
	return p
}
