// Package lookup holds the braille music symbol tables. Every symbol is a
// Glyph: the braille cells and a readable name used by debug traces.
package lookup

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jsphweid/musicbraille/model"
)

type Glyph struct {
	Cells string
	Name  string
}

func (g Glyph) Width() int {
	return utf8.RuneCountInString(g.Cells)
}

func g(cells, name string) Glyph { return Glyph{Cells: cells, Name: name} }

const BlankCell = "⠀"

var (
	Space        = g(BlankCell, "_")
	Dot          = g("⠄", "dot")
	NumberSign   = g("⠼", "#")
	WordSign     = g("⠜", "word")
	WordEnd      = g("⠄", "word-end")
	CapitalSign  = g("⠠", "capital")
	Period       = g("⠲", "period")
	MetronomeEq  = g("⠶", "=")
	MusicHyphen  = g("⠐", "music-hyphen")
	RightHand    = g("⠨⠜", "right-hand")
	LeftHand     = g("⠸⠜", "left-hand")
	Tie          = g("⠈⠉", "tie")
	ChordTie     = g("⠨⠉", "chord-tie")
	ShortSlur    = g("⠉", "slur")
	DoubleSlur   = g("⠉⠉", "double-slur")
	BracketOpen  = g("⠰⠃", "bracket-slur-open")
	BracketClose = g("⠘⠆", "bracket-slur-close")
	FingerChoice = g("⠉", "finger-choice")
	CommonTime   = g("⠨⠉", "common-time")
	CutTime      = g("⠸⠉", "cut-time")
)

// step glyphs by duration class: eighth, quarter, half, whole
var stepCells = [4][7]string{
	{"⠙", "⠑", "⠋", "⠛", "⠓", "⠊", "⠚"},
	{"⠹", "⠱", "⠫", "⠻", "⠳", "⠪", "⠺"},
	{"⠝", "⠕", "⠏", "⠟", "⠗", "⠎", "⠞"},
	{"⠽", "⠵", "⠯", "⠿", "⠷", "⠮", "⠾"},
}

var restCells = [4]string{"⠭", "⠧", "⠥", "⠍"}

var classNames = [4]string{"eighth", "quarter", "half", "whole"}

// durationClass maps a value onto the four braille value classes; the 16th,
// 32nd, 64th and 128th share cells with the whole, half, quarter and eighth.
func durationClass(t model.DurationType) (int, bool) {
	switch t {
	case model.Whole, model.Sixteenth:
		return 3, true
	case model.Half, model.ThirtySecond:
		return 2, true
	case model.Quarter, model.SixtyFourth:
		return 1, true
	case model.Eighth, model.OneTwentyEighth:
		return 0, true
	}
	return 0, false
}

// NoteValue returns the glyph for a step written as the given value.
func NoteValue(step model.Step, t model.DurationType) (Glyph, bool) {
	class, ok := durationClass(t)
	if !ok || step < model.StepC || step > model.StepB {
		return Glyph{}, false
	}
	return g(stepCells[class][step], fmt.Sprintf("%v-%s", step, t)), true
}

// EighthForm writes a step in its eighth-note form, used inside beat groups.
func EighthForm(step model.Step) Glyph {
	return g(stepCells[0][step], fmt.Sprintf("%v-grouped", step))
}

func RestValue(t model.DurationType) (Glyph, bool) {
	class, ok := durationClass(t)
	if !ok {
		return Glyph{}, false
	}
	return g(restCells[class], "rest-"+t.String()), true
}

func Dots(n int) []Glyph {
	res := make([]Glyph, n)
	for i := range res {
		res[i] = Dot
	}
	return res
}

var octaveCells = map[int]string{
	0: "⠈⠈",
	1: "⠈",
	2: "⠘",
	3: "⠸",
	4: "⠐",
	5: "⠨",
	6: "⠰",
	7: "⠠",
	8: "⠠⠠",
}

func OctaveMark(octave int) (Glyph, bool) {
	cells, ok := octaveCells[octave]
	if !ok {
		return Glyph{}, false
	}
	return g(cells, "octave-"+strconv.Itoa(octave)), true
}

func IsOctaveGlyph(gl Glyph) bool {
	return strings.HasPrefix(gl.Name, "octave-")
}

var accidentalGlyphs = map[model.Accidental]Glyph{
	model.Sharp:       g("⠩", "sharp"),
	model.Flat:        g("⠣", "flat"),
	model.Natural:     g("⠡", "natural"),
	model.DoubleSharp: g("⠩⠩", "double-sharp"),
	model.DoubleFlat:  g("⠣⠣", "double-flat"),
}

func AccidentalGlyph(a model.Accidental) (Glyph, bool) {
	gl, ok := accidentalGlyphs[a]
	return gl, ok
}

var intervalCells = map[int]string{
	2: "⠌",
	3: "⠬",
	4: "⠼",
	5: "⠔",
	6: "⠴",
	7: "⠒",
	8: "⠤",
}

// Interval returns the sign for a simple interval number 2..8.
func Interval(n int) (Glyph, bool) {
	cells, ok := intervalCells[n]
	if !ok {
		return Glyph{}, false
	}
	return g(cells, "interval-"+strconv.Itoa(n)), true
}

var upperDigits = [10]string{"⠚", "⠁", "⠃", "⠉", "⠙", "⠑", "⠋", "⠛", "⠓", "⠊"}
var lowerDigits = [10]string{"⠴", "⠂", "⠆", "⠒", "⠲", "⠢", "⠖", "⠶", "⠦", "⠔"}

func digits(n int, table [10]string) string {
	var b strings.Builder
	for _, r := range strconv.Itoa(n) {
		b.WriteString(table[r-'0'])
	}
	return b.String()
}

// Number writes a non-negative number with the numeric indicator.
func Number(n int) Glyph {
	return g("⠼"+digits(n, upperDigits), "#"+strconv.Itoa(n))
}

// LowerNumber writes digits in the lower part of the cell, without indicator.
func LowerNumber(n int) Glyph {
	return g(digits(n, lowerDigits), "/"+strconv.Itoa(n))
}

func TimeSignature(ts model.TimeSignature) []Glyph {
	switch ts.Symbol {
	case "common":
		return []Glyph{CommonTime}
	case "cut":
		return []Glyph{CutTime}
	}
	return []Glyph{Number(ts.Numerator), LowerNumber(ts.Denominator)}
}

var (
	sharpSign   = g("⠩", "sharp")
	flatSign    = g("⠣", "flat")
	naturalSign = g("⠡", "natural")
)

// signatureRun writes count copies of sign, or the numeric form from four up.
func signatureRun(count int, sign Glyph) []Glyph {
	if count <= 0 {
		return nil
	}
	if count >= 4 {
		return []Glyph{Number(count), sign}
	}
	res := make([]Glyph, count)
	for i := range res {
		res[i] = sign
	}
	return res
}

func KeySignature(fifths int) []Glyph {
	if fifths > 0 {
		return signatureRun(fifths, sharpSign)
	}
	return signatureRun(-fifths, flatSign)
}

// KeyCancellation returns the naturals cancelling what the outgoing signature
// adds that the incoming one does not.
func KeyCancellation(outgoing, incoming int) []Glyph {
	var cancelled int
	switch {
	case outgoing == 0:
		cancelled = 0
	case incoming == 0 || (outgoing > 0) != (incoming > 0):
		cancelled = abs(outgoing)
	case abs(incoming) < abs(outgoing):
		cancelled = abs(outgoing) - abs(incoming)
	}
	return signatureRun(cancelled, naturalSign)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

var fingerCells = map[rune]string{'1': "⠁", '2': "⠃", '3': "⠇", '4': "⠂", '5': "⠅"}

func Finger(r rune) (Glyph, bool) {
	cells, ok := fingerCells[r]
	if !ok {
		return Glyph{}, false
	}
	return g(cells, "finger-"+string(r)), true
}

var letterCells = map[rune]string{
	'a': "⠁", 'b': "⠃", 'c': "⠉", 'd': "⠙", 'e': "⠑", 'f': "⠋", 'g': "⠛",
	'h': "⠓", 'i': "⠊", 'j': "⠚", 'k': "⠅", 'l': "⠇", 'm': "⠍", 'n': "⠝",
	'o': "⠕", 'p': "⠏", 'q': "⠟", 'r': "⠗", 's': "⠎", 't': "⠞", 'u': "⠥",
	'v': "⠧", 'w': "⠺", 'x': "⠭", 'y': "⠽", 'z': "⠵",
}

// Letter returns the grade 1 letter for a lowercase ASCII letter.
func Letter(r rune) (Glyph, bool) {
	cells, ok := letterCells[r]
	if !ok {
		return Glyph{}, false
	}
	return g(cells, string(r)), true
}

var punctuation = map[rune]Glyph{
	'.':  Period,
	',':  g("⠂", ","),
	'-':  g("⠤", "-"),
	'\'': g("⠄", "'"),
	'!':  g("⠖", "!"),
	'?':  g("⠦", "?"),
}

// Text writes literary text letter by letter: capitals get the capital sign,
// digit runs the numeric indicator, spaces a blank cell. Unknown runes are
// dropped.
func Text(s string) []Glyph {
	var res []Glyph
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9':
			j := i
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(string(runes[i:j]))
			res = append(res, Number(n))
			i = j - 1
		case r >= 'A' && r <= 'Z':
			l, _ := Letter(r - 'A' + 'a')
			res = append(res, CapitalSign, l)
		case r == ' ':
			res = append(res, Space)
		default:
			if l, ok := Letter(r); ok {
				res = append(res, l)
			} else if p, ok := punctuation[r]; ok {
				res = append(res, p)
			}
		}
	}
	return res
}

var barlineGlyphs = map[model.BarStyle]Glyph{
	model.BarFinal:       g("⠣⠅", "final-barline"),
	model.BarDouble:      g("⠣⠅⠄", "double-barline"),
	model.BarDashed:      g("⠐⠂", "dashed-barline"),
	model.BarStartRepeat: g("⠣⠶", "start-repeat"),
	model.BarEndRepeat:   g("⠣⠆", "end-repeat"),
}

// Barline returns the sign for a styled barline; regular barlines have none.
func Barline(style model.BarStyle) (Glyph, bool) {
	gl, ok := barlineGlyphs[style]
	return gl, ok
}

var clefGlyphs = map[model.ClefKind]Glyph{
	model.TrebleClef: g("⠜⠌⠇", "treble-clef"),
	model.BassClef:   g("⠜⠼⠇", "bass-clef"),
	model.AltoClef:   g("⠜⠬⠇", "alto-clef"),
	model.TenorClef:  g("⠜⠬⠐⠇", "tenor-clef"),
}

func Clef(kind model.ClefKind) (Glyph, bool) {
	gl, ok := clefGlyphs[kind]
	return gl, ok
}

// Join concatenates the cells of glyphs.
func Join(glyphs []Glyph) string {
	var b strings.Builder
	for _, gl := range glyphs {
		b.WriteString(gl.Cells)
	}
	return b.String()
}

// Names joins glyph names with single spaces.
func Names(glyphs []Glyph) string {
	names := make([]string, len(glyphs))
	for i, gl := range glyphs {
		names[i] = gl.Name
	}
	return strings.Join(names, " ")
}

func Width(glyphs []Glyph) int {
	var w int
	for _, gl := range glyphs {
		w += gl.Width()
	}
	return w
}
