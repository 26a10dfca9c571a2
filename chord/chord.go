// Package chord parses chord symbols and maps them to absolute MIDI
// pitches. Parsing never fails: unreadable input degrades to a C major
// triad so charts stay renderable and playable no matter what authors
// typed into the brackets.
package chord

import (
	"fmt"
	"strings"
)

// Symbol is a parsed chord symbol: a root pitch class, the quality
// suffix verbatim, and an optional bass note for slash chords (C/E).
type Symbol struct {
	Root    string `json:"root"`
	Quality string `json:"quality"`
	Bass    string `json:"bass,omitempty"`
}

// PitchSet is the audible rendering of a chord symbol: ordered MIDI
// note numbers (bass first when present) and their note names.
// LowConfidence marks symbols whose root or quality had to be guessed.
type PitchSet struct {
	Notes         []int    `json:"notes"`
	Names         []string `json:"names"`
	LowConfidence bool     `json:"lowConfidence,omitempty"`
}

// ChromaticSharp is the canonical 12-entry chromatic ordering. All
// transposition and pitch arithmetic indexes into this scale; flat
// spellings are normalized through flatToSharp on the way in.
var ChromaticSharp = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var flatToSharp = map[string]string{
	"Db": "C#", "Eb": "D#", "Gb": "F#", "Ab": "G#", "Bb": "A#",
}

// noteIndex maps every accepted spelling to its semitone offset from C.
var noteIndex = map[string]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3,
	"E": 4, "F": 5, "F#": 6, "Gb": 6, "G": 7, "G#": 8,
	"Ab": 8, "A": 9, "A#": 10, "Bb": 10, "B": 11,
}

// qualityIntervals maps a quality suffix to semitone intervals from the
// root. Adding a chord quality is a one-line edit here; anything not in
// the table renders as a major triad, flagged low-confidence.
var qualityIntervals = map[string][]int{
	"":     {0, 4, 7},
	"maj":  {0, 4, 7},
	"m":    {0, 3, 7},
	"min":  {0, 3, 7},
	"7":    {0, 4, 7, 10},
	"maj7": {0, 4, 7, 11},
	"m7":   {0, 3, 7, 10},
	"min7": {0, 3, 7, 10},
	"dim":  {0, 3, 6},
	"dim7": {0, 3, 6, 9},
	"aug":  {0, 4, 8},
	"sus":  {0, 5, 7},
	"sus2": {0, 2, 7},
	"sus4": {0, 5, 7},
	"add9": {0, 4, 7, 14},
	"9":    {0, 4, 7, 10, 14},
	"maj9": {0, 4, 7, 11, 14},
	"m9":   {0, 3, 7, 10, 14},
	"11":   {0, 4, 7, 10, 14, 17},
	"13":   {0, 4, 7, 10, 14, 21},
	"6":    {0, 4, 7, 9},
	"m6":   {0, 3, 7, 9},
}

// SplitRoot peels a root token off the front of s: one letter A-G
// (normalized to uppercase) optionally followed by '#' or 'b'. The
// remainder is returned verbatim. ok is false when s does not start
// with a note letter.
func SplitRoot(s string) (root, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'G' {
		return "", s, false
	}
	root = string(letter)
	rest = s[1:]
	if len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		root += string(rest[0])
		rest = rest[1:]
	}
	return root, rest, true
}

// Semitone returns the semitone offset from C for a pitch-class
// spelling, accepting both sharps and flats.
func Semitone(root string) (int, bool) {
	idx, ok := noteIndex[root]
	return idx, ok
}

// Parse splits a chord symbol into root, quality and optional bass.
// ok is false when no root token matched, in which case the returned
// Symbol is the C-major fallback; callers must treat that as a soft
// default, never an error. An unresolvable bass is dropped silently.
func Parse(s string) (Symbol, bool) {
	s = strings.TrimSpace(s)

	main := s
	bassText := ""
	if i := strings.Index(s, "/"); i >= 0 {
		main = s[:i]
		bassText = s[i+1:]
	}

	root, quality, ok := SplitRoot(main)
	if !ok {
		return Symbol{Root: "C", Quality: ""}, false
	}

	sym := Symbol{Root: root, Quality: quality}
	if bassText != "" {
		if bass, _, bok := SplitRoot(bassText); bok {
			sym.Bass = bass
		}
	}
	return sym, true
}

// Intervals returns the semitone interval set for a quality suffix.
// Unknown qualities fall back to the major triad; ok reports whether
// the quality was actually in the table.
func Intervals(quality string) ([]int, bool) {
	iv, ok := qualityIntervals[quality]
	if !ok {
		return qualityIntervals[""], false
	}
	return iv, true
}

// NoteName renders a MIDI note number as pitch class plus octave,
// e.g. 60 -> "C4".
func NoteName(midi int) string {
	pc := ((midi % 12) + 12) % 12
	return fmt.Sprintf("%s%d", ChromaticSharp[pc], midi/12-1)
}

// ToMIDINotes maps a chord symbol to absolute pitches for the given
// octave. Octave 4 anchors C at MIDI 60. A slash bass sounds one full
// octave below the chord's base pitch so it is always lowest. Garbage
// input yields the default C-major triad with LowConfidence set.
func ToMIDINotes(symbol string, octave int) PitchSet {
	sym, parsed := Parse(symbol)

	rootOffset, _ := Semitone(sym.Root)
	base := (octave+1)*12 + rootOffset

	intervals, known := Intervals(sym.Quality)

	notes := make([]int, 0, len(intervals)+1)
	if sym.Bass != "" {
		if bassOffset, ok := Semitone(sym.Bass); ok {
			notes = append(notes, octave*12+bassOffset)
		}
	}
	for _, iv := range intervals {
		notes = append(notes, base+iv)
	}

	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = NoteName(n)
	}

	return PitchSet{
		Notes:         notes,
		Names:         names,
		LowConfidence: !parsed || !known,
	}
}
