// Package keys rates how smoothly a setlist can move from one song key
// to the next and suggests bridge chord progressions for the change.
package keys

import (
	"fmt"
	"strings"

	"chordsync-go/chord"
	"chordsync-go/transpose"
)

// Compatibility grades a key change.
type Compatibility int

const (
	CompatibilityNatural  Compatibility = iota // same key, close step, or 4th/5th motion
	CompatibilityWorkable                      // three semitones or relative major/minor
	CompatibilityAwkward                       // anything further apart
)

func (c Compatibility) String() string {
	switch c {
	case CompatibilityNatural:
		return "natural"
	case CompatibilityWorkable:
		return "workable"
	case CompatibilityAwkward:
		return "awkward"
	default:
		return "unknown"
	}
}

// relativeKeys maps each major key to its relative minor and back.
var relativeKeys = map[string]string{
	"C": "Am", "G": "Em", "D": "Bm", "A": "F#m", "E": "C#m",
	"B": "G#m", "F#": "D#m", "Gb": "Ebm", "Db": "Bbm", "Ab": "Fm",
	"Eb": "Cm", "Bb": "Gm", "F": "Dm",
	"Am": "C", "Em": "G", "Bm": "D", "F#m": "A", "C#m": "E",
	"G#m": "B", "D#m": "F#", "Ebm": "Gb", "Bbm": "Db", "Fm": "Ab",
	"Cm": "Eb", "Gm": "Bb", "Dm": "F",
}

// splitKey separates a trailing minor marker from the base key name.
func splitKey(key string) (base string, minor bool) {
	key = strings.TrimSpace(key)
	if strings.HasSuffix(key, "m") && len(key) > 1 {
		return key[:len(key)-1], true
	}
	return key, false
}

func semitone(key string) int {
	base, _ := splitKey(key)
	idx, _ := chord.Semitone(base)
	return idx
}

// Distance is the shortest chromatic distance between two keys, 0..6.
// Minor markers are ignored.
func Distance(from, to string) int {
	d := semitone(to) - semitone(from)
	if d < 0 {
		d = -d
	}
	if 12-d < d {
		d = 12 - d
	}
	return d
}

// Check grades a transition from one key to another.
func Check(from, to string) Compatibility {
	if from == to {
		return CompatibilityNatural
	}

	if relativeKeys[from] == to || relativeKeys[to] == from {
		return CompatibilityWorkable
	}

	// perfect 4th or 5th motion feels natural regardless of distance
	interval := ((semitone(to)-semitone(from))%12 + 12) % 12
	if interval == 5 || interval == 7 {
		return CompatibilityNatural
	}

	switch d := Distance(from, to); {
	case d <= 2:
		return CompatibilityNatural
	case d == 3:
		return CompatibilityWorkable
	default:
		return CompatibilityAwkward
	}
}

// PivotChords suggests short bridge progressions for the transition.
func PivotChords(from, to string) []string {
	fromBase, _ := splitKey(from)
	toBase, _ := splitKey(to)

	var options []string

	if Distance(from, to) == 2 {
		options = append(options, fmt.Sprintf("%ssus4 → %s", fromBase, toBase))
	}

	interval := ((semitone(to)-semitone(from))%12 + 12) % 12
	switch interval {
	case 5: // up a 4th: the old tonic becomes the new dominant
		options = append(options, fmt.Sprintf("%s → %s7 → %s", fromBase, fromBase, toBase))
	case 7: // up a 5th: approach over the new key's fifth
		fifth := transpose.Key(toBase, 7)
		options = append(options, fmt.Sprintf("%s → %s/%s → %s", fromBase, toBase, fifth, toBase))
	}

	if d := Distance(from, to); d == 1 || d == 2 {
		options = append(options, fmt.Sprintf("%s → %ssus4 → %s", fromBase, fromBase, toBase))
	}

	if len(options) == 0 {
		options = append(options, fmt.Sprintf("%s → %s", fromBase, toBase))
	}
	return options
}

// Transition is the JSON shape for a key-change suggestion.
type Transition struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	Compatibility string   `json:"compatibility"`
	Distance      int      `json:"distance"`
	Progressions  []string `json:"progressions"`
}

// Suggest bundles compatibility, distance and pivot progressions.
func Suggest(from, to string) Transition {
	return Transition{
		From:          from,
		To:            to,
		Compatibility: Check(from, to).String(),
		Distance:      Distance(from, to),
		Progressions:  PivotChords(from, to),
	}
}
