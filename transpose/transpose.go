// Package transpose shifts chord symbols and song keys between keys.
// Output spelling is sharp-canonical: flats are accepted on input and
// come back as their sharp equivalents.
package transpose

import (
	"strings"

	"chordsync-go/chord"
)

// shiftRoot moves a single pitch-class spelling by delta semitones
// within the chromatic ordering. Unknown spellings pass through
// unchanged.
func shiftRoot(root string, delta int) string {
	idx, ok := chord.Semitone(root)
	if !ok {
		return root
	}
	next := ((idx+delta)%12 + 12) % 12
	return chord.ChromaticSharp[next]
}

// Chord transposes a chord symbol by delta semitones. Only the root
// (and the bass of a slash chord) move; the quality suffix is carried
// verbatim. A symbol with no recognizable root is returned unchanged.
func Chord(symbol string, delta int) string {
	main := symbol
	bass := ""
	if i := strings.Index(symbol, "/"); i >= 0 {
		main = symbol[:i]
		bass = symbol[i+1:]
	}

	root, quality, ok := chord.SplitRoot(main)
	if !ok {
		return symbol
	}
	out := shiftRoot(root, delta) + quality

	if bass != "" {
		if bassRoot, bassRest, bok := chord.SplitRoot(bass); bok {
			out += "/" + shiftRoot(bassRoot, delta) + bassRest
		} else {
			out += "/" + bass
		}
	}
	return out
}

// Key transposes a key name by delta semitones, preserving a trailing
// minor marker independently of the shift. Unknown keys are a no-op.
func Key(key string, delta int) string {
	base := key
	minor := false
	if strings.HasSuffix(key, "m") && len(key) > 1 {
		base = key[:len(key)-1]
		minor = true
	}

	if _, ok := chord.Semitone(base); !ok {
		return key
	}
	out := shiftRoot(base, delta)
	if minor {
		out += "m"
	}
	return out
}

// Delta computes the semitone shift that takes fromKey to toKey,
// normalized into [0,12). Minor markers are ignored for the distance;
// unknown keys contribute zero.
func Delta(fromKey, toKey string) int {
	from := strings.TrimSuffix(fromKey, "m")
	to := strings.TrimSuffix(toKey, "m")

	fromIdx, _ := chord.Semitone(from)
	toIdx, _ := chord.Semitone(to)
	return ((toIdx-fromIdx)%12 + 12) % 12
}
