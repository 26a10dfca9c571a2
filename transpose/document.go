package transpose

import (
	"chordsync-go/logcolors"
	"chordsync-go/notation"

	log "github.com/sirupsen/logrus"
)

// Document returns a copy of doc with every chord token (including
// slash basses) shifted by delta semitones. The declared key moves with
// the chart so the metadata stays truthful.
func Document(doc *notation.Document, delta int) *notation.Document {
	out := &notation.Document{
		Title:  doc.Title,
		Artist: doc.Artist,
		Key:    Key(doc.Key, delta),
		Tempo:  doc.Tempo,
		Lines:  make([]notation.Line, len(doc.Lines)),
		Chords: make([]string, len(doc.Chords)),
	}

	for i, line := range doc.Lines {
		segs := make([]notation.Segment, len(line.Segments))
		copy(segs, line.Segments)
		for j := range segs {
			if segs[j].HasChord {
				segs[j].Chord = Chord(segs[j].Chord, delta)
			}
		}
		out.Lines[i] = notation.Line{Segments: segs, Empty: line.Empty}
	}

	for i, c := range doc.Chords {
		out.Chords[i] = Chord(c, delta)
	}

	log.Debugf("%s Transposed document by %+d semitones (%d chords)", logcolors.LogTranspose, delta, len(out.Chords))
	return out
}
