// Package notation parses inline bracket chord charts:
//
//	[G]Amazing [D]grace how [Em]sweet the [C]sound
//
// The parser is deliberately permissive. Unmatched brackets, stray
// characters and empty brackets never fail; they just produce odd but
// renderable segments.
package notation

import (
	"regexp"
	"strconv"
	"strings"

	"chordsync-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// chordToken matches a bracket-delimited chord token anywhere in a line.
var chordToken = regexp.MustCompile(`\[([^\]]*)\]`)

// directive matches ChordPro metadata lines like {title: Amazing Grace}
// or bare {soc} markers.
var directive = regexp.MustCompile(`^\{(\w+):?\s*([^}]*)\}`)

// Segment is one chord/lyric pairing within a line. HasChord
// distinguishes a lyric-only segment from an empty-bracket chord cell.
type Segment struct {
	Chord    string `json:"chord,omitempty"`
	HasChord bool   `json:"hasChord"`
	Lyric    string `json:"lyric"`
}

// Line is an ordered sequence of segments. Empty holds for zero
// segments, or a single chordless segment with blank lyric.
type Line struct {
	Segments []Segment `json:"segments"`
	Empty    bool      `json:"isEmpty"`
}

// Document is a fully parsed chord chart. Chords is the de-duplicated
// set of chord symbol texts in order of first appearance. Metadata
// directives that the chart declares are captured; all other directive
// lines are skipped from rendering.
type Document struct {
	Title  string   `json:"title,omitempty"`
	Artist string   `json:"artist,omitempty"`
	Key    string   `json:"key,omitempty"`
	Tempo  int      `json:"tempo,omitempty"`
	Lines  []Line   `json:"lines"`
	Chords []string `json:"chords"`
}

// Parse scans raw multi-line bracket notation into a Document. It
// never returns an error: malformed input degrades to plain lyric
// segments.
func Parse(text string) *Document {
	doc := &Document{}
	seen := make(map[string]bool)

	rawLines := strings.Split(text, "\n")
	for _, raw := range rawLines {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "{") {
			doc.applyDirective(trimmed)
			continue
		}

		line := parseLine(raw)
		for _, seg := range line.Segments {
			if !seg.HasChord {
				continue
			}
			symbol := strings.TrimSpace(seg.Chord)
			if symbol == "" || seen[symbol] {
				continue
			}
			seen[symbol] = true
			doc.Chords = append(doc.Chords, symbol)
		}
		doc.Lines = append(doc.Lines, line)
	}

	log.Debugf("%s Parsed %d lines, %d distinct chords", logcolors.LogParser, len(doc.Lines), len(doc.Chords))
	return doc
}

// parseLine splits one line into chord-bearing and lyric-only segments.
// Text between chord tokens attaches to the preceding segment when its
// lyric slot is still open; leading text becomes a lyric-only segment
// so a chordless intro never hides behind a chord cell.
func parseLine(raw string) Line {
	var segs []Segment

	locs := chordToken.FindAllStringSubmatchIndex(raw, -1)
	prev := 0
	for _, loc := range locs {
		if text := raw[prev:loc[0]]; text != "" {
			segs = attachLyric(segs, text)
		}
		segs = append(segs, Segment{Chord: raw[loc[2]:loc[3]], HasChord: true})
		prev = loc[1]
	}
	if text := raw[prev:]; text != "" {
		segs = attachLyric(segs, text)
	}

	empty := len(segs) == 0 ||
		(len(segs) == 1 && !segs[0].HasChord && strings.TrimSpace(segs[0].Lyric) == "")

	return Line{Segments: segs, Empty: empty}
}

// attachLyric appends lyric text to the last segment when its lyric is
// still empty, otherwise starts a new lyric-only segment.
func attachLyric(segs []Segment, text string) []Segment {
	if n := len(segs); n > 0 && segs[n-1].Lyric == "" {
		segs[n-1].Lyric = text
		return segs
	}
	return append(segs, Segment{Lyric: text})
}

// applyDirective records known metadata directives and silently skips
// everything else ({soc}, {comment: ...} and friends).
func (d *Document) applyDirective(line string) {
	m := directive.FindStringSubmatch(line)
	if m == nil {
		return
	}
	name := strings.ToLower(m[1])
	value := strings.TrimSpace(m[2])

	switch name {
	case "title", "t":
		d.Title = value
	case "artist", "subtitle", "st":
		d.Artist = value
	case "key":
		d.Key = value
	case "tempo":
		if bpm, err := strconv.Atoi(value); err == nil {
			d.Tempo = bpm
		} else {
			log.Debugf("%s Ignoring non-numeric tempo directive: %q", logcolors.LogParser, value)
		}
	}
}
