package notation

import (
	"strings"
	"testing"
)

func TestParseSimpleChordLine(t *testing.T) {
	doc := Parse("[G]Amazing [D]grace")

	if len(doc.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(doc.Lines))
	}
	segs := doc.Lines[0].Segments
	if len(segs) != 2 {
		t.Fatalf("Expected 2 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Chord != "G" || segs[0].Lyric != "Amazing " {
		t.Errorf("Segment 0: expected G/\"Amazing \", got %q/%q", segs[0].Chord, segs[0].Lyric)
	}
	if segs[1].Chord != "D" || segs[1].Lyric != "grace" {
		t.Errorf("Segment 1: expected D/\"grace\", got %q/%q", segs[1].Chord, segs[1].Lyric)
	}

	if len(doc.Chords) != 2 || doc.Chords[0] != "G" || doc.Chords[1] != "D" {
		t.Errorf("Expected chord set [G D], got %v", doc.Chords)
	}
}

func TestLeadingTextBecomesLyricOnlySegment(t *testing.T) {
	doc := Parse("Oh, [C]sing")

	segs := doc.Lines[0].Segments
	if len(segs) != 2 {
		t.Fatalf("Expected 2 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].HasChord {
		t.Error("Leading segment must not carry a chord")
	}
	if segs[0].Lyric != "Oh, " {
		t.Errorf("Expected leading lyric %q, got %q", "Oh, ", segs[0].Lyric)
	}
	if segs[1].Chord != "C" || segs[1].Lyric != "sing" {
		t.Errorf("Segment 1: expected C/\"sing\", got %q/%q", segs[1].Chord, segs[1].Lyric)
	}
}

func TestChordSetDeduplicatesInFirstAppearanceOrder(t *testing.T) {
	doc := Parse("[G]la [C]la [G]la\n[D]da [C]da")

	expected := []string{"G", "C", "D"}
	if len(doc.Chords) != len(expected) {
		t.Fatalf("Expected %d chords, got %v", len(expected), doc.Chords)
	}
	for i, c := range expected {
		if doc.Chords[i] != c {
			t.Errorf("Chord %d: expected %q, got %q", i, c, doc.Chords[i])
		}
	}
}

func TestDirectiveLinesAreSkippedFromRendering(t *testing.T) {
	doc := Parse("{title: Amazing Grace}\n{artist: John Newton}\n{key: G}\n{tempo: 72}\n{soc}\n[G]la")

	if len(doc.Lines) != 1 {
		t.Fatalf("Expected directives to be excluded, got %d lines", len(doc.Lines))
	}
	if doc.Title != "Amazing Grace" {
		t.Errorf("Expected title captured, got %q", doc.Title)
	}
	if doc.Artist != "John Newton" {
		t.Errorf("Expected artist captured, got %q", doc.Artist)
	}
	if doc.Key != "G" {
		t.Errorf("Expected key captured, got %q", doc.Key)
	}
	if doc.Tempo != 72 {
		t.Errorf("Expected tempo 72, got %d", doc.Tempo)
	}
}

func TestEmptyAndBlankLines(t *testing.T) {
	doc := Parse("[C]la\n\n   \nda")

	if len(doc.Lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[0].Empty {
		t.Error("Chord line must not be empty")
	}
	if !doc.Lines[1].Empty {
		t.Error("Blank line must be empty")
	}
	if !doc.Lines[2].Empty {
		t.Error("Whitespace-only line must be empty")
	}
	if doc.Lines[3].Empty {
		t.Error("Lyric-only line must not be empty")
	}
}

func TestUnterminatedBracketIsInertText(t *testing.T) {
	doc := Parse("la [G la")

	segs := doc.Lines[0].Segments
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment, got %d: %+v", len(segs), segs)
	}
	if segs[0].HasChord {
		t.Error("Unterminated bracket must not create a chord segment")
	}
	if segs[0].Lyric != "la [G la" {
		t.Errorf("Expected raw text preserved, got %q", segs[0].Lyric)
	}
	if len(doc.Chords) != 0 {
		t.Errorf("Expected no chords, got %v", doc.Chords)
	}
}

func TestEmptyBracketsProduceBlankChordCell(t *testing.T) {
	doc := Parse("[]la")

	segs := doc.Lines[0].Segments
	if len(segs) != 1 || !segs[0].HasChord || segs[0].Chord != "" {
		t.Fatalf("Expected one blank chord segment, got %+v", segs)
	}
	if len(doc.Chords) != 0 {
		t.Errorf("Blank chord must not enter the chord set, got %v", doc.Chords)
	}
}

func TestAdjacentChordTokens(t *testing.T) {
	doc := Parse("[G][D]la")

	segs := doc.Lines[0].Segments
	if len(segs) != 2 {
		t.Fatalf("Expected 2 segments, got %+v", segs)
	}
	if segs[0].Lyric != "" {
		t.Errorf("First chord should keep empty lyric, got %q", segs[0].Lyric)
	}
	if segs[1].Lyric != "la" {
		t.Errorf("Trailing text belongs to last chord, got %q", segs[1].Lyric)
	}
}

func TestLargeChartStaysLinear(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteString("[G]Amazing [D]grace how [Em]sweet the [C]sound\n")
	}

	doc := Parse(b.String())

	if len(doc.Lines) != 501 { // trailing newline yields a final empty line
		t.Fatalf("Expected 501 lines, got %d", len(doc.Lines))
	}
	if len(doc.Chords) != 4 {
		t.Errorf("Expected 4 distinct chords, got %v", doc.Chords)
	}
}
