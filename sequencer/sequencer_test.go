package sequencer

import (
	"testing"

	"chordsync-go/playback"
)

// fakeSynth records note on/off calls and tracks sounding notes.
type fakeSynth struct {
	ons      [][]int // notes triggered per step
	sounding map[int]bool
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{sounding: make(map[int]bool)}
}

func (f *fakeSynth) NoteOn(note, velocity int) {
	if len(f.ons) == 0 {
		f.ons = append(f.ons, nil)
	}
	last := len(f.ons) - 1
	f.ons[last] = append(f.ons[last], note)
	f.sounding[note] = true
}

func (f *fakeSynth) NoteOff(note int) {
	delete(f.sounding, note)
}

// beginStep marks a step boundary for assertion purposes.
func (f *fakeSynth) beginStep() {
	f.ons = append(f.ons, nil)
}

func previewSetup(t *testing.T, cfg Config) (*Sequencer, *fakeSynth, *playback.ManualScheduler) {
	t.Helper()

	synth := newFakeSynth()
	sched := &playback.ManualScheduler{}
	seq := New(synth, sched, cfg)
	return seq, synth, sched
}

func TestStartTriggersFirstChordImmediately(t *testing.T) {
	seq, synth, _ := previewSetup(t, Config{Octave: 4})
	if err := seq.SetChords([]string{"C", "G"}); err != nil {
		t.Fatalf("SetChords failed: %v", err)
	}

	if err := seq.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if len(synth.ons) != 1 {
		t.Fatalf("Expected one chord triggered on start, got %d", len(synth.ons))
	}
	expected := []int{60, 64, 67}
	for i, n := range expected {
		if synth.ons[0][i] != n {
			t.Errorf("Expected C major pitches %v, got %v", expected, synth.ons[0])
			break
		}
	}
}

func TestStepReleasesPreviousVoicesBeforeNext(t *testing.T) {
	seq, synth, sched := previewSetup(t, Config{Octave: 4})
	seq.SetChords([]string{"C", "Am7"})
	seq.Start()

	synth.beginStep()
	sched.Tick()

	// After the second step only Am7's voices may sound.
	expected := map[int]bool{69: true, 72: true, 76: true, 79: true}
	if len(synth.sounding) != len(expected) {
		t.Fatalf("Expected %d sounding notes, got %v", len(expected), synth.sounding)
	}
	for n := range expected {
		if !synth.sounding[n] {
			t.Errorf("Expected note %d sounding, got %v", n, synth.sounding)
		}
	}
}

func TestSequenceStopsAfterLastChordWithoutLoop(t *testing.T) {
	seq, synth, sched := previewSetup(t, Config{Octave: 4, Loop: false})
	seq.SetChords([]string{"C", "G"})
	seq.Start()

	synth.beginStep()
	sched.Tick() // G
	synth.beginStep()
	sched.Tick() // past the end: stops

	if seq.Running() {
		t.Error("Expected sequencer stopped after last chord")
	}
	if len(synth.sounding) != 0 {
		t.Errorf("Expected all voices released at end, got %v", synth.sounding)
	}
}

func TestLoopWrapsToFirstChord(t *testing.T) {
	seq, synth, sched := previewSetup(t, Config{Octave: 4, Loop: true})
	seq.SetChords([]string{"C", "G"})
	seq.Start()

	synth.beginStep()
	sched.Tick() // G
	synth.beginStep()
	sched.Tick() // wraps to C

	if !seq.Running() {
		t.Fatal("Expected looping sequencer to keep running")
	}
	last := synth.ons[len(synth.ons)-1]
	if len(last) == 0 || last[0] != 60 {
		t.Errorf("Expected wrap back to C major, got %v", last)
	}
}

func TestSetChordsDisposesPreviousScheduleAndVoices(t *testing.T) {
	seq, synth, sched := previewSetup(t, Config{Octave: 4, Loop: true})
	seq.SetChords([]string{"C"})
	seq.Start()

	synth.beginStep()
	if err := seq.SetChords([]string{"Dm"}); err != nil {
		t.Fatalf("SetChords failed: %v", err)
	}

	// rebuilding while running restarts from the new list's first chord
	expected := map[int]bool{62: true, 65: true, 69: true}
	if len(synth.sounding) != len(expected) {
		t.Fatalf("Expected only Dm voices after rebuild, got %v", synth.sounding)
	}
	for n := range expected {
		if !synth.sounding[n] {
			t.Errorf("Expected note %d sounding, got %v", n, synth.sounding)
		}
	}
	if !sched.Running() {
		t.Error("Expected schedule rebuilt and running")
	}
}

func TestTempoChangeUpdatesInterval(t *testing.T) {
	seq, _, sched := previewSetup(t, Config{TempoBPM: 60, BeatsPerChord: 1, Octave: 4})
	seq.SetChords([]string{"C"})
	seq.Start()

	if sched.Interval.Seconds() != 1.0 {
		t.Errorf("Expected 1s interval at 60 BPM / 1 beat, got %v", sched.Interval)
	}

	if err := seq.SetTempo(120, 2); err != nil {
		t.Fatalf("SetTempo failed: %v", err)
	}
	if sched.Interval.Seconds() != 1.0 {
		t.Errorf("Expected 1s interval at 120 BPM / 2 beats, got %v", sched.Interval)
	}

	if err := seq.SetTempo(120, 4); err != nil {
		t.Fatalf("SetTempo failed: %v", err)
	}
	if sched.Interval.Seconds() != 2.0 {
		t.Errorf("Expected 2s interval at 120 BPM / 4 beats, got %v", sched.Interval)
	}
}

func TestStopReleasesVoicesSynchronously(t *testing.T) {
	seq, synth, sched := previewSetup(t, Config{Octave: 4, Loop: true})
	seq.SetChords([]string{"C/E"})
	seq.Start()

	seq.Stop()

	if len(synth.sounding) != 0 {
		t.Errorf("Expected silence after stop, got %v", synth.sounding)
	}
	if sched.Running() {
		t.Error("Expected schedule disposed on stop")
	}

	sched.Tick()
	if len(synth.sounding) != 0 {
		t.Errorf("Expected stale tick to be inert, got %v", synth.sounding)
	}
}

func TestClosedSequencerRejectsMutation(t *testing.T) {
	seq, _, _ := previewSetup(t, Config{Octave: 4})
	seq.Close()

	if err := seq.SetChords([]string{"C"}); err != ErrDisposed {
		t.Errorf("Expected ErrDisposed, got %v", err)
	}
	if err := seq.Start(); err != ErrDisposed {
		t.Errorf("Expected ErrDisposed, got %v", err)
	}
}

func TestSilentSynthForUnknownChordStillAdvances(t *testing.T) {
	seq, synth, sched := previewSetup(t, Config{Octave: 4, Loop: true})
	seq.SetChords([]string{"???", "G"})
	seq.Start()

	// garbage falls back to C major, preview keeps playing
	if len(synth.ons[0]) != 3 || synth.ons[0][0] != 60 {
		t.Errorf("Expected C major fallback voicing, got %v", synth.ons[0])
	}

	synth.beginStep()
	sched.Tick()
	last := synth.ons[len(synth.ons)-1]
	if len(last) == 0 || last[0] != 67 {
		t.Errorf("Expected G major next, got %v", last)
	}
}
