// Package sequencer schedules audible chord preview: a flat chord list
// played as a metronome-quantized sequence through a pool of synth
// voices. The sequencer clock is independent of media playback; chord
// preview and video position are separate timelines.
package sequencer

import (
	"errors"
	"sync"
	"time"

	"chordsync-go/chord"
	"chordsync-go/logcolors"
	"chordsync-go/playback"
	"chordsync-go/stats"

	log "github.com/sirupsen/logrus"
)

// ErrDisposed is returned by mutators on a closed sequencer.
var ErrDisposed = errors.New("sequencer: disposed")

// Synth is the voice pool preview plays through. Implementations must
// tolerate NoteOff for notes that already stopped.
type Synth interface {
	NoteOn(note int, velocity int)
	NoteOff(note int)
}

// Config holds the musical parameters of a preview run.
type Config struct {
	TempoBPM      float64 // quarter-note tempo
	BeatsPerChord float64 // metronome quantization, e.g. 4 = one chord per bar
	Octave        int     // octave the chords are voiced in
	Velocity      int
	Loop          bool // restart from the first chord after the last
}

// Sequencer steps through a chord list on its own scheduler. Scheduled
// sequences and sounding voices are finite resources: SetChords and
// Close always dispose the previous schedule and release every active
// voice before anything new starts, so no ghost notes survive a
// rebuild.
type Sequencer struct {
	mu     sync.Mutex
	synth  Synth
	sched  playback.Scheduler
	cfg    Config
	chords []string

	index    int
	active   []int
	running  bool
	disposed bool
}

// New creates a sequencer playing through synth on sched.
func New(synth Synth, sched playback.Scheduler, cfg Config) *Sequencer {
	if cfg.TempoBPM <= 0 {
		cfg.TempoBPM = 80
	}
	if cfg.BeatsPerChord <= 0 {
		cfg.BeatsPerChord = 4
	}
	if cfg.Velocity <= 0 || cfg.Velocity > 127 {
		cfg.Velocity = 96
	}
	return &Sequencer{synth: synth, sched: sched, cfg: cfg}
}

// interval is the quantized duration of one chord step.
func (s *Sequencer) interval() time.Duration {
	seconds := s.cfg.BeatsPerChord * 60.0 / s.cfg.TempoBPM
	return time.Duration(seconds * float64(time.Second))
}

// SetChords replaces the chord list. Any running schedule is disposed
// and rebuilt from the first chord; still-sounding voices are released
// first.
func (s *Sequencer) SetChords(chords []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}

	wasRunning := s.running
	s.stopLocked()

	s.chords = make([]string, len(chords))
	copy(s.chords, chords)
	s.index = 0

	if wasRunning {
		s.startLocked()
	}
	return nil
}

// SetTempo changes the tempo and subdivision, rebuilding the schedule
// when one is running.
func (s *Sequencer) SetTempo(bpm, beatsPerChord float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	if bpm > 0 {
		s.cfg.TempoBPM = bpm
	}
	if beatsPerChord > 0 {
		s.cfg.BeatsPerChord = beatsPerChord
	}

	if s.running {
		s.stopLocked()
		s.startLocked()
	}
	return nil
}

// SetVoicing changes the octave chords are voiced in and whether the
// sequence loops. Takes effect from the next step.
func (s *Sequencer) SetVoicing(octave int, loop bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	s.cfg.Octave = octave
	s.cfg.Loop = loop
	return nil
}

// Start begins (or restarts) the preview from the current position.
func (s *Sequencer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	if s.running {
		return nil
	}
	s.startLocked()
	log.Infof("%s Preview started: %d chords at %.0f BPM, %g beats/chord",
		logcolors.LogSequencer, len(s.chords), s.cfg.TempoBPM, s.cfg.BeatsPerChord)
	return nil
}

// Stop halts the schedule and releases all sounding voices
// synchronously.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Close stops the sequencer and marks it disposed.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.disposed = true
}

// Running reports whether a schedule is active.
func (s *Sequencer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sequencer) startLocked() {
	s.running = true
	s.sched.Start(s.interval(), s.step)
	// the first chord sounds immediately rather than one interval in
	s.stepLocked()
}

func (s *Sequencer) stopLocked() {
	if !s.running {
		return
	}
	s.sched.Stop()
	s.releaseLocked()
	s.running = false
}

// releaseLocked silences every voice the sequencer started.
func (s *Sequencer) releaseLocked() {
	for _, note := range s.active {
		s.synth.NoteOff(note)
	}
	s.active = nil
}

// step is one metronome tick: release the previous chord's voices,
// then trigger the next chord's pitch set. Notes never stack across
// chord changes.
func (s *Sequencer) step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepLocked()
}

func (s *Sequencer) stepLocked() {
	if !s.running {
		return
	}
	s.releaseLocked()

	if len(s.chords) == 0 {
		return
	}
	if s.index >= len(s.chords) {
		if !s.cfg.Loop {
			s.sched.Stop()
			s.running = false
			log.Infof("%s Preview finished", logcolors.LogSequencer)
			return
		}
		s.index = 0
	}

	symbol := s.chords[s.index]
	ps := chord.ToMIDINotes(symbol, s.cfg.Octave)
	if ps.LowConfidence {
		log.Debugf("%s Low-confidence voicing for %q", logcolors.LogSequencer, symbol)
	}
	for _, note := range ps.Notes {
		s.synth.NoteOn(note, s.cfg.Velocity)
	}
	s.active = append(s.active[:0], ps.Notes...)
	stats.Get().RecordPreviewTrigger()
	s.index++
}
