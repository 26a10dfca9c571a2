// Package playback holds the media playback state machine. The state
// object is the single source of truth for the chart display; an
// external media driver pushes readiness, time ticks and errors into
// it, and user actions funnel through its mutators. Every driver call
// is best-effort: with no driver attached the internal state still
// updates so the UI stays consistent without media hardware.
package playback

import (
	"math"
	"sync"

	"chordsync-go/logcolors"
	"chordsync-go/stats"

	log "github.com/sirupsen/logrus"
)

// Driver is the engine's view of the external media player.
type Driver interface {
	Play()
	Pause()
	Seek(t float64)
	SetVolume(v int)
	SetRate(r float64)
	Mute()
	Unmute()
}

// Status is the playback lifecycle state.
type Status int

const (
	StatusUnready Status = iota // no media source, or source not loaded yet
	StatusReady                 // driver signalled readiness, duration known
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusUnready:
		return "UNREADY"
	case StatusReady:
		return "READY"
	case StatusPlaying:
		return "PLAYING"
	case StatusPaused:
		return "PAUSED"
	default:
		return "UNKNOWN"
	}
}

// Rates is the discrete set of supported playback rates. External
// writes snap to the nearest member.
var Rates = []float64{0.25, 0.5, 0.75, 1.0, 1.25, 1.5, 1.75, 2.0}

// SnapRate returns the member of Rates nearest to r.
func SnapRate(r float64) float64 {
	best := Rates[0]
	for _, candidate := range Rates[1:] {
		if math.Abs(candidate-r) < math.Abs(best-r) {
			best = candidate
		}
	}
	return best
}

// Snapshot is a point-in-time copy of the playback state for the UI.
type Snapshot struct {
	SourceID    string  `json:"sourceId"`
	Status      string  `json:"status"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Volume      int     `json:"volume"`
	Muted       bool    `json:"isMuted"`
	Rate        float64 `json:"rate"`
	LoopStart   float64 `json:"loopStart,omitempty"`
	LoopEnd     float64 `json:"loopEnd,omitempty"`
	HasLoop     bool    `json:"hasLoop"`
	Looping     bool    `json:"isLooping"`
}

// State is the playback state machine. Mutators are atomic: callers
// must never assume intermediate values are observable.
type State struct {
	mu     sync.Mutex
	driver Driver

	sourceID    string
	status      Status
	currentTime float64
	duration    float64
	volume      int
	lastVolume  int
	muted       bool
	rate        float64

	loopStart    float64
	loopEnd      float64
	hasLoopStart bool
	hasLoopEnd   bool
	looping      bool

	onError func(code int)
}

// New creates a playback state bound to a driver. driver may be nil.
func New(driver Driver) *State {
	return &State{
		driver:     driver,
		status:     StatusUnready,
		volume:     100,
		lastVolume: 100,
		rate:       1.0,
	}
}

// OnError registers the callback that receives driver error codes
// unmodified. The state machine never retries on its own.
func (s *State) OnError(fn func(code int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}

// SetSource switches to a new media source. A new source invalidates
// all position state.
func (s *State) SetSource(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Infof("%s Source changed to %q, resetting position state", logcolors.LogPlayback, id)
	s.sourceID = id
	s.currentTime = 0
	s.duration = 0
	s.status = StatusUnready
}

// HandleReady records the duration reported by the driver and pushes
// the remembered volume and rate down so driver and state agree.
func (s *State) HandleReady(duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.duration = duration
	if s.status == StatusUnready {
		s.status = StatusReady
	}
	if s.driver != nil {
		s.driver.SetVolume(s.volume)
		s.driver.SetRate(s.rate)
	}
	log.Debugf("%s Ready, duration=%.2fs", logcolors.LogPlayback, duration)
}

// HandleTick stores the driver-reported time, enforcing the loop-wrap
// contract: while looping with both bounds set, the stored time never
// advances past the loop end. The overshooting tick turns into a seek
// back to the loop start; the driver's next tick reports the post-seek
// time.
func (s *State) HandleTick(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats.Get().RecordTick()
	if s.looping && s.hasLoopStart && s.hasLoopEnd && t >= s.loopEnd {
		stats.Get().RecordLoopWrap()
		log.Debugf("%s Loop wrap at %.2fs, seeking to %.2fs", logcolors.LogPlayback, t, s.loopStart)
		if s.driver != nil {
			s.driver.Seek(s.loopStart)
		}
		return
	}
	s.currentTime = t
}

// HandleStateChange mirrors the driver's playing/paused signal once the
// source is ready.
func (s *State) HandleStateChange(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusUnready {
		return
	}
	if playing {
		s.status = StatusPlaying
	} else {
		s.status = StatusPaused
	}
}

// HandleError forwards a driver-reported error code upward unmodified.
func (s *State) HandleError(code int) {
	s.mu.Lock()
	fn := s.onError
	s.mu.Unlock()

	log.Warnf("%s Driver reported error code %d", logcolors.LogPlayback, code)
	if fn != nil {
		fn(code)
	}
}

// Play starts playback through the driver.
func (s *State) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.driver != nil {
		s.driver.Play()
	}
	if s.status != StatusUnready {
		s.status = StatusPlaying
	}
}

// Pause pauses playback through the driver.
func (s *State) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.driver != nil {
		s.driver.Pause()
	}
	if s.status != StatusUnready {
		s.status = StatusPaused
	}
}

// SetVolume clamps v into 0..100 and pushes it to the driver. Zero
// implies muted; any other value unmutes and is remembered for the
// next unmute.
func (s *State) SetVolume(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}

	s.volume = v
	if v == 0 {
		s.muted = true
	} else {
		s.muted = false
		s.lastVolume = v
	}
	if s.driver != nil {
		s.driver.SetVolume(v)
	}
}

// ToggleMute flips the mute flag, restoring the last non-zero volume
// on unmute.
func (s *State) ToggleMute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.muted {
		s.muted = false
		s.volume = s.lastVolume
		if s.driver != nil {
			s.driver.Unmute()
			s.driver.SetVolume(s.volume)
		}
	} else {
		if s.volume > 0 {
			s.lastVolume = s.volume
		}
		s.muted = true
		if s.driver != nil {
			s.driver.Mute()
		}
	}
}

// SetRate snaps r to the nearest supported rate before storing and
// pushing it; an unsupported rate is never stored.
func (s *State) SetRate(r float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rate = SnapRate(r)
	if s.driver != nil {
		s.driver.SetRate(s.rate)
	}
}

// Seek clamps t into [0, duration], pushes it to the driver and stores
// the result.
func (s *State) Seek(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(t)
}

// SeekRelative seeks by a signed offset from the current time.
func (s *State) SeekRelative(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(s.currentTime + delta)
}

func (s *State) seekLocked(t float64) {
	if t < 0 {
		t = 0
	}
	if s.duration > 0 && t > s.duration {
		t = s.duration
	}
	if s.driver != nil {
		s.driver.Seek(t)
	}
	s.currentTime = t
}

// SetLoopStart sets the loop start, clamping an end that would fall
// before it.
func (s *State) SetLoopStart(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loopStart = t
	s.hasLoopStart = true
	if s.hasLoopEnd && s.loopEnd < t {
		s.loopEnd = t
	}
}

// SetLoopEnd sets the loop end, clamped up to the start when both are
// set.
func (s *State) SetLoopEnd(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasLoopStart && t < s.loopStart {
		t = s.loopStart
	}
	s.loopEnd = t
	s.hasLoopEnd = true
}

// ToggleLoop flips loop mode. The wrap contract only engages once both
// bounds are set.
func (s *State) ToggleLoop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.looping = !s.looping
}

// ClearLoop resets both bounds and disables looping atomically.
func (s *State) ClearLoop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loopStart = 0
	s.loopEnd = 0
	s.hasLoopStart = false
	s.hasLoopEnd = false
	s.looping = false
}

// CurrentTime returns the last stored playback time.
func (s *State) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTime
}

// Status returns the lifecycle state.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Get returns a point-in-time snapshot for the UI.
func (s *State) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		SourceID:    s.sourceID,
		Status:      s.status.String(),
		CurrentTime: s.currentTime,
		Duration:    s.duration,
		Volume:      s.volume,
		Muted:       s.muted,
		Rate:        s.rate,
		LoopStart:   s.loopStart,
		LoopEnd:     s.loopEnd,
		HasLoop:     s.hasLoopStart && s.hasLoopEnd,
		Looping:     s.looping,
	}
}
